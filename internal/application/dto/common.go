package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=500"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// RedirectTo destino sugerido cuando el rol no tiene acceso a la ruta.
	RedirectTo string `json:"redirect_to,omitempty"`
}

// MessageResponse respuesta de éxito de las funciones privilegiadas.
type MessageResponse struct {
	Message string `json:"message"`
}

// FunctionErrorResponse respuesta de error (HTTP 400) de las funciones privilegiadas.
type FunctionErrorResponse struct {
	Error string `json:"error"`
}
