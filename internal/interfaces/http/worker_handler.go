package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/application/provisioning"
	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
)

// ProfileInvalidator descarta el perfil cacheado de un usuario eliminado.
type ProfileInvalidator interface {
	Invalidate(id string)
}

// WorkerHandler solicitudes de cajero, su aprobación y la baja de usuarios.
type WorkerHandler struct {
	uc    *provisioning.UseCase
	cache ProfileInvalidator
}

// NewWorkerHandler construye el handler. cache puede ser nil.
func NewWorkerHandler(uc *provisioning.UseCase, cache ProfileInvalidator) *WorkerHandler {
	return &WorkerHandler{uc: uc, cache: cache}
}

// CreateRequest godoc
// @Summary      Solicitar una cuenta de cajero
// @Description  Solo un dueño aprobado. La solicitud queda pendiente hasta que un admin la apruebe.
// @Tags         worker-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkerRequestRequest  true  "Datos del cajero"
// @Success      201   {object}  dto.WorkerRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/worker-requests [post]
func (h *WorkerHandler) CreateRequest(c *fiber.Ctx) error {
	var in dto.CreateWorkerRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	req, err := h.uc.CreateRequest(c.Context(), GetUserID(c), provisioning.CreateRequestInput{
		WorkerFullName: in.WorkerFullName,
		WorkerEmail:    in.WorkerEmail,
		TempPassword:   in.TempPassword,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toWorkerRequestResponse(req))
}

// ListOwn godoc
// @Summary      Mis solicitudes de cajero
// @Tags         worker-requests
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.WorkerRequestResponse
// @Router       /api/worker-requests [get]
func (h *WorkerHandler) ListOwn(c *fiber.Ctx) error {
	list, err := h.uc.ListOwn(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toWorkerRequestResponses(list))
}

// ListPending godoc
// @Summary      Solicitudes pendientes (admin)
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.WorkerRequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/worker-requests [get]
func (h *WorkerHandler) ListPending(c *fiber.Ctx) error {
	list, err := h.uc.ListPending(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toWorkerRequestResponses(list))
}

// Approve godoc
// @Summary      Aprobar solicitud (admin)
// @Description  Crea la cuenta del cajero con la contraseña temporal de la solicitud.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/worker-requests/{id}/approve [post]
func (h *WorkerHandler) Approve(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.uc.Approve(c.Context(), GetUserID(c), provisioning.ApproveInput{RequestID: id})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: approveMessage(res)})
}

// Reject godoc
// @Summary      Rechazar solicitud (admin)
// @Tags         admin
// @Security     Bearer
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/worker-requests/{id}/reject [post]
func (h *WorkerHandler) Reject(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Reject(c.Context(), GetUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteUser godoc
// @Summary      Eliminar usuario y todos sus datos (admin)
// @Tags         admin
// @Security     Bearer
// @Param        id  path  string  true  "ID del usuario"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id} [delete]
func (h *WorkerHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.DeleteUser(c.Context(), GetUserID(c), id); err != nil {
		return respondError(c, err)
	}
	h.invalidate(id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *WorkerHandler) invalidate(id string) {
	if h.cache != nil {
		h.cache.Invalidate(id)
	}
}

// ── Funciones privilegiadas ───────────────────────────────────────────────────
// Conservan el contrato JSON de las funciones originales: 200 {message} o 400 {error}.

// CreateWorkerFunction godoc
// @Summary      Función create-worker
// @Description  Aprueba la solicitud request_id creando la cuenta del cajero.
// @Tags         functions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkerFunctionRequest  true  "Solicitud a aprobar"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.FunctionErrorResponse
// @Router       /functions/v1/create-worker [post]
func (h *WorkerHandler) CreateWorkerFunction(c *fiber.Ctx) error {
	var in dto.CreateWorkerFunctionRequest
	if err := c.BodyParser(&in); err != nil {
		return functionError(c, "cuerpo inválido")
	}
	if in.RequestID == "" || in.WorkerEmail == "" || in.WorkerTempPassword == "" || in.WorkerFullName == "" || in.JefeID == "" {
		return functionError(c, "Faltan parámetros requeridos en la solicitud.")
	}
	if !domain.ValidIDs(in.RequestID, in.JefeID) {
		return functionError(c, "request_id y jefe_id deben ser UUID.")
	}
	// email, nombre y jefe deben coincidir con la solicitud guardada; la cuenta se crea con los datos guardados.
	_, err := h.uc.Approve(c.Context(), GetUserID(c), provisioning.ApproveInput{
		RequestID:      in.RequestID,
		JefeID:         in.JefeID,
		WorkerEmail:    in.WorkerEmail,
		WorkerFullName: in.WorkerFullName,
		TempPassword:   in.WorkerTempPassword,
	})
	if err != nil {
		return functionFailure(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Trabajador creado con éxito"})
}

// DeleteUserFunction godoc
// @Summary      Función delete-user-and-data
// @Description  Elimina la identidad; el borrado en cascada elimina perfil y datos propios.
// @Tags         functions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeleteUserFunctionRequest  true  "Usuario a eliminar"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.FunctionErrorResponse
// @Router       /functions/v1/delete-user-and-data [post]
func (h *WorkerHandler) DeleteUserFunction(c *fiber.Ctx) error {
	var in dto.DeleteUserFunctionRequest
	if err := c.BodyParser(&in); err != nil {
		return functionError(c, "cuerpo inválido")
	}
	if strings.TrimSpace(in.UserID) == "" {
		return functionError(c, "Se requiere el ID del usuario.")
	}
	if !domain.ValidID(in.UserID) {
		return functionError(c, "user_id debe ser un UUID.")
	}
	if err := h.uc.DeleteUser(c.Context(), GetUserID(c), in.UserID); err != nil {
		return functionFailure(c, err)
	}
	h.invalidate(in.UserID)
	return c.JSON(dto.MessageResponse{Message: "Usuario y todos sus datos eliminados con éxito."})
}

func functionError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.FunctionErrorResponse{Error: msg})
}

// functionFailure mantiene el 400 del contrato; un error no clasificado no se expone.
func functionFailure(c *fiber.Ctx, err error) error {
	status, _ := errorStatus(err)
	return functionError(c, clientMessage(c, status, err))
}

func approveMessage(res *provisioning.ApproveResult) string {
	switch {
	case res.AlreadyRegistered:
		return "El email ya estaba registrado; la solicitud se aprobó sin crear una cuenta nueva"
	case !res.StatusUpdated:
		return "Trabajador creado con éxito, pero la solicitud no pudo marcarse como aprobada"
	}
	return "Trabajador creado con éxito"
}

func toWorkerRequestResponse(r *entity.WorkerRequest) dto.WorkerRequestResponse {
	return dto.WorkerRequestResponse{
		ID:             r.ID,
		JefeID:         r.JefeID,
		WorkerFullName: r.WorkerFullName,
		WorkerEmail:    r.WorkerEmail,
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toWorkerRequestResponses(list []*entity.WorkerRequest) []dto.WorkerRequestResponse {
	out := make([]dto.WorkerRequestResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toWorkerRequestResponse(r))
	}
	return out
}
