// Package remote es el adaptador HTTP de la terminal de caja contra la API de AbastoFlow.
// Implementa el proveedor de autenticación, el cargador de perfiles y las escrituras
// de venta y compra que usa el checkout del lado cliente.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/abastoflow/abastoflow/internal/application/checkout"
	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/application/session"
	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
)

var (
	_ session.AuthProvider    = (*Client)(nil)
	_ session.ProfileLoader   = (*Client)(nil)
	_ checkout.SaleWriter     = (*Client)(nil)
	_ checkout.PurchaseWriter = (*Client)(nil)
)

// maxBody límite de lectura de respuestas; los listados paginados caben de sobra.
const maxBody = 4 << 20

// APIError respuesta de error de la API.
type APIError struct {
	Status     int
	Code       string
	Message    string
	RedirectTo string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API HTTP %d (%s)", e.Status, e.Code)
	}
	return fmt.Sprintf("API HTTP %d (%s): %s", e.Status, e.Code, e.Message)
}

// Unwrap traduce el código de error al error de dominio equivalente, para usar errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "UNAUTHORIZED":
		return domain.ErrUnauthorized
	case "FORBIDDEN":
		return domain.ErrForbidden
	case "NOT_FOUND":
		return domain.ErrNotFound
	case "VALIDATION", "INVALID_BODY":
		return domain.ErrInvalidInput
	case "DUPLICATE":
		return domain.ErrDuplicate
	case "CONFLICT":
		return domain.ErrConflict
	case "INSUFFICIENT_STOCK":
		return domain.ErrInsufficientStock
	case "INVALID_PAYMENT":
		return domain.ErrInvalidPayment
	}
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	}
	return nil
}

// Client cliente de la API con la sesión del operador de caja.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger

	mu       sync.Mutex
	token    string
	identity *entity.Identity
	subs     map[int]chan session.Event
	nextSub  int
}

// NewClient construye el cliente. baseURL sin barra final, p. ej. "http://localhost:8080".
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "remote").Logger(),
		subs:       make(map[int]chan session.Event),
	}
}

// ── Sesión ────────────────────────────────────────────────────────────────────

// SignIn autentica con email y contraseña y publica la nueva sesión.
func (c *Client) SignIn(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	in := dto.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", in, &out); err != nil {
		return nil, err
	}
	c.setSession(out.Token, &entity.Identity{ID: out.User.ID, Email: out.User.Email})
	return &out, nil
}

// Register da de alta un dueño de comercio y abre su sesión (queda en rol pendiente).
func (c *Client) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", in, nil); err != nil {
		return nil, err
	}
	return c.SignIn(ctx, in.Email, in.Password)
}

// Sessions emite la sesión actual y cada cambio posterior. El canal se cierra al cancelar ctx.
func (c *Client) Sessions(ctx context.Context) <-chan session.Event {
	ch := make(chan session.Event, 1)
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- session.Event{Identity: c.identity}
	c.mu.Unlock()

	go func() {
		<-ctx.Done()
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
		close(ch)
	}()
	return ch
}

// SignOut revoca el token en el servidor. La sesión local se limpia siempre;
// el error remoto se devuelve igualmente.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	hasToken := c.token != ""
	c.mu.Unlock()

	var err error
	if hasToken {
		err = c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	}
	c.setSession("", nil)
	return err
}

// Token devuelve el JWT actual o "" sin sesión.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) setSession(token string, identity *entity.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.identity = identity
	ev := session.Event{Identity: identity}
	for _, ch := range c.subs {
		// se conserva solo el último evento si el consumidor se retrasa
		select {
		case <-ch:
		default:
		}
		ch <- ev
	}
}

// GetProfile perfil de la identidad autenticada; nil sin error si aún no tiene perfil.
func (c *Client) GetProfile(ctx context.Context, identityID string) (*entity.Profile, error) {
	var out dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	if out.ID != identityID {
		return nil, fmt.Errorf("remote: el token pertenece a otra identidad")
	}
	if out.Profile == nil {
		return nil, nil
	}
	role, _ := entity.ParseRole(out.Profile.Role)
	return &entity.Profile{
		ID:           out.Profile.ID,
		FullName:     out.Profile.FullName,
		CommerceName: out.Profile.CommerceName,
		CommerceID:   out.Profile.CommerceID,
		Phone:        out.Profile.Phone,
		Role:         role,
		CreatedAt:    out.Profile.CreatedAt,
		UpdatedAt:    out.Profile.UpdatedAt,
	}, nil
}

// ── Catálogo y reportes ───────────────────────────────────────────────────────

// ListProducts página del catálogo del comercio.
func (c *Client) ListProducts(ctx context.Context, limit, offset int) ([]entity.Product, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	var out dto.ProductListResponse
	if err := c.do(ctx, http.MethodGet, "/api/products?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	products := make([]entity.Product, 0, len(out.Items))
	for _, p := range out.Items {
		products = append(products, entity.Product{
			ID:            p.ID,
			CommerceID:    p.CommerceID,
			CategoryID:    p.CategoryID,
			Name:          p.Name,
			SKU:           p.SKU,
			Description:   p.Description,
			SalePrice:     p.SalePrice,
			PurchaseCost:  p.PurchaseCost,
			CurrentStock:  p.CurrentStock,
			MinStockAlert: p.MinStockAlert,
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
		})
	}
	return products, nil
}

// Reports agregados del panel de reportes.
func (c *Client) Reports(ctx context.Context) (*dto.ReportsDTO, error) {
	var out dto.ReportsDTO
	if err := c.do(ctx, http.MethodGet, "/api/reports", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Escrituras de venta ───────────────────────────────────────────────────────

// CreateSale escribe la cabecera de la venta.
func (c *Client) CreateSale(ctx context.Context, s *entity.Sale) error {
	return c.do(ctx, http.MethodPost, "/api/sales", dto.CreateSaleRequest{
		ID:            s.ID,
		CustomerName:  s.CustomerName,
		SaleDate:      s.SaleDate,
		TotalAmount:   s.TotalAmount,
		TotalProfit:   s.TotalProfit,
		PaymentMethod: string(s.PaymentMethod),
		Notes:         s.Notes,
	}, nil)
}

// CreateSaleItems escribe todas las líneas en un solo lote.
func (c *Client) CreateSaleItems(ctx context.Context, items []entity.SaleItem) error {
	in := dto.CreateSaleItemsRequest{Items: make([]dto.SaleItemRequest, 0, len(items))}
	for _, it := range items {
		in.Items = append(in.Items, dto.SaleItemRequest{
			ID:           it.ID,
			SaleID:       it.SaleID,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			PricePerItem: it.PricePerItem,
			CostPerItem:  it.CostPerItem,
		})
	}
	return c.do(ctx, http.MethodPost, "/api/sales/items", in, nil)
}

// DeleteSale borra la cabecera (compensación).
func (c *Client) DeleteSale(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/sales/"+url.PathEscape(id), nil, nil)
}

// ── Escrituras de compra ──────────────────────────────────────────────────────

func (c *Client) CreatePurchase(ctx context.Context, p *entity.Purchase) error {
	return c.do(ctx, http.MethodPost, "/api/purchases", dto.CreatePurchaseRequest{
		ID:           p.ID,
		SupplierName: p.SupplierName,
		PurchaseDate: p.PurchaseDate,
		TotalCost:    p.TotalCost,
		Notes:        p.Notes,
	}, nil)
}

func (c *Client) CreatePurchaseItems(ctx context.Context, items []entity.PurchaseItem) error {
	in := dto.CreatePurchaseItemsRequest{Items: make([]dto.PurchaseItemRequest, 0, len(items))}
	for _, it := range items {
		in.Items = append(in.Items, dto.PurchaseItemRequest{
			ID:          it.ID,
			PurchaseID:  it.PurchaseID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			CostPerItem: it.CostPerItem,
		})
	}
	return c.do(ctx, http.MethodPost, "/api/purchases/items", in, nil)
}

func (c *Client) DeletePurchase(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/purchases/"+url.PathEscape(id), nil, nil)
}

// ── Transporte ────────────────────────────────────────────────────────────────

// do envía in como JSON (si no es nil) y decodifica la respuesta en out (si no es nil).
// Un 401 invalida la sesión local: el token expiró o fue revocado.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("remote: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("remote: crear HTTP request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("remote: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("remote: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("remote: leer respuesta: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		var er dto.ErrorResponse
		if jsonErr := json.Unmarshal(raw, &er); jsonErr == nil {
			apiErr.Code, apiErr.Message, apiErr.RedirectTo = er.Code, er.Message, er.RedirectTo
		}
		if resp.StatusCode == http.StatusUnauthorized && c.Token() != "" {
			c.log.Warn().Str("path", path).Msg("sesión rechazada por el servidor; se cierra localmente")
			c.setSession("", nil)
		}
		c.log.Debug().Int("status", resp.StatusCode).Str("code", apiErr.Code).Str("path", path).Msg("error de la API")
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("remote: parsear respuesta: %w", err)
	}
	return nil
}

// IsAPIError devuelve el error de la API contenido en err, si lo hay.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
