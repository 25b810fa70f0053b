package remote_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abastoflow/abastoflow/internal/application/checkout"
	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/application/session"
	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/pos"
	"github.com/abastoflow/abastoflow/internal/infrastructure/remote"
)

// fakeAPI servidor mínimo que imita las rutas que usa la terminal de caja.
type fakeAPI struct {
	mu          sync.Mutex
	calls       []string
	failItems   bool
	failLogout  bool
	expireToken atomic.Bool
}

func (f *fakeAPI) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.record(r)
			if r.Header.Get("Authorization") != "Bearer tok-1" || f.expireToken.Load() {
				writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		var in dto.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Password != "secreto" {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
			return
		}
		writeJSON(w, http.StatusOK, dto.LoginResponse{
			Token:     "tok-1",
			ExpiresAt: time.Now().Add(time.Hour),
			User:      dto.UserResponse{ID: "u1", Email: in.Email},
		})
	})
	mux.HandleFunc("POST /api/auth/logout", authed(func(w http.ResponseWriter, _ *http.Request) {
		if f.failLogout {
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "caído"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("GET /api/auth/me", authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, dto.UserResponse{
			ID: "u1", Email: "caja@tienda.mx",
			Profile: &dto.ProfileResponse{ID: "u1", FullName: "Ana", CommerceID: "jefe-1", Role: "cajero"},
		})
	}))
	mux.HandleFunc("GET /api/products", authed(func(w http.ResponseWriter, _ *http.Request) {
		cost := decimal.NewFromInt(6)
		writeJSON(w, http.StatusOK, dto.ProductListResponse{Items: []dto.ProductResponse{
			{ID: "p1", Name: "Refresco", SalePrice: decimal.NewFromInt(10), PurchaseCost: &cost, CurrentStock: 5},
		}})
	}))
	mux.HandleFunc("GET /api/reports", authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, dto.ReportsDTO{
			Dashboard: dto.DashboardStatsDTO{TodaySales: decimal.NewFromInt(120), SalesCount: 4},
			Profit:    dto.ProfitStatsDTO{AverageMarginPct: decimal.NewFromInt(35)},
		})
	}))
	mux.HandleFunc("POST /api/sales", authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusCreated, dto.MessageResponse{Message: "ok"})
	}))
	mux.HandleFunc("POST /api/sales/items", authed(func(w http.ResponseWriter, _ *http.Request) {
		if f.failItems {
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
			return
		}
		writeJSON(w, http.StatusCreated, dto.MessageResponse{Message: "ok"})
	}))
	mux.HandleFunc("DELETE /api/sales/{id}", authed(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	return mux
}

func newClient(t *testing.T, api *fakeAPI) *remote.Client {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	return remote.NewClient(srv.URL, 5*time.Second, zerolog.Nop())
}

func nextEvent(t *testing.T, ch <-chan session.Event) session.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó el evento de sesión")
		return session.Event{}
	}
}

// ─── Sesión ─────────────────────────────────────────────────────────────────

func TestClient_SignInPublicaSesionYCargaPerfil(t *testing.T) {
	api := &fakeAPI{}
	c := newClient(t, api)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := c.Sessions(ctx)
	assert.Nil(t, nextEvent(t, events).Identity, "sin sesión al inicio")

	_, err := c.SignIn(ctx, "caja@tienda.mx", "secreto")
	require.NoError(t, err)
	ev := nextEvent(t, events)
	require.NotNil(t, ev.Identity)
	assert.Equal(t, "u1", ev.Identity.ID)
	assert.Equal(t, "tok-1", c.Token())

	p, err := c.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, entity.RoleCajero, p.Role)
	assert.Equal(t, "jefe-1", p.CommerceID)
}

func TestClient_SignInCredencialesInvalidas(t *testing.T) {
	c := newClient(t, &fakeAPI{})

	_, err := c.SignIn(context.Background(), "caja@tienda.mx", "mala")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	apiErr, ok := remote.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Empty(t, c.Token())
}

func TestClient_SignOutLimpiaAunqueFalleElServidor(t *testing.T) {
	api := &fakeAPI{failLogout: true}
	c := newClient(t, api)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := c.SignIn(ctx, "caja@tienda.mx", "secreto")
	require.NoError(t, err)
	events := c.Sessions(ctx)
	require.NotNil(t, nextEvent(t, events).Identity)

	err = c.SignOut(ctx)
	require.Error(t, err)
	assert.Nil(t, nextEvent(t, events).Identity)
	assert.Empty(t, c.Token())
}

func TestClient_401CierraLaSesionLocal(t *testing.T) {
	api := &fakeAPI{}
	c := newClient(t, api)
	ctx := context.Background()
	_, err := c.SignIn(ctx, "caja@tienda.mx", "secreto")
	require.NoError(t, err)

	api.expireToken.Store(true)
	_, err = c.ListProducts(ctx, 50, 0)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, c.Token())
}

func TestClient_SessionsSeCierraAlCancelar(t *testing.T) {
	c := newClient(t, &fakeAPI{})
	ctx, cancel := context.WithCancel(context.Background())
	events := c.Sessions(ctx)
	nextEvent(t, events)
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("el canal no se cerró")
	}
}

// ─── Catálogo ───────────────────────────────────────────────────────────────

func TestClient_ListProducts(t *testing.T) {
	c := newClient(t, &fakeAPI{})
	ctx := context.Background()
	_, err := c.SignIn(ctx, "caja@tienda.mx", "secreto")
	require.NoError(t, err)

	products, err := c.ListProducts(ctx, 50, 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Refresco", products[0].Name)
	assert.True(t, decimal.NewFromInt(6).Equal(products[0].Cost()))
}

func TestClient_Reports(t *testing.T) {
	c := newClient(t, &fakeAPI{})
	ctx := context.Background()
	_, err := c.SignIn(ctx, "caja@tienda.mx", "secreto")
	require.NoError(t, err)

	r, err := c.Reports(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, r.Dashboard.SalesCount)
	assert.True(t, decimal.NewFromInt(120).Equal(r.Dashboard.TodaySales))
	assert.True(t, decimal.NewFromInt(35).Equal(r.Profit.AverageMarginPct))
}

// ─── Checkout del lado cliente ──────────────────────────────────────────────

func checkoutWith(c *remote.Client) *checkout.UseCase {
	actors := checkout.ActorFunc(func(context.Context) (*checkout.Actor, error) {
		return &checkout.Actor{UserID: "u1", CommerceID: "jefe-1"}, nil
	})
	return checkout.NewUseCase(c, c, actors, zerolog.Nop())
}

func cartWithOne(t *testing.T) *pos.Cart {
	t.Helper()
	cart := pos.NewCart()
	cost := decimal.NewFromInt(6)
	require.NoError(t, cart.Add(entity.Product{ID: "p1", Name: "Refresco", SalePrice: decimal.NewFromInt(10), PurchaseCost: &cost, CurrentStock: 3}))
	return cart
}

func TestClient_CheckoutRemotoExitoso(t *testing.T) {
	api := &fakeAPI{}
	c := newClient(t, api)
	ctx := context.Background()
	_, err := c.SignIn(ctx, "caja@tienda.mx", "secreto")
	require.NoError(t, err)

	cart := cartWithOne(t)
	res := checkoutWith(c).Checkout(ctx, cart, checkout.Payment{Method: entity.PaymentTarjeta})
	require.True(t, res.OK(), "err: %v", res.Err)
	assert.True(t, cart.IsEmpty())
	assert.Contains(t, api.Calls(), "POST /api/sales")
	assert.Contains(t, api.Calls(), "POST /api/sales/items")
}

func TestClient_CheckoutRemotoCompensaSiFallanLasLineas(t *testing.T) {
	api := &fakeAPI{failItems: true}
	c := newClient(t, api)
	ctx := context.Background()
	_, err := c.SignIn(ctx, "caja@tienda.mx", "secreto")
	require.NoError(t, err)

	cart := cartWithOne(t)
	res := checkoutWith(c).Checkout(ctx, cart, checkout.Payment{Method: entity.PaymentEfectivo})
	assert.Equal(t, checkout.OutcomeItemsFailed, res.Outcome)
	assert.True(t, res.Compensated)
	assert.ErrorIs(t, res.Err, domain.ErrInsufficientStock)
	assert.False(t, cart.IsEmpty(), "el carrito se conserva para reintentar")
	assert.Contains(t, api.Calls(), "DELETE /api/sales/"+res.ID)
}
