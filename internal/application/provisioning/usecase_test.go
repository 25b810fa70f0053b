package provisioning_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abastoflow/abastoflow/internal/application/provisioning"
	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repos en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memIdentities struct {
	byID      map[string]*entity.Identity
	createErr error
	deleted   []string
}

func (m *memIdentities) Create(_ context.Context, i *entity.Identity) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, e := range m.byID {
		if e.Email == i.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	m.byID[i.ID] = i
	return nil
}

func (m *memIdentities) GetByID(_ context.Context, id string) (*entity.Identity, error) {
	return m.byID[id], nil
}

func (m *memIdentities) GetByEmail(_ context.Context, email string) (*entity.Identity, error) {
	for _, e := range m.byID {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, nil
}

func (m *memIdentities) UpdatePassword(context.Context, string, string) error { return nil }

func (m *memIdentities) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.byID, id)
	return nil
}

type memProfiles struct {
	byID      map[string]*entity.Profile
	createErr error
}

func (m *memProfiles) Create(_ context.Context, p *entity.Profile) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.byID[p.ID] = p
	return nil
}

func (m *memProfiles) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	return m.byID[id], nil
}

func (m *memProfiles) Update(_ context.Context, p *entity.Profile) error {
	m.byID[p.ID] = p
	return nil
}

func (m *memProfiles) UpdateRole(_ context.Context, id string, role entity.Role) error {
	m.byID[id].Role = role
	return nil
}

func (m *memProfiles) List(context.Context, int, int) ([]*entity.Profile, error) { return nil, nil }

type memRequests struct {
	byID      map[string]*entity.WorkerRequest
	updateErr error
}

func (m *memRequests) Create(_ context.Context, r *entity.WorkerRequest) error {
	m.byID[r.ID] = r
	return nil
}

func (m *memRequests) GetByID(_ context.Context, id string) (*entity.WorkerRequest, error) {
	return m.byID[id], nil
}

func (m *memRequests) ListByJefe(_ context.Context, jefeID string) ([]*entity.WorkerRequest, error) {
	var out []*entity.WorkerRequest
	for _, r := range m.byID {
		if r.JefeID == jefeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRequests) ListByStatus(_ context.Context, s entity.WorkerRequestStatus) ([]*entity.WorkerRequest, error) {
	var out []*entity.WorkerRequest
	for _, r := range m.byID {
		if r.Status == s {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRequests) UpdateStatus(_ context.Context, id string, s entity.WorkerRequestStatus) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.byID[id].Status = s
	return nil
}

type fixture struct {
	identities *memIdentities
	profiles   *memProfiles
	requests   *memRequests
	uc         *provisioning.UseCase
}

func newFixture() *fixture {
	f := &fixture{
		identities: &memIdentities{byID: map[string]*entity.Identity{
			"admin": {ID: "admin", Email: "admin@abasto.mx"},
			"jefe":  {ID: "jefe", Email: "jefe@abasto.mx"},
		}},
		profiles: &memProfiles{byID: map[string]*entity.Profile{
			"admin": {ID: "admin", Role: entity.RoleAdmin},
			"jefe":  {ID: "jefe", Role: entity.RoleAprobado, CommerceName: "Abarrotes Lupita", CommerceID: "jefe"},
			"pend":  {ID: "pend", Role: entity.RolePendiente},
		}},
		requests: &memRequests{byID: map[string]*entity.WorkerRequest{}},
	}
	f.uc = provisioning.NewUseCase(f.identities, f.profiles, f.requests, zerolog.Nop())
	return f
}

func (f *fixture) pendingRequest(t *testing.T, email string) *entity.WorkerRequest {
	t.Helper()
	req, err := f.uc.CreateRequest(context.Background(), "jefe", provisioning.CreateRequestInput{
		WorkerFullName: "Pedro Cajero",
		WorkerEmail:    email,
		TempPassword:   "secreto1",
	})
	require.NoError(t, err)
	return req
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateRequest
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateRequest_Exito(t *testing.T) {
	f := newFixture()
	req := f.pendingRequest(t, "Pedro@Abasto.mx")

	assert.Equal(t, entity.WorkerRequestPending, req.Status)
	assert.Equal(t, "pedro@abasto.mx", req.WorkerEmail)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(req.WorkerPasswordHash), []byte("secreto1")))

	own, err := f.uc.ListOwn(context.Background(), "jefe")
	require.NoError(t, err)
	assert.Len(t, own, 1)
}

func TestCreateRequest_SoloAprobado(t *testing.T) {
	f := newFixture()
	in := provisioning.CreateRequestInput{WorkerFullName: "X", WorkerEmail: "x@abasto.mx", TempPassword: "123456"}

	_, err := f.uc.CreateRequest(context.Background(), "pend", in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.CreateRequest(context.Background(), "nadie", in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateRequest_Validaciones(t *testing.T) {
	f := newFixture()
	tests := []struct {
		name string
		in   provisioning.CreateRequestInput
	}{
		{"sin nombre", provisioning.CreateRequestInput{WorkerEmail: "a@b.mx", TempPassword: "123456"}},
		{"email inválido", provisioning.CreateRequestInput{WorkerFullName: "A", WorkerEmail: "no-es-email", TempPassword: "123456"}},
		{"password corta", provisioning.CreateRequestInput{WorkerFullName: "A", WorkerEmail: "a@b.mx", TempPassword: "12345"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.CreateRequest(context.Background(), "jefe", tt.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Approve
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_CreaCajeroConComercioHeredado(t *testing.T) {
	f := newFixture()
	req := f.pendingRequest(t, "pedro@abasto.mx")

	res, err := f.uc.Approve(context.Background(), "admin", provisioning.ApproveInput{RequestID: req.ID})
	require.NoError(t, err)
	assert.True(t, res.StatusUpdated)
	assert.False(t, res.AlreadyRegistered)

	p := f.profiles.byID[res.WorkerID]
	require.NotNil(t, p)
	assert.Equal(t, entity.RoleCajero, p.Role)
	assert.Equal(t, "Abarrotes Lupita", p.CommerceName)
	assert.Equal(t, "jefe", p.CommerceID)
	assert.Equal(t, entity.WorkerRequestApproved, f.requests.byID[req.ID].Status)
}

func TestApprove_YaRegistradoSigueAprobando(t *testing.T) {
	f := newFixture()
	f.identities.byID["existente"] = &entity.Identity{ID: "existente", Email: "pedro@abasto.mx"}
	req := f.pendingRequest(t, "pedro@abasto.mx")
	profilesBefore := len(f.profiles.byID)

	res, err := f.uc.Approve(context.Background(), "admin", provisioning.ApproveInput{RequestID: req.ID})
	require.NoError(t, err)
	assert.True(t, res.AlreadyRegistered)
	assert.Equal(t, "existente", res.WorkerID)
	assert.Equal(t, profilesBefore, len(f.profiles.byID), "no se crea perfil nuevo")
	assert.Equal(t, entity.WorkerRequestApproved, f.requests.byID[req.ID].Status)
}

func TestApprove_FallaPerfilBorraIdentidad(t *testing.T) {
	f := newFixture()
	req := f.pendingRequest(t, "pedro@abasto.mx")
	f.profiles.createErr = errors.New("insert profile")

	_, err := f.uc.Approve(context.Background(), "admin", provisioning.ApproveInput{RequestID: req.ID})
	require.Error(t, err)
	require.Len(t, f.identities.deleted, 1)

	found, _ := f.identities.GetByEmail(context.Background(), "pedro@abasto.mx")
	assert.Nil(t, found)
	assert.Equal(t, entity.WorkerRequestPending, f.requests.byID[req.ID].Status)
}

func TestApprove_FallaIdentidadAborta(t *testing.T) {
	f := newFixture()
	req := f.pendingRequest(t, "pedro@abasto.mx")
	f.identities.createErr = errors.New("auth caído")

	_, err := f.uc.Approve(context.Background(), "admin", provisioning.ApproveInput{RequestID: req.ID})
	require.Error(t, err)
	assert.Equal(t, entity.WorkerRequestPending, f.requests.byID[req.ID].Status)
}

func TestApprove_FallaEstadoConservaCuenta(t *testing.T) {
	f := newFixture()
	req := f.pendingRequest(t, "pedro@abasto.mx")
	f.requests.updateErr = errors.New("update status")

	res, err := f.uc.Approve(context.Background(), "admin", provisioning.ApproveInput{RequestID: req.ID})
	require.NoError(t, err)
	assert.False(t, res.StatusUpdated)
	assert.NotNil(t, f.profiles.byID[res.WorkerID], "la cuenta no se revierte")
}

func TestApprove_SolicitanteSinPerfil(t *testing.T) {
	f := newFixture()
	req := f.pendingRequest(t, "pedro@abasto.mx")
	delete(f.profiles.byID, "jefe")

	_, err := f.uc.Approve(context.Background(), "admin", provisioning.ApproveInput{RequestID: req.ID})
	assert.ErrorIs(t, err, provisioning.ErrRequesterMissing)
	found, _ := f.identities.GetByEmail(context.Background(), "pedro@abasto.mx")
	assert.Nil(t, found)
}

func TestApprove_Reglas(t *testing.T) {
	f := newFixture()
	req := f.pendingRequest(t, "pedro@abasto.mx")

	_, err := f.uc.Approve(context.Background(), "jefe", provisioning.ApproveInput{RequestID: req.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden, "solo admin aprueba")

	_, err = f.uc.Approve(context.Background(), "admin", provisioning.ApproveInput{RequestID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Approve(context.Background(), "admin", provisioning.ApproveInput{RequestID: req.ID, JefeID: "otro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, provisioning.ErrRequestMismatch)

	_, err = f.uc.Approve(context.Background(), "admin", provisioning.ApproveInput{RequestID: req.ID, WorkerEmail: "otro@abasto.mx"})
	assert.ErrorIs(t, err, provisioning.ErrRequestMismatch, "el email no es el de la solicitud")

	_, err = f.uc.Approve(context.Background(), "admin", provisioning.ApproveInput{RequestID: req.ID, WorkerFullName: "Otro Nombre"})
	assert.ErrorIs(t, err, provisioning.ErrRequestMismatch, "el nombre no es el de la solicitud")
	assert.Len(t, f.identities.byID, 2, "ningún rechazo crea cuenta")

	// mayúsculas y espacios no cuentan como diferencia
	_, err = f.uc.Approve(context.Background(), "admin", provisioning.ApproveInput{
		RequestID: req.ID, WorkerEmail: " Pedro@Abasto.mx", WorkerFullName: "Pedro Cajero ",
	})
	require.NoError(t, err)
	_, err = f.uc.Approve(context.Background(), "admin", provisioning.ApproveInput{RequestID: req.ID})
	assert.ErrorIs(t, err, provisioning.ErrRequestNotPending, "approved es terminal")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reject / DeleteUser
// ──────────────────────────────────────────────────────────────────────────────

func TestReject(t *testing.T) {
	f := newFixture()
	req := f.pendingRequest(t, "pedro@abasto.mx")

	require.NoError(t, f.uc.Reject(context.Background(), "admin", req.ID))
	assert.Equal(t, entity.WorkerRequestRejected, f.requests.byID[req.ID].Status)
	assert.ErrorIs(t, f.uc.Reject(context.Background(), "admin", req.ID), provisioning.ErrRequestNotPending)

	pending, err := f.uc.ListPending(context.Background(), "admin")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture()

	assert.ErrorIs(t, f.uc.DeleteUser(context.Background(), "admin", "admin"), provisioning.ErrCannotDeleteSelf)
	assert.ErrorIs(t, f.uc.DeleteUser(context.Background(), "jefe", "admin"), domain.ErrForbidden)
	assert.ErrorIs(t, f.uc.DeleteUser(context.Background(), "admin", "fantasma"), domain.ErrUserNotFound)

	require.NoError(t, f.uc.DeleteUser(context.Background(), "admin", "jefe"))
	assert.Equal(t, []string{"jefe"}, f.identities.deleted)
}
