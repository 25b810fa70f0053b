// Package provisioning implementa el flujo solicitud → aprobación de cuentas de cajero.
package provisioning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/repository"
)

var (
	ErrRequestNotPending = errors.New("la solicitud ya fue procesada")
	ErrRequesterMissing  = errors.New("no se encontró el perfil del solicitante")
	ErrCannotDeleteSelf  = errors.New("un administrador no puede eliminarse a sí mismo")
	// ErrRequestMismatch los datos enviados no son los de la solicitud; es entrada inválida.
	ErrRequestMismatch = fmt.Errorf("los datos no coinciden con la solicitud: %w", domain.ErrInvalidInput)
)

// CreateRequestInput datos de una nueva solicitud de cajero.
type CreateRequestInput struct {
	WorkerFullName string
	WorkerEmail    string
	TempPassword   string
}

// ApproveInput aprobación de una solicitud. TempPassword, si viene, reemplaza
// la contraseña guardada en la solicitud.
// JefeID, WorkerEmail y WorkerFullName son opcionales; si vienen deben coincidir con la solicitud.
type ApproveInput struct {
	RequestID      string
	JefeID         string
	WorkerEmail    string
	WorkerFullName string
	TempPassword   string
}

// ApproveResult resultado de Approve.
type ApproveResult struct {
	WorkerID string
	// AlreadyRegistered el email ya tenía identidad; no se creó perfil nuevo.
	AlreadyRegistered bool
	// StatusUpdated false si la cuenta se creó pero la solicitud no pudo marcarse approved.
	StatusUpdated bool
}

// UseCase orquesta solicitudes, aprobación, rechazo y baja de usuarios.
type UseCase struct {
	identities repository.IdentityRepository
	profiles   repository.ProfileRepository
	requests   repository.WorkerRequestRepository
	log        zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	identities repository.IdentityRepository,
	profiles repository.ProfileRepository,
	requests repository.WorkerRequestRepository,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		identities: identities,
		profiles:   profiles,
		requests:   requests,
		log:        log.With().Str("component", "provisioning").Logger(),
	}
}

func (uc *UseCase) requireRole(ctx context.Context, id string, roles ...entity.Role) (*entity.Profile, error) {
	p, err := uc.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrForbidden
	}
	for _, r := range roles {
		if p.Role == r {
			return p, nil
		}
	}
	return nil, domain.ErrForbidden
}

// CreateRequest registra una solicitud pending. Solo un dueño aprobado puede solicitar.
func (uc *UseCase) CreateRequest(ctx context.Context, jefeID string, in CreateRequestInput) (*entity.WorkerRequest, error) {
	if _, err := uc.requireRole(ctx, jefeID, entity.RoleAprobado); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.WorkerFullName)
	email := domain.NormalizeEmail(in.WorkerEmail)
	if name == "" || !domain.ValidEmail(email) || len(in.TempPassword) < domain.MinPasswordLength {
		return nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.TempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	req := &entity.WorkerRequest{
		ID:                 uuid.New().String(),
		JefeID:             jefeID,
		WorkerFullName:     name,
		WorkerEmail:        email,
		WorkerPasswordHash: string(hash),
		Status:             entity.WorkerRequestPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// ListOwn solicitudes del dueño, más recientes primero.
func (uc *UseCase) ListOwn(ctx context.Context, jefeID string) ([]*entity.WorkerRequest, error) {
	return uc.requests.ListByJefe(ctx, jefeID)
}

// ListPending solicitudes pendientes (admin).
func (uc *UseCase) ListPending(ctx context.Context, adminID string) ([]*entity.WorkerRequest, error) {
	if _, err := uc.requireRole(ctx, adminID, entity.RoleAdmin); err != nil {
		return nil, err
	}
	return uc.requests.ListByStatus(ctx, entity.WorkerRequestPending)
}

// Approve crea la cuenta del cajero y marca la solicitud como approved.
//
// Un email ya registrado no es error: se omite la creación del perfil y se aprueba igual.
// Si el perfil no puede crearse se borra la identidad recién creada y se aborta.
// Si la solicitud no puede marcarse approved la cuenta se conserva y StatusUpdated queda en false.
func (uc *UseCase) Approve(ctx context.Context, adminID string, in ApproveInput) (*ApproveResult, error) {
	if _, err := uc.requireRole(ctx, adminID, entity.RoleAdmin); err != nil {
		return nil, err
	}
	req, err := uc.requests.GetByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if !req.IsPending() {
		return nil, ErrRequestNotPending
	}
	if err := in.matches(req); err != nil {
		return nil, err
	}

	jefe, err := uc.profiles.GetByID(ctx, req.JefeID)
	if err != nil {
		return nil, fmt.Errorf("perfil del solicitante: %w", err)
	}
	if jefe == nil {
		return nil, ErrRequesterMissing
	}

	hash := req.WorkerPasswordHash
	if in.TempPassword != "" {
		if len(in.TempPassword) < domain.MinPasswordLength {
			return nil, domain.ErrInvalidInput
		}
		b, err := bcrypt.GenerateFromPassword([]byte(in.TempPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = string(b)
	}

	res := &ApproveResult{}
	now := time.Now()
	worker := &entity.Identity{
		ID:           uuid.New().String(),
		Email:        req.WorkerEmail,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	err = uc.identities.Create(ctx, worker)
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		uc.log.Info().Str("request_id", req.ID).Str("email", req.WorkerEmail).Msg("el cajero ya estaba registrado")
		res.AlreadyRegistered = true
		if existing, gerr := uc.identities.GetByEmail(ctx, req.WorkerEmail); gerr == nil && existing != nil {
			res.WorkerID = existing.ID
		}
	case err != nil:
		return nil, fmt.Errorf("crear identidad: %w", err)
	default:
		res.WorkerID = worker.ID
		profile := &entity.Profile{
			ID:           worker.ID,
			FullName:     req.WorkerFullName,
			CommerceName: jefe.CommerceName,
			CommerceID:   jefe.CommerceID,
			Role:         entity.RoleCajero,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := uc.profiles.Create(ctx, profile); err != nil {
			if derr := uc.identities.Delete(ctx, worker.ID); derr != nil {
				uc.log.Error().Err(derr).Str("identity_id", worker.ID).Msg("no se pudo borrar la identidad huérfana")
			}
			return nil, fmt.Errorf("crear perfil de cajero: %w", err)
		}
	}

	if err := uc.requests.UpdateStatus(ctx, req.ID, entity.WorkerRequestApproved); err != nil {
		uc.log.Warn().Err(err).Str("request_id", req.ID).Msg("no se pudo actualizar el estado de la solicitud")
		return res, nil
	}
	res.StatusUpdated = true
	return res, nil
}

// matches compara los datos que el llamador cree aprobar con los guardados en la solicitud.
func (in ApproveInput) matches(req *entity.WorkerRequest) error {
	switch {
	case in.JefeID != "" && in.JefeID != req.JefeID:
		return fmt.Errorf("jefe_id: %w", ErrRequestMismatch)
	case in.WorkerEmail != "" && domain.NormalizeEmail(in.WorkerEmail) != req.WorkerEmail:
		return fmt.Errorf("worker_email: %w", ErrRequestMismatch)
	case in.WorkerFullName != "" && strings.TrimSpace(in.WorkerFullName) != req.WorkerFullName:
		return fmt.Errorf("worker_full_name: %w", ErrRequestMismatch)
	}
	return nil
}

// Reject marca una solicitud pending como rejected, sin otros efectos.
func (uc *UseCase) Reject(ctx context.Context, adminID, requestID string) error {
	if _, err := uc.requireRole(ctx, adminID, entity.RoleAdmin); err != nil {
		return err
	}
	req, err := uc.requests.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return domain.ErrNotFound
	}
	if !req.IsPending() {
		return ErrRequestNotPending
	}
	return uc.requests.UpdateStatus(ctx, requestID, entity.WorkerRequestRejected)
}

// DeleteUser elimina la identidad; el borrado en cascada elimina perfil y datos propios.
func (uc *UseCase) DeleteUser(ctx context.Context, adminID, userID string) error {
	if _, err := uc.requireRole(ctx, adminID, entity.RoleAdmin); err != nil {
		return err
	}
	if userID == "" {
		return domain.ErrInvalidInput
	}
	if userID == adminID {
		return ErrCannotDeleteSelf
	}
	existing, err := uc.identities.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrUserNotFound
	}
	if err := uc.identities.Delete(ctx, userID); err != nil {
		return fmt.Errorf("eliminar usuario: %w", err)
	}
	uc.log.Info().Str("user_id", userID).Str("admin_id", adminID).Msg("usuario eliminado con sus datos")
	return nil
}
