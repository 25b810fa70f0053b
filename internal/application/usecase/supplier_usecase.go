package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/repository"
)

// SupplierUseCase aplica reglas de negocio para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso con el puerto de persistencia.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

func normalizeSupplier(in dto.SupplierRequest) (dto.SupplierRequest, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = domain.NormalizeEmail(in.Email)
	if in.Name == "" {
		return in, domain.ErrInvalidInput
	}
	if in.Email != "" && !domain.ValidEmail(in.Email) {
		return in, domain.ErrInvalidInput
	}
	return in, nil
}

// Create registra un proveedor del comercio.
func (uc *SupplierUseCase) Create(ctx context.Context, commerceID string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	in, err := normalizeSupplier(in)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:          uuid.New().String(),
		CommerceID:  commerceID,
		Name:        in.Name,
		ContactName: strings.TrimSpace(in.ContactName),
		Phone:       strings.TrimSpace(in.Phone),
		Email:       in.Email,
		Address:     in.Address,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// Update reemplaza los datos del proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, commerceID, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	in, err := normalizeSupplier(in)
	if err != nil {
		return nil, err
	}
	s, err := uc.repo.GetByID(ctx, commerceID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	s.Name = in.Name
	s.ContactName = strings.TrimSpace(in.ContactName)
	s.Phone = strings.TrimSpace(in.Phone)
	s.Email = in.Email
	s.Address = in.Address
	s.Notes = in.Notes
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// List proveedores del comercio.
func (uc *SupplierUseCase) List(ctx context.Context, commerceID string) ([]dto.SupplierResponse, error) {
	list, err := uc.repo.ListByCommerce(ctx, commerceID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

// Delete elimina un proveedor.
func (uc *SupplierUseCase) Delete(ctx context.Context, commerceID, id string) error {
	return uc.repo.Delete(ctx, commerceID, id)
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		ContactName: s.ContactName,
		Phone:       s.Phone,
		Email:       s.Email,
		Address:     s.Address,
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
