package auth

import (
	"context"
	"strings"
	"time"

	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/repository"
)

// ProfileUseCase edición del perfil propio y gestión de roles por un admin.
type ProfileUseCase struct {
	profiles repository.ProfileRepository
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(profiles repository.ProfileRepository) *ProfileUseCase {
	return &ProfileUseCase{profiles: profiles}
}

// Get perfil por ID.
func (uc *ProfileUseCase) Get(ctx context.Context, id string) (*dto.ProfileResponse, error) {
	p, err := uc.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProfileNotFound
	}
	return toProfileResponse(p), nil
}

// UpdateOwn modifica nombre, comercio y teléfono del propio perfil. El rol no se toca.
func (uc *ProfileUseCase) UpdateOwn(ctx context.Context, id string, in dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	p, err := uc.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProfileNotFound
	}
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		p.FullName = name
	}
	if in.CommerceName != nil {
		p.CommerceName = strings.TrimSpace(*in.CommerceName)
	}
	if in.Phone != nil {
		p.Phone = strings.TrimSpace(*in.Phone)
	}
	p.UpdatedAt = time.Now()
	if err := uc.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProfileResponse(p), nil
}

// List perfiles paginados (admin).
func (uc *ProfileUseCase) List(ctx context.Context, limit, offset int) (*dto.ProfileListResponse, error) {
	list, err := uc.profiles.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProfileResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProfileResponse(p))
	}
	return &dto.ProfileListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ChangeRole asigna uno de los cinco roles. Un admin no puede quitarse su propio rol.
func (uc *ProfileUseCase) ChangeRole(ctx context.Context, adminID, userID, role string) (*dto.ProfileResponse, error) {
	r, ok := entity.ParseRole(role)
	if !ok {
		return nil, domain.ErrInvalidRole
	}
	if adminID == userID && r != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	p, err := uc.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProfileNotFound
	}
	if err := uc.profiles.UpdateRole(ctx, userID, r); err != nil {
		return nil, err
	}
	p.Role = r
	return toProfileResponse(p), nil
}

func toProfileResponse(p *entity.Profile) *dto.ProfileResponse {
	if p == nil {
		return nil
	}
	return &dto.ProfileResponse{
		ID:           p.ID,
		FullName:     p.FullName,
		CommerceName: p.CommerceName,
		CommerceID:   p.CommerceID,
		Phone:        p.Phone,
		Role:         p.Role.String(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
