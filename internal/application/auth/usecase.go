package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/domain/entity"
	"github.com/abastoflow/abastoflow/internal/domain/repository"
	"github.com/abastoflow/abastoflow/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AccountTxRunner crea identidad y perfil en la misma transacción.
type AccountTxRunner interface {
	RunAccount(ctx context.Context, fn func(repository.IdentityRepository, repository.ProfileRepository) error) error
}

// TokenRevoker lista de tokens invalidados por logout.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, exp time.Time) error
}

// AuthUseCase casos de uso de autenticación: registro, login, logout y contraseña.
type AuthUseCase struct {
	identities repository.IdentityRepository
	profiles   repository.ProfileRepository
	tx         AccountTxRunner
	revoker    TokenRevoker
	jwtCfg     JWTConfig
	log        zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	identities repository.IdentityRepository,
	profiles repository.ProfileRepository,
	tx AccountTxRunner,
	revoker TokenRevoker,
	jwtCfg JWTConfig,
	log zerolog.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		identities: identities,
		profiles:   profiles,
		tx:         tx,
		revoker:    revoker,
		jwtCfg:     jwtCfg,
		log:        log.With().Str("component", "auth").Logger(),
	}
}

// Register crea la identidad y su perfil pendiente. El dueño es su propio comercio.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := domain.NormalizeEmail(in.Email)
	fullName := strings.TrimSpace(in.FullName)
	if !domain.ValidEmail(email) || len(in.Password) < domain.MinPasswordLength || fullName == "" {
		return nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	identity := &entity.Identity{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	profile := &entity.Profile{
		ID:           identity.ID,
		FullName:     fullName,
		CommerceName: strings.TrimSpace(in.CommerceName),
		CommerceID:   identity.ID,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         entity.RolePendiente,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.RunAccount(ctx, func(identities repository.IdentityRepository, profiles repository.ProfileRepository) error {
		if err := identities.Create(ctx, identity); err != nil {
			return err
		}
		return profiles.Create(ctx, profile)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", identity.ID).Msg("cuenta registrada, pendiente de aprobación")
	return toUserResponse(identity, profile), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Un email desconocido y una contraseña errónea devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	identity, err := uc.identities.GetByEmail(ctx, domain.NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	profile, err := uc.profiles.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	return uc.issue(identity, profile)
}

// AdminLogin igual que Login pero solo emite token si el perfil es admin.
func (uc *AuthUseCase) AdminLogin(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	identity, err := uc.identities.GetByEmail(ctx, domain.NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if identity == nil || bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	profile, err := uc.profiles.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if !profile.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return uc.issue(identity, profile)
}

func (uc *AuthUseCase) issue(identity *entity.Identity, profile *entity.Profile) (*dto.LoginResponse, error) {
	commerceID := identity.ID
	if profile != nil && profile.CommerceID != "" {
		commerceID = profile.CommerceID
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, identity.ID, commerceID, identity.Email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
		User:      *toUserResponse(identity, profile),
	}, nil
}

// Logout revoca el token hasta su expiración. Si la revocación no se guarda el
// token seguiría valiendo, así que el error se devuelve al cliente.
func (uc *AuthUseCase) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil {
		return nil
	}
	if err := uc.revoker.Revoke(ctx, claims.TokenID(), claims.Expiry()); err != nil {
		uc.log.Error().Err(err).Str("user_id", claims.UserID).Msg("revocar token en logout")
		return err
	}
	return nil
}

// Me devuelve la identidad con su perfil actual.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	identity, err := uc.identities.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, domain.ErrUserNotFound
	}
	profile, err := uc.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(identity, profile), nil
}

// ChangePassword exige la contraseña actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	if len(in.NewPassword) < domain.MinPasswordLength {
		return domain.ErrInvalidInput
	}
	identity, err := uc.identities.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if identity == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return domain.ErrUnauthorized
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.identities.UpdatePassword(ctx, userID, string(hash))
}

func toUserResponse(i *entity.Identity, p *entity.Profile) *dto.UserResponse {
	return &dto.UserResponse{
		ID:      i.ID,
		Email:   i.Email,
		Profile: toProfileResponse(p),
	}
}
