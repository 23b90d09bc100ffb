package auth

import (
	"context"
	"strings"

	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
	"github.com/jhoicas/moda-retail/pkg/jwt"
	"github.com/jhoicas/moda-retail/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login de usuarios de empresa y del administrador global.
type AuthUseCase struct {
	tx     repository.TxRunner
	jwtCfg JWTConfig
	log    *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(tx repository.TxRunner, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{tx: tx, jwtCfg: jwtCfg, log: log.Component("auth")}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email inexistente y contraseña incorrecta devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	var user *entity.User
	err := uc.tx.Run(ctx, repository.PlatformScope, func(r repository.Repos) error {
		u, err := r.Users.FindByEmail(email)
		user = u
		return err
	})
	if err != nil {
		return nil, err
	}
	if user == nil || !CheckPassword(user.PasswordHash, in.Password) {
		uc.log.Info().Str("email", email).Msg("login rechazado")
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Subject{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		StoreID:   user.StoreID,
		Role:      string(user.Role),
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *dto.ToUserResponse(user),
	}, nil
}
