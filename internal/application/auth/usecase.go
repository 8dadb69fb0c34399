package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Envios-api/internal/application/dto"
	"github.com/jhoicas/Envios-api/internal/domain"
	"github.com/jhoicas/Envios-api/internal/domain/entity"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
	"github.com/jhoicas/Envios-api/pkg/jwt"
)

const (
	// rememberTokenTTL vigencia del token de renovación de sesión.
	rememberTokenTTL = 30 * 24 * time.Hour
	// bcryptCost costo del hash de contraseñas.
	bcryptCost = 12
)

// JWTConfig configuración para la generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase autenticación y administración de las cuentas internas.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	jwtCfg    JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tokenRepo: tokenRepo, jwtCfg: jwtCfg}
}

// Login verifica usuario/contraseña, emite el JWT de sesión y un remember
// token persistido para renovar sin reenviar la contraseña. Una cuenta
// inexistente, inactiva o con contraseña equivocada responde siempre
// ErrInvalidCredentials, sin distinguir el caso.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.Get(in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	remember := &entity.RememberToken{
		Token:     uuid.New().String(),
		Username:  user.Username,
		ExpiresAt: time.Now().Add(rememberTokenTTL),
	}
	if err := uc.tokenRepo.Save(remember); err != nil {
		return nil, fmt.Errorf("guardar remember token: %w", err)
	}

	return &dto.LoginResponse{
		Token:         token,
		RememberToken: remember.Token,
		User:          *toUserResponse(user),
	}, nil
}

// Refresh canjea un remember token vigente por un JWT nuevo. Un token
// vencido se elimina al detectarse y retorna ErrTokenExpired.
func (uc *AuthUseCase) Refresh(in dto.RefreshRequest) (*dto.RefreshResponse, error) {
	remember, err := uc.tokenRepo.Get(in.RememberToken)
	if err != nil {
		return nil, err
	}
	if remember == nil {
		return nil, domain.ErrUnauthorized
	}
	if remember.Expired(time.Now()) {
		_ = uc.tokenRepo.Delete(remember.Token)
		return nil, domain.ErrTokenExpired
	}

	user, err := uc.userRepo.Get(remember.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{Token: token, User: *toUserResponse(user)}, nil
}

// Logout invalida el remember token. Es idempotente: borrar un token que ya
// no existe no es un error.
func (uc *AuthUseCase) Logout(in dto.LogoutRequest) error {
	return uc.tokenRepo.Delete(in.RememberToken)
}

// UpsertUser crea o modifica una cuenta (superficie de administración).
// Con password vacío se conserva el hash actual; una cuenta nueva exige
// contraseña y nace activa con rol user salvo que se indique otro.
func (uc *AuthUseCase) UpsertUser(username string, in dto.UpsertUserRequest) (*dto.UserResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username vacío: %w", domain.ErrValidation)
	}
	if in.Role != "" && !entity.IsValidRole(in.Role) {
		return nil, fmt.Errorf("rol desconocido %q: %w", in.Role, domain.ErrValidation)
	}

	user, err := uc.userRepo.Get(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if in.Password == "" {
			return nil, fmt.Errorf("una cuenta nueva necesita contraseña: %w", domain.ErrValidation)
		}
		user = &entity.User{
			Username:  username,
			Role:      entity.RoleUser,
			Active:    true,
			CreatedAt: time.Now(),
		}
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hashear contraseña: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	if in.Role != "" {
		user.Role = in.Role
	}
	if in.Active != nil {
		user.Active = *in.Active
	}

	if err := uc.userRepo.Upsert(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// ListUsers devuelve todas las cuentas, sin hashes.
func (uc *AuthUseCase) ListUsers() ([]dto.UserResponse, error) {
	users, err := uc.userRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		Username:  u.Username,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
