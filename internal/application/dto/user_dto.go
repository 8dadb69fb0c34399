package dto

import "time"

// LoginRequest entrada para login por usuario y contraseña.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con el JWT de sesión y el token de renovación.
type LoginResponse struct {
	Token         string       `json:"token"`
	RememberToken string       `json:"remember_token"`
	User          UserResponse `json:"user"`
}

// RefreshRequest canjea un remember token vigente por un JWT nuevo.
type RefreshRequest struct {
	RememberToken string `json:"remember_token" validate:"required"`
}

// RefreshResponse JWT renovado.
type RefreshResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// LogoutRequest invalida un remember token.
type LogoutRequest struct {
	RememberToken string `json:"remember_token" validate:"required"`
}

// UpsertUserRequest alta o modificación de una cuenta (password en texto,
// se hashea en el use case; vacío = conservar la contraseña actual).
type UpsertUserRequest struct {
	Password string `json:"password" validate:"omitempty,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin staff user"`
	Active   *bool  `json:"active"`
}

// UserResponse salida de un usuario (sin hash de contraseña).
type UserResponse struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
