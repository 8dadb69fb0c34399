package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleUser  = "user"
)

// IsValidRole indica si el string corresponde a un rol conocido.
func IsValidRole(r string) bool {
	return r == RoleAdmin || r == RoleStaff || r == RoleUser
}

// User cuenta interna de la herramienta. El username es la identidad.
type User struct {
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, staff, user
	Active       bool
	CreatedAt    time.Time
}

// RememberToken token opaco para renovar sesión sin reenviar la contraseña.
type RememberToken struct {
	Token     string // UUID v4
	Username  string
	ExpiresAt time.Time
}

// Expired indica si el token ya venció en el instante dado.
func (t *RememberToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
