package repository

import (
	"time"

	"github.com/jhoicas/Envios-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Get(username string) (*entity.User, error)
	// Upsert crea o reemplaza la cuenta; la semilla y la administración
	// de usuarios pasan por aquí.
	Upsert(user *entity.User) error
	List() ([]*entity.User, error)
}

// TokenRepository puerto de los tokens de sesión prolongada.
type TokenRepository interface {
	Save(t *entity.RememberToken) error
	Get(token string) (*entity.RememberToken, error)
	Delete(token string) error
	DeleteExpired(now time.Time) error
}
