package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Envios-api/internal/domain/entity"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
)

// Verificación en tiempo de compilación
var (
	_ repository.UserRepository  = (*UserRepo)(nil)
	_ repository.TokenRepository = (*TokenRepo)(nil)
)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Get busca una cuenta por username. Retorna (nil, nil) si no existe.
func (r *UserRepo) Get(username string) (*entity.User, error) {
	query := `
		SELECT username, password_hash, role, active, created_at
		FROM users
		WHERE username = $1`

	var u entity.User
	err := r.q.QueryRow(context.Background(), query, username).Scan(
		&u.Username, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("consultar usuario: %w", err)
	}
	return &u, nil
}

// Upsert crea la cuenta o, si el username ya existe, reemplaza hash, rol y
// estado activo conservando created_at.
func (r *UserRepo) Upsert(user *entity.User) error {
	query := `
		INSERT INTO users (username, password_hash, role, active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			role          = EXCLUDED.role,
			active        = EXCLUDED.active`

	_, err := r.q.Exec(context.Background(), query,
		user.Username, user.PasswordHash, user.Role, user.Active, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("guardar usuario: %w", err)
	}
	return nil
}

// List retorna todas las cuentas ordenadas por username.
func (r *UserRepo) List() ([]*entity.User, error) {
	query := `
		SELECT username, password_hash, role, active, created_at
		FROM users
		ORDER BY username`

	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		var u entity.User
		err := rows.Scan(&u.Username, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("listar usuarios: scan: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	return users, nil
}

// TokenRepo implementación del puerto TokenRepository sobre PostgreSQL.
type TokenRepo struct {
	q Querier
}

// NewTokenRepository construye el adaptador de remember tokens.
func NewTokenRepository(q Querier) *TokenRepo {
	return &TokenRepo{q: q}
}

// Save inserta un token de sesión prolongada.
func (r *TokenRepo) Save(t *entity.RememberToken) error {
	query := `
		INSERT INTO remember_tokens (token, username, expires_at)
		VALUES ($1, $2, $3)`

	_, err := r.q.Exec(context.Background(), query, t.Token, t.Username, t.ExpiresAt)
	if err != nil {
		return fmt.Errorf("guardar token: %w", err)
	}
	return nil
}

// Get busca un token. Retorna (nil, nil) si no existe.
func (r *TokenRepo) Get(token string) (*entity.RememberToken, error) {
	query := `
		SELECT token, username, expires_at
		FROM remember_tokens
		WHERE token = $1`

	var t entity.RememberToken
	err := r.q.QueryRow(context.Background(), query, token).Scan(
		&t.Token, &t.Username, &t.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("consultar token: %w", err)
	}
	return &t, nil
}

// Delete elimina un token. Borrar un token inexistente no es error.
func (r *TokenRepo) Delete(token string) error {
	query := `
		DELETE FROM remember_tokens
		WHERE token = $1`

	_, err := r.q.Exec(context.Background(), query, token)
	if err != nil {
		return fmt.Errorf("eliminar token: %w", err)
	}
	return nil
}

// DeleteExpired purga los tokens vencidos a la fecha indicada.
func (r *TokenRepo) DeleteExpired(now time.Time) error {
	query := `
		DELETE FROM remember_tokens
		WHERE expires_at <= $1`

	_, err := r.q.Exec(context.Background(), query, now)
	if err != nil {
		return fmt.Errorf("purgar tokens vencidos: %w", err)
	}
	return nil
}
