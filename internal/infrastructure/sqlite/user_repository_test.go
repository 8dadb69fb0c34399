package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Envios-api/internal/domain/entity"
	"github.com/jhoicas/Envios-api/internal/infrastructure/sqlite"
)

// ── Usuarios ──

func TestUserRepo_UpsertYGet(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewUserRepository(db)

	createdAt := time.Now()
	require.NoError(t, repo.Upsert(&entity.User{
		Username:     "admin",
		PasswordHash: "$2a$12$hash",
		Role:         entity.RoleAdmin,
		Active:       true,
		CreatedAt:    createdAt,
	}))

	got, err := repo.Get("admin")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "admin", got.Username)
	assert.Equal(t, "$2a$12$hash", got.PasswordHash)
	assert.Equal(t, entity.RoleAdmin, got.Role)
	assert.True(t, got.Active)
	assert.WithinDuration(t, createdAt, got.CreatedAt, time.Second)
}

func TestUserRepo_Get_NoExiste(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewUserRepository(db)

	got, err := repo.Get("fantasma")
	require.NoError(t, err, "no encontrar no es un error")
	assert.Nil(t, got)
}

func TestUserRepo_Upsert_ActualizaSinDuplicar(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewUserRepository(db)

	createdAt := time.Now()
	require.NoError(t, repo.Upsert(&entity.User{
		Username:     "bodega1",
		PasswordHash: "hash-viejo",
		Role:         entity.RoleUser,
		Active:       true,
		CreatedAt:    createdAt,
	}))
	require.NoError(t, repo.Upsert(&entity.User{
		Username:     "bodega1",
		PasswordHash: "hash-nuevo",
		Role:         entity.RoleStaff,
		Active:       false,
		CreatedAt:    time.Now().Add(time.Hour),
	}))

	users, err := repo.List()
	require.NoError(t, err)
	require.Len(t, users, 1, "el upsert no debe duplicar la cuenta")
	assert.Equal(t, "hash-nuevo", users[0].PasswordHash)
	assert.Equal(t, entity.RoleStaff, users[0].Role)
	assert.False(t, users[0].Active)
	assert.WithinDuration(t, createdAt, users[0].CreatedAt, time.Second,
		"el created_at original se conserva")
}

func TestUserRepo_List_OrdenaPorUsername(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewUserRepository(db)

	for _, name := range []string{"zoila", "admin", "bodega1"} {
		require.NoError(t, repo.Upsert(&entity.User{
			Username:     name,
			PasswordHash: "hash",
			Role:         entity.RoleUser,
			Active:       true,
			CreatedAt:    time.Now(),
		}))
	}

	users, err := repo.List()
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "admin", users[0].Username)
	assert.Equal(t, "bodega1", users[1].Username)
	assert.Equal(t, "zoila", users[2].Username)
}

// ── Remember tokens ──

func seedUser(t *testing.T, db *sql.DB, username string) {
	t.Helper()
	require.NoError(t, sqlite.NewUserRepository(db).Upsert(&entity.User{
		Username:     username,
		PasswordHash: "hash",
		Role:         entity.RoleUser,
		Active:       true,
		CreatedAt:    time.Now(),
	}))
}

func TestTokenRepo_CicloCompleto(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "admin")
	repo := sqlite.NewTokenRepository(db)

	expiresAt := time.Now().Add(30 * 24 * time.Hour)
	require.NoError(t, repo.Save(&entity.RememberToken{
		Token:     "7b4a3c1e-2f6d-4e8a-9b0c-d1e2f3a4b5c6",
		Username:  "admin",
		ExpiresAt: expiresAt,
	}))

	got, err := repo.Get("7b4a3c1e-2f6d-4e8a-9b0c-d1e2f3a4b5c6")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "admin", got.Username)
	assert.WithinDuration(t, expiresAt, got.ExpiresAt, time.Second)

	require.NoError(t, repo.Delete("7b4a3c1e-2f6d-4e8a-9b0c-d1e2f3a4b5c6"))
	got, err = repo.Get("7b4a3c1e-2f6d-4e8a-9b0c-d1e2f3a4b5c6")
	require.NoError(t, err)
	assert.Nil(t, got, "el token eliminado no debe aparecer")

	require.NoError(t, repo.Delete("7b4a3c1e-2f6d-4e8a-9b0c-d1e2f3a4b5c6"),
		"borrar dos veces es idempotente")
}

func TestTokenRepo_DeleteExpired(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "admin")
	repo := sqlite.NewTokenRepository(db)

	now := time.Now()
	require.NoError(t, repo.Save(&entity.RememberToken{
		Token:     "vencido",
		Username:  "admin",
		ExpiresAt: now.Add(-time.Hour),
	}))
	require.NoError(t, repo.Save(&entity.RememberToken{
		Token:     "vigente",
		Username:  "admin",
		ExpiresAt: now.Add(time.Hour),
	}))

	require.NoError(t, repo.DeleteExpired(now))

	got, err := repo.Get("vencido")
	require.NoError(t, err)
	assert.Nil(t, got, "el token vencido debe purgarse")

	got, err = repo.Get("vigente")
	require.NoError(t, err)
	assert.NotNil(t, got, "el token vigente se conserva")
}
