// seed crea las cuentas iniciales y las transportadoras por defecto.
//
// Uso: go run ./cmd/seed
// Lee la misma configuración que la API (SEED_USERS, STORE_DRIVER, etc.).
// Es idempotente: cuentas y transportadoras existentes no se tocan, así una
// corrida repetida nunca pisa contraseñas ya cambiadas.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/Envios-api/internal/application/auth"
	"github.com/jhoicas/Envios-api/internal/application/dto"
	"github.com/jhoicas/Envios-api/internal/application/suppliers"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
	"github.com/jhoicas/Envios-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Envios-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Envios-api/pkg/config"
)

// Transportadoras con las que opera la bodega hoy.
var defaultSuppliers = []string{"GHN", "J&T Express", "Ahamove"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	var (
		userRepo     repository.UserRepository
		tokenRepo    repository.TokenRepository
		supplierRepo repository.SupplierRepository
	)
	switch cfg.Store.Driver {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), cfg.DB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := postgres.InitSchema(context.Background(), pool); err != nil {
			fmt.Fprintf(os.Stderr, "Esquema de PostgreSQL: %v\n", err)
			os.Exit(1)
		}
		userRepo = postgres.NewUserRepository(pool)
		tokenRepo = postgres.NewTokenRepository(pool)
		supplierRepo = postgres.NewSupplierRepository(pool)
	default:
		db, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Abrir SQLite: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := sqlite.InitSchema(db); err != nil {
			fmt.Fprintf(os.Stderr, "Esquema de SQLite: %v\n", err)
			os.Exit(1)
		}
		userRepo = sqlite.NewUserRepository(db)
		tokenRepo = sqlite.NewTokenRepository(db)
		supplierRepo = sqlite.NewSupplierRepository(db)
	}

	authUC := auth.NewAuthUseCase(userRepo, tokenRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	supplierUC := suppliers.NewSupplierUseCase(supplierRepo)

	var usersCreated, usersSkipped int
	for _, u := range cfg.Seed.ParseUsers() {
		existing, err := userRepo.Get(u.Username)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Consultar usuario %s: %v\n", u.Username, err)
			os.Exit(1)
		}
		if existing != nil {
			usersSkipped++
			continue
		}
		if _, err := authUC.UpsertUser(u.Username, dto.UpsertUserRequest{
			Password: u.Password,
			Role:     u.Role,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Crear usuario %s: %v\n", u.Username, err)
			os.Exit(1)
		}
		usersCreated++
	}

	var suppliersCreated, suppliersSkipped int
	for _, name := range defaultSuppliers {
		existing, err := supplierRepo.GetByName(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Consultar transportadora %s: %v\n", name, err)
			os.Exit(1)
		}
		if existing != nil {
			suppliersSkipped++
			continue
		}
		if _, err := supplierUC.Create(dto.CreateSupplierRequest{Name: name}); err != nil {
			fmt.Fprintf(os.Stderr, "Crear transportadora %s: %v\n", name, err)
			os.Exit(1)
		}
		suppliersCreated++
	}

	fmt.Printf("Semilla aplicada: %d usuarios nuevos (%d existentes), %d transportadoras nuevas (%d existentes)\n",
		usersCreated, usersSkipped, suppliersCreated, suppliersSkipped)
}
