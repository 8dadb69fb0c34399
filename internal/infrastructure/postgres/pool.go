// Package postgres implementa los puertos de persistencia sobre PostgreSQL
// con pgx. Es el almacén opcional para despliegues con base compartida; el
// esquema es el mismo que el de la variante embebida.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Envios-api/pkg/config"
)

// NewPool crea un pool de conexiones PostgreSQL usando la configuración de
// la app. Si DATABASE_URL está definida se usa completa; si no, el DSN se
// arma desde DB_HOST, DB_PORT, etc.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// InitSchema crea las tablas e índices si no existen. Es idempotente; el
// índice parcial idx_shipments_active_qr impone la unicidad del QR activo
// igual que en la variante embebida.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS suppliers (
			id         BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			contact    TEXT NOT NULL DEFAULT '',
			address    TEXT NOT NULL DEFAULT '',
			active     BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS shipments (
			id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			qr_code     TEXT NOT NULL,
			imei        TEXT NOT NULL DEFAULT '',
			device_name TEXT NOT NULL DEFAULT '',
			capacity    TEXT NOT NULL DEFAULT '',
			supplier_id BIGINT NOT NULL REFERENCES suppliers(id),
			status      TEXT NOT NULL DEFAULT 'SENT'
			            CHECK (status IN ('SENT', 'RECEIVED', 'DAMAGED', 'LOST')),
			sent_at     TIMESTAMPTZ NOT NULL,
			received_at TIMESTAMPTZ,
			created_by  TEXT NOT NULL DEFAULT '',
			updated_by  TEXT NOT NULL DEFAULT '',
			notes       TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_shipments_active_qr
			ON shipments (qr_code) WHERE status = 'SENT'`,
		`CREATE INDEX IF NOT EXISTS idx_shipments_sent_at ON shipments (sent_at)`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			shipment_id BIGINT NOT NULL REFERENCES shipments(id),
			action      TEXT NOT NULL,
			old_value   TEXT NOT NULL DEFAULT '',
			new_value   TEXT NOT NULL DEFAULT '',
			actor       TEXT NOT NULL DEFAULT '',
			notes       TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_shipment ON audit_log (shipment_id)`,
		`CREATE TABLE IF NOT EXISTS users (
			username      TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'user'
			              CHECK (role IN ('admin', 'staff', 'user')),
			active        BOOLEAN NOT NULL DEFAULT TRUE,
			created_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS remember_tokens (
			token      TEXT PRIMARY KEY,
			username   TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
			expires_at TIMESTAMPTZ NOT NULL
		)`,
	}

	for i, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}
	return nil
}
