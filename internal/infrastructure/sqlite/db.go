// Package sqlite implementa los puertos de persistencia sobre un archivo
// SQLite local (modernc.org/sqlite, driver puro Go). Es el almacén por
// defecto: un solo proceso escribe sobre el archivo.
package sqlite

import (
	"database/sql"
	"fmt"
)

// Open abre (o crea) el archivo de la base y fija los pragmas de trabajo.
// Se limita a una conexión: el modelo es un proceso y un escritor, y así
// las transacciones nunca compiten por el lock del archivo.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_time_format=sqlite&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)",
		path,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir base sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("verificar base sqlite: %w", err)
	}
	return db, nil
}

// InitSchema crea las tablas e índices si no existen. Es idempotente y se
// ejecuta en cada arranque. El índice parcial idx_shipments_active_qr es el
// que garantiza la unicidad de qr_code entre envíos activos: la regla vive
// en el almacén, no en una lectura previa.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("init schema: db es nil")
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS suppliers (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT    NOT NULL UNIQUE,
			contact    TEXT    NOT NULL DEFAULT '',
			address    TEXT    NOT NULL DEFAULT '',
			active     INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS shipments (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			qr_code     TEXT    NOT NULL,
			imei        TEXT    NOT NULL DEFAULT '',
			device_name TEXT    NOT NULL DEFAULT '',
			capacity    TEXT    NOT NULL DEFAULT '',
			supplier_id INTEGER NOT NULL REFERENCES suppliers(id),
			status      TEXT    NOT NULL DEFAULT 'SENT'
			            CHECK (status IN ('SENT', 'RECEIVED', 'DAMAGED', 'LOST')),
			sent_at     TIMESTAMP NOT NULL,
			received_at TIMESTAMP,
			created_by  TEXT NOT NULL DEFAULT '',
			updated_by  TEXT NOT NULL DEFAULT '',
			notes       TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_shipments_active_qr
			ON shipments (qr_code) WHERE status = 'SENT'`,
		`CREATE INDEX IF NOT EXISTS idx_shipments_sent_at ON shipments (sent_at)`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			shipment_id INTEGER NOT NULL REFERENCES shipments(id),
			action      TEXT NOT NULL,
			old_value   TEXT NOT NULL DEFAULT '',
			new_value   TEXT NOT NULL DEFAULT '',
			actor       TEXT NOT NULL DEFAULT '',
			notes       TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_shipment ON audit_log (shipment_id)`,
		`CREATE TABLE IF NOT EXISTS users (
			username      TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'user'
			              CHECK (role IN ('admin', 'staff', 'user')),
			active        INTEGER NOT NULL DEFAULT 1,
			created_at    TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS remember_tokens (
			token      TEXT PRIMARY KEY,
			username   TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
			expires_at TIMESTAMP NOT NULL
		)`,
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit: %w", err)
	}
	return nil
}
