package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jhoicas/Envios-api/internal/application/shipping"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
)

// Verificación en tiempo de compilación
var _ shipping.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite. Los repos
// que recibe el callback están atados a la tx: o se confirma todo (envío y
// bitácora juntos) o no queda nada.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner crea el ejecutor de transacciones.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repositorios transaccionales y
// confirma. Si fn retorna error la transacción se revierte y el error se
// propaga sin envolver.
func (r *TxRunner) Run(ctx context.Context, fn func(shipments repository.ShipmentRepository, audit repository.AuditRepository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("iniciar transacción: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewShipmentRepository(tx), NewAuditRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("confirmar transacción: %w", err)
	}
	return nil
}
