package sqlite

import (
	"context"
	"database/sql"
)

// Querier abstrae la ejecución de consultas para que los repositorios
// funcionen igual sobre *sql.DB o dentro de una *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)
