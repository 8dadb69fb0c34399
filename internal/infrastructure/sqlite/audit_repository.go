package sqlite

import (
	"context"
	"fmt"

	"github.com/jhoicas/Envios-api/internal/domain/entity"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
)

// Verificación en tiempo de compilación
var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación del puerto AuditRepository sobre SQLite.
// La bitácora es solo de inserción: no hay update ni delete.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository crea el repositorio de la bitácora.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Append inserta un evento y asigna el ID generado.
func (r *AuditRepo) Append(e *entity.AuditEvent) error {
	query := `
		INSERT INTO audit_log (shipment_id, action, old_value, new_value, actor, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	res, err := r.q.ExecContext(context.Background(), query,
		e.ShipmentID, e.Action, e.OldValue, e.NewValue, e.Actor, e.Notes, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insertar evento de bitácora: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insertar evento de bitácora: obtener id: %w", err)
	}
	e.ID = id
	return nil
}

// List retorna eventos del más reciente al más antiguo, con el código QR
// del envío asociado. Con ShipmentID en cero trae la bitácora global.
func (r *AuditRepo) List(f repository.AuditFilter) ([]*entity.AuditEvent, error) {
	query := `
		SELECT a.id, a.shipment_id, a.action, a.old_value, a.new_value,
		       a.actor, a.notes, a.created_at,
		       COALESCE(s.qr_code, '') AS qr_code
		FROM audit_log a
		LEFT JOIN shipments s ON s.id = a.shipment_id`
	var args []any

	if f.ShipmentID != 0 {
		query += "\n\tWHERE a.shipment_id = ?"
		args = append(args, f.ShipmentID)
	}
	query += "\n\tORDER BY a.created_at DESC, a.id DESC"

	limit := f.Limit
	if limit <= 0 {
		limit = repository.DefaultAuditLimit
	}
	query += "\n\tLIMIT ?"
	args = append(args, limit)

	rows, err := r.q.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar bitácora: %w", err)
	}
	defer rows.Close()

	var events []*entity.AuditEvent
	for rows.Next() {
		var e entity.AuditEvent
		err := rows.Scan(
			&e.ID, &e.ShipmentID, &e.Action, &e.OldValue, &e.NewValue,
			&e.Actor, &e.Notes, &e.CreatedAt, &e.ShipmentQR,
		)
		if err != nil {
			return nil, fmt.Errorf("listar bitácora: scan: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listar bitácora: %w", err)
	}
	return events, nil
}
