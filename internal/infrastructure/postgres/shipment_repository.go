package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Envios-api/internal/domain"
	"github.com/jhoicas/Envios-api/internal/domain/entity"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
)

// Verificación en tiempo de compilación
var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo implementación del puerto ShipmentRepository sobre
// PostgreSQL (usable con pool o tx).
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

const selectShipment = `
	SELECT s.id, s.qr_code, s.imei, s.device_name, s.capacity, s.supplier_id,
	       s.status, s.sent_at, s.received_at, s.created_by, s.updated_by, s.notes,
	       COALESCE(p.name, '') AS supplier_name
	FROM shipments s
	LEFT JOIN suppliers p ON p.id = s.supplier_id`

// Create inserta un envío y asigna el ID generado. Un QR activo repetido
// retorna domain.ErrQRConflict (índice parcial idx_shipments_active_qr).
func (r *ShipmentRepo) Create(s *entity.Shipment) error {
	query := `
		INSERT INTO shipments (qr_code, imei, device_name, capacity, supplier_id,
		                       status, sent_at, received_at, created_by, updated_by, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	err := r.q.QueryRow(context.Background(), query,
		s.QRCode, s.IMEI, s.DeviceName, s.Capacity, s.SupplierID,
		s.Status, s.SentAt, s.ReceivedAt, s.CreatedBy, s.UpdatedBy, s.Notes,
	).Scan(&s.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrQRConflict
		}
		return fmt.Errorf("insertar envío: %w", err)
	}
	return nil
}

// GetByID busca un envío por su ID. Retorna (nil, nil) si no existe.
func (r *ShipmentRepo) GetByID(id int64) (*entity.Shipment, error) {
	query := selectShipment + `
	WHERE s.id = $1`

	s, err := scanShipment(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("consultar envío: %w", err)
	}
	return s, nil
}

// GetByQR busca el envío más reciente con ese código QR, en cualquier
// estado. Retorna (nil, nil) si el código nunca se registró.
func (r *ShipmentRepo) GetByQR(qrCode string) (*entity.Shipment, error) {
	query := selectShipment + `
	WHERE s.qr_code = $1
	ORDER BY s.id DESC
	LIMIT 1`

	s, err := scanShipment(r.q.QueryRow(context.Background(), query, qrCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("consultar envío por qr: %w", err)
	}
	return s, nil
}

// GetActiveByQR busca el envío activo (estado SENT) con ese código QR.
// Retorna (nil, nil) si no hay ninguno en tránsito.
func (r *ShipmentRepo) GetActiveByQR(qrCode string) (*entity.Shipment, error) {
	query := selectShipment + `
	WHERE s.qr_code = $1 AND s.status = $2`

	s, err := scanShipment(r.q.QueryRow(context.Background(), query, qrCode, entity.StatusSent))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("consultar envío activo: %w", err)
	}
	return s, nil
}

// List retorna envíos ordenados del más reciente al más antiguo aplicando
// los filtros no vacíos. La cota SentTo es exclusiva.
func (r *ShipmentRepo) List(f repository.ShipmentFilter) ([]*entity.Shipment, error) {
	query := selectShipment
	var conds []string
	var args []any

	if len(f.Statuses) > 0 {
		marks := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			args = append(args, st)
			marks[i] = fmt.Sprintf("$%d", len(args))
		}
		conds = append(conds, fmt.Sprintf("s.status IN (%s)", strings.Join(marks, ", ")))
	}
	if f.SupplierID != 0 {
		args = append(args, f.SupplierID)
		conds = append(conds, fmt.Sprintf("s.supplier_id = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(s.qr_code ILIKE $%d OR s.imei ILIKE $%d OR s.device_name ILIKE $%d)", n, n, n))
	}
	if !f.SentFrom.IsZero() {
		args = append(args, f.SentFrom)
		conds = append(conds, fmt.Sprintf("s.sent_at >= $%d", len(args)))
	}
	if !f.SentTo.IsZero() {
		args = append(args, f.SentTo)
		conds = append(conds, fmt.Sprintf("s.sent_at < $%d", len(args)))
	}
	if len(conds) > 0 {
		query += "\n\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\tORDER BY s.sent_at DESC, s.id DESC"

	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf("\n\tLIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf("\n\tOFFSET $%d", len(args))
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar envíos: %w", err)
	}
	defer rows.Close()

	var shipments []*entity.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("listar envíos: scan: %w", err)
		}
		shipments = append(shipments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listar envíos: %w", err)
	}
	return shipments, nil
}

// MarkStatus aplica el cambio de estado solo si el envío sigue en SENT.
// Retorna false sin error cuando la fila ya no estaba activa. Un Notes
// vacío conserva las notas existentes.
func (r *ShipmentRepo) MarkStatus(id int64, ch repository.StatusChange) (bool, error) {
	query := `
		UPDATE shipments
		SET status = $1, received_at = $2, updated_by = $3,
		    notes = CASE WHEN $4 = '' THEN notes ELSE $4 END
		WHERE id = $5 AND status = $6`

	tag, err := r.q.Exec(context.Background(), query,
		ch.NewStatus, ch.ReceivedAt, ch.UpdatedBy, ch.Notes, id, entity.StatusSent,
	)
	if err != nil {
		return false, fmt.Errorf("actualizar estado: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CountByStatus retorna cuántos envíos hay por estado. Los estados sin
// envíos no aparecen en el mapa.
func (r *ShipmentRepo) CountByStatus() (map[string]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM shipments
		GROUP BY status`

	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("contar por estado: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("contar por estado: scan: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("contar por estado: %w", err)
	}
	return counts, nil
}

// rowScanner cubre pgx.Row y pgx.Rows para compartir el scan.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanShipment(row rowScanner) (*entity.Shipment, error) {
	var s entity.Shipment
	err := row.Scan(
		&s.ID, &s.QRCode, &s.IMEI, &s.DeviceName, &s.Capacity, &s.SupplierID,
		&s.Status, &s.SentAt, &s.ReceivedAt, &s.CreatedBy, &s.UpdatedBy, &s.Notes,
		&s.SupplierName,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
