package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Envios-api/internal/domain"
	"github.com/jhoicas/Envios-api/internal/domain/entity"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
)

// Verificación en tiempo de compilación
var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo implementación del puerto ShipmentRepository sobre SQLite.
// Acepta un Querier para poder operar dentro o fuera de una transacción.
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository crea el repositorio de envíos.
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

// selectShipment incluye el nombre del proveedor para evitar una segunda
// consulta en los listados.
const selectShipment = `
	SELECT s.id, s.qr_code, s.imei, s.device_name, s.capacity, s.supplier_id,
	       s.status, s.sent_at, s.received_at, s.created_by, s.updated_by, s.notes,
	       COALESCE(p.name, '') AS supplier_name
	FROM shipments s
	LEFT JOIN suppliers p ON p.id = s.supplier_id`

// Create inserta un envío y asigna el ID generado. Si ya existe un envío
// activo con el mismo código QR retorna domain.ErrQRConflict: la unicidad
// la impone el índice parcial idx_shipments_active_qr.
func (r *ShipmentRepo) Create(s *entity.Shipment) error {
	query := `
		INSERT INTO shipments (qr_code, imei, device_name, capacity, supplier_id,
		                       status, sent_at, received_at, created_by, updated_by, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.q.ExecContext(context.Background(), query,
		s.QRCode, s.IMEI, s.DeviceName, s.Capacity, s.SupplierID,
		s.Status, s.SentAt, nullTime(s.ReceivedAt), s.CreatedBy, s.UpdatedBy, s.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrQRConflict
		}
		return fmt.Errorf("insertar envío: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insertar envío: obtener id: %w", err)
	}
	s.ID = id
	return nil
}

// GetByID busca un envío por su ID. Retorna (nil, nil) si no existe.
func (r *ShipmentRepo) GetByID(id int64) (*entity.Shipment, error) {
	query := selectShipment + `
	WHERE s.id = ?`

	s, err := scanShipment(r.q.QueryRowContext(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
	WHERE s.qr_code = ?
	ORDER BY s.id DESC
	LIMIT 1`

	s, err := scanShipment(r.q.QueryRowContext(context.Background(), query, qrCode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
	WHERE s.qr_code = ? AND s.status = ?`

	s, err := scanShipment(r.q.QueryRowContext(context.Background(), query, qrCode, entity.StatusSent))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
		marks := strings.TrimSuffix(strings.Repeat("?, ", len(f.Statuses)), ", ")
		conds = append(conds, fmt.Sprintf("s.status IN (%s)", marks))
		for _, st := range f.Statuses {
			args = append(args, st)
		}
	}
	if f.SupplierID != 0 {
		conds = append(conds, "s.supplier_id = ?")
		args = append(args, f.SupplierID)
	}
	if f.Search != "" {
		conds = append(conds, "(s.qr_code LIKE ? OR s.imei LIKE ? OR s.device_name LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if !f.SentFrom.IsZero() {
		conds = append(conds, "s.sent_at >= ?")
		args = append(args, f.SentFrom)
	}
	if !f.SentTo.IsZero() {
		conds = append(conds, "s.sent_at < ?")
		args = append(args, f.SentTo)
	}
	if len(conds) > 0 {
		query += "\n\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\tORDER BY s.sent_at DESC, s.id DESC"

	if f.Limit > 0 {
		query += "\n\tLIMIT ?"
		args = append(args, f.Limit)
		if f.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, f.Offset)
		}
	} else if f.Offset > 0 {
		// SQLite exige LIMIT para usar OFFSET; -1 significa sin tope.
		query += "\n\tLIMIT -1 OFFSET ?"
		args = append(args, f.Offset)
	}

	rows, err := r.q.QueryContext(context.Background(), query, args...)
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
// Retorna false sin error cuando la fila ya no estaba activa: el guard en
// el WHERE es lo que hace la transición segura ante peticiones concurrentes.
// Un Notes vacío conserva las notas existentes.
func (r *ShipmentRepo) MarkStatus(id int64, ch repository.StatusChange) (bool, error) {
	query := `
		UPDATE shipments
		SET status = ?, received_at = ?, updated_by = ?,
		    notes = CASE WHEN ? = '' THEN notes ELSE ? END
		WHERE id = ? AND status = ?`

	res, err := r.q.ExecContext(context.Background(), query,
		ch.NewStatus, ch.ReceivedAt, ch.UpdatedBy, ch.Notes, ch.Notes, id, entity.StatusSent,
	)
	if err != nil {
		return false, fmt.Errorf("actualizar estado: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("actualizar estado: filas afectadas: %w", err)
	}
	return n > 0, nil
}

// CountByStatus retorna cuántos envíos hay por estado. Los estados sin
// envíos no aparecen en el mapa.
func (r *ShipmentRepo) CountByStatus() (map[string]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM shipments
		GROUP BY status`

	rows, err := r.q.QueryContext(context.Background(), query)
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

// rowScanner cubre *sql.Row y *sql.Rows para compartir el scan.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanShipment(row rowScanner) (*entity.Shipment, error) {
	var s entity.Shipment
	var receivedAt sql.NullTime
	err := row.Scan(
		&s.ID, &s.QRCode, &s.IMEI, &s.DeviceName, &s.Capacity, &s.SupplierID,
		&s.Status, &s.SentAt, &receivedAt, &s.CreatedBy, &s.UpdatedBy, &s.Notes,
		&s.SupplierName,
	)
	if err != nil {
		return nil, err
	}
	if receivedAt.Valid {
		t := receivedAt.Time
		s.ReceivedAt = &t
	}
	return &s, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
