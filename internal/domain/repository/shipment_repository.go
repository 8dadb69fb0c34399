package repository

import (
	"time"

	"github.com/jhoicas/Envios-api/internal/domain/entity"
)

// ShipmentFilter predicados para listados de envíos.
// Los campos en cero se ignoran; el orden es del más reciente al más antiguo.
type ShipmentFilter struct {
	Statuses   []string
	SupplierID int64     // 0 = todos
	Search     string    // subcadena sobre qr_code, imei o device_name
	SentFrom   time.Time // cero = sin límite inferior (inclusiva)
	SentTo     time.Time // cero = sin límite superior (exclusiva)
	Limit      int       // 0 = sin límite
	Offset     int
}

// StatusChange datos de una transición de estado.
type StatusChange struct {
	NewStatus  string
	ReceivedAt time.Time
	UpdatedBy  string
	Notes      string // vacío = conservar las notas existentes
}

// ShipmentRepository puerto de persistencia para envíos.
// Las lecturas que no encuentran registro devuelven (nil, nil).
type ShipmentRepository interface {
	// Create inserta el envío y asigna su ID. La unicidad de qr_code entre
	// envíos activos la garantiza el índice del almacén; un duplicado
	// retorna domain.ErrQRConflict.
	Create(s *entity.Shipment) error
	GetByID(id int64) (*entity.Shipment, error)
	// GetByQR busca por código QR sin importar el estado (el más reciente).
	GetByQR(qr string) (*entity.Shipment, error)
	// GetActiveByQR busca el envío aún en SENT con ese código QR.
	GetActiveByQR(qr string) (*entity.Shipment, error)
	List(f ShipmentFilter) ([]*entity.Shipment, error)
	// MarkStatus aplica el cambio solo si el envío sigue en SENT; el guard
	// en el WHERE hace atómica la regla de transición. Devuelve false si
	// ninguna fila fue afectada.
	MarkStatus(id int64, ch StatusChange) (bool, error)
	CountByStatus() (map[string]int, error)
}
