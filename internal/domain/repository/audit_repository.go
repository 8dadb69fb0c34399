package repository

import "github.com/jhoicas/Envios-api/internal/domain/entity"

// DefaultAuditLimit tope de filas cuando el filtro no indica límite.
const DefaultAuditLimit = 100

// AuditFilter predicados para consultar la bitácora.
type AuditFilter struct {
	ShipmentID int64 // 0 = todos los envíos
	Limit      int   // 0 = DefaultAuditLimit
}

// AuditRepository puerto de la bitácora append-only. Los eventos nunca se
// actualizan ni se borran.
type AuditRepository interface {
	Append(e *entity.AuditEvent) error
	// List devuelve eventos del más reciente al más antiguo, con el
	// qr_code del envío resuelto para mostrar.
	List(f AuditFilter) ([]*entity.AuditEvent, error)
}
