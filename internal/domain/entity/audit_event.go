package entity

import "time"

// Acciones registradas en la bitácora.
const (
	AuditActionCreated       = "CREATED"        // alta de envío
	AuditActionStatusUpdated = "STATUS_UPDATED" // transición de estado
)

// AuditEvent evento inmutable de la bitácora. Exactamente uno por mutación
// exitosa; nunca se modifica después de insertado. El orden por CreatedAt
// es la traza de auditoría.
type AuditEvent struct {
	ID         int64
	ShipmentID int64
	Action     string
	OldValue   string // estado anterior; vacío en CREATED
	NewValue   string // estado resultante
	Actor      string
	Notes      string
	CreatedAt  time.Time

	ShipmentQR string // solo en listados (JOIN con shipments)
}
