package entity

import "time"

// Estados del ciclo de vida de un envío.
const (
	StatusSent     = "SENT"     // Registrado al escanear; en tránsito
	StatusReceived = "RECEIVED" // Recibido en destino (final)
	StatusDamaged  = "DAMAGED"  // Llegó con daños (final)
	StatusLost     = "LOST"     // Extraviado en tránsito (final)
)

// IsTerminalStatus indica si un estado es final (no admite más transiciones).
func IsTerminalStatus(s string) bool {
	switch s {
	case StatusReceived, StatusDamaged, StatusLost:
		return true
	}
	return false
}

// IsValidStatus indica si el string corresponde a un estado conocido.
func IsValidStatus(s string) bool {
	return s == StatusSent || IsTerminalStatus(s)
}

// Shipment representa un equipo despachado, creado a partir de un escaneo QR.
// Nunca se borra físicamente; su historia queda en la bitácora.
type Shipment struct {
	ID         int64
	QRCode     string
	IMEI       string
	DeviceName string
	Capacity   string // se guarda como llega en el escaneo ("128", "1TB", ...)
	SupplierID int64
	Status     string
	SentAt     time.Time
	ReceivedAt *time.Time // se fija una sola vez, al salir de SENT
	CreatedBy  string
	UpdatedBy  string
	Notes      string

	SupplierName string // solo en lecturas (JOIN con suppliers)
}

// IsTerminal indica si el envío ya alcanzó un estado final.
func (s *Shipment) IsTerminal() bool {
	return IsTerminalStatus(s.Status)
}

// CanTransitionTo valida la única transición permitida: SENT → {RECEIVED, DAMAGED, LOST}.
func (s *Shipment) CanTransitionTo(newStatus string) bool {
	return s.Status == StatusSent && IsTerminalStatus(newStatus)
}
