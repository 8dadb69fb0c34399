package dto

import "time"

// AuditQuery filtros para consultar la bitácora (query params).
type AuditQuery struct {
	ShipmentID int64 `query:"shipment_id"`
	Limit      int   `query:"limit"`
}

// AuditEventResponse un evento de la bitácora, con el qr_code resuelto.
type AuditEventResponse struct {
	ID         int64     `json:"id"`
	ShipmentID int64     `json:"shipment_id"`
	QRCode     string    `json:"qr_code,omitempty"`
	Action     string    `json:"action"`
	OldValue   string    `json:"old_value,omitempty"`
	NewValue   string    `json:"new_value"`
	Actor      string    `json:"actor"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
