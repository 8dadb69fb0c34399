package dto

import "time"

// SendShipmentRequest entrada para registrar un envío a partir de un escaneo.
// Payload es la cadena cruda del QR: "qr_code,imei,device_name,capacity".
type SendShipmentRequest struct {
	Payload    string `json:"payload" validate:"required"`
	SupplierID int64  `json:"supplier_id" validate:"required"`
	Notes      string `json:"notes"`
}

// ReceiveShipmentRequest transición de estado resolviendo el envío por escaneo.
// QR acepta el código suelto o el payload completo de cuatro campos.
type ReceiveShipmentRequest struct {
	QR        string `json:"qr" validate:"required"`
	NewStatus string `json:"new_status" validate:"required"`
	Notes     string `json:"notes"`
}

// UpdateStatusRequest transición de estado de un envío identificado por ID.
type UpdateStatusRequest struct {
	NewStatus string `json:"new_status" validate:"required"`
	Notes     string `json:"notes"`
}

// ShipmentResponse representación API de un envío.
type ShipmentResponse struct {
	ID           int64      `json:"id"`
	QRCode       string     `json:"qr_code"`
	IMEI         string     `json:"imei"`
	DeviceName   string     `json:"device_name"`
	Capacity     string     `json:"capacity"`
	SupplierID   int64      `json:"supplier_id"`
	SupplierName string     `json:"supplier_name,omitempty"`
	Status       string     `json:"status"`
	SentAt       time.Time  `json:"sent_at"`
	ReceivedAt   *time.Time `json:"received_at,omitempty"`
	CreatedBy    string     `json:"created_by"`
	UpdatedBy    string     `json:"updated_by,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// ShipmentListResponse lista paginada de envíos.
type ShipmentListResponse struct {
	Items []ShipmentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ListShipmentsQuery filtros de listado (query params).
type ListShipmentsQuery struct {
	Status     string `query:"status"` // uno o varios estados separados por coma
	SupplierID int64  `query:"supplier_id"`
	Q          string `query:"q"`    // búsqueda sobre qr_code, imei y device_name
	From       string `query:"from"` // fecha de envío desde (YYYY-MM-DD)
	To         string `query:"to"`   // fecha de envío hasta (YYYY-MM-DD)
	PageRequest
}

// ResolveScanRequest entrada del flujo escanear-primero.
type ResolveScanRequest struct {
	Payload string `json:"payload" validate:"required"`
}

// ParsedPayload campos del escaneo ya separados, para precargar el alta.
type ParsedPayload struct {
	QRCode     string `json:"qr_code"`
	IMEI       string `json:"imei"`
	DeviceName string `json:"device_name"`
	Capacity   string `json:"capacity"`
}

// ResolveScanResponse resultado del flujo escanear-primero: si ya existe un
// envío con ese código se devuelve; si no, el cliente ofrece crearlo con
// los campos parseados.
type ResolveScanResponse struct {
	Found    bool              `json:"found"`
	Shipment *ShipmentResponse `json:"shipment,omitempty"`
	Parsed   ParsedPayload     `json:"parsed"`
}
