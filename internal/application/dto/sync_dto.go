package dto

// SyncRequest dispara una sincronización hacia el espejo externo.
// Mode: "append" agrega solo los envíos cuyo ID no está en el espejo;
// "replace" borra las filas (salvo encabezado) y reescribe todo.
type SyncRequest struct {
	Mode string `json:"mode" validate:"required,oneof=append replace"`
	// Filtros opcionales sobre el snapshot local a sincronizar.
	Status     string `json:"status"`
	SupplierID int64  `json:"supplier_id"`
}

// SyncResult resumen de una sincronización.
type SyncResult struct {
	Mode        string `json:"mode"`
	RowsWritten int    `json:"rows_written"`
	Skipped     int    `json:"skipped,omitempty"` // solo en append: IDs ya presentes
}
