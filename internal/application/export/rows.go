package export

import (
	"strconv"
	"time"

	"github.com/jhoicas/Envios-api/internal/domain/entity"
)

// timeLayout formato de fechas en el espejo y en el CSV.
const timeLayout = "2006-01-02 15:04:05"

// Header encabezado fijo de la proyección de trece columnas.
func Header() []string {
	return []string{
		"ID", "Código QR", "IMEI", "Equipo", "Capacidad", "Proveedor",
		"Estado", "Fecha Envío", "Fecha Recepción", "Creado Por",
		"Actualizado Por", "Notas", "Sincronizado",
	}
}

// Row proyecta un envío a su fila de trece columnas. syncedAt es el instante
// de la corrida de exportación, el mismo para todas las filas.
func Row(s *entity.Shipment, syncedAt time.Time) []string {
	receivedAt := ""
	if s.ReceivedAt != nil {
		receivedAt = s.ReceivedAt.Format(timeLayout)
	}
	return []string{
		strconv.FormatInt(s.ID, 10),
		s.QRCode,
		s.IMEI,
		s.DeviceName,
		s.Capacity,
		s.SupplierName,
		s.Status,
		s.SentAt.Format(timeLayout),
		receivedAt,
		s.CreatedBy,
		s.UpdatedBy,
		s.Notes,
		syncedAt.Format(timeLayout),
	}
}
