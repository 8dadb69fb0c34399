package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Envios-api/internal/domain/entity"
)

// WriteCSV escribe los envíos como CSV UTF-8 con BOM, encabezado incluido.
// El BOM hace que Excel detecte la codificación al abrir el archivo.
func WriteCSV(w io.Writer, shipments []*entity.Shipment) error {
	bw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bw)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("escribir encabezado: %w", err)
	}
	syncedAt := time.Now()
	for _, s := range shipments {
		if err := cw.Write(Row(s, syncedAt)); err != nil {
			return fmt.Errorf("escribir fila %d: %w", s.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("volcar csv: %w", err)
	}
	return bw.Close()
}
