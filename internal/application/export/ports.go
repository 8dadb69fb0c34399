package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Envios-api/internal/domain"
)

// Mode modo de corrida del exportador.
type Mode string

const (
	ModeAppend  Mode = "append"  // agrega solo los IDs ausentes en el espejo
	ModeReplace Mode = "replace" // borra las filas y reescribe el snapshot
)

// ParseMode normaliza y valida el modo recibido por la API.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeAppend:
		return ModeAppend, nil
	case ModeReplace:
		return ModeReplace, nil
	}
	return "", fmt.Errorf("modo de sincronización desconocido %q: %w", raw, domain.ErrValidation)
}

// Mirror puerto hacia la hoja externa que refleja los envíos. Las filas son
// celdas de texto ya proyectadas; la primera columna es el ID local. Todo
// fallo de red o de autenticación envuelve domain.ErrSyncUnavailable.
type Mirror interface {
	// EnsureHeader garantiza que la fila 1 sea el encabezado dado.
	EnsureHeader(ctx context.Context, header []string) error
	// ListIDs devuelve los IDs presentes en el espejo (columna A, desde la fila 2).
	ListIDs(ctx context.Context) ([]int64, error)
	AppendRows(ctx context.Context, rows [][]string) error
	// ClearRows borra todas las filas de datos conservando el encabezado.
	ClearRows(ctx context.Context) error
}
