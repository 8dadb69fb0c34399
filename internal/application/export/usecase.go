package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Envios-api/internal/application/dto"
	"github.com/jhoicas/Envios-api/internal/domain"
	"github.com/jhoicas/Envios-api/internal/domain/entity"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
)

// UseCase sincroniza el snapshot local de envíos hacia el espejo externo.
// La corrida no es transaccional sobre la red: un fallo a mitad deja las
// filas ya escritas; reintentar en modo append es idempotente porque los
// IDs ya presentes se saltan.
type UseCase struct {
	shipmentRepo repository.ShipmentRepository
	mirror       Mirror
}

// NewUseCase construye el exportador. mirror puede ser nil cuando la
// sincronización no está configurada; en ese caso Export retorna
// domain.ErrSyncUnavailable.
func NewUseCase(shipmentRepo repository.ShipmentRepository, mirror Mirror) *UseCase {
	return &UseCase{shipmentRepo: shipmentRepo, mirror: mirror}
}

// Export corre una sincronización completa en el modo pedido y devuelve el
// resumen de filas escritas.
func (uc *UseCase) Export(ctx context.Context, input dto.SyncRequest) (*dto.SyncResult, error) {
	mode, err := ParseMode(input.Mode)
	if err != nil {
		return nil, err
	}
	if uc.mirror == nil {
		return nil, fmt.Errorf("sincronización no configurada: %w", domain.ErrSyncUnavailable)
	}

	filter := repository.ShipmentFilter{SupplierID: input.SupplierID}
	if input.Status != "" {
		status := strings.ToUpper(strings.TrimSpace(input.Status))
		if !entity.IsValidStatus(status) {
			return nil, fmt.Errorf("estado desconocido %q: %w", status, domain.ErrValidation)
		}
		filter.Statuses = []string{status}
	}
	shipments, err := uc.shipmentRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("listar envíos: %w", err)
	}

	if err := uc.mirror.EnsureHeader(ctx, Header()); err != nil {
		return nil, err
	}

	syncedAt := time.Now()
	if mode == ModeReplace {
		return uc.replaceAll(ctx, shipments, syncedAt)
	}
	return uc.appendMissing(ctx, shipments, syncedAt)
}

// appendMissing agrega una fila por cada envío cuyo ID no está en el espejo.
// Nunca toca filas existentes.
func (uc *UseCase) appendMissing(ctx context.Context, shipments []*entity.Shipment, syncedAt time.Time) (*dto.SyncResult, error) {
	existing, err := uc.mirror.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	present := make(map[int64]struct{}, len(existing))
	for _, id := range existing {
		present[id] = struct{}{}
	}

	var rows [][]string
	skipped := 0
	for _, s := range shipments {
		if _, ok := present[s.ID]; ok {
			skipped++
			continue
		}
		rows = append(rows, Row(s, syncedAt))
	}
	if len(rows) > 0 {
		if err := uc.mirror.AppendRows(ctx, rows); err != nil {
			return nil, err
		}
	}
	return &dto.SyncResult{Mode: string(ModeAppend), RowsWritten: len(rows), Skipped: skipped}, nil
}

// replaceAll borra las filas de datos y reescribe el snapshot completo.
func (uc *UseCase) replaceAll(ctx context.Context, shipments []*entity.Shipment, syncedAt time.Time) (*dto.SyncResult, error) {
	if err := uc.mirror.ClearRows(ctx); err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(shipments))
	for _, s := range shipments {
		rows = append(rows, Row(s, syncedAt))
	}
	if len(rows) > 0 {
		if err := uc.mirror.AppendRows(ctx, rows); err != nil {
			return nil, err
		}
	}
	return &dto.SyncResult{Mode: string(ModeReplace), RowsWritten: len(rows)}, nil
}
