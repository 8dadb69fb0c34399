package audit

import (
	"fmt"

	"github.com/jhoicas/Envios-api/internal/application/dto"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
)

// QueryUseCase consulta de solo lectura sobre la bitácora. La escritura no
// pasa por aquí: los eventos se insertan dentro de las transacciones del
// ciclo de vida del envío.
type QueryUseCase struct {
	repo repository.AuditRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(repo repository.AuditRepository) *QueryUseCase {
	return &QueryUseCase{repo: repo}
}

// List devuelve eventos del más reciente al más antiguo, opcionalmente
// filtrados por envío.
func (uc *QueryUseCase) List(q dto.AuditQuery) ([]dto.AuditEventResponse, error) {
	events, err := uc.repo.List(repository.AuditFilter{
		ShipmentID: q.ShipmentID,
		Limit:      q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("consultar bitácora: %w", err)
	}
	out := make([]dto.AuditEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, dto.AuditEventResponse{
			ID:         e.ID,
			ShipmentID: e.ShipmentID,
			QRCode:     e.ShipmentQR,
			Action:     e.Action,
			OldValue:   e.OldValue,
			NewValue:   e.NewValue,
			Actor:      e.Actor,
			Notes:      e.Notes,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out, nil
}
