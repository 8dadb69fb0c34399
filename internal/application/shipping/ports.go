package shipping

import (
	"context"

	"github.com/jhoicas/Envios-api/internal/domain/entity"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del almacén,
// pasando repositorios de envíos y bitácora atados a esa tx.
// Garantiza que la mutación y su evento de auditoría se confirman o
// revierten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		shipments repository.ShipmentRepository,
		audit repository.AuditRepository,
	) error) error
}

// Notifier aviso de mejor esfuerzo después de confirmar una recepción.
// Un error del notificador se registra y nunca revierte la transacción.
type Notifier interface {
	NotifyReceived(ctx context.Context, s *entity.Shipment, supplierName string) error
}
