package shipping

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jhoicas/Envios-api/internal/application/dto"
	"github.com/jhoicas/Envios-api/internal/domain"
	"github.com/jhoicas/Envios-api/internal/domain/entity"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
	"github.com/jhoicas/Envios-api/internal/domain/scan"
)

// LifecycleUseCase es el único escritor sobre envíos: alta por escaneo y
// transición a estado final. Cada mutación exitosa deja exactamente un evento
// en la bitácora, dentro de la misma transacción.
type LifecycleUseCase struct {
	txRunner     TxRunner
	supplierRepo repository.SupplierRepository
	notifier     Notifier
}

// NewLifecycleUseCase construye el caso de uso. notifier puede ser nil:
// en ese caso no se envían avisos de recepción.
func NewLifecycleUseCase(
	txRunner TxRunner,
	supplierRepo repository.SupplierRepository,
	notifier Notifier,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		txRunner:     txRunner,
		supplierRepo: supplierRepo,
		notifier:     notifier,
	}
}

// Send registra un envío a partir del payload crudo del QR. Valida el formato
// (cuatro campos separados por coma), verifica que el proveedor exista y esté
// activo, e inserta envío + evento CREATED en una sola transacción. Un código
// QR ya activo retorna domain.ErrQRConflict y no deja rastro en la bitácora.
func (uc *LifecycleUseCase) Send(ctx context.Context, input dto.SendShipmentRequest, actor string) (*dto.ShipmentResponse, error) {
	payload, err := scan.Parse(input.Payload)
	if err != nil {
		return nil, err
	}

	supplier, err := uc.supplierRepo.GetByID(input.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("consultar proveedor: %w", err)
	}
	if supplier == nil || !supplier.Active {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	s := &entity.Shipment{
		QRCode:     payload.QRCode,
		IMEI:       payload.IMEI,
		DeviceName: payload.DeviceName,
		Capacity:   payload.Capacity,
		SupplierID: input.SupplierID,
		Status:     entity.StatusSent,
		SentAt:     now,
		CreatedBy:  actor,
		Notes:      input.Notes,
	}

	err = uc.txRunner.Run(ctx, func(shipments repository.ShipmentRepository, audit repository.AuditRepository) error {
		if err := shipments.Create(s); err != nil {
			return err
		}
		ev := &entity.AuditEvent{
			ShipmentID: s.ID,
			Action:     entity.AuditActionCreated,
			NewValue:   entity.StatusSent,
			Actor:      actor,
			Notes:      input.Notes,
			CreatedAt:  now,
		}
		if err := audit.Append(ev); err != nil {
			return fmt.Errorf("registrar bitácora: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.SupplierName = supplier.Name
	return toShipmentResponse(s), nil
}

// ReceiveByID transiciona el envío identificado por ID a un estado final.
func (uc *LifecycleUseCase) ReceiveByID(ctx context.Context, id int64, input dto.UpdateStatusRequest, actor string) (*dto.ShipmentResponse, error) {
	return uc.transition(ctx, input.NewStatus, input.Notes, actor, func(shipments repository.ShipmentRepository) (*entity.Shipment, error) {
		return shipments.GetByID(id)
	})
}

// ReceiveByQR transiciona el envío resolviéndolo por código QR entre los que
// siguen en SENT. Acepta el código suelto o el payload completo del escaneo
// (se toma el primer campo).
func (uc *LifecycleUseCase) ReceiveByQR(ctx context.Context, input dto.ReceiveShipmentRequest, actor string) (*dto.ShipmentResponse, error) {
	qr := scan.ExtractQR(input.QR)
	if qr == "" {
		return nil, fmt.Errorf("código QR vacío: %w", domain.ErrValidation)
	}
	return uc.transition(ctx, input.NewStatus, input.Notes, actor, func(shipments repository.ShipmentRepository) (*entity.Shipment, error) {
		return shipments.GetActiveByQR(qr)
	})
}

// transition aplica la única transición permitida (SENT → estado final) sobre
// el envío que entregue resolve, con cambio de estado + evento STATUS_UPDATED
// en la misma transacción. received_at se fija aquí, una sola vez.
func (uc *LifecycleUseCase) transition(
	ctx context.Context,
	newStatus, notes, actor string,
	resolve func(repository.ShipmentRepository) (*entity.Shipment, error),
) (*dto.ShipmentResponse, error) {
	if !entity.IsTerminalStatus(newStatus) {
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now()
	var updated *entity.Shipment

	err := uc.txRunner.Run(ctx, func(shipments repository.ShipmentRepository, audit repository.AuditRepository) error {
		s, err := resolve(shipments)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if !s.CanTransitionTo(newStatus) {
			return domain.ErrInvalidTransition
		}

		ok, err := shipments.MarkStatus(s.ID, repository.StatusChange{
			NewStatus:  newStatus,
			ReceivedAt: now,
			UpdatedBy:  actor,
			Notes:      notes,
		})
		if err != nil {
			return err
		}
		if !ok {
			// Otra petición completó la transición entre la lectura y el update.
			return domain.ErrInvalidTransition
		}

		ev := &entity.AuditEvent{
			ShipmentID: s.ID,
			Action:     entity.AuditActionStatusUpdated,
			OldValue:   s.Status,
			NewValue:   newStatus,
			Actor:      actor,
			Notes:      notes,
			CreatedAt:  now,
		}
		if err := audit.Append(ev); err != nil {
			return fmt.Errorf("registrar bitácora: %w", err)
		}

		s.Status = newStatus
		s.ReceivedAt = &now
		s.UpdatedBy = actor
		if notes != "" {
			s.Notes = notes
		}
		updated = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notifyReceived(ctx, updated)
	return toShipmentResponse(updated), nil
}

// notifyReceived avisa la recepción después del commit. Mejor esfuerzo: un
// fallo del notificador se registra y nunca revierte la transición.
func (uc *LifecycleUseCase) notifyReceived(ctx context.Context, s *entity.Shipment) {
	if uc.notifier == nil || s.Status != entity.StatusReceived {
		return
	}
	if err := uc.notifier.NotifyReceived(ctx, s, s.SupplierName); err != nil {
		log.Printf("[NOTIFY][%d] aviso de recepción falló: %v", s.ID, err)
	}
}

func toShipmentResponse(s *entity.Shipment) *dto.ShipmentResponse {
	return &dto.ShipmentResponse{
		ID:           s.ID,
		QRCode:       s.QRCode,
		IMEI:         s.IMEI,
		DeviceName:   s.DeviceName,
		Capacity:     s.Capacity,
		SupplierID:   s.SupplierID,
		SupplierName: s.SupplierName,
		Status:       s.Status,
		SentAt:       s.SentAt,
		ReceivedAt:   s.ReceivedAt,
		CreatedBy:    s.CreatedBy,
		UpdatedBy:    s.UpdatedBy,
		Notes:        s.Notes,
	}
}
