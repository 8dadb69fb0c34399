package label

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Envios-api/internal/domain"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
	"github.com/jhoicas/Envios-api/internal/domain/scan"
)

// LabelData campos que se imprimen en la etiqueta de un envío.
type LabelData struct {
	ShipmentID   int64
	QRPayload    string // payload canónico de cuatro campos, codificado en el QR
	QRCode       string
	IMEI         string
	DeviceName   string
	Capacity     string
	SupplierName string
	Status       string
	SentAt       time.Time
}

// Generator renderiza la etiqueta como documento imprimible.
type Generator interface {
	GenerateLabel(ctx context.Context, data LabelData) ([]byte, error)
}

// UseCase arma los datos de la etiqueta de un envío y delega el PDF al
// generador. La etiqueta lleva el mismo payload que entregó el escáner,
// así el código impreso vuelve a resolver el envío al escanearse.
type UseCase struct {
	shipmentRepo repository.ShipmentRepository
	generator    Generator
}

// NewUseCase construye el caso de uso.
func NewUseCase(shipmentRepo repository.ShipmentRepository, generator Generator) *UseCase {
	return &UseCase{shipmentRepo: shipmentRepo, generator: generator}
}

// Generate produce el PDF de la etiqueta del envío indicado.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si el envío no existe.
func (uc *UseCase) Generate(ctx context.Context, shipmentID int64) ([]byte, string, error) {
	s, err := uc.shipmentRepo.GetByID(shipmentID)
	if err != nil {
		return nil, "", fmt.Errorf("etiqueta: obtener envío: %w", err)
	}
	if s == nil {
		return nil, "", domain.ErrNotFound
	}

	payload := scan.Payload{
		QRCode:     s.QRCode,
		IMEI:       s.IMEI,
		DeviceName: s.DeviceName,
		Capacity:   s.Capacity,
	}
	data := LabelData{
		ShipmentID:   s.ID,
		QRPayload:    payload.String(),
		QRCode:       s.QRCode,
		IMEI:         s.IMEI,
		DeviceName:   s.DeviceName,
		Capacity:     s.Capacity,
		SupplierName: s.SupplierName,
		Status:       s.Status,
		SentAt:       s.SentAt,
	}

	pdfBytes, err := uc.generator.GenerateLabel(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("etiqueta: generación fallida: %w", err)
	}
	filename := fmt.Sprintf("etiqueta_%s.pdf", s.QRCode)
	return pdfBytes, filename, nil
}
