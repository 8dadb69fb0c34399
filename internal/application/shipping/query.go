package shipping

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jhoicas/Envios-api/internal/application/dto"
	"github.com/jhoicas/Envios-api/internal/application/export"
	"github.com/jhoicas/Envios-api/internal/domain"
	"github.com/jhoicas/Envios-api/internal/domain/entity"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
	"github.com/jhoicas/Envios-api/internal/domain/scan"
)

// dateLayout formato de fecha de los filtros from/to.
const dateLayout = "2006-01-02"

// QueryUseCase lecturas de envíos: listados, detalle, flujo escanear-primero,
// contadores del tablero y exportación CSV.
type QueryUseCase struct {
	shipmentRepo repository.ShipmentRepository
}

// NewQueryUseCase construye el caso de uso de lecturas.
func NewQueryUseCase(shipmentRepo repository.ShipmentRepository) *QueryUseCase {
	return &QueryUseCase{shipmentRepo: shipmentRepo}
}

// List devuelve los envíos que pasan el filtro, del más reciente al más antiguo.
func (uc *QueryUseCase) List(q dto.ListShipmentsQuery) (*dto.ShipmentListResponse, error) {
	q.DefaultPage()
	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}
	shipments, err := uc.shipmentRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("listar envíos: %w", err)
	}
	items := make([]dto.ShipmentResponse, 0, len(shipments))
	for _, s := range shipments {
		items = append(items, *toShipmentResponse(s))
	}
	return &dto.ShipmentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// Get devuelve un envío por ID o domain.ErrNotFound.
func (uc *QueryUseCase) Get(id int64) (*dto.ShipmentResponse, error) {
	s, err := uc.shipmentRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("consultar envío: %w", err)
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toShipmentResponse(s), nil
}

// Resolve implementa el flujo escanear-primero: separa el payload de forma
// laxa y busca el envío más reciente con ese código. Si existe se devuelve;
// si no, el cliente ofrece el alta precargada con los campos parseados.
func (uc *QueryUseCase) Resolve(input dto.ResolveScanRequest) (*dto.ResolveScanResponse, error) {
	parsed := scan.ParseLenient(input.Payload)
	if parsed.QRCode == "" {
		return nil, fmt.Errorf("código QR vacío: %w", domain.ErrValidation)
	}
	resp := &dto.ResolveScanResponse{
		Parsed: dto.ParsedPayload{
			QRCode:     parsed.QRCode,
			IMEI:       parsed.IMEI,
			DeviceName: parsed.DeviceName,
			Capacity:   parsed.Capacity,
		},
	}
	s, err := uc.shipmentRepo.GetByQR(parsed.QRCode)
	if err != nil {
		return nil, fmt.Errorf("buscar por código QR: %w", err)
	}
	if s != nil {
		resp.Found = true
		resp.Shipment = toShipmentResponse(s)
	}
	return resp, nil
}

// Dashboard arma los contadores del tablero a partir del conteo por estado.
func (uc *QueryUseCase) Dashboard() (*dto.DashboardResponse, error) {
	counts, err := uc.shipmentRepo.CountByStatus()
	if err != nil {
		return nil, fmt.Errorf("contar por estado: %w", err)
	}
	byStatus := map[string]int{
		entity.StatusSent:     counts[entity.StatusSent],
		entity.StatusReceived: counts[entity.StatusReceived],
		entity.StatusDamaged:  counts[entity.StatusDamaged],
		entity.StatusLost:     counts[entity.StatusLost],
	}
	resp := &dto.DashboardResponse{
		Sent:     byStatus[entity.StatusSent],
		Received: byStatus[entity.StatusReceived],
		Issues:   byStatus[entity.StatusDamaged] + byStatus[entity.StatusLost],
		ByStatus: byStatus,
	}
	resp.Total = resp.Sent + resp.Received + resp.Issues
	return resp, nil
}

// ExportCSV escribe sobre w los envíos filtrados como CSV UTF-8 con BOM,
// con la misma proyección de columnas que el espejo de sincronización.
// Ignora la paginación: exporta todo lo que pase el filtro.
func (uc *QueryUseCase) ExportCSV(q dto.ListShipmentsQuery, w io.Writer) error {
	q.Limit = 0
	q.Offset = 0
	filter, err := buildFilter(q)
	if err != nil {
		return err
	}
	shipments, err := uc.shipmentRepo.List(filter)
	if err != nil {
		return fmt.Errorf("listar envíos: %w", err)
	}
	return export.WriteCSV(w, shipments)
}

// buildFilter traduce los query params al filtro del repositorio. Estados
// desconocidos o fechas mal formadas retornan domain.ErrValidation.
func buildFilter(q dto.ListShipmentsQuery) (repository.ShipmentFilter, error) {
	f := repository.ShipmentFilter{
		SupplierID: q.SupplierID,
		Search:     strings.TrimSpace(q.Q),
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	if q.Status != "" {
		for _, raw := range strings.Split(q.Status, ",") {
			status := strings.ToUpper(strings.TrimSpace(raw))
			if status == "" {
				continue
			}
			if !entity.IsValidStatus(status) {
				return repository.ShipmentFilter{}, fmt.Errorf("estado desconocido %q: %w", status, domain.ErrValidation)
			}
			f.Statuses = append(f.Statuses, status)
		}
	}
	if q.From != "" {
		from, err := time.ParseInLocation(dateLayout, q.From, time.Local)
		if err != nil {
			return repository.ShipmentFilter{}, fmt.Errorf("fecha from inválida %q: %w", q.From, domain.ErrValidation)
		}
		f.SentFrom = from
	}
	if q.To != "" {
		to, err := time.ParseInLocation(dateLayout, q.To, time.Local)
		if err != nil {
			return repository.ShipmentFilter{}, fmt.Errorf("fecha to inválida %q: %w", q.To, domain.ErrValidation)
		}
		// La cota superior es exclusiva: cubre el día completo indicado en to.
		f.SentTo = to.AddDate(0, 0, 1)
	}
	return f, nil
}
