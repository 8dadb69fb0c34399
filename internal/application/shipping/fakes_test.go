package shipping_test

import (
	"context"
	"strings"

	"github.com/jhoicas/Envios-api/internal/domain"
	"github.com/jhoicas/Envios-api/internal/domain/entity"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
)

// memStore almacén en memoria para los tests del caso de uso, con la misma
// semántica que el almacén real: índice único de qr_code entre envíos
// activos, guard de transición en MarkStatus y transacciones por snapshot
// (si la función de la tx falla, el estado vuelve al punto de partida).
type memStore struct {
	shipments []entity.Shipment
	audit     []entity.AuditEvent
	suppliers []entity.Supplier

	failAudit error // si no es nil, Append de bitácora falla con este error
}

func (st *memStore) clone() *memStore {
	cp := &memStore{failAudit: st.failAudit}
	cp.shipments = append([]entity.Shipment(nil), st.shipments...)
	cp.audit = append([]entity.AuditEvent(nil), st.audit...)
	cp.suppliers = append([]entity.Supplier(nil), st.suppliers...)
	return cp
}

func (st *memStore) supplierName(id int64) string {
	for _, sup := range st.suppliers {
		if sup.ID == id {
			return sup.Name
		}
	}
	return ""
}

// ── TxRunner ─────────────────────────────────────────────────────────────────

type memTxRunner struct{ store *memStore }

func (r *memTxRunner) Run(_ context.Context, fn func(
	shipments repository.ShipmentRepository,
	audit repository.AuditRepository,
) error) error {
	snapshot := r.store.clone()
	if err := fn(&memShipmentRepo{store: r.store}, &memAuditRepo{store: r.store}); err != nil {
		*r.store = *snapshot
		return err
	}
	return nil
}

// ── Envíos ───────────────────────────────────────────────────────────────────

type memShipmentRepo struct{ store *memStore }

var _ repository.ShipmentRepository = (*memShipmentRepo)(nil)

func (r *memShipmentRepo) Create(s *entity.Shipment) error {
	for i := range r.store.shipments {
		existing := &r.store.shipments[i]
		if existing.QRCode == s.QRCode && existing.Status == entity.StatusSent {
			return domain.ErrQRConflict
		}
	}
	s.ID = int64(len(r.store.shipments) + 1)
	r.store.shipments = append(r.store.shipments, *s)
	return nil
}

func (r *memShipmentRepo) GetByID(id int64) (*entity.Shipment, error) {
	for i := range r.store.shipments {
		if r.store.shipments[i].ID == id {
			s := r.store.shipments[i]
			s.SupplierName = r.store.supplierName(s.SupplierID)
			return &s, nil
		}
	}
	return nil, nil
}

func (r *memShipmentRepo) GetByQR(qr string) (*entity.Shipment, error) {
	for i := len(r.store.shipments) - 1; i >= 0; i-- {
		if r.store.shipments[i].QRCode == qr {
			s := r.store.shipments[i]
			s.SupplierName = r.store.supplierName(s.SupplierID)
			return &s, nil
		}
	}
	return nil, nil
}

func (r *memShipmentRepo) GetActiveByQR(qr string) (*entity.Shipment, error) {
	for i := len(r.store.shipments) - 1; i >= 0; i-- {
		s := r.store.shipments[i]
		if s.QRCode == qr && s.Status == entity.StatusSent {
			s.SupplierName = r.store.supplierName(s.SupplierID)
			return &s, nil
		}
	}
	return nil, nil
}

func (r *memShipmentRepo) List(f repository.ShipmentFilter) ([]*entity.Shipment, error) {
	var out []*entity.Shipment
	for i := len(r.store.shipments) - 1; i >= 0; i-- {
		s := r.store.shipments[i]
		if !matchFilter(s, f) {
			continue
		}
		s.SupplierName = r.store.supplierName(s.SupplierID)
		out = append(out, &s)
	}
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func matchFilter(s entity.Shipment, f repository.ShipmentFilter) bool {
	if len(f.Statuses) > 0 {
		ok := false
		for _, status := range f.Statuses {
			if s.Status == status {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.SupplierID != 0 && s.SupplierID != f.SupplierID {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(s.QRCode), q) &&
			!strings.Contains(strings.ToLower(s.IMEI), q) &&
			!strings.Contains(strings.ToLower(s.DeviceName), q) {
			return false
		}
	}
	if !f.SentFrom.IsZero() && s.SentAt.Before(f.SentFrom) {
		return false
	}
	if !f.SentTo.IsZero() && !s.SentAt.Before(f.SentTo) {
		return false
	}
	return true
}

func (r *memShipmentRepo) MarkStatus(id int64, ch repository.StatusChange) (bool, error) {
	for i := range r.store.shipments {
		s := &r.store.shipments[i]
		if s.ID != id {
			continue
		}
		if s.Status != entity.StatusSent {
			return false, nil
		}
		s.Status = ch.NewStatus
		receivedAt := ch.ReceivedAt
		s.ReceivedAt = &receivedAt
		s.UpdatedBy = ch.UpdatedBy
		if ch.Notes != "" {
			s.Notes = ch.Notes
		}
		return true, nil
	}
	return false, nil
}

func (r *memShipmentRepo) CountByStatus() (map[string]int, error) {
	counts := map[string]int{}
	for _, s := range r.store.shipments {
		counts[s.Status]++
	}
	return counts, nil
}

// ── Bitácora ─────────────────────────────────────────────────────────────────

type memAuditRepo struct{ store *memStore }

var _ repository.AuditRepository = (*memAuditRepo)(nil)

func (r *memAuditRepo) Append(e *entity.AuditEvent) error {
	if r.store.failAudit != nil {
		return r.store.failAudit
	}
	e.ID = int64(len(r.store.audit) + 1)
	r.store.audit = append(r.store.audit, *e)
	return nil
}

func (r *memAuditRepo) List(f repository.AuditFilter) ([]*entity.AuditEvent, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = repository.DefaultAuditLimit
	}
	var out []*entity.AuditEvent
	for i := len(r.store.audit) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.store.audit[i]
		if f.ShipmentID != 0 && e.ShipmentID != f.ShipmentID {
			continue
		}
		out = append(out, &e)
	}
	return out, nil
}

// ── Transportadoras ──────────────────────────────────────────────────────────

type memSupplierRepo struct{ store *memStore }

var _ repository.SupplierRepository = (*memSupplierRepo)(nil)

func (r *memSupplierRepo) Create(s *entity.Supplier) error {
	for _, existing := range r.store.suppliers {
		if existing.Name == s.Name {
			return domain.ErrSupplierExists
		}
	}
	s.ID = int64(len(r.store.suppliers) + 1)
	r.store.suppliers = append(r.store.suppliers, *s)
	return nil
}

func (r *memSupplierRepo) GetByID(id int64) (*entity.Supplier, error) {
	for i := range r.store.suppliers {
		if r.store.suppliers[i].ID == id {
			s := r.store.suppliers[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (r *memSupplierRepo) GetByName(name string) (*entity.Supplier, error) {
	for i := range r.store.suppliers {
		if r.store.suppliers[i].Name == name {
			s := r.store.suppliers[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (r *memSupplierRepo) List(onlyActive bool) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for i := range r.store.suppliers {
		s := r.store.suppliers[i]
		if onlyActive && !s.Active {
			continue
		}
		out = append(out, &s)
	}
	return out, nil
}

func (r *memSupplierRepo) Update(s *entity.Supplier) error {
	for i := range r.store.suppliers {
		if r.store.suppliers[i].ID == s.ID {
			r.store.suppliers[i] = *s
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memSupplierRepo) Deactivate(id int64) error {
	for i := range r.store.suppliers {
		if r.store.suppliers[i].ID == id {
			r.store.suppliers[i].Active = false
			return nil
		}
	}
	return domain.ErrNotFound
}

// ── Notificador ──────────────────────────────────────────────────────────────

type fakeNotifier struct {
	notified []int64 // IDs de envíos avisados, en orden
	fail     error
}

func (n *fakeNotifier) NotifyReceived(_ context.Context, s *entity.Shipment, _ string) error {
	n.notified = append(n.notified, s.ID)
	return n.fail
}
