package label_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Envios-api/internal/application/label"
	"github.com/jhoicas/Envios-api/internal/domain"
	"github.com/jhoicas/Envios-api/internal/domain/entity"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
)

type stubShipmentRepo struct{ shipment *entity.Shipment }

func (r *stubShipmentRepo) Create(*entity.Shipment) error { return nil }
func (r *stubShipmentRepo) GetByID(id int64) (*entity.Shipment, error) {
	if r.shipment != nil && r.shipment.ID == id {
		return r.shipment, nil
	}
	return nil, nil
}
func (r *stubShipmentRepo) GetByQR(string) (*entity.Shipment, error)       { return nil, nil }
func (r *stubShipmentRepo) GetActiveByQR(string) (*entity.Shipment, error) { return nil, nil }
func (r *stubShipmentRepo) List(repository.ShipmentFilter) ([]*entity.Shipment, error) {
	return nil, nil
}
func (r *stubShipmentRepo) MarkStatus(int64, repository.StatusChange) (bool, error) {
	return false, nil
}
func (r *stubShipmentRepo) CountByStatus() (map[string]int, error) { return nil, nil }

type fakeGenerator struct {
	lastData label.LabelData
	fail     error
}

func (g *fakeGenerator) GenerateLabel(_ context.Context, data label.LabelData) ([]byte, error) {
	g.lastData = data
	if g.fail != nil {
		return nil, g.fail
	}
	return []byte("%PDF-1.7 etiqueta"), nil
}

func newLabelFixture() (*fakeGenerator, *label.UseCase) {
	repo := &stubShipmentRepo{shipment: &entity.Shipment{
		ID: 7, QRCode: "YCSC001234", IMEI: "124109200901",
		DeviceName: "iPhone 15 Pro Max", Capacity: "128",
		SupplierID: 1, SupplierName: "GHN", Status: entity.StatusSent,
		SentAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local),
	}}
	gen := &fakeGenerator{}
	return gen, label.NewUseCase(repo, gen)
}

func TestGenerate_ArmaEtiquetaConPayloadCanonico(t *testing.T) {
	gen, uc := newLabelFixture()

	pdf, filename, err := uc.Generate(context.Background(), 7)
	require.NoError(t, err)

	assert.NotEmpty(t, pdf)
	assert.Equal(t, "etiqueta_YCSC001234.pdf", filename)
	assert.Equal(t, "YCSC001234,124109200901,iPhone 15 Pro Max,128", gen.lastData.QRPayload,
		"el QR impreso lleva los mismos cuatro campos que entregó el escáner")
	assert.Equal(t, "GHN", gen.lastData.SupplierName)
}

func TestGenerate_EnvioInexistente(t *testing.T) {
	_, uc := newLabelFixture()

	_, _, err := uc.Generate(context.Background(), 99)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerate_FalloDelGenerador(t *testing.T) {
	gen, uc := newLabelFixture()
	gen.fail = errors.New("sin fuente helvetica")

	_, _, err := uc.Generate(context.Background(), 7)

	assert.Error(t, err)
}
