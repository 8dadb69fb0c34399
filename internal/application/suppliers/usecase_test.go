package suppliers_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Envios-api/internal/application/dto"
	"github.com/jhoicas/Envios-api/internal/application/suppliers"
	"github.com/jhoicas/Envios-api/internal/domain"
	"github.com/jhoicas/Envios-api/internal/domain/entity"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
)

type memSupplierRepo struct{ items []entity.Supplier }

var _ repository.SupplierRepository = (*memSupplierRepo)(nil)

func (r *memSupplierRepo) Create(s *entity.Supplier) error {
	for _, existing := range r.items {
		if existing.Name == s.Name {
			return domain.ErrSupplierExists
		}
	}
	s.ID = int64(len(r.items) + 1)
	r.items = append(r.items, *s)
	return nil
}

func (r *memSupplierRepo) GetByID(id int64) (*entity.Supplier, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			s := r.items[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (r *memSupplierRepo) GetByName(name string) (*entity.Supplier, error) {
	for i := range r.items {
		if r.items[i].Name == name {
			s := r.items[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (r *memSupplierRepo) List(onlyActive bool) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for i := range r.items {
		s := r.items[i]
		if onlyActive && !s.Active {
			continue
		}
		out = append(out, &s)
	}
	return out, nil
}

func (r *memSupplierRepo) Update(s *entity.Supplier) error {
	for i := range r.items {
		if r.items[i].ID == s.ID {
			r.items[i] = *s
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memSupplierRepo) Deactivate(id int64) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Active = false
			return nil
		}
	}
	return domain.ErrNotFound
}

func newSupplierFixture() (*memSupplierRepo, *suppliers.SupplierUseCase) {
	repo := &memSupplierRepo{items: []entity.Supplier{
		{ID: 1, Name: "GHN", Contact: "0281234567", Active: true, CreatedAt: time.Now()},
		{ID: 2, Name: "Viettel Post", Active: false, CreatedAt: time.Now()},
	}}
	return repo, suppliers.NewSupplierUseCase(repo)
}

func TestCreate_RegistraTransportadora(t *testing.T) {
	repo, uc := newSupplierFixture()

	resp, err := uc.Create(dto.CreateSupplierRequest{Name: "  J&T Express  ", Contact: "1900-1088"})
	require.NoError(t, err)

	assert.Equal(t, "J&T Express", resp.Name, "el nombre se recorta")
	assert.True(t, resp.Active, "las altas nacen activas")
	assert.Len(t, repo.items, 3)
}

func TestCreate_NombreVacio(t *testing.T) {
	_, uc := newSupplierFixture()

	_, err := uc.Create(dto.CreateSupplierRequest{Name: "   "})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_NombreDuplicado(t *testing.T) {
	_, uc := newSupplierFixture()

	_, err := uc.Create(dto.CreateSupplierRequest{Name: "GHN"})

	assert.ErrorIs(t, err, domain.ErrSupplierExists)
}

func TestGet_NoExiste(t *testing.T) {
	_, uc := newSupplierFixture()

	_, err := uc.Get(99)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_SoloActivas(t *testing.T) {
	_, uc := newSupplierFixture()

	all, err := uc.List(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := uc.List(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "GHN", active[0].Name)
}

func TestUpdate_CambiaSoloCamposPresentes(t *testing.T) {
	repo, uc := newSupplierFixture()
	contact := "028-999-8888"

	resp, err := uc.Update(1, dto.UpdateSupplierRequest{Contact: &contact})
	require.NoError(t, err)

	assert.Equal(t, "GHN", resp.Name, "el nombre no cambia si no viene")
	assert.Equal(t, contact, resp.Contact)
	assert.Equal(t, contact, repo.items[0].Contact)
}

func TestUpdate_NombreYaUsado(t *testing.T) {
	_, uc := newSupplierFixture()
	name := "Viettel Post"

	_, err := uc.Update(1, dto.UpdateSupplierRequest{Name: &name})

	assert.ErrorIs(t, err, domain.ErrSupplierExists)
}

func TestUpdate_MismoNombreNoEsConflicto(t *testing.T) {
	_, uc := newSupplierFixture()
	name := "GHN"

	resp, err := uc.Update(1, dto.UpdateSupplierRequest{Name: &name})

	require.NoError(t, err, "conservar el propio nombre no es duplicado")
	assert.Equal(t, "GHN", resp.Name)
}

func TestUpdate_Reactivacion(t *testing.T) {
	repo, uc := newSupplierFixture()
	active := true

	resp, err := uc.Update(2, dto.UpdateSupplierRequest{Active: &active})
	require.NoError(t, err)

	assert.True(t, resp.Active)
	assert.True(t, repo.items[1].Active)
}

func TestDeactivate_BajaLogica(t *testing.T) {
	repo, uc := newSupplierFixture()

	require.NoError(t, uc.Deactivate(1))

	assert.False(t, repo.items[0].Active)
	assert.Len(t, repo.items, 2, "la baja no borra el registro")
}

func TestDeactivate_NoExiste(t *testing.T) {
	_, uc := newSupplierFixture()

	err := uc.Deactivate(99)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
