package suppliers

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Envios-api/internal/application/dto"
	"github.com/jhoicas/Envios-api/internal/domain"
	"github.com/jhoicas/Envios-api/internal/domain/entity"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
)

// SupplierUseCase administración de transportadoras. Nunca se borran
// físicamente: los envíos históricos conservan la referencia, así que la
// baja es lógica (Active=false).
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create registra una transportadora nueva. El nombre es obligatorio y único.
func (uc *SupplierUseCase) Create(in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("nombre vacío: %w", domain.ErrValidation)
	}
	existing, err := uc.repo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSupplierExists
	}

	s := &entity.Supplier{
		Name:      name,
		Contact:   strings.TrimSpace(in.Contact),
		Address:   strings.TrimSpace(in.Address),
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// Get devuelve una transportadora por ID o domain.ErrNotFound.
func (uc *SupplierUseCase) Get(id int64) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSupplierResponse(s), nil
}

// List devuelve las transportadoras; con onlyActive se omiten las dadas de baja.
func (uc *SupplierUseCase) List(onlyActive bool) ([]dto.SupplierResponse, error) {
	list, err := uc.repo.List(onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

// Update modifica los campos presentes. Renombrar hacia un nombre ya usado
// retorna domain.ErrSupplierExists.
func (uc *SupplierUseCase) Update(id int64, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("nombre vacío: %w", domain.ErrValidation)
		}
		if name != s.Name {
			existing, err := uc.repo.GetByName(name)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, domain.ErrSupplierExists
			}
		}
		s.Name = name
	}
	if in.Contact != nil {
		s.Contact = strings.TrimSpace(*in.Contact)
	}
	if in.Address != nil {
		s.Address = strings.TrimSpace(*in.Address)
	}
	if in.Active != nil {
		s.Active = *in.Active
	}

	if err := uc.repo.Update(s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// Deactivate da de baja lógica una transportadora.
func (uc *SupplierUseCase) Deactivate(id int64) error {
	s, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(id)
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	if s == nil {
		return nil
	}
	return &dto.SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Contact:   s.Contact,
		Address:   s.Address,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}
