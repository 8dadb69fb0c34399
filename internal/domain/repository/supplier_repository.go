package repository

import "github.com/jhoicas/Envios-api/internal/domain/entity"

// SupplierRepository puerto de persistencia para transportadoras.
type SupplierRepository interface {
	// Create inserta y asigna ID. Nombre duplicado retorna domain.ErrSupplierExists.
	Create(s *entity.Supplier) error
	GetByID(id int64) (*entity.Supplier, error)
	GetByName(name string) (*entity.Supplier, error)
	List(onlyActive bool) ([]*entity.Supplier, error)
	Update(s *entity.Supplier) error
	// Deactivate baja lógica; los envíos existentes conservan la referencia.
	Deactivate(id int64) error
}
