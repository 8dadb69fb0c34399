package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Envios-api/internal/domain"
	"github.com/jhoicas/Envios-api/internal/domain/entity"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
)

// Verificación en tiempo de compilación
var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación del puerto SupplierRepository sobre
// PostgreSQL (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const selectSupplier = `
	SELECT id, name, contact, address, active, created_at
	FROM suppliers`

// Create inserta un proveedor y asigna el ID generado. Un nombre repetido
// retorna domain.ErrSupplierExists.
func (r *SupplierRepo) Create(s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (name, contact, address, active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.q.QueryRow(context.Background(), query,
		s.Name, s.Contact, s.Address, s.Active, s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSupplierExists
		}
		return fmt.Errorf("insertar proveedor: %w", err)
	}
	return nil
}

// GetByID busca un proveedor por su ID. Retorna (nil, nil) si no existe.
func (r *SupplierRepo) GetByID(id int64) (*entity.Supplier, error) {
	query := selectSupplier + `
	WHERE id = $1`

	s, err := scanSupplier(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("consultar proveedor: %w", err)
	}
	return s, nil
}

// GetByName busca un proveedor por nombre exacto. Retorna (nil, nil) si no
// existe.
func (r *SupplierRepo) GetByName(name string) (*entity.Supplier, error) {
	query := selectSupplier + `
	WHERE name = $1`

	s, err := scanSupplier(r.q.QueryRow(context.Background(), query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("consultar proveedor por nombre: %w", err)
	}
	return s, nil
}

// List retorna los proveedores ordenados por nombre. Con onlyActive en true
// omite los dados de baja.
func (r *SupplierRepo) List(onlyActive bool) ([]*entity.Supplier, error) {
	query := selectSupplier
	var args []any
	if onlyActive {
		query += "\n\tWHERE active = $1"
		args = append(args, true)
	}
	query += "\n\tORDER BY name"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar proveedores: %w", err)
	}
	defer rows.Close()

	var suppliers []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("listar proveedores: scan: %w", err)
		}
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listar proveedores: %w", err)
	}
	return suppliers, nil
}

// Update guarda nombre, contacto, dirección y estado activo del proveedor.
// Un nombre repetido retorna domain.ErrSupplierExists.
func (r *SupplierRepo) Update(s *entity.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $1, contact = $2, address = $3, active = $4
		WHERE id = $5`

	_, err := r.q.Exec(context.Background(), query,
		s.Name, s.Contact, s.Address, s.Active, s.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSupplierExists
		}
		return fmt.Errorf("actualizar proveedor: %w", err)
	}
	return nil
}

// Deactivate marca el proveedor como inactivo. Es una baja lógica: los
// envíos históricos conservan la referencia.
func (r *SupplierRepo) Deactivate(id int64) error {
	query := `
		UPDATE suppliers
		SET active = FALSE
		WHERE id = $1`

	_, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("desactivar proveedor: %w", err)
	}
	return nil
}

func scanSupplier(row rowScanner) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Contact, &s.Address, &s.Active, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
