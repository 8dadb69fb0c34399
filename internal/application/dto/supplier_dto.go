package dto

import "time"

// CreateSupplierRequest alta administrativa de una transportadora.
type CreateSupplierRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=120"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

// UpdateSupplierRequest campos modificables de una transportadora.
type UpdateSupplierRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=120"`
	Contact *string `json:"contact"`
	Address *string `json:"address"`
	Active  *bool   `json:"active"`
}

// SupplierResponse salida de una transportadora.
type SupplierResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	Address   string    `json:"address,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
