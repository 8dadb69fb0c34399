package entity

import "time"

// Supplier transportadora u origen de los envíos.
// Se desactiva (Active=false) en lugar de borrarse: los envíos la referencian.
type Supplier struct {
	ID        int64
	Name      string
	Contact   string
	Address   string
	Active    bool
	CreatedAt time.Time
}
