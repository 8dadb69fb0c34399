package sqlite_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Envios-api/internal/domain/entity"
	"github.com/jhoicas/Envios-api/internal/infrastructure/sqlite"
)

// ── Infraestructura de prueba ──

// openTestDB abre una base nueva en un directorio temporal con el esquema
// ya creado.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "envios_test.db"))
	require.NoError(t, err, "abrir la base de prueba no debe fallar")
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.InitSchema(db), "crear el esquema no debe fallar")
	return db
}

func seedSupplier(t *testing.T, db *sql.DB, name string, active bool) *entity.Supplier {
	t.Helper()
	s := &entity.Supplier{
		Name:      name,
		Contact:   "0901000000",
		Address:   "Zona franca, módulo 4",
		Active:    active,
		CreatedAt: time.Now(),
	}
	require.NoError(t, sqlite.NewSupplierRepository(db).Create(s))
	return s
}

func seedShipment(t *testing.T, db *sql.DB, qr string, supplierID int64, sentAt time.Time) *entity.Shipment {
	t.Helper()
	s := &entity.Shipment{
		QRCode:     qr,
		IMEI:       "354000000000001",
		DeviceName: "iPhone 15 Pro Max",
		Capacity:   "128",
		SupplierID: supplierID,
		Status:     entity.StatusSent,
		SentAt:     sentAt,
		CreatedBy:  "admin",
	}
	require.NoError(t, sqlite.NewShipmentRepository(db).Create(s))
	return s
}

// ── Esquema ──

func TestInitSchema_EsIdempotente(t *testing.T) {
	path := filepath.Join(t.TempDir(), "envios.db")

	db, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, sqlite.InitSchema(db))
	require.NoError(t, sqlite.InitSchema(db), "repetir InitSchema no debe fallar")
	require.NoError(t, db.Close())
}

func TestInitSchema_LosDatosSobrevivenAlReabrir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "envios.db")

	db, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, sqlite.InitSchema(db))

	createdAt := time.Now()
	supplier := &entity.Supplier{Name: "GHN", Active: true, CreatedAt: createdAt}
	require.NoError(t, sqlite.NewSupplierRepository(db).Create(supplier))
	require.NoError(t, db.Close())

	db, err = sqlite.Open(path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, sqlite.InitSchema(db))

	got, err := sqlite.NewSupplierRepository(db).GetByID(supplier.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "el proveedor debe seguir en el archivo")
	require.Equal(t, "GHN", got.Name)
	require.True(t, got.Active)
	require.WithinDuration(t, createdAt, got.CreatedAt, time.Second)
}
