package sqlite_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Envios-api/internal/domain"
	"github.com/jhoicas/Envios-api/internal/domain/entity"
	"github.com/jhoicas/Envios-api/internal/domain/repository"
	"github.com/jhoicas/Envios-api/internal/infrastructure/sqlite"
)

// ── Create y lecturas ──

func TestShipmentRepo_CreateYGetByID(t *testing.T) {
	db := openTestDB(t)
	supplier := seedSupplier(t, db, "GHN", true)
	repo := sqlite.NewShipmentRepository(db)

	sentAt := time.Now()
	s := &entity.Shipment{
		QRCode:     "YCSC001234",
		IMEI:       "354000000000001",
		DeviceName: "iPhone 15 Pro Max",
		Capacity:   "128",
		SupplierID: supplier.ID,
		Status:     entity.StatusSent,
		SentAt:     sentAt,
		CreatedBy:  "admin",
		Notes:      "lote marzo",
	}
	require.NoError(t, repo.Create(s))
	require.NotZero(t, s.ID, "Create debe asignar el ID generado")

	got, err := repo.GetByID(s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "YCSC001234", got.QRCode)
	assert.Equal(t, "354000000000001", got.IMEI)
	assert.Equal(t, "iPhone 15 Pro Max", got.DeviceName)
	assert.Equal(t, "128", got.Capacity)
	assert.Equal(t, supplier.ID, got.SupplierID)
	assert.Equal(t, "GHN", got.SupplierName, "el listado debe traer el nombre del proveedor")
	assert.Equal(t, entity.StatusSent, got.Status)
	assert.WithinDuration(t, sentAt, got.SentAt, time.Second)
	assert.Nil(t, got.ReceivedAt, "un envío en tránsito no tiene fecha de recepción")
	assert.Equal(t, "admin", got.CreatedBy)
	assert.Equal(t, "lote marzo", got.Notes)
}

func TestShipmentRepo_GetByID_NoExiste(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewShipmentRepository(db)

	got, err := repo.GetByID(9999)
	require.NoError(t, err, "no encontrar no es un error")
	assert.Nil(t, got)
}

func TestShipmentRepo_QRActivoDuplicado(t *testing.T) {
	db := openTestDB(t)
	supplier := seedSupplier(t, db, "GHN", true)
	repo := sqlite.NewShipmentRepository(db)

	seedShipment(t, db, "YCSC001234", supplier.ID, time.Now())

	dup := &entity.Shipment{
		QRCode:     "YCSC001234",
		SupplierID: supplier.ID,
		Status:     entity.StatusSent,
		SentAt:     time.Now(),
		CreatedBy:  "admin",
	}
	err := repo.Create(dup)
	require.ErrorIs(t, err, domain.ErrQRConflict, "el índice parcial debe rechazar el QR activo repetido")

	otro := &entity.Shipment{
		QRCode:     "YCSC005678",
		SupplierID: supplier.ID,
		Status:     entity.StatusSent,
		SentAt:     time.Now(),
		CreatedBy:  "admin",
	}
	require.NoError(t, repo.Create(otro), "otro código QR debe pasar sin problema")
}

func TestShipmentRepo_QRSeReutilizaTrasCierre(t *testing.T) {
	db := openTestDB(t)
	supplier := seedSupplier(t, db, "GHN", true)
	repo := sqlite.NewShipmentRepository(db)

	first := seedShipment(t, db, "YCSC001234", supplier.ID, time.Now())
	ok, err := repo.MarkStatus(first.ID, repository.StatusChange{
		NewStatus:  entity.StatusReceived,
		ReceivedAt: time.Now(),
		UpdatedBy:  "bodega",
	})
	require.NoError(t, err)
	require.True(t, ok)

	second := seedShipment(t, db, "YCSC001234", supplier.ID, time.Now())

	active, err := repo.GetActiveByQR("YCSC001234")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID, "el activo debe ser el reenvío, no el cerrado")

	latest, err := repo.GetByQR("YCSC001234")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID, "GetByQR retorna el registro más reciente")
}

func TestShipmentRepo_GetActiveByQR_IgnoraCerrados(t *testing.T) {
	db := openTestDB(t)
	supplier := seedSupplier(t, db, "GHN", true)
	repo := sqlite.NewShipmentRepository(db)

	s := seedShipment(t, db, "YCSC001234", supplier.ID, time.Now())
	ok, err := repo.MarkStatus(s.ID, repository.StatusChange{
		NewStatus:  entity.StatusLost,
		ReceivedAt: time.Now(),
		UpdatedBy:  "bodega",
	})
	require.NoError(t, err)
	require.True(t, ok)

	active, err := repo.GetActiveByQR("YCSC001234")
	require.NoError(t, err)
	assert.Nil(t, active, "un envío cerrado no cuenta como activo")

	latest, err := repo.GetByQR("YCSC001234")
	require.NoError(t, err)
	require.NotNil(t, latest, "GetByQR sí debe encontrar el histórico")
	assert.Equal(t, entity.StatusLost, latest.Status)
}

// ── MarkStatus ──

func TestShipmentRepo_MarkStatus_AplicaElCambio(t *testing.T) {
	db := openTestDB(t)
	supplier := seedSupplier(t, db, "GHN", true)
	repo := sqlite.NewShipmentRepository(db)

	s := seedShipment(t, db, "YCSC001234", supplier.ID, time.Now())

	receivedAt := time.Now()
	ok, err := repo.MarkStatus(s.ID, repository.StatusChange{
		NewStatus:  entity.StatusReceived,
		ReceivedAt: receivedAt,
		UpdatedBy:  "bodega",
		Notes:      "caja completa",
	})
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetByID(s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.StatusReceived, got.Status)
	require.NotNil(t, got.ReceivedAt)
	assert.WithinDuration(t, receivedAt, *got.ReceivedAt, time.Second)
	assert.Equal(t, "bodega", got.UpdatedBy)
	assert.Equal(t, "caja completa", got.Notes)
}

func TestShipmentRepo_MarkStatus_SoloUnaVez(t *testing.T) {
	db := openTestDB(t)
	supplier := seedSupplier(t, db, "GHN", true)
	repo := sqlite.NewShipmentRepository(db)

	s := seedShipment(t, db, "YCSC001234", supplier.ID, time.Now())

	firstReceivedAt := time.Now()
	ok, err := repo.MarkStatus(s.ID, repository.StatusChange{
		NewStatus:  entity.StatusReceived,
		ReceivedAt: firstReceivedAt,
		UpdatedBy:  "bodega",
	})
	require.NoError(t, err)
	require.True(t, ok)

	// El guard del WHERE deja pasar un solo cambio de estado por envío.
	ok, err = repo.MarkStatus(s.ID, repository.StatusChange{
		NewStatus:  entity.StatusDamaged,
		ReceivedAt: time.Now().Add(time.Hour),
		UpdatedBy:  "otro",
	})
	require.NoError(t, err)
	assert.False(t, ok, "un envío que salió de SENT no se vuelve a marcar")

	got, err := repo.GetByID(s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusReceived, got.Status)
	assert.Equal(t, "bodega", got.UpdatedBy)
	require.NotNil(t, got.ReceivedAt)
	assert.WithinDuration(t, firstReceivedAt, *got.ReceivedAt, time.Second)
}

func TestShipmentRepo_MarkStatus_NotasVaciasConservanLasAnteriores(t *testing.T) {
	db := openTestDB(t)
	supplier := seedSupplier(t, db, "GHN", true)
	repo := sqlite.NewShipmentRepository(db)

	s := &entity.Shipment{
		QRCode:     "YCSC001234",
		SupplierID: supplier.ID,
		Status:     entity.StatusSent,
		SentAt:     time.Now(),
		CreatedBy:  "admin",
		Notes:      "frágil",
	}
	require.NoError(t, repo.Create(s))

	ok, err := repo.MarkStatus(s.ID, repository.StatusChange{
		NewStatus:  entity.StatusReceived,
		ReceivedAt: time.Now(),
		UpdatedBy:  "bodega",
	})
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetByID(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "frágil", got.Notes, "sin notas nuevas se conservan las del envío")
}

// ── List ──

func TestShipmentRepo_List_FiltrosYOrden(t *testing.T) {
	db := openTestDB(t)
	ghn := seedSupplier(t, db, "GHN", true)
	jt := seedSupplier(t, db, "J&T Express", true)
	repo := sqlite.NewShipmentRepository(db)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	s1 := seedShipment(t, db, "YCSC000001", ghn.ID, base)
	s2 := seedShipment(t, db, "YCSC000002", jt.ID, base.Add(24*time.Hour))
	s3 := &entity.Shipment{
		QRCode:     "YCSC000003",
		IMEI:       "354000000000003",
		DeviceName: "Galaxy S24 Ultra",
		Capacity:   "256",
		SupplierID: ghn.ID,
		Status:     entity.StatusSent,
		SentAt:     base.Add(48 * time.Hour),
		CreatedBy:  "admin",
	}
	require.NoError(t, repo.Create(s3))

	ok, err := repo.MarkStatus(s1.ID, repository.StatusChange{
		NewStatus:  entity.StatusDamaged,
		ReceivedAt: base.Add(72 * time.Hour),
		UpdatedBy:  "bodega",
	})
	require.NoError(t, err)
	require.True(t, ok)

	t.Run("sin filtros ordena del más reciente al más antiguo", func(t *testing.T) {
		got, err := repo.List(repository.ShipmentFilter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, s3.ID, got[0].ID)
		assert.Equal(t, s2.ID, got[1].ID)
		assert.Equal(t, s1.ID, got[2].ID)
		assert.Equal(t, "J&T Express", got[1].SupplierName)
	})

	t.Run("por estados", func(t *testing.T) {
		got, err := repo.List(repository.ShipmentFilter{
			Statuses: []string{entity.StatusDamaged, entity.StatusLost},
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, s1.ID, got[0].ID)
	})

	t.Run("por proveedor", func(t *testing.T) {
		got, err := repo.List(repository.ShipmentFilter{SupplierID: jt.ID})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, s2.ID, got[0].ID)
	})

	t.Run("por texto en el nombre del equipo", func(t *testing.T) {
		got, err := repo.List(repository.ShipmentFilter{Search: "Galaxy"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, s3.ID, got[0].ID)
	})

	t.Run("por rango de fechas con cota superior exclusiva", func(t *testing.T) {
		got, err := repo.List(repository.ShipmentFilter{
			SentFrom: base.Add(24 * time.Hour),
			SentTo:   base.Add(48 * time.Hour),
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, s2.ID, got[0].ID)
	})

	t.Run("paginación con limit y offset", func(t *testing.T) {
		got, err := repo.List(repository.ShipmentFilter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, s3.ID, got[0].ID)

		got, err = repo.List(repository.ShipmentFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, s1.ID, got[0].ID)
	})
}

// ── CountByStatus ──

func TestShipmentRepo_CountByStatus(t *testing.T) {
	db := openTestDB(t)
	supplier := seedSupplier(t, db, "GHN", true)
	repo := sqlite.NewShipmentRepository(db)

	a := seedShipment(t, db, "YCSC000001", supplier.ID, time.Now())
	seedShipment(t, db, "YCSC000002", supplier.ID, time.Now())
	seedShipment(t, db, "YCSC000003", supplier.ID, time.Now())

	ok, err := repo.MarkStatus(a.ID, repository.StatusChange{
		NewStatus:  entity.StatusReceived,
		ReceivedAt: time.Now(),
		UpdatedBy:  "bodega",
	})
	require.NoError(t, err)
	require.True(t, ok)

	counts, err := repo.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		entity.StatusSent:     2,
		entity.StatusReceived: 1,
	}, counts, "los estados sin envíos no aparecen en el mapa")
}
