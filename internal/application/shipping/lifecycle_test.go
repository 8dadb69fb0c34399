package shipping_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Envios-api/internal/application/dto"
	"github.com/jhoicas/Envios-api/internal/application/shipping"
	"github.com/jhoicas/Envios-api/internal/domain"
	"github.com/jhoicas/Envios-api/internal/domain/entity"
)

// Payload de referencia del escáner: qr_code, imei, device_name, capacity.
const testPayload = "YCSC001234,124109200901,iPhone 15 Pro Max,128"

func newLifecycleFixture() (*memStore, *fakeNotifier, *shipping.LifecycleUseCase) {
	store := &memStore{
		suppliers: []entity.Supplier{
			{ID: 1, Name: "GHN", Active: true},
			{ID: 2, Name: "Viettel Post", Active: false},
		},
	}
	notifier := &fakeNotifier{}
	uc := shipping.NewLifecycleUseCase(
		&memTxRunner{store: store},
		&memSupplierRepo{store: store},
		notifier,
	)
	return store, notifier, uc
}

func sendOne(t *testing.T, uc *shipping.LifecycleUseCase) *dto.ShipmentResponse {
	t.Helper()
	resp, err := uc.Send(context.Background(), dto.SendShipmentRequest{
		Payload:    testPayload,
		SupplierID: 1,
	}, "admin")
	require.NoError(t, err)
	return resp
}

// ── Send ─────────────────────────────────────────────────────────────────────

func TestSend_CreaEnvioYBitacora(t *testing.T) {
	store, _, uc := newLifecycleFixture()

	resp, err := uc.Send(context.Background(), dto.SendShipmentRequest{
		Payload:    testPayload,
		SupplierID: 1,
		Notes:      "frágil",
	}, "admin")
	require.NoError(t, err)

	assert.Equal(t, "YCSC001234", resp.QRCode)
	assert.Equal(t, "124109200901", resp.IMEI)
	assert.Equal(t, "iPhone 15 Pro Max", resp.DeviceName)
	assert.Equal(t, "128", resp.Capacity)
	assert.Equal(t, entity.StatusSent, resp.Status)
	assert.Equal(t, "GHN", resp.SupplierName)
	assert.Equal(t, "admin", resp.CreatedBy)
	assert.False(t, resp.SentAt.IsZero(), "sent_at se fija al crear")
	assert.Nil(t, resp.ReceivedAt, "received_at queda vacío hasta la recepción")

	require.Len(t, store.audit, 1, "exactamente un evento por mutación exitosa")
	ev := store.audit[0]
	assert.Equal(t, resp.ID, ev.ShipmentID)
	assert.Equal(t, entity.AuditActionCreated, ev.Action)
	assert.Empty(t, ev.OldValue)
	assert.Equal(t, entity.StatusSent, ev.NewValue)
	assert.Equal(t, "admin", ev.Actor)
}

func TestSend_RecortaEspaciosPorCampo(t *testing.T) {
	_, _, uc := newLifecycleFixture()

	resp, err := uc.Send(context.Background(), dto.SendShipmentRequest{
		Payload:    "  YCSC001234 , 124109200901 ,  iPhone 15 Pro Max , 128  ",
		SupplierID: 1,
	}, "admin")
	require.NoError(t, err)

	assert.Equal(t, "YCSC001234", resp.QRCode)
	assert.Equal(t, "124109200901", resp.IMEI)
	assert.Equal(t, "iPhone 15 Pro Max", resp.DeviceName)
	assert.Equal(t, "128", resp.Capacity)
}

func TestSend_PayloadInvalido(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"vacío", ""},
		{"un solo campo", "YCSC001234"},
		{"tres campos", "YCSC001234,124109200901,iPhone 15 Pro Max"},
		{"cinco campos", "YCSC001234,124109200901,iPhone 15 Pro Max,128,extra"},
		{"qr_code vacío", " ,124109200901,iPhone 15 Pro Max,128"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, _, uc := newLifecycleFixture()

			_, err := uc.Send(context.Background(), dto.SendShipmentRequest{
				Payload:    tc.payload,
				SupplierID: 1,
			}, "admin")

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, store.shipments, "un payload inválido no inserta nada")
			assert.Empty(t, store.audit, "un payload inválido no deja bitácora")
		})
	}
}

func TestSend_ProveedorInexistente(t *testing.T) {
	store, _, uc := newLifecycleFixture()

	_, err := uc.Send(context.Background(), dto.SendShipmentRequest{
		Payload:    testPayload,
		SupplierID: 99,
	}, "admin")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.shipments)
}

func TestSend_ProveedorInactivo(t *testing.T) {
	store, _, uc := newLifecycleFixture()

	_, err := uc.Send(context.Background(), dto.SendShipmentRequest{
		Payload:    testPayload,
		SupplierID: 2,
	}, "admin")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.shipments)
}

func TestSend_QRActivoDuplicado(t *testing.T) {
	store, _, uc := newLifecycleFixture()
	sendOne(t, uc)

	_, err := uc.Send(context.Background(), dto.SendShipmentRequest{
		Payload:    testPayload,
		SupplierID: 1,
	}, "admin")

	assert.ErrorIs(t, err, domain.ErrQRConflict)
	assert.Len(t, store.shipments, 1, "el duplicado no inserta un segundo envío")
	assert.Len(t, store.audit, 1, "el intento fallido no deja evento en la bitácora")
}

func TestSend_QRRepetidoTrasRecepcion(t *testing.T) {
	store, _, uc := newLifecycleFixture()
	first := sendOne(t, uc)

	_, err := uc.ReceiveByID(context.Background(), first.ID, dto.UpdateStatusRequest{
		NewStatus: entity.StatusReceived,
	}, "admin")
	require.NoError(t, err)

	// El índice de unicidad solo aplica entre envíos activos: un código ya
	// recibido puede volver a despacharse.
	resp, err := uc.Send(context.Background(), dto.SendShipmentRequest{
		Payload:    testPayload,
		SupplierID: 1,
	}, "admin")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, resp.ID)
	assert.Len(t, store.shipments, 2)
}

// ── Recepción ────────────────────────────────────────────────────────────────

func TestReceiveByQR_TransicionaYNotifica(t *testing.T) {
	store, notifier, uc := newLifecycleFixture()
	sent := sendOne(t, uc)

	resp, err := uc.ReceiveByQR(context.Background(), dto.ReceiveShipmentRequest{
		QR:        "YCSC001234",
		NewStatus: entity.StatusReceived,
		Notes:     "caja completa",
	}, "bodega")
	require.NoError(t, err)

	assert.Equal(t, sent.ID, resp.ID)
	assert.Equal(t, entity.StatusReceived, resp.Status)
	require.NotNil(t, resp.ReceivedAt, "received_at se fija al salir de SENT")
	assert.Equal(t, "bodega", resp.UpdatedBy)
	assert.Equal(t, "caja completa", resp.Notes)

	require.Len(t, store.audit, 2)
	ev := store.audit[1]
	assert.Equal(t, entity.AuditActionStatusUpdated, ev.Action)
	assert.Equal(t, entity.StatusSent, ev.OldValue)
	assert.Equal(t, entity.StatusReceived, ev.NewValue)
	assert.Equal(t, "bodega", ev.Actor)

	assert.Equal(t, []int64{sent.ID}, notifier.notified, "una recepción dispara un aviso")
}

func TestReceiveByQR_AceptaPayloadCompleto(t *testing.T) {
	_, _, uc := newLifecycleFixture()
	sent := sendOne(t, uc)

	resp, err := uc.ReceiveByQR(context.Background(), dto.ReceiveShipmentRequest{
		QR:        testPayload, // el escáner entrega los cuatro campos
		NewStatus: entity.StatusReceived,
	}, "bodega")
	require.NoError(t, err)
	assert.Equal(t, sent.ID, resp.ID)
}

func TestReceiveByQR_NoEncontrado(t *testing.T) {
	_, _, uc := newLifecycleFixture()

	_, err := uc.ReceiveByQR(context.Background(), dto.ReceiveShipmentRequest{
		QR:        "NOEXISTE01",
		NewStatus: entity.StatusReceived,
	}, "bodega")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceiveByQR_QRVacio(t *testing.T) {
	_, _, uc := newLifecycleFixture()

	_, err := uc.ReceiveByQR(context.Background(), dto.ReceiveShipmentRequest{
		QR:        "   ",
		NewStatus: entity.StatusReceived,
	}, "bodega")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReceiveByID_EstadoNoTerminal(t *testing.T) {
	for _, status := range []string{entity.StatusSent, "EN_VUELO", ""} {
		t.Run("estado "+status, func(t *testing.T) {
			store, _, uc := newLifecycleFixture()
			sent := sendOne(t, uc)

			_, err := uc.ReceiveByID(context.Background(), sent.ID, dto.UpdateStatusRequest{
				NewStatus: status,
			}, "bodega")

			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			assert.Equal(t, entity.StatusSent, store.shipments[0].Status)
		})
	}
}

func TestReceiveByID_YaTerminalNoSeRetransiciona(t *testing.T) {
	store, _, uc := newLifecycleFixture()
	sent := sendOne(t, uc)

	first, err := uc.ReceiveByID(context.Background(), sent.ID, dto.UpdateStatusRequest{
		NewStatus: entity.StatusDamaged,
	}, "bodega")
	require.NoError(t, err)

	_, err = uc.ReceiveByID(context.Background(), sent.ID, dto.UpdateStatusRequest{
		NewStatus: entity.StatusReceived,
	}, "bodega")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// El registro y la bitácora quedan como los dejó la primera transición.
	assert.Equal(t, entity.StatusDamaged, store.shipments[0].Status)
	require.NotNil(t, store.shipments[0].ReceivedAt)
	assert.Equal(t, *first.ReceivedAt, *store.shipments[0].ReceivedAt,
		"received_at se escribe una sola vez")
	assert.Len(t, store.audit, 2)
}

func TestReceiveByQR_IgnoraEnviosYaCerrados(t *testing.T) {
	_, _, uc := newLifecycleFixture()
	sent := sendOne(t, uc)

	_, err := uc.ReceiveByID(context.Background(), sent.ID, dto.UpdateStatusRequest{
		NewStatus: entity.StatusLost,
	}, "bodega")
	require.NoError(t, err)

	// La búsqueda por QR solo considera envíos en SENT.
	_, err = uc.ReceiveByQR(context.Background(), dto.ReceiveShipmentRequest{
		QR:        "YCSC001234",
		NewStatus: entity.StatusReceived,
	}, "bodega")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceive_ConservaNotasSiVienenVacias(t *testing.T) {
	store, _, uc := newLifecycleFixture()
	resp, err := uc.Send(context.Background(), dto.SendShipmentRequest{
		Payload:    testPayload,
		SupplierID: 1,
		Notes:      "frágil",
	}, "admin")
	require.NoError(t, err)

	updated, err := uc.ReceiveByID(context.Background(), resp.ID, dto.UpdateStatusRequest{
		NewStatus: entity.StatusReceived,
	}, "bodega")
	require.NoError(t, err)

	assert.Equal(t, "frágil", updated.Notes)
	assert.Equal(t, "frágil", store.shipments[0].Notes)
}

// ── Notificador ──────────────────────────────────────────────────────────────

func TestReceive_NotificadorFallaNoRevierte(t *testing.T) {
	store, notifier, uc := newLifecycleFixture()
	sent := sendOne(t, uc)
	notifier.fail = errors.New("telegram caído")

	resp, err := uc.ReceiveByID(context.Background(), sent.ID, dto.UpdateStatusRequest{
		NewStatus: entity.StatusReceived,
	}, "bodega")

	require.NoError(t, err, "el fallo del aviso no afecta la transición")
	assert.Equal(t, entity.StatusReceived, resp.Status)
	assert.Equal(t, entity.StatusReceived, store.shipments[0].Status)
	assert.Len(t, store.audit, 2)
}

func TestReceive_SoloNotificaRecepciones(t *testing.T) {
	for _, status := range []string{entity.StatusDamaged, entity.StatusLost} {
		t.Run(status, func(t *testing.T) {
			_, notifier, uc := newLifecycleFixture()
			sent := sendOne(t, uc)

			_, err := uc.ReceiveByID(context.Background(), sent.ID, dto.UpdateStatusRequest{
				NewStatus: status,
			}, "bodega")
			require.NoError(t, err)

			assert.Empty(t, notifier.notified, "solo RECEIVED dispara el aviso")
		})
	}
}

// ── Atomicidad ───────────────────────────────────────────────────────────────

func TestReceive_FalloBitacoraRevierteTransicion(t *testing.T) {
	store, notifier, uc := newLifecycleFixture()
	sent := sendOne(t, uc)
	store.failAudit = errors.New("disco lleno")

	_, err := uc.ReceiveByID(context.Background(), sent.ID, dto.UpdateStatusRequest{
		NewStatus: entity.StatusReceived,
	}, "bodega")

	require.Error(t, err)
	assert.Equal(t, entity.StatusSent, store.shipments[0].Status,
		"si la bitácora falla, la transición se revierte")
	assert.Nil(t, store.shipments[0].ReceivedAt)
	assert.Len(t, store.audit, 1, "solo sobrevive el evento del alta")
	assert.Empty(t, notifier.notified, "sin commit no hay aviso")
}

func TestSend_FalloBitacoraRevierteAlta(t *testing.T) {
	store, _, uc := newLifecycleFixture()
	store.failAudit = errors.New("disco lleno")

	_, err := uc.Send(context.Background(), dto.SendShipmentRequest{
		Payload:    testPayload,
		SupplierID: 1,
	}, "admin")

	require.Error(t, err)
	assert.Empty(t, store.shipments, "sin bitácora no queda el envío")
	assert.Empty(t, store.audit)
}
