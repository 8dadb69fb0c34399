// Package telegram envía avisos de recepción por un bot de Telegram.
// Es un canal de mejor esfuerzo: la app funciona igual sin configurarlo.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/Envios-api/internal/application/shipping"
	"github.com/jhoicas/Envios-api/internal/domain/entity"
	"github.com/jhoicas/Envios-api/pkg/config"
)

// Verificar en tiempo de compilación que Notifier implementa shipping.Notifier.
var _ shipping.Notifier = (*Notifier)(nil)

const defaultBaseURL = "https://api.telegram.org"

// Notifier cliente del método sendMessage de la Bot API.
type Notifier struct {
	token      string
	chatID     string
	baseURL    string
	httpClient *http.Client
}

// NewNotifier construye el notificador. Con token o chat vacíos queda en
// modo deshabilitado y los avisos se descartan sin error.
func NewNotifier(cfg config.TelegramConfig) *Notifier {
	return &Notifier{
		token:   cfg.Token,
		chatID:  cfg.ChatID,
		baseURL: defaultBaseURL,
		// El aviso corre después del commit; un timeout corto evita
		// retener la respuesta HTTP al operador.
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ── Estructuras del protocolo Bot API ─────────────────────────────────────────

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// NotifyReceived publica el aviso de recepción en el chat configurado.
func (n *Notifier) NotifyReceived(ctx context.Context, s *entity.Shipment, supplierName string) error {
	if n.token == "" || n.chatID == "" {
		return nil
	}

	receivedAt := ""
	if s.ReceivedAt != nil {
		receivedAt = s.ReceivedAt.Format("02/01/2006 15:04")
	}
	text := fmt.Sprintf(
		"📦 <b>Envío recibido</b>\nQR: <code>%s</code>\nEquipo: %s %s\nProveedor: %s\nRecibido: %s por %s",
		s.QRCode, s.DeviceName, s.Capacity, supplierName, receivedAt, s.UpdatedBy,
	)

	payload := sendMessageRequest{ChatID: n.chatID, Text: text, ParseMode: "HTML"}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: serializar mensaje: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("telegram: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("telegram: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("telegram: leer respuesta: %w", err)
	}

	var tr sendMessageResponse
	if err := json.Unmarshal(rawBody, &tr); err != nil {
		return fmt.Errorf("telegram: Bot API HTTP %d: %s", resp.StatusCode, string(rawBody))
	}
	if !tr.OK {
		return fmt.Errorf("telegram: Bot API rechazó el mensaje: %s", tr.Description)
	}
	return nil
}
