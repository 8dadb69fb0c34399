// Package sheets implementa el espejo de envíos sobre la API REST de
// Google Sheets v4 con una cuenta de servicio. Usa net/http de la stdlib;
// no requiere el SDK oficial de Google.
package sheets

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jhoicas/Envios-api/internal/application/export"
	"github.com/jhoicas/Envios-api/internal/domain"
	"github.com/jhoicas/Envios-api/pkg/config"
)

// Verificar en tiempo de compilación que Client implementa export.Mirror.
var _ export.Mirror = (*Client)(nil)

const (
	defaultBaseURL  = "https://sheets.googleapis.com/v4/spreadsheets"
	defaultTokenURL = "https://oauth2.googleapis.com/token"
	oauthScope      = "https://www.googleapis.com/auth/spreadsheets"
	oauthGrantType  = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

// credentials campos que usamos del JSON de cuenta de servicio de Google.
type credentials struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// Client espejo de envíos sobre una hoja de cálculo. El token OAuth se
// cachea y se renueva solo cuando está por vencer.
type Client struct {
	spreadsheetID string
	worksheet     string
	clientEmail   string
	key           *rsa.PrivateKey
	baseURL       string
	tokenURL      string
	httpClient    *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExp    time.Time
}

// NewClient lee el JSON de cuenta de servicio y construye el espejo.
func NewClient(cfg config.SheetsConfig) (*Client, error) {
	raw, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("sheets: leer credenciales: %w", err)
	}
	var creds credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("sheets: parsear credenciales: %w", err)
	}
	return newClient(creds, cfg.SpreadsheetID, cfg.Worksheet)
}

func newClient(creds credentials, spreadsheetID, worksheet string) (*Client, error) {
	if creds.ClientEmail == "" || creds.PrivateKey == "" {
		return nil, fmt.Errorf("sheets: credenciales incompletas (client_email y private_key son obligatorios)")
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(creds.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("sheets: clave privada inválida: %w", err)
	}
	tokenURL := creds.TokenURI
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	return &Client{
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
		clientEmail:   creds.ClientEmail,
		key:           key,
		baseURL:       defaultBaseURL,
		tokenURL:      tokenURL,
		// La API de Google puede tardar con hojas grandes.
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// EnsureHeader garantiza que la fila 1 sea el encabezado dado. Solo escribe
// si falta o no coincide, para no gastar cuota en cada corrida.
func (c *Client) EnsureHeader(ctx context.Context, header []string) error {
	current, err := c.valuesGet(ctx, c.rangeRef("1:1"))
	if err != nil {
		return unavailable("leer encabezado", err)
	}
	if len(current) > 0 && equalRow(current[0], header) {
		return nil
	}
	if err := c.valuesUpdate(ctx, c.rangeRef("1:1"), [][]string{header}); err != nil {
		return unavailable("escribir encabezado", err)
	}
	return nil
}

// ListIDs devuelve los IDs de la columna A desde la fila 2. Las celdas que
// no son números se ignoran: la hoja puede tener retoques manuales.
func (c *Client) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := c.valuesGet(ctx, c.rangeRef("A2:A"))
	if err != nil {
		return nil, unavailable("listar ids", err)
	}
	var ids []int64
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// AppendRows agrega filas al final de la tabla de datos.
func (c *Client) AppendRows(ctx context.Context, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	if err := c.valuesAppend(ctx, c.rangeRef("A1"), rows); err != nil {
		return unavailable("agregar filas", err)
	}
	return nil
}

// ClearRows borra todas las filas de datos conservando el encabezado.
func (c *Client) ClearRows(ctx context.Context) error {
	if err := c.valuesClear(ctx, c.rangeRef("A2:Z")); err != nil {
		return unavailable("borrar filas", err)
	}
	return nil
}

// ── Operaciones de la API de valores ──────────────────────────────────────────

type valueRange struct {
	Values [][]string `json:"values"`
}

func (c *Client) valuesGet(ctx context.Context, rangeA1 string) ([][]string, error) {
	endpoint := fmt.Sprintf("%s/%s/values/%s", c.baseURL, c.spreadsheetID, url.PathEscape(rangeA1))
	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var vr valueRange
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, fmt.Errorf("parsear valores: %w", err)
	}
	return vr.Values, nil
}

func (c *Client) valuesUpdate(ctx context.Context, rangeA1 string, values [][]string) error {
	endpoint := fmt.Sprintf("%s/%s/values/%s?valueInputOption=RAW",
		c.baseURL, c.spreadsheetID, url.PathEscape(rangeA1))
	_, err := c.do(ctx, http.MethodPut, endpoint, valueRange{Values: values})
	return err
}

func (c *Client) valuesAppend(ctx context.Context, rangeA1 string, values [][]string) error {
	endpoint := fmt.Sprintf("%s/%s/values/%s:append?valueInputOption=USER_ENTERED&insertDataOption=INSERT_ROWS",
		c.baseURL, c.spreadsheetID, url.PathEscape(rangeA1))
	_, err := c.do(ctx, http.MethodPost, endpoint, valueRange{Values: values})
	return err
}

func (c *Client) valuesClear(ctx context.Context, rangeA1 string) error {
	endpoint := fmt.Sprintf("%s/%s/values/%s:clear",
		c.baseURL, c.spreadsheetID, url.PathEscape(rangeA1))
	_, err := c.do(ctx, http.MethodPost, endpoint, struct{}{})
	return err
}

// do ejecuta la llamada autenticada y retorna el cuerpo de la respuesta.
func (c *Client) do(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("serializar request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // max 1 MB
	if err != nil {
		return nil, fmt.Errorf("leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Sheets HTTP %d: %s", resp.StatusCode, string(rawBody))
	}
	return rawBody, nil
}

// ── Token OAuth de cuenta de servicio ─────────────────────────────────────────

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// token retorna el access token cacheado o intercambia una aserción RS256
// nueva contra el endpoint OAuth de Google.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Margen de un minuto para no usar un token a punto de vencer.
	if c.accessToken != "" && time.Now().Before(c.tokenExp.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	now := time.Now()
	assertion := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":   c.clientEmail,
		"scope": oauthScope,
		"aud":   c.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	})
	signed, err := assertion.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("firmar aserción: %w", err)
	}

	form := url.Values{
		"grant_type": {oauthGrantType},
		"assertion":  {signed},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL,
		bytes.NewReader([]byte(form.Encode())))
	if err != nil {
		return "", fmt.Errorf("crear request de token: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("intercambiar token: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("leer respuesta de token: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OAuth HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var tr tokenResponse
	if err := json.Unmarshal(rawBody, &tr); err != nil {
		return "", fmt.Errorf("parsear token: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("respuesta de token sin access_token")
	}

	c.accessToken = tr.AccessToken
	c.tokenExp = now.Add(time.Duration(tr.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// rangeRef arma la referencia A1 con el nombre de la hoja entre comillas
// simples, que es obligatorio cuando el nombre lleva espacios.
func (c *Client) rangeRef(cells string) string {
	return fmt.Sprintf("'%s'!%s", c.worksheet, cells)
}

func equalRow(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// unavailable marca la operación como indisponibilidad del espejo
// conservando la causa original para el log.
func unavailable(op string, err error) error {
	return fmt.Errorf("sheets: %s: %w: %w", op, domain.ErrSyncUnavailable, err)
}
