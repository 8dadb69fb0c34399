// Package scan interpreta el formato de los códigos QR de envío.
//
// El escáner externo entrega una sola cadena de exactamente cuatro campos
// separados por coma: "qr_code,imei,device_name,capacity". No hay comillas
// ni escapes; cada campo se recorta de espacios al inicio y al final.
package scan

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Envios-api/internal/domain"
)

const fieldCount = 4

// Payload campos decodificados de un código QR de envío.
type Payload struct {
	QRCode     string
	IMEI       string
	DeviceName string
	Capacity   string
}

// Parse valida el formato estricto de cuatro campos. Retorna
// domain.ErrValidation si el número de campos no es cuatro o si el
// qr_code queda vacío después del recorte.
func Parse(raw string) (Payload, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != fieldCount {
		return Payload{}, fmt.Errorf("%w: se esperaban %d campos separados por coma, llegaron %d",
			domain.ErrValidation, fieldCount, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	p := Payload{
		QRCode:     parts[0],
		IMEI:       parts[1],
		DeviceName: parts[2],
		Capacity:   parts[3],
	}
	if p.QRCode == "" {
		return Payload{}, fmt.Errorf("%w: el campo qr_code no puede estar vacío", domain.ErrValidation)
	}
	return p, nil
}

// ParseLenient separa el payload sin exigir los cuatro campos: llena en
// orden con lo que haya, recorta cada campo y descarta sobrantes. Sirve
// para el flujo escanear-primero, donde un escaneo incompleto todavía
// permite buscar por código y precargar el alta.
func ParseLenient(raw string) Payload {
	parts := strings.Split(raw, ",")
	var fields [fieldCount]string
	for i := 0; i < len(parts) && i < fieldCount; i++ {
		fields[i] = strings.TrimSpace(parts[i])
	}
	return Payload{
		QRCode:     fields[0],
		IMEI:       fields[1],
		DeviceName: fields[2],
		Capacity:   fields[3],
	}
}

// ExtractQR toma el qr_code de un escaneo sin exigir el formato completo:
// acepta tanto el payload de cuatro campos como el código suelto.
// Se usa en búsquedas, donde los demás campos no importan.
func ExtractQR(raw string) string {
	first := raw
	if i := strings.Index(raw, ","); i >= 0 {
		first = raw[:i]
	}
	return strings.TrimSpace(first)
}

// String re-arma el payload canónico, por ejemplo para codificarlo en una
// etiqueta QR imprimible.
func (p Payload) String() string {
	return strings.Join([]string{p.QRCode, p.IMEI, p.DeviceName, p.Capacity}, ",")
}
