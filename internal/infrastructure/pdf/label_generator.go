// Package pdf implementa la generación de la etiqueta imprimible de un
// envío usando Maroto v2.
//
// Layout de la página A6:
//
//	┌───────────────────────────┐
//	│  ETIQUETA DE ENVÍO │ N°   │
//	│  ───────────────────────  │
//	│                           │
//	│        [ CÓDIGO QR ]      │
//	│                           │
//	│        YCSC001234         │
//	│  ───────────────────────  │
//	│  IMEI / Equipo / Capac.   │
//	│  Proveedor / Enviado      │
//	│  Leyenda de recepción     │
//	└───────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	applabel "github.com/jhoicas/Envios-api/internal/application/label"
)

// Verificar en tiempo de compilación que LabelGenerator implementa el puerto.
var _ applabel.Generator = (*LabelGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// LabelGenerator implementa label.Generator usando Maroto v2.
type LabelGenerator struct{}

// NewLabelGenerator construye el generador.
func NewLabelGenerator() *LabelGenerator { return &LabelGenerator{} }

// GenerateLabel genera la etiqueta en A6 y devuelve sus bytes. El QR
// codifica el payload de escaneo completo, no solo el código.
func (g *LabelGenerator) GenerateLabel(_ context.Context, data applabel.LabelData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A6).
		WithLeftMargin(6).WithRightMargin(6).
		WithTopMargin(6).WithBottomMargin(6).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Etiqueta de envío", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.4}))
	m.AddRows(qrRow(data))
	m.AddRows(codeRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range detailRows(data) {
		m.AddRows(r)
	}
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiqueta: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y número interno del envío (der).
func headerRow(data applabel.LabelData) core.Row {
	return row.New(10).Add(
		col.New(8).Add(
			text.New("ETIQUETA DE ENVÍO", props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("N° %d", data.ShipmentID), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
		),
	)
}

// qrRow: el código QR ocupa el ancho útil de la etiqueta.
func qrRow(data applabel.LabelData) core.Row {
	return row.New(58).Add(
		col.New(12).Add(code.NewQr(data.QRPayload, props.Rect{
			Percent: 95,
			Center:  true,
		})),
	)
}

// codeRow: el código en texto, por si el lector falla.
func codeRow(data applabel.LabelData) core.Row {
	return row.New(9).Add(
		col.New(12).Add(text.New(data.QRCode, props.Text{
			Style: fontstyle.Bold, Size: 13, Align: align.Center, Top: 1,
		})),
	)
}

// detailRows: pares etiqueta/valor con los datos del equipo.
func detailRows(data applabel.LabelData) []core.Row {
	pair := func(label, value string) core.Row {
		return row.New(6).Add(
			col.New(4).Add(text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1,
			})),
			col.New(8).Add(text.New(nonEmpty(value, "—"), props.Text{
				Size: 8, Top: 1,
			})),
		)
	}
	return []core.Row{
		pair("IMEI:", data.IMEI),
		pair("Equipo:", data.DeviceName),
		pair("Capacidad:", data.Capacity),
		pair("Proveedor:", data.SupplierName),
		pair("Enviado:", data.SentAt.Format("02/01/2006 15:04")),
	}
}

// footerRow: leyenda para el operador de bodega.
func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Escanee el código al recibir el equipo en bodega.", props.Text{
			Size: 6.5, Align: align.Center, Color: colorGray, Top: 3,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
