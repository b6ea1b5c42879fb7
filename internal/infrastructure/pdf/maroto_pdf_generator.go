// Package pdf genera el reporte de inventario en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  REPORTE DE INVENTARIO (+ empresa)       │  Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Cantidad | Ubicación | Estado    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Total de Productos / Total de Unidades             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/litethinking-inventario/internal/application/reporting"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 220, Green: 53, Blue: 69}
	colorWarning = &props.Color{Red: 204, Green: 140, Blue: 0}
	colorStripe  = &props.Color{Red: 240, Green: 243, Blue: 247}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa reporting.PDFRenderer usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// RenderInventoryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderInventoryPDF(_ context.Context, report *reporting.Report) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Inventario", true).
		WithAuthor(nonEmpty(report.CompanyName, "Lite Thinking"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(row.New(4))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(report.Rows) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(4))
	m.AddRows(summaryRows(report)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + empresa (izq) y fecha de generación (der).
func headerRow(report *reporting.Report) core.Row {
	left := col.New(8).Add(
		text.New(report.Title, props.Text{
			Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Top: 1,
		}),
	)
	if report.CompanyName != "" {
		left.Add(text.New(report.CompanyName, props.Text{
			Size: 9, Top: 10, Color: colorGray,
		}))
	}
	return row.New(18).Add(
		left,
		col.New(4).Add(
			text.New("Fecha: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla con fondo azul.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Cantidad", 2, align.Right),
		h("Ubicación", 2, align.Left),
		h("Estado", 2, align.Center),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por producto, con filas alternas sombreadas.
func tableDetailRows(rows []reporting.Row) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for i, r := range rows {
		cell := text.New(r.State, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1, Color: stateColor(r.StateCode),
		})
		detail := row.New(7).Add(
			col.New(2).Add(text.New(r.Code, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(r.Product, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatUnits(r.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(r.Location, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(cell),
		)
		if i%2 == 1 {
			detail.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, detail)
	}
	if len(rows) == 0 {
		result = append(result, row.New(10).Add(col.New(12).Add(
			text.New("No hay productos registrados.", props.Text{
				Size: 9, Align: align.Center, Top: 3, Color: colorGray,
			}),
		)))
	}
	return result
}

// summaryRows: bloque de totales.
func summaryRows(report *reporting.Report) []core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1})
	}
	return []core.Row{
		row.New(6).Add(col.New(12).Add(text.New("RESUMEN", props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary,
		}))),
		row.New(7).Add(
			col.New(6),
			col.New(4).Add(label("Total de Productos:")),
			col.New(2).Add(value(strconv.Itoa(report.TotalProducts))),
		),
		row.New(7).Add(
			col.New(6),
			col.New(4).Add(label("Total de Unidades:")),
			col.New(2).Add(value(formatUnits(report.TotalUnits))),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func stateColor(code string) *props.Color {
	switch code {
	case "NO_STOCK":
		return colorDanger
	case "LOW":
		return colorWarning
	default:
		return colorGray
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatUnits inserta puntos de miles. Ej: 25000 → "25.000", -1200 → "-1.200".
func formatUnits(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	l := len(s)
	if l <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
