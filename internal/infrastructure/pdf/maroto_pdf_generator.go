// Package pdf genera los comprobantes imprimibles del taller con Maroto v2:
// el recibo de una venta de mostrador y la cotización de un servicio.
//
// Layout común (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: TodoLap + título         │  N° documento + Fecha    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: operador / método de pago  ó  cliente / servicio    │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal                 │
//	│  TOTALES                                                     │
//	│  FOOTER: QR con el id + leyenda                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/todolap-api/internal/application/quoting"
	"github.com/jhoicas/todolap-api/internal/application/sales"
	"github.com/jhoicas/todolap-api/internal/domain/pricing"
)

var (
	_ sales.ReceiptGenerator     = (*MarotoPDFGenerator)(nil)
	_ quoting.QuotePDFGenerator  = (*MarotoPDFGenerator)(nil)
)

const shopName = "TodoLap"

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa sales.ReceiptGenerator y quoting.QuotePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// tableLine fila de la tabla de productos, común a ventas y cotizaciones.
type tableLine struct {
	Quantity  int
	Name      string
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// totalLine etiqueta y monto del bloque de totales; Grand resalta el total a pagar.
type totalLine struct {
	Label  string
	Amount decimal.Decimal
	Grand  bool
}

func newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(shopName, true).
		Build()
	return maroto.New(cfg)
}

func render(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del taller + título (izq) y número + fecha (der).
func headerRow(title, number, date string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(shopName, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New(title, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("N° "+number, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2}),
			text.New("Fecha: "+date, props.Text{Size: 8, Align: align.Right, Top: 10, Color: colorGray}),
		),
	)
}

// infoRow: bloque de datos clave/valor bajo el encabezado.
func infoRow(heading string, pairs ...string) core.Row {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, pairs[i]+": "+nonEmpty(pairs[i+1], "—"))
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New(heading, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(strings.Join(parts, "   |   "), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func separator(thickness float64) core.Row {
	return line.NewRow(1, props.Line{Color: colorPrimary, Thickness: thickness})
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func tableRows(lines []tableLine) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		out = append(out, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(l.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatMoney(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(formatMoney(l.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func totalsRows(totals []totalLine) []core.Row {
	out := make([]core.Row, 0, len(totals))
	for _, t := range totals {
		p := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1}
		if t.Grand {
			p.Size = 11
			p.Color = colorPrimary
		}
		out = append(out, row.New(7).Add(
			col.New(6),
			col.New(3).Add(text.New(t.Label, p)),
			col.New(3).Add(text.New(formatMoney(t.Amount), p)),
		))
	}
	return out
}

// footerRows: QR con el identificador del documento + leyenda.
func footerRows(id, legend string) []core.Row {
	return []core.Row{
		row.New(4),
		line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}),
		row.New(30).Add(
			col.New(3).Add(code.NewQr(id, props.Rect{Percent: 90, Center: true})),
			col.New(9).Add(
				text.New(legend, props.Text{Size: 8, Top: 6, Left: 3, Color: colorGray}),
				text.New("Ref: "+id, props.Text{Size: 6.5, Top: 16, Left: 3, Color: colorGray}),
			),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// shortID primeros 8 caracteres del id, como se muestran en caja.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatMoney "$" + monto con 2 decimales y separador de miles.
// Ej: 1234567.5 → "$1,234,567.50"
func formatMoney(d decimal.Decimal) string {
	s := pricing.Format(d)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, intPart[i])
	}
	return sign + "$" + string(buf) + "." + frac
}
