package pdf

import (
	"context"

	"github.com/jhoicas/todolap-api/internal/domain/entity"
)

// GenerateQuotePDF genera la cotización de un servicio; si ya está pagada se rotula como comprobante.
func (g *MarotoPDFGenerator) GenerateQuotePDF(_ context.Context, q *entity.ServiceQuote) ([]byte, error) {
	title := "COTIZACIÓN DE SERVICIO"
	status := "Cotizado"
	date := q.CreatedAt
	if q.IsPaid() {
		title = "COMPROBANTE DE SERVICIO PAGADO"
		status = "Pagado"
		if q.PaidAt != nil {
			date = *q.PaidAt
		}
	}
	m := newDocument(title)

	m.AddRows(headerRow(title, shortID(q.ID), date.Local().Format("02/01/2006 15:04")))
	m.AddRows(separator(0.5))
	m.AddRows(infoRow("CLIENTE Y SERVICIO",
		"Cliente", q.ClientName,
		"Servicio", q.ServiceName,
		"Estado", status,
	))
	m.AddRows(separator(0.3))

	if len(q.Lines) > 0 {
		lines := make([]tableLine, 0, len(q.Lines))
		for _, l := range q.Lines {
			lines = append(lines, tableLine{Quantity: l.Quantity, Name: l.ProductName, UnitPrice: l.UnitPrice, Subtotal: l.Subtotal})
		}
		m.AddRows(tableHeaderRow())
		m.AddRows(tableRows(lines)...)
		m.AddRows(separator(0.3))
	}

	m.AddRows(totalsRows([]totalLine{
		{Label: "Servicio:", Amount: q.ServicePrice},
		{Label: "Productos:", Amount: q.ProductsPrice},
		{Label: "TOTAL:", Amount: q.Total, Grand: true},
	})...)
	legend := "Los precios de los productos quedan fijados a la fecha de emisión."
	if q.IsPaid() {
		legend = "Servicio pagado. Conserve este comprobante para la garantía del servicio."
	}
	m.AddRows(footerRows(q.ID, legend)...)

	return render(m)
}
