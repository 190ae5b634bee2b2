package pdf

import (
	"context"

	"github.com/jhoicas/todolap-api/internal/domain/entity"
)

var paymentLabels = map[string]string{
	entity.PaymentCash:     "Efectivo",
	entity.PaymentCard:     "Tarjeta",
	entity.PaymentTransfer: "Transferencia",
}

// GenerateSaleReceipt genera el recibo de una venta de mostrador (la venta debe traer sus líneas).
func (g *MarotoPDFGenerator) GenerateSaleReceipt(_ context.Context, sale *entity.Sale) ([]byte, error) {
	m := newDocument("Recibo de venta")

	m.AddRows(headerRow("RECIBO DE VENTA", shortID(sale.ID), sale.CreatedAt.Local().Format("02/01/2006 15:04")))
	m.AddRows(separator(0.5))
	m.AddRows(infoRow("DATOS DE LA VENTA",
		"Operador", sale.OperatorName,
		"Método de pago", paymentLabels[sale.PaymentMethod],
	))
	m.AddRows(separator(0.3))

	lines := make([]tableLine, 0, len(sale.Lines))
	for _, l := range sale.Lines {
		lines = append(lines, tableLine{Quantity: l.Quantity, Name: l.ProductName, UnitPrice: l.UnitPrice, Subtotal: l.Subtotal})
	}
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(lines)...)

	m.AddRows(separator(0.3))
	m.AddRows(totalsRows([]totalLine{{Label: "TOTAL:", Amount: sale.Total, Grand: true}})...)
	m.AddRows(footerRows(sale.ID, "Gracias por su compra. Conserve este recibo para garantías y devoluciones.")...)

	return render(m)
}
