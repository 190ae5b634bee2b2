package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados en caja.
const (
	PaymentCash     = "efectivo"
	PaymentCard     = "tarjeta"
	PaymentTransfer = "transferencia"
)

// ValidPaymentMethod indica si el tag de pago es soportado.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// Sale es una venta confirmada de productos del inventario.
// OperatorID es una referencia débil: sobrevive a la eliminación del usuario.
type Sale struct {
	ID            string
	OperatorID    *string
	OperatorName  string // solo lectura (join con users)
	PaymentMethod string
	Total         decimal.Decimal
	CreatedAt     time.Time
	Lines         []SaleLine
}

// SaleLine línea de venta con el precio congelado al momento de la venta.
type SaleLine struct {
	ID          string
	SaleID      string
	Position    int
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal // Quantity * UnitPrice, lo recalcula el repositorio
}
