package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItemRequest una línea del carrito.
type CartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// CheckoutRequest entrada del punto de venta. PaymentMethod vacío equivale a efectivo.
type CheckoutRequest struct {
	PaymentMethod string            `json:"payment_method" validate:"omitempty,oneof=efectivo tarjeta transferencia"`
	Items         []CartItemRequest `json:"items" validate:"dive"`
}

// SaleLineResponse salida de una línea de venta.
type SaleLineResponse struct {
	Position    int             `json:"position"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse salida de una venta con sus líneas.
type SaleResponse struct {
	ID            string             `json:"id"`
	OperatorID    *string            `json:"operator_id,omitempty"`
	OperatorName  string             `json:"operator_name,omitempty"`
	PaymentMethod string             `json:"payment_method"`
	Total         decimal.Decimal    `json:"total"`
	CreatedAt     time.Time          `json:"created_at"`
	Lines         []SaleLineResponse `json:"lines,omitempty"`
}

// CheckoutResponse venta confirmada más el mensaje para caja.
type CheckoutResponse struct {
	Message string       `json:"message"`
	Sale    SaleResponse `json:"sale"`
}

// SaleListRequest filtros del historial de ventas (fechas YYYY-MM-DD).
type SaleListRequest struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	PageRequest
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// SaleCSVRow fila del export CSV de ventas (una por línea vendida).
type SaleCSVRow struct {
	SaleID        string `csv:"venta"`
	Date          string `csv:"fecha"`
	Operator      string `csv:"operador"`
	PaymentMethod string `csv:"metodo_pago"`
	Product       string `csv:"producto"`
	Quantity      int    `csv:"cantidad"`
	UnitPrice     string `csv:"precio_unitario"`
	Subtotal      string `csv:"subtotal"`
	SaleTotal     string `csv:"total_venta"`
}
