package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una cotización de servicio.
const (
	QuoteStatusQuoted = "quoted"
	QuoteStatusPaid   = "paid"
)

// ServiceQuote es una cotización de servicio (precio base + productos).
// Status pasa de quoted a paid una sola vez; PaidAt != nil si y solo si está pagada.
type ServiceQuote struct {
	ID            string
	ServiceID     string
	ServiceName   string // solo lectura (join con services)
	ClientName    string
	ServicePrice  decimal.Decimal
	ProductsPrice decimal.Decimal
	Total         decimal.Decimal
	Status        string
	CreatedAt     time.Time
	PaidAt        *time.Time
	Lines         []QuoteLine
}

// IsPaid indica si la cotización ya fue cobrada.
func (q *ServiceQuote) IsPaid() bool {
	return q.Status == QuoteStatusPaid
}

// QuoteLine producto incluido en una cotización, con precio congelado.
type QuoteLine struct {
	ID          string
	QuoteID     string
	Position    int
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}
