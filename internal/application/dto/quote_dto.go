package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteItemRequest producto seleccionado para la cotización.
type QuoteItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// CreateQuoteRequest entrada para cotizar un servicio.
type CreateQuoteRequest struct {
	ServiceID  string             `json:"service_id" validate:"required"`
	ClientName string             `json:"client_name" validate:"max=200"`
	Items      []QuoteItemRequest `json:"items" validate:"dive"`
}

// QuoteLineResponse salida de una línea de cotización.
type QuoteLineResponse struct {
	Position    int             `json:"position"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// QuoteResponse salida de una cotización.
type QuoteResponse struct {
	ID            string              `json:"id"`
	ServiceID     string              `json:"service_id"`
	ServiceName   string              `json:"service_name"`
	ClientName    string              `json:"client_name"`
	ServicePrice  decimal.Decimal     `json:"service_price"`
	ProductsPrice decimal.Decimal     `json:"products_price"`
	Total         decimal.Decimal     `json:"total"`
	Status        string              `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	Lines         []QuoteLineResponse `json:"lines,omitempty"`
}

// QuoteListRequest filtro por pestaña (quoted | paid) y búsqueda libre.
type QuoteListRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=quoted paid"`
	Query  string `query:"q" validate:"max=100"`
	PageRequest
}

// QuoteListResponse lista paginada de cotizaciones.
type QuoteListResponse struct {
	Items []QuoteResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// PaymentResponse cotización cobrada más el mensaje de confirmación.
type PaymentResponse struct {
	Message string        `json:"message"`
	Quote   QuoteResponse `json:"quote"`
}
