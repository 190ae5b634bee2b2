package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario de la tienda.
// Stock solo lo modifica el libro de inventario (ventas y reposiciones).
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta vigente
	Stock       int             // unidades disponibles, nunca negativo
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
