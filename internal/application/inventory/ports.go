package inventory

import (
	"context"

	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

// StockTxRunner ejecuta una función dentro de una transacción de BD, pasando el repositorio
// de productos atado a esa tx. Garantiza atomicidad para movimientos de stock aislados.
type StockTxRunner interface {
	RunStock(ctx context.Context, fn func(productRepo repository.ProductRepository) error) error
}

// StockLevel nivel de stock de un producto tras un movimiento confirmado.
type StockLevel struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Stock       int    `json:"stock"`
}

// StockNotifier publica niveles de stock ya confirmados (ej. terminales POS vía WebSocket).
// Se invoca fuera de la transacción; un fallo de notificación no revierte nada.
type StockNotifier interface {
	NotifyStock(ctx context.Context, levels []StockLevel)
}
