package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/todolap-api/internal/domain/entity"
)

// PeriodMetrics ingresos y cantidad de operaciones de un período.
type PeriodMetrics struct {
	Revenue decimal.Decimal
	Count   int
}

// TopProductResult producto más vendido del período (por unidades).
type TopProductResult struct {
	ProductID    string
	ProductName  string
	QuantitySold int
	Revenue      decimal.Decimal // suma de subtotales a precio congelado
}

// AnalyticsRepository consultas read-only para el dashboard. Los rangos son [start, end).
type AnalyticsRepository interface {
	// GetSalesMetrics suma el total de las ventas registradas en el rango.
	GetSalesMetrics(ctx context.Context, start, end time.Time) (PeriodMetrics, error)

	// GetServiceMetrics suma el total de las cotizaciones cobradas en el rango (por fecha de pago).
	GetServiceMetrics(ctx context.Context, start, end time.Time) (PeriodMetrics, error)

	// GetTopProducts devuelve hasta limit productos ordenados por unidades vendidas.
	GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]TopProductResult, error)

	// GetLowStock devuelve productos con stock <= threshold, los más escasos primero.
	GetLowStock(ctx context.Context, threshold, limit int) ([]*entity.Product, error)
}
