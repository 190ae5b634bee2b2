package sqlite

import (
	"context"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas del dashboard sobre SQLite. Los montos se guardan como TEXT,
// así que las sumas se hacen en Go con decimal y no con SUM (que pasaría por REAL).
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesMetrics ingresos y número de ventas del rango.
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, start, end time.Time) (repository.PeriodMetrics, error) {
	return r.sumTotals(ctx, "sales metrics",
		`SELECT total FROM sales WHERE created_at >= ? AND created_at < ?`, start, end)
}

// GetServiceMetrics ingresos y número de servicios cobrados en el rango.
func (r *AnalyticsRepo) GetServiceMetrics(ctx context.Context, start, end time.Time) (repository.PeriodMetrics, error) {
	return r.sumTotals(ctx, "service metrics",
		`SELECT total FROM service_quotes WHERE status = 'paid' AND paid_at >= ? AND paid_at < ?`, start, end)
}

// GetTopProducts productos con más unidades vendidas en el rango.
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]repository.TopProductResult, error) {
	var rows []struct {
		ProductID   string          `db:"product_id"`
		ProductName string          `db:"product_name"`
		Quantity    int             `db:"quantity"`
		Subtotal    decimal.Decimal `db:"subtotal"`
	}
	err := sqlx.SelectContext(ctx, r.q, &rows, `
		SELECT l.product_id, p.name AS product_name, l.quantity, l.subtotal
		FROM sale_lines l
		JOIN sales s    ON s.id = l.sale_id
		JOIN products p ON p.id = l.product_id
		WHERE s.created_at >= ? AND s.created_at < ?`,
		formatTime(start), formatTime(end),
	)
	if err != nil {
		return nil, domain.Persistence("top products", err)
	}

	byProduct := make(map[string]*repository.TopProductResult)
	for _, row := range rows {
		item, ok := byProduct[row.ProductID]
		if !ok {
			item = &repository.TopProductResult{ProductID: row.ProductID, ProductName: row.ProductName, Revenue: decimal.Zero}
			byProduct[row.ProductID] = item
		}
		item.QuantitySold += row.Quantity
		item.Revenue = item.Revenue.Add(row.Subtotal)
	}

	results := make([]repository.TopProductResult, 0, len(byProduct))
	for _, item := range byProduct {
		results = append(results, *item)
	}
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.QuantitySold != b.QuantitySold {
			return a.QuantitySold > b.QuantitySold
		}
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.ProductName < b.ProductName
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// GetLowStock productos por debajo del umbral, los más escasos primero.
func (r *AnalyticsRepo) GetLowStock(ctx context.Context, threshold, limit int) ([]*entity.Product, error) {
	var rows []productRow
	err := sqlx.SelectContext(ctx, r.q, &rows,
		`SELECT `+productColumns+` FROM products WHERE stock <= ? ORDER BY stock, name LIMIT ?`,
		threshold, pageLimit(limit),
	)
	if err != nil {
		return nil, domain.Persistence("low stock", err)
	}
	list := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

func (r *AnalyticsRepo) sumTotals(ctx context.Context, op, query string, start, end time.Time) (repository.PeriodMetrics, error) {
	var totals []decimal.Decimal
	if err := sqlx.SelectContext(ctx, r.q, &totals, query, formatTime(start), formatTime(end)); err != nil {
		return repository.PeriodMetrics{}, domain.Persistence(op, err)
	}
	m := repository.PeriodMetrics{Revenue: decimal.Zero, Count: len(totals)}
	for _, t := range totals {
		m.Revenue = m.Revenue.Add(t)
	}
	return m, nil
}
