package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesMetrics ingresos y número de ventas del rango.
// Usa COALESCE para devolver cero si no hay ventas en el período.
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, start, end time.Time) (repository.PeriodMetrics, error) {
	var m repository.PeriodMetrics
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM sales
		WHERE created_at >= $1 AND created_at < $2`, start, end,
	).Scan(&m.Revenue, &m.Count)
	if err != nil {
		return m, domain.Persistence("sales metrics", err)
	}
	return m, nil
}

// GetServiceMetrics ingresos y número de servicios cobrados en el rango.
func (r *AnalyticsRepo) GetServiceMetrics(ctx context.Context, start, end time.Time) (repository.PeriodMetrics, error) {
	var m repository.PeriodMetrics
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM service_quotes
		WHERE status = 'paid' AND paid_at >= $1 AND paid_at < $2`, start, end,
	).Scan(&m.Revenue, &m.Count)
	if err != nil {
		return m, domain.Persistence("service metrics", err)
	}
	return m, nil
}

// GetTopProducts productos con más unidades vendidas en el rango.
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]repository.TopProductResult, error) {
	const query = `
	SELECT
	    p.id,
	    p.name,
	    SUM(l.quantity)  AS quantity_sold,
	    SUM(l.subtotal)  AS revenue
	FROM sale_lines l
	JOIN sales s    ON s.id = l.sale_id
	JOIN products p ON p.id = l.product_id
	WHERE s.created_at >= $1 AND s.created_at < $2
	GROUP BY p.id, p.name
	ORDER BY quantity_sold DESC, revenue DESC, p.name
	LIMIT $3`

	rows, err := r.q.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, domain.Persistence("top products", err)
	}
	defer rows.Close()

	results := []repository.TopProductResult{}
	for rows.Next() {
		var item repository.TopProductResult
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.QuantitySold, &item.Revenue); err != nil {
			return nil, domain.Persistence("scan top product", err)
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("top products", err)
	}
	return results, nil
}

// GetLowStock productos por debajo del umbral, los más escasos primero.
func (r *AnalyticsRepo) GetLowStock(ctx context.Context, threshold, limit int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE stock <= $1 ORDER BY stock, name LIMIT $2`,
		threshold, limit,
	)
	if err != nil {
		return nil, domain.Persistence("low stock", err)
	}
	defer rows.Close()

	list := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, domain.Persistence("scan product", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("low stock", err)
	}
	return list, nil
}
