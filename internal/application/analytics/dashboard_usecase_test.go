package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/todolap-api/internal/application/analytics"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/infrastructure/sqlite"
)

var now = time.Date(2026, time.March, 15, 16, 30, 0, 0, time.UTC)

func TestDashboard_ResumenDelMes(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	products := sqlite.NewProductRepository(db)
	services := sqlite.NewServiceRepository(db)
	sales := sqlite.NewSaleRepository(db)
	quotes := sqlite.NewQuoteRepository(db)

	mkProduct := func(name string, price int64, stock int) *entity.Product {
		p := &entity.Product{ID: uuid.New().String(), Name: name, Price: decimal.NewFromInt(price), Stock: stock, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, products.Create(ctx, p))
		return p
	}
	mkSale := func(at time.Time, p *entity.Product, qty int) {
		s := &entity.Sale{
			ID: uuid.New().String(), PaymentMethod: entity.PaymentCash, CreatedAt: at,
			Total: p.Price.Mul(decimal.NewFromInt(int64(qty))),
		}
		require.NoError(t, sales.Create(ctx, s))
		require.NoError(t, sales.CreateLine(ctx, &entity.SaleLine{
			ID: uuid.New().String(), SaleID: s.ID, Position: 1, ProductID: p.ID, ProductName: p.Name,
			Quantity: qty, UnitPrice: p.Price,
		}))
	}

	mouse := mkProduct("Mouse", 20000, 1)
	ssd := mkProduct("SSD", 150000, 8)
	mkProduct("Teclado", 50000, 3)
	mkProduct("Monitor", 700000, 20)

	mkSale(now.Add(-2*time.Hour), mouse, 3)
	mkSale(now.AddDate(0, 0, -5), ssd, 1)
	mkSale(now.AddDate(0, 0, -5), mouse, 1)
	// Mes anterior: no cuenta.
	mkSale(time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC), ssd, 10)

	svc := &entity.Service{ID: uuid.New().String(), Name: "Limpieza", Cost: decimal.NewFromInt(40000), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, services.Create(ctx, svc))
	for i, paid := range []bool{true, false} {
		q := &entity.ServiceQuote{
			ID: uuid.New().String(), ServiceID: svc.ID, ClientName: "Cliente", ServicePrice: svc.Cost,
			ProductsPrice: decimal.Zero, Status: entity.QuoteStatusQuoted, CreatedAt: now.AddDate(0, 0, -i),
		}
		require.NoError(t, quotes.Create(ctx, q))
		if paid {
			_, err := quotes.MarkPaid(ctx, q.ID, now.Add(-time.Hour))
			require.NoError(t, err)
		}
	}

	uc := analytics.NewDashboardUseCase(sqlite.NewAnalyticsRepository(db)).WithClock(func() time.Time { return now })
	summary, err := uc.GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Marzo 2026", summary.DateLabel)
	assert.Equal(t, 1, summary.TodaySales.Count)
	assert.Equal(t, "60000.00", summary.TodaySales.Revenue.StringFixed(2))
	assert.Equal(t, 3, summary.MonthlySales.Count)
	assert.Equal(t, "230000.00", summary.MonthlySales.Revenue.StringFixed(2))
	assert.Equal(t, 1, summary.MonthlyServices.Count)
	assert.Equal(t, "40000.00", summary.MonthlyServices.Revenue.StringFixed(2))
	assert.Equal(t, "270000.00", summary.MonthlyIncome.StringFixed(2))

	require.Len(t, summary.TopProducts, 2)
	assert.Equal(t, "Mouse", summary.TopProducts[0].ProductName)
	assert.Equal(t, 4, summary.TopProducts[0].QuantitySold)
	assert.Equal(t, "80000.00", summary.TopProducts[0].Revenue.StringFixed(2))
	assert.Equal(t, "SSD", summary.TopProducts[1].ProductName)
	assert.Equal(t, 1, summary.TopProducts[1].QuantitySold)

	require.Len(t, summary.LowStock, 2)
	assert.Equal(t, "Mouse", summary.LowStock[0].Name)
	assert.Equal(t, "Teclado", summary.LowStock[1].Name)
}

func TestDashboard_SinMovimientos(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	summary, err := analytics.NewDashboardUseCase(sqlite.NewAnalyticsRepository(db)).
		WithClock(func() time.Time { return now }).
		GetSummary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.MonthlyIncome.IsZero())
	assert.Equal(t, 0, summary.TodaySales.Count)
	assert.NotNil(t, summary.TopProducts)
	assert.Empty(t, summary.TopProducts)
	assert.Empty(t, summary.LowStock)
}
