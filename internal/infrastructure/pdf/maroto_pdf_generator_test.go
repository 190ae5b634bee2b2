package pdf_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/infrastructure/pdf"
)

func TestGenerateSaleReceipt_GeneraPDF(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator()
	sale := &entity.Sale{
		ID:            "3f1c2a9e-0000-4000-8000-000000000001",
		OperatorName:  "Ana Torres",
		PaymentMethod: entity.PaymentCash,
		Total:         decimal.RequireFromString("2450.00"),
		CreatedAt:     time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Lines: []entity.SaleLine{
			{Position: 1, ProductName: "Mouse", Quantity: 2, UnitPrice: decimal.RequireFromString("25.00"), Subtotal: decimal.RequireFromString("50.00")},
			{Position: 2, ProductName: "Laptop", Quantity: 1, UnitPrice: decimal.RequireFromString("2400.00"), Subtotal: decimal.RequireFromString("2400.00")},
		},
	}

	b, err := g.GenerateSaleReceipt(context.Background(), sale)
	require.NoError(t, err)
	require.NotEmpty(t, b)
	assert.Equal(t, "%PDF", string(b[:4]))
}

func TestGenerateQuotePDF_CotizadaYPagada(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator()
	q := &entity.ServiceQuote{
		ID:            "7a2b4c6d-0000-4000-8000-000000000002",
		ServiceName:   "Mantenimiento",
		ClientName:    "Pedro",
		ServicePrice:  decimal.RequireFromString("100.00"),
		ProductsPrice: decimal.RequireFromString("50.00"),
		Total:         decimal.RequireFromString("150.00"),
		Status:        entity.QuoteStatusQuoted,
		CreatedAt:     time.Now(),
		Lines: []entity.QuoteLine{
			{Position: 1, ProductName: "Pasta térmica", Quantity: 2, UnitPrice: decimal.RequireFromString("25.00"), Subtotal: decimal.RequireFromString("50.00")},
		},
	}

	b, err := g.GenerateQuotePDF(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b[:4]))

	paidAt := time.Now()
	q.Status = entity.QuoteStatusPaid
	q.PaidAt = &paidAt
	q.Lines = nil
	b, err = g.GenerateQuotePDF(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b[:4]))
}
