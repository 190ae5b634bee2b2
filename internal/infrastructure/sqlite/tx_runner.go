package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/todolap-api/internal/application/billing"
	"github.com/jhoicas/todolap-api/internal/application/inventory"
	"github.com/jhoicas/todolap-api/internal/application/quoting"
	"github.com/jhoicas/todolap-api/internal/application/sales"
	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

var (
	_ inventory.StockTxRunner    = (*TxRunner)(nil)
	_ sales.SaleTxRunner         = (*TxRunner)(nil)
	_ quoting.QuoteTxRunner      = (*TxRunner)(nil)
	_ billing.SettlementTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción SQLite.
type TxRunner struct {
	db *sqlx.DB
}

// NewTxRunner construye el runner.
func NewTxRunner(db *sqlx.DB) *TxRunner {
	return &TxRunner{db: db}
}

func (r *TxRunner) run(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Persistence("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return domain.Persistence("commit transaction", err)
	}
	return nil
}

// RunStock transacción con el repo de productos (reposición).
func (r *TxRunner) RunStock(ctx context.Context, fn func(productRepo repository.ProductRepository) error) error {
	return r.run(ctx, func(tx *sqlx.Tx) error {
		return fn(NewProductRepository(tx))
	})
}

// RunSale transacción con repos de productos y ventas (checkout).
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return r.run(ctx, func(tx *sqlx.Tx) error {
		return fn(NewProductRepository(tx), NewSaleRepository(tx))
	})
}

// RunQuote transacción con repos de servicios, productos y cotizaciones.
func (r *TxRunner) RunQuote(ctx context.Context, fn func(
	serviceRepo repository.ServiceRepository,
	productRepo repository.ProductRepository,
	quoteRepo repository.QuoteRepository,
) error) error {
	return r.run(ctx, func(tx *sqlx.Tx) error {
		return fn(NewServiceRepository(tx), NewProductRepository(tx), NewQuoteRepository(tx))
	})
}

// RunSettlement transacción con el repo de cotizaciones (cobro).
func (r *TxRunner) RunSettlement(ctx context.Context, fn func(quoteRepo repository.QuoteRepository) error) error {
	return r.run(ctx, func(tx *sqlx.Tx) error {
		return fn(NewQuoteRepository(tx))
	})
}
