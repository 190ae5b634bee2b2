package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/todolap-api/internal/application/inventory"
	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
	"github.com/jhoicas/todolap-api/internal/infrastructure/sqlite"
)

type fakeNotifier struct {
	mu     sync.Mutex
	levels []inventory.StockLevel
}

func (n *fakeNotifier) NotifyStock(_ context.Context, levels []inventory.StockLevel) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.levels = append(n.levels, levels...)
}

func setup(t *testing.T) (*inventory.Ledger, *sqlite.ProductRepo, *sqlite.TxRunner, *fakeNotifier) {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	products := sqlite.NewProductRepository(db)
	runner := sqlite.NewTxRunner(db)
	notifier := &fakeNotifier{}
	return inventory.NewLedger(runner, products, notifier), products, runner, notifier
}

func newProduct(t *testing.T, repo *sqlite.ProductRepo, stock int) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID: uuid.New().String(), Name: "Cargador USB-C", Price: decimal.NewFromInt(45000), Stock: stock,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestLedger_Restock(t *testing.T) {
	ledger, products, _, notifier := setup(t)
	ctx := context.Background()
	p := newProduct(t, products, 2)

	updated, err := ledger.Restock(ctx, p.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Stock)

	available, err := ledger.Available(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, available)

	require.Len(t, notifier.levels, 1)
	assert.Equal(t, inventory.StockLevel{ProductID: p.ID, ProductName: p.Name, Stock: 10}, notifier.levels[0])
}

func TestLedger_RestockErrores(t *testing.T) {
	ledger, products, _, notifier := setup(t)
	ctx := context.Background()
	p := newProduct(t, products, 2)

	_, err := ledger.Restock(ctx, p.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = ledger.Restock(ctx, uuid.New().String(), 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = ledger.Available(ctx, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	assert.Empty(t, notifier.levels)
}

func TestLedger_ReserveAndApply(t *testing.T) {
	ledger, products, runner, _ := setup(t)
	ctx := context.Background()
	p := newProduct(t, products, 3)

	err := runner.RunStock(ctx, func(repo repository.ProductRepository) error {
		got, err := ledger.ReserveAndApply(ctx, repo, p.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Stock)
		assert.True(t, got.Price.Equal(decimal.NewFromInt(45000)))

		_, err = ledger.ReserveAndApply(ctx, repo, p.ID, 2)
		var stockErr *domain.InsufficientStockError
		require.True(t, errors.As(err, &stockErr))
		assert.Equal(t, 1, stockErr.Available)
		assert.Equal(t, "Stock insuficiente para Cargador USB-C. Disponible: 1", stockErr.Error())

		_, err = ledger.ReserveAndApply(ctx, repo, p.ID, -1)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		return nil
	})
	require.NoError(t, err)

	available, err := ledger.Available(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, available)
}

func TestLedger_RollbackDelCallerDeshaceElDescuento(t *testing.T) {
	ledger, products, runner, _ := setup(t)
	ctx := context.Background()
	p := newProduct(t, products, 3)

	boom := errors.New("fallo posterior")
	err := runner.RunStock(ctx, func(repo repository.ProductRepository) error {
		if _, err := ledger.ReserveAndApply(ctx, repo, p.ID, 3); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	available, err := ledger.Available(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, available)
}

func TestLedger_NotifySinNotificador(t *testing.T) {
	ledger := inventory.NewLedger(nil, nil, nil)
	assert.NotPanics(t, func() {
		ledger.Notify(context.Background(), []inventory.StockLevel{{ProductID: "x", Stock: 1}})
	})
}
