package inventory

import (
	"context"

	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

// Ledger es el único punto que modifica el stock de los productos.
// Las salidas (ventas) usan ReserveAndApply con el repositorio transaccional del caller;
// las entradas (reposición) abren su propia transacción.
type Ledger struct {
	txRunner    StockTxRunner
	productRepo repository.ProductRepository
	notifier    StockNotifier
}

// NewLedger construye el libro de inventario. notifier puede ser nil.
func NewLedger(txRunner StockTxRunner, productRepo repository.ProductRepository, notifier StockNotifier) *Ledger {
	return &Ledger{txRunner: txRunner, productRepo: productRepo, notifier: notifier}
}

// ReserveAndApply bloquea el producto, verifica que haya stock suficiente y lo descuenta.
// productRepo debe estar atado a la transacción del caller: si algo falla después, el
// rollback del caller deshace el descuento. Devuelve el producto bloqueado con el stock ya
// descontado (fuente del precio y nombre a congelar).
func (l *Ledger) ReserveAndApply(ctx context.Context, productRepo repository.ProductRepository, productID string, qty int) (*entity.Product, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := productRepo.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if product.Stock < qty {
		return nil, insufficient(product, qty)
	}
	// UPDATE condicionado a stock >= qty: segunda barrera si el motor no soporta FOR UPDATE
	ok, err := productRepo.DecrementStock(ctx, productID, qty)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, insufficient(product, qty)
	}
	product.Stock -= qty
	return product, nil
}

// Available devuelve el stock actual (lectura sin bloqueo, para mostrar o prevalidar).
func (l *Ledger) Available(ctx context.Context, productID string) (int, error) {
	product, err := l.productRepo.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, domain.ErrProductNotFound
	}
	return product.Stock, nil
}

// Restock suma qty unidades al producto en su propia transacción y notifica el nuevo nivel.
func (l *Ledger) Restock(ctx context.Context, productID string, qty int) (*entity.Product, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	var updated *entity.Product
	err := l.txRunner.RunStock(ctx, func(productRepo repository.ProductRepository) error {
		product, err := productRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		if err := productRepo.IncrementStock(ctx, productID, qty); err != nil {
			return err
		}
		product.Stock += qty
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.Notify(ctx, []StockLevel{{ProductID: updated.ID, ProductName: updated.Name, Stock: updated.Stock}})
	return updated, nil
}

// Notify publica niveles confirmados si hay un notificador configurado.
func (l *Ledger) Notify(ctx context.Context, levels []StockLevel) {
	if l.notifier == nil || len(levels) == 0 {
		return
	}
	l.notifier.NotifyStock(ctx, levels)
}

func insufficient(p *entity.Product, requested int) error {
	return &domain.InsufficientStockError{
		ProductID:   p.ID,
		ProductName: p.Name,
		Available:   p.Stock,
		Requested:   requested,
	}
}
