package sales

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/todolap-api/internal/application/dto"
	"github.com/jhoicas/todolap-api/internal/application/inventory"
	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/pricing"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

// CheckoutUseCase convierte un carrito en una venta confirmada y descuenta el inventario
// en una sola transacción: o se aplican todas las líneas o ninguna.
type CheckoutUseCase struct {
	txRunner SaleTxRunner
	ledger   *inventory.Ledger
	now      func() time.Time
}

// NewCheckoutUseCase construye el caso de uso.
func NewCheckoutUseCase(txRunner SaleTxRunner, ledger *inventory.Ledger) *CheckoutUseCase {
	return &CheckoutUseCase{txRunner: txRunner, ledger: ledger, now: time.Now}
}

// Checkout registra la venta del carrito. operatorID es el usuario autenticado (nil si no hay).
// Ante stock insuficiente devuelve *domain.InsufficientStockError de la primera línea que falló.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, operatorID *string, in dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	// 1) Validación previa, sin tocar la BD
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	for _, item := range in.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return nil, domain.ErrProductNotFound
		}
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
	}
	method := in.PaymentMethod
	if method == "" {
		method = entity.PaymentCash
	}
	if !entity.ValidPaymentMethod(method) {
		return nil, domain.ErrInvalidPayment
	}

	sale := &entity.Sale{
		ID:            uuid.New().String(),
		OperatorID:    operatorID,
		PaymentMethod: method,
		CreatedAt:     uc.now().UTC(),
	}
	levels := make(map[string]inventory.StockLevel, len(in.Items))

	// 2) Transacción: bloqueo ordenado, descuento por línea, tasación y persistencia
	err := uc.txRunner.RunSale(ctx, func(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) error {
		if err := productRepo.LockForUpdate(ctx, lockOrder(in.Items)); err != nil {
			return err
		}

		priced := make([]pricing.Line, 0, len(in.Items))
		lines := make([]entity.SaleLine, 0, len(in.Items))
		for i, item := range in.Items {
			product, err := uc.ledger.ReserveAndApply(ctx, productRepo, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			priced = append(priced, pricing.Line{UnitPrice: product.Price, Quantity: item.Quantity})
			lines = append(lines, entity.SaleLine{
				ID:          uuid.New().String(),
				SaleID:      sale.ID,
				Position:    i + 1,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				UnitPrice:   product.Price,
			})
			levels[product.ID] = inventory.StockLevel{ProductID: product.ID, ProductName: product.Name, Stock: product.Stock}
		}

		res, err := pricing.Calculate(priced)
		if err != nil {
			return err
		}
		for i := range lines {
			lines[i].Subtotal = res.Subtotals[i]
		}
		sale.Total = res.Total

		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		for i := range lines {
			if err := saleRepo.CreateLine(ctx, &lines[i]); err != nil {
				return err
			}
		}
		sale.Lines = lines
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3) Ya confirmada: avisar a los terminales
	uc.ledger.Notify(ctx, orderedLevels(in.Items, levels))

	return &dto.CheckoutResponse{
		Message: SaleMessage(sale),
		Sale:    dto.NewSaleResponse(sale),
	}, nil
}

// SaleMessage mensaje de confirmación para caja.
func SaleMessage(sale *entity.Sale) string {
	return fmt.Sprintf("Venta #%s realizada con éxito. Total: $%s", sale.ID, pricing.Format(sale.Total))
}

// lockOrder ids únicos en orden ascendente: dos carritos con los mismos productos
// siempre bloquean en el mismo orden.
func lockOrder(items []dto.CartItemRequest) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	sort.Strings(ids)
	return ids
}

func orderedLevels(items []dto.CartItemRequest, levels map[string]inventory.StockLevel) []inventory.StockLevel {
	out := make([]inventory.StockLevel, 0, len(levels))
	for _, id := range lockOrder(items) {
		if lv, ok := levels[id]; ok {
			out = append(out, lv)
		}
	}
	return out
}
