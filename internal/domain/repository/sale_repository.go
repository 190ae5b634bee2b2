package repository

import (
	"context"
	"time"

	"github.com/jhoicas/todolap-api/internal/domain/entity"
)

// SaleFilter rango opcional de fechas para el historial de ventas: From inclusivo, To exclusivo.
type SaleFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
// CreateLine recalcula el subtotal (cantidad × precio unitario) antes de escribir.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateLine(ctx context.Context, line *entity.SaleLine) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetLines(ctx context.Context, saleID string) ([]entity.SaleLine, error)
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
}
