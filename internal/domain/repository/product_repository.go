package repository

import (
	"context"

	"github.com/jhoicas/todolap-api/internal/domain/entity"
)

// ProductFilter criterios de búsqueda de productos.
type ProductFilter struct {
	Query       string // coincidencia parcial sobre el nombre, sin distinguir mayúsculas
	InStockOnly bool   // solo productos con stock > 0
	Limit       int
	Offset      int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos de lectura devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)

	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// LockForUpdate bloquea varias filas en orden ascendente de id.
	LockForUpdate(ctx context.Context, ids []string) error
	// DecrementStock resta qty solo si stock >= qty; false si no alcanzó.
	DecrementStock(ctx context.Context, id string, qty int) (bool, error)
	IncrementStock(ctx context.Context, id string, qty int) error
}
