package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, description, price, stock, created_at, updated_at`

type productRow struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Stock       int             `db:"stock"`
	CreatedAt   string          `db:"created_at"`
	UpdatedAt   string          `db:"updated_at"`
}

func (r productRow) toEntity() *entity.Product {
	return &entity.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
}

// ProductRepo implementación del puerto ProductRepository sobre SQLite (usable con db o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar db o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, money(p.Price), p.Stock, formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return domain.Persistence("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product", `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
}

// GetByName obtiene un producto por nombre exacto.
func (r *ProductRepo) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by name", `SELECT `+productColumns+` FROM products WHERE name = ? LIMIT 1`, name)
}

// GetForUpdate en SQLite equivale a GetByID: la transacción ya tiene la única conexión.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// LockForUpdate no hace nada en SQLite (transacciones serializadas por el pool de una conexión).
func (r *ProductRepo) LockForUpdate(_ context.Context, _ []string) error {
	return nil
}

// DecrementStock resta qty solo si hay stock suficiente.
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE products SET stock = stock - ?, updated_at = ? WHERE id = ? AND stock >= ?`,
		qty, formatTime(time.Now()), id, qty,
	)
	if err != nil {
		return false, domain.Persistence("decrement stock", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.Persistence("decrement stock", err)
	}
	return n == 1, nil
}

// IncrementStock suma qty al stock.
func (r *ProductRepo) IncrementStock(ctx context.Context, id string, qty int) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE products SET stock = stock + ?, updated_at = ? WHERE id = ?`,
		qty, formatTime(time.Now()), id,
	)
	if err != nil {
		return domain.Persistence("increment stock", err)
	}
	return expectOne(res, domain.ErrProductNotFound)
}

// Update actualiza nombre, descripción y precio (no el stock).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE products SET name = ?, description = ?, price = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Description, money(p.Price), formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return domain.Persistence("update product", err)
	}
	return expectOne(res, domain.ErrProductNotFound)
}

// Delete elimina un producto sin historial de ventas ni cotizaciones.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrProductInUse
		}
		return domain.Persistence("delete product", err)
	}
	return expectOne(res, domain.ErrProductNotFound)
}

// List lista productos por nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.Query != "" {
		where = append(where, `LOWER(name) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(f.Query))
	}
	if f.InStockOnly {
		where = append(where, `stock > 0`)
	}
	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name, id LIMIT ? OFFSET ?`
	args = append(args, pageLimit(f.Limit), f.Offset)

	var rows []productRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, domain.Persistence("list products", err)
	}
	list := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

func (r *ProductRepo) getOne(ctx context.Context, op, query string, args ...interface{}) (*entity.Product, error) {
	var row productRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Persistence(op, err)
	}
	return row.toEntity(), nil
}

// expectOne traduce "0 filas afectadas" en notFound.
func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Persistence("rows affected", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
