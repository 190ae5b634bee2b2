package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/pricing"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleSelect = `
	SELECT s.id, s.operator_id, s.payment_method, s.total, s.created_at,
	       u.username, u.first_name, u.last_name
	FROM sales s
	LEFT JOIN users u ON u.id = s.operator_id`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var (
		s                     entity.Sale
		username, first, last *string
	)
	err := row.Scan(&s.ID, &s.OperatorID, &s.PaymentMethod, &s.Total, &s.CreatedAt, &username, &first, &last)
	if err != nil {
		return nil, err
	}
	if s.OperatorID != nil {
		op := entity.User{Username: deref(username), FirstName: deref(first), LastName: deref(last)}
		s.OperatorName = op.DisplayName()
	}
	return &s, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sales (id, operator_id, payment_method, total, created_at) VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.OperatorID, s.PaymentMethod, s.Total, s.CreatedAt,
	)
	if err != nil {
		return domain.Persistence("insert sale", err)
	}
	return nil
}

// CreateLine recalcula el subtotal y persiste la línea.
func (r *SaleRepo) CreateLine(ctx context.Context, l *entity.SaleLine) error {
	l.Subtotal = pricing.Subtotal(l.UnitPrice, l.Quantity)
	_, err := r.q.Exec(ctx,
		`INSERT INTO sale_lines (id, sale_id, position, product_id, product_name, quantity, unit_price, subtotal)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		l.ID, l.SaleID, l.Position, l.ProductID, l.ProductName, l.Quantity, l.UnitPrice, l.Subtotal,
	)
	if err != nil {
		return domain.Persistence("insert sale line", err)
	}
	return nil
}

// GetByID obtiene la cabecera de la venta con el nombre del operador.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, saleSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, domain.Persistence("get sale", err)
	}
	return s, nil
}

// GetLines devuelve las líneas en orden de carrito.
func (r *SaleRepo) GetLines(ctx context.Context, saleID string) ([]entity.SaleLine, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, sale_id, position, product_id, product_name, quantity, unit_price, subtotal
		 FROM sale_lines WHERE sale_id = $1 ORDER BY position`, saleID)
	if err != nil {
		return nil, domain.Persistence("get sale lines", err)
	}
	defer rows.Close()
	var lines []entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.Position, &l.ProductID, &l.ProductName,
			&l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, domain.Persistence("scan sale line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("get sale lines", err)
	}
	return lines, nil
}

// List historial de ventas, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var (
		a     args
		where []string
	)
	if f.From != nil {
		where = append(where, `s.created_at >= `+a.add(*f.From))
	}
	if f.To != nil {
		where = append(where, `s.created_at < `+a.add(*f.To))
	}
	query := saleSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY s.created_at DESC, s.id DESC LIMIT ` + a.add(pageLimit(f.Limit)) + ` OFFSET ` + a.add(f.Offset)

	rows, err := r.q.Query(ctx, query, a...)
	if err != nil {
		return nil, domain.Persistence("list sales", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, domain.Persistence("scan sale", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("list sales", err)
	}
	return list, nil
}
