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
	"github.com/jhoicas/todolap-api/internal/domain/pricing"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

const quoteSelect = `
	SELECT q.id, q.service_id, s.name AS service_name, q.client_name, q.service_price, q.products_price,
	       q.total, q.status, q.created_at, q.paid_at
	FROM service_quotes q
	JOIN services s ON s.id = q.service_id`

type quoteRow struct {
	ID            string          `db:"id"`
	ServiceID     string          `db:"service_id"`
	ServiceName   string          `db:"service_name"`
	ClientName    string          `db:"client_name"`
	ServicePrice  decimal.Decimal `db:"service_price"`
	ProductsPrice decimal.Decimal `db:"products_price"`
	Total         decimal.Decimal `db:"total"`
	Status        string          `db:"status"`
	CreatedAt     string          `db:"created_at"`
	PaidAt        sql.NullString  `db:"paid_at"`
}

func (r quoteRow) toEntity() *entity.ServiceQuote {
	q := &entity.ServiceQuote{
		ID:            r.ID,
		ServiceID:     r.ServiceID,
		ServiceName:   r.ServiceName,
		ClientName:    r.ClientName,
		ServicePrice:  r.ServicePrice,
		ProductsPrice: r.ProductsPrice,
		Total:         r.Total,
		Status:        r.Status,
		CreatedAt:     parseTime(r.CreatedAt),
	}
	if r.PaidAt.Valid {
		t := parseTime(r.PaidAt.String)
		q.PaidAt = &t
	}
	return q
}

// QuoteRepo implementación del puerto QuoteRepository sobre SQLite.
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador. Pasar db o tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

// Create persiste la cabecera; el total se deriva de servicio + productos.
func (r *QuoteRepo) Create(ctx context.Context, q *entity.ServiceQuote) error {
	q.Total = q.ServicePrice.Add(q.ProductsPrice)
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO service_quotes (id, service_id, client_name, service_price, products_price, total, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.ServiceID, q.ClientName, money(q.ServicePrice), money(q.ProductsPrice), money(q.Total),
		q.Status, formatTime(q.CreatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrServiceNotFound
		}
		return domain.Persistence("insert quote", err)
	}
	return nil
}

// CreateLine recalcula el subtotal y persiste la línea.
func (r *QuoteRepo) CreateLine(ctx context.Context, l *entity.QuoteLine) error {
	l.Subtotal = pricing.Subtotal(l.UnitPrice, l.Quantity)
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO quote_lines (id, quote_id, position, product_id, product_name, quantity, unit_price, subtotal)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.QuoteID, l.Position, l.ProductID, l.ProductName, l.Quantity, money(l.UnitPrice), money(l.Subtotal),
	)
	if err != nil {
		return domain.Persistence("insert quote line", err)
	}
	return nil
}

// GetByID obtiene la cotización con el nombre del servicio.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.ServiceQuote, error) {
	var row quoteRow
	if err := sqlx.GetContext(ctx, r.q, &row, quoteSelect+` WHERE q.id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Persistence("get quote", err)
	}
	return row.toEntity(), nil
}

// GetLines devuelve las líneas en orden de selección.
func (r *QuoteRepo) GetLines(ctx context.Context, quoteID string) ([]entity.QuoteLine, error) {
	var rows []lineRow
	err := sqlx.SelectContext(ctx, r.q, &rows,
		`SELECT id, quote_id AS parent_id, position, product_id, product_name, quantity, unit_price, subtotal
		 FROM quote_lines WHERE quote_id = ? ORDER BY position`, quoteID)
	if err != nil {
		return nil, domain.Persistence("get quote lines", err)
	}
	lines := make([]entity.QuoteLine, 0, len(rows))
	for _, l := range rows {
		lines = append(lines, entity.QuoteLine{
			ID: l.ID, QuoteID: l.ParentID, Position: l.Position, ProductID: l.ProductID, ProductName: l.ProductName,
			Quantity: l.Quantity, UnitPrice: l.UnitPrice, Subtotal: l.Subtotal,
		})
	}
	return lines, nil
}

// List cotizaciones por estado; las pagadas se ordenan por fecha de pago.
func (r *QuoteRepo) List(ctx context.Context, f repository.QuoteFilter) ([]*entity.ServiceQuote, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.Status != "" {
		where = append(where, `q.status = ?`)
		args = append(args, f.Status)
	}
	if f.Query != "" {
		p := likePattern(f.Query)
		where = append(where, `(LOWER(q.client_name) LIKE ? ESCAPE '\' OR LOWER(s.name) LIKE ? ESCAPE '\')`)
		args = append(args, p, p)
	}
	query := quoteSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	if f.Status == entity.QuoteStatusPaid {
		query += ` ORDER BY q.paid_at DESC, q.id DESC`
	} else {
		query += ` ORDER BY q.created_at DESC, q.id DESC`
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, pageLimit(f.Limit), f.Offset)

	var rows []quoteRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, domain.Persistence("list quotes", err)
	}
	list := make([]*entity.ServiceQuote, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

// MarkPaid compare-and-set de quoted a paid.
func (r *QuoteRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE service_quotes SET status = 'paid', paid_at = ? WHERE id = ? AND status = 'quoted'`,
		formatTime(paidAt), id,
	)
	if err != nil {
		return false, domain.Persistence("mark quote paid", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.Persistence("mark quote paid", err)
	}
	return n == 1, nil
}
