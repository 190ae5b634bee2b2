package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/pricing"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

const quoteSelect = `
	SELECT q.id, q.service_id, s.name, q.client_name, q.service_price, q.products_price,
	       q.total, q.status, q.created_at, q.paid_at
	FROM service_quotes q
	JOIN services s ON s.id = q.service_id`

// QuoteRepo implementación del puerto QuoteRepository sobre PostgreSQL.
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

func scanQuote(row pgx.Row) (*entity.ServiceQuote, error) {
	var q entity.ServiceQuote
	err := row.Scan(&q.ID, &q.ServiceID, &q.ServiceName, &q.ClientName, &q.ServicePrice, &q.ProductsPrice,
		&q.Total, &q.Status, &q.CreatedAt, &q.PaidAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Create persiste la cabecera; el total se deriva de servicio + productos.
func (r *QuoteRepo) Create(ctx context.Context, q *entity.ServiceQuote) error {
	q.Total = q.ServicePrice.Add(q.ProductsPrice)
	_, err := r.q.Exec(ctx,
		`INSERT INTO service_quotes (id, service_id, client_name, service_price, products_price, total, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		q.ID, q.ServiceID, q.ClientName, q.ServicePrice, q.ProductsPrice, q.Total, q.Status, q.CreatedAt,
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
	_, err := r.q.Exec(ctx,
		`INSERT INTO quote_lines (id, quote_id, position, product_id, product_name, quantity, unit_price, subtotal)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		l.ID, l.QuoteID, l.Position, l.ProductID, l.ProductName, l.Quantity, l.UnitPrice, l.Subtotal,
	)
	if err != nil {
		return domain.Persistence("insert quote line", err)
	}
	return nil
}

// GetByID obtiene la cotización con el nombre del servicio.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.ServiceQuote, error) {
	q, err := scanQuote(r.q.QueryRow(ctx, quoteSelect+` WHERE q.id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, domain.Persistence("get quote", err)
	}
	return q, nil
}

// GetLines devuelve las líneas en orden de selección.
func (r *QuoteRepo) GetLines(ctx context.Context, quoteID string) ([]entity.QuoteLine, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, quote_id, position, product_id, product_name, quantity, unit_price, subtotal
		 FROM quote_lines WHERE quote_id = $1 ORDER BY position`, quoteID)
	if err != nil {
		return nil, domain.Persistence("get quote lines", err)
	}
	defer rows.Close()
	var lines []entity.QuoteLine
	for rows.Next() {
		var l entity.QuoteLine
		if err := rows.Scan(&l.ID, &l.QuoteID, &l.Position, &l.ProductID, &l.ProductName,
			&l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, domain.Persistence("scan quote line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("get quote lines", err)
	}
	return lines, nil
}

// List cotizaciones por estado; las pagadas se ordenan por fecha de pago.
func (r *QuoteRepo) List(ctx context.Context, f repository.QuoteFilter) ([]*entity.ServiceQuote, error) {
	var (
		a     args
		where []string
	)
	if f.Status != "" {
		where = append(where, `q.status = `+a.add(f.Status))
	}
	if f.Query != "" {
		p := a.add(likePattern(f.Query))
		where = append(where, `(q.client_name ILIKE `+p+` OR s.name ILIKE `+p+`)`)
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
	query += ` LIMIT ` + a.add(pageLimit(f.Limit)) + ` OFFSET ` + a.add(f.Offset)

	rows, err := r.q.Query(ctx, query, a...)
	if err != nil {
		return nil, domain.Persistence("list quotes", err)
	}
	defer rows.Close()
	var list []*entity.ServiceQuote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, domain.Persistence("scan quote", err)
		}
		list = append(list, q)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("list quotes", err)
	}
	return list, nil
}

// MarkPaid compare-and-set de quoted a paid.
func (r *QuoteRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE service_quotes SET status = 'paid', paid_at = $2 WHERE id = $1 AND status = 'quoted'`, id, paidAt)
	if err != nil {
		if isInvalidText(err) {
			// la transacción quedó abortada: no se puede seguir consultando en ella
			return false, domain.ErrQuoteNotFound
		}
		return false, domain.Persistence("mark quote paid", err)
	}
	return cmd.RowsAffected() == 1, nil
}
