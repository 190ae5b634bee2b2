package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/pricing"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleSelect = `
	SELECT s.id, s.operator_id, s.payment_method, s.total, s.created_at,
	       u.username AS op_username, u.first_name AS op_first_name, u.last_name AS op_last_name
	FROM sales s
	LEFT JOIN users u ON u.id = s.operator_id`

type saleRow struct {
	ID            string          `db:"id"`
	OperatorID    sql.NullString  `db:"operator_id"`
	PaymentMethod string          `db:"payment_method"`
	Total         decimal.Decimal `db:"total"`
	CreatedAt     string          `db:"created_at"`
	OpUsername    sql.NullString  `db:"op_username"`
	OpFirstName   sql.NullString  `db:"op_first_name"`
	OpLastName    sql.NullString  `db:"op_last_name"`
}

func (r saleRow) toEntity() *entity.Sale {
	s := &entity.Sale{
		ID:            r.ID,
		PaymentMethod: r.PaymentMethod,
		Total:         r.Total,
		CreatedAt:     parseTime(r.CreatedAt),
	}
	if r.OperatorID.Valid {
		id := r.OperatorID.String
		s.OperatorID = &id
		op := entity.User{Username: r.OpUsername.String, FirstName: r.OpFirstName.String, LastName: r.OpLastName.String}
		s.OperatorName = op.DisplayName()
	}
	return s
}

type lineRow struct {
	ID          string          `db:"id"`
	ParentID    string          `db:"parent_id"`
	Position    int             `db:"position"`
	ProductID   string          `db:"product_id"`
	ProductName string          `db:"product_name"`
	Quantity    int             `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Subtotal    decimal.Decimal `db:"subtotal"`
}

// SaleRepo implementación del puerto SaleRepository sobre SQLite.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar db o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO sales (id, operator_id, payment_method, total, created_at) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.OperatorID, s.PaymentMethod, money(s.Total), formatTime(s.CreatedAt),
	)
	if err != nil {
		return domain.Persistence("insert sale", err)
	}
	return nil
}

// CreateLine recalcula el subtotal y persiste la línea.
func (r *SaleRepo) CreateLine(ctx context.Context, l *entity.SaleLine) error {
	l.Subtotal = pricing.Subtotal(l.UnitPrice, l.Quantity)
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO sale_lines (id, sale_id, position, product_id, product_name, quantity, unit_price, subtotal)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.SaleID, l.Position, l.ProductID, l.ProductName, l.Quantity, money(l.UnitPrice), money(l.Subtotal),
	)
	if err != nil {
		return domain.Persistence("insert sale line", err)
	}
	return nil
}

// GetByID obtiene la cabecera de la venta con el nombre del operador.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var row saleRow
	if err := sqlx.GetContext(ctx, r.q, &row, saleSelect+` WHERE s.id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Persistence("get sale", err)
	}
	return row.toEntity(), nil
}

// GetLines devuelve las líneas en orden de carrito.
func (r *SaleRepo) GetLines(ctx context.Context, saleID string) ([]entity.SaleLine, error) {
	var rows []lineRow
	err := sqlx.SelectContext(ctx, r.q, &rows,
		`SELECT id, sale_id AS parent_id, position, product_id, product_name, quantity, unit_price, subtotal
		 FROM sale_lines WHERE sale_id = ? ORDER BY position`, saleID)
	if err != nil {
		return nil, domain.Persistence("get sale lines", err)
	}
	lines := make([]entity.SaleLine, 0, len(rows))
	for _, l := range rows {
		lines = append(lines, entity.SaleLine{
			ID: l.ID, SaleID: l.ParentID, Position: l.Position, ProductID: l.ProductID, ProductName: l.ProductName,
			Quantity: l.Quantity, UnitPrice: l.UnitPrice, Subtotal: l.Subtotal,
		})
	}
	return lines, nil
}

// List historial de ventas, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.From != nil {
		where = append(where, `s.created_at >= ?`)
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		where = append(where, `s.created_at < ?`)
		args = append(args, formatTime(*f.To))
	}
	query := saleSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY s.created_at DESC, s.id DESC LIMIT ? OFFSET ?`
	args = append(args, pageLimit(f.Limit), f.Offset)

	var rows []saleRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, domain.Persistence("list sales", err)
	}
	list := make([]*entity.Sale, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}
