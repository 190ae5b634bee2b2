package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

const serviceColumns = `id, name, description, cost, technician_id, created_at, updated_at`

type serviceRow struct {
	ID           string          `db:"id"`
	Name         string          `db:"name"`
	Description  string          `db:"description"`
	Cost         decimal.Decimal `db:"cost"`
	TechnicianID sql.NullString  `db:"technician_id"`
	CreatedAt    string          `db:"created_at"`
	UpdatedAt    string          `db:"updated_at"`
}

func (r serviceRow) toEntity() *entity.Service {
	s := &entity.Service{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Cost:        r.Cost,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
	if r.TechnicianID.Valid {
		id := r.TechnicianID.String
		s.TechnicianID = &id
	}
	return s
}

// ServiceRepo implementación del puerto ServiceRepository sobre SQLite.
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construye el adaptador. Pasar db o tx (Querier).
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

// Create persiste un servicio del catálogo.
func (r *ServiceRepo) Create(ctx context.Context, s *entity.Service) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO services (`+serviceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Description, money(s.Cost), s.TechnicianID, formatTime(s.CreatedAt), formatTime(s.UpdatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return domain.Persistence("insert service", err)
	}
	return nil
}

// GetByID obtiene un servicio por ID.
func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	var row serviceRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+serviceColumns+` FROM services WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Persistence("get service", err)
	}
	return row.toEntity(), nil
}

// Update actualiza un servicio.
func (r *ServiceRepo) Update(ctx context.Context, s *entity.Service) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE services SET name = ?, description = ?, cost = ?, technician_id = ?, updated_at = ? WHERE id = ?`,
		s.Name, s.Description, money(s.Cost), s.TechnicianID, formatTime(s.UpdatedAt), s.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return domain.Persistence("update service", err)
	}
	return expectOne(res, domain.ErrServiceNotFound)
}

// Delete elimina un servicio sin cotizaciones.
func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrServiceInUse
		}
		return domain.Persistence("delete service", err)
	}
	return expectOne(res, domain.ErrServiceNotFound)
}

// List lista servicios por nombre.
func (r *ServiceRepo) List(ctx context.Context, limit, offset int) ([]*entity.Service, error) {
	var rows []serviceRow
	err := sqlx.SelectContext(ctx, r.q, &rows,
		`SELECT `+serviceColumns+` FROM services ORDER BY name, id LIMIT ? OFFSET ?`, pageLimit(limit), offset)
	if err != nil {
		return nil, domain.Persistence("list services", err)
	}
	list := make([]*entity.Service, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}
