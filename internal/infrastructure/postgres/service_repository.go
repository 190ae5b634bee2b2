package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

const serviceColumns = `id, name, description, cost, technician_id, created_at, updated_at`

// ServiceRepo implementación del puerto ServiceRepository sobre PostgreSQL.
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

func scanService(row pgx.Row) (*entity.Service, error) {
	var s entity.Service
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Cost, &s.TechnicianID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste un servicio del catálogo.
func (r *ServiceRepo) Create(ctx context.Context, s *entity.Service) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO services (`+serviceColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.Description, s.Cost, s.TechnicianID, s.CreatedAt, s.UpdatedAt,
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
	s, err := scanService(r.q.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, domain.Persistence("get service", err)
	}
	return s, nil
}

// Update actualiza un servicio.
func (r *ServiceRepo) Update(ctx context.Context, s *entity.Service) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE services SET name = $2, description = $3, cost = $4, technician_id = $5, updated_at = $6 WHERE id = $1`,
		s.ID, s.Name, s.Description, s.Cost, s.TechnicianID, s.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return domain.Persistence("update service", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}

// Delete elimina un servicio sin cotizaciones.
func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrServiceInUse
		}
		return domain.Persistence("delete service", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}

// List lista servicios por nombre con paginación.
func (r *ServiceRepo) List(ctx context.Context, limit, offset int) ([]*entity.Service, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+serviceColumns+` FROM services ORDER BY name, id LIMIT $1 OFFSET $2`, pageLimit(limit), offset)
	if err != nil {
		return nil, domain.Persistence("list services", err)
	}
	defer rows.Close()
	var list []*entity.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, domain.Persistence("scan service", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence("list services", err)
	}
	return list, nil
}
