package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, username, email, first_name, last_name, password_hash, role, active, created_at, updated_at`

type userRow struct {
	ID           string `db:"id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	FirstName    string `db:"first_name"`
	LastName     string `db:"last_name"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	Active       bool   `db:"active"`
	CreatedAt    string `db:"created_at"`
	UpdatedAt    string `db:"updated_at"`
}

func (r userRow) toEntity() *entity.User {
	return &entity.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		Active:       r.Active,
		CreatedAt:    parseTime(r.CreatedAt),
		UpdatedAt:    parseTime(r.UpdatedAt),
	}
}

// UserRepo implementación del puerto UserRepository sobre SQLite.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.Role, u.Active,
		formatTime(u.CreatedAt), formatTime(u.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsernameExists
		}
		return domain.Persistence("insert user", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, "get user", `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByUsername obtiene un usuario por nombre de usuario.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, "get user by username", `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

// Update actualiza datos, rol, estado y hash del usuario.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET email = ?, first_name = ?, last_name = ?, password_hash = ?, role = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		u.Email, u.FirstName, u.LastName, u.PasswordHash, u.Role, u.Active, formatTime(u.UpdatedAt), u.ID,
	)
	if err != nil {
		return domain.Persistence("update user", err)
	}
	return expectOne(res, domain.ErrUserNotFound)
}

// Delete elimina un usuario (ventas y servicios quedan con la referencia en NULL).
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return domain.Persistence("delete user", err)
	}
	return expectOne(res, domain.ErrUserNotFound)
}

// List lista usuarios por nombre de usuario.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	var rows []userRow
	err := sqlx.SelectContext(ctx, r.q, &rows,
		`SELECT `+userColumns+` FROM users ORDER BY username LIMIT ? OFFSET ?`, pageLimit(limit), offset)
	if err != nil {
		return nil, domain.Persistence("list users", err)
	}
	list := make([]*entity.User, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

func (r *UserRepo) getOne(ctx context.Context, op, query string, args ...interface{}) (*entity.User, error) {
	var row userRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Persistence(op, err)
	}
	return row.toEntity(), nil
}
