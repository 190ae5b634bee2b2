package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleTecnico = "tecnico"
)

// User representa un usuario del sistema (administrador o técnico).
type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string // bcrypt, nunca en texto plano
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName nombre para mostrar en recibos y listados.
func (u *User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
