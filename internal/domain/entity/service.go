package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service es un tipo de servicio del catálogo (ej. "Reparación de pantalla").
// TechnicianID es opcional y queda en nil si el técnico se elimina.
type Service struct {
	ID           string
	Name         string
	Description  string
	Cost         decimal.Decimal // precio base vigente
	TechnicianID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
