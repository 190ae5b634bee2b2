package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateServiceRequest entrada para crear un servicio del catálogo.
type CreateServiceRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description" validate:"max=2000"`
	Cost         decimal.Decimal `json:"cost"`
	TechnicianID *string         `json:"technician_id" validate:"omitempty,uuid"`
}

// UpdateServiceRequest entrada para actualizar un servicio.
type UpdateServiceRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description" validate:"omitempty,max=2000"`
	Cost         *decimal.Decimal `json:"cost"`
	TechnicianID *string          `json:"technician_id" validate:"omitempty,uuid"`
}

// ServiceResponse salida de un servicio.
type ServiceResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Cost         decimal.Decimal `json:"cost"`
	TechnicianID *string         `json:"technician_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ServiceListResponse lista paginada de servicios.
type ServiceListResponse struct {
	Items []ServiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
