package repository

import (
	"context"

	"github.com/jhoicas/todolap-api/internal/domain/entity"
)

// ServiceRepository define el puerto de persistencia para el catálogo de servicios.
type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	GetByID(ctx context.Context, id string) (*entity.Service, error)
	Update(ctx context.Context, service *entity.Service) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Service, error)
}
