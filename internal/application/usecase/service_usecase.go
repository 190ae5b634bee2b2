package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/todolap-api/internal/application/dto"
	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/pricing"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

// ServiceUseCase casos de uso CRUD del catálogo de servicios.
type ServiceUseCase struct {
	repo     repository.ServiceRepository
	userRepo repository.UserRepository
}

// NewServiceUseCase construye el caso de uso. userRepo valida el técnico asignado.
func NewServiceUseCase(repo repository.ServiceRepository, userRepo repository.UserRepository) *ServiceUseCase {
	return &ServiceUseCase{repo: repo, userRepo: userRepo}
}

// Create crea un servicio del catálogo.
func (uc *ServiceUseCase) Create(ctx context.Context, in dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := pricing.ValidateAmount(in.Cost); err != nil {
		return nil, err
	}
	techID, err := uc.technician(ctx, in.TechnicianID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	service := &entity.Service{
		ID:           uuid.New().String(),
		Name:         name,
		Description:  in.Description,
		Cost:         in.Cost,
		TechnicianID: techID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, service); err != nil {
		return nil, err
	}
	out := dto.NewServiceResponse(service)
	return &out, nil
}

// GetByID obtiene un servicio por ID.
func (uc *ServiceUseCase) GetByID(ctx context.Context, id string) (*dto.ServiceResponse, error) {
	service, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewServiceResponse(service)
	return &out, nil
}

// Update actualiza un servicio. Las cotizaciones existentes conservan el precio congelado.
func (uc *ServiceUseCase) Update(ctx context.Context, id string, in dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	service, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		service.Name = name
	}
	if in.Description != nil {
		service.Description = *in.Description
	}
	if in.Cost != nil {
		if err := pricing.ValidateAmount(*in.Cost); err != nil {
			return nil, err
		}
		service.Cost = *in.Cost
	}
	if in.TechnicianID != nil {
		if service.TechnicianID, err = uc.technician(ctx, in.TechnicianID); err != nil {
			return nil, err
		}
	}
	service.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, service); err != nil {
		return nil, err
	}
	out := dto.NewServiceResponse(service)
	return &out, nil
}

// List lista servicios con paginación.
func (uc *ServiceUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ServiceListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ServiceResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.NewServiceResponse(s))
	}
	return &dto.ServiceListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Delete elimina un servicio. Falla con ErrServiceInUse si tiene cotizaciones.
func (uc *ServiceUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ServiceUseCase) get(ctx context.Context, id string) (*entity.Service, error) {
	service, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, domain.ErrServiceNotFound
	}
	return service, nil
}

// technician valida el técnico asignado; cadena vacía lo desasigna.
func (uc *ServiceUseCase) technician(ctx context.Context, id *string) (*string, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	user, err := uc.userRepo.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	techID := user.ID
	return &techID, nil
}
