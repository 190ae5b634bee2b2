package quoting

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

// CreateQuoteUseCase cotiza un servicio con los precios vigentes del servicio y de los productos
// seleccionados. No reserva ni descuenta inventario.
type CreateQuoteUseCase struct {
	txRunner QuoteTxRunner
	now      func() time.Time
}

// NewCreateQuoteUseCase construye el caso de uso.
func NewCreateQuoteUseCase(txRunner QuoteTxRunner) *CreateQuoteUseCase {
	return &CreateQuoteUseCase{txRunner: txRunner, now: time.Now}
}

// CreateQuote valida en orden: servicio, nombre del cliente y luego cada selección.
func (uc *CreateQuoteUseCase) CreateQuote(ctx context.Context, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	var quote *entity.ServiceQuote
	err := uc.txRunner.RunQuote(ctx, func(
		serviceRepo repository.ServiceRepository,
		productRepo repository.ProductRepository,
		quoteRepo repository.QuoteRepository,
	) error {
		// 1) Servicio
		service, err := serviceRepo.GetByID(ctx, in.ServiceID)
		if err != nil {
			return err
		}
		if service == nil {
			return domain.ErrServiceNotFound
		}

		// 2) Cliente
		client := strings.TrimSpace(in.ClientName)
		if client == "" {
			return domain.ErrMissingClientName
		}

		// 3) Productos a precio vigente
		q := &entity.ServiceQuote{
			ID:           uuid.New().String(),
			ServiceID:    service.ID,
			ServiceName:  service.Name,
			ClientName:   client,
			ServicePrice: service.Cost,
			Status:       entity.QuoteStatusQuoted,
			CreatedAt:    uc.now().UTC(),
		}
		priced := make([]pricing.Line, 0, len(in.Items))
		for i, item := range in.Items {
			if item.Quantity <= 0 {
				return domain.ErrInvalidQuantity
			}
			product, err := productRepo.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrProductNotFound
			}
			priced = append(priced, pricing.Line{UnitPrice: product.Price, Quantity: item.Quantity})
			q.Lines = append(q.Lines, entity.QuoteLine{
				ID:          uuid.New().String(),
				QuoteID:     q.ID,
				Position:    i + 1,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				UnitPrice:   product.Price,
			})
		}
		res, err := pricing.Calculate(priced)
		if err != nil {
			return err
		}
		for i := range q.Lines {
			q.Lines[i].Subtotal = res.Subtotals[i]
		}
		if err := pricing.ValidateAmount(q.ServicePrice); err != nil {
			return err
		}
		q.ProductsPrice = res.Total
		if q.Total, err = pricing.Sum(q.ServicePrice, q.ProductsPrice); err != nil {
			return err
		}

		// 4) Persistir cabecera y líneas
		if err := quoteRepo.Create(ctx, q); err != nil {
			return err
		}
		for i := range q.Lines {
			if err := quoteRepo.CreateLine(ctx, &q.Lines[i]); err != nil {
				return err
			}
		}
		quote = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewQuoteResponse(quote)
	return &out, nil
}
