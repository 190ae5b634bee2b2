package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/todolap-api/internal/application/dto"
	"github.com/jhoicas/todolap-api/internal/application/quoting"
	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/pricing"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

// SettlementUseCase cobra cotizaciones de servicio. El cobro no mueve inventario.
type SettlementUseCase struct {
	txRunner SettlementTxRunner
	now      func() time.Time
}

// NewSettlementUseCase construye el caso de uso.
func NewSettlementUseCase(txRunner SettlementTxRunner) *SettlementUseCase {
	return &SettlementUseCase{txRunner: txRunner, now: time.Now}
}

// Pay marca la cotización como pagada con la hora actual.
//
// Retorna:
//   - domain.ErrQuoteNotFound si la cotización no existe.
//   - domain.ErrAlreadyPaid   si ya estaba pagada (paid_at no se modifica).
func (uc *SettlementUseCase) Pay(ctx context.Context, quoteID string) (*dto.PaymentResponse, error) {
	if _, err := uuid.Parse(quoteID); err != nil {
		return nil, domain.ErrQuoteNotFound
	}
	var settled *entity.ServiceQuote
	err := uc.txRunner.RunSettlement(ctx, func(quoteRepo repository.QuoteRepository) error {
		// UPDATE ... WHERE status = 'quoted': de dos cobros simultáneos solo uno afecta la fila
		ok, err := quoteRepo.MarkPaid(ctx, quoteID, uc.now().UTC())
		if err != nil {
			return err
		}
		if !ok {
			current, err := quoteRepo.GetByID(ctx, quoteID)
			if err != nil {
				return err
			}
			if current == nil {
				return domain.ErrQuoteNotFound
			}
			return domain.ErrAlreadyPaid
		}
		settled, err = quoting.Load(ctx, quoteRepo, quoteID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.PaymentResponse{
		Message: PaymentMessage(settled),
		Quote:   dto.NewQuoteResponse(settled),
	}, nil
}

// PaymentMessage mensaje de confirmación del cobro.
func PaymentMessage(q *entity.ServiceQuote) string {
	return fmt.Sprintf("Servicio \"%s\" pagado exitosamente. Total: $%s", q.ServiceName, pricing.Format(q.Total))
}
