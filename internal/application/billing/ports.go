package billing

import (
	"context"

	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

// SettlementTxRunner ejecuta una función dentro de una transacción con el repo de cotizaciones.
type SettlementTxRunner interface {
	RunSettlement(ctx context.Context, fn func(quoteRepo repository.QuoteRepository) error) error
}
