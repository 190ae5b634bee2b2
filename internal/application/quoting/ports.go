package quoting

import (
	"context"

	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

// QuoteTxRunner ejecuta una función dentro de una transacción con los repos que usa una cotización.
type QuoteTxRunner interface {
	RunQuote(ctx context.Context, fn func(
		serviceRepo repository.ServiceRepository,
		productRepo repository.ProductRepository,
		quoteRepo repository.QuoteRepository,
	) error) error
}

// QuotePDFGenerator genera la copia para el cliente de una cotización (con líneas cargadas).
type QuotePDFGenerator interface {
	GenerateQuotePDF(ctx context.Context, quote *entity.ServiceQuote) ([]byte, error)
}
