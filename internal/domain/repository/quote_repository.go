package repository

import (
	"context"
	"time"

	"github.com/jhoicas/todolap-api/internal/domain/entity"
)

// QuoteFilter filtro del listado de cotizaciones. Query busca en cliente o nombre del servicio.
type QuoteFilter struct {
	Status string
	Query  string
	Limit  int
	Offset int
}

// QuoteRepository define el puerto de persistencia para cotizaciones de servicio.
type QuoteRepository interface {
	Create(ctx context.Context, quote *entity.ServiceQuote) error
	CreateLine(ctx context.Context, line *entity.QuoteLine) error
	GetByID(ctx context.Context, id string) (*entity.ServiceQuote, error)
	GetLines(ctx context.Context, quoteID string) ([]entity.QuoteLine, error)
	List(ctx context.Context, filter QuoteFilter) ([]*entity.ServiceQuote, error)
	// MarkPaid pasa la cotización de quoted a paid. false si no existía o ya estaba pagada.
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error)
}
