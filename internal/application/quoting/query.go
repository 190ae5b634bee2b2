package quoting

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/todolap-api/internal/application/dto"
	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

// QueryUseCase listado por pestaña, detalle y PDF de cotizaciones.
type QueryUseCase struct {
	quoteRepo repository.QuoteRepository
	pdf       QuotePDFGenerator
}

// NewQueryUseCase construye el caso de uso. pdf puede ser nil.
func NewQueryUseCase(quoteRepo repository.QuoteRepository, pdf QuotePDFGenerator) *QueryUseCase {
	return &QueryUseCase{quoteRepo: quoteRepo, pdf: pdf}
}

// List cotizaciones pendientes (más nuevas primero) o pagadas (pagadas más recientes primero).
// Sin status se listan las pendientes.
func (uc *QueryUseCase) List(ctx context.Context, in dto.QuoteListRequest) (*dto.QuoteListResponse, error) {
	in.PageRequest.DefaultPage()
	status := in.Status
	switch status {
	case "":
		status = entity.QuoteStatusQuoted
	case entity.QuoteStatusQuoted, entity.QuoteStatusPaid:
	default:
		return nil, fmt.Errorf("%w: estado de cotización desconocido", domain.ErrInvalidInput)
	}
	list, err := uc.quoteRepo.List(ctx, repository.QuoteFilter{
		Status: status,
		Query:  strings.TrimSpace(in.Query),
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.QuoteResponse, 0, len(list))
	for _, q := range list {
		items = append(items, dto.NewQuoteResponse(q))
	}
	return &dto.QuoteListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}

// Get detalle de la cotización con sus líneas.
func (uc *QueryUseCase) Get(ctx context.Context, id string) (*dto.QuoteResponse, error) {
	q, err := Load(ctx, uc.quoteRepo, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewQuoteResponse(q)
	return &out, nil
}

// PDF genera la copia para el cliente.
func (uc *QueryUseCase) PDF(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("pdf: generador no configurado")
	}
	q, err := Load(ctx, uc.quoteRepo, id)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.pdf.GenerateQuotePDF(ctx, q)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	short := q.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return pdfBytes, fmt.Sprintf("cotizacion_%s.pdf", short), nil
}

// Load lee la cotización con sus líneas o devuelve ErrQuoteNotFound.
func Load(ctx context.Context, quoteRepo repository.QuoteRepository, id string) (*entity.ServiceQuote, error) {
	q, err := quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrQuoteNotFound
	}
	lines, err := quoteRepo.GetLines(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Lines = lines
	return q, nil
}
