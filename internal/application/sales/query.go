package sales

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/jhoicas/todolap-api/internal/application/dto"
	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/pricing"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

const (
	// SearchMinChars largo mínimo del término de búsqueda del punto de venta.
	SearchMinChars = 2
	// SearchLimit máximo de resultados de la búsqueda del punto de venta.
	SearchLimit = 10

	exportPageSize = 200
	dateLayout     = "2006-01-02"
)

// QueryUseCase consultas de solo lectura sobre ventas: historial, detalle, búsqueda
// de productos para caja, comprobante PDF y export CSV.
type QueryUseCase struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	receipts    ReceiptGenerator
}

// NewQueryUseCase construye el caso de uso. receipts puede ser nil si no se generan PDFs.
func NewQueryUseCase(saleRepo repository.SaleRepository, productRepo repository.ProductRepository, receipts ReceiptGenerator) *QueryUseCase {
	return &QueryUseCase{saleRepo: saleRepo, productRepo: productRepo, receipts: receipts}
}

// SearchProducts busca productos con stock por nombre. Menos de 2 caracteres devuelve lista vacía.
func (uc *QueryUseCase) SearchProducts(ctx context.Context, q string) ([]dto.ProductAvailabilityResponse, error) {
	q = strings.TrimSpace(q)
	out := []dto.ProductAvailabilityResponse{}
	if len([]rune(q)) < SearchMinChars {
		return out, nil
	}
	list, err := uc.productRepo.List(ctx, repository.ProductFilter{Query: q, InStockOnly: true, Limit: SearchLimit})
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out = append(out, dto.ProductAvailabilityResponse{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock})
	}
	return out, nil
}

// List historial de ventas, más recientes primero.
func (uc *QueryUseCase) List(ctx context.Context, in dto.SaleListRequest) (*dto.SaleListResponse, error) {
	filter, err := toFilter(in)
	if err != nil {
		return nil, err
	}
	list, err := uc.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.NewSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// Get detalle de una venta con sus líneas.
func (uc *QueryUseCase) Get(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewSaleResponse(sale)
	return &out, nil
}

// Receipt genera el comprobante PDF de la venta.
func (uc *QueryUseCase) Receipt(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	if uc.receipts == nil {
		return nil, "", fmt.Errorf("receipt: generador no configurado")
	}
	sale, err := uc.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.receipts.GenerateSaleReceipt(ctx, sale)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("venta_%s.pdf", shortID(sale.ID)), nil
}

// ExportCSV escribe una fila por línea vendida en el rango pedido (Limit/Offset se ignoran).
func (uc *QueryUseCase) ExportCSV(ctx context.Context, w io.Writer, in dto.SaleListRequest) error {
	filter, err := toFilter(in)
	if err != nil {
		return err
	}
	rows := []*dto.SaleCSVRow{}
	filter.Limit, filter.Offset = exportPageSize, 0
	for {
		page, err := uc.saleRepo.List(ctx, filter)
		if err != nil {
			return err
		}
		for _, s := range page {
			lines, err := uc.saleRepo.GetLines(ctx, s.ID)
			if err != nil {
				return err
			}
			for _, l := range lines {
				rows = append(rows, &dto.SaleCSVRow{
					SaleID:        s.ID,
					Date:          s.CreatedAt.Format(time.RFC3339),
					Operator:      s.OperatorName,
					PaymentMethod: s.PaymentMethod,
					Product:       l.ProductName,
					Quantity:      l.Quantity,
					UnitPrice:     pricing.Format(l.UnitPrice),
					Subtotal:      pricing.Format(l.Subtotal),
					SaleTotal:     pricing.Format(s.Total),
				})
			}
		}
		if len(page) < exportPageSize {
			break
		}
		filter.Offset += exportPageSize
	}
	return gocsv.Marshal(rows, w)
}

func (uc *QueryUseCase) load(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrSaleNotFound
	}
	lines, err := uc.saleRepo.GetLines(ctx, id)
	if err != nil {
		return nil, err
	}
	sale.Lines = lines
	return sale, nil
}

// toFilter convierte fechas YYYY-MM-DD en un rango [from, to+1día) en UTC.
func toFilter(in dto.SaleListRequest) (repository.SaleFilter, error) {
	in.PageRequest.DefaultPage()
	f := repository.SaleFilter{Limit: in.Limit, Offset: in.Offset}
	if in.From != "" {
		from, err := time.Parse(dateLayout, in.From)
		if err != nil {
			return f, fmt.Errorf("%w: fecha 'from' inválida", domain.ErrInvalidInput)
		}
		f.From = &from
	}
	if in.To != "" {
		to, err := time.Parse(dateLayout, in.To)
		if err != nil {
			return f, fmt.Errorf("%w: fecha 'to' inválida", domain.ErrInvalidInput)
		}
		to = to.AddDate(0, 0, 1)
		f.To = &to
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return f, fmt.Errorf("%w: rango de fechas vacío", domain.ErrInvalidInput)
	}
	return f, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
