package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/todolap-api/internal/application/dto"
	"github.com/jhoicas/todolap-api/internal/domain"
)

// maxImportStock tope de stock por fila importada.
var maxImportStock = decimal.NewFromInt(1_000_000)

// CatalogRow fila del CSV de catálogo: nombre;descripcion;precio;stock.
type CatalogRow struct {
	Name        string `csv:"nombre"`
	Description string `csv:"descripcion"`
	Price       string `csv:"precio"`
	Stock       string `csv:"stock"`
}

// ImportOptions formato del archivo. Encoding: "utf-8" (por defecto) o "iso-8859-1".
type ImportOptions struct {
	Encoding  string
	Delimiter rune
}

// ImportResult resumen de la importación. Errors lleva "fila N: motivo" por cada fila rechazada.
type ImportResult struct {
	Created int
	Skipped int
	Errors  []string
}

// CatalogImportUseCase carga productos en lote desde CSV. Los nombres ya existentes se omiten,
// así que volver a importar el mismo archivo no duplica productos.
type CatalogImportUseCase struct {
	products *ProductUseCase
}

// NewCatalogImportUseCase construye el caso de uso sobre el CRUD de productos.
func NewCatalogImportUseCase(products *ProductUseCase) *CatalogImportUseCase {
	return &CatalogImportUseCase{products: products}
}

// Import lee todas las filas y crea un producto por cada fila válida.
func (uc *CatalogImportUseCase) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	switch strings.ToLower(opts.Encoding) {
	case "", "utf-8", "utf8":
	case "iso-8859-1", "iso8859-1", "latin1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("%w: codificación %q no soportada", domain.ErrInvalidInput, opts.Encoding)
	}
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.TrimLeadingSpace = true

	var rows []*CatalogRow
	if err := gocsv.UnmarshalCSV(cr, &rows); err != nil {
		return nil, fmt.Errorf("%w: csv: %v", domain.ErrInvalidInput, err)
	}

	res := &ImportResult{}
	for i, row := range rows {
		line := i + 2 // la fila 1 es el encabezado
		in, err := row.toRequest()
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("fila %d: %v", line, err))
			continue
		}
		_, err = uc.products.Create(ctx, in)
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, domain.ErrProductNameExists):
			res.Skipped++
		case errors.Is(err, domain.ErrInvalidInput):
			res.Errors = append(res.Errors, fmt.Sprintf("fila %d: %v", line, err))
		default:
			return res, err
		}
	}
	return res, nil
}

func (r *CatalogRow) toRequest() (dto.CreateProductRequest, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return dto.CreateProductRequest{}, fmt.Errorf("nombre vacío")
	}
	// admite coma decimal ("1250,50")
	price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(r.Price), ",", "."))
	if err != nil {
		return dto.CreateProductRequest{}, fmt.Errorf("precio inválido %q", r.Price)
	}
	stock := 0
	if s := strings.TrimSpace(r.Stock); s != "" {
		// siempre base 10: "010" son 10 unidades
		d, err := decimal.NewFromString(s)
		if err != nil || !d.IsInteger() || d.IsNegative() || d.GreaterThan(maxImportStock) {
			return dto.CreateProductRequest{}, fmt.Errorf("stock inválido %q", r.Stock)
		}
		stock = int(d.IntPart())
	}
	return dto.CreateProductRequest{
		Name:        name,
		Description: strings.TrimSpace(r.Description),
		Price:       price,
		Stock:       stock,
	}, nil
}
