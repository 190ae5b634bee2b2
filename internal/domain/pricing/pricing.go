// Package pricing calcula subtotales y totales monetarios con aritmética decimal exacta.
package pricing

import (
	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Scale decimales de un monto (DECIMAL(10,2)).
const Scale = 2

// MaxAmount mayor monto representable con 10 dígitos y 2 decimales.
var MaxAmount = decimal.RequireFromString("99999999.99")

// Line una línea a tasar: precio unitario vigente y cantidad.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Result subtotales en el mismo orden de las líneas y su suma.
type Result struct {
	Subtotals []decimal.Decimal
	Total     decimal.Decimal
}

// Subtotal = precio unitario × cantidad, sin redondeo.
func Subtotal(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// ValidateAmount rechaza montos negativos, con más de 2 decimales o fuera de rango.
func ValidateAmount(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(MaxAmount) {
		return domain.ErrInvalidAmount
	}
	if !d.Equal(d.Truncate(Scale)) {
		return domain.ErrInvalidAmount
	}
	return nil
}

// Calculate tasa las líneas. Una lista vacía da total cero.
func Calculate(lines []Line) (Result, error) {
	res := Result{
		Subtotals: make([]decimal.Decimal, 0, len(lines)),
		Total:     decimal.Zero,
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return Result{}, domain.ErrInvalidQuantity
		}
		if err := ValidateAmount(l.UnitPrice); err != nil {
			return Result{}, err
		}
		sub := Subtotal(l.UnitPrice, l.Quantity)
		if err := ValidateAmount(sub); err != nil {
			return Result{}, err
		}
		res.Subtotals = append(res.Subtotals, sub)
		res.Total = res.Total.Add(sub)
	}
	if err := ValidateAmount(res.Total); err != nil {
		return Result{}, err
	}
	return res, nil
}

// Sum suma montos y valida el resultado (ej. precio del servicio + productos).
func Sum(amounts ...decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	if err := ValidateAmount(total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// Format representa el monto con 2 decimales fijos ("300.00").
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
