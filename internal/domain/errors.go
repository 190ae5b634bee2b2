package domain

import (
	"errors"
	"fmt"
)

// Categorías de error (sin dependencias externas). Los errores específicos
// las envuelven para que la capa HTTP pueda clasificarlos con errors.Is.
var (
	ErrInvalidInput = errors.New("entrada inválida")
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrPersistence  = errors.New("error de persistencia")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
)

// Validación.
var (
	ErrEmptyCart         = fmt.Errorf("%w: el carrito está vacío", ErrInvalidInput)
	ErrMissingClientName = fmt.Errorf("%w: el nombre del cliente es obligatorio", ErrInvalidInput)
	ErrInvalidQuantity   = fmt.Errorf("%w: la cantidad debe ser un entero positivo", ErrInvalidInput)
	ErrInvalidAmount     = fmt.Errorf("%w: monto fuera de rango (máximo 10 dígitos, 2 decimales)", ErrInvalidInput)
	ErrInvalidPayment    = fmt.Errorf("%w: método de pago no soportado", ErrInvalidInput)
)

// No encontrados.
var (
	ErrProductNotFound = fmt.Errorf("%w: producto no encontrado", ErrNotFound)
	ErrServiceNotFound = fmt.Errorf("%w: servicio no encontrado", ErrNotFound)
	ErrQuoteNotFound   = fmt.Errorf("%w: cotización no encontrada", ErrNotFound)
	ErrSaleNotFound    = fmt.Errorf("%w: venta no encontrada", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("%w: usuario no encontrado", ErrNotFound)
)

// Conflictos.
var (
	ErrInsufficientStock = fmt.Errorf("%w: stock insuficiente", ErrConflict)
	ErrAlreadyPaid       = fmt.Errorf("%w: la cotización ya fue pagada", ErrConflict)
	ErrUsernameExists    = fmt.Errorf("%w: el nombre de usuario ya está registrado", ErrDuplicate)
	ErrProductNameExists = fmt.Errorf("%w: ya existe un producto con ese nombre", ErrDuplicate)
	ErrProductInUse      = fmt.Errorf("%w: el producto tiene ventas o cotizaciones asociadas", ErrConflict)
	ErrServiceInUse      = fmt.Errorf("%w: el servicio tiene cotizaciones asociadas", ErrConflict)
)

// InsufficientStockError detalla qué producto no alcanzó y cuánto queda,
// para que el llamador pueda ajustar el carrito y reintentar.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Stock insuficiente para %s. Disponible: %d", e.ProductName, e.Available)
}

// Unwrap permite errors.Is(err, ErrInsufficientStock) y errors.Is(err, ErrConflict).
func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// Persistence envuelve un fallo del almacenamiento conservando la causa.
func Persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
