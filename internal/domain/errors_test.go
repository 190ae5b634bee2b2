package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/todolap-api/internal/domain"
)

func TestErrores_EnvuelvenSuCategoria(t *testing.T) {
	assert.ErrorIs(t, domain.ErrEmptyCart, domain.ErrInvalidInput)
	assert.ErrorIs(t, domain.ErrMissingClientName, domain.ErrInvalidInput)
	assert.ErrorIs(t, domain.ErrQuoteNotFound, domain.ErrNotFound)
	assert.ErrorIs(t, domain.ErrAlreadyPaid, domain.ErrConflict)
	assert.ErrorIs(t, domain.ErrUsernameExists, domain.ErrDuplicate)
	assert.False(t, errors.Is(domain.ErrAlreadyPaid, domain.ErrInvalidInput))
}

func TestInsufficientStockError_MensajeYCategoria(t *testing.T) {
	var err error = &domain.InsufficientStockError{ProductID: "p1", ProductName: "Mouse", Available: 2, Requested: 5}
	wrapped := fmt.Errorf("checkout: %w", err)

	assert.Equal(t, "Stock insuficiente para Mouse. Disponible: 2", err.Error())
	assert.ErrorIs(t, wrapped, domain.ErrInsufficientStock)
	assert.ErrorIs(t, wrapped, domain.ErrConflict)

	var ise *domain.InsufficientStockError
	if assert.ErrorAs(t, wrapped, &ise) {
		assert.Equal(t, 2, ise.Available)
		assert.Equal(t, 5, ise.Requested)
	}
}

func TestPersistence_ConservaCausa(t *testing.T) {
	cause := errors.New("connection reset")
	err := domain.Persistence("insert sale", cause)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert sale")
}
