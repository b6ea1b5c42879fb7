package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsufficientStockError(t *testing.T) {
	err := fmt.Errorf("salida: %w", &InsufficientStockError{Requested: 10, Available: 5})

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.Contains(t, err.Error(), "solicitado 10, disponible 5")

	var ise *InsufficientStockError
	assert.True(t, errors.As(err, &ise))
	assert.EqualValues(t, 5, ise.Available)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("nombre", "el nombre es obligatorio")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "nombre: el nombre es obligatorio", err.Error())

	qty := &ValidationError{Field: "cantidad", Message: "debe ser mayor a 0", Base: ErrInvalidQuantity}
	assert.True(t, errors.Is(qty, ErrInvalidQuantity))
	assert.False(t, errors.Is(qty, ErrInvalidInput))
}
