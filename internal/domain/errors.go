package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInactive           = errors.New("el recurso está inactivo")
	ErrUnavailable        = errors.New("servicio no disponible")

	// Inventario
	ErrInvalidQuantity     = errors.New("cantidad inválida")
	ErrInvalidReason       = errors.New("el motivo es obligatorio")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrStockNotEmpty       = errors.New("el inventario aún tiene existencias")
	ErrConcurrencyConflict = errors.New("el inventario fue modificado por otra operación, reintente")
)

// InsufficientStockError detalla una salida que supera la existencia disponible.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: solicitado %d, disponible %d", ErrInsufficientStock, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ValidationError asocia un mensaje de validación a un campo. Envuelve a Base
// (ErrInvalidInput, ErrInvalidQuantity, ...) para que errors.Is siga funcionando.
type ValidationError struct {
	Field   string
	Message string
	Base    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	if e.Base == nil {
		return ErrInvalidInput
	}
	return e.Base
}

// NewValidationError construye un ValidationError sobre ErrInvalidInput.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Base: ErrInvalidInput}
}
