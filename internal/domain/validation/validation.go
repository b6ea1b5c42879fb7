// Package validation reúne las reglas de negocio reutilizables (funciones puras)
// que comparten inventario, catálogo de productos, empresas y usuarios.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/litethinking-inventario/internal/domain"
)

// Límites del catálogo.
const (
	MaxProductCodeLen = 50
	MaxProductNameLen = 200
	MaxLocationLen    = 100
	MaxReasonLen      = 500
)

// MaxPriceUSD precio máximo admitido (12 dígitos, 2 decimales).
var MaxPriceUSD = decimal.RequireFromString("999999999.99")

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Quantity valida una cantidad de inventario. Con allowZero=false exige q > 0.
func Quantity(q int64, allowZero bool) error {
	if q < 0 {
		return &domain.ValidationError{Field: "cantidad", Message: fmt.Sprintf("la cantidad no puede ser negativa (%d)", q), Base: domain.ErrInvalidQuantity}
	}
	if !allowZero && q == 0 {
		return &domain.ValidationError{Field: "cantidad", Message: "la cantidad debe ser mayor a 0", Base: domain.ErrInvalidQuantity}
	}
	return nil
}

// Text valida que un texto no esté vacío y respete la longitud (en runas, sin espacios extremos).
// maxLen <= 0 no limita.
func Text(field, s string, minLen, maxLen int) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return domain.NewValidationError(field, "no puede estar vacío")
	}
	n := utf8.RuneCountInString(trimmed)
	if n < minLen {
		return domain.NewValidationError(field, fmt.Sprintf("debe tener al menos %d caracteres", minLen))
	}
	if maxLen > 0 && n > maxLen {
		return domain.NewValidationError(field, fmt.Sprintf("no puede exceder %d caracteres", maxLen))
	}
	return nil
}

// Reason valida el motivo de un movimiento de inventario.
func Reason(s string) error {
	if strings.TrimSpace(s) == "" {
		return &domain.ValidationError{Field: "motivo", Message: "el motivo es obligatorio", Base: domain.ErrInvalidReason}
	}
	if utf8.RuneCountInString(s) > MaxReasonLen {
		return &domain.ValidationError{Field: "motivo", Message: fmt.Sprintf("el motivo no puede exceder %d caracteres", MaxReasonLen), Base: domain.ErrInvalidReason}
	}
	return nil
}

// Location valida la ubicación física en bodega (opcional).
func Location(s string) error {
	if utf8.RuneCountInString(strings.TrimSpace(s)) > MaxLocationLen {
		return domain.NewValidationError("ubicacion", fmt.Sprintf("no puede exceder %d caracteres", MaxLocationLen))
	}
	return nil
}

// ProductCode valida el formato del código de producto: no vacío, máximo 50
// caracteres y comienza con al menos dos letras.
func ProductCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.NewValidationError("codigo", "el código no puede estar vacío")
	}
	if utf8.RuneCountInString(code) > MaxProductCodeLen {
		return domain.NewValidationError("codigo", fmt.Sprintf("el código no puede exceder %d caracteres", MaxProductCodeLen))
	}
	runes := []rune(code)
	if len(runes) < 2 || !unicode.IsLetter(runes[0]) || !unicode.IsLetter(runes[1]) {
		return domain.NewValidationError("codigo", "el código debe empezar con al menos 2 letras")
	}
	return nil
}

// NIT valida el formato de un NIT colombiano (9 a 15 dígitos, admite '-' y '.').
func NIT(nit string) error {
	clean := NormalizeNIT(nit)
	if clean == "" {
		return domain.NewValidationError("nit", "el NIT no puede estar vacío")
	}
	if len(clean) < 9 || len(clean) > 15 {
		return domain.NewValidationError("nit", "el NIT debe tener entre 9 y 15 dígitos")
	}
	for _, r := range clean {
		if r < '0' || r > '9' {
			return domain.NewValidationError("nit", "el NIT debe contener solo números")
		}
	}
	return nil
}

// NormalizeNIT elimina espacios, guiones y puntos.
func NormalizeNIT(nit string) string {
	return strings.NewReplacer("-", "", ".", "", " ", "").Replace(strings.TrimSpace(nit))
}

// Email valida el formato de un correo electrónico.
func Email(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return domain.NewValidationError("email", "formato de email inválido")
	}
	return nil
}

// Phone valida un teléfono: entre 7 y 20 dígitos sin contar espacios ni guiones.
func Phone(phone string) error {
	clean := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
	if clean == "" {
		return domain.NewValidationError("telefono", "el teléfono no puede estar vacío")
	}
	if len(clean) < 7 {
		return domain.NewValidationError("telefono", "el teléfono debe tener al menos 7 dígitos")
	}
	if len(clean) > 20 {
		return domain.NewValidationError("telefono", "el teléfono no puede exceder 20 dígitos")
	}
	return nil
}

// Price valida que un precio sea positivo y no supere MaxPriceUSD.
func Price(p decimal.Decimal) error {
	if !p.IsPositive() {
		return domain.NewValidationError("precio_usd", "el precio debe ser mayor a 0")
	}
	if p.GreaterThan(MaxPriceUSD) {
		return domain.NewValidationError("precio_usd", "el precio no puede ser mayor a "+MaxPriceUSD.StringFixed(2))
	}
	return nil
}

// ExchangeRate valida una tasa de cambio.
func ExchangeRate(rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return domain.NewValidationError("tasa_cambio", "la tasa de cambio debe ser mayor a 0")
	}
	return nil
}
