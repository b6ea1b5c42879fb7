package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/litethinking-inventario/internal/domain"
)

func TestQuantity(t *testing.T) {
	assert.NoError(t, Quantity(1, false))
	assert.NoError(t, Quantity(0, true))
	assert.True(t, errors.Is(Quantity(0, false), domain.ErrInvalidQuantity))
	assert.True(t, errors.Is(Quantity(-3, true), domain.ErrInvalidQuantity))
	assert.Contains(t, Quantity(-3, true).Error(), "-3")
}

func TestReason(t *testing.T) {
	assert.NoError(t, Reason("compra a proveedor"))
	assert.True(t, errors.Is(Reason(""), domain.ErrInvalidReason))
	assert.True(t, errors.Is(Reason(" \t "), domain.ErrInvalidReason))
	assert.True(t, errors.Is(Reason(strings.Repeat("a", MaxReasonLen+1)), domain.ErrInvalidReason))
}

func TestText(t *testing.T) {
	assert.NoError(t, Text("nombre", "  Laptop  ", 2, 200))
	assert.Error(t, Text("nombre", "   ", 1, 0))
	assert.Error(t, Text("nombre", "a", 2, 0))
	assert.Error(t, Text("nombre", "ñandú", 1, 4))
	assert.NoError(t, Text("nombre", "ñandú", 1, 5))
}

func TestProductCode(t *testing.T) {
	cases := map[string]bool{
		"LA-001":                true,
		"mo-002":                true,
		"":                      false,
		"1A-001":                false,
		"A":                     false,
		strings.Repeat("A", 51): false,
	}
	for code, ok := range cases {
		err := ProductCode(code)
		if ok {
			assert.NoError(t, err, code)
		} else {
			assert.Error(t, err, code)
		}
	}
}

func TestNIT(t *testing.T) {
	assert.NoError(t, NIT("900.123.456-7"))
	assert.NoError(t, NIT("900123456"))
	assert.Error(t, NIT(""))
	assert.Error(t, NIT("12345678"))
	assert.Error(t, NIT("90012345A"))
	assert.Equal(t, "9001234567", NormalizeNIT(" 900.123.456-7 "))
}

func TestEmailYTelefono(t *testing.T) {
	assert.NoError(t, Email("ventas@litethinking.com"))
	assert.Error(t, Email("ventas@"))
	assert.NoError(t, Phone("+57 300-123-4567"))
	assert.Error(t, Phone("12345"))
	assert.Error(t, Phone(strings.Repeat("1", 21)))
}

func TestPrice(t *testing.T) {
	assert.NoError(t, Price(decimal.RequireFromString("10.50")))
	assert.Error(t, Price(decimal.Zero))
	assert.Error(t, Price(decimal.RequireFromString("-1")))
	assert.Error(t, Price(decimal.RequireFromString("1000000000")))
	assert.NoError(t, Price(MaxPriceUSD))
}
