package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de producto.
const (
	ProductTypePhysical = "fisico"
	ProductTypeDigital  = "digital"
	ProductTypeService  = "servicio"
)

// Product representa un producto del catálogo de una empresa.
// Su inventario vive en un único StockLedger (relación uno a uno).
type Product struct {
	ID           string
	CompanyID    string
	Code         string // único; se genera como XX-NNN si llega vacío
	Name         string
	Description  string
	PriceUSD     decimal.Decimal
	Type         string // fisico, digital, servicio
	Status       Status
	MinimumStock int64 // umbral de reabastecimiento (>= 0)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValidProductType indica si t es un tipo de producto conocido.
func IsValidProductType(t string) bool {
	switch t {
	case ProductTypePhysical, ProductTypeDigital, ProductTypeService:
		return true
	}
	return false
}

// PriceIn convierte el precio USD con la tasa indicada (redondeo a 2 decimales).
func (p *Product) PriceIn(rate decimal.Decimal) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("la tasa de cambio debe ser mayor a 0")
	}
	return p.PriceUSD.Mul(rate).Round(2), nil
}

// NeedsRestock indica si una existencia dada está en o por debajo del stock mínimo.
func (p *Product) NeedsRestock(quantity int64) bool {
	return quantity <= p.MinimumStock
}

// Activate marca el producto como disponible para la venta.
func (p *Product) Activate(now time.Time) {
	p.Status = StatusActive
	p.UpdatedAt = now
}

// Deactivate da de baja lógica al producto.
func (p *Product) Deactivate(now time.Time) {
	p.Status = StatusInactive
	p.UpdatedAt = now
}

// ProductCodePrefix devuelve las dos primeras letras del nombre en mayúscula.
func ProductCodePrefix(name string) string {
	r := []rune(strings.TrimSpace(name))
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}

// NextProductCode calcula el siguiente código para prefix a partir del mayor
// código existente con ese prefijo (vacío si no hay). Ej: "LA", "LA-007" -> "LA-008".
func NextProductCode(prefix, lastCode string) string {
	next := 1
	if lastCode != "" {
		if _, num, ok := strings.Cut(lastCode, "-"); ok {
			if n, err := strconv.Atoi(num); err == nil {
				next = n + 1
			}
		}
	}
	return fmt.Sprintf("%s-%03d", prefix, next)
}

// NormalizeProductCode recorta espacios y lleva a mayúsculas.
func NormalizeProductCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
