package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Code vacío se genera
// automáticamente (XX-NNN) a partir del nombre.
type CreateProductRequest struct {
	CompanyID    string          `json:"company_id" validate:"required,uuid"`
	Code         string          `json:"code" validate:"omitempty,max=50"`
	Name         string          `json:"name" validate:"notblank,max=200"`
	Description  string          `json:"description" validate:"notblank"`
	PriceUSD     decimal.Decimal `json:"price_usd"`
	Type         string          `json:"type" validate:"omitempty,oneof=fisico digital servicio"`
	MinimumStock int64           `json:"minimum_stock" validate:"min=0"`
	Location     string          `json:"location" validate:"max=100"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock: se maneja vía movimientos).
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,notblank,max=200"`
	Description  *string          `json:"description" validate:"omitempty,notblank"`
	PriceUSD     *decimal.Decimal `json:"price_usd"`
	Type         *string          `json:"type" validate:"omitempty,oneof=fisico digital servicio"`
	MinimumStock *int64           `json:"minimum_stock" validate:"omitempty,min=0"`
}

// ProductFilterRequest query de GET /api/products.
type ProductFilterRequest struct {
	PageRequest
	CompanyID string `query:"company_id" validate:"omitempty,uuid"`
	Status    string `query:"status" validate:"omitempty,oneof=active inactive"`
	Search    string `query:"q" validate:"max=100"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"company_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	PriceUSD     decimal.Decimal `json:"price_usd"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	MinimumStock int64           `json:"minimum_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// PriceResponse precio convertido a una moneda.
type PriceResponse struct {
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"`
	Rate      decimal.Decimal `json:"rate"`
}

// ProductPricesResponse precios del producto en USD, COP y EUR.
type ProductPricesResponse struct {
	ProductID string          `json:"product_id"`
	Code      string          `json:"code"`
	Prices    []PriceResponse `json:"prices"`
}
