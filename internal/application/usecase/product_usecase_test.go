package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/litethinking-inventario/internal/application/dto"
	"github.com/jhoicas/litethinking-inventario/internal/application/inventory"
	"github.com/jhoicas/litethinking-inventario/internal/application/usecase"
	"github.com/jhoicas/litethinking-inventario/internal/domain"
	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
	"github.com/jhoicas/litethinking-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/litethinking-inventario/pkg/logger"
)

var admin = inventory.Actor{UserID: "11111111-1111-1111-1111-111111111111", Role: entity.RoleAdministrator}

type catalog struct {
	store     *memory.Store
	products  *usecase.ProductUseCase
	companies *usecase.CompanyUseCase
	ledgers   *inventory.LedgerUseCase
	companyID string
}

func newCatalog(t *testing.T) *catalog {
	t.Helper()
	store := memory.NewStore()
	ledgers := inventory.NewLedgerUseCase(store, store.Ledgers(), store.Movements(), store.Products(), nil, logger.Nop())
	c := &catalog{
		store:     store,
		ledgers:   ledgers,
		companies: usecase.NewCompanyUseCase(store.Companies()),
		products: usecase.NewProductUseCase(store, store.Products(), store.Companies(), ledgers, usecase.ExchangeRates{
			USDToCOP: decimal.NewFromInt(4000),
			USDToEUR: decimal.RequireFromString("0.92"),
		}),
	}
	company, err := c.companies.Create(context.Background(), dto.CreateCompanyRequest{
		Name: "Lite Thinking SAS", NIT: "900123456-7", Address: "Calle 100", Phone: "3001234567", Email: "Contacto@LiteThinking.com",
	})
	require.NoError(t, err)
	c.companyID = company.ID
	return c
}

func (c *catalog) create(t *testing.T, name, code string) *dto.ProductResponse {
	t.Helper()
	p, err := c.products.Create(context.Background(), dto.CreateProductRequest{
		CompanyID:    c.companyID,
		Code:         code,
		Name:         name,
		Description:  "descripción de " + name,
		PriceUSD:     decimal.RequireFromString("12.50"),
		MinimumStock: 5,
	})
	require.NoError(t, err)
	return p
}

func TestProductUseCase_CodigoAutomatico(t *testing.T) {
	c := newCatalog(t)
	assert.Equal(t, "LA-001", c.create(t, "Laptop", "").Code)
	assert.Equal(t, "LA-002", c.create(t, "Lavamanos", "").Code)
	assert.Equal(t, "MO-001", c.create(t, "Mouse", "").Code)
	assert.Equal(t, "LA-010", c.create(t, "Lapicero", "la-010").Code)
	assert.Equal(t, "LA-011", c.create(t, "Lavadora", "").Code)

	p := c.create(t, "Teclado", "")
	assert.Equal(t, entity.ProductTypePhysical, p.Type)
	assert.Equal(t, "active", p.Status)
}

func TestProductUseCase_CodigoDuplicado(t *testing.T) {
	c := newCatalog(t)
	c.create(t, "Laptop", "LA-001")
	_, err := c.products.Create(context.Background(), dto.CreateProductRequest{
		CompanyID: c.companyID, Code: "la-001", Name: "Otro", Description: "x", PriceUSD: decimal.NewFromInt(1),
	})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	list, err := c.products.List(context.Background(), dto.ProductFilterRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestProductUseCase_ValidacionesDeCreacion(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	base := dto.CreateProductRequest{CompanyID: c.companyID, Name: "Laptop", Description: "x", PriceUSD: decimal.NewFromInt(10)}

	in := base
	in.PriceUSD = decimal.Zero
	_, err := c.products.Create(ctx, in)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	in = base
	in.Type = "otro"
	_, err = c.products.Create(ctx, in)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	in = base
	in.CompanyID = "00000000-0000-0000-0000-000000000000"
	_, err = c.products.Create(ctx, in)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = c.companies.Deactivate(ctx, c.companyID)
	require.NoError(t, err)
	_, err = c.products.Create(ctx, base)
	assert.True(t, errors.Is(err, domain.ErrInactive))
}

func TestProductUseCase_EliminarConExistencia(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	p := c.create(t, "Laptop", "")
	_, err := c.ledgers.RegisterEntry(ctx, admin, p.ID, dto.MovementRequest{Quantity: 3, Reason: "compra"})
	require.NoError(t, err)

	err = c.products.Delete(ctx, p.ID)
	assert.True(t, errors.Is(err, domain.ErrStockNotEmpty))

	_, err = c.ledgers.RegisterExit(ctx, admin, p.ID, dto.MovementRequest{Quantity: 3, Reason: "venta"})
	require.NoError(t, err)
	err = c.products.Delete(ctx, p.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict), "el historial protege al inventario")

	_, err = c.products.GetByID(ctx, p.ID)
	assert.NoError(t, err)
}

func TestProductUseCase_EliminarSinMovimientos(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	p := c.create(t, "Laptop", "")

	require.NoError(t, c.products.Delete(ctx, p.ID))
	_, err := c.products.GetByID(ctx, p.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = c.ledgers.Get(ctx, p.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.True(t, errors.Is(c.products.Delete(ctx, p.ID), domain.ErrNotFound))
}

func TestProductUseCase_ActualizarYEstado(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	p := c.create(t, "Laptop", "")

	name := "Laptop Pro"
	price := decimal.RequireFromString("999.99")
	minimum := int64(8)
	out, err := c.products.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &name, PriceUSD: &price, MinimumStock: &minimum})
	require.NoError(t, err)
	assert.Equal(t, "Laptop Pro", out.Name)
	assert.Equal(t, "LA-001", out.Code)
	assert.True(t, out.PriceUSD.Equal(price))
	assert.EqualValues(t, 8, out.MinimumStock)

	negative := int64(-1)
	_, err = c.products.Update(ctx, p.ID, dto.UpdateProductRequest{MinimumStock: &negative})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	out, err = c.products.Deactivate(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", out.Status)

	list, err := c.products.List(ctx, dto.ProductFilterRequest{Status: "active"})
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	out, err = c.products.Activate(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", out.Status)
}

func TestProductUseCase_Precios(t *testing.T) {
	c := newCatalog(t)
	p := c.create(t, "Laptop", "")

	prices, err := c.products.Prices(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, prices.Prices, 3)

	byCurrency := map[string]dto.PriceResponse{}
	for _, pr := range prices.Prices {
		byCurrency[pr.Currency] = pr
	}
	assert.True(t, byCurrency["USD"].Amount.Equal(decimal.RequireFromString("12.50")))
	assert.True(t, byCurrency["COP"].Amount.Equal(decimal.NewFromInt(50000)))
	assert.True(t, byCurrency["EUR"].Amount.Equal(decimal.RequireFromString("11.5")))
	assert.Contains(t, byCurrency["COP"].Formatted, "COP")
	assert.Contains(t, byCurrency["EUR"].Formatted, "EUR")
}

func TestProductUseCase_ListadoConTotal(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	c.create(t, "Laptop", "")
	c.create(t, "Lámpara", "")
	c.create(t, "Mouse", "")

	res, err := c.products.List(ctx, dto.ProductFilterRequest{PageRequest: dto.PageRequest{Limit: 2}, CompanyID: c.companyID})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 3, res.Page.Total)

	res, err = c.products.List(ctx, dto.ProductFilterRequest{Search: "mou"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 1, res.Page.Total)

	companies, err := c.companies.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, companies.Page.Total)
}

func TestCompanyUseCase_NIT(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()

	got, err := c.companies.GetByID(ctx, c.companyID)
	require.NoError(t, err)
	assert.Equal(t, "9001234567", got.NIT)
	assert.Equal(t, "contacto@litethinking.com", got.Email)

	_, err = c.companies.Create(ctx, dto.CreateCompanyRequest{
		Name: "Otra", NIT: "900.123.456-7", Address: "x", Phone: "3001234567", Email: "a@b.co",
	})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = c.companies.Create(ctx, dto.CreateCompanyRequest{
		Name: "Otra", NIT: "12345", Address: "x", Phone: "3001234567", Email: "a@b.co",
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
