package inventory_test

import (
	"context"
	"errors"
	"sync"
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

type recorder struct {
	mu     sync.Mutex
	events []inventory.StockEvent
}

func (r *recorder) PublishStockUpdate(ev inventory.StockEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type fixture struct {
	store    *memory.Store
	ledgers  *inventory.LedgerUseCase
	products *usecase.ProductUseCase
	events   *recorder
	product  *dto.ProductResponse
}

var (
	admin  = inventory.Actor{UserID: "11111111-1111-1111-1111-111111111111", Role: entity.RoleAdministrator}
	viewer = inventory.Actor{UserID: "22222222-2222-2222-2222-222222222222", Role: entity.RoleReadOnlyViewer}
)

func newFixture(t *testing.T, minimumStock int64) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	events := &recorder{}
	ledgers := inventory.NewLedgerUseCase(store, store.Ledgers(), store.Movements(), store.Products(), events, logger.Nop())
	products := usecase.NewProductUseCase(store, store.Products(), store.Companies(), ledgers, usecase.ExchangeRates{
		USDToCOP: decimal.NewFromInt(4000),
		USDToEUR: decimal.RequireFromString("0.92"),
	})
	company, err := usecase.NewCompanyUseCase(store.Companies()).Create(ctx, dto.CreateCompanyRequest{
		Name: "Lite Thinking SAS", NIT: "900.123.456-7", Address: "Cra 7 # 71-21", Phone: "601 555 1234", Email: "info@litethinking.com",
	})
	require.NoError(t, err)
	product, err := products.Create(ctx, dto.CreateProductRequest{
		CompanyID:    company.ID,
		Name:         "Laptop",
		Description:  "Portátil 14 pulgadas",
		PriceUSD:     decimal.RequireFromString("850.00"),
		MinimumStock: minimumStock,
		Location:     "A-01",
	})
	require.NoError(t, err)
	return &fixture{store: store, ledgers: ledgers, products: products, events: events, product: product}
}

func (f *fixture) history(t *testing.T) *dto.MovementHistoryResponse {
	t.Helper()
	h, err := f.ledgers.History(context.Background(), f.product.ID, dto.PageRequest{Limit: 100})
	require.NoError(t, err)
	return h
}

func TestProvision_InventarioEnCero(t *testing.T) {
	f := newFixture(t, 10)
	l, err := f.ledgers.Get(context.Background(), f.product.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, l.Quantity)
	assert.Equal(t, "A-01", l.Location)
	assert.Equal(t, "NO_STOCK", l.State)
	assert.Empty(t, f.history(t).Items)
}

func TestLedgerUseCase_EscenariosAD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	res, err := f.ledgers.RegisterEntry(ctx, admin, f.product.ID, dto.MovementRequest{Quantity: 50, Reason: "initial stock"})
	require.NoError(t, err)
	assert.EqualValues(t, 50, res.Ledger.Quantity)
	assert.Equal(t, "SUFFICIENT", res.Ledger.State)
	require.NotNil(t, res.Movement)
	assert.Equal(t, "ENTRY", res.Movement.Kind)
	assert.Equal(t, admin.UserID, res.Movement.ActorID)

	res, err = f.ledgers.RegisterExit(ctx, admin, f.product.ID, dto.MovementRequest{Quantity: 45, Reason: "sale"})
	require.NoError(t, err)
	assert.EqualValues(t, 5, res.Ledger.Quantity)
	assert.Equal(t, "LOW", res.Ledger.State)
	assert.True(t, res.Ledger.NeedsRestock)
	assert.Len(t, f.history(t).Items, 2)

	_, err = f.ledgers.RegisterExit(ctx, admin, f.product.ID, dto.MovementRequest{Quantity: 10, Reason: "over-sale"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Contains(t, err.Error(), "solicitado 10, disponible 5")
	h := f.history(t)
	assert.EqualValues(t, 5, h.Ledger.Quantity)
	assert.Len(t, h.Items, 2)

	res, err = f.ledgers.AdjustTo(ctx, admin, f.product.ID, dto.AdjustmentRequest{Target: ptr(int64(0)), Reason: "write-off"})
	require.NoError(t, err)
	require.NotNil(t, res.Movement)
	assert.Equal(t, "EXIT", res.Movement.Kind)
	assert.EqualValues(t, 5, res.Movement.Quantity)
	assert.EqualValues(t, 0, res.Ledger.Quantity)
	assert.Equal(t, "NO_STOCK", res.Ledger.State)

	h = f.history(t)
	require.Len(t, h.Items, 3)
	assert.Equal(t, []string{"ENTRY", "EXIT", "EXIT"}, []string{h.Items[0].Kind, h.Items[1].Kind, h.Items[2].Kind})
	assert.Equal(t, 3, h.Page.Total)
	var sum int64
	for _, m := range h.Items {
		sum += m.Signed
	}
	assert.Equal(t, h.Ledger.Quantity, sum)
	assert.Equal(t, 3, f.events.count())
}

func TestLedgerUseCase_AjusteSinCambioNoPublica(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	_, err := f.ledgers.RegisterEntry(ctx, admin, f.product.ID, dto.MovementRequest{Quantity: 7, Reason: "compra"})
	require.NoError(t, err)

	res, err := f.ledgers.AdjustTo(ctx, admin, f.product.ID, dto.AdjustmentRequest{Target: ptr(int64(7)), Reason: "conteo"})
	require.NoError(t, err)
	assert.Nil(t, res.Movement)
	assert.EqualValues(t, 7, res.Ledger.Quantity)
	assert.Len(t, f.history(t).Items, 1)
	assert.Equal(t, 1, f.events.count())
}

func TestLedgerUseCase_ErroresDeValidacion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	_, err := f.ledgers.RegisterEntry(ctx, admin, f.product.ID, dto.MovementRequest{Quantity: 0, Reason: "compra"})
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))

	_, err = f.ledgers.RegisterEntry(ctx, admin, f.product.ID, dto.MovementRequest{Quantity: 3, Reason: "  "})
	assert.True(t, errors.Is(err, domain.ErrInvalidReason))

	_, err = f.ledgers.AdjustTo(ctx, admin, f.product.ID, dto.AdjustmentRequest{Target: ptr(int64(-2)), Reason: "conteo"})
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))

	_, err = f.ledgers.RegisterEntry(ctx, admin, "no-existe", dto.MovementRequest{Quantity: 3, Reason: "compra"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.Empty(t, f.history(t).Items)
	assert.Zero(t, f.events.count())
}

func TestLedgerUseCase_ExternoSoloLectura(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	_, err := f.ledgers.RegisterEntry(ctx, viewer, f.product.ID, dto.MovementRequest{Quantity: 3, Reason: "compra"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	_, err = f.ledgers.SetLocation(ctx, viewer, f.product.ID, dto.LocationRequest{Location: "B-02"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = f.ledgers.Get(ctx, f.product.ID)
	assert.NoError(t, err)
}

func TestLedgerUseCase_ProductoInactivo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	_, err := f.ledgers.RegisterEntry(ctx, admin, f.product.ID, dto.MovementRequest{Quantity: 4, Reason: "compra"})
	require.NoError(t, err)
	_, err = f.products.Deactivate(ctx, f.product.ID)
	require.NoError(t, err)

	_, err = f.ledgers.RegisterEntry(ctx, admin, f.product.ID, dto.MovementRequest{Quantity: 1, Reason: "compra"})
	assert.True(t, errors.Is(err, domain.ErrInactive))

	target := int64(25)
	_, err = f.ledgers.AdjustTo(ctx, admin, f.product.ID, dto.AdjustmentRequest{Target: &target, Reason: "conteo físico"})
	assert.True(t, errors.Is(err, domain.ErrInactive))
	assert.Len(t, f.history(t).Items, 1)

	target = 3
	res, err := f.ledgers.AdjustTo(ctx, admin, f.product.ID, dto.AdjustmentRequest{Target: &target, Reason: "conteo físico"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.Ledger.Quantity)

	// se puede vaciar el inventario de un producto dado de baja
	res, err = f.ledgers.RegisterExit(ctx, admin, f.product.ID, dto.MovementRequest{Quantity: 3, Reason: "devolución a proveedor"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Ledger.Quantity)
}

func TestLedgerUseCase_SalidasConcurrentesNoSobregiran(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	_, err := f.ledgers.RegisterEntry(ctx, admin, f.product.ID, dto.MovementRequest{Quantity: 30, Reason: "compra"})
	require.NoError(t, err)

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledgers.RegisterExit(ctx, admin, f.product.ID, dto.MovementRequest{Quantity: 1, Reason: "venta"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 30, ok)
	assert.Equal(t, 20, rejected)
	h := f.history(t)
	assert.EqualValues(t, 0, h.Ledger.Quantity)
	assert.Equal(t, 31, h.Page.Total)
}

func TestLedgerUseCase_CorreccionAdministrativa(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	in, err := f.ledgers.RegisterEntry(ctx, admin, f.product.ID, dto.MovementRequest{Quantity: 10, Reason: "compra"})
	require.NoError(t, err)
	out, err := f.ledgers.RegisterExit(ctx, admin, f.product.ID, dto.MovementRequest{Quantity: 8, Reason: "venta"})
	require.NoError(t, err)

	_, err = f.ledgers.DeleteMovement(ctx, viewer, out.Movement.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	// quitar la entrada dejaría -8: se rechaza y nada cambia
	_, err = f.ledgers.DeleteMovement(ctx, admin, in.Movement.ID)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	h := f.history(t)
	assert.EqualValues(t, 2, h.Ledger.Quantity)
	assert.Len(t, h.Items, 2)

	l, err := f.ledgers.DeleteMovement(ctx, admin, out.Movement.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 10, l.Quantity)
	h = f.history(t)
	require.Len(t, h.Items, 1)
	assert.Equal(t, in.Movement.ID, h.Items[0].ID)

	_, err = f.ledgers.DeleteMovement(ctx, admin, out.Movement.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	last := f.events.events[len(f.events.events)-1]
	assert.Equal(t, inventory.CauseCorrection, last.Cause)
	assert.EqualValues(t, 8, last.Delta)
}

func TestLedgerUseCase_ListadoYReabastecimiento(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	_, err := f.ledgers.RegisterEntry(ctx, admin, f.product.ID, dto.MovementRequest{Quantity: 5, Reason: "compra"})
	require.NoError(t, err)

	other, err := f.products.Create(ctx, dto.CreateProductRequest{
		CompanyID: f.product.CompanyID, Name: "Mouse", Description: "Inalámbrico",
		PriceUSD: decimal.NewFromInt(20), MinimumStock: 2,
	})
	require.NoError(t, err)
	_, err = f.ledgers.RegisterEntry(ctx, admin, other.ID, dto.MovementRequest{Quantity: 40, Reason: "compra"})
	require.NoError(t, err)

	all, err := f.ledgers.List(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
	assert.Equal(t, "LA-001", all.Items[0].ProductCode)
	assert.Equal(t, "MO-001", all.Items[1].ProductCode)
	assert.Equal(t, "SUFICIENTE", all.Items[1].StateLabel)
	assert.Equal(t, 2, all.Page.Total)
	assert.EqualValues(t, 0, all.Items[1].SuggestedOrder)

	firstPage, err := f.ledgers.List(ctx, "", dto.PageRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, firstPage.Items, 1)
	assert.Equal(t, 2, firstPage.Page.Total)

	restock, err := f.ledgers.RestockList(ctx, f.product.CompanyID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, restock.Items, 1)
	assert.Equal(t, f.product.ID, restock.Items[0].ProductID)
	assert.Equal(t, 1, restock.Page.Total)
	assert.EqualValues(t, 15, restock.Items[0].IdealStock)
	assert.EqualValues(t, 10, restock.Items[0].SuggestedOrder)
}

func TestLedgerUseCase_Ubicacion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	l, err := f.ledgers.SetLocation(ctx, admin, f.product.ID, dto.LocationRequest{Location: "Bodega 2 - estante 4"})
	require.NoError(t, err)
	assert.Equal(t, "Bodega 2 - estante 4", l.Location)
	assert.Empty(t, f.history(t).Items)
}

func ptr[T any](v T) *T { return &v }
