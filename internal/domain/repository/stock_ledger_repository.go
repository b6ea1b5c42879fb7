package repository

import (
	"context"

	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
	"github.com/jhoicas/litethinking-inventario/internal/domain/inventory"
)

// StockLedgerRepository define el puerto de persistencia del libro de existencias
// (una fila por producto). Las lecturas ForUpdate bloquean la fila hasta el fin
// de la transacción y solo tienen sentido dentro de TxRunner.
type StockLedgerRepository interface {
	Create(ctx context.Context, ledger *inventory.Ledger) error
	GetByID(ctx context.Context, id string) (*inventory.Ledger, error)
	GetByProduct(ctx context.Context, productID string) (*inventory.Ledger, error)
	GetByProductForUpdate(ctx context.Context, productID string) (*inventory.Ledger, error)
	GetByIDForUpdate(ctx context.Context, id string) (*inventory.Ledger, error)
	// Update persiste cantidad, ubicación y updated_at.
	Update(ctx context.Context, ledger *inventory.Ledger) error
	Delete(ctx context.Context, id string) error
	// List devuelve los libros junto con los datos del producto dueño, ordenados por código.
	List(ctx context.Context, filter LedgerFilter) ([]LedgerView, error)
	// Count cuenta los libros del filtro sin paginar.
	Count(ctx context.Context, filter LedgerFilter) (int, error)
}

// LedgerFilter filtros del listado de inventario.
type LedgerFilter struct {
	CompanyID   string // vacío: todas las empresas
	OnlyRestock bool   // solo quantity <= minimum_stock
	Limit       int    // <= 0: sin límite
	Offset      int
}

// LedgerView libro de existencias con los campos del producto que necesitan
// los reportes y la clasificación de estado.
type LedgerView struct {
	Ledger        *inventory.Ledger
	CompanyID     string
	ProductCode   string
	ProductName   string
	MinimumStock  int64
	ProductStatus entity.Status
}

// StockState clasificación de la existencia del producto.
func (v LedgerView) StockState() inventory.StockState {
	return v.Ledger.StockState(v.MinimumStock)
}
