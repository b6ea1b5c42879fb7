package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/litethinking-inventario/internal/domain"
	inv "github.com/jhoicas/litethinking-inventario/internal/domain/inventory"
	"github.com/jhoicas/litethinking-inventario/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación en memoria de StockLedgerRepository.
type LedgerRepo struct {
	s session
}

func toLedger(r ledgerRow) *inv.Ledger {
	return inv.RestoreLedger(r.id, r.productID, r.quantity, r.location, r.createdAt, r.updatedAt)
}

// Create inserta el libro; un producto admite un solo libro.
func (r *LedgerRepo) Create(_ context.Context, l *inv.Ledger) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.products[l.ProductID()]; !ok {
			return fmt.Errorf("insert ledger: producto %s: %w", l.ProductID(), domain.ErrNotFound)
		}
		if _, ok := st.ledgers[l.ID()]; ok {
			return domain.ErrDuplicate
		}
		for _, row := range st.ledgers {
			if row.productID == l.ProductID() {
				return domain.ErrDuplicate
			}
		}
		if l.Quantity() < 0 {
			return fmt.Errorf("insert ledger: %w", domain.ErrInvalidQuantity)
		}
		st.ledgers[l.ID()] = ledgerRow{
			id:        l.ID(),
			productID: l.ProductID(),
			quantity:  l.Quantity(),
			location:  l.Location(),
			createdAt: l.CreatedAt(),
			updatedAt: l.UpdatedAt(),
		}
		return nil
	})
}

// GetByID obtiene un libro por ID; nil si no existe.
func (r *LedgerRepo) GetByID(_ context.Context, id string) (*inv.Ledger, error) {
	var out *inv.Ledger
	err := r.s.read(func(st *state) error {
		if row, ok := st.ledgers[id]; ok {
			out = toLedger(row)
		}
		return nil
	})
	return out, err
}

// GetByProduct obtiene el libro de un producto; nil si no existe.
func (r *LedgerRepo) GetByProduct(_ context.Context, productID string) (*inv.Ledger, error) {
	var out *inv.Ledger
	err := r.s.read(func(st *state) error {
		for _, row := range st.ledgers {
			if row.productID == productID {
				out = toLedger(row)
				return nil
			}
		}
		return nil
	})
	return out, err
}

// GetByProductForUpdate equivale a GetByProduct: la transacción ya tiene el almacén en exclusiva.
func (r *LedgerRepo) GetByProductForUpdate(ctx context.Context, productID string) (*inv.Ledger, error) {
	return r.GetByProduct(ctx, productID)
}

// GetByIDForUpdate equivale a GetByID dentro de una transacción.
func (r *LedgerRepo) GetByIDForUpdate(ctx context.Context, id string) (*inv.Ledger, error) {
	return r.GetByID(ctx, id)
}

// Update persiste cantidad, ubicación y updated_at.
func (r *LedgerRepo) Update(_ context.Context, l *inv.Ledger) error {
	return r.s.write(func(st *state) error {
		row, ok := st.ledgers[l.ID()]
		if !ok {
			return domain.ErrNotFound
		}
		if l.Quantity() < 0 {
			return fmt.Errorf("update ledger: cantidad %d: %w", l.Quantity(), domain.ErrInvalidQuantity)
		}
		row.quantity = l.Quantity()
		row.location = l.Location()
		row.updatedAt = l.UpdatedAt()
		st.ledgers[l.ID()] = row
		return nil
	})
}

// Delete elimina un libro sin movimientos.
func (r *LedgerRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.ledgers[id]; !ok {
			return domain.ErrNotFound
		}
		for _, m := range st.movements {
			if m.ledgerID == id {
				return fmt.Errorf("delete ledger: tiene movimientos: %w", domain.ErrConflict)
			}
		}
		delete(st.ledgers, id)
		return nil
	})
}

// List devuelve los libros con los datos del producto, ordenados por código.
func (r *LedgerRepo) List(_ context.Context, f repository.LedgerFilter) ([]repository.LedgerView, error) {
	out, err := r.filter(f)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductCode < out[j].ProductCode })
	return page(out, f.Limit, f.Offset), nil
}

func (r *LedgerRepo) Count(_ context.Context, f repository.LedgerFilter) (int, error) {
	out, err := r.filter(f)
	return len(out), err
}

func (r *LedgerRepo) filter(f repository.LedgerFilter) ([]repository.LedgerView, error) {
	var out []repository.LedgerView
	err := r.s.read(func(st *state) error {
		for _, row := range st.ledgers {
			p, ok := st.products[row.productID]
			if !ok {
				continue
			}
			if f.CompanyID != "" && p.CompanyID != f.CompanyID {
				continue
			}
			if f.OnlyRestock && row.quantity > p.MinimumStock {
				continue
			}
			out = append(out, repository.LedgerView{
				Ledger:        toLedger(row),
				CompanyID:     p.CompanyID,
				ProductCode:   p.Code,
				ProductName:   p.Name,
				MinimumStock:  p.MinimumStock,
				ProductStatus: p.Status,
			})
		}
		return nil
	})
	return out, err
}
