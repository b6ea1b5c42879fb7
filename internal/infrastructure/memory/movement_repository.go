package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/litethinking-inventario/internal/domain"
	inv "github.com/jhoicas/litethinking-inventario/internal/domain/inventory"
	"github.com/jhoicas/litethinking-inventario/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación en memoria de MovementRepository.
type MovementRepo struct {
	s session
}

func toMovement(r movementRow) *inv.Movement {
	return inv.RestoreMovement(r.id, r.ledgerID, r.kind, r.quantity, r.reason, r.actorID, r.timestamp)
}

// Append inserta un movimiento.
func (r *MovementRepo) Append(_ context.Context, m *inv.Movement) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.ledgers[m.LedgerID()]; !ok {
			return fmt.Errorf("insert movement: inventario %s: %w", m.LedgerID(), domain.ErrNotFound)
		}
		if _, ok := st.movements[m.ID()]; ok {
			return domain.ErrDuplicate
		}
		if m.Quantity() <= 0 {
			return fmt.Errorf("insert movement: %w", domain.ErrInvalidQuantity)
		}
		st.seq++
		st.movements[m.ID()] = movementRow{
			id:        m.ID(),
			ledgerID:  m.LedgerID(),
			kind:      m.Kind(),
			quantity:  m.Quantity(),
			reason:    m.Reason(),
			actorID:   m.ActorID(),
			timestamp: m.Timestamp(),
			seq:       st.seq,
		}
		return nil
	})
}

// GetByID obtiene un movimiento; nil si no existe.
func (r *MovementRepo) GetByID(_ context.Context, id string) (*inv.Movement, error) {
	var out *inv.Movement
	err := r.s.read(func(st *state) error {
		if row, ok := st.movements[id]; ok {
			out = toMovement(row)
		}
		return nil
	})
	return out, err
}

// ListByLedger historial ascendente por fecha (y orden de inserción).
func (r *MovementRepo) ListByLedger(_ context.Context, ledgerID string, limit, offset int) ([]*inv.Movement, error) {
	var rows []movementRow
	err := r.s.read(func(st *state) error {
		for _, m := range st.movements {
			if m.ledgerID == ledgerID {
				rows = append(rows, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].timestamp.Equal(rows[j].timestamp) {
			return rows[i].timestamp.Before(rows[j].timestamp)
		}
		return rows[i].seq < rows[j].seq
	})
	rows = page(rows, limit, offset)
	out := make([]*inv.Movement, 0, len(rows))
	for _, row := range rows {
		out = append(out, toMovement(row))
	}
	return out, nil
}

// CountByLedger cantidad de movimientos del libro.
func (r *MovementRepo) CountByLedger(_ context.Context, ledgerID string) (int, error) {
	n := 0
	err := r.s.read(func(st *state) error {
		for _, m := range st.movements {
			if m.ledgerID == ledgerID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// Delete elimina un movimiento (solo corrección administrativa).
func (r *MovementRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.movements[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.movements, id)
		return nil
	})
}
