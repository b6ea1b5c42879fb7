package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/litethinking-inventario/internal/domain"
	inv "github.com/jhoicas/litethinking-inventario/internal/domain/inventory"
	"github.com/jhoicas/litethinking-inventario/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, ledger_id, kind, quantity, reason, actor_id, created_at`

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append persiste un movimiento. Sin actor se guarda NULL.
func (r *MovementRepo) Append(ctx context.Context, m *inv.Movement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID(), m.LedgerID(), string(m.Kind()), m.Quantity(), m.Reason(), nullable(m.ActorID()), m.Timestamp(),
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return fmt.Errorf("insert movement: libro o usuario inexistente: %w", domain.ErrNotFound)
		case isCheckViolation(err):
			return fmt.Errorf("insert movement: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*inv.Movement, error) {
	row := r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE id = $1`, id)
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByLedger historial del libro en orden cronológico ascendente.
func (r *MovementRepo) ListByLedger(ctx context.Context, ledgerID string, limit, offset int) ([]*inv.Movement, error) {
	query, args := paginate(`
		SELECT `+movementColumns+` FROM stock_movements
		WHERE ledger_id = $1
		ORDER BY created_at, seq`, []any{ledgerID}, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*inv.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// CountByLedger número de movimientos del libro.
func (r *MovementRepo) CountByLedger(ctx context.Context, ledgerID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock_movements WHERE ledger_id = $1`, ledgerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// Delete elimina un movimiento (solo corrección administrativa).
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMovement(row pgx.Row) (*inv.Movement, error) {
	var (
		id, ledgerID, kind, reason string
		quantity                   int64
		actor                      *string
		at                         time.Time
	)
	if err := row.Scan(&id, &ledgerID, &kind, &quantity, &reason, &actor, &at); err != nil {
		return nil, err
	}
	k, err := inv.ParseMovementKind(kind)
	if err != nil {
		return nil, err
	}
	actorID := ""
	if actor != nil {
		actorID = *actor
	}
	return inv.RestoreMovement(id, ledgerID, k, quantity, reason, actorID, at), nil
}
