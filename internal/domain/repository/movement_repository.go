package repository

import (
	"context"

	"github.com/jhoicas/litethinking-inventario/internal/domain/inventory"
)

// MovementRepository define el puerto de persistencia de movimientos de inventario.
// No existe Update: un movimiento es inmutable. Delete solo lo usa la corrección
// administrativa, que reconcilia el libro en la misma transacción.
type MovementRepository interface {
	Append(ctx context.Context, movement *inventory.Movement) error
	GetByID(ctx context.Context, id string) (*inventory.Movement, error)
	// ListByLedger devuelve el historial en orden cronológico ascendente. limit <= 0 no limita.
	ListByLedger(ctx context.Context, ledgerID string, limit, offset int) ([]*inventory.Movement, error)
	CountByLedger(ctx context.Context, ledgerID string) (int, error)
	Delete(ctx context.Context, id string) error
}
