package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/litethinking-inventario/internal/domain/validation"
)

// MovementKind tipo de movimiento: solo entradas y salidas. Un ajuste se
// registra como la entrada o salida de la diferencia.
type MovementKind string

const (
	MovementEntry MovementKind = "ENTRY"
	MovementExit  MovementKind = "EXIT"
)

// ParseMovementKind valida el tipo persistido.
func ParseMovementKind(s string) (MovementKind, error) {
	switch MovementKind(strings.ToUpper(s)) {
	case MovementEntry:
		return MovementEntry, nil
	case MovementExit:
		return MovementExit, nil
	}
	return "", fmt.Errorf("tipo de movimiento desconocido %q", s)
}

// Label nombre para reportes.
func (k MovementKind) Label() string {
	if k == MovementEntry {
		return "ENTRADA"
	}
	return "SALIDA"
}

// Movement es un registro inmutable de un cambio de existencia. Solo se crea
// como efecto de una mutación de Ledger; los repositorios lo rehidratan con
// RestoreMovement.
type Movement struct {
	id        string
	ledgerID  string
	kind      MovementKind
	quantity  int64
	reason    string
	actorID   string
	timestamp time.Time
}

func newMovement(ledgerID string, kind MovementKind, quantity int64, reason, actorID string, now time.Time) (*Movement, error) {
	if err := validation.Quantity(quantity, false); err != nil {
		return nil, err
	}
	if err := validation.Reason(reason); err != nil {
		return nil, err
	}
	return &Movement{
		id:        uuid.NewString(),
		ledgerID:  ledgerID,
		kind:      kind,
		quantity:  quantity,
		reason:    strings.TrimSpace(reason),
		actorID:   actorID,
		timestamp: now,
	}, nil
}

// RestoreMovement reconstruye un movimiento persistido. actorID vacío indica
// que el usuario fue eliminado o nunca existió.
func RestoreMovement(id, ledgerID string, kind MovementKind, quantity int64, reason, actorID string, timestamp time.Time) *Movement {
	return &Movement{
		id:        id,
		ledgerID:  ledgerID,
		kind:      kind,
		quantity:  quantity,
		reason:    reason,
		actorID:   actorID,
		timestamp: timestamp,
	}
}

func (m *Movement) ID() string           { return m.id }
func (m *Movement) LedgerID() string     { return m.ledgerID }
func (m *Movement) Kind() MovementKind   { return m.kind }
func (m *Movement) IsEntry() bool        { return m.kind == MovementEntry }
func (m *Movement) IsExit() bool         { return m.kind == MovementExit }
func (m *Movement) Quantity() int64      { return m.quantity }
func (m *Movement) Reason() string       { return m.reason }
func (m *Movement) ActorID() string      { return m.actorID }
func (m *Movement) HasActor() bool       { return m.actorID != "" }
func (m *Movement) Timestamp() time.Time { return m.timestamp }

// SignedQuantity cantidad con signo: positiva en entradas, negativa en salidas.
func (m *Movement) SignedQuantity() int64 {
	if m.kind == MovementExit {
		return -m.quantity
	}
	return m.quantity
}

// Balance suma con signo las cantidades de los movimientos, partiendo de 0.
func Balance(movements []*Movement) int64 {
	var total int64
	for _, m := range movements {
		total += m.SignedQuantity()
	}
	return total
}
