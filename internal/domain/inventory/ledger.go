// Package inventory contiene el libro de existencias de un producto (Ledger) y
// sus movimientos. Toda variación de cantidad pasa por RegisterEntry,
// RegisterExit o AdjustTo, que devuelven el Movement a persistir en la misma
// transacción que la nueva cantidad.
package inventory

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jhoicas/litethinking-inventario/internal/domain"
	"github.com/jhoicas/litethinking-inventario/internal/domain/validation"
)

// StockState clasificación derivada de la existencia frente al stock mínimo.
type StockState string

const (
	StockNone       StockState = "NO_STOCK"
	StockLow        StockState = "LOW"
	StockMedium     StockState = "MEDIUM"
	StockSufficient StockState = "SUFFICIENT"
)

// Label nombre en español para reportes y exportaciones.
func (s StockState) Label() string {
	switch s {
	case StockNone:
		return "SIN STOCK"
	case StockLow:
		return "BAJO"
	case StockMedium:
		return "MEDIO"
	default:
		return "SUFICIENTE"
	}
}

// ClassifyStock clasifica quantity frente a minimumStock.
func ClassifyStock(quantity, minimumStock int64) StockState {
	switch {
	case quantity <= 0:
		return StockNone
	case quantity <= minimumStock:
		return StockLow
	case quantity <= 2*minimumStock:
		return StockMedium
	default:
		return StockSufficient
	}
}

// Ledger existencia actual de un producto (uno por producto).
type Ledger struct {
	id        string
	productID string
	quantity  int64
	location  string
	createdAt time.Time
	updatedAt time.Time
}

// NewLedger crea el libro de un producto recién dado de alta, con cantidad 0.
func NewLedger(productID, location string, now time.Time) (*Ledger, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, domain.NewValidationError("producto", "el inventario requiere un producto")
	}
	if err := validation.Location(location); err != nil {
		return nil, err
	}
	return &Ledger{
		id:        uuid.NewString(),
		productID: productID,
		location:  strings.TrimSpace(location),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// RestoreLedger reconstruye un libro persistido.
func RestoreLedger(id, productID string, quantity int64, location string, createdAt, updatedAt time.Time) *Ledger {
	return &Ledger{
		id:        id,
		productID: productID,
		quantity:  quantity,
		location:  location,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (l *Ledger) ID() string           { return l.id }
func (l *Ledger) ProductID() string    { return l.productID }
func (l *Ledger) Quantity() int64      { return l.quantity }
func (l *Ledger) Location() string     { return l.location }
func (l *Ledger) CreatedAt() time.Time { return l.createdAt }
func (l *Ledger) UpdatedAt() time.Time { return l.updatedAt }

// StockState clasificación de la existencia actual.
func (l *Ledger) StockState(minimumStock int64) StockState {
	return ClassifyStock(l.quantity, minimumStock)
}

// NeedsRestock indica si la existencia está en o por debajo del mínimo.
func (l *Ledger) NeedsRestock(minimumStock int64) bool {
	return l.quantity <= minimumStock
}

// IdealStock existencia objetivo al reponer: 1.5 veces el mínimo, redondeado hacia arriba.
func IdealStock(minimumStock int64) int64 {
	if minimumStock <= 0 {
		return 0
	}
	return (3*minimumStock + 1) / 2
}

// SuggestedOrder unidades a pedir para llegar a IdealStock. Cero si no hace falta reponer.
func (l *Ledger) SuggestedOrder(minimumStock int64) int64 {
	if !l.NeedsRestock(minimumStock) {
		return 0
	}
	if q := IdealStock(minimumStock) - l.quantity; q > 0 {
		return q
	}
	return 0
}

// RegisterEntry suma quantity a la existencia y devuelve la entrada creada.
func (l *Ledger) RegisterEntry(quantity int64, reason, actorID string, now time.Time) (*Movement, error) {
	if err := l.checkConsistent(); err != nil {
		return nil, err
	}
	mov, err := newMovement(l.id, MovementEntry, quantity, reason, actorID, now)
	if err != nil {
		return nil, err
	}
	l.apply(mov)
	return mov, nil
}

// RegisterExit resta quantity de la existencia. Falla con
// *domain.InsufficientStockError si quantity supera la existencia.
func (l *Ledger) RegisterExit(quantity int64, reason, actorID string, now time.Time) (*Movement, error) {
	if err := l.checkConsistent(); err != nil {
		return nil, err
	}
	if err := validation.Quantity(quantity, false); err != nil {
		return nil, err
	}
	if quantity > l.quantity {
		return nil, &domain.InsufficientStockError{Requested: quantity, Available: l.quantity}
	}
	mov, err := newMovement(l.id, MovementExit, quantity, reason, actorID, now)
	if err != nil {
		return nil, err
	}
	l.apply(mov)
	return mov, nil
}

// AdjustTo lleva la existencia a target registrando la entrada o salida de la
// diferencia. Si target coincide con la existencia no se crea movimiento y
// devuelve (nil, nil).
func (l *Ledger) AdjustTo(target int64, reason, actorID string, now time.Time) (*Movement, error) {
	if err := validation.Quantity(target, true); err != nil {
		return nil, err
	}
	if err := validation.Reason(reason); err != nil {
		return nil, err
	}
	from := l.quantity
	delta := target - from
	note := adjustmentNote(reason, from, target)
	switch {
	case delta > 0:
		return l.RegisterEntry(delta, note, actorID, now)
	case delta < 0:
		return l.RegisterExit(-delta, note, actorID, now)
	default:
		return nil, nil
	}
}

// adjustmentNote anota el motivo con las cantidades inicial y final. El texto
// del usuario se recorta para que la nota no supere MaxReasonLen.
func adjustmentNote(reason string, from, to int64) string {
	suffix := fmt.Sprintf(" (de %d a %d)", from, to)
	const prefix = "Ajuste: "
	room := validation.MaxReasonLen - utf8.RuneCountInString(prefix) - utf8.RuneCountInString(suffix)
	text := []rune(strings.TrimSpace(reason))
	if len(text) > room {
		text = []rune(strings.TrimSpace(string(text[:room-1])) + "…")
	}
	return prefix + string(text) + suffix
}

// SetLocation actualiza la ubicación física. No genera movimiento.
func (l *Ledger) SetLocation(location string, now time.Time) error {
	if err := validation.Location(location); err != nil {
		return err
	}
	l.location = strings.TrimSpace(location)
	l.updatedAt = now
	return nil
}

// Reconcile recalcula la existencia a partir de los movimientos que quedan
// (corrección administrativa). Falla si el saldo resultante sería negativo.
func (l *Ledger) Reconcile(remaining []*Movement, now time.Time) error {
	balance := Balance(remaining)
	if balance < 0 {
		return &domain.InsufficientStockError{Requested: l.quantity - balance, Available: l.quantity}
	}
	l.quantity = balance
	l.updatedAt = now
	return nil
}

func (l *Ledger) apply(m *Movement) {
	l.quantity += m.SignedQuantity()
	l.updatedAt = m.Timestamp()
}

func (l *Ledger) checkConsistent() error {
	if l.quantity < 0 {
		return fmt.Errorf("inventario %s con existencia negativa (%d): %w", l.id, l.quantity, domain.ErrConflict)
	}
	return nil
}
