package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/litethinking-inventario/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el libro de existencias: si fn devuelve error no se aplica nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ledgerRepo repository.StockLedgerRepository,
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// StockNotifier recibe los cambios de existencia ya confirmados (websocket, etc.).
type StockNotifier interface {
	PublishStockUpdate(event StockEvent)
}

// Causas de un StockEvent.
const (
	CauseEntry      = "entry"
	CauseExit       = "exit"
	CauseAdjustment = "adjustment"
	CauseCorrection = "correction"
	CauseLocation   = "location"
)

// StockEvent mensaje publicado tras cada commit que modifica un libro.
type StockEvent struct {
	Type        string    `json:"type"`
	Cause       string    `json:"cause"`
	ProductID   string    `json:"product_id"`
	ProductCode string    `json:"product_code"`
	LedgerID    string    `json:"ledger_id"`
	Quantity    int64     `json:"quantity"`
	State       string    `json:"state"`
	MovementID  string    `json:"movement_id,omitempty"`
	Delta       int64     `json:"delta"`
	At          time.Time `json:"at"`
}

type nopNotifier struct{}

func (nopNotifier) PublishStockUpdate(StockEvent) {}
