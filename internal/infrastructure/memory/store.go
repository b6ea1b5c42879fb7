// Package memory implementa los puertos de persistencia en memoria para
// desarrollo (DB_DRIVER=memory) y pruebas. Las transacciones se serializan con
// un mutex y trabajan sobre una copia del estado que solo se publica en Commit,
// de modo que un error deja el almacén intacto.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/litethinking-inventario/internal/application/inventory"
	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
	inv "github.com/jhoicas/litethinking-inventario/internal/domain/inventory"
	"github.com/jhoicas/litethinking-inventario/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type ledgerRow struct {
	id        string
	productID string
	quantity  int64
	location  string
	createdAt time.Time
	updatedAt time.Time
}

type movementRow struct {
	id        string
	ledgerID  string
	kind      inv.MovementKind
	quantity  int64
	reason    string
	actorID   string
	timestamp time.Time
	seq       int64
}

type messageRow struct {
	msg entity.Message
	seq int64
}

type state struct {
	companies     map[string]entity.Company
	users         map[string]entity.User
	products      map[string]entity.Product
	ledgers       map[string]ledgerRow
	movements     map[string]movementRow
	conversations map[string]entity.Conversation
	messages      map[string]messageRow
	seq           int64
}

func newState() *state {
	return &state{
		companies:     map[string]entity.Company{},
		users:         map[string]entity.User{},
		products:      map[string]entity.Product{},
		ledgers:       map[string]ledgerRow{},
		movements:     map[string]movementRow{},
		conversations: map[string]entity.Conversation{},
		messages:      map[string]messageRow{},
	}
}

func (s *state) clone() *state {
	c := &state{
		companies:     make(map[string]entity.Company, len(s.companies)),
		users:         make(map[string]entity.User, len(s.users)),
		products:      make(map[string]entity.Product, len(s.products)),
		ledgers:       make(map[string]ledgerRow, len(s.ledgers)),
		movements:     make(map[string]movementRow, len(s.movements)),
		conversations: make(map[string]entity.Conversation, len(s.conversations)),
		messages:      make(map[string]messageRow, len(s.messages)),
		seq:           s.seq,
	}
	for k, v := range s.companies {
		c.companies[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.ledgers {
		c.ledgers[k] = v
	}
	for k, v := range s.movements {
		c.movements[k] = v
	}
	for k, v := range s.conversations {
		c.conversations[k] = v
	}
	for k, v := range s.messages {
		c.messages[k] = v
	}
	return c
}

// Store almacén en memoria. Es seguro para uso concurrente.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// session da acceso al estado: dentro de una transacción usa la copia privada
// (el mutex ya está tomado); fuera de ella toma el mutex por operación.
type session struct {
	store *Store
	tx    *state
}

func (s session) read(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return fn(s.store.st)
}

// write aplica fn sobre una copia y la publica solo si fn no falla.
func (s session) write(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	next := s.store.st.clone()
	if err := fn(next); err != nil {
		return err
	}
	s.store.st = next
	return nil
}

func (s *Store) session() session { return session{store: s} }

// Run ejecuta fn con repositorios atados a una copia del estado. Las
// transacciones se serializan: mientras fn corre ninguna otra lectura o
// escritura del almacén avanza, lo que equivale a un bloqueo de fila.
func (s *Store) Run(ctx context.Context, fn func(
	ledgerRepo repository.StockLedgerRepository,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := session{store: s, tx: s.st.clone()}
	if err := fn(&LedgerRepo{s: tx}, &MovementRepo{s: tx}, &ProductRepo{s: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = tx.tx
	return nil
}

// Ledgers repositorio de libros fuera de transacción.
func (s *Store) Ledgers() *LedgerRepo { return &LedgerRepo{s: s.session()} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s.session()} }

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s.session()} }

// Companies repositorio de empresas.
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s: s.session()} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s.session()} }

// Conversations repositorio del historial de chat.
func (s *Store) Conversations() *ConversationRepo { return &ConversationRepo{s: s.session()} }

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
