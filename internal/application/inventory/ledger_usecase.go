package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/litethinking-inventario/internal/application/dto"
	"github.com/jhoicas/litethinking-inventario/internal/domain"
	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
	inv "github.com/jhoicas/litethinking-inventario/internal/domain/inventory"
	"github.com/jhoicas/litethinking-inventario/internal/domain/repository"
	"github.com/jhoicas/litethinking-inventario/pkg/logger"
)

// Actor usuario autenticado que ejecuta la operación (rol ya resuelto del JWT).
type Actor struct {
	UserID string
	Role   entity.Role
}

// LedgerUseCase orquesta entradas, salidas y ajustes del libro de existencias.
// Cada mutación bloquea la fila del libro (SELECT FOR UPDATE), valida contra el
// valor recién leído, inserta el movimiento y actualiza la cantidad en una sola
// transacción.
type LedgerUseCase struct {
	txRunner    TxRunner
	ledgerRepo  repository.StockLedgerRepository
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
	notifier    StockNotifier
	log         *logger.Logger
	now         func() time.Time
}

// NewLedgerUseCase construye el caso de uso. notifier y log pueden ser nil.
func NewLedgerUseCase(
	txRunner TxRunner,
	ledgerRepo repository.StockLedgerRepository,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	notifier StockNotifier,
	log *logger.Logger,
) *LedgerUseCase {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner:    txRunner,
		ledgerRepo:  ledgerRepo,
		movRepo:     movRepo,
		productRepo: productRepo,
		notifier:    notifier,
		log:         log.Named("inventory"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ProvisionInTx crea el libro (cantidad 0) de un producto recién creado usando
// el repositorio de la transacción del llamador.
func (uc *LedgerUseCase) ProvisionInTx(ctx context.Context, ledgerRepo repository.StockLedgerRepository, productID, location string) (*inv.Ledger, error) {
	ledger, err := inv.NewLedger(productID, location, uc.now())
	if err != nil {
		return nil, err
	}
	if err := ledgerRepo.Create(ctx, ledger); err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", productID).Str("ledger_id", ledger.ID()).Msg("inventario creado")
	return ledger, nil
}

// RegisterEntry suma quantity a la existencia del producto.
func (uc *LedgerUseCase) RegisterEntry(ctx context.Context, actor Actor, productID string, in dto.MovementRequest) (*dto.MovementResultResponse, error) {
	return uc.mutate(ctx, actor, productID, CauseEntry, func(p *entity.Product, l *inv.Ledger, now time.Time) (*inv.Movement, error) {
		if !p.Status.IsActive() {
			return nil, domain.ErrInactive
		}
		return l.RegisterEntry(in.Quantity, in.Reason, actor.UserID, now)
	})
}

// RegisterExit resta quantity de la existencia; falla con InsufficientStock si no alcanza.
func (uc *LedgerUseCase) RegisterExit(ctx context.Context, actor Actor, productID string, in dto.MovementRequest) (*dto.MovementResultResponse, error) {
	return uc.mutate(ctx, actor, productID, CauseExit, func(_ *entity.Product, l *inv.Ledger, now time.Time) (*inv.Movement, error) {
		return l.RegisterExit(in.Quantity, in.Reason, actor.UserID, now)
	})
}

// AdjustTo lleva la existencia a in.Target. Si ya coincide no se crea movimiento.
func (uc *LedgerUseCase) AdjustTo(ctx context.Context, actor Actor, productID string, in dto.AdjustmentRequest) (*dto.MovementResultResponse, error) {
	if in.Target == nil {
		return nil, domain.NewValidationError("target", "la cantidad objetivo es obligatoria")
	}
	return uc.mutate(ctx, actor, productID, CauseAdjustment, func(p *entity.Product, l *inv.Ledger, now time.Time) (*inv.Movement, error) {
		// Un producto inactivo solo admite ajustes a la baja.
		if !p.Status.IsActive() && *in.Target > l.Quantity() {
			return nil, domain.ErrInactive
		}
		return l.AdjustTo(*in.Target, in.Reason, actor.UserID, now)
	})
}

type ledgerOp func(p *entity.Product, l *inv.Ledger, now time.Time) (*inv.Movement, error)

func (uc *LedgerUseCase) mutate(ctx context.Context, actor Actor, productID, cause string, op ledgerOp) (*dto.MovementResultResponse, error) {
	if !actor.Role.CanWrite() {
		return nil, domain.ErrForbidden
	}
	var (
		product *entity.Product
		ledger  *inv.Ledger
		mov     *inv.Movement
	)
	err := uc.txRunner.Run(ctx, func(
		ledgerRepo repository.StockLedgerRepository,
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		p, err := productRepo.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		// Bloquea la fila del libro hasta el commit para evitar lecturas obsoletas.
		l, err := ledgerRepo.GetByProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if l == nil {
			return domain.ErrNotFound
		}
		m, err := op(p, l, uc.now())
		if err != nil {
			return err
		}
		product, ledger, mov = p, l, m
		if m == nil {
			return nil
		}
		if err := movRepo.Append(ctx, m); err != nil {
			return err
		}
		return ledgerRepo.Update(ctx, l)
	})
	if err != nil {
		return nil, err
	}

	out := &dto.MovementResultResponse{Ledger: toLedgerResponse(ledger, product)}
	if mov != nil {
		m := toMovementResponse(mov)
		out.Movement = &m
		uc.publish(cause, product, ledger, mov)
	}
	return out, nil
}

// SetLocation actualiza la ubicación física del producto. No genera movimiento.
func (uc *LedgerUseCase) SetLocation(ctx context.Context, actor Actor, productID string, in dto.LocationRequest) (*dto.LedgerResponse, error) {
	if !actor.Role.CanWrite() {
		return nil, domain.ErrForbidden
	}
	var (
		product *entity.Product
		ledger  *inv.Ledger
	)
	err := uc.txRunner.Run(ctx, func(
		ledgerRepo repository.StockLedgerRepository,
		_ repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		p, err := productRepo.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		l, err := ledgerRepo.GetByProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if l == nil {
			return domain.ErrNotFound
		}
		if err := l.SetLocation(in.Location, uc.now()); err != nil {
			return err
		}
		product, ledger = p, l
		return ledgerRepo.Update(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	uc.publish(CauseLocation, product, ledger, nil)
	out := toLedgerResponse(ledger, product)
	return &out, nil
}

// DeleteMovement corrección administrativa: elimina un movimiento y recalcula la
// existencia con los movimientos restantes en la misma transacción. Solo
// administradores. Falla con InsufficientStock si el saldo quedaría negativo.
func (uc *LedgerUseCase) DeleteMovement(ctx context.Context, actor Actor, movementID string) (*dto.LedgerResponse, error) {
	if actor.Role != entity.RoleAdministrator {
		return nil, domain.ErrForbidden
	}
	var (
		product *entity.Product
		ledger  *inv.Ledger
		removed *inv.Movement
		before  int64
	)
	err := uc.txRunner.Run(ctx, func(
		ledgerRepo repository.StockLedgerRepository,
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		m, err := movRepo.GetByID(ctx, movementID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		l, err := ledgerRepo.GetByIDForUpdate(ctx, m.LedgerID())
		if err != nil {
			return err
		}
		if l == nil {
			return domain.ErrNotFound
		}
		p, err := productRepo.GetByID(ctx, l.ProductID())
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		before = l.Quantity()
		if err := movRepo.Delete(ctx, m.ID()); err != nil {
			return err
		}
		remaining, err := movRepo.ListByLedger(ctx, l.ID(), 0, 0)
		if err != nil {
			return err
		}
		if err := l.Reconcile(remaining, uc.now()); err != nil {
			return err
		}
		product, ledger, removed = p, l, m
		return ledgerRepo.Update(ctx, l)
	})
	if err != nil {
		var ise *domain.InsufficientStockError
		if errors.As(err, &ise) {
			uc.log.Warn().Str("movement_id", movementID).Str("actor_id", actor.UserID).Err(err).
				Msg("corrección rechazada: la existencia quedaría negativa")
		}
		return nil, err
	}

	uc.log.Warn().
		Str("actor_id", actor.UserID).
		Str("movement_id", removed.ID()).
		Str("kind", string(removed.Kind())).
		Int64("movement_quantity", removed.Quantity()).
		Str("product_id", product.ID).
		Int64("quantity_before", before).
		Int64("quantity_after", ledger.Quantity()).
		Msg("corrección administrativa: movimiento eliminado")

	uc.publish(CauseCorrection, product, ledger, removed)
	out := toLedgerResponse(ledger, product)
	return &out, nil
}

// Get devuelve la existencia actual de un producto.
func (uc *LedgerUseCase) Get(ctx context.Context, productID string) (*dto.LedgerResponse, error) {
	product, ledger, err := uc.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := toLedgerResponse(ledger, product)
	return &out, nil
}

// History devuelve los movimientos del producto en orden cronológico ascendente.
func (uc *LedgerUseCase) History(ctx context.Context, productID string, page dto.PageRequest) (*dto.MovementHistoryResponse, error) {
	page.DefaultPage()
	product, ledger, err := uc.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	movs, err := uc.movRepo.ListByLedger(ctx, ledger.ID(), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.movRepo.CountByLedger(ctx, ledger.ID())
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementHistoryResponse{
		Ledger: toLedgerResponse(ledger, product),
		Items:  items,
		Page:   dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// List lista el inventario (opcionalmente de una empresa) con su clasificación.
func (uc *LedgerUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.LedgerListResponse, error) {
	return uc.list(ctx, repository.LedgerFilter{CompanyID: companyID}, page)
}

// RestockList lista los productos con existencia en o por debajo del mínimo.
func (uc *LedgerUseCase) RestockList(ctx context.Context, companyID string, page dto.PageRequest) (*dto.LedgerListResponse, error) {
	return uc.list(ctx, repository.LedgerFilter{CompanyID: companyID, OnlyRestock: true}, page)
}

func (uc *LedgerUseCase) list(ctx context.Context, filter repository.LedgerFilter, page dto.PageRequest) (*dto.LedgerListResponse, error) {
	page.DefaultPage()
	filter.Limit, filter.Offset = page.Limit, page.Offset
	views, err := uc.ledgerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.ledgerRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LedgerResponse, 0, len(views))
	for _, v := range views {
		items = append(items, toLedgerViewResponse(v))
	}
	return &dto.LedgerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func (uc *LedgerUseCase) load(ctx context.Context, productID string) (*entity.Product, *inv.Ledger, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	ledger, err := uc.ledgerRepo.GetByProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if ledger == nil {
		return nil, nil, domain.ErrNotFound
	}
	return product, ledger, nil
}

func (uc *LedgerUseCase) publish(cause string, p *entity.Product, l *inv.Ledger, m *inv.Movement) {
	ev := StockEvent{
		Type:        "stock_update",
		Cause:       cause,
		ProductID:   p.ID,
		ProductCode: p.Code,
		LedgerID:    l.ID(),
		Quantity:    l.Quantity(),
		State:       string(l.StockState(p.MinimumStock)),
		At:          l.UpdatedAt(),
	}
	if m != nil {
		ev.MovementID = m.ID()
		ev.Delta = m.SignedQuantity()
		if cause == CauseCorrection {
			ev.Delta = -ev.Delta
		}
	}
	uc.notifier.PublishStockUpdate(ev)
}
