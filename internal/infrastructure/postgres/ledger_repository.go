package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/litethinking-inventario/internal/domain"
	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
	inv "github.com/jhoicas/litethinking-inventario/internal/domain/inventory"
	"github.com/jhoicas/litethinking-inventario/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `id, product_id, quantity, location, created_at, updated_at`

// LedgerRepo implementación de StockLedgerRepository sobre PostgreSQL (usable con pool o tx).
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del libro de existencias. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Create inserta el libro de un producto (UNIQUE product_id).
func (r *LedgerRepo) Create(ctx context.Context, l *inv.Ledger) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_ledgers (`+ledgerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID(), l.ProductID(), l.Quantity(), l.Location(), l.CreatedAt(), l.UpdatedAt(),
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return fmt.Errorf("insert ledger: producto %s: %w", l.ProductID(), domain.ErrNotFound)
		}
		return fmt.Errorf("insert ledger: %w", err)
	}
	return nil
}

// GetByID obtiene un libro por ID.
func (r *LedgerRepo) GetByID(ctx context.Context, id string) (*inv.Ledger, error) {
	return r.getOne(ctx, `SELECT `+ledgerColumns+` FROM stock_ledgers WHERE id = $1`, id)
}

// GetByProduct obtiene el libro de un producto.
func (r *LedgerRepo) GetByProduct(ctx context.Context, productID string) (*inv.Ledger, error) {
	return r.getOne(ctx, `SELECT `+ledgerColumns+` FROM stock_ledgers WHERE product_id = $1`, productID)
}

// GetByProductForUpdate obtiene el libro y bloquea la fila (SELECT FOR UPDATE).
func (r *LedgerRepo) GetByProductForUpdate(ctx context.Context, productID string) (*inv.Ledger, error) {
	return r.getOne(ctx, `SELECT `+ledgerColumns+` FROM stock_ledgers WHERE product_id = $1 FOR UPDATE`, productID)
}

// GetByIDForUpdate obtiene el libro por ID y bloquea la fila.
func (r *LedgerRepo) GetByIDForUpdate(ctx context.Context, id string) (*inv.Ledger, error) {
	return r.getOne(ctx, `SELECT `+ledgerColumns+` FROM stock_ledgers WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste cantidad, ubicación y updated_at. El CHECK quantity >= 0 es la última barrera.
func (r *LedgerRepo) Update(ctx context.Context, l *inv.Ledger) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE stock_ledgers SET quantity = $2, location = $3, updated_at = $4
		WHERE id = $1`,
		l.ID(), l.Quantity(), l.Location(), l.UpdatedAt(),
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("update ledger: cantidad %d: %w", l.Quantity(), domain.ErrInvalidQuantity)
		}
		return fmt.Errorf("update ledger: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un libro; los movimientos lo protegen (ON DELETE RESTRICT).
func (r *LedgerRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_ledgers WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("delete ledger: tiene movimientos: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete ledger: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve los libros con los datos del producto, ordenados por código.
func (r *LedgerRepo) List(ctx context.Context, f repository.LedgerFilter) ([]repository.LedgerView, error) {
	where, args := ledgerWhere(f)
	query := `
		SELECT l.id, l.product_id, l.quantity, l.location, l.created_at, l.updated_at,
		       p.company_id, p.code, p.name, p.minimum_stock, p.status
		FROM stock_ledgers l
		JOIN products p ON p.id = l.product_id` + where + " ORDER BY p.code"
	query, args = paginate(query, args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledgers: %w", err)
	}
	defer rows.Close()

	var list []repository.LedgerView
	for rows.Next() {
		var (
			lr     ledgerRow
			v      repository.LedgerView
			status string
		)
		if err := rows.Scan(&lr.id, &lr.productID, &lr.quantity, &lr.location, &lr.createdAt, &lr.updatedAt,
			&v.CompanyID, &v.ProductCode, &v.ProductName, &v.MinimumStock, &status); err != nil {
			return nil, fmt.Errorf("scan ledger: %w", err)
		}
		v.Ledger = lr.toLedger()
		v.ProductStatus = entity.Status(status)
		list = append(list, v)
	}
	return list, rows.Err()
}

// Count cuenta los libros que cumplen el filtro, ignorando la paginación.
func (r *LedgerRepo) Count(ctx context.Context, f repository.LedgerFilter) (int, error) {
	where, args := ledgerWhere(f)
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock_ledgers l JOIN products p ON p.id = l.product_id`+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count ledgers: %w", err)
	}
	return n, nil
}

func ledgerWhere(f repository.LedgerFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.CompanyID != "" {
		args = append(args, f.CompanyID)
		where = append(where, fmt.Sprintf("p.company_id = $%d", len(args)))
	}
	if f.OnlyRestock {
		where = append(where, "l.quantity <= p.minimum_stock")
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

type ledgerRow struct {
	id        string
	productID string
	quantity  int64
	location  string
	createdAt time.Time
	updatedAt time.Time
}

func (lr ledgerRow) toLedger() *inv.Ledger {
	return inv.RestoreLedger(lr.id, lr.productID, lr.quantity, lr.location, lr.createdAt, lr.updatedAt)
}

func (r *LedgerRepo) getOne(ctx context.Context, query string, arg string) (*inv.Ledger, error) {
	var lr ledgerRow
	err := r.q.QueryRow(ctx, query, arg).Scan(&lr.id, &lr.productID, &lr.quantity, &lr.location, &lr.createdAt, &lr.updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger: %w", err)
	}
	return lr.toLedger(), nil
}

// paginate agrega LIMIT/OFFSET cuando limit > 0.
func paginate(query string, args []any, limit, offset int) (string, []any) {
	if limit <= 0 {
		if offset > 0 {
			args = append(args, offset)
			query += fmt.Sprintf(" OFFSET $%d", len(args))
		}
		return query, args
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return query, args
}
