package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/litethinking-inventario/internal/domain"
	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
	"github.com/jhoicas/litethinking-inventario/internal/domain/repository"
)

var _ repository.ConversationRepository = (*ConversationRepo)(nil)

const (
	conversationColumns = `id, user_id, title, active, created_at, updated_at`
	messageColumns      = `id, conversation_id, role, content, created_at`
)

// ConversationRepo historial de chat sobre PostgreSQL.
type ConversationRepo struct {
	q Querier
}

// NewConversationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConversationRepository(q Querier) *ConversationRepo {
	return &ConversationRepo{q: q}
}

// Create persiste una conversación nueva.
func (r *ConversationRepo) Create(ctx context.Context, c *entity.Conversation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO conversations (`+conversationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.UserID, c.Title, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return fmt.Errorf("insert conversation: usuario inexistente: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

// GetByID obtiene una conversación; (nil, nil) si no existe.
func (r *ConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	c, err := scanConversation(r.q.QueryRow(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return c, nil
}

// Update guarda título, estado y actividad.
func (r *ConversationRepo) Update(ctx context.Context, c *entity.Conversation) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE conversations SET title = $2, active = $3, updated_at = $4
		WHERE id = $1`,
		c.ID, c.Title, c.Active, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update conversation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la conversación; los mensajes caen por ON DELETE CASCADE.
func (r *ConversationRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List conversaciones del filtro, la de actividad más reciente primero.
func (r *ConversationRepo) List(ctx context.Context, f repository.ConversationFilter) ([]*entity.Conversation, error) {
	where, args := conversationWhere(f)
	query, args := paginate(`SELECT `+conversationColumns+` FROM conversations`+where+` ORDER BY updated_at DESC, id`, args, f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Count cuenta las conversaciones del filtro sin paginar.
func (r *ConversationRepo) Count(ctx context.Context, f repository.ConversationFilter) (int, error) {
	where, args := conversationWhere(f)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM conversations`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count conversations: %w", err)
	}
	return n, nil
}

// AddMessage inserta el mensaje y actualiza la conversación en una sola sentencia.
func (r *ConversationRepo) AddMessage(ctx context.Context, c *entity.Conversation, m *entity.Message) error {
	cmd, err := r.q.Exec(ctx, `
		WITH msg AS (
			INSERT INTO conversation_messages (`+messageColumns+`)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING conversation_id
		)
		UPDATE conversations SET title = $6, updated_at = $7
		WHERE id = (SELECT conversation_id FROM msg)`,
		m.ID, c.ID, string(m.Role), m.Content, m.CreatedAt, c.Title, c.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return fmt.Errorf("insert message: %w", domain.ErrNotFound)
		case isCheckViolation(err):
			return fmt.Errorf("insert message: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert message: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListMessages mensajes en orden de llegada.
func (r *ConversationRepo) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, error) {
	query, args := paginate(`
		SELECT `+messageColumns+` FROM conversation_messages
		WHERE conversation_id = $1
		ORDER BY seq`, []any{conversationID}, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()
	var list []*entity.Message
	for rows.Next() {
		var (
			m    entity.Message
			role string
		)
		if err := rows.Scan(&m.ID, &m.ConversationID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Role = entity.MessageRole(role)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// CountMessages totales por autor.
func (r *ConversationRepo) CountMessages(ctx context.Context, conversationID string) (repository.MessageCounts, error) {
	var n repository.MessageCounts
	err := r.q.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE role = 'user'),
		       count(*) FILTER (WHERE role = 'assistant')
		FROM conversation_messages WHERE conversation_id = $1`, conversationID,
	).Scan(&n.Total, &n.User, &n.Assistant)
	if err != nil {
		return n, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

func conversationWhere(f repository.ConversationFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.UserID != "" {
		args = append(args, f.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		where = append(where, fmt.Sprintf("active = $%d", len(args)))
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func scanConversation(row pgx.Row) (*entity.Conversation, error) {
	var c entity.Conversation
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
