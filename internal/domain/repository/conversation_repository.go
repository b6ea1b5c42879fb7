package repository

import (
	"context"

	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
)

// ConversationRepository persiste el historial de chat de los usuarios.
// Eliminar una conversación elimina sus mensajes.
type ConversationRepository interface {
	Create(ctx context.Context, c *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	Update(ctx context.Context, c *entity.Conversation) error
	Delete(ctx context.Context, id string) error
	// List ordena por última actividad, la más reciente primero.
	List(ctx context.Context, filter ConversationFilter) ([]*entity.Conversation, error)
	Count(ctx context.Context, filter ConversationFilter) (int, error)

	// AddMessage guarda m y el nuevo estado de c (título, actividad) de forma atómica.
	AddMessage(ctx context.Context, c *entity.Conversation, m *entity.Message) error
	// ListMessages devuelve los mensajes en orden cronológico. limit <= 0 no limita.
	ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]*entity.Message, error)
	CountMessages(ctx context.Context, conversationID string) (MessageCounts, error)
}

// ConversationFilter filtros del listado de conversaciones.
type ConversationFilter struct {
	UserID string // vacío: todos los usuarios
	Active *bool  // nil: activas y archivadas
	Limit  int
	Offset int
}

// MessageCounts número de mensajes por autor.
type MessageCounts struct {
	Total     int
	User      int
	Assistant int
}
