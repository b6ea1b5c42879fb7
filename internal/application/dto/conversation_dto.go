package dto

import "time"

// CreateConversationRequest body para POST /api/conversations. Con Message
// la conversación nace con ese primer mensaje del usuario.
type CreateConversationRequest struct {
	Title   string `json:"title" validate:"max=200"`
	Message string `json:"message" validate:"max=5000"`
}

// RenameConversationRequest body para PATCH /api/conversations/:id.
type RenameConversationRequest struct {
	Title string `json:"title" validate:"notblank,max=200"`
}

// MessageRequest body para POST /api/conversations/:id/messages. Role vacío es user.
type MessageRequest struct {
	Role    string `json:"role" validate:"omitempty,oneof=user assistant"`
	Content string `json:"content" validate:"notblank,max=5000"`
}

// ConversationFilterRequest query de GET /api/conversations.
// UserID solo lo puede usar un administrador.
type ConversationFilterRequest struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=active archived"`
	UserID string `query:"user_id" validate:"omitempty,uuid"`
}

// MessageCountsResponse mensajes por autor.
type MessageCountsResponse struct {
	Total     int `json:"total"`
	User      int `json:"user"`
	Assistant int `json:"assistant"`
}

// ConversationResponse salida de una conversación.
type ConversationResponse struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Title     string                 `json:"title"`
	Active    bool                   `json:"active"`
	Messages  *MessageCountsResponse `json:"messages,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// ConversationListResponse lista paginada de conversaciones.
type ConversationListResponse struct {
	Items []ConversationResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// ChatMessageResponse mensaje del historial.
type ChatMessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ChatHistoryResponse conversación con sus mensajes en orden de llegada.
type ChatHistoryResponse struct {
	Conversation ConversationResponse  `json:"conversation"`
	Items        []ChatMessageResponse `json:"items"`
	Page         PageResponse          `json:"page"`
}
