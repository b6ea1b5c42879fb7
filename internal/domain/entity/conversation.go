package entity

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/litethinking-inventario/internal/domain"
)

const (
	MaxConversationTitleLen = 200
	AutoTitleLen            = 50
	MaxMessageLen           = 5000
)

// MessageRole autor de un mensaje del historial del asistente.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// ParseMessageRole valida el rol textual. Vacío equivale a user.
func ParseMessageRole(s string) (MessageRole, error) {
	switch MessageRole(s) {
	case "", MessageRoleUser:
		return MessageRoleUser, nil
	case MessageRoleAssistant:
		return MessageRoleAssistant, nil
	}
	return "", fmt.Errorf("rol de mensaje desconocido %q", s)
}

// Conversation historial de chat de un usuario. Se ordena por última actividad.
type Conversation struct {
	ID        string
	UserID    string
	Title     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetTitle fija el título recortado. Vacío deja que el primer mensaje lo genere.
func (c *Conversation) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) > MaxConversationTitleLen {
		return domain.NewValidationError("title", fmt.Sprintf("el título no puede exceder %d caracteres", MaxConversationTitleLen))
	}
	c.Title = title
	return nil
}

// Record registra la actividad de m: actualiza UpdatedAt y, si aún no hay
// título y el mensaje es del usuario, toma sus primeros AutoTitleLen caracteres.
func (c *Conversation) Record(m *Message) {
	if c.Title == "" && m.Role == MessageRoleUser {
		c.Title = autoTitle(m.Content)
	}
	c.UpdatedAt = m.CreatedAt
}

// Archive marca la conversación como archivada.
func (c *Conversation) Archive(now time.Time) {
	c.Active = false
	c.UpdatedAt = now
}

// Reactivate devuelve una conversación archivada a la lista activa.
func (c *Conversation) Reactivate(now time.Time) {
	c.Active = true
	c.UpdatedAt = now
}

func autoTitle(content string) string {
	r := []rune(strings.TrimSpace(content))
	if len(r) > AutoTitleLen {
		r = r[:AutoTitleLen]
	}
	return strings.TrimSpace(string(r))
}

// Message entrada inmutable del historial.
type Message struct {
	ID             string
	ConversationID string
	Role           MessageRole
	Content        string
	CreatedAt      time.Time
}

// NewMessage valida el contenido: obligatorio y hasta MaxMessageLen caracteres.
func NewMessage(id, conversationID string, role MessageRole, content string, now time.Time) (*Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.NewValidationError("content", "el contenido del mensaje no puede estar vacío")
	}
	if utf8.RuneCountInString(content) > MaxMessageLen {
		return nil, domain.NewValidationError("content", fmt.Sprintf("el mensaje no puede exceder %d caracteres", MaxMessageLen))
	}
	return &Message{ID: id, ConversationID: conversationID, Role: role, Content: content, CreatedAt: now}, nil
}

// Preview primeros 100 caracteres del contenido, con "..." si se recorta.
func (m *Message) Preview() string {
	r := []rune(m.Content)
	if len(r) <= 100 {
		return m.Content
	}
	return string(r[:100]) + "..."
}
