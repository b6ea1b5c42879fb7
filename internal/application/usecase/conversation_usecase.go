package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/litethinking-inventario/internal/application/dto"
	"github.com/jhoicas/litethinking-inventario/internal/application/inventory"
	"github.com/jhoicas/litethinking-inventario/internal/domain"
	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
	"github.com/jhoicas/litethinking-inventario/internal/domain/repository"
)

// ConversationUseCase registra el historial de chat del asistente. Cada usuario
// ve y escribe solo sus conversaciones; el administrador puede consultarlas todas.
type ConversationUseCase struct {
	repo repository.ConversationRepository
	now  func() time.Time
}

// NewConversationUseCase construye el caso de uso con el puerto de persistencia.
func NewConversationUseCase(repo repository.ConversationRepository) *ConversationUseCase {
	return &ConversationUseCase{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Create abre una conversación. Si in.Message no está vacío se registra como
// primer mensaje del usuario y, sin título explícito, lo genera.
func (uc *ConversationUseCase) Create(ctx context.Context, actor inventory.Actor, in dto.CreateConversationRequest) (*dto.ConversationResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	now := uc.now()
	conv := &entity.Conversation{
		ID:        uuid.New().String(),
		UserID:    actor.UserID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := conv.SetTitle(in.Title); err != nil {
		return nil, err
	}
	var first *entity.Message
	if in.Message != "" {
		m, err := entity.NewMessage(uuid.New().String(), conv.ID, entity.MessageRoleUser, in.Message, now)
		if err != nil {
			return nil, err
		}
		first = m
	}
	if err := uc.repo.Create(ctx, conv); err != nil {
		return nil, err
	}
	if first != nil {
		conv.Record(first)
		if err := uc.repo.AddMessage(ctx, conv, first); err != nil {
			return nil, err
		}
	}
	return uc.withCounts(ctx, conv)
}

// Get devuelve la conversación con el conteo de mensajes por autor.
func (uc *ConversationUseCase) Get(ctx context.Context, actor inventory.Actor, id string) (*dto.ConversationResponse, error) {
	conv, err := uc.get(ctx, actor, id, false)
	if err != nil {
		return nil, err
	}
	return uc.withCounts(ctx, conv)
}

// List pagina conversaciones, la de actividad más reciente primero.
func (uc *ConversationUseCase) List(ctx context.Context, actor inventory.Actor, in dto.ConversationFilterRequest) (*dto.ConversationListResponse, error) {
	in.DefaultPage()
	filter := repository.ConversationFilter{UserID: in.UserID, Limit: in.Limit, Offset: in.Offset}
	if actor.Role != entity.RoleAdministrator {
		if in.UserID != "" && in.UserID != actor.UserID {
			return nil, domain.ErrForbidden
		}
		filter.UserID = actor.UserID
	}
	switch in.Status {
	case "active":
		active := true
		filter.Active = &active
	case "archived":
		active := false
		filter.Active = &active
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ConversationResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toConversationResponse(c))
	}
	return &dto.ConversationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Rename cambia el título de la conversación.
func (uc *ConversationUseCase) Rename(ctx context.Context, actor inventory.Actor, id string, in dto.RenameConversationRequest) (*dto.ConversationResponse, error) {
	conv, err := uc.get(ctx, actor, id, true)
	if err != nil {
		return nil, err
	}
	if err := conv.SetTitle(in.Title); err != nil {
		return nil, err
	}
	conv.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, conv); err != nil {
		return nil, err
	}
	return uc.withCounts(ctx, conv)
}

// AddMessage agrega un mensaje. Una conversación archivada no admite mensajes.
func (uc *ConversationUseCase) AddMessage(ctx context.Context, actor inventory.Actor, id string, in dto.MessageRequest) (*dto.ChatMessageResponse, error) {
	conv, err := uc.get(ctx, actor, id, true)
	if err != nil {
		return nil, err
	}
	if !conv.Active {
		return nil, domain.ErrInactive
	}
	role, err := entity.ParseMessageRole(in.Role)
	if err != nil {
		return nil, domain.NewValidationError("role", err.Error())
	}
	m, err := entity.NewMessage(uuid.New().String(), conv.ID, role, in.Content, uc.now())
	if err != nil {
		return nil, err
	}
	conv.Record(m)
	if err := uc.repo.AddMessage(ctx, conv, m); err != nil {
		return nil, err
	}
	out := toChatMessageResponse(m)
	return &out, nil
}

// Messages devuelve el historial en orden de llegada.
func (uc *ConversationUseCase) Messages(ctx context.Context, actor inventory.Actor, id string, page dto.PageRequest) (*dto.ChatHistoryResponse, error) {
	page.DefaultPage()
	conv, err := uc.get(ctx, actor, id, false)
	if err != nil {
		return nil, err
	}
	msgs, err := uc.repo.ListMessages(ctx, conv.ID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	head, err := uc.withCounts(ctx, conv)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ChatMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, toChatMessageResponse(m))
	}
	return &dto.ChatHistoryResponse{
		Conversation: *head,
		Items:        items,
		Page:         dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: head.Messages.Total},
	}, nil
}

// Archive saca la conversación de la lista activa.
func (uc *ConversationUseCase) Archive(ctx context.Context, actor inventory.Actor, id string) (*dto.ConversationResponse, error) {
	return uc.setActive(ctx, actor, id, false)
}

// Reactivate devuelve una conversación archivada a la lista activa.
func (uc *ConversationUseCase) Reactivate(ctx context.Context, actor inventory.Actor, id string) (*dto.ConversationResponse, error) {
	return uc.setActive(ctx, actor, id, true)
}

// Delete elimina la conversación y sus mensajes.
func (uc *ConversationUseCase) Delete(ctx context.Context, actor inventory.Actor, id string) error {
	conv, err := uc.get(ctx, actor, id, true)
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, conv.ID)
}

func (uc *ConversationUseCase) setActive(ctx context.Context, actor inventory.Actor, id string, active bool) (*dto.ConversationResponse, error) {
	conv, err := uc.get(ctx, actor, id, true)
	if err != nil {
		return nil, err
	}
	if conv.Active != active {
		if active {
			conv.Reactivate(uc.now())
		} else {
			conv.Archive(uc.now())
		}
		if err := uc.repo.Update(ctx, conv); err != nil {
			return nil, err
		}
	}
	return uc.withCounts(ctx, conv)
}

// get carga la conversación y verifica el acceso. Escribir exige ser el dueño;
// leer también lo permite al administrador.
func (uc *ConversationUseCase) get(ctx context.Context, actor inventory.Actor, id string, write bool) (*entity.Conversation, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	conv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, domain.ErrNotFound
	}
	if conv.UserID == actor.UserID {
		return conv, nil
	}
	if !write && actor.Role == entity.RoleAdministrator {
		return conv, nil
	}
	return nil, domain.ErrForbidden
}

func (uc *ConversationUseCase) withCounts(ctx context.Context, conv *entity.Conversation) (*dto.ConversationResponse, error) {
	n, err := uc.repo.CountMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	out := toConversationResponse(conv)
	out.Messages = &dto.MessageCountsResponse{Total: n.Total, User: n.User, Assistant: n.Assistant}
	return out, nil
}

func toConversationResponse(c *entity.Conversation) *dto.ConversationResponse {
	return &dto.ConversationResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toChatMessageResponse(m *entity.Message) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           string(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}
