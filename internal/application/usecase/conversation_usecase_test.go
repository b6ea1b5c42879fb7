package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/litethinking-inventario/internal/application/dto"
	"github.com/jhoicas/litethinking-inventario/internal/application/inventory"
	"github.com/jhoicas/litethinking-inventario/internal/application/usecase"
	"github.com/jhoicas/litethinking-inventario/internal/domain"
	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
	"github.com/jhoicas/litethinking-inventario/internal/infrastructure/memory"
)

var (
	ana     = inventory.Actor{UserID: "33333333-3333-3333-3333-333333333333", Role: entity.RoleReadOnlyViewer}
	luis    = inventory.Actor{UserID: "44444444-4444-4444-4444-444444444444", Role: entity.RoleReadOnlyViewer}
	jefa    = inventory.Actor{UserID: "55555555-5555-5555-5555-555555555555", Role: entity.RoleAdministrator}
	ninguno = inventory.Actor{}
)

func newConversations() *usecase.ConversationUseCase {
	return usecase.NewConversationUseCase(memory.NewStore().Conversations())
}

func TestConversationUseCase_PrimerMensajeGeneraTitulo(t *testing.T) {
	ctx := context.Background()
	uc := newConversations()
	question := "¿Qué productos de Lite Thinking SAS están por debajo del stock mínimo esta semana?"

	conv, err := uc.Create(ctx, ana, dto.CreateConversationRequest{Message: question})
	require.NoError(t, err)
	assert.Equal(t, []rune(question)[:50], []rune(conv.Title))
	assert.True(t, conv.Active)
	require.NotNil(t, conv.Messages)
	assert.Equal(t, 1, conv.Messages.User)

	_, err = uc.AddMessage(ctx, ana, conv.ID, dto.MessageRequest{Role: "assistant", Content: "Laptop y Mouse."})
	require.NoError(t, err)
	_, err = uc.AddMessage(ctx, ana, conv.ID, dto.MessageRequest{Content: "gracias"})
	require.NoError(t, err)

	h, err := uc.Messages(ctx, ana, conv.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, h.Items, 3)
	assert.Equal(t, question, h.Items[0].Content)
	assert.Equal(t, "assistant", h.Items[1].Role)
	assert.Equal(t, "user", h.Items[2].Role)
	assert.Equal(t, 3, h.Page.Total)
	assert.Equal(t, dto.MessageCountsResponse{Total: 3, User: 2, Assistant: 1}, *h.Conversation.Messages)
	assert.Equal(t, conv.Title, h.Conversation.Title)
}

func TestConversationUseCase_TituloExplicitoSeConserva(t *testing.T) {
	ctx := context.Background()
	uc := newConversations()
	conv, err := uc.Create(ctx, ana, dto.CreateConversationRequest{Title: "Cierre de mes", Message: "hola"})
	require.NoError(t, err)
	assert.Equal(t, "Cierre de mes", conv.Title)

	renamed, err := uc.Rename(ctx, ana, conv.ID, dto.RenameConversationRequest{Title: "Cierre de marzo"})
	require.NoError(t, err)
	assert.Equal(t, "Cierre de marzo", renamed.Title)

	_, err = uc.Create(ctx, ana, dto.CreateConversationRequest{Message: strings.Repeat("a", 5001)})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestConversationUseCase_ArchivadaNoAdmiteMensajes(t *testing.T) {
	ctx := context.Background()
	uc := newConversations()
	conv, err := uc.Create(ctx, ana, dto.CreateConversationRequest{})
	require.NoError(t, err)
	assert.Empty(t, conv.Title)

	archived, err := uc.Archive(ctx, ana, conv.ID)
	require.NoError(t, err)
	assert.False(t, archived.Active)

	_, err = uc.AddMessage(ctx, ana, conv.ID, dto.MessageRequest{Content: "¿sigues ahí?"})
	assert.True(t, errors.Is(err, domain.ErrInactive))

	_, err = uc.Reactivate(ctx, ana, conv.ID)
	require.NoError(t, err)
	msg, err := uc.AddMessage(ctx, ana, conv.ID, dto.MessageRequest{Content: "¿sigues ahí?"})
	require.NoError(t, err)
	assert.Equal(t, "user", msg.Role)

	got, err := uc.Get(ctx, ana, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "¿sigues ahí?", got.Title)
}

func TestConversationUseCase_Acceso(t *testing.T) {
	ctx := context.Background()
	uc := newConversations()
	conv, err := uc.Create(ctx, ana, dto.CreateConversationRequest{Message: "hola"})
	require.NoError(t, err)

	_, err = uc.Get(ctx, luis, conv.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	_, err = uc.AddMessage(ctx, luis, conv.ID, dto.MessageRequest{Content: "intruso"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	// el administrador lee, pero no escribe en conversaciones ajenas
	_, err = uc.Get(ctx, jefa, conv.ID)
	require.NoError(t, err)
	assert.True(t, errors.Is(uc.Delete(ctx, jefa, conv.ID), domain.ErrForbidden))

	_, err = uc.Create(ctx, ninguno, dto.CreateConversationRequest{})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = uc.Get(ctx, ana, "66666666-6666-6666-6666-666666666666")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = uc.AddMessage(ctx, ana, conv.ID, dto.MessageRequest{Role: "system", Content: "x"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestConversationUseCase_ListadoYEliminacion(t *testing.T) {
	ctx := context.Background()
	uc := newConversations()
	first, err := uc.Create(ctx, ana, dto.CreateConversationRequest{Message: "primera"})
	require.NoError(t, err)
	second, err := uc.Create(ctx, ana, dto.CreateConversationRequest{Message: "segunda"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, luis, dto.CreateConversationRequest{Message: "de luis"})
	require.NoError(t, err)
	_, err = uc.Archive(ctx, ana, second.ID)
	require.NoError(t, err)

	mine, err := uc.List(ctx, ana, dto.ConversationFilterRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, mine.Page.Total)

	active, err := uc.List(ctx, ana, dto.ConversationFilterRequest{Status: "active"})
	require.NoError(t, err)
	require.Len(t, active.Items, 1)
	assert.Equal(t, first.ID, active.Items[0].ID)

	_, err = uc.List(ctx, ana, dto.ConversationFilterRequest{UserID: luis.UserID})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	all, err := uc.List(ctx, jefa, dto.ConversationFilterRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Page.Total)
	ofLuis, err := uc.List(ctx, jefa, dto.ConversationFilterRequest{UserID: luis.UserID})
	require.NoError(t, err)
	assert.Equal(t, 1, ofLuis.Page.Total)

	require.NoError(t, uc.Delete(ctx, ana, first.ID))
	_, err = uc.Messages(ctx, ana, first.ID, dto.PageRequest{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
