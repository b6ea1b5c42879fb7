package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/litethinking-inventario/internal/application/dto"
	"github.com/jhoicas/litethinking-inventario/internal/application/usecase"
)

// ConversationHandler historial de chat del asistente. Cualquier usuario
// autenticado gestiona sus propias conversaciones.
type ConversationHandler struct {
	uc *usecase.ConversationUseCase
}

// NewConversationHandler construye el handler.
func NewConversationHandler(uc *usecase.ConversationUseCase) *ConversationHandler {
	return &ConversationHandler{uc: uc}
}

// Create godoc
// @Summary      Abrir conversación
// @Description  Si se envía message queda como primer mensaje del usuario y, sin title, sus
//               primeros 50 caracteres se usan como título.
// @Tags         conversations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateConversationRequest  true  "Título y primer mensaje (opcionales)"
// @Success      201   {object}  dto.ConversationResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/conversations [post]
func (h *ConversationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateConversationRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar conversaciones
// @Description  Más reciente primero. user_id solo lo puede usar un administrador.
// @Tags         conversations
// @Security     Bearer
// @Produce      json
// @Param        status   query     string  false  "active | archived"
// @Param        user_id  query     string  false  "ID del usuario (administrador)"
// @Param        limit    query     int     false  "Límite (1-100)"
// @Param        offset   query     int     false  "Desplazamiento"
// @Success      200      {object}  dto.ConversationListResponse
// @Failure      403      {object}  dto.ErrorResponse
// @Router       /api/conversations [get]
func (h *ConversationHandler) List(c *fiber.Ctx) error {
	var in dto.ConversationFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	in.DefaultPage()
	if ok, err := validated(c, &in); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener conversación
// @Tags         conversations
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la conversación"
// @Success      200  {object}  dto.ConversationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/conversations/{id} [get]
func (h *ConversationHandler) Get(c *fiber.Ctx) error {
	id, ok, err := uuidParam(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Rename godoc
// @Summary      Renombrar conversación
// @Tags         conversations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                         true  "ID de la conversación"
// @Param        body  body      dto.RenameConversationRequest  true  "Nuevo título"
// @Success      200   {object}  dto.ConversationResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/conversations/{id} [patch]
func (h *ConversationHandler) Rename(c *fiber.Ctx) error {
	id, ok, err := uuidParam(c, "id")
	if !ok {
		return err
	}
	var in dto.RenameConversationRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Rename(c.UserContext(), actorFrom(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar conversación
// @Description  Elimina la conversación y todos sus mensajes.
// @Tags         conversations
// @Security     Bearer
// @Param        id   path  string  true  "ID de la conversación"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/conversations/{id} [delete]
func (h *ConversationHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := uuidParam(c, "id")
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), actorFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Archive godoc
// @Summary      Archivar conversación
// @Tags         conversations
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la conversación"
// @Success      200  {object}  dto.ConversationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/conversations/{id}/archive [post]
func (h *ConversationHandler) Archive(c *fiber.Ctx) error {
	id, ok, err := uuidParam(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.Archive(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reactivate godoc
// @Summary      Reactivar conversación archivada
// @Tags         conversations
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la conversación"
// @Success      200  {object}  dto.ConversationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/conversations/{id}/reactivate [post]
func (h *ConversationHandler) Reactivate(c *fiber.Ctx) error {
	id, ok, err := uuidParam(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.Reactivate(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddMessage godoc
// @Summary      Agregar mensaje
// @Description  role vacío equivale a user. Una conversación archivada responde 409 INACTIVE.
// @Tags         conversations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "ID de la conversación"
// @Param        body  body      dto.MessageRequest  true  "Autor y contenido (máx. 5000 caracteres)"
// @Success      201   {object}  dto.ChatMessageResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/conversations/{id}/messages [post]
func (h *ConversationHandler) AddMessage(c *fiber.Ctx) error {
	id, ok, err := uuidParam(c, "id")
	if !ok {
		return err
	}
	var in dto.MessageRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddMessage(c.UserContext(), actorFrom(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Messages godoc
// @Summary      Historial de mensajes
// @Description  Mensajes en orden de llegada junto con el conteo por autor.
// @Tags         conversations
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true   "ID de la conversación"
// @Param        limit   query     int     false  "Límite (1-100)"
// @Param        offset  query     int     false  "Desplazamiento"
// @Success      200     {object}  dto.ChatHistoryResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/conversations/{id}/messages [get]
func (h *ConversationHandler) Messages(c *fiber.Ctx) error {
	id, ok, err := uuidParam(c, "id")
	if !ok {
		return err
	}
	page, ok, err := pageQuery(c)
	if !ok {
		return err
	}
	out, err := h.uc.Messages(c.UserContext(), actorFrom(c), id, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
