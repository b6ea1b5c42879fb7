package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/litethinking-inventario/internal/application/dto"
	"github.com/jhoicas/litethinking-inventario/internal/application/inventory"
)

// InventoryHandler existencias y movimientos (protegido).
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterEntry godoc
// @Summary      Registrar entrada de inventario
// @Description  Suma unidades al libro del producto y registra el movimiento en la misma transacción.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        product_id  path      string               true  "ID del producto"
// @Param        body        body      dto.MovementRequest  true  "Cantidad y motivo"
// @Success      201         {object}  dto.MovementResultResponse
// @Failure      400         {object}  dto.ValidationErrorResponse
// @Failure      403         {object}  dto.ErrorResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Failure      409         {object}  dto.ErrorResponse
// @Router       /api/inventory/{product_id}/entries [post]
func (h *InventoryHandler) RegisterEntry(c *fiber.Ctx) error {
	productID, ok, err := uuidParam(c, "product_id")
	if !ok {
		return err
	}
	var in dto.MovementRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.RegisterEntry(c.UserContext(), actorFrom(c), productID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RegisterExit godoc
// @Summary      Registrar salida de inventario
// @Description  Resta unidades; falla con INSUFFICIENT_STOCK si la existencia no alcanza.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        product_id  path      string               true  "ID del producto"
// @Param        body        body      dto.MovementRequest  true  "Cantidad y motivo"
// @Success      201         {object}  dto.MovementResultResponse
// @Failure      400         {object}  dto.ValidationErrorResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Failure      409         {object}  dto.StockErrorResponse
// @Router       /api/inventory/{product_id}/exits [post]
func (h *InventoryHandler) RegisterExit(c *fiber.Ctx) error {
	productID, ok, err := uuidParam(c, "product_id")
	if !ok {
		return err
	}
	var in dto.MovementRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.RegisterExit(c.UserContext(), actorFrom(c), productID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Adjust godoc
// @Summary      Ajustar existencia
// @Description  Lleva la existencia a target registrando la diferencia como entrada o salida. Sin diferencia no se crea movimiento.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        product_id  path      string                 true  "ID del producto"
// @Param        body        body      dto.AdjustmentRequest  true  "Cantidad final y motivo"
// @Success      200         {object}  dto.MovementResultResponse
// @Failure      400         {object}  dto.ValidationErrorResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/inventory/{product_id}/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	productID, ok, err := uuidParam(c, "product_id")
	if !ok {
		return err
	}
	var in dto.AdjustmentRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.AdjustTo(c.UserContext(), actorFrom(c), productID, in)
	if err != nil {
		return respondError(c, err)
	}
	if out.Movement != nil {
		return c.Status(fiber.StatusCreated).JSON(out)
	}
	return c.JSON(out)
}

// SetLocation godoc
// @Summary      Cambiar ubicación
// @Description  Actualiza la ubicación del libro sin registrar movimiento.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        product_id  path      string               true  "ID del producto"
// @Param        body        body      dto.LocationRequest  true  "Nueva ubicación"
// @Success      200         {object}  dto.LedgerResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/inventory/{product_id}/location [patch]
func (h *InventoryHandler) SetLocation(c *fiber.Ctx) error {
	productID, ok, err := uuidParam(c, "product_id")
	if !ok {
		return err
	}
	var in dto.LocationRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetLocation(c.UserContext(), actorFrom(c), productID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteMovement godoc
// @Summary      Eliminar movimiento (corrección administrativa)
// @Description  Elimina el movimiento y recalcula la existencia con los restantes.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del movimiento"
// @Success      200  {object}  dto.LedgerResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.StockErrorResponse
// @Router       /api/inventory/movements/{id} [delete]
func (h *InventoryHandler) DeleteMovement(c *fiber.Ctx) error {
	id, ok, err := uuidParam(c, "id")
	if !ok {
		return err
	}
	out, err := h.uc.DeleteMovement(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Existencia de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  path      string  true  "ID del producto"
// @Success      200         {object}  dto.LedgerResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/inventory/{product_id} [get]
func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	productID, ok, err := uuidParam(c, "product_id")
	if !ok {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  path      string  true   "ID del producto"
// @Param        limit       query     int     false  "Límite (1-100)"
// @Param        offset      query     int     false  "Desplazamiento"
// @Success      200         {object}  dto.MovementHistoryResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/inventory/{product_id}/movements [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	productID, ok, err := uuidParam(c, "product_id")
	if !ok {
		return err
	}
	page, ok, err := pageQuery(c)
	if !ok {
		return err
	}
	out, err := h.uc.History(c.UserContext(), productID, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        company_id  query     string  false  "Filtrar por empresa"
// @Param        limit       query     int     false  "Límite (1-100)"
// @Param        offset      query     int     false  "Desplazamiento"
// @Success      200         {object}  dto.LedgerListResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	companyID, ok, err := companyQuery(c)
	if !ok {
		return err
	}
	page, ok, err := pageQuery(c)
	if !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), companyID, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Restock godoc
// @Summary      Productos por reabastecer
// @Description  Libros con cantidad menor o igual al stock mínimo del producto.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        company_id  query     string  false  "Filtrar por empresa"
// @Param        limit       query     int     false  "Límite (1-100)"
// @Param        offset      query     int     false  "Desplazamiento"
// @Success      200         {object}  dto.LedgerListResponse
// @Router       /api/inventory/restock [get]
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	companyID, ok, err := companyQuery(c)
	if !ok {
		return err
	}
	page, ok, err := pageQuery(c)
	if !ok {
		return err
	}
	out, err := h.uc.RestockList(c.UserContext(), companyID, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// companyQuery lee ?company_id= opcional; vacío lista todas las empresas.
func companyQuery(c *fiber.Ctx) (string, bool, error) {
	id := c.Query("company_id")
	if id == "" {
		return "", true, nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "company_id no es un UUID válido"})
	}
	return id, true, nil
}
