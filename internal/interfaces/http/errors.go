package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/litethinking-inventario/internal/application/dto"
	"github.com/jhoicas/litethinking-inventario/internal/domain"
	"github.com/jhoicas/litethinking-inventario/pkg/validator"
)

// respondError traduce errores de dominio a respuestas HTTP. Lo que no es de
// dominio se registra y se devuelve como 500 sin detalles internos.
func respondError(c *fiber.Ctx, err error) error {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.StockErrorResponse{
			Code:      "INSUFFICIENT_STOCK",
			Message:   stockErr.Error(),
			Requested: stockErr.Requested,
			Available: stockErr.Available,
		})
	}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		body := dto.ValidationErrorResponse{Code: "VALIDATION", Message: vErr.Error()}
		if vErr.Field != "" {
			body.Fields = []dto.FieldErrorResponse{{Field: vErr.Field, Tag: vErr.Message}}
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}

	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidReason):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrInactive):
		status, code = fiber.StatusConflict, "INACTIVE"
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrStockNotEmpty):
		status, code = fiber.StatusConflict, "STOCK_NOT_EMPTY"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrConcurrencyConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrUnavailable):
		status, code = fiber.StatusServiceUnavailable, "UNAVAILABLE"
	}
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "error interno del servidor"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// bindBody parsea el cuerpo JSON y lo valida. Si devuelve false la respuesta ya fue escrita.
func bindBody(c *fiber.Ctx, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return validated(c, out)
}

// bindQuery parsea la query string y la valida.
func bindQuery(c *fiber.Ctx, out interface{}) (bool, error) {
	if err := c.QueryParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	return validated(c, out)
}

func validated(c *fiber.Ctx, out interface{}) (bool, error) {
	fields := validator.ValidateStruct(out)
	if len(fields) == 0 {
		return true, nil
	}
	body := dto.ValidationErrorResponse{Code: "VALIDATION", Message: fields[0].String()}
	for _, f := range fields {
		body.Fields = append(body.Fields, dto.FieldErrorResponse{Field: f.Field, Tag: f.Tag, Param: f.Param})
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(body)
}

// pageQuery lee limit/offset con valores por defecto.
func pageQuery(c *fiber.Ctx) (dto.PageRequest, bool, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	ok, err := validated(c, &page)
	return page, ok, err
}

// uuidParam lee un parámetro de ruta que debe ser un UUID.
func uuidParam(c *fiber.Ctx, name string) (string, bool, error) {
	id := c.Params(name)
	if id == "" {
		return "", false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: name + " es requerido"})
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: name + " no es un UUID válido"})
	}
	return id, true, nil
}
