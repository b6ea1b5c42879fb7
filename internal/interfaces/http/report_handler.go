package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/litethinking-inventario/internal/application/dto"
	"github.com/jhoicas/litethinking-inventario/internal/application/reporting"
)

// ReportHandler reportes de inventario (PDF, XML y envío por correo).
type ReportHandler struct {
	uc *reporting.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reporting.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// PDF godoc
// @Summary      Reporte de inventario en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        company_id  query  string  false  "Filtrar por empresa"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/report.pdf [get]
func (h *ReportHandler) PDF(c *fiber.Ctx) error {
	companyID, ok, err := companyQuery(c)
	if !ok {
		return err
	}
	data, filename, err := h.uc.PDF(c.UserContext(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, data, filename, "application/pdf")
}

// XML godoc
// @Summary      Reporte de inventario en XML
// @Tags         reports
// @Security     Bearer
// @Produce      application/xml
// @Param        company_id  query  string  false  "Filtrar por empresa"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/report.xml [get]
func (h *ReportHandler) XML(c *fiber.Ctx) error {
	companyID, ok, err := companyQuery(c)
	if !ok {
		return err
	}
	data, filename, err := h.uc.XML(c.UserContext(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, data, filename, "application/xml; charset=utf-8")
}

// Email godoc
// @Summary      Enviar reporte por correo
// @Description  Genera el PDF y lo envía como adjunto. Requiere SMTP configurado.
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ReportEmailRequest  true  "Destinatario"
// @Success      200   {object}  dto.ReportEmailResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/report/email [post]
func (h *ReportHandler) Email(c *fiber.Ctx) error {
	var in dto.ReportEmailRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Email(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func sendAttachment(c *fiber.Ctx, data []byte, filename, contentType string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}
