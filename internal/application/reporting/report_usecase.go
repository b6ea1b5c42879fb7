// Package reporting arma el reporte de inventario (código, producto, cantidad,
// ubicación y estado) y lo entrega como PDF, XML o por correo.
package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/litethinking-inventario/internal/application/dto"
	"github.com/jhoicas/litethinking-inventario/internal/application/inventory"
	"github.com/jhoicas/litethinking-inventario/internal/domain"
	"github.com/jhoicas/litethinking-inventario/internal/domain/repository"
	"github.com/jhoicas/litethinking-inventario/pkg/logger"
)

const (
	ReportTitle   = "REPORTE DE INVENTARIO"
	PDFFilename   = "inventario_reporte.pdf"
	XMLFilename   = "inventario_reporte.xml"
	EmailSubject  = "Reporte de Inventario - Lite Thinking"
	maxNameRunes  = 40
	emptyLocation = "N/A"
)

// ReportUseCase genera el reporte de inventario en sus distintos formatos.
type ReportUseCase struct {
	ledgerRepo  repository.StockLedgerRepository
	companyRepo repository.CompanyRepository
	pdf         PDFRenderer
	xml         XMLRenderer
	mailer      Mailer
	log         *logger.Logger
	now         func() time.Time
}

// NewReportUseCase construye el caso de uso. mailer nil deja el envío por
// correo deshabilitado (ErrUnavailable).
func NewReportUseCase(
	ledgerRepo repository.StockLedgerRepository,
	companyRepo repository.CompanyRepository,
	pdf PDFRenderer,
	xml XMLRenderer,
	mailer Mailer,
	log *logger.Logger,
) *ReportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportUseCase{
		ledgerRepo:  ledgerRepo,
		companyRepo: companyRepo,
		pdf:         pdf,
		xml:         xml,
		mailer:      mailer,
		log:         log.Named("reporting"),
		now:         func() time.Time { return time.Now() },
	}
}

// Build arma el reporte. companyID vacío incluye todas las empresas.
func (uc *ReportUseCase) Build(ctx context.Context, companyID string) (*Report, error) {
	report := &Report{Title: ReportTitle, GeneratedAt: uc.now()}
	if companyID != "" {
		company, err := uc.companyRepo.GetByID(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, domain.ErrNotFound
		}
		report.CompanyName = company.Name
	}

	views, err := uc.ledgerRepo.List(ctx, repository.LedgerFilter{CompanyID: companyID})
	if err != nil {
		return nil, fmt.Errorf("reporte: listar inventario: %w", err)
	}
	report.Rows = make([]Row, 0, len(views))
	for _, v := range views {
		state := v.StockState()
		report.Rows = append(report.Rows, Row{
			Code:         v.ProductCode,
			Product:      truncate(v.ProductName, maxNameRunes),
			Quantity:     v.Ledger.Quantity(),
			MinimumStock: v.MinimumStock,
			Location:     nonEmpty(v.Ledger.Location(), emptyLocation),
			State:        state.Label(),
			StateCode:    string(state),
			NeedsRestock: v.Ledger.NeedsRestock(v.MinimumStock),
		})
		report.TotalUnits += v.Ledger.Quantity()
	}
	report.TotalProducts = len(report.Rows)
	return report, nil
}

// PDF genera el reporte en PDF y devuelve los bytes y el nombre de archivo.
func (uc *ReportUseCase) PDF(ctx context.Context, companyID string) ([]byte, string, error) {
	report, err := uc.Build(ctx, companyID)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.pdf.RenderInventoryPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar pdf: %w", err)
	}
	return data, PDFFilename, nil
}

// XML genera la exportación XML del inventario.
func (uc *ReportUseCase) XML(ctx context.Context, companyID string) ([]byte, string, error) {
	report, err := uc.Build(ctx, companyID)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.xml.RenderInventoryXML(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar xml: %w", err)
	}
	return data, XMLFilename, nil
}

// Email envía el PDF del reporte como adjunto. Solo administradores.
func (uc *ReportUseCase) Email(ctx context.Context, actor inventory.Actor, in dto.ReportEmailRequest) (*dto.ReportEmailResponse, error) {
	if !actor.Role.CanWrite() {
		return nil, domain.ErrForbidden
	}
	if uc.mailer == nil {
		return nil, fmt.Errorf("%w: el envío de correo no está configurado", domain.ErrUnavailable)
	}
	to := strings.ToLower(strings.TrimSpace(in.To))
	if to == "" {
		return nil, domain.NewValidationError("to", "el destinatario es obligatorio")
	}

	report, err := uc.Build(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	data, err := uc.pdf.RenderInventoryPDF(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("reporte: generar pdf: %w", err)
	}

	mail := Mail{
		To:      []string{to},
		Subject: EmailSubject,
		Body: fmt.Sprintf("Adjunto encontrarás el reporte de inventario con %d productos.\n\nGenerado automáticamente por Lite Thinking.",
			report.TotalProducts),
		Attachments: []Attachment{{Filename: PDFFilename, ContentType: "application/pdf", Data: data}},
	}
	if err := uc.mailer.Send(ctx, mail); err != nil {
		uc.log.Error().Err(err).Str("to", to).Msg("envío de reporte fallido")
		return nil, fmt.Errorf("reporte: enviar correo: %w", err)
	}
	uc.log.Info().Str("to", to).Str("actor_id", actor.UserID).Int("products", report.TotalProducts).Int("bytes", len(data)).
		Msg("reporte de inventario enviado")

	return &dto.ReportEmailResponse{To: to, Filename: PDFFilename, Products: report.TotalProducts}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}
