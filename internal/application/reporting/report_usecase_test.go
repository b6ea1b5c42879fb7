package reporting_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/litethinking-inventario/internal/application/dto"
	"github.com/jhoicas/litethinking-inventario/internal/application/inventory"
	"github.com/jhoicas/litethinking-inventario/internal/application/reporting"
	"github.com/jhoicas/litethinking-inventario/internal/application/usecase"
	"github.com/jhoicas/litethinking-inventario/internal/domain"
	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
	"github.com/jhoicas/litethinking-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/litethinking-inventario/pkg/logger"
)

var admin = inventory.Actor{UserID: "11111111-1111-1111-1111-111111111111", Role: entity.RoleAdministrator}

type fakeRenderer struct {
	last *reporting.Report
}

func (f *fakeRenderer) RenderInventoryPDF(_ context.Context, r *reporting.Report) ([]byte, error) {
	f.last = r
	return []byte("%PDF-fake"), nil
}

func (f *fakeRenderer) RenderInventoryXML(_ context.Context, r *reporting.Report) ([]byte, error) {
	f.last = r
	return []byte("<inventario/>"), nil
}

type fakeMailer struct {
	sent []reporting.Mail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, m reporting.Mail) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

type fixture struct {
	companyID string
	renderer  *fakeRenderer
	mailer    *fakeMailer
	reports   *reporting.ReportUseCase
}

func newFixture(t *testing.T, withMailer bool) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	ledgers := inventory.NewLedgerUseCase(store, store.Ledgers(), store.Movements(), store.Products(), nil, logger.Nop())
	products := usecase.NewProductUseCase(store, store.Products(), store.Companies(), ledgers, usecase.ExchangeRates{
		USDToCOP: decimal.NewFromInt(4000),
		USDToEUR: decimal.RequireFromString("0.92"),
	})
	company, err := usecase.NewCompanyUseCase(store.Companies()).Create(ctx, dto.CreateCompanyRequest{
		Name: "Lite Thinking SAS", NIT: "900123456-7", Address: "Calle 100", Phone: "3001234567", Email: "info@litethinking.com",
	})
	require.NoError(t, err)

	items := []struct {
		name     string
		minimum  int64
		location string
		quantity int64
	}{
		{"Mouse inalámbrico", 5, "", 0},
		{"Laptop ultraliviana con pantalla de catorce pulgadas", 10, "B-02", 7},
		{"Teclado", 2, "A-01", 30},
	}
	for _, it := range items {
		p, err := products.Create(ctx, dto.CreateProductRequest{
			CompanyID: company.ID, Name: it.name, Description: "x",
			PriceUSD: decimal.NewFromInt(10), MinimumStock: it.minimum, Location: it.location,
		})
		require.NoError(t, err)
		if it.quantity > 0 {
			_, err = ledgers.RegisterEntry(ctx, admin, p.ID, dto.MovementRequest{Quantity: it.quantity, Reason: "carga inicial"})
			require.NoError(t, err)
		}
	}

	f := &fixture{companyID: company.ID, renderer: &fakeRenderer{}, mailer: &fakeMailer{}}
	var mailer reporting.Mailer
	if withMailer {
		mailer = f.mailer
	}
	f.reports = reporting.NewReportUseCase(store.Ledgers(), store.Companies(), f.renderer, f.renderer, mailer, logger.Nop())
	return f
}

func TestReport_FilasYTotales(t *testing.T) {
	f := newFixture(t, true)

	report, err := f.reports.Build(context.Background(), f.companyID)
	require.NoError(t, err)
	assert.Equal(t, reporting.ReportTitle, report.Title)
	assert.Equal(t, "Lite Thinking SAS", report.CompanyName)
	assert.Equal(t, 3, report.TotalProducts)
	assert.EqualValues(t, 37, report.TotalUnits)

	require.Len(t, report.Rows, 3)
	laptop, mouse, teclado := report.Rows[0], report.Rows[1], report.Rows[2]

	assert.Equal(t, "LA-001", laptop.Code)
	assert.Len(t, []rune(laptop.Product), 40)
	assert.Equal(t, "BAJO", laptop.State)
	assert.True(t, laptop.NeedsRestock)

	assert.Equal(t, "MO-001", mouse.Code)
	assert.Equal(t, "N/A", mouse.Location)
	assert.Equal(t, "SIN STOCK", mouse.State)

	assert.Equal(t, "TE-001", teclado.Code)
	assert.Equal(t, "SUFICIENTE", teclado.State)
	assert.False(t, teclado.NeedsRestock)
}

func TestReport_EmpresaInexistente(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.reports.Build(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestReport_PDFyXML(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	data, name, err := f.reports.PDF(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "inventario_reporte.pdf", name)
	assert.Equal(t, "%PDF-fake", string(data))
	assert.Empty(t, f.renderer.last.CompanyName)

	_, name, err = f.reports.XML(ctx, f.companyID)
	require.NoError(t, err)
	assert.Equal(t, "inventario_reporte.xml", name)
	assert.Equal(t, 3, f.renderer.last.TotalProducts)
}

func TestReport_Email(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	out, err := f.reports.Email(ctx, admin, dto.ReportEmailRequest{To: "Gerencia@LiteThinking.com"})
	require.NoError(t, err)
	assert.Equal(t, "gerencia@litethinking.com", out.To)
	assert.Equal(t, 3, out.Products)

	require.Len(t, f.mailer.sent, 1)
	mail := f.mailer.sent[0]
	assert.Equal(t, "Reporte de Inventario - Lite Thinking", mail.Subject)
	assert.Contains(t, mail.Body, "3 productos")
	require.Len(t, mail.Attachments, 1)
	assert.Equal(t, "inventario_reporte.pdf", mail.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", mail.Attachments[0].ContentType)

	viewer := inventory.Actor{UserID: "x", Role: entity.RoleReadOnlyViewer}
	_, err = f.reports.Email(ctx, viewer, dto.ReportEmailRequest{To: "a@b.co"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	f.mailer.err = errors.New("smtp caído")
	_, err = f.reports.Email(ctx, admin, dto.ReportEmailRequest{To: "a@b.co"})
	assert.Error(t, err)
}

func TestReport_EmailSinSMTP(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.reports.Email(context.Background(), admin, dto.ReportEmailRequest{To: "a@b.co"})
	assert.True(t, errors.Is(err, domain.ErrUnavailable))
}
