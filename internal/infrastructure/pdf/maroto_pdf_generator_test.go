package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/litethinking-inventario/internal/application/reporting"
)

func TestRenderInventoryPDF(t *testing.T) {
	report := &reporting.Report{
		Title:       reporting.ReportTitle,
		CompanyName: "Lite Thinking SAS",
		GeneratedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		Rows: []reporting.Row{
			{Code: "LA-001", Product: "Laptop", Quantity: 7, Location: "B-02", State: "BAJO", StateCode: "LOW"},
			{Code: "MO-001", Product: "Mouse", Quantity: 0, Location: "N/A", State: "SIN STOCK", StateCode: "NO_STOCK"},
			{Code: "TE-001", Product: "Teclado", Quantity: 1500, Location: "A-01", State: "SUFICIENTE", StateCode: "SUFFICIENT"},
		},
		TotalProducts: 3,
		TotalUnits:    1507,
	}

	data, err := NewMarotoPDFGenerator().RenderInventoryPDF(context.Background(), report)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderInventoryPDF_SinFilas(t *testing.T) {
	data, err := NewMarotoPDFGenerator().RenderInventoryPDF(context.Background(), &reporting.Report{
		Title: reporting.ReportTitle, GeneratedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestFormatUnits(t *testing.T) {
	cases := map[int64]string{0: "0", 999: "999", 1000: "1.000", 25000: "25.000", 1234567: "1.234.567", -1200: "-1.200"}
	for in, want := range cases {
		assert.Equal(t, want, formatUnits(in))
	}
}
