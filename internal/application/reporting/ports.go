package reporting

import (
	"context"
	"time"
)

// PDFRenderer genera el PDF del reporte de inventario.
type PDFRenderer interface {
	RenderInventoryPDF(ctx context.Context, report *Report) ([]byte, error)
}

// XMLRenderer genera la exportación XML del reporte de inventario.
type XMLRenderer interface {
	RenderInventoryXML(ctx context.Context, report *Report) ([]byte, error)
}

// Mailer envía un correo con adjuntos.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// Mail mensaje saliente.
type Mail struct {
	To          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Attachment archivo adjunto en memoria.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Row una línea del reporte (un producto con su existencia).
type Row struct {
	Code         string
	Product      string
	Quantity     int64
	MinimumStock int64
	Location     string
	State        string
	StateCode    string
	NeedsRestock bool
}

// Report reporte de inventario listo para renderizar.
type Report struct {
	Title         string
	CompanyName   string
	GeneratedAt   time.Time
	Rows          []Row
	TotalProducts int
	TotalUnits    int64
}
