// Package xml exporta el reporte de inventario como documento XML.
//
//	<inventario generado="..." empresa="...">
//	  <producto codigo="LA-001" estado="BAJO" reabastecer="true">
//	    <nombre>Laptop</nombre>
//	    <cantidad>7</cantidad>
//	    <stock_minimo>10</stock_minimo>
//	    <ubicacion>B-02</ubicacion>
//	  </producto>
//	  <resumen total_productos="1" total_unidades="7"/>
//	</inventario>
package xml

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/litethinking-inventario/internal/application/reporting"
)

// EtreeXMLExporter implementa reporting.XMLRenderer con etree.
type EtreeXMLExporter struct {
	indent int
}

// NewEtreeXMLExporter crea el exportador con indentación de dos espacios.
func NewEtreeXMLExporter() *EtreeXMLExporter {
	return &EtreeXMLExporter{indent: 2}
}

// RenderInventoryXML serializa el reporte.
func (e *EtreeXMLExporter) RenderInventoryXML(_ context.Context, report *reporting.Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("xml: reporte vacío")
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("inventario")
	root.CreateAttr("generado", report.GeneratedAt.Format(time.RFC3339))
	if report.CompanyName != "" {
		root.CreateAttr("empresa", report.CompanyName)
	}

	for _, r := range report.Rows {
		p := root.CreateElement("producto")
		p.CreateAttr("codigo", r.Code)
		p.CreateAttr("estado", r.State)
		p.CreateAttr("reabastecer", strconv.FormatBool(r.NeedsRestock))
		p.CreateElement("nombre").SetText(r.Product)
		p.CreateElement("cantidad").SetText(strconv.FormatInt(r.Quantity, 10))
		p.CreateElement("stock_minimo").SetText(strconv.FormatInt(r.MinimumStock, 10))
		p.CreateElement("ubicacion").SetText(r.Location)
	}

	summary := root.CreateElement("resumen")
	summary.CreateAttr("total_productos", strconv.Itoa(report.TotalProducts))
	summary.CreateAttr("total_unidades", strconv.FormatInt(report.TotalUnits, 10))

	doc.Indent(e.indent)
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("xml: serializar: %w", err)
	}
	return out.Bytes(), nil
}
