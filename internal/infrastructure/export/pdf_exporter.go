package export

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/ims-api/internal/application/reports"
)

var _ reports.TableExporter = (*PDFExporter)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 250}
)

// PDFExporter exporta reportes a PDF A4 horizontal usando Maroto v2.
// La grilla tiene tantas columnas como el reporte, todas del mismo ancho.
type PDFExporter struct {
	author string
}

// NewPDFExporter construye el exportador. author aparece en los metadatos del PDF.
func NewPDFExporter(author string) *PDFExporter { return &PDFExporter{author: author} }

func (*PDFExporter) Format() string { return "pdf" }

func (*PDFExporter) ContentType() string { return "application/pdf" }

// Export genera el documento y devuelve sus bytes.
func (e *PDFExporter) Export(t reports.Table) ([]byte, error) {
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("pdf: el reporte no tiene columnas")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithMaxGridSize(len(t.Columns)).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(t.Title, true).
		WithAuthor(e.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRow(t, len(t.Columns)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(headerRow(t.Columns))
	for i, r := range t.Rows {
		m.AddRows(dataRow(t.Columns, r, i%2 == 1))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(6).Add(col.New(len(t.Columns)).Add(
		text.New(fmt.Sprintf("%d registro(s)", len(t.Rows)), props.Text{Size: 7, Color: colorGray, Top: 1}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// titleRow: título (izq) y fecha de generación + filtros debajo.
func titleRow(t reports.Table, grid int) core.Row {
	subtitle := "Generado: " + t.GeneratedAt.UTC().Format(timeLayout) + " UTC"
	if len(t.Filters) > 0 {
		subtitle += "   |   " + strings.Join(t.Filters, "   |   ")
	}
	return row.New(16).Add(
		col.New(grid).Add(
			text.New(t.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(subtitle, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
	)
}

func headerRow(cols []reports.Column) core.Row {
	cells := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		cells = append(cells, col.New(1).Add(text.New(c.Header, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: alignFor(c),
			Color: colorWhite, Top: 1.5, Left: 1, Right: 1,
		})))
	}
	return row.New(7).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(cells...)
}

func dataRow(cols []reports.Column, values []any, striped bool) core.Row {
	cells := make([]core.Col, 0, len(cols))
	for i, c := range cols {
		var v any
		if i < len(values) {
			v = values[i]
		}
		cells = append(cells, col.New(1).Add(text.New(cellText(v), props.Text{
			Size: 7, Align: alignFor(c), Top: 1, Left: 1, Right: 1,
		})))
	}
	r := row.New().Add(cells...)
	if striped {
		r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
	}
	return r
}

func alignFor(c reports.Column) align.Type {
	if c.Numeric {
		return align.Right
	}
	return align.Left
}
