package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/ims-api/internal/application/reports"
)

var _ reports.TableExporter = (*XLSXExporter)(nil)

const sheetName = "Reporte"

// XLSXExporter exporta reportes a Excel: título y filtros arriba, encabezado con estilo y una fila por registro.
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter { return &XLSXExporter{} }

func (XLSXExporter) Format() string { return "xlsx" }

func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Export genera el libro en memoria.
func (XLSXExporter) Export(t reports.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}
	numFmt := "#,##0.00##"
	numberStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, err
	}

	// Título, fecha de generación y filtros
	if err := f.SetCellValue(sheetName, "A1", t.Title); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	_ = f.SetCellValue(sheetName, "A2", "Generado: "+t.GeneratedAt.UTC().Format(timeLayout)+" UTC")
	rowIdx := 3
	for _, filter := range t.Filters {
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIdx), filter)
		rowIdx++
	}
	rowIdx++

	// Encabezado
	for i, c := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, rowIdx)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(sheetName, cell, c.Header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	rowIdx++

	// Datos
	for _, r := range t.Rows {
		for i, v := range r {
			if i >= len(t.Columns) {
				break
			}
			cell, err := excelize.CoordinatesToCellName(i+1, rowIdx)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, cellValue(v)); err != nil {
				return nil, fmt.Errorf("xlsx: celda %s: %w", cell, err)
			}
			if t.Columns[i].Numeric {
				_ = f.SetCellStyle(sheetName, cell, cell, numberStyle)
			}
		}
		rowIdx++
	}

	for i, c := range t.Columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(len(c.Header) + 4)
		if width < 14 {
			width = 14
		}
		_ = f.SetColWidth(sheetName, col, col, width)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}
