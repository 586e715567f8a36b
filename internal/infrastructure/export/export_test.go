package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/ims-api/internal/application/reports"
	"github.com/jhoicas/ims-api/internal/infrastructure/export"
)

func sampleTable() reports.Table {
	cost := decimal.RequireFromString("2.5")
	return reports.Table{
		Title:       "Valorización de inventario",
		Filters:     []string{"Método: Fifo"},
		GeneratedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		Columns: []reports.Column{
			{Header: "SKU"},
			{Header: "Cantidad", Numeric: true},
			{Header: "Costo unitario", Numeric: true},
			{Header: "Último movimiento"},
		},
		Rows: [][]any{
			{"ABC-1", decimal.NewFromInt(10), &cost, time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)},
			{"ABC-2", decimal.RequireFromString("0.5"), nil, nil},
		},
	}
}

func TestXLSXExporter_EscribeEncabezadoYFilas(t *testing.T) {
	exp := export.NewXLSXExporter()
	assert.Equal(t, "xlsx", exp.Format())

	data, err := exp.Export(sampleTable())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reporte")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 7)

	assert.Equal(t, "Valorización de inventario", rows[0][0])
	assert.Equal(t, "Generado: 2026-03-01 10:30 UTC", rows[1][0])
	assert.Equal(t, "Método: Fifo", rows[2][0])
	assert.Equal(t, []string{"SKU", "Cantidad", "Costo unitario", "Último movimiento"}, rows[4])
	assert.Equal(t, "ABC-1", rows[5][0])
	assert.Equal(t, "2026-02-01 08:00", rows[5][3])
	assert.Equal(t, "ABC-2", rows[6][0])

	raw, err := f.GetCellValue("Reporte", "B6", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "10", raw)
}

func TestPDFExporter_GeneraDocumento(t *testing.T) {
	exp := export.NewPDFExporter("ims-api")
	assert.Equal(t, "application/pdf", exp.ContentType())

	data, err := exp.Export(sampleTable())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestPDFExporter_SinColumnasFalla(t *testing.T) {
	_, err := export.NewPDFExporter("ims-api").Export(reports.Table{Title: "Vacío"})
	assert.Error(t, err)
}
