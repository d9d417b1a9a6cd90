package spreadsheet_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/conferencia-nfe/internal/domain"
	"github.com/jhoicas/conferencia-nfe/internal/infrastructure/spreadsheet"
)

// buildXLSX arma un libro en memoria con las filas indicadas en la primera hoja.
func buildXLSX(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err, "debe serializarse el libro")
	return buf.Bytes()
}

var header = []interface{}{"Código Produto", "Descrição Produto", "Código de barras", "Preço"}

// ──────────────────────────────────────────────────────────────────────────────
// XLSX
// ──────────────────────────────────────────────────────────────────────────────

func TestParse_XLSX(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		header,
		{"A1", "ARROZ BRANCO 5KG", 7891234567890, 25.9},
		{"A2", "FEIJAO 1KG", "789 1234 56789 7", "R$ 8,50"},
		{},
		{"A3", "SEM PRECO", "SEM GTIN", ""},
	})

	rows, err := spreadsheet.NewParser(spreadsheet.DefaultColumns()).Parse("precios.xlsx", data)
	require.NoError(t, err)
	require.Len(t, rows, 3, "la fila vacía se ignora")

	assert.Equal(t, 2, rows[0].Row)
	assert.Equal(t, "A1", rows[0].Code)
	assert.Equal(t, "ARROZ BRANCO 5KG", rows[0].Description)
	assert.Equal(t, "7891234567890", rows[0].Barcode, "número sin notación científica")
	assert.True(t, decimal.RequireFromString("25.9").Equal(rows[0].Price))

	assert.Equal(t, "7891234567897", rows[1].Barcode, "solo dígitos")
	assert.True(t, decimal.RequireFromString("8.5").Equal(rows[1].Price), "precio con coma")

	assert.Equal(t, 5, rows[2].Row, "número de fila de la hoja")
	assert.Empty(t, rows[2].Barcode)
	assert.True(t, rows[2].Price.IsZero())
}

func TestParse_XLSX_ColumnasOpcionales(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{" Preço ", "Código de barras"},
		{"3.10", "7891234567890"},
	})
	rows, err := spreadsheet.NewParser(spreadsheet.DefaultColumns()).Parse("minima.xlsx", data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Description)
	assert.Empty(t, rows[0].Code)
}

func TestParse_ColumnaFaltante(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"Descrição Produto", "Preço"},
		{"ARROZ", 10},
	})
	_, err := spreadsheet.NewParser(spreadsheet.DefaultColumns()).Parse("sin-ean.xlsx", data)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredColumn)

	var missing *spreadsheet.MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "Código de barras", missing.Column)
}

func TestParse_TablaVacia(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{header})
	_, err := spreadsheet.NewParser(spreadsheet.DefaultColumns()).Parse("vacia.xlsx", data)
	assert.ErrorIs(t, err, domain.ErrEmptyPriceTable)
}

func TestParse_ArchivoIlegible(t *testing.T) {
	_, err := spreadsheet.NewParser(spreadsheet.DefaultColumns()).Parse("roto.xlsx", []byte("no es un zip"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParse_EncabezadosPersonalizados(t *testing.T) {
	cols := spreadsheet.Columns{Price: "price", Barcode: "ean"}
	data := buildXLSX(t, [][]interface{}{
		{"ean", "price"},
		{"7891234567890", "1.99"},
	})
	rows, err := spreadsheet.NewParser(cols).Parse("custom.xlsx", data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "7891234567890", rows[0].Barcode)
}

// ──────────────────────────────────────────────────────────────────────────────
// CSV
// ──────────────────────────────────────────────────────────────────────────────

func TestParse_CSV(t *testing.T) {
	cases := map[string]string{
		"punto y coma": "\ufeffCódigo de barras;Preço;Descrição Produto\n7891234567890;5,00;\"ARROZ; TIPO 1\"\n",
		"coma":         "Código de barras,Preço,Descrição Produto\n7891234567890,5.00,\"ARROZ; TIPO 1\"\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			rows, err := spreadsheet.NewParser(spreadsheet.DefaultColumns()).Parse("precios.csv", []byte(content))
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "7891234567890", rows[0].Barcode)
			assert.Equal(t, "ARROZ; TIPO 1", rows[0].Description)
			assert.True(t, decimal.NewFromInt(5).Equal(rows[0].Price))
		})
	}
}

func TestParse_CSV_Windows1252(t *testing.T) {
	content, err := charmap.Windows1252.NewEncoder().String("Código de barras;Preço\n7891234567890;2,50\n")
	require.NoError(t, err)

	rows, err := spreadsheet.NewParser(spreadsheet.DefaultColumns()).Parse("LEGADO.CSV", []byte(content))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, decimal.RequireFromString("2.5").Equal(rows[0].Price))
}
