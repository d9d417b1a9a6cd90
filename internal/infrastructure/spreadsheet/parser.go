package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/conferencia-nfe/internal/domain"
	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
	"github.com/jhoicas/conferencia-nfe/pkg/nfe"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser convierte la planilla en filas de precio.
type Parser struct {
	columns Columns
}

// NewParser crea el parser con las etiquetas de encabezado indicadas.
func NewParser(columns Columns) *Parser {
	return &Parser{columns: columns}
}

// Parse lee name/data como .csv si la extensión lo indica; cualquier otra extensión se abre como .xlsx.
func (p *Parser) Parse(name string, data []byte) ([]entity.PriceTableRow, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		rows, err = readCSV(data)
	} else {
		rows, err = readXLSX(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: tabla de precios %q ilegible: %v", domain.ErrInvalidInput, name, err)
	}
	return p.build(rows)
}

func (p *Parser) build(rows [][]string) ([]entity.PriceTableRow, error) {
	if len(rows) < 2 {
		return nil, domain.ErrEmptyPriceTable
	}
	l, err := p.columns.locate(rows[0])
	if err != nil {
		return nil, err
	}

	out := make([]entity.PriceTableRow, 0, len(rows)-1)
	for i, r := range rows[1:] {
		if blank(r) {
			continue
		}
		out = append(out, entity.PriceTableRow{
			Row:         i + 2,
			Price:       nfe.ParseNumber(cell(r, l.price)),
			Barcode:     barcode(cell(r, l.barcode)),
			Description: cell(r, l.description),
			Code:        cell(r, l.code),
		})
	}
	if len(out) == 0 {
		return nil, domain.ErrEmptyPriceTable
	}
	return out, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("el libro no tiene hojas")
	}
	// Valores crudos: el formato de celda no debe alterar precios ni códigos de barras.
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, err
		}
		data = decoded
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = detectDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// detectDelimiter elige ';' o ',' según cuál aparezca más en la línea de encabezado.
func detectDelimiter(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	if bytes.Count(header, []byte{';'}) > bytes.Count(header, []byte{','}) {
		return ';'
	}
	return ','
}

// barcode normaliza el código a solo dígitos. Celdas numéricas exportadas en notación científica
// (7.89123456789E+12) se expanden antes.
func barcode(raw string) string {
	if strings.ContainsAny(raw, "eE") {
		if d, err := decimal.NewFromString(raw); err == nil {
			return d.StringFixed(0)
		}
	}
	return nfe.OnlyDigits(raw)
}

func cell(r []string, i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return trim(r[i])
}

func blank(r []string) bool {
	for _, c := range r {
		if trim(c) != "" {
			return false
		}
	}
	return true
}

func trim(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
}
