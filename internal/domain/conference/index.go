package conference

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
	"github.com/jhoicas/conferencia-nfe/pkg/nfe"
)

// candidate fila apta para la comparación difusa, con su nombre ya normalizado.
type candidate struct {
	row      entity.PriceTableRow
	name     string
	capacity []string
}

// PriceIndex estructuras de búsqueda sobre la tabla de precios. Se construye una vez por corrida
// y es de solo lectura después, así que puede consultarse desde varias goroutines.
type PriceIndex struct {
	byBarcode    map[string]decimal.Decimal
	byCode       map[string]decimal.Decimal
	candidates   []candidate
	rows         int
	withoutPrice int
}

// BuildIndex indexa las filas por código de barras (solo dígitos) y por código interno.
// Filas con precio <= 0 no entran en ningún índice; ante claves repetidas gana la última fila.
func BuildIndex(rows []entity.PriceTableRow) *PriceIndex {
	ix := &PriceIndex{
		byBarcode: make(map[string]decimal.Decimal, len(rows)),
		byCode:    make(map[string]decimal.Decimal, len(rows)),
		rows:      len(rows),
	}
	for _, r := range rows {
		if !r.Price.IsPositive() {
			ix.withoutPrice++
			continue
		}
		if barcode := nfe.OnlyDigits(r.Barcode); barcode != "" {
			ix.byBarcode[barcode] = r.Price
		}
		if code := strings.TrimSpace(r.Code); code != "" {
			ix.byCode[code] = r.Price
		}
		if strings.TrimSpace(r.Description) != "" {
			ix.candidates = append(ix.candidates, candidate{
				row:      r,
				name:     NormalizeName(r.Description),
				capacity: CapacityTokens(r.Description),
			})
		}
	}
	return ix
}

// ByBarcode busca por código de barras normalizado.
func (ix *PriceIndex) ByBarcode(barcode string) (decimal.Decimal, bool) {
	if barcode == "" {
		return decimal.Zero, false
	}
	p, ok := ix.byBarcode[barcode]
	return p, ok
}

// ByCode busca por código interno del producto.
func (ix *PriceIndex) ByCode(code string) (decimal.Decimal, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return decimal.Zero, false
	}
	p, ok := ix.byCode[code]
	return p, ok
}

// Rows total de filas recibidas, incluidas las que no tienen precio.
func (ix *PriceIndex) Rows() int { return ix.rows }

// RowsWithoutPrice filas descartadas por precio <= 0.
func (ix *PriceIndex) RowsWithoutPrice() int { return ix.withoutPrice }

// Candidates cantidad de filas disponibles para la comparación difusa.
func (ix *PriceIndex) Candidates() int { return len(ix.candidates) }
