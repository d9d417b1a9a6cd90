package conference

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
)

// DefaultFuzzyThreshold similitud mínima para aceptar una coincidencia por nombre.
const DefaultFuzzyThreshold = 0.80

// Notas para líneas sin precio.
const (
	NoteNoBarcode             = "NF-e sin código de barras (vacío o SEM GTIN)"
	NoteBothBarcodesUnmatched = "cEAN sin coincidencia; cEANTrib sin coincidencia"
	NotePrimaryUnmatched      = "cEAN sin coincidencia"
	NoteSecondaryUnmatched    = "cEANTrib sin coincidencia"
)

// Match resultado de buscar una línea en la tabla de precios.
type Match struct {
	Price   decimal.Decimal
	Tag     entity.MatchTag
	Barcode string  // código de barras de la tabla que produjo el precio
	Score   float64 // similitud, solo para MatchFuzzy
	Note    string
}

// Matcher aplica la cascada de búsqueda: cEAN, cEANTrib, código interno y nombre.
type Matcher struct {
	index     *PriceIndex
	threshold float64
}

// NewMatcher construye el matcher. threshold <= 0 usa DefaultFuzzyThreshold.
func NewMatcher(index *PriceIndex, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return &Matcher{index: index, threshold: threshold}
}

// Match busca el precio de la línea y se detiene en la primera estrategia que lo encuentre.
func (m *Matcher) Match(line entity.InvoiceLine) Match {
	if p, ok := m.index.ByBarcode(line.Barcode); ok {
		return Match{Price: p, Tag: entity.MatchBarcodePrimary, Barcode: line.Barcode}
	}
	if p, ok := m.index.ByBarcode(line.TaxableBarcode); ok {
		return Match{Price: p, Tag: entity.MatchBarcodeSecondary, Barcode: line.TaxableBarcode}
	}
	if p, ok := m.index.ByCode(line.Code); ok {
		return Match{Price: p, Tag: entity.MatchCode}
	}
	if c, score, ok := m.fuzzy(line.Description); ok {
		return Match{
			Price:   c.row.Price,
			Tag:     entity.MatchFuzzy,
			Barcode: c.row.Barcode,
			Score:   score,
			Note:    fmt.Sprintf("por nombre (%.2f): %s", score, c.row.Description),
		}
	}
	return Match{Price: decimal.Zero, Tag: entity.MatchNone, Note: noMatchNote(line)}
}

// fuzzy devuelve el candidato con mayor similitud >= threshold. Ante empate se queda el primero.
func (m *Matcher) fuzzy(description string) (candidate, float64, bool) {
	name := NormalizeName(description)
	if name == "" {
		return candidate{}, 0, false
	}
	capacity := CapacityTokens(description)

	best, bestScore := -1, 0.0
	for i := range m.index.candidates {
		c := &m.index.candidates[i]
		if c.name == "" || !CapacityOverlap(capacity, c.capacity) {
			continue
		}
		score := Similarity(name, c.name)
		if score >= m.threshold && score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return candidate{}, 0, false
	}
	return m.index.candidates[best], bestScore, true
}

func noMatchNote(line entity.InvoiceLine) string {
	switch {
	case line.Barcode == "" && line.TaxableBarcode == "":
		return NoteNoBarcode
	case line.Barcode != "" && line.TaxableBarcode != "":
		return NoteBothBarcodesUnmatched
	case line.Barcode != "":
		return NotePrimaryUnmatched
	default:
		return NoteSecondaryUnmatched
	}
}
