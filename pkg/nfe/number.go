package nfe

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseNumber interpreta números escritos por personas o por planillas:
//   - "12.50" y "12,50" son 12.5
//   - con ambos separadores, el último es el decimal ("1.234,56" y "1,234.56" son 1234.56)
//   - prefijo "R$" y espacios se ignoran
//
// Cualquier valor vacío o ilegible devuelve cero; nunca falla.
func ParseNumber(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return decimal.Zero
		}
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
