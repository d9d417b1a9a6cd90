package nfe

import "strings"

// validGTINLengths longitudes aceptadas: GTIN-8, UPC-A (12), EAN-13 y GTIN-14.
var validGTINLengths = map[int]bool{8: true, 12: true, 13: true, 14: true}

// OnlyDigits deja solo dígitos 0-9.
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeGTIN devuelve el código de barras solo con dígitos, o "" si no es un GTIN utilizable.
// "SEM GTIN", vacío o longitudes fuera de {8,12,13,14} se consideran ausentes.
func NormalizeGTIN(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), SemGTIN) {
		return ""
	}
	d := OnlyDigits(s)
	if !validGTINLengths[len(d)] {
		return ""
	}
	return d
}
