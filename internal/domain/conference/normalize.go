package conference

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Tokens de embalaje que no describen el producto.
	noisePattern    = regexp.MustCompile(`\b(?:LT|LATA|PET|CP|FI|FL|CX|PACK|FARDO|KIT)\b`)
	residualPattern = regexp.MustCompile(`C/\d+|\d+UN|\d+X`)
	spacePattern    = regexp.MustCompile(`\s+`)

	capacityPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)(ML|L|G|KG|MG)\b`)
)

// NormalizeName prepara una descripción para la comparación difusa: mayúsculas, sin acentos,
// sin tokens de embalaje ni patrones de conteo ("C/12", "6UN", "2X") y con espacios colapsados.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	s := stripDiacritics(strings.ToUpper(name))
	s = noisePattern.ReplaceAllString(s, " ")
	s = residualPattern.ReplaceAllString(s, " ")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CapacityTokens extrae los tokens de capacidad ("500ML", "1L", "2.5KG") de una descripción sin normalizar.
func CapacityTokens(description string) []string {
	matches := capacityPattern.FindAllStringSubmatch(description, -1)
	if len(matches) == 0 {
		return nil
	}
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, strings.Replace(m[1], ",", ".", 1)+strings.ToUpper(m[2]))
	}
	return tokens
}

// CapacityOverlap es falso solo cuando ambos lados declaran capacidad y ninguna coincide:
// un ítem de 500ML nunca debe emparejarse con uno de 1L.
func CapacityOverlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
