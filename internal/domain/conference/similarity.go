package conference

import (
	"strings"
	"unicode"
)

// Similarity coeficiente de Sørensen–Dice sobre bigramas de caracteres (0 a 1).
// Ignora espacios; cada bigrama se cuenta con multiplicidad, así que la medida es simétrica.
func Similarity(a, b string) float64 {
	a, b = removeSpaces(a), removeSpaces(b)
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	bigrams := make(map[string]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		bigrams[string(ra[i:i+2])]++
	}
	shared := 0
	for i := 0; i < len(rb)-1; i++ {
		bg := string(rb[i : i+2])
		if bigrams[bg] > 0 {
			bigrams[bg]--
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(ra)+len(rb)-2)
}

func removeSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
