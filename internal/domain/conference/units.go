// Package conference es el motor de conferencia de precios: descompone cada línea de la NF-e
// en costo real por unidad vendible, la busca en la tabla de precios y la clasifica según el
// margen mínimo. No hace E/S ni guarda estado entre corridas.
package conference

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
	"github.com/jhoicas/conferencia-nfe/pkg/nfe"
)

var (
	sizePattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(G|KG|ML|L|LITRO|LITROS)\b`)
	packPattern = regexp.MustCompile(`(?i)(\d+)\s*(U|UN|UNID|PACK)\b`)

	thousand      = decimal.NewFromInt(1000)
	packTolerance = decimal.NewFromFloat(0.1)
)

// ParseSize extrae el primer tamaño (número + G/KG/ML/L/LITRO/LITROS) de la descripción.
// Devuelve nil si no hay tamaño o si es cero: el llamador debe tratarlo como "tamaño desconocido".
func ParseSize(description string) *entity.SizeInfo {
	m := sizePattern.FindStringSubmatch(description)
	if m == nil {
		return nil
	}
	value, err := decimal.NewFromString(strings.Replace(m[1], ",", ".", 1))
	if err != nil || !value.IsPositive() {
		return nil
	}
	unit := strings.ToUpper(m[2])

	info := &entity.SizeInfo{Value: value, Unit: unit}
	switch unit {
	case "G":
		info.NormalizedUnit, info.PerUnit = nfe.UnitKilogram, value.Div(thousand)
	case "KG":
		info.NormalizedUnit, info.PerUnit = nfe.UnitKilogram, value
	case "ML":
		info.NormalizedUnit, info.PerUnit = nfe.UnitLitre, value.Div(thousand)
	default: // L, LITRO, LITROS
		info.NormalizedUnit, info.PerUnit = nfe.UnitLitre, value
	}
	return info
}

// DetectPack busca un multiplicador de caja ("12UN", "6 PACK").
// ok=false significa que no se declaró pack, lo cual no es lo mismo que un pack de 1.
func DetectPack(description string) (n int, ok bool) {
	m := packPattern.FindStringSubmatch(description)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// InferUnits deduce cuántas unidades vendibles representa la cantidad tributable de la línea.
func InferUnits(line entity.InvoiceLine) entity.UnitsResult {
	label := nfe.NormalizeUnitLabel(line.TaxableUnit)
	qty := line.TaxableQty

	if nfe.DirectUnitLabels[label] {
		return entity.UnitsResult{
			Units: qty,
			Kind:  entity.UnitsDirect,
			Note:  fmt.Sprintf("%s %s", qty.String(), label),
		}
	}

	if nfe.MeasureUnitLabels[label] {
		size := ParseSize(line.Description)
		if size == nil {
			return entity.UnitsResult{
				Units: qty,
				Kind:  entity.UnitsNotIdentified,
				Note:  fmt.Sprintf("R$/%s - unidad no identificada", label),
			}
		}

		normalizedQty := qty
		if (label == nfe.UnitGram && size.NormalizedUnit == nfe.UnitKilogram) ||
			(label == nfe.UnitMillilitre && size.NormalizedUnit == nfe.UnitLitre) {
			normalizedQty = qty.Div(thousand)
		}
		candidate := normalizedQty.Div(size.PerUnit)
		each := size.Value.String() + size.Unit

		if pack, ok := DetectPack(line.Description); ok {
			rounded := candidate.Round(0)
			if rounded.Sub(candidate).Abs().LessThan(packTolerance) {
				return entity.UnitsResult{
					Units: rounded,
					Kind:  entity.UnitsComputedWithPack,
					Note:  fmt.Sprintf("%s unidades (%s cada una, pack %d)", rounded.String(), each, pack),
				}
			}
		}
		return entity.UnitsResult{
			Units: candidate,
			Kind:  entity.UnitsComputed,
			Note:  fmt.Sprintf("%s unidades (%s cada una)", candidate.StringFixed(2), each),
		}
	}

	units := qty
	if units.IsZero() {
		units = decimal.NewFromInt(1)
	}
	return entity.UnitsResult{
		Units: units,
		Kind:  entity.UnitsFallback,
		Note:  fmt.Sprintf("%s %s (fallback)", qty.String(), label),
	}
}
