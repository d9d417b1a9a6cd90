package conference

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
)

var (
	hundred          = decimal.NewFromInt(100)
	balanceTolerance = decimal.New(1, -2)
)

// Multiplier factor que convierte costo en precio mínimo: 1 + margen/100.
func Multiplier(marginPercent decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(marginPercent.Div(hundred))
}

// MinimumPrice precio de venta mínimo aceptable para el costo unitario dado, a 4 decimales.
func MinimumPrice(unitCost, marginPercent decimal.Decimal) decimal.Decimal {
	return unitCost.Mul(Multiplier(marginPercent)).Round(unitPlaces)
}

// Classify decide el estado de la línea. El orden importa: sin costo no hay nada que comparar,
// y sin precio de tabla tampoco.
func Classify(unitCost, tablePrice, minimum decimal.Decimal) entity.LineStatus {
	switch {
	case !unitCost.IsPositive():
		return entity.StatusParseError
	case !tablePrice.IsPositive():
		return entity.StatusNoPrice
	case tablePrice.GreaterThanOrEqual(minimum):
		return entity.StatusOK
	default:
		return entity.StatusBelowMinimum
	}
}

// Balance compara el total calculado con el declarado. La diferencia sale redondeada a 2 decimales
// pero la tolerancia se evalúa sobre el valor sin redondear.
func Balance(linesTotal, declaredTotal decimal.Decimal) (difference decimal.Decimal, balanced bool) {
	raw := linesTotal.Sub(declaredTotal)
	return raw.Round(currencyPlaces), raw.Abs().LessThan(balanceTolerance)
}
