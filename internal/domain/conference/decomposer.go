package conference

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
)

// Precisión de salida: totales en moneda y precios unitarios.
const (
	currencyPlaces = 2
	unitPlaces     = 4
	unitsPlaces    = 2
)

// DecomposeOptions controla qué componentes de costo entran en el total de la línea.
type DecomposeOptions struct {
	// TaxEnrichment suma IPI, ICMS-ST, otros cargos y reparte el descuento de la nota.
	// En false solo se usa vProd menos el descuento propio del ítem.
	TaxEnrichment bool
	// STExempt códigos CST/CSOSN cuyo ICMS-ST ya fue retenido y no se suma.
	STExempt map[string]bool
}

// STCharged indica si el ICMS-ST informado debe sumarse al costo del ítem.
func STCharged(amount decimal.Decimal, cst string, exempt map[string]bool) bool {
	return amount.IsPositive() && !exempt[cst]
}

// ApportionDiscounts reparte el descuento total de la nota proporcionalmente al vProd de cada línea.
// Devuelve cero para todas si no hay descuento declarado o si la suma de vProd no es positiva.
// Las líneas con descuento propio lo conservan en Decompose; aquí igual reciben su cuota teórica.
func ApportionDiscounts(lines []entity.InvoiceLine, declared decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(lines))
	for i := range shares {
		shares[i] = decimal.Zero
	}
	if !declared.IsPositive() {
		return shares
	}
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.GrossValue)
	}
	if !sum.IsPositive() {
		return shares
	}
	for i, l := range lines {
		shares[i] = l.GrossValue.Mul(declared).Div(sum)
	}
	return shares
}

// Decompose calcula el total pagado y el costo real por unidad vendible de una línea.
// apportioned es la cuota del descuento de la nota (ver ApportionDiscounts).
func Decompose(line entity.InvoiceLine, apportioned decimal.Decimal, opts DecomposeOptions) entity.EnrichedLine {
	discount := line.Discount
	ipi, st, other := decimal.Zero, decimal.Zero, decimal.Zero
	if opts.TaxEnrichment {
		if !discount.IsPositive() {
			discount = apportioned
		}
		ipi = line.IPI
		other = line.OtherCharges
		if STCharged(line.ICMSST, line.ICMSCST, opts.STExempt) {
			st = line.ICMSST
		}
	}

	net := line.GrossValue.Sub(discount)
	total := net.Add(ipi).Add(st).Add(other)

	units := InferUnits(line)
	unitCost := decimal.Zero
	if units.Units.IsPositive() {
		unitCost = total.Div(units.Units)
	}

	out := entity.EnrichedLine{
		InvoiceLine:     line,
		AppliedDiscount: discount.Round(currencyPlaces),
		ICMSSTCharged:   st,
		NetValue:        net.Round(currencyPlaces),
		NetUnitPrice:    decimal.Zero,
		TotalPaid:       total.Round(currencyPlaces),
		Units:           units.Units.Round(unitsPlaces),
		UnitsKind:       units.Kind,
		UnitsNote:       units.Note,
		UnitCost:        unitCost.Round(unitPlaces),
	}
	if line.CommercialQty.IsPositive() {
		out.NetUnitPrice = net.Div(line.CommercialQty).Round(unitPlaces)
	}
	if size := ParseSize(line.Description); size != nil {
		out.Size = size
		out.PerMeasure = &entity.PerMeasurePrice{
			Unit:  size.NormalizedUnit,
			Price: unitCost.Div(size.PerUnit).Round(unitPlaces),
		}
	}
	if pack, ok := DetectPack(line.Description); ok {
		out.Pack = &pack
	}
	return out
}
