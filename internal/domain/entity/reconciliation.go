package entity

import "github.com/shopspring/decimal"

// UnitsKind forma en que se dedujo la cantidad de unidades vendibles de una línea.
type UnitsKind string

const (
	UnitsDirect           UnitsKind = "direct-unit"
	UnitsComputed         UnitsKind = "computed"
	UnitsComputedWithPack UnitsKind = "computed-with-pack-check"
	UnitsNotIdentified    UnitsKind = "unit-not-identified" // el costo queda por KG/L, no por unidad
	UnitsFallback         UnitsKind = "fallback"
)

// MatchTag estrategia que encontró el precio en la tabla.
type MatchTag string

const (
	MatchBarcodePrimary   MatchTag = "barcode-primary"
	MatchBarcodeSecondary MatchTag = "barcode-secondary"
	MatchCode             MatchTag = "code"
	MatchFuzzy            MatchTag = "fuzzy"
	MatchNone             MatchTag = "none"
)

// LineStatus resultado de la clasificación de una línea.
type LineStatus string

const (
	StatusOK           LineStatus = "ok"
	StatusBelowMinimum LineStatus = "below-minimum"
	StatusNoPrice      LineStatus = "no-price"
	StatusParseError   LineStatus = "parse-error"
)

// SizeInfo tamaño físico de una unidad vendible deducido de la descripción.
type SizeInfo struct {
	Value          decimal.Decimal // magnitud tal como aparece ("180" en "180G")
	Unit           string          // G, KG, ML, L, LITRO, LITROS
	NormalizedUnit string          // KG o L
	PerUnit        decimal.Decimal // magnitud en KG o L
}

// UnitsResult resultado de la deducción de unidades vendibles.
type UnitsResult struct {
	Units decimal.Decimal
	Kind  UnitsKind
	Note  string
}

// PerMeasurePrice precio por kilo o por litro.
type PerMeasurePrice struct {
	Unit  string // KG o L
	Price decimal.Decimal
}

// EnrichedLine línea de la NF-e con el costo real por unidad vendible.
// Los valores monetarios ya están redondeados: totales a 2 decimales, precios unitarios a 4.
type EnrichedLine struct {
	InvoiceLine
	AppliedDiscount decimal.Decimal
	ICMSSTCharged   decimal.Decimal // ICMS-ST que efectivamente se suma al costo
	NetValue        decimal.Decimal // vProd - descuento aplicado
	NetUnitPrice    decimal.Decimal // NetValue / cantidad comercial
	TotalPaid       decimal.Decimal
	Units           decimal.Decimal
	UnitsKind       UnitsKind
	UnitsNote       string
	UnitCost        decimal.Decimal
	PerMeasure      *PerMeasurePrice
	Size            *SizeInfo
	Pack            *int
}

// LineResult línea enriquecida con el precio de tabla y su clasificación.
type LineResult struct {
	EnrichedLine
	TablePrice     decimal.Decimal
	MatchTag       MatchTag
	MatchedBarcode string
	MatchScore     float64 // solo para MatchFuzzy
	MinimumPrice   decimal.Decimal
	Status         LineStatus
	Note           string
}

// DocumentConference conferencia de un documento individual.
type DocumentConference struct {
	Source        string
	LinesTotal    decimal.Decimal
	DeclaredTotal decimal.Decimal
	Difference    decimal.Decimal
	Balanced      bool
}

// Conference compara la suma de los totales calculados con el vNF declarado.
// Es informativa: nunca bloquea los resultados por línea.
type Conference struct {
	LinesTotal       decimal.Decimal
	DeclaredTotal    decimal.Decimal
	DeclaredDiscount decimal.Decimal
	Difference       decimal.Decimal // LinesTotal - DeclaredTotal, 2 decimales
	Balanced         bool
	Documents        []DocumentConference
}

// Diagnostics contadores del lote para soporte y depuración.
type Diagnostics struct {
	Items                 int
	WithBarcode           int
	WithTaxableBarcode    int
	PriceRows             int
	PriceRowsWithoutPrice int
	ByStatus              map[LineStatus]int
	ByMatch               map[MatchTag]int
	NoPriceSample         []LineResult // primeras líneas sin precio
}

// Report resultado completo de una corrida de conferencia.
type Report struct {
	Lines         []LineResult
	Conference    Conference
	MarginPercent decimal.Decimal
	Multiplier    decimal.Decimal
	Diagnostics   Diagnostics
}
