// Package nfe contiene catálogos y utilidades de la Nota Fiscal Eletrônica (NF-e, Brasil)
// usados por los adaptadores de entrada y por el motor de conferencia.
package nfe

import "strings"

// =============================================================================
// Unidades tributables (uTrib)
// Etiquetas libres del emisor; estas son las observadas en documentos reales.
// =============================================================================

const (
	UnitLata     = "LAT" // Lata
	UnitGarrafa  = "GR"  // Garrafa / frasco
	UnitPeca     = "PEC" // Peça
	UnitUnidade  = "UN"  // Unidade
	UnitUnidade1 = "UN1"
	UnitPeca1    = "PC1"
	UnitUnd      = "UND"
	UnitUnid     = "UNID"
	UnitPc       = "PC"

	UnitKilogram   = "KG"
	UnitGram       = "G"
	UnitLitre      = "L"
	UnitMillilitre = "ML"
)

// DirectUnitLabels unidades contables: la cantidad tributable ya es el número de unidades vendibles.
var DirectUnitLabels = map[string]bool{
	UnitLata: true, UnitGarrafa: true, UnitPeca: true, UnitUnidade: true,
	UnitUnidade1: true, UnitPeca1: true, UnitUnd: true, UnitUnid: true, UnitPc: true,
}

// MeasureUnitLabels unidades de masa o volumen: hay que deducir las unidades por el tamaño del producto.
var MeasureUnitLabels = map[string]bool{
	UnitKilogram: true, UnitGram: true, UnitLitre: true, UnitMillilitre: true,
}

// NormalizeUnitLabel deja la etiqueta en mayúsculas y sin espacios para compararla con los catálogos.
func NormalizeUnitLabel(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}

// =============================================================================
// CST / CSOSN del ICMS relevantes para la sustitución tributaria
// =============================================================================

const (
	CSTTributadaComST      = "10" // Tributada y con cobro de ICMS por ST
	CSTIsentaComST         = "30" // Exenta / no tributada con cobro de ICMS por ST
	CSTCobradoAnteriorST   = "60" // ICMS cobrado anteriormente por ST (ya retenido)
	CSOSNCobradoAnteriorST = "500"
)

// DefaultSTExemptCodes códigos cuyo ICMS-ST ya fue retenido aguas arriba y no se suma al costo.
// TODO: confirmar con el área fiscal si CSOSN 500 debe entrar en el conjunto por defecto.
var DefaultSTExemptCodes = []string{CSTCobradoAnteriorST}

// SemGTIN literal que el emisor usa cuando el producto no tiene código de barras.
const SemGTIN = "SEM GTIN"
