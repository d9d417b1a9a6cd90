package entity

import "github.com/shopspring/decimal"

// InvoiceDocument representa una NF-e ya leída: sus líneas de producto y los totales declarados.
type InvoiceDocument struct {
	Source           string // nombre del archivo o identificador asignado al subirlo
	AccessKey        string // chave de acesso (44 dígitos), vacía si el XML no la trae
	Number           string // ide/nNF
	IssuerName       string // emit/xNome
	Lines            []InvoiceLine
	DeclaredDiscount decimal.Decimal // ICMSTot/vDesc
	DeclaredTotal    decimal.Decimal // ICMSTot/vNF
}

// InvoiceLine representa un ítem (det/prod) tal como viene en la NF-e.
// Los códigos de barras ya están normalizados: "" significa ausente.
type InvoiceLine struct {
	Source         string
	Position       int // índice 1-based dentro del documento
	Code           string
	Description    string
	CommercialUnit string
	CommercialQty  decimal.Decimal
	TaxableUnit    string
	TaxableQty     decimal.Decimal
	GrossValue     decimal.Decimal // vProd
	Discount       decimal.Decimal // vDesc del ítem
	OtherCharges   decimal.Decimal // vOutro
	IPI            decimal.Decimal
	ICMSST         decimal.Decimal // vICMSST informado en el grupo ICMS
	ICMSCST        string          // CST o CSOSN del grupo ICMS
	Barcode        string          // cEAN
	TaxableBarcode string          // cEANTrib
}
