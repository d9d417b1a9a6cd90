// Package nfexml lee NF-e (modelo 55) en XML y las convierte en entity.InvoiceDocument.
package nfexml

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/jhoicas/conferencia-nfe/internal/domain"
	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
	"github.com/jhoicas/conferencia-nfe/pkg/nfe"
)

// infNFePaths formas conocidas del documento, en orden de prioridad:
// nota procesada (con protocolo), nota sin protocolo y el bloque infNFe suelto.
var infNFePaths = []string{"nfeProc/NFe/infNFe", "NFe/infNFe", "infNFe"}

// Parser lee el XML de una NF-e. No valida el esquema: campos ausentes o mal formados quedan en cero o vacío.
type Parser struct{}

// NewParser crea el parser.
func NewParser() *Parser { return &Parser{} }

// Parse convierte el XML en documento. source identifica el archivo en los resultados.
func (p *Parser) Parse(source string, data []byte) (*entity.InvoiceDocument, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: XML ilegible: %v", domain.ErrMalformedDocument, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: documento sin raíz", domain.ErrMalformedDocument)
	}

	inf := findInfNFe(doc)
	if inf == nil {
		return nil, fmt.Errorf("%w: no se encontró infNFe", domain.ErrMalformedDocument)
	}

	out := &entity.InvoiceDocument{
		Source:           source,
		Number:           text(inf, "ide/nNF"),
		IssuerName:       text(inf, "emit/xNome"),
		DeclaredDiscount: number(inf, "total/ICMSTot/vDesc"),
		DeclaredTotal:    number(inf, "total/ICMSTot/vNF"),
	}
	if key := inf.SelectAttrValue("Id", ""); key != "" && nfe.ValidateAccessKey(key) == nil {
		out.AccessKey = nfe.OnlyDigits(key)
	}

	for _, det := range inf.SelectElements("det") {
		prod := det.SelectElement("prod")
		if prod == nil {
			continue
		}
		out.Lines = append(out.Lines, parseLine(source, len(out.Lines)+1, prod, det.SelectElement("imposto")))
	}
	if len(out.Lines) == 0 {
		return nil, fmt.Errorf("%w: la nota no tiene ítems det/prod", domain.ErrMalformedDocument)
	}
	return out, nil
}

func findInfNFe(doc *etree.Document) *etree.Element {
	for _, path := range infNFePaths {
		if el := doc.FindElement(path); el != nil {
			return el
		}
	}
	return nil
}

func parseLine(source string, position int, prod, imposto *etree.Element) entity.InvoiceLine {
	line := entity.InvoiceLine{
		Source:         source,
		Position:       position,
		Code:           text(prod, "cProd"),
		Description:    text(prod, "xProd"),
		CommercialUnit: text(prod, "uCom"),
		CommercialQty:  number(prod, "qCom"),
		TaxableUnit:    text(prod, "uTrib"),
		TaxableQty:     number(prod, "qTrib"),
		GrossValue:     number(prod, "vProd"),
		Discount:       number(prod, "vDesc"),
		OtherCharges:   number(prod, "vOutro"),
		Barcode:        nfe.NormalizeGTIN(text(prod, "cEAN")),
		TaxableBarcode: nfe.NormalizeGTIN(text(prod, "cEANTrib")),
		IPI:            decimal.Zero,
		ICMSST:         decimal.Zero,
	}
	if imposto == nil {
		return line
	}

	// ICMS trae un único grupo hijo (ICMS00, ICMS10, ICMS60, ICMSSN202, ...).
	if icms := imposto.SelectElement("ICMS"); icms != nil {
		if groups := icms.ChildElements(); len(groups) > 0 {
			g := groups[0]
			line.ICMSST = number(g, "vICMSST")
			line.ICMSCST = text(g, "CST")
			if line.ICMSCST == "" {
				line.ICMSCST = text(g, "CSOSN")
			}
		}
	}
	line.IPI = number(imposto, "IPI/IPITrib/vIPI")
	return line
}

func text(el *etree.Element, path string) string {
	if found := el.FindElement(path); found != nil {
		return strings.TrimSpace(found.Text())
	}
	return ""
}

func number(el *etree.Element, path string) decimal.Decimal {
	return nfe.ParseNumber(text(el, path))
}

// charsetReader permite notas declaradas en ISO-8859-1 o windows-1252, comunes en emisores antiguos.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("charset no soportado %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
