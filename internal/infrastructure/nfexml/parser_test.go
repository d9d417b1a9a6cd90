package nfexml_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/conferencia-nfe/internal/domain"
	"github.com/jhoicas/conferencia-nfe/internal/infrastructure/nfexml"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

const infNFeBody = `
<infNFe Id="NFe35230901234567000190550010000012341000123468" versao="4.00">
  <ide><nNF>1234</nNF></ide>
  <emit><xNome>DISTRIBUIDORA EXEMPLO LTDA</xNome></emit>
  <det nItem="1">
    <prod>
      <cProd>001</cProd>
      <cEAN>7891234567890</cEAN>
      <xProd>BISCOITO RECHEADO 180G</xProd>
      <uCom>KG</uCom>
      <qCom>2.0000</qCom>
      <vProd>36.00</vProd>
      <cEANTrib>SEM GTIN</cEANTrib>
      <uTrib>KG</uTrib>
      <qTrib>2.0000</qTrib>
      <vDesc>1.50</vDesc>
    </prod>
    <imposto>
      <ICMS><ICMS10><orig>0</orig><CST>10</CST><vICMSST>2.35</vICMSST></ICMS10></ICMS>
      <IPI><IPITrib><CST>50</CST><vIPI>1,80</vIPI></IPITrib></IPI>
    </imposto>
  </det>
  <det nItem="2">
    <prod>
      <cProd>002</cProd>
      <cEAN></cEAN>
      <xProd>REFRIGERANTE 350ML</xProd>
      <uCom>UN</uCom>
      <qCom>12</qCom>
      <vProd>48.00</vProd>
      <cEANTrib>07891234567890</cEANTrib>
      <uTrib>UN</uTrib>
      <qTrib>12</qTrib>
      <vOutro>0.60</vOutro>
    </prod>
    <imposto>
      <ICMS><ICMSSN500><orig>0</orig><CSOSN>500</CSOSN></ICMSSN500></ICMS>
    </imposto>
  </det>
  <total><ICMSTot><vDesc>1.50</vDesc><vNF>87.25</vNF></ICMSTot></total>
</infNFe>`

const nfeProcXML = `<?xml version="1.0" encoding="UTF-8"?>
<nfeProc xmlns="http://www.portalfiscal.inf.br/nfe" versao="4.00">
  <NFe xmlns="http://www.portalfiscal.inf.br/nfe">` + infNFeBody + `</NFe>
  <protNFe versao="4.00"><infProt><cStat>100</cStat></infProt></protNFe>
</nfeProc>`

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Parse
// ──────────────────────────────────────────────────────────────────────────────

func TestParse_NotaProcesada(t *testing.T) {
	doc, err := nfexml.NewParser().Parse("nota.xml", []byte(nfeProcXML))
	require.NoError(t, err)

	assert.Equal(t, "nota.xml", doc.Source)
	assert.Equal(t, "1234", doc.Number)
	assert.Equal(t, "DISTRIBUIDORA EXEMPLO LTDA", doc.IssuerName)
	assert.Equal(t, "35230901234567000190550010000012341000123468", doc.AccessKey)
	assert.True(t, dec("1.50").Equal(doc.DeclaredDiscount), "vDesc total")
	assert.True(t, dec("87.25").Equal(doc.DeclaredTotal), "vNF")
	require.Len(t, doc.Lines, 2)

	first := doc.Lines[0]
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, "nota.xml", first.Source)
	assert.Equal(t, "001", first.Code)
	assert.Equal(t, "BISCOITO RECHEADO 180G", first.Description)
	assert.Equal(t, "7891234567890", first.Barcode)
	assert.Empty(t, first.TaxableBarcode, "SEM GTIN queda vacío")
	assert.Equal(t, "KG", first.TaxableUnit)
	assert.True(t, dec("2").Equal(first.TaxableQty))
	assert.True(t, dec("36").Equal(first.GrossValue))
	assert.True(t, dec("1.5").Equal(first.Discount))
	assert.True(t, dec("2.35").Equal(first.ICMSST), "vICMSST del grupo ICMS10")
	assert.Equal(t, "10", first.ICMSCST)
	assert.True(t, dec("1.8").Equal(first.IPI), "vIPI con coma decimal")

	second := doc.Lines[1]
	assert.Equal(t, 2, second.Position)
	assert.Empty(t, second.Barcode, "cEAN vacío")
	assert.Equal(t, "07891234567890", second.TaxableBarcode, "GTIN-14")
	assert.Equal(t, "500", second.ICMSCST, "CSOSN cuando no hay CST")
	assert.True(t, second.ICMSST.IsZero())
	assert.True(t, second.IPI.IsZero(), "sin grupo IPI")
	assert.True(t, dec("0.6").Equal(second.OtherCharges))
}

func TestParse_FormasDelDocumento(t *testing.T) {
	shapes := map[string]string{
		"NFe sin protocolo": `<NFe xmlns="http://www.portalfiscal.inf.br/nfe">` + infNFeBody + `</NFe>`,
		"infNFe suelto":     infNFeBody,
	}
	for name, xml := range shapes {
		t.Run(name, func(t *testing.T) {
			doc, err := nfexml.NewParser().Parse(name, []byte(xml))
			require.NoError(t, err)
			assert.Len(t, doc.Lines, 2)
			assert.True(t, dec("87.25").Equal(doc.DeclaredTotal))
		})
	}
}

func TestParse_ISO88591(t *testing.T) {
	xml := `<?xml version="1.0" encoding="ISO-8859-1"?>
<NFe><infNFe><det><prod><xProd>AÇÚCAR CRISTAL 1KG</xProd><uTrib>UN</uTrib><qTrib>1</qTrib><vProd>4,50</vProd></prod></det></infNFe></NFe>`
	latin1, err := charmap.ISO8859_1.NewEncoder().String(xml)
	require.NoError(t, err)

	doc, err := nfexml.NewParser().Parse("latin1.xml", []byte(latin1))
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "AÇÚCAR CRISTAL 1KG", doc.Lines[0].Description)
	assert.True(t, dec("4.5").Equal(doc.Lines[0].GrossValue))
	assert.Empty(t, doc.AccessKey, "sin atributo Id")
}

func TestParse_CamposAusentes(t *testing.T) {
	xml := `<NFe><infNFe Id="NFe123"><det><prod><xProd>SEM VALORES</xProd></prod></det></infNFe></NFe>`
	doc, err := nfexml.NewParser().Parse("parcial.xml", []byte(xml))
	require.NoError(t, err)

	line := doc.Lines[0]
	assert.True(t, line.GrossValue.IsZero())
	assert.True(t, line.TaxableQty.IsZero())
	assert.Empty(t, line.Barcode)
	assert.Empty(t, doc.AccessKey, "clave inválida se descarta")
	assert.True(t, doc.DeclaredTotal.IsZero())
}

func TestParse_Errores(t *testing.T) {
	cases := map[string]string{
		"XML ilegible": `<NFe><infNFe>`,
		"vacío":        ``,
		"sin infNFe":   `<otroDocumento><det/></otroDocumento>`,
		"sin ítems":    `<NFe><infNFe><ide><nNF>1</nNF></ide></infNFe></NFe>`,
		"det sin prod": `<NFe><infNFe><det><imposto/></det></infNFe></NFe>`,
	}
	for name, xml := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := nfexml.NewParser().Parse(name, []byte(xml))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedDocument)
		})
	}
}
