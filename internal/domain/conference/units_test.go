package conference_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conferencia-nfe/internal/domain/conference"
	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// ParseSize / DetectPack
// ──────────────────────────────────────────────────────────────────────────────

func TestParseSize(t *testing.T) {
	cases := []struct {
		desc    string
		unit    string
		norm    string
		perUnit string
	}{
		{"BISCOITO RECHEADO 180G", "G", "KG", "0.18"},
		{"ARROZ TIPO 1 5KG", "KG", "KG", "5"},
		{"REFRIGERANTE 350 ml", "ML", "L", "0.35"},
		{"OLEO SOJA 0,9L", "L", "L", "0.9"},
		{"AGUA 1.5 LITROS", "LITROS", "L", "1.5"},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			size := conference.ParseSize(tc.desc)
			require.NotNil(t, size, "debe detectarse un tamaño")
			assert.Equal(t, tc.unit, size.Unit)
			assert.Equal(t, tc.norm, size.NormalizedUnit)
			assertDecimal(t, tc.perUnit, size.PerUnit, "magnitud normalizada")
		})
	}
}

func TestParseSize_SinTamaño(t *testing.T) {
	assert.Nil(t, conference.ParseSize("QUEIJO MUSSARELA"), "sin tamaño en la descripción")
	assert.Nil(t, conference.ParseSize("PRODUTO 0G"), "tamaño cero se trata como desconocido")
	assert.Nil(t, conference.ParseSize(""), "descripción vacía")
}

func TestDetectPack(t *testing.T) {
	n, ok := conference.DetectPack("CERVEJA 350ML 12UN")
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	n, ok = conference.DetectPack("SUCO 6 PACK")
	assert.True(t, ok)
	assert.Equal(t, 6, n)

	_, ok = conference.DetectPack("CERVEJA 350ML")
	assert.False(t, ok, "sin pack declarado no debe asumirse pack de 1")
}

// ──────────────────────────────────────────────────────────────────────────────
// InferUnits
// ──────────────────────────────────────────────────────────────────────────────

func TestInferUnits(t *testing.T) {
	cases := []struct {
		name  string
		line  entity.InvoiceLine
		units string
		kind  entity.UnitsKind
	}{
		{
			name:  "unidad directa",
			line:  entity.InvoiceLine{TaxableUnit: "UN", TaxableQty: dec("6"), Description: "SABONETE 90G"},
			units: "6",
			kind:  entity.UnitsDirect,
		},
		{
			name:  "etiqueta con espacios y minúsculas",
			line:  entity.InvoiceLine{TaxableUnit: " lat ", TaxableQty: dec("24")},
			units: "24",
			kind:  entity.UnitsDirect,
		},
		{
			name:  "kilo con tamaño en gramos",
			line:  entity.InvoiceLine{TaxableUnit: "KG", TaxableQty: dec("2"), Description: "BISCOITO 180G"},
			units: "11.11",
			kind:  entity.UnitsComputed,
		},
		{
			name:  "litro con pack que cierra",
			line:  entity.InvoiceLine{TaxableUnit: "L", TaxableQty: dec("4.2"), Description: "REFRI 350ML 12UN"},
			units: "12",
			kind:  entity.UnitsComputedWithPack,
		},
		{
			name:  "mililitro convertido a litro",
			line:  entity.InvoiceLine{TaxableUnit: "ML", TaxableQty: dec("4200"), Description: "REFRI 350ML 12UN"},
			units: "12",
			kind:  entity.UnitsComputedWithPack,
		},
		{
			name:  "kilo sin tamaño",
			line:  entity.InvoiceLine{TaxableUnit: "KG", TaxableQty: dec("3.5"), Description: "QUEIJO MUSSARELA"},
			units: "3.5",
			kind:  entity.UnitsNotIdentified,
		},
		{
			name:  "etiqueta desconocida",
			line:  entity.InvoiceLine{TaxableUnit: "CX", TaxableQty: dec("3")},
			units: "3",
			kind:  entity.UnitsFallback,
		},
		{
			name:  "etiqueta desconocida con cantidad cero",
			line:  entity.InvoiceLine{TaxableUnit: "FD", TaxableQty: dec("0")},
			units: "1",
			kind:  entity.UnitsFallback,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := conference.InferUnits(tc.line)
			assert.Equal(t, tc.kind, got.Kind)
			assertDecimal(t, tc.units, got.Units.Round(2), "unidades")
			assert.NotEmpty(t, got.Note, "toda deducción deja una nota")
		})
	}
}

func TestInferUnits_PackQueNoCierra(t *testing.T) {
	// 4/0.35 = 11.43: el pack declarado no coincide, se usa el valor calculado.
	got := conference.InferUnits(entity.InvoiceLine{
		TaxableUnit: "L", TaxableQty: dec("4"), Description: "REFRI 350ML 12UN",
	})
	assert.Equal(t, entity.UnitsComputed, got.Kind)
	assertDecimal(t, "11.43", got.Units.Round(2), "unidades")
}
