package comparison_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conferencia-nfe/internal/application/comparison"
	"github.com/jhoicas/conferencia-nfe/internal/domain"
	"github.com/jhoicas/conferencia-nfe/internal/domain/conference"
	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
	"github.com/jhoicas/conferencia-nfe/internal/infrastructure/nfexml"
	"github.com/jhoicas/conferencia-nfe/internal/infrastructure/spreadsheet"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test
// ──────────────────────────────────────────────────────────────────────────────

type memTables struct {
	rows []entity.PriceTableRow
	err  error
}

func (m *memTables) Replace(context.Context, entity.PriceTableSummary, []entity.PriceTableRow) error {
	return nil
}

func (m *memTables) List(context.Context) ([]entity.PriceTableRow, error) { return m.rows, m.err }

func (m *memTables) Summary(context.Context) (*entity.PriceTableSummary, error) {
	return nil, domain.ErrNotFound
}

type memRuns struct {
	mu   sync.Mutex
	runs map[string]*entity.ComparisonRun
	err  error
}

func newMemRuns() *memRuns { return &memRuns{runs: map[string]*entity.ComparisonRun{}} }

func (m *memRuns) Create(_ context.Context, run *entity.ComparisonRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.runs[run.ID] = run
	return nil
}

func (m *memRuns) GetByID(_ context.Context, id string) (*entity.ComparisonRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return run, nil
}

func (m *memRuns) List(context.Context, int, int) ([]entity.ComparisonRunSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.ComparisonRunSummary
	for _, r := range m.runs {
		out = append(out, r.Summary())
	}
	return out, nil
}

func nfeXML(desc, ean, qty, vProd, vNF string) []byte {
	return []byte(fmt.Sprintf(`<NFe><infNFe>
<det><prod><cProd>1</cProd><cEAN>%s</cEAN><xProd>%s</xProd><uCom>UN</uCom><qCom>%s</qCom>
<vProd>%s</vProd><cEANTrib>SEM GTIN</cEANTrib><uTrib>UN</uTrib><qTrib>%s</qTrib></prod></det>
<total><ICMSTot><vDesc>0.00</vDesc><vNF>%s</vNF></ICMSTot></total>
</infNFe></NFe>`, ean, desc, qty, vProd, qty, vNF))
}

func csvTable() *comparison.File {
	return &comparison.File{
		Name: "precios.csv",
		Data: []byte("Código de barras;Preço;Descrição Produto\n7891234567890;5,00;ARROZ 5KG\n7891234567883;2,99;FEIJAO 1KG\n"),
	}
}

func newUseCase(tables *memTables, runs *memRuns) *comparison.UseCase {
	engine := conference.NewEngine(conference.DefaultConfig(), nil)
	xml := nfexml.NewParser()
	table := spreadsheet.NewParser(spreadsheet.DefaultColumns())
	if tables == nil || runs == nil {
		return comparison.NewUseCase(engine, xml, table, nil, nil, nil)
	}
	return comparison.NewUseCase(engine, xml, table, tables, runs, nil)
}

// ──────────────────────────────────────────────────────────────────────────────
// Compare
// ──────────────────────────────────────────────────────────────────────────────

func TestCompare_VariosDocumentosConservanOrden(t *testing.T) {
	uc := newUseCase(nil, nil)
	run, err := uc.Compare(context.Background(), comparison.Input{
		Documents: []comparison.File{
			{Name: "a.xml", Data: nfeXML("ARROZ 5KG", "7891234567890", "10", "20.00", "20.00")},
			{Name: "", Data: nfeXML("FEIJAO 1KG", "7891234567883", "1", "2.00", "2.00")},
		},
		Table: csvTable(),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, []string{"a.xml", "XML_2"}, run.Documents, "documento sin nombre recibe nombre genérico")
	assert.Equal(t, "upload:precios.csv", run.TableSource)
	require.Len(t, run.Report.Lines, 2)
	assert.Equal(t, "a.xml", run.Report.Lines[0].Source)
	assert.Equal(t, "XML_2", run.Report.Lines[1].Source)
	assert.Equal(t, entity.StatusOK, run.Report.Lines[0].Status, "costo 2, mínimo 3, precio 5")
	assert.Equal(t, entity.StatusBelowMinimum, run.Report.Lines[1].Status, "costo 2, mínimo 3, precio 2.99 no alcanza")
	assert.True(t, run.Report.Conference.Balanced)
}

func TestCompare_MargenPorPeticion(t *testing.T) {
	uc := newUseCase(nil, nil)
	margin := decimal.NewFromInt(200)
	run, err := uc.Compare(context.Background(), comparison.Input{
		Documents:     []comparison.File{{Name: "a.xml", Data: nfeXML("ARROZ 5KG", "7891234567890", "10", "20.00", "20.00")}},
		Table:         csvTable(),
		MarginPercent: &margin,
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(6).Equal(run.Report.Lines[0].MinimumPrice), "costo 2 con margen 200%")
	assert.Equal(t, entity.StatusBelowMinimum, run.Report.Lines[0].Status)
}

func TestCompare_Validaciones(t *testing.T) {
	uc := newUseCase(nil, nil)
	ctx := context.Background()

	_, err := uc.Compare(ctx, comparison.Input{Table: csvTable()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin documentos")

	negative := decimal.NewFromInt(-1)
	_, err = uc.Compare(ctx, comparison.Input{
		Documents:     []comparison.File{{Name: "a.xml", Data: nfeXML("X", "", "1", "1", "1")}},
		Table:         csvTable(),
		MarginPercent: &negative,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "margen negativo")

	_, err = uc.Compare(ctx, comparison.Input{
		Documents: []comparison.File{{Name: "a.xml", Data: nfeXML("X", "", "1", "1", "1")}},
	})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable, "sin tabla y sin base")
}

func TestCompare_DocumentoIlegibleAbortaLaCorrida(t *testing.T) {
	runs := newMemRuns()
	uc := newUseCase(&memTables{}, runs)
	_, err := uc.Compare(context.Background(), comparison.Input{
		Documents: []comparison.File{
			{Name: "bueno.xml", Data: nfeXML("ARROZ", "", "1", "1", "1")},
			{Name: "roto.xml", Data: []byte("<NFe>")},
		},
		Table: csvTable(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
	assert.Contains(t, err.Error(), "roto.xml", "el error nombra el archivo")
	assert.Empty(t, runs.runs, "no se guarda nada")
}

func TestCompare_TablaGuardadaEHistorial(t *testing.T) {
	tables := &memTables{rows: []entity.PriceTableRow{
		{Row: 2, Price: decimal.NewFromInt(5), Barcode: "7891234567890"},
	}}
	runs := newMemRuns()
	uc := newUseCase(tables, runs)

	run, err := uc.Compare(context.Background(), comparison.Input{
		UserID:    "u-1",
		Documents: []comparison.File{{Name: "a.xml", Data: nfeXML("ARROZ", "7891234567890", "10", "20", "20")}},
	})
	require.NoError(t, err)
	assert.Equal(t, comparison.TableSourceStored, run.TableSource)
	assert.Equal(t, entity.MatchBarcodePrimary, run.Report.Lines[0].MatchTag)

	saved, err := uc.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, "u-1", saved.UserID)

	list, err := uc.ListRuns(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCompare_TablaGuardadaVacia(t *testing.T) {
	uc := newUseCase(&memTables{}, newMemRuns())
	_, err := uc.Compare(context.Background(), comparison.Input{
		Documents: []comparison.File{{Name: "a.xml", Data: nfeXML("ARROZ", "", "1", "1", "1")}},
	})
	assert.ErrorIs(t, err, domain.ErrEmptyPriceTable)
}

func TestCompare_ErrorAlGuardar(t *testing.T) {
	runs := newMemRuns()
	runs.err = errors.New("conexión perdida")
	uc := newUseCase(&memTables{}, runs)
	_, err := uc.Compare(context.Background(), comparison.Input{
		Documents: []comparison.File{{Name: "a.xml", Data: nfeXML("ARROZ", "", "1", "1", "1")}},
		Table:     csvTable(),
	})
	assert.Error(t, err)
}

func TestHistorial_SinBase(t *testing.T) {
	uc := newUseCase(nil, nil)
	assert.False(t, uc.HistoryEnabled())

	_, err := uc.GetRun(context.Background(), "00000000-0000-0000-0000-000000000001")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	_, err = uc.ListRuns(context.Background(), 20, 0)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestGetRun_IDInvalido(t *testing.T) {
	uc := newUseCase(&memTables{}, newMemRuns())
	_, err := uc.GetRun(context.Background(), "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
