// Package pdf genera el reporte imprimible de una corrida de conferencia.
//
// Layout de la página A4 apaisada:
//
//	┌──────────────────────────────────────────────────────────────┐
//	│  HEADER: título + corrida + fecha  │  margen / multiplicador │
//	│  DOCUMENTOS: archivos + origen de la tabla                   │
//	│  ──────────────────────────────────────────────────────────  │
//	│  CONFERENCIA: total calculado / vNF / diferencia por nota    │
//	│  ──────────────────────────────────────────────────────────  │
//	│  TABLA: # | Descripción | EAN | Costo | Mínimo | Tabla | Est. │
//	│  ──────────────────────────────────────────────────────────  │
//	│  RESUMEN: cantidad de líneas por estado                      │
//	└──────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"sort"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/conferencia-nfe/internal/application/comparison"
	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 20, Blue: 20}
	colorGreen   = &props.Color{Red: 20, Green: 120, Blue: 40}
)

var statusLabels = map[entity.LineStatus]string{
	entity.StatusOK:           "OK",
	entity.StatusBelowMinimum: "ABAIXO",
	entity.StatusNoPrice:      "SEM PREÇO",
	entity.StatusParseError:   "ERRO",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ comparison.ReportRenderer = (*ReportGenerator)(nil)

// ReportGenerator implementa comparison.ReportRenderer usando Maroto v2.
type ReportGenerator struct{}

// NewReportGenerator construye el generador.
func NewReportGenerator() *ReportGenerator { return &ReportGenerator{} }

// Render genera el PDF de la corrida y devuelve sus bytes.
func (g *ReportGenerator) Render(run *entity.ComparisonRun) ([]byte, error) {
	if run == nil || run.Report == nil {
		return nil, fmt.Errorf("pdf: corrida sin reporte")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Conferencia de precios NF-e", true).
		Build()

	m := maroto.New(cfg)
	r := run.Report

	m.AddRows(headerRow(run))
	m.AddRows(documentsRow(run))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(conferenceRows(r.Conference)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(r.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(r.Diagnostics))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(run *entity.ComparisonRun) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("CONFERÊNCIA DE PREÇOS NF-e", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Corrida %s   |   %s", run.ID, run.CreatedAt.Format("02/01/2006 15:04")), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Margem: "+run.Report.MarginPercent.String()+"%", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New("Multiplicador: "+run.Report.Multiplier.String(), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func documentsRow(run *entity.ComparisonRun) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Documentos: %s   |   Tabela: %s", strings.Join(run.Documents, ", "), run.TableSource), props.Text{
			Size: 8, Top: 1, Color: colorGray,
		}),
	))
}

func conferenceRows(c entity.Conference) []core.Row {
	rows := []core.Row{
		row.New(7).Add(
			col.New(6).Add(text.New("CONFERÊNCIA DO TOTAL", props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1,
			})),
			col.New(6).Add(text.New(balanceLabel(c.Balanced), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1, Color: balanceColor(c.Balanced),
			})),
		),
		row.New(6).Add(col.New(12).Add(text.New(fmt.Sprintf(
			"Total calculado: %s   |   vNF: %s   |   Desconto declarado: %s   |   Diferença: %s",
			formatMoney(c.LinesTotal), formatMoney(c.DeclaredTotal), formatMoney(c.DeclaredDiscount), formatMoney(c.Difference),
		), props.Text{Size: 8, Top: 1}))),
	}
	if len(c.Documents) > 1 {
		for _, d := range c.Documents {
			rows = append(rows, row.New(5).Add(col.New(12).Add(text.New(fmt.Sprintf(
				"%s: calculado %s, vNF %s, diferença %s",
				d.Source, formatMoney(d.LinesTotal), formatMoney(d.DeclaredTotal), formatMoney(d.Difference),
			), props.Text{Size: 7, Left: 3, Color: balanceColor(d.Balanced)}))))
		}
	}
	return rows
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Descrição", 4, align.Left),
		h("EAN", 2, align.Left),
		h("Custo un.", 1, align.Right),
		h("Mínimo", 1, align.Right),
		h("Tabela", 1, align.Right),
		h("Status", 2, align.Center),
	)
}

func tableDetailRows(lines []entity.LineResult) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		color := colorForStatus(l.Status)
		result = append(result, row.New(6).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.Position), props.Text{Size: 7, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(l.Description, props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(l.Barcode, l.TaxableBarcode, "—"), props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(1).Add(text.New(formatMoney(l.UnitCost), props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(formatMoney(l.MinimumPrice), props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(formatMoney(l.TablePrice), props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(statusLabels[l.Status], props.Text{
				Style: fontstyle.Bold, Size: 7, Align: align.Center, Top: 1, Color: color,
			})),
		))
	}
	return result
}

func summaryRow(d entity.Diagnostics) core.Row {
	statuses := make([]string, 0, len(d.ByStatus))
	for s := range d.ByStatus {
		statuses = append(statuses, string(s))
	}
	sort.Strings(statuses)
	parts := make([]string, 0, len(statuses))
	for _, s := range statuses {
		parts = append(parts, fmt.Sprintf("%s: %d", statusLabels[entity.LineStatus(s)], d.ByStatus[entity.LineStatus(s)]))
	}
	return row.New(8).Add(col.New(12).Add(text.New(
		fmt.Sprintf("Itens: %d   |   %s", d.Items, strings.Join(parts, "   |   ")),
		props.Text{Style: fontstyle.Bold, Size: 8, Top: 2},
	)))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func balanceLabel(ok bool) string {
	if ok {
		return "CONFERE"
	}
	return "NÃO CONFERE"
}

func balanceColor(ok bool) *props.Color {
	if ok {
		return colorGreen
	}
	return colorRed
}

func colorForStatus(s entity.LineStatus) *props.Color {
	switch s {
	case entity.StatusOK:
		return colorGreen
	case entity.StatusBelowMinimum:
		return colorRed
	default:
		return colorGray
	}
}

func nonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// formatMoney formato brasileño con dos decimales: 1234.5 → "1.234,50".
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "," + frac
	if d.IsNegative() {
		return "-" + out
	}
	return out
}
