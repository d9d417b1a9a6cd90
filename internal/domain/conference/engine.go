package conference

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
	"github.com/jhoicas/conferencia-nfe/pkg/nfe"
)

// noPriceSampleSize cantidad de líneas sin precio que se copian al diagnóstico.
const noPriceSampleSize = 10

// Config parámetros de una corrida.
type Config struct {
	MarginPercent  decimal.Decimal
	FuzzyThreshold float64
	STExemptCodes  []string
	TaxEnrichment  bool
}

// DefaultConfig margen 50%, similitud 0.80, CST 60 exento de ICMS-ST y enriquecimiento tributario activo.
func DefaultConfig() Config {
	return Config{
		MarginPercent:  decimal.NewFromInt(50),
		FuzzyThreshold: DefaultFuzzyThreshold,
		STExemptCodes:  append([]string(nil), nfe.DefaultSTExemptCodes...),
		TaxEnrichment:  true,
	}
}

// Event evento de diagnóstico emitido durante una corrida.
type Event struct {
	Stage   string // decompose, index, match, conference
	Message string
	Fields  map[string]interface{}
}

// Observer recibe los eventos de diagnóstico. El motor nunca escribe logs por su cuenta.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapta una función a Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

// LevelObserver lo implementan los observadores que pueden descartar eventos antes de armarlos.
type LevelObserver interface {
	Observer
	Enabled() bool
}

// Engine motor de conferencia. Es inmutable: una misma instancia puede atender corridas concurrentes.
type Engine struct {
	cfg      Config
	exempt   map[string]bool
	observer Observer
}

// NewEngine construye el motor. observer puede ser nil.
func NewEngine(cfg Config, observer Observer) *Engine {
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = DefaultFuzzyThreshold
	}
	exempt := make(map[string]bool, len(cfg.STExemptCodes))
	for _, c := range cfg.STExemptCodes {
		exempt[c] = true
	}
	return &Engine{cfg: cfg, exempt: exempt, observer: observer}
}

// Config devuelve la configuración efectiva.
func (e *Engine) Config() Config { return e.cfg }

// WithMargin devuelve una copia del motor con otro margen.
func (e *Engine) WithMargin(marginPercent decimal.Decimal) *Engine {
	cp := *e
	cp.cfg.MarginPercent = marginPercent
	return &cp
}

// observing indica si vale la pena armar el evento.
func (e *Engine) observing() bool {
	if e.observer == nil {
		return false
	}
	if lo, ok := e.observer.(LevelObserver); ok {
		return lo.Enabled()
	}
	return true
}

// emit llama a fields solo si hay quien escuche.
func (e *Engine) emit(stage, msg string, fields func() map[string]interface{}) {
	if !e.observing() {
		return
	}
	e.observer.Observe(Event{Stage: stage, Message: msg, Fields: fields()})
}

// Enrich reparte el descuento de la nota y descompone cada línea del documento.
func (e *Engine) Enrich(doc entity.InvoiceDocument) []entity.EnrichedLine {
	opts := DecomposeOptions{TaxEnrichment: e.cfg.TaxEnrichment, STExempt: e.exempt}
	shares := make([]decimal.Decimal, len(doc.Lines))
	if e.cfg.TaxEnrichment {
		shares = ApportionDiscounts(doc.Lines, doc.DeclaredDiscount)
	}

	out := make([]entity.EnrichedLine, 0, len(doc.Lines))
	for i, line := range doc.Lines {
		if line.Source == "" {
			line.Source = doc.Source
		}
		enriched := Decompose(line, shares[i], opts)
		if enriched.UnitsKind == entity.UnitsNotIdentified || enriched.UnitsKind == entity.UnitsFallback {
			e.emit("decompose", "unidades no deducidas de la descripción", func() map[string]interface{} {
				return map[string]interface{}{
					"source":      line.Source,
					"position":    line.Position,
					"unit":        line.CommercialUnit,
					"units_kind":  string(enriched.UnitsKind),
					"description": line.Description,
				}
			})
		}
		out = append(out, enriched)
	}
	return out
}

// Run ejecuta la conferencia completa. Los documentos se procesan en el orden recibido
// y las líneas resultantes conservan ese orden.
func (e *Engine) Run(docs []entity.InvoiceDocument, rows []entity.PriceTableRow) *entity.Report {
	conf := entity.Conference{
		LinesTotal:       decimal.Zero,
		DeclaredTotal:    decimal.Zero,
		DeclaredDiscount: decimal.Zero,
		Documents:        make([]entity.DocumentConference, 0, len(docs)),
	}
	var enriched []entity.EnrichedLine
	for _, doc := range docs {
		lines := e.Enrich(doc)
		total := decimal.Zero
		for _, l := range lines {
			total = total.Add(l.TotalPaid)
		}
		diff, balanced := Balance(total, doc.DeclaredTotal)
		conf.Documents = append(conf.Documents, entity.DocumentConference{
			Source:        doc.Source,
			LinesTotal:    total,
			DeclaredTotal: doc.DeclaredTotal.Round(currencyPlaces),
			Difference:    diff,
			Balanced:      balanced,
		})
		conf.LinesTotal = conf.LinesTotal.Add(total)
		conf.DeclaredTotal = conf.DeclaredTotal.Add(doc.DeclaredTotal)
		conf.DeclaredDiscount = conf.DeclaredDiscount.Add(doc.DeclaredDiscount)
		enriched = append(enriched, lines...)
	}
	conf.Difference, conf.Balanced = Balance(conf.LinesTotal, conf.DeclaredTotal)
	conf.DeclaredTotal = conf.DeclaredTotal.Round(currencyPlaces)
	conf.DeclaredDiscount = conf.DeclaredDiscount.Round(currencyPlaces)
	if !conf.Balanced {
		e.emit("conference", "total calculado difiere del vNF", func() map[string]interface{} {
			return map[string]interface{}{
				"lines_total":    conf.LinesTotal.String(),
				"declared_total": conf.DeclaredTotal.String(),
				"difference":     conf.Difference.String(),
			}
		})
	}

	index := BuildIndex(rows)
	e.emit("index", "tabla de precios indexada", func() map[string]interface{} {
		return map[string]interface{}{
			"rows":          index.Rows(),
			"without_price": index.RowsWithoutPrice(),
			"candidates":    index.Candidates(),
		}
	})
	matcher := NewMatcher(index, e.cfg.FuzzyThreshold)

	report := &entity.Report{
		Lines:         make([]entity.LineResult, 0, len(enriched)),
		Conference:    conf,
		MarginPercent: e.cfg.MarginPercent,
		Multiplier:    Multiplier(e.cfg.MarginPercent),
		Diagnostics: entity.Diagnostics{
			Items:                 len(enriched),
			PriceRows:             index.Rows(),
			PriceRowsWithoutPrice: index.RowsWithoutPrice(),
			ByStatus:              make(map[entity.LineStatus]int),
			ByMatch:               make(map[entity.MatchTag]int),
		},
	}
	for _, line := range enriched {
		res := e.resolve(line, matcher.Match(line.InvoiceLine))
		report.Lines = append(report.Lines, res)

		d := &report.Diagnostics
		if line.Barcode != "" {
			d.WithBarcode++
		}
		if line.TaxableBarcode != "" {
			d.WithTaxableBarcode++
		}
		d.ByStatus[res.Status]++
		d.ByMatch[res.MatchTag]++
		if res.Status == entity.StatusNoPrice && len(d.NoPriceSample) < noPriceSampleSize {
			d.NoPriceSample = append(d.NoPriceSample, res)
		}
	}
	return report
}

func (e *Engine) resolve(line entity.EnrichedLine, m Match) entity.LineResult {
	minimum := MinimumPrice(line.UnitCost, e.cfg.MarginPercent)
	res := entity.LineResult{
		EnrichedLine:   line,
		TablePrice:     m.Price,
		MatchTag:       m.Tag,
		MatchedBarcode: m.Barcode,
		MatchScore:     m.Score,
		MinimumPrice:   minimum,
		Status:         Classify(line.UnitCost, m.Price, minimum),
		Note:           m.Note,
	}
	if res.Status == entity.StatusParseError && res.Note == "" {
		res.Note = "costo unitario no determinado"
	}
	if m.Tag == entity.MatchNone {
		e.emit("match", "línea sin precio en la tabla", func() map[string]interface{} {
			return map[string]interface{}{
				"source":      line.Source,
				"position":    line.Position,
				"barcode":     line.Barcode,
				"description": line.Description,
				"note":        m.Note,
			}
		})
	}
	return res
}
