package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
)

// ComparisonResponse respuesta de POST /api/comparar y de GET /api/comparaciones/:id.
type ComparisonResponse struct {
	RunID       string               `json:"run_id" yaml:"run_id"`
	CreatedAt   time.Time            `json:"created_at" yaml:"created_at"`
	Documents   []string             `json:"documents" yaml:"documents"`
	TableSource string               `json:"table_source" yaml:"table_source"`
	Items       []LineResultResponse `json:"items" yaml:"items"`
	Conferencia ConferenceResponse   `json:"conferencia" yaml:"conferencia"`
	Config      RunConfigResponse    `json:"config" yaml:"config"`
	Diagnostico DiagnosticsResponse  `json:"diagnostico" yaml:"diagnostico"`
}

// LineResultResponse línea conferida.
type LineResultResponse struct {
	Source         string              `json:"source" yaml:"source"`
	Position       int                 `json:"position" yaml:"position"`
	Code           string              `json:"code" yaml:"code"`
	Description    string              `json:"description" yaml:"description"`
	Barcode        string              `json:"barcode,omitempty" yaml:"barcode,omitempty"`
	TaxableBarcode string              `json:"taxable_barcode,omitempty" yaml:"taxable_barcode,omitempty"`
	CommercialUnit string              `json:"commercial_unit" yaml:"commercial_unit"`
	CommercialQty  decimal.Decimal     `json:"commercial_qty" yaml:"commercial_qty"`
	TaxableUnit    string              `json:"taxable_unit" yaml:"taxable_unit"`
	TaxableQty     decimal.Decimal     `json:"taxable_qty" yaml:"taxable_qty"`
	GrossValue     decimal.Decimal     `json:"gross_value" yaml:"gross_value"`
	Discount       decimal.Decimal     `json:"discount" yaml:"discount"`
	IPI            decimal.Decimal     `json:"ipi" yaml:"ipi"`
	ICMSST         decimal.Decimal     `json:"icms_st" yaml:"icms_st"`
	ICMSCST        string              `json:"icms_cst,omitempty" yaml:"icms_cst,omitempty"`
	OtherCharges   decimal.Decimal     `json:"other_charges" yaml:"other_charges"`
	NetValue       decimal.Decimal     `json:"net_value" yaml:"net_value"`
	NetUnitPrice   decimal.Decimal     `json:"net_unit_price" yaml:"net_unit_price"`
	TotalPaid      decimal.Decimal     `json:"total_paid" yaml:"total_paid"`
	Units          decimal.Decimal     `json:"units" yaml:"units"`
	UnitsKind      string              `json:"units_kind" yaml:"units_kind"`
	UnitsNote      string              `json:"units_note,omitempty" yaml:"units_note,omitempty"`
	UnitCost       decimal.Decimal     `json:"unit_cost" yaml:"unit_cost"`
	PerMeasure     *PerMeasureResponse `json:"per_measure,omitempty" yaml:"per_measure,omitempty"`
	Size           string              `json:"size,omitempty" yaml:"size,omitempty"`
	Pack           *int                `json:"pack,omitempty" yaml:"pack,omitempty"`
	TablePrice     decimal.Decimal     `json:"table_price" yaml:"table_price"`
	Match          string              `json:"match" yaml:"match"`
	MatchedBarcode string              `json:"matched_barcode,omitempty" yaml:"matched_barcode,omitempty"`
	MatchScore     float64             `json:"match_score,omitempty" yaml:"match_score,omitempty"`
	MinimumPrice   decimal.Decimal     `json:"minimum_price" yaml:"minimum_price"`
	Status         string              `json:"status" yaml:"status"`
	Note           string              `json:"note,omitempty" yaml:"note,omitempty"`
}

// PerMeasureResponse precio por KG o por L.
type PerMeasureResponse struct {
	Unit  string          `json:"unit" yaml:"unit"`
	Price decimal.Decimal `json:"price" yaml:"price"`
}

// ConferenceResponse total calculado contra vNF declarado.
type ConferenceResponse struct {
	LinesTotal       decimal.Decimal              `json:"lines_total" yaml:"lines_total"`
	DeclaredTotal    decimal.Decimal              `json:"declared_total" yaml:"declared_total"`
	DeclaredDiscount decimal.Decimal              `json:"declared_discount" yaml:"declared_discount"`
	Difference       decimal.Decimal              `json:"difference" yaml:"difference"`
	Balanced         bool                         `json:"balanced" yaml:"balanced"`
	Documents        []DocumentConferenceResponse `json:"documents" yaml:"documents"`
}

// DocumentConferenceResponse conferencia de un documento.
type DocumentConferenceResponse struct {
	Source        string          `json:"source" yaml:"source"`
	LinesTotal    decimal.Decimal `json:"lines_total" yaml:"lines_total"`
	DeclaredTotal decimal.Decimal `json:"declared_total" yaml:"declared_total"`
	Difference    decimal.Decimal `json:"difference" yaml:"difference"`
	Balanced      bool            `json:"balanced" yaml:"balanced"`
}

// RunConfigResponse parámetros aplicados en la corrida.
type RunConfigResponse struct {
	MarginPercent decimal.Decimal `json:"margin_percent" yaml:"margin_percent"`
	Multiplier    decimal.Decimal `json:"multiplier" yaml:"multiplier"`
}

// DiagnosticsResponse contadores de soporte.
type DiagnosticsResponse struct {
	Items                 int                  `json:"items" yaml:"items"`
	WithBarcode           int                  `json:"with_barcode" yaml:"with_barcode"`
	WithTaxableBarcode    int                  `json:"with_taxable_barcode" yaml:"with_taxable_barcode"`
	PriceRows             int                  `json:"price_rows" yaml:"price_rows"`
	PriceRowsWithoutPrice int                  `json:"price_rows_without_price" yaml:"price_rows_without_price"`
	ByStatus              map[string]int       `json:"by_status" yaml:"by_status"`
	ByMatch               map[string]int       `json:"by_match" yaml:"by_match"`
	NoPriceSample         []LineResultResponse `json:"no_price_sample" yaml:"no_price_sample"`
}

// ComparisonSummaryResponse elemento de GET /api/comparaciones.
type ComparisonSummaryResponse struct {
	RunID       string         `json:"run_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UserID      string         `json:"user_id,omitempty"`
	Documents   []string       `json:"documents"`
	TableSource string         `json:"table_source"`
	Items       int            `json:"items"`
	Balanced    bool           `json:"balanced"`
	ByStatus    map[string]int `json:"by_status"`
}

// ComparisonListResponse listado paginado del historial.
type ComparisonListResponse struct {
	Runs []ComparisonSummaryResponse `json:"runs"`
	Page PageResponse                `json:"page"`
}

// FromComparisonRun arma la respuesta a partir de la corrida.
func FromComparisonRun(run *entity.ComparisonRun) ComparisonResponse {
	out := ComparisonResponse{
		RunID:       run.ID,
		CreatedAt:   run.CreatedAt,
		Documents:   run.Documents,
		TableSource: run.TableSource,
		Items:       []LineResultResponse{},
	}
	r := run.Report
	if r == nil {
		return out
	}
	out.Items = fromLines(r.Lines)
	out.Conferencia = ConferenceResponse{
		LinesTotal:       r.Conference.LinesTotal,
		DeclaredTotal:    r.Conference.DeclaredTotal,
		DeclaredDiscount: r.Conference.DeclaredDiscount,
		Difference:       r.Conference.Difference,
		Balanced:         r.Conference.Balanced,
		Documents:        make([]DocumentConferenceResponse, 0, len(r.Conference.Documents)),
	}
	for _, d := range r.Conference.Documents {
		out.Conferencia.Documents = append(out.Conferencia.Documents, DocumentConferenceResponse{
			Source:        d.Source,
			LinesTotal:    d.LinesTotal,
			DeclaredTotal: d.DeclaredTotal,
			Difference:    d.Difference,
			Balanced:      d.Balanced,
		})
	}
	out.Config = RunConfigResponse{MarginPercent: r.MarginPercent, Multiplier: r.Multiplier}
	out.Diagnostico = DiagnosticsResponse{
		Items:                 r.Diagnostics.Items,
		WithBarcode:           r.Diagnostics.WithBarcode,
		WithTaxableBarcode:    r.Diagnostics.WithTaxableBarcode,
		PriceRows:             r.Diagnostics.PriceRows,
		PriceRowsWithoutPrice: r.Diagnostics.PriceRowsWithoutPrice,
		ByStatus:              statusCounts(r.Diagnostics.ByStatus),
		ByMatch:               make(map[string]int, len(r.Diagnostics.ByMatch)),
		NoPriceSample:         fromLines(r.Diagnostics.NoPriceSample),
	}
	for k, v := range r.Diagnostics.ByMatch {
		out.Diagnostico.ByMatch[string(k)] = v
	}
	return out
}

// FromComparisonSummaries arma el listado del historial.
func FromComparisonSummaries(list []entity.ComparisonRunSummary, page PageRequest) ComparisonListResponse {
	out := ComparisonListResponse{
		Runs: make([]ComparisonSummaryResponse, 0, len(list)),
		Page: PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	}
	for _, s := range list {
		out.Runs = append(out.Runs, ComparisonSummaryResponse{
			RunID:       s.ID,
			CreatedAt:   s.CreatedAt,
			UserID:      s.UserID,
			Documents:   s.Documents,
			TableSource: s.TableSource,
			Items:       s.Items,
			Balanced:    s.Balanced,
			ByStatus:    statusCounts(s.ByStatus),
		})
	}
	return out
}

func statusCounts(in map[entity.LineStatus]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[string(k)] = v
	}
	return out
}

func fromLines(lines []entity.LineResult) []LineResultResponse {
	out := make([]LineResultResponse, 0, len(lines))
	for _, l := range lines {
		item := LineResultResponse{
			Source:         l.Source,
			Position:       l.Position,
			Code:           l.Code,
			Description:    l.Description,
			Barcode:        l.Barcode,
			TaxableBarcode: l.TaxableBarcode,
			CommercialUnit: l.CommercialUnit,
			CommercialQty:  l.CommercialQty,
			TaxableUnit:    l.TaxableUnit,
			TaxableQty:     l.TaxableQty,
			GrossValue:     l.GrossValue,
			Discount:       l.AppliedDiscount,
			IPI:            l.IPI,
			ICMSST:         l.ICMSSTCharged,
			ICMSCST:        l.ICMSCST,
			OtherCharges:   l.OtherCharges,
			NetValue:       l.NetValue,
			NetUnitPrice:   l.NetUnitPrice,
			TotalPaid:      l.TotalPaid,
			Units:          l.Units,
			UnitsKind:      string(l.UnitsKind),
			UnitsNote:      l.UnitsNote,
			UnitCost:       l.UnitCost,
			Pack:           l.Pack,
			TablePrice:     l.TablePrice,
			Match:          string(l.MatchTag),
			MatchedBarcode: l.MatchedBarcode,
			MatchScore:     l.MatchScore,
			MinimumPrice:   l.MinimumPrice,
			Status:         string(l.Status),
			Note:           l.Note,
		}
		if l.PerMeasure != nil {
			item.PerMeasure = &PerMeasureResponse{Unit: l.PerMeasure.Unit, Price: l.PerMeasure.Price}
		}
		if l.Size != nil {
			item.Size = l.Size.Value.String() + l.Size.Unit
		}
		out = append(out, item)
	}
	return out
}
