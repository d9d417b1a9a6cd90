package entity

import "time"

// ComparisonRun corrida de conferencia guardada en el historial.
type ComparisonRun struct {
	ID          string
	CreatedAt   time.Time
	UserID      string // vacío si la autenticación está deshabilitada
	Documents   []string
	TableSource string // "upload:<archivo>" o "stored"
	Report      *Report
}

// ComparisonRunSummary fila del listado de historial, sin el detalle por línea.
type ComparisonRunSummary struct {
	ID          string
	CreatedAt   time.Time
	UserID      string
	Documents   []string
	TableSource string
	Items       int
	Balanced    bool
	ByStatus    map[LineStatus]int
}

// Summary resume la corrida para el listado.
func (r *ComparisonRun) Summary() ComparisonRunSummary {
	s := ComparisonRunSummary{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		UserID:      r.UserID,
		Documents:   r.Documents,
		TableSource: r.TableSource,
	}
	if r.Report != nil {
		s.Items = len(r.Report.Lines)
		s.Balanced = r.Report.Conference.Balanced
		s.ByStatus = r.Report.Diagnostics.ByStatus
	}
	return s
}
