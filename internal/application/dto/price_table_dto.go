package dto

import (
	"time"

	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
)

// PriceTableSummaryResponse respuesta de GET y PUT /api/tabla-precios.
type PriceTableSummaryResponse struct {
	Source           string    `json:"source" yaml:"source"`
	ImportedAt       time.Time `json:"imported_at" yaml:"imported_at"`
	ImportedBy       string    `json:"imported_by,omitempty" yaml:"imported_by,omitempty"`
	Rows             int       `json:"rows" yaml:"rows"`
	RowsWithoutPrice int       `json:"rows_without_price" yaml:"rows_without_price"`
}

// FromPriceTableSummary mapea los metadatos de la tabla guardada.
func FromPriceTableSummary(s *entity.PriceTableSummary) PriceTableSummaryResponse {
	return PriceTableSummaryResponse{
		Source:           s.Source,
		ImportedAt:       s.ImportedAt,
		ImportedBy:       s.ImportedBy,
		Rows:             s.Rows,
		RowsWithoutPrice: s.RowsWithoutPrice,
	}
}
