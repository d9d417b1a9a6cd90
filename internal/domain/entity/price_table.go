package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceTableRow fila de la tabla de precios externa.
// Solo participa en búsquedas si Price > 0.
type PriceTableRow struct {
	Row         int // número de fila en la planilla (1-based, incluye encabezado)
	Price       decimal.Decimal
	Barcode     string // solo dígitos
	Description string
	Code        string
}

// PriceTableSummary metadatos de la tabla de precios guardada.
type PriceTableSummary struct {
	Source           string // nombre del archivo importado
	ImportedAt       time.Time
	ImportedBy       string
	Rows             int
	RowsWithoutPrice int
}
