package comparison

import "github.com/jhoicas/conferencia-nfe/internal/domain/entity"

// InvoiceParser convierte el XML de una NF-e en documento.
type InvoiceParser interface {
	Parse(source string, data []byte) (*entity.InvoiceDocument, error)
}

// PriceTableParser convierte la planilla subida en filas de precio.
type PriceTableParser interface {
	Parse(name string, data []byte) ([]entity.PriceTableRow, error)
}

// ReportRenderer genera la representación imprimible (PDF) de una corrida.
type ReportRenderer interface {
	Render(run *entity.ComparisonRun) ([]byte, error)
}
