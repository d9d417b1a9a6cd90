package repository

import (
	"context"

	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
)

// PriceTableRepository define el puerto de persistencia de la tabla de precios vigente (DIP).
// Solo existe una tabla: importar reemplaza la anterior por completo.
type PriceTableRepository interface {
	Replace(ctx context.Context, summary entity.PriceTableSummary, rows []entity.PriceTableRow) error
	List(ctx context.Context) ([]entity.PriceTableRow, error)
	// Summary devuelve domain.ErrNotFound si nunca se importó una tabla.
	Summary(ctx context.Context) (*entity.PriceTableSummary, error)
}
