package pricetable

import (
	"context"

	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
	"github.com/jhoicas/conferencia-nfe/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando el repositorio atado a esa tx.
// Importar una tabla es borrar y cargar: sin transacción una falla dejaría la tabla vacía.
type TxRunner interface {
	Run(ctx context.Context, fn func(tables repository.PriceTableRepository) error) error
}

// Parser convierte la planilla en filas de precio.
type Parser interface {
	Parse(name string, data []byte) ([]entity.PriceTableRow, error)
}
