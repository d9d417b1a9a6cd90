package repository

import (
	"context"

	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
)

// ComparisonRunRepository define el puerto de persistencia del historial de corridas (DIP).
type ComparisonRunRepository interface {
	Create(ctx context.Context, run *entity.ComparisonRun) error
	// GetByID devuelve domain.ErrNotFound si la corrida no existe.
	GetByID(ctx context.Context, id string) (*entity.ComparisonRun, error)
	List(ctx context.Context, limit, offset int) ([]entity.ComparisonRunSummary, error)
}
