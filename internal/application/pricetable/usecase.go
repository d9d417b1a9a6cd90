// Package pricetable administra la tabla de precios guardada que usan las corridas sin planilla adjunta.
package pricetable

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/conferencia-nfe/internal/domain"
	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
	"github.com/jhoicas/conferencia-nfe/internal/domain/repository"
)

// UseCase importación y consulta de la tabla guardada. Con tx o tables nil todas las
// operaciones devuelven domain.ErrStorageUnavailable.
type UseCase struct {
	tx     TxRunner
	tables repository.PriceTableRepository
	parser Parser
	now    func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx TxRunner, tables repository.PriceTableRepository, parser Parser) *UseCase {
	return &UseCase{tx: tx, tables: tables, parser: parser, now: time.Now}
}

// Import reemplaza la tabla guardada por la planilla recibida.
func (uc *UseCase) Import(ctx context.Context, userID, name string, data []byte) (*entity.PriceTableSummary, error) {
	if uc.tx == nil {
		return nil, domain.ErrStorageUnavailable
	}
	rows, err := uc.parser.Parse(name, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	summary := entity.PriceTableSummary{
		Source:     name,
		ImportedAt: uc.now().UTC(),
		ImportedBy: userID,
		Rows:       len(rows),
	}
	for _, r := range rows {
		if !r.Price.IsPositive() {
			summary.RowsWithoutPrice++
		}
	}

	err = uc.tx.Run(ctx, func(tables repository.PriceTableRepository) error {
		return tables.Replace(ctx, summary, rows)
	})
	if err != nil {
		return nil, fmt.Errorf("importar tabla: %w", err)
	}
	return &summary, nil
}

// Summary metadatos de la tabla guardada.
func (uc *UseCase) Summary(ctx context.Context) (*entity.PriceTableSummary, error) {
	if uc.tables == nil {
		return nil, domain.ErrStorageUnavailable
	}
	return uc.tables.Summary(ctx)
}
