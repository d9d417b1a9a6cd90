package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/conferencia-nfe/internal/domain"
	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
	"github.com/jhoicas/conferencia-nfe/internal/domain/repository"
)

var _ repository.PriceTableRepository = (*PriceTableRepo)(nil)

var priceRowColumns = []string{"row_number", "price", "barcode", "description", "code"}

// PriceTableRepo implementación del puerto PriceTableRepository sobre PostgreSQL (usable con pool o tx).
type PriceTableRepo struct {
	q Querier
}

// NewPriceTableRepository construye el adaptador. Pasar pool o tx (Querier).
// Replace no es atómico fuera de una transacción: usarlo a través de TxRunner.
func NewPriceTableRepository(q Querier) *PriceTableRepo {
	return &PriceTableRepo{q: q}
}

// Replace borra la tabla actual y carga las filas nuevas con COPY.
func (r *PriceTableRepo) Replace(ctx context.Context, summary entity.PriceTableSummary, rows []entity.PriceTableRow) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM price_table_rows`); err != nil {
		return wrapErr("delete price rows", err)
	}

	_, err := r.q.CopyFrom(ctx, pgx.Identifier{"price_table_rows"}, priceRowColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			row := rows[i]
			return []any{row.Row, row.Price, row.Barcode, row.Description, row.Code}, nil
		}))
	if err != nil {
		return wrapErr("copy price rows", err)
	}

	query := `
		INSERT INTO price_table_imports (id, source, imported_at, imported_by, row_count, rows_without_price)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			source = EXCLUDED.source,
			imported_at = EXCLUDED.imported_at,
			imported_by = EXCLUDED.imported_by,
			row_count = EXCLUDED.row_count,
			rows_without_price = EXCLUDED.rows_without_price`
	_, err = r.q.Exec(ctx, query,
		summary.Source, summary.ImportedAt, summary.ImportedBy, summary.Rows, summary.RowsWithoutPrice)
	if err != nil {
		return wrapErr("upsert price table import", err)
	}
	return nil
}

// List devuelve las filas en el orden de la planilla original.
func (r *PriceTableRepo) List(ctx context.Context) ([]entity.PriceTableRow, error) {
	query := `
		SELECT row_number, price, barcode, description, code
		FROM price_table_rows ORDER BY row_number`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, wrapErr("list price rows", err)
	}
	defer rows.Close()

	var list []entity.PriceTableRow
	for rows.Next() {
		var p entity.PriceTableRow
		if err := rows.Scan(&p.Row, &p.Price, &p.Barcode, &p.Description, &p.Code); err != nil {
			return nil, wrapErr("scan price row", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list price rows", err)
	}
	return list, nil
}

// Summary devuelve los metadatos de la última importación.
func (r *PriceTableRepo) Summary(ctx context.Context) (*entity.PriceTableSummary, error) {
	query := `
		SELECT source, imported_at, imported_by, row_count, rows_without_price
		FROM price_table_imports WHERE id = 1`
	var s entity.PriceTableSummary
	err := r.q.QueryRow(ctx, query).Scan(&s.Source, &s.ImportedAt, &s.ImportedBy, &s.Rows, &s.RowsWithoutPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapErr("get price table summary", err)
	}
	return &s, nil
}
