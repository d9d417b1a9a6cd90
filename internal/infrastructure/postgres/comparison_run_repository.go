package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/conferencia-nfe/internal/domain"
	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
	"github.com/jhoicas/conferencia-nfe/internal/domain/repository"
)

var _ repository.ComparisonRunRepository = (*ComparisonRunRepo)(nil)

// ComparisonRunRepo implementación del puerto ComparisonRunRepository sobre PostgreSQL.
// El reporte completo se guarda como JSONB; las columnas sueltas alimentan el listado.
type ComparisonRunRepo struct {
	q Querier
}

// NewComparisonRunRepository construye el adaptador. Pasar pool o tx (Querier).
func NewComparisonRunRepository(q Querier) *ComparisonRunRepo {
	return &ComparisonRunRepo{q: q}
}

// Create persiste la corrida.
func (r *ComparisonRunRepo) Create(ctx context.Context, run *entity.ComparisonRun) error {
	if run.Report == nil {
		return fmt.Errorf("%w: corrida sin reporte", domain.ErrInvalidInput)
	}
	report, err := json.Marshal(run.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	summary := run.Summary()
	byStatus, err := json.Marshal(summary.ByStatus)
	if err != nil {
		return fmt.Errorf("marshal status counts: %w", err)
	}

	query := `
		INSERT INTO comparison_runs (id, created_at, user_id, documents, table_source, items, balanced, by_status, report)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(ctx, query,
		run.ID, run.CreatedAt, run.UserID, run.Documents, run.TableSource,
		summary.Items, summary.Balanced, byStatus, report,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: corrida %s duplicada", domain.ErrInvalidInput, run.ID)
		}
		return wrapErr("insert comparison run", err)
	}
	return nil
}

// GetByID obtiene una corrida con su reporte completo.
func (r *ComparisonRunRepo) GetByID(ctx context.Context, id string) (*entity.ComparisonRun, error) {
	query := `
		SELECT id, created_at, user_id, documents, table_source, report
		FROM comparison_runs WHERE id = $1`
	var (
		run    entity.ComparisonRun
		report []byte
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&run.ID, &run.CreatedAt, &run.UserID, &run.Documents, &run.TableSource, &report,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapErr("get comparison run", err)
	}
	run.Report = &entity.Report{}
	if err := json.Unmarshal(report, run.Report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &run, nil
}

// List devuelve las corridas más recientes primero.
func (r *ComparisonRunRepo) List(ctx context.Context, limit, offset int) ([]entity.ComparisonRunSummary, error) {
	query := `
		SELECT id, created_at, user_id, documents, table_source, items, balanced, by_status
		FROM comparison_runs ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, wrapErr("list comparison runs", err)
	}
	defer rows.Close()

	var list []entity.ComparisonRunSummary
	for rows.Next() {
		var (
			s        entity.ComparisonRunSummary
			byStatus []byte
		)
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.UserID, &s.Documents, &s.TableSource, &s.Items, &s.Balanced, &byStatus); err != nil {
			return nil, wrapErr("scan comparison run", err)
		}
		if err := json.Unmarshal(byStatus, &s.ByStatus); err != nil {
			return nil, fmt.Errorf("unmarshal status counts: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list comparison runs", err)
	}
	return list, nil
}
