// Package bootstrap arma el grafo de dependencias compartido por la API y la CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/conferencia-nfe/internal/application/comparison"
	"github.com/jhoicas/conferencia-nfe/internal/application/pricetable"
	"github.com/jhoicas/conferencia-nfe/internal/domain/conference"
	"github.com/jhoicas/conferencia-nfe/internal/infrastructure/diagnostics"
	"github.com/jhoicas/conferencia-nfe/internal/infrastructure/nfexml"
	infrapdf "github.com/jhoicas/conferencia-nfe/internal/infrastructure/pdf"
	"github.com/jhoicas/conferencia-nfe/internal/infrastructure/postgres"
	"github.com/jhoicas/conferencia-nfe/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/conferencia-nfe/pkg/config"
	"github.com/jhoicas/conferencia-nfe/pkg/logger"
)

// Services casos de uso listos para usar.
type Services struct {
	Comparison *comparison.UseCase
	PriceTable *pricetable.UseCase
	pool       *pgxpool.Pool
}

// Close libera la conexión a la base, si la hay.
func (s *Services) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// StorageEnabled indica si hay base de datos configurada.
func (s *Services) StorageEnabled() bool { return s.pool != nil }

// EngineConfig traduce la configuración al motor de conferencia.
func EngineConfig(cfg config.ConferenceConfig) conference.Config {
	return conference.Config{
		MarginPercent:  cfg.MarginPercent,
		FuzzyThreshold: cfg.FuzzyThreshold,
		STExemptCodes:  cfg.STExemptCodes,
		TaxEnrichment:  cfg.TaxEnrichment,
	}
}

// New construye los servicios. Sin base configurada la tabla guardada y el historial quedan
// deshabilitados y sus operaciones responden domain.ErrStorageUnavailable.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Services, error) {
	engine := conference.NewEngine(EngineConfig(cfg.Conference), diagnostics.NewObserver(log))
	xmlParser := nfexml.NewParser()
	sheetParser := spreadsheet.NewParser(spreadsheet.DefaultColumns())
	renderer := infrapdf.NewReportGenerator()

	if !cfg.DB.Enabled() {
		log.Warn().Msg("sin base de datos: tabla guardada e historial deshabilitados")
		return &Services{
			Comparison: comparison.NewUseCase(engine, xmlParser, sheetParser, nil, nil, renderer),
			PriceTable: pricetable.NewUseCase(nil, nil, sheetParser),
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrar esquema: %w", err)
	}

	tables := postgres.NewPriceTableRepository(pool)
	runs := postgres.NewComparisonRunRepository(pool)
	return &Services{
		Comparison: comparison.NewUseCase(engine, xmlParser, sheetParser, tables, runs, renderer),
		PriceTable: pricetable.NewUseCase(postgres.NewTxRunner(pool), tables, sheetParser),
		pool:       pool,
	}, nil
}
