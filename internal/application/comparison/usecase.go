// Package comparison orquesta una corrida de conferencia: lee las NF-e y la tabla de precios,
// ejecuta el motor y guarda el resultado en el historial cuando hay base de datos.
package comparison

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/conferencia-nfe/internal/domain"
	"github.com/jhoicas/conferencia-nfe/internal/domain/conference"
	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
	"github.com/jhoicas/conferencia-nfe/internal/domain/repository"
)

// TableSourceStored origen de la tabla cuando se usa la guardada en base.
const TableSourceStored = "stored"

// File archivo recibido por HTTP o leído del disco.
type File struct {
	Name string
	Data []byte
}

// Input entrada de una corrida. Table nil usa la tabla guardada.
// MarginPercent nil usa el margen configurado en el motor.
type Input struct {
	UserID        string
	Documents     []File
	Table         *File
	MarginPercent *decimal.Decimal
}

// UseCase caso de uso de conferencia. tables y runs pueden ser nil cuando no hay base de datos.
type UseCase struct {
	engine   *conference.Engine
	invoices InvoiceParser
	table    PriceTableParser
	tables   repository.PriceTableRepository
	runs     repository.ComparisonRunRepository
	renderer ReportRenderer
	now      func() time.Time
}

// NewUseCase construye el caso de uso inyectando sus dependencias.
func NewUseCase(
	engine *conference.Engine,
	invoices InvoiceParser,
	table PriceTableParser,
	tables repository.PriceTableRepository,
	runs repository.ComparisonRunRepository,
	renderer ReportRenderer,
) *UseCase {
	return &UseCase{
		engine:   engine,
		invoices: invoices,
		table:    table,
		tables:   tables,
		runs:     runs,
		renderer: renderer,
		now:      time.Now,
	}
}

// HistoryEnabled indica si las corridas se guardan.
func (uc *UseCase) HistoryEnabled() bool { return uc.runs != nil }

// Compare ejecuta la conferencia. Cualquier documento ilegible aborta toda la corrida con el nombre
// del archivo en el error; la ambigüedad de una línea nunca lo hace.
func (uc *UseCase) Compare(ctx context.Context, in Input) (*entity.ComparisonRun, error) {
	if len(in.Documents) == 0 {
		return nil, fmt.Errorf("%w: se requiere al menos un XML de NF-e", domain.ErrInvalidInput)
	}
	if in.MarginPercent != nil && in.MarginPercent.IsNegative() {
		return nil, fmt.Errorf("%w: el margen no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.Table == nil && uc.tables == nil {
		return nil, fmt.Errorf("%w: no se envió tabla de precios y no hay tabla guardada", domain.ErrStorageUnavailable)
	}

	names := make([]string, len(in.Documents))
	for i, f := range in.Documents {
		names[i] = f.Name
		if names[i] == "" {
			names[i] = fmt.Sprintf("XML_%d", i+1)
		}
	}

	// Cada documento se escribe en su propia posición: el orden final es el de envío.
	docs := make([]entity.InvoiceDocument, len(in.Documents))
	var (
		rows        []entity.PriceTableRow
		tableSource string
	)
	g, gctx := errgroup.WithContext(ctx)
	for i := range in.Documents {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := uc.invoices.Parse(names[i], in.Documents[i].Data)
			if err != nil {
				return fmt.Errorf("%s: %w", names[i], err)
			}
			docs[i] = *doc
			return nil
		})
	}
	g.Go(func() error {
		var err error
		rows, tableSource, err = uc.loadTable(gctx, in.Table)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	engine := uc.engine
	if in.MarginPercent != nil {
		engine = engine.WithMargin(*in.MarginPercent)
	}

	run := &entity.ComparisonRun{
		ID:          uuid.New().String(),
		CreatedAt:   uc.now().UTC(),
		UserID:      in.UserID,
		Documents:   names,
		TableSource: tableSource,
		Report:      engine.Run(docs, rows),
	}
	if uc.runs != nil {
		if err := uc.runs.Create(ctx, run); err != nil {
			return nil, fmt.Errorf("guardar corrida: %w", err)
		}
	}
	return run, nil
}

func (uc *UseCase) loadTable(ctx context.Context, upload *File) ([]entity.PriceTableRow, string, error) {
	if upload != nil {
		rows, err := uc.table.Parse(upload.Name, upload.Data)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", upload.Name, err)
		}
		return rows, "upload:" + upload.Name, nil
	}
	rows, err := uc.tables.List(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("tabla guardada: %w", err)
	}
	if len(rows) == 0 {
		return nil, "", fmt.Errorf("tabla guardada: %w", domain.ErrEmptyPriceTable)
	}
	return rows, TableSourceStored, nil
}

// GetRun recupera una corrida del historial.
func (uc *UseCase) GetRun(ctx context.Context, id string) (*entity.ComparisonRun, error) {
	if uc.runs == nil {
		return nil, domain.ErrStorageUnavailable
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return uc.runs.GetByID(ctx, id)
}

// ListRuns lista el historial, más recientes primero.
func (uc *UseCase) ListRuns(ctx context.Context, limit, offset int) ([]entity.ComparisonRunSummary, error) {
	if uc.runs == nil {
		return nil, domain.ErrStorageUnavailable
	}
	return uc.runs.List(ctx, limit, offset)
}

// RenderPDF genera el PDF de la corrida.
func (uc *UseCase) RenderPDF(run *entity.ComparisonRun) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("%w: generador de PDF no configurado", domain.ErrInvalidInput)
	}
	return uc.renderer.Render(run)
}
