package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/conferencia-nfe/internal/application/comparison"
	"github.com/jhoicas/conferencia-nfe/internal/application/dto"
	"github.com/jhoicas/conferencia-nfe/internal/domain"
	"github.com/jhoicas/conferencia-nfe/internal/domain/entity"
	"github.com/jhoicas/conferencia-nfe/pkg/logger"
)

// ComparisonHandler maneja las corridas de conferencia y su historial.
type ComparisonHandler struct {
	uc  *comparison.UseCase
	log *logger.Logger
}

// NewComparisonHandler construye el handler.
func NewComparisonHandler(uc *comparison.UseCase, log *logger.Logger) *ComparisonHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ComparisonHandler{uc: uc, log: log}
}

// Compare ejecuta una conferencia.
// POST /api/comparar  (multipart: xml[1..n], xlsx[0..1], marginPercent)
func (h *ComparisonHandler) Compare(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "se espera multipart/form-data"})
	}

	in := comparison.Input{UserID: GetUserID(c)}
	for _, fh := range formFiles(form, "xml", "xml[]") {
		f, err := readUpload(fh)
		if err != nil {
			return writeError(c, err)
		}
		in.Documents = append(in.Documents, f)
	}
	if files := formFiles(form, "xlsx", "tabla"); len(files) > 0 {
		f, err := readUpload(files[0])
		if err != nil {
			return writeError(c, err)
		}
		in.Table = &f
	}
	if raw := strings.TrimSpace(c.FormValue("marginPercent")); raw != "" {
		m, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
		if err != nil {
			return writeError(c, fmt.Errorf("%w: marginPercent %q no es numérico", domain.ErrInvalidInput, raw))
		}
		in.MarginPercent = &m
	}

	run, err := h.uc.Compare(c.UserContext(), in)
	if err != nil {
		h.log.Warn().Err(err).Int("documents", len(in.Documents)).Msg("conferencia rechazada")
		return writeError(c, err)
	}
	h.log.Info().
		Str("run_id", run.ID).
		Int("documents", len(run.Documents)).
		Int("items", len(run.Report.Lines)).
		Bool("balanced", run.Report.Conference.Balanced).
		Str("table", run.TableSource).
		Msg("conferencia ejecutada")

	return h.respond(c, run, fiber.StatusCreated)
}

// List lista el historial de corridas.
// GET /api/comparaciones?limit=&offset=
func (h *ComparisonHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.ListRuns(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromComparisonSummaries(list, page))
}

// GetByID devuelve una corrida guardada.
// GET /api/comparaciones/:id  (?formato=pdf)
func (h *ComparisonHandler) GetByID(c *fiber.Ctx) error {
	run, err := h.uc.GetRun(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, run, fiber.StatusOK)
}

func (h *ComparisonHandler) respond(c *fiber.Ctx, run *entity.ComparisonRun, status int) error {
	if strings.EqualFold(c.Query("formato"), "pdf") {
		out, err := h.uc.RenderPDF(run)
		if err != nil {
			h.log.Error().Err(err).Str("run_id", run.ID).Msg("generar PDF")
			return writeError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="conferencia-%s.pdf"`, run.ID))
		return c.Status(status).Send(out)
	}
	return c.Status(status).JSON(dto.FromComparisonRun(run))
}
