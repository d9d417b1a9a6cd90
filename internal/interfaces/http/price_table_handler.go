package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/conferencia-nfe/internal/application/dto"
	"github.com/jhoicas/conferencia-nfe/internal/application/pricetable"
	"github.com/jhoicas/conferencia-nfe/pkg/logger"
)

// PriceTableHandler maneja la tabla de precios guardada.
type PriceTableHandler struct {
	uc  *pricetable.UseCase
	log *logger.Logger
}

// NewPriceTableHandler construye el handler.
func NewPriceTableHandler(uc *pricetable.UseCase, log *logger.Logger) *PriceTableHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PriceTableHandler{uc: uc, log: log}
}

// Replace reemplaza la tabla guardada.
// PUT /api/tabla-precios  (multipart: xlsx)
func (h *PriceTableHandler) Replace(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "se espera multipart/form-data"})
	}
	files := formFiles(form, "xlsx", "tabla")
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo xlsx requerido"})
	}
	f, err := readUpload(files[0])
	if err != nil {
		return writeError(c, err)
	}

	summary, err := h.uc.Import(c.UserContext(), GetUserID(c), f.Name, f.Data)
	if err != nil {
		h.log.Warn().Err(err).Str("file", f.Name).Msg("importación de tabla rechazada")
		return writeError(c, err)
	}
	h.log.Info().
		Str("file", summary.Source).
		Int("rows", summary.Rows).
		Int("rows_without_price", summary.RowsWithoutPrice).
		Msg("tabla de precios importada")
	return c.JSON(dto.FromPriceTableSummary(summary))
}

// Get metadatos de la tabla guardada.
// GET /api/tabla-precios
func (h *PriceTableHandler) Get(c *fiber.Ctx) error {
	summary, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPriceTableSummary(summary))
}
