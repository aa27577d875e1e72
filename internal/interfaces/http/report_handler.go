package http

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockcount-api/internal/application/reports"
	"github.com/jhoicas/stockcount-api/internal/domain"
	"github.com/jhoicas/stockcount-api/internal/domain/reconciliation"
	"github.com/jhoicas/stockcount-api/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler hoja final, reportes por pestaña y exportaciones.
type ReportHandler struct {
	uc  *reports.ReportUseCase
	log *logger.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.ReportUseCase, log *logger.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

func (h *ReportHandler) tab(c *fiber.Ctx) (reconciliation.Tab, error) {
	tab, err := reconciliation.ParseTab(c.Params("tab"))
	if err != nil {
		return "", domain.NewValidationError("tab", err.Error())
	}
	return tab, nil
}

func attachment(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(body)
}

// FinalSheet godoc
// @Summary      Hoja final conciliada
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        q    query  string  false  "Búsqueda por parte, descripción o bin"
// @Success      200  {object}  dto.FinalSheetResponse
// @Router       /api/final-sheet [get]
func (h *ReportHandler) FinalSheet(c *fiber.Ctx) error {
	out, err := h.uc.FinalSheet(c.UserContext(), c.Query("q"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ExportFinalSheet godoc
// @Summary      Exportar reporte final de auditoría (xlsx)
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/final-sheet/export [get]
func (h *ReportHandler) ExportFinalSheet(c *fiber.Ctx) error {
	var buf bytes.Buffer
	name, err := h.uc.ExportFinalSheet(c.UserContext(), &buf)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return attachment(c, xlsxContentType, name, buf.Bytes())
}

// VariancePDF godoc
// @Summary      Resumen de variaciones (PDF)
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/final-sheet/pdf [get]
func (h *ReportHandler) VariancePDF(c *fiber.Ctx) error {
	pdf, name, err := h.uc.VariancePDF(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return attachment(c, "application/pdf", name, pdf)
}

// Report godoc
// @Summary      Reporte por pestaña (shortage, excess, not-scanned)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        tab  path   string  true   "shortage | excess | not-scanned"
// @Param        q    query  string  false  "Búsqueda"
// @Success      200  {object}  dto.ReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/{tab} [get]
func (h *ReportHandler) Report(c *fiber.Ctx) error {
	tab, err := h.tab(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Report(c.UserContext(), tab, c.Query("q"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ExportReport godoc
// @Summary      Exportar pestaña filtrada (xlsx)
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        tab  path   string  true   "shortage | excess | not-scanned"
// @Param        q    query  string  false  "Búsqueda"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/{tab}/export [get]
func (h *ReportHandler) ExportReport(c *fiber.Ctx) error {
	tab, err := h.tab(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var buf bytes.Buffer
	name, err := h.uc.ExportReport(c.UserContext(), tab, c.Query("q"), &buf)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return attachment(c, xlsxContentType, name, buf.Bytes())
}
