package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
	"github.com/jhoicas/stockcount-api/internal/application/scanning"
	"github.com/jhoicas/stockcount-api/pkg/logger"
)

// ScanHandler registros de conteo.
type ScanHandler struct {
	uc  *scanning.ScanUseCase
	log *logger.Logger
}

// NewScanHandler construye el handler.
func NewScanHandler(uc *scanning.ScanUseCase, log *logger.Logger) *ScanHandler {
	return &ScanHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Historial de conteos
// @Tags         scans
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ScanListResponse
// @Router       /api/scans [get]
func (h *ScanHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Lookup godoc
// @Summary      Buscar parte por código escaneado
// @Tags         scans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LookupRequest  true  "Código"
// @Success      200   {object}  dto.LookupResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/scans/lookup [post]
func (h *ScanHandler) Lookup(c *fiber.Ctx) error {
	var in dto.LookupRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Lookup(c.UserContext(), in.Code)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Save godoc
// @Summary      Guardar conteo (alta o edición)
// @Tags         scans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveScanRequest  true  "Conteo"
// @Success      201   {object}  dto.ScanResponse
// @Success      200   {object}  dto.ScanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.DuplicateScanResponse
// @Router       /api/scans [post]
func (h *ScanHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveScanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Save(c.UserContext(), GetUsername(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if in.ID == "" {
		return c.Status(fiber.StatusCreated).JSON(out)
	}
	return c.JSON(out)
}

// Correct godoc
// @Summary      Corrección de auditoría
// @Tags         scans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del conteo"
// @Param        body  body  dto.CorrectScanRequest  true  "Campos a corregir"
// @Success      200   {object}  dto.ScanResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/scans/{id} [patch]
func (h *ScanHandler) Correct(c *fiber.Ctx) error {
	var in dto.CorrectScanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Correct(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar conteo
// @Tags         scans
// @Security     Bearer
// @Param        id   path  string  true  "ID del conteo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/scans/{id} [delete]
func (h *ScanHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAll godoc
// @Summary      Borrar todos los conteos
// @Tags         scans
// @Security     Bearer
// @Produce      json
// @Param        confirm  query  bool  true  "Confirmación explícita"
// @Success      200      {object}  dto.DeletedResponse
// @Failure      428      {object}  dto.ErrorResponse
// @Router       /api/scans [delete]
func (h *ScanHandler) DeleteAll(c *fiber.Ctx) error {
	n, err := h.uc.DeleteAll(c.UserContext(), c.QueryBool("confirm", false))
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Warn().Str("user", GetUsername(c)).Int64("deleted", n).Msg("conteos eliminados")
	return c.JSON(dto.DeletedResponse{Deleted: n})
}
