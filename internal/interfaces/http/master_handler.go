package http

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockcount-api/internal/application/dto"
	"github.com/jhoicas/stockcount-api/internal/application/masters"
	"github.com/jhoicas/stockcount-api/internal/application/ports"
	"github.com/jhoicas/stockcount-api/pkg/logger"
)

// MasterHandler cargas y borrados de los maestros.
type MasterHandler struct {
	uc     *masters.IngestUseCase
	reader ports.SheetReader
	log    *logger.Logger
}

// NewMasterHandler construye el handler.
func NewMasterHandler(uc *masters.IngestUseCase, reader ports.SheetReader, log *logger.Logger) *MasterHandler {
	return &MasterHandler{uc: uc, reader: reader, log: log}
}

type ingestFunc func(h *MasterHandler, c *fiber.Ctx, rows []ports.SheetRow) (*dto.IngestSummary, error)

// readUpload lee la planilla adjunta.
func (h *MasterHandler) readUpload(fh *multipart.FileHeader) ([]ports.SheetRow, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return h.reader.Read(f, fh.Filename)
}

func (h *MasterHandler) upload(c *fiber.Ctx, ingest ingestFunc) error {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "adjunte la planilla en el campo file"})
	}
	rows, err := h.readUpload(fh)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := ingest(h, c, rows)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Info().Str("user", GetUsername(c)).Str("file", fh.Filename).Str("kind", out.Kind).Msg("planilla cargada")
	return c.JSON(out)
}

// BaseStatus godoc
// @Summary      Estado de bloqueo del maestro base
// @Tags         masters
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BaseStatusResponse
// @Router       /api/masters/base/status [get]
func (h *MasterHandler) BaseStatus(c *fiber.Ctx) error {
	out, err := h.uc.BaseStatus(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UploadBase godoc
// @Summary      Cargar maestro base (una sola vez)
// @Tags         masters
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Planilla xlsx o csv"
// @Success      200   {object}  dto.IngestSummary
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/masters/base/upload [post]
func (h *MasterHandler) UploadBase(c *fiber.Ctx) error {
	return h.upload(c, func(h *MasterHandler, c *fiber.Ctx, rows []ports.SheetRow) (*dto.IngestSummary, error) {
		return h.uc.IngestBase(c.UserContext(), rows)
	})
}

// UploadDaily godoc
// @Summary      Reemplazar maestro diario
// @Tags         masters
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Planilla xlsx o csv"
// @Success      200   {object}  dto.IngestSummary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/masters/daily/upload [post]
func (h *MasterHandler) UploadDaily(c *fiber.Ctx) error {
	return h.upload(c, func(h *MasterHandler, c *fiber.Ctx, rows []ports.SheetRow) (*dto.IngestSummary, error) {
		return h.uc.IngestDaily(c.UserContext(), rows)
	})
}

// UploadAverage godoc
// @Summary      Cargar conteos promedio (upsert por lotes)
// @Tags         masters
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Planilla xlsx o csv"
// @Success      200   {object}  dto.IngestSummary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/masters/average/upload [post]
func (h *MasterHandler) UploadAverage(c *fiber.Ctx) error {
	return h.upload(c, func(h *MasterHandler, c *fiber.Ctx, rows []ports.SheetRow) (*dto.IngestSummary, error) {
		return h.uc.IngestAverage(c.UserContext(), rows)
	})
}

// WipeBase godoc
// @Summary      Borrar el maestro base (desbloquea la carga)
// @Tags         masters
// @Security     Bearer
// @Produce      json
// @Param        confirm  query  bool  true  "Confirmación explícita"
// @Success      200      {object}  dto.DeletedResponse
// @Failure      428      {object}  dto.ErrorResponse
// @Router       /api/masters/base [delete]
func (h *MasterHandler) WipeBase(c *fiber.Ctx) error {
	n, err := h.uc.WipeBase(c.UserContext(), c.QueryBool("confirm", false))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.DeletedResponse{Deleted: n})
}

// ClearDaily godoc
// @Summary      Vaciar el maestro diario
// @Tags         masters
// @Security     Bearer
// @Produce      json
// @Param        confirm  query  bool  true  "Confirmación explícita"
// @Success      200      {object}  dto.DeletedResponse
// @Failure      428      {object}  dto.ErrorResponse
// @Router       /api/masters/daily [delete]
func (h *MasterHandler) ClearDaily(c *fiber.Ctx) error {
	n, err := h.uc.ClearDaily(c.UserContext(), c.QueryBool("confirm", false))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.DeletedResponse{Deleted: n})
}
