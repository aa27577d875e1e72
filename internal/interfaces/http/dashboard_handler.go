package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/stockcount-api/internal/application/analytics"
	"github.com/jhoicas/stockcount-api/pkg/logger"
	"github.com/jhoicas/stockcount-api/pkg/refresh"
)

// DashboardHandler métricas del ciclo de conteo y contrato de refresco.
type DashboardHandler struct {
	uc     *appanalytics.DashboardUseCase
	policy refresh.Policy
	log    *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, policy refresh.Policy, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, policy: policy, log: log}
}

// Metrics godoc
// @Summary      Métricas del dashboard
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MetricsDTO
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/dashboard/metrics [get]
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	out, err := h.uc.GetMetrics(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SyncPolicy godoc
// @Summary      Contrato de refresco para clientes
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncPolicyResponse
// @Router       /api/sync/policy [get]
func (h *DashboardHandler) SyncPolicy(c *fiber.Ctx) error {
	return c.JSON(appanalytics.SyncPolicy(h.policy))
}
