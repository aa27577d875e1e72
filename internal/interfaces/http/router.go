package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appanalytics "github.com/jhoicas/stockcount-api/internal/application/analytics"
	"github.com/jhoicas/stockcount-api/internal/application/auth"
	"github.com/jhoicas/stockcount-api/internal/application/masters"
	"github.com/jhoicas/stockcount-api/internal/application/ports"
	"github.com/jhoicas/stockcount-api/internal/application/reports"
	"github.com/jhoicas/stockcount-api/internal/application/scanning"
	"github.com/jhoicas/stockcount-api/internal/application/usecase"
	"github.com/jhoicas/stockcount-api/internal/domain/entity"
	"github.com/jhoicas/stockcount-api/pkg/logger"
	"github.com/jhoicas/stockcount-api/pkg/refresh"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	LocationUC   *usecase.LocationUseCase
	PreferenceUC *usecase.PreferenceUseCase
	UserUC       *usecase.UserUseCase
	ScanUC       *scanning.ScanUseCase
	IngestUC     *masters.IngestUseCase
	DashboardUC  *appanalytics.DashboardUseCase
	ReportUC     *reports.ReportUseCase
	SheetReader  ports.SheetReader
	SyncPolicy   refresh.Policy
	// MetricsHandler expone /metrics si no es nil.
	MetricsHandler http.Handler
	Logger         *logger.Logger
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")

	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin, entity.RoleSuperAdmin)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.SyncPolicy, log)
	protected.Get("/sync/policy", dashboardHandler.SyncPolicy)
	protected.Get("/dashboard/metrics", dashboardHandler.Metrics)

	// Ubicaciones y preferencias
	locationHandler := NewLocationHandler(deps.LocationUC, deps.PreferenceUC, log)
	protected.Get("/me/preferences", locationHandler.GetPreferences)
	protected.Put("/me/preferences", locationHandler.SetPreferences)
	locations := protected.Group("/locations")
	locations.Get("/", locationHandler.List)
	locations.Post("/", adminOnly, locationHandler.Create)
	locations.Put("/:id", adminOnly, locationHandler.Rename)
	locations.Patch("/:id/toggle", adminOnly, locationHandler.Toggle)

	// Conteos
	scanHandler := NewScanHandler(deps.ScanUC, log)
	scans := protected.Group("/scans")
	scans.Get("/", scanHandler.List)
	scans.Post("/lookup", scanHandler.Lookup)
	scans.Post("/", scanHandler.Save)
	scans.Patch("/:id", scanHandler.Correct)
	scans.Delete("/:id", scanHandler.Delete)
	scans.Delete("/", adminOnly, scanHandler.DeleteAll)

	// Maestros
	masterHandler := NewMasterHandler(deps.IngestUC, deps.SheetReader, log)
	mastersGroup := protected.Group("/masters")
	mastersGroup.Get("/base/status", masterHandler.BaseStatus)
	mastersGroup.Post("/base/upload", adminOnly, masterHandler.UploadBase)
	mastersGroup.Delete("/base", adminOnly, masterHandler.WipeBase)
	mastersGroup.Post("/daily/upload", adminOnly, masterHandler.UploadDaily)
	mastersGroup.Delete("/daily", adminOnly, masterHandler.ClearDaily)
	mastersGroup.Post("/average/upload", adminOnly, masterHandler.UploadAverage)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportUC, log)
	protected.Get("/final-sheet", reportHandler.FinalSheet)
	protected.Get("/final-sheet/export", reportHandler.ExportFinalSheet)
	protected.Get("/final-sheet/pdf", reportHandler.VariancePDF)
	protected.Get("/reports/:tab", reportHandler.Report)
	protected.Get("/reports/:tab/export", reportHandler.ExportReport)

	// Usuarios
	userHandler := NewUserHandler(deps.UserUC, log)
	users := protected.Group("/users", adminOnly)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Delete("/:id", userHandler.Delete)
}
