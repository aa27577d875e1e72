package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/jhoicas/stockcount-api/internal/application/analytics"
	"github.com/jhoicas/stockcount-api/internal/application/auth"
	"github.com/jhoicas/stockcount-api/internal/application/masters"
	"github.com/jhoicas/stockcount-api/internal/application/ports"
	"github.com/jhoicas/stockcount-api/internal/application/reports"
	"github.com/jhoicas/stockcount-api/internal/application/scanning"
	"github.com/jhoicas/stockcount-api/internal/application/usecase"
	infracache "github.com/jhoicas/stockcount-api/internal/infrastructure/cache"
	inframetrics "github.com/jhoicas/stockcount-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/stockcount-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stockcount-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockcount-api/internal/infrastructure/spreadsheet"
	httpRouter "github.com/jhoicas/stockcount-api/internal/interfaces/http"
	"github.com/jhoicas/stockcount-api/pkg/config"
	"github.com/jhoicas/stockcount-api/pkg/logger"
	"github.com/jhoicas/stockcount-api/pkg/refresh"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
	}

	// Caché de métricas y preferencias: Redis si está configurado y responde, si no en memoria.
	var (
		metricsCache ports.MetricsCache   = infracache.NewMemoryMetricsCache(cfg.Redis.TTL)
		prefStore    ports.PreferenceStore = infracache.NewMemoryPreferenceStore()
	)
	if cfg.Redis.Addr != "" {
		redisClient, err := infracache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, se usa caché en memoria")
		} else {
			defer redisClient.Close()
			metricsCache = infracache.NewRedisMetricsCache(redisClient, cfg.Redis.TTL)
			prefStore = infracache.NewRedisPreferenceStore(redisClient)
			log.Info().Str("addr", cfg.Redis.Addr).Msg("caché Redis conectada")
		}
	}

	collector := inframetrics.NewCollector(prometheus.DefaultRegisterer)

	userRepo := postgres.NewUserRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	scanRepo := postgres.NewScanRepository(pool, cfg.Count.PageSize)
	baseRepo := postgres.NewBasePartRepository(pool, cfg.Count.PageSize)
	dailyRepo := postgres.NewDailyPartRepository(pool, cfg.Count.PageSize)
	avgRepo := postgres.NewAverageCountRepository(pool)

	dashboardUC := appanalytics.NewDashboardUseCase(scanRepo, baseRepo, metricsCache, log)
	resolverUC := masters.NewResolverUseCase(baseRepo, dailyRepo, avgRepo, cfg.Count.LookupChunkSize, log, collector)
	scanUC := scanning.NewScanUseCase(scanRepo, locationRepo, resolverUC, dashboardUC, log, collector)
	ingestUC := masters.NewIngestUseCase(baseRepo, dailyRepo, avgRepo, dashboardUC, cfg.Count.AvgUpsertBatch, log, collector)
	reportUC := reports.NewReportUseCase(
		scanRepo, resolverUC, spreadsheet.NewWriter(), infrapdf.NewMarotoPDFGenerator(), dashboardUC,
		reports.Config{NotScannedLimit: cfg.Count.NotScannedLimit, SheetName: cfg.Count.ExportSheetName},
		log,
	)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Recalculo periódico del snapshot de métricas con la misma política que siguen los clientes.
	policy := refresh.Policy{
		Interval:   cfg.Count.RefreshInterval,
		Jitter:     cfg.Count.RefreshJitter,
		MaxBackoff: cfg.Count.RefreshMaxBackoff,
	}
	refreshLog := log.Component("refresh")
	go refresh.NewRunner(policy, dashboardUC.Refresh, func(err error, failures int) {
		collector.RefreshFailed()
		refreshLog.Warn().Err(err).Int("failures", failures).Msg("recalculo de métricas fallido")
	}).Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutS) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutS) * time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestMetrics(collector))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Stock Count API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		LocationUC:     usecase.NewLocationUseCase(locationRepo),
		PreferenceUC:   usecase.NewPreferenceUseCase(prefStore, locationRepo).WithDefaultLocation(cfg.Count.DefaultLocationID),
		UserUC:         usecase.NewUserUseCase(userRepo),
		ScanUC:         scanUC,
		IngestUC:       ingestUC,
		DashboardUC:    dashboardUC,
		ReportUC:       reportUC,
		SheetReader:    spreadsheet.NewReader(),
		SyncPolicy:     policy,
		MetricsHandler: promhttp.Handler(),
		Logger:         log,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
