package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"furnicost/docs"
	"furnicost/internal/config"
	"furnicost/internal/costing"
	"furnicost/internal/database"
	"furnicost/internal/database/migration"
	"furnicost/internal/extraction"
	handlers "furnicost/internal/http/handler"
	"furnicost/internal/http/middleware"
	"furnicost/internal/logging"
	"furnicost/internal/otel"
	"furnicost/internal/repository/postgres"
	"furnicost/internal/service"
	"furnicost/internal/storage"
)

// @title Furniture Cost API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log := logging.New(cfg.LogLevel, logging.LoadLocation(cfg.TimeZone))
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO, log)
	if err != nil {
		log.Fatal("failed to initialize object storage", zap.Error(err))
	}

	settings, err := costing.LoadSettings(cfg.Pricing.File)
	if err != nil {
		log.Fatal("failed to load pricing", zap.String("file", cfg.Pricing.File), zap.Error(err))
	}
	if cfg.Pricing.DrawerPrice > 0 {
		settings.DrawerPrice = cfg.Pricing.DrawerPrice
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	extractMetrics, err := extraction.NewMetrics(reg)
	if err != nil {
		log.Fatal("failed to register extraction metrics", zap.Error(err))
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal("failed to register http metrics", zap.Error(err))
	}

	textSource, err := extraction.NewTextSource(cfg.Extraction.PDFEngine, cfg.Extraction.TempDir)
	if err != nil {
		log.Fatal("invalid extraction engine", zap.Error(err))
	}
	extractor := extraction.NewExtractor(textSource, cfg.Extraction.TempDir,
		extraction.WithLogger(log),
		extraction.WithMetrics(extractMetrics),
	)

	estimateRepo := postgres.NewEstimatePostgres(db)
	estimateSvc := service.NewEstimateService(objStore, estimateRepo, extractor, settings, service.Options{
		MaxUploadBytes: cfg.Extraction.MaxUploadBytes,
		Logger:         log,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// multipart framing and form fields ride on top of the drawing itself
		BodyLimit: int(cfg.Extraction.MaxUploadBytes) + 1<<20,
	})

	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, db, estimateSvc)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server_shutdown_failed", zap.Error(err))
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server_starting", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
