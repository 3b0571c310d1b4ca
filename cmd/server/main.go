package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/storage"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/store/memstore"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.AppEnv)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Store
	var (
		st           store.Store
		pgLogHandler *logging.PGHandler
		cleanup      *cron.Cron
	)
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		slog.Warn("using in-memory store, data is lost on restart")
		st = memstore.New()
	default:
		db, err := database.Connect(cfg)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(db); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}

		// PostgreSQL log handler (ERROR+ async batch)
		pgLogHandler = logging.NewPGHandler(db)
		slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLogHandler)))

		// Log cleanup (30-day retention)
		cleanup, err = logging.StartCleanup(db)
		if err != nil {
			slog.Error("log cleanup schedule failed", "error", err)
			os.Exit(1)
		}
		st = store.NewGormStore(db)
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	// Media host
	var uploader services.ObjectUploader
	if cfg.MediaEnabled() {
		objects, err := storage.NewObjectStore(cfg)
		if err != nil {
			slog.Error("media store init failed", "error", err)
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := objects.EnsureBucket(ctx); err != nil {
			slog.Error("media bucket unavailable", "bucket", cfg.MediaBucket, "error", err)
		}
		cancel()
		uploader = objects
	} else {
		slog.Warn("media host not configured, uploads disabled")
	}

	// Services
	verifier := services.NewIdentityVerifier(cfg.IdentityJWKSURL, cfg.IdentityProjectID, cfg.IdentityIssuer)
	appService := services.NewAppService(st, st)
	votingService := services.NewVotingService(st, collector)
	reportService := services.NewReportService(st, collector)
	userService := services.NewUserService(st)
	couponService := services.NewCouponService(st)
	reviewService := services.NewReviewService(st, appService, services.NewContentFilter())
	mediaService := services.NewMediaService(uploader, collector)

	writeLimiter := middleware.NewWriteLimiter(cfg.WriteRatePerMinute)

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    int(services.MaxUploadBytes) + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})
	app.Use(middleware.RecordStatus(collector))

	// Routes
	routes.Setup(app, routes.Deps{
		Config:       cfg,
		Verifier:     verifier,
		Roles:        userService,
		WriteLimiter: writeLimiter,
		Gatherer:     registry,
		Handlers: routes.Handlers{
			Health:  handlers.NewHealthHandler(st),
			Apps:    handlers.NewAppHandler(appService, votingService),
			Reports: handlers.NewReportHandler(reportService),
			Users:   handlers.NewUserHandler(userService),
			Coupons: handlers.NewCouponHandler(couponService),
			Reviews: handlers.NewReviewHandler(reviewService),
			Upload:  handlers.NewUploadHandler(mediaService),
		},
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	writeLimiter.Stop()
	if cleanup != nil {
		<-cleanup.Stop().Done()
	}
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if err := st.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
