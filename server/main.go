package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"branchdesk/api/routes"
	"branchdesk/internal/bookings"
	"branchdesk/internal/catalog"
	"branchdesk/internal/loans"
	"branchdesk/internal/notifications"
	"branchdesk/internal/shared/config"
	"branchdesk/internal/shared/database"
	"branchdesk/internal/shared/middleware"
	"branchdesk/pkg/cache"
	"branchdesk/pkg/logger"
	"branchdesk/pkg/ratelimit"
	"branchdesk/pkg/schedule"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	envLoaded := godotenv.Load() == nil

	cfg := config.Load()

	// Set Gin mode first, the logger picks text or JSON output from it
	gin.SetMode(cfg.GinMode)
	appLogger := logger.NewWithWriter(os.Stdout, cfg.LogLevel)
	logger.SetDefault(appLogger)

	if envLoaded {
		appLogger.Info("Development environment: loaded .env file")
	} else if cfg.IsProduction() || os.Getenv("DOCKER_CONTAINER") == "true" {
		appLogger.Info("Production environment: using container environment variables")
	} else {
		appLogger.Info("No .env file found, using system environment variables")
	}

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("Server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	appLogger.Info("Server exited gracefully")
}

func run(cfg *config.Config, appLogger *logger.Logger) error {
	db, err := database.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalogService, err := catalog.NewService(ctx, catalogRepository(cfg, db, appLogger))
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	notificationService, err := notifications.NewService(cfg.Kafka, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize notification service", slog.Any("error", err))
		appLogger.Info("Continuing with in-process notification delivery")
		notificationService, err = notifications.NewService(config.KafkaConfig{}, appLogger)
		if err != nil {
			return err
		}
	}
	if err := notificationService.Start(ctx); err != nil {
		return fmt.Errorf("failed to start notification service: %w", err)
	}
	defer func() {
		appLogger.Info("Stopping notification service...")
		if err := notificationService.Stop(); err != nil {
			appLogger.Error("Error stopping notification service", slog.Any("error", err))
		}
	}()

	bookingService := bookings.NewService(catalogService, notificationService, cfg.Booking, appLogger)

	loanService := loans.NewService(
		sessionStore(cfg, db, appLogger),
		schedule.NewReal(),
		notificationService,
		loans.AlwaysApprove{},
		cfg.Wizard,
		appLogger,
	)
	defer loanService.Shutdown()

	loanJobs := loans.NewJobProcessor(loanService, &loans.JobConfig{ReapInterval: cfg.Wizard.ReapInterval})
	loanJobs.Start(ctx)
	defer loanJobs.Stop()

	router := setupRouter(cfg, db, newLimiter(cfg, db, appLogger), appLogger, routes.Dependencies{
		Catalog:       catalogService,
		Bookings:      bookingService,
		Loans:         loanService,
		LoanJobs:      loanJobs,
		Notifications: notificationService,
	})

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("api_base", fmt.Sprintf("http://localhost:%s%s", cfg.Port, cfg.GetAPIBasePath())),
			slog.String("version", Version),
			slog.String("build_time", BuildTime),
			slog.String("commit", GitCommit),
			slog.Bool("postgres", db.PostgreSQL != nil),
			slog.Bool("redis", db.Redis != nil),
			slog.Bool("kafka", cfg.Kafka.Enabled),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("forced shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// catalogRepository reads from Postgres when selected and connected,
// otherwise from the catalog embedded in the binary
func catalogRepository(cfg *config.Config, db *database.DB, appLogger *logger.Logger) catalog.Repository {
	if cfg.Catalog.Source == "postgres" {
		if db.PostgreSQL != nil {
			appLogger.Info("Loading catalog from PostgreSQL")
			return catalog.NewRepository(db.PostgreSQL)
		}
		appLogger.Warn("CATALOG_SOURCE=postgres but the database is disabled, using the embedded catalog")
	}
	return catalog.NewEmbeddedRepository()
}

func sessionStore(cfg *config.Config, db *database.DB, appLogger *logger.Logger) loans.Store {
	if cfg.Wizard.SessionStore == "redis" {
		if db.Redis != nil {
			appLogger.Info("Loan sessions are stored in Redis", slog.Duration("ttl", cfg.Wizard.SessionTTL))
			return loans.NewRedisStore(cache.NewService(db.Redis), cfg.Wizard.SessionTTL)
		}
		appLogger.Warn("SESSION_STORE=redis but Redis is disabled, keeping sessions in memory")
	}
	return loans.NewMemoryStore(cfg.Wizard.SessionTTL)
}

func newLimiter(cfg *config.Config, db *database.DB, appLogger *logger.Logger) ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		appLogger.Info("Rate limiting disabled")
		return nil
	}

	rateLimiterConfig := &ratelimit.Config{
		Enabled:         cfg.RateLimit.Enabled,
		WindowDuration:  cfg.RateLimit.WindowDuration,
		DefaultRequests: cfg.RateLimit.DefaultRequests,
		PublicRequests:  cfg.RateLimit.PublicRequests,
		BookingRequests: cfg.RateLimit.BookingRequests,
		PaymentRequests: cfg.RateLimit.PaymentRequests,
		WizardRequests:  cfg.RateLimit.WizardRequests,
		RecordingChunks: cfg.RateLimit.RecordingChunks,
		HealthRequests:  cfg.RateLimit.HealthRequests,
		WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
	}

	var limiter ratelimit.Limiter
	if db.Redis != nil {
		limiter = ratelimit.NewRateLimiter(db.Redis, rateLimiterConfig)
	} else {
		limiter = ratelimit.NewLocalLimiter(rateLimiterConfig)
	}

	appLogger.Info("Rate limiter initialized",
		slog.Bool("redis", db.Redis != nil),
		slog.Duration("window", cfg.RateLimit.WindowDuration),
		slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
	)
	return limiter
}

func setupRouter(cfg *config.Config, db *database.DB, limiter ratelimit.Limiter, appLogger *logger.Logger, deps routes.Dependencies) *gin.Engine {
	engine := gin.New()

	// Request IDs first so the request log carries them
	engine.Use(middleware.RequestID(), middleware.RequestLogger(appLogger), gin.Recovery())
	engine.Use(middleware.CORS(), middleware.Language())

	if limiter != nil {
		engine.Use(ratelimit.Middleware(limiter, appLogger))
		appLogger.Info("Rate limiting middleware applied to all routes")
	}

	routes.NewRouter(cfg, db, deps).SetupRoutes(engine)
	return engine
}
