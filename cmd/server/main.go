package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgo/equimind/api/internal/config"
	"github.com/forgo/equimind/api/internal/database"
	"github.com/forgo/equimind/api/internal/handler"
	"github.com/forgo/equimind/api/internal/jobs"
	"github.com/forgo/equimind/api/internal/llm"
	"github.com/forgo/equimind/api/internal/middleware"
	"github.com/forgo/equimind/api/internal/repository"
	"github.com/forgo/equimind/api/internal/service"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db, err := database.Open(database.Config{
		Driver:    cfg.Database.Driver,
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
		MongoURI:  cfg.Database.MongoURI,
	})
	if err != nil {
		slog.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("driver", cfg.Database.Driver),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize repositories
	riderRepo := repository.NewRiderRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	emotionRepo := repository.NewEmotionRepository(db)
	horseRepo := repository.NewHorseObservationRepository(db)
	strategyRepo := repository.NewStrategyRepository(db)
	strategyLogRepo := repository.NewStrategyLogRepository(db)
	emergencyRepo := repository.NewEmergencyEventRepository(db)
	breathingRepo := repository.NewBreathingExerciseRepository(db)

	// Strategy catalog: load from the store, then import the seed file if set
	catalogService := service.NewCatalogService(service.CatalogServiceConfig{
		Repo: strategyRepo,
	})
	if cfg.Catalog.SeedPath != "" {
		if err := importSeed(ctx, catalogService, cfg.Catalog.SeedPath); err != nil {
			slog.Error("failed to import catalog seed",
				slog.String("path", cfg.Catalog.SeedPath),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}
	if err := catalogService.Reload(ctx); err != nil {
		slog.Error("failed to load strategy catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("strategy catalog loaded", slog.Int("strategies", catalogService.Catalog().Len()))

	// Initialize services
	riderService := service.NewRiderService(service.RiderServiceConfig{Repo: riderRepo})

	sessionService := service.NewSessionService(service.SessionServiceConfig{
		Repo:      sessionRepo,
		RiderRepo: riderRepo,
	})

	emotionService := service.NewEmotionService(service.EmotionServiceConfig{
		Repo:     emotionRepo,
		Sessions: sessionService,
		Catalog:  catalogService,
	})

	horseService := service.NewHorseService(service.HorseServiceConfig{
		Repo:     horseRepo,
		Sessions: sessionService,
	})

	strategyLogService := service.NewStrategyLogService(service.StrategyLogServiceConfig{
		Repo:     strategyLogRepo,
		Sessions: sessionService,
		Catalog:  catalogService,
	})

	emergencyService := service.NewEmergencyService(service.EmergencyServiceConfig{
		Repo:     emergencyRepo,
		Sessions: sessionService,
	})

	analyticsService := service.NewAnalyticsService(service.AnalyticsServiceConfig{
		RiderRepo:     riderRepo,
		SessionRepo:   sessionRepo,
		EmotionRepo:   emotionRepo,
		EmergencyRepo: emergencyRepo,
	})

	referenceService := service.NewReferenceService(service.ReferenceServiceConfig{
		BreathingRepo: breathingRepo,
	})

	var generator service.TextGenerator
	if cfg.Coach.Enabled {
		client, err := llm.NewClient(llm.Config{
			BaseURL:     cfg.Coach.BaseURL,
			APIKey:      cfg.Coach.APIKey,
			Model:       cfg.Coach.Model,
			Temperature: cfg.Coach.Temperature,
			Timeout:     cfg.Coach.Timeout,
		})
		if err != nil {
			slog.Error("failed to initialize coach client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		generator = client
		slog.Info("coach text generation enabled", slog.String("model", cfg.Coach.Model))
	} else {
		slog.Info("coach text generation disabled, using static replies")
	}
	coachService := service.NewCoachService(service.CoachServiceConfig{Generator: generator})

	// Start background jobs
	catalogRefresher := jobs.NewCatalogRefresher(catalogService, cfg.Catalog.RefreshInterval)
	catalogRefresher.Start()
	defer catalogRefresher.Stop()

	// Initialize middleware stores
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   cfg.RateLimit.Rate,
		Burst:  cfg.RateLimit.Burst,
		Window: cfg.RateLimit.Window,
	})

	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{})

	// Setup router
	mux := http.NewServeMux()

	handler.NewHealthHandler(db, version).RegisterRoutes(mux)
	handler.NewRiderHandler(handler.RiderHandlerConfig{
		Riders:    riderService,
		Sessions:  sessionService,
		Emotions:  emotionService,
		Analytics: analyticsService,
	}).RegisterRoutes(mux)
	handler.NewSessionHandler(sessionService).RegisterRoutes(mux)
	handler.NewEmotionHandler(emotionService).RegisterRoutes(mux)
	handler.NewHorseHandler(horseService).RegisterRoutes(mux)
	handler.NewStrategyHandler(catalogService).RegisterRoutes(mux)
	handler.NewStrategyLogHandler(strategyLogService).RegisterRoutes(mux)
	handler.NewReferenceHandler(referenceService, emergencyService).RegisterRoutes(mux)
	handler.NewEmergencyHandler(emergencyService).RegisterRoutes(mux)
	handler.NewCoachHandler(coachService).RegisterRoutes(mux)

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.ActingRider,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Idempotency(idempotencyStore),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
			slog.String("version", version),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}

// importSeed adds the strategies in a YAML seed file to the store. Strategies
// already present are skipped, so restarts with the same file are harmless.
func importSeed(ctx context.Context, catalogService *service.CatalogService, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	strategies, err := service.LoadStrategiesYAML(f)
	if err != nil {
		return err
	}

	if err := catalogService.Reload(ctx); err != nil {
		return err
	}
	imported, skipped, err := catalogService.Import(ctx, strategies)
	if err != nil {
		return err
	}
	slog.Info("catalog seed imported",
		slog.String("path", path),
		slog.Int("imported", len(imported)),
		slog.Int("skipped", len(skipped)),
	)
	return nil
}
