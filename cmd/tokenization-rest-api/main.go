// cmd/tokenization-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/MGTheTrain/tokenization-service/internal/api/rest/v1"
	"github.com/MGTheTrain/tokenization-service/internal/app"
	"github.com/MGTheTrain/tokenization-service/internal/domain/idempotency"
	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/infrastructure/cache"
	"github.com/MGTheTrain/tokenization-service/internal/infrastructure/messaging"
	"github.com/MGTheTrain/tokenization-service/internal/infrastructure/metrics"
	"github.com/MGTheTrain/tokenization-service/internal/infrastructure/persistence"
	"github.com/MGTheTrain/tokenization-service/internal/infrastructure/resilience"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/config"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/tokengen"
	"github.com/gin-contrib/cors"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../../configs/rest-app.yaml"
	}

	restConfig, err := config.InitializeRestConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&restConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	// Initialize application dependencies
	deps, err := initializeDependencies(restConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.close(log)

	// Setup and start server with graceful shutdown
	return startServerWithGracefulShutdown(restConfig, deps, log)
}

// appDependencies holds all initialized application components
type appDependencies struct {
	db        *gorm.DB
	metrics   *metrics.Metrics
	publisher tokens.EventPublisher
	services  *appServices
}

type appServices struct {
	tokenization tokens.TokenizationService
	idempotency  idempotency.Service
}

func (d *appDependencies) close(log logger.Logger) {
	if err := d.publisher.Close(); err != nil {
		log.Warn("Failed to close event publisher: ", err)
	}
	if err := persistence.CloseDB(d.db); err != nil {
		log.Warn("Failed to close database: ", err)
	}
}

// initializeDependencies sets up all application components
func initializeDependencies(cfg *config.RestConfig, log logger.Logger) (*appDependencies, error) {
	// Initialize database
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	// Run migrations
	if err := persistence.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info("Database migrations completed successfully")

	registry, err := metrics.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics registry: %w", err)
	}

	// Initialize repositories
	tokenRepo, policy, err := initializeTokenRepository(cfg, db, registry, log)
	if err != nil {
		return nil, err
	}

	idempotencyRepo, err := initializeIdempotencyRepository(cfg, db, log)
	if err != nil {
		return nil, err
	}

	tokenCache, err := cache.NewTokenCache(cfg.Tokenization.Cache, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create token cache: %w", err)
	}
	if err := registry.RegisterTokenCache(tokenCache.Stats); err != nil {
		return nil, fmt.Errorf("failed to register cache metrics: %w", err)
	}

	publisher, err := initializePublisher(cfg, registry, log)
	if err != nil {
		return nil, err
	}

	services, err := initializeApplicationServices(tokenRepo, policy, idempotencyRepo, tokenCache, publisher, registry, log)
	if err != nil {
		_ = publisher.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &appDependencies{
		db:        db,
		metrics:   registry,
		publisher: publisher,
		services:  services,
	}, nil
}

// initializeTokenRepository wraps the gorm repository in the resilience policy when enabled.
// The policy is nil when resilience is disabled.
func initializeTokenRepository(cfg *config.RestConfig, db *gorm.DB, registry *metrics.Metrics, log logger.Logger) (tokens.TokenRepository, *resilience.Policy, error) {
	tokenRepo, err := persistence.NewGormTokenRepository(db, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create token repository: %w", err)
	}

	if !cfg.Resilience.Enabled {
		log.Info("Resilience policies disabled")
		return tokenRepo, nil, nil
	}

	policy, err := resilience.NewPolicy("tokenRepository", cfg.Resilience, resilience.IsTokenOutcome, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resilience policy: %w", err)
	}
	if err := registry.RegisterCircuitBreakerState(policy.Name(), policy.BreakerState); err != nil {
		return nil, nil, fmt.Errorf("failed to register circuit breaker metrics: %w", err)
	}

	return resilience.NewGuardedTokenRepository(tokenRepo, policy), policy, nil
}

func initializeIdempotencyRepository(cfg *config.RestConfig, db *gorm.DB, log logger.Logger) (idempotency.Repository, error) {
	idempotencyRepo, err := persistence.NewGormIdempotencyRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create idempotency repository: %w", err)
	}

	cacheService, err := cache.NewIdempotencyCacheService(cfg.Tokenization.Idempotency.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create idempotency cache: %w", err)
	}

	cachedRepo, err := cache.NewCachedIdempotencyRepository(idempotencyRepo, cacheService)
	if err != nil {
		return nil, fmt.Errorf("failed to create cached idempotency repository: %w", err)
	}
	return cachedRepo, nil
}

func initializePublisher(cfg *config.RestConfig, registry *metrics.Metrics, log logger.Logger) (tokens.EventPublisher, error) {
	if !cfg.Events.Enabled {
		log.Info("Event publishing disabled")
		return messaging.NewNoopPublisher(), nil
	}

	publisher, err := messaging.NewKafkaPublisher(cfg.Events, registry, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}
	log.Info("Publishing token events to topic ", cfg.Events.Topic)
	return publisher, nil
}

// initializeApplicationServices sets up all application services
func initializeApplicationServices(
	tokenRepo tokens.TokenRepository,
	policy *resilience.Policy,
	idempotencyRepo idempotency.Repository,
	tokenCache tokens.TokenCache,
	publisher tokens.EventPublisher,
	registry *metrics.Metrics,
	log logger.Logger,
) (*appServices, error) {
	finder, err := app.NewTokenFinder(tokenRepo, tokenCache, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create token finder: %w", err)
	}

	tokenizationService, err := app.NewTokenizationService(tokenRepo, finder, tokengen.New(), publisher, registry, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokenization service: %w", err)
	}
	if policy != nil {
		// rate limit and bulkhead apply per request, the store calls inside keep retry and breaker
		tokenizationService = resilience.NewGuardedTokenizationService(tokenizationService, policy)
	}

	idempotencyService, err := app.NewIdempotencyService(idempotencyRepo, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create idempotency service: %w", err)
	}

	log.Info("Application services initialized successfully")
	return &appServices{
		tokenization: tokenizationService,
		idempotency:  idempotencyService,
	}, nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.RestConfig, deps *appDependencies, log logger.Logger) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", v1.HeaderIdempotencyKey},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", v1.HeaderIdempotentReplayed},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	v1.SetupRoutes(r,
		deps.services.tokenization,
		deps.services.idempotency,
		map[string]v1.HealthCheck{"db": func() error { return persistence.Ping(deps.db) }},
		deps.metrics,
		deps.metrics.Handler(),
		log,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout, // Prevent Slowloris attack
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("Starting server on port ", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}

	log.Info("Server stopped gracefully")
	return nil
}
