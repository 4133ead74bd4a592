package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/dentalclinic/internal/adapters/cache"
	"github.com/zatekoja/dentalclinic/internal/adapters/database"
	"github.com/zatekoja/dentalclinic/internal/adapters/events"
	"github.com/zatekoja/dentalclinic/internal/adapters/identity"
	"github.com/zatekoja/dentalclinic/internal/adapters/memory"
	"github.com/zatekoja/dentalclinic/internal/adapters/seed"
	"github.com/zatekoja/dentalclinic/internal/api/handlers"
	"github.com/zatekoja/dentalclinic/internal/api/middleware"
	"github.com/zatekoja/dentalclinic/internal/api/routes"
	"github.com/zatekoja/dentalclinic/internal/application/services"
	"github.com/zatekoja/dentalclinic/internal/domain/providers"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/clients/redis"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
	"github.com/zatekoja/dentalclinic/pkg/config"
)

// stores is the repository set the services run on
type stores struct {
	appointments repositories.AppointmentRepository
	records      repositories.PatientRecordRepository
	walkIns      repositories.WalkInRepository
	users        repositories.UserRepository
	catalog      repositories.ServiceCatalog
	close        func()
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)
	logger := observability.GetLogger()

	// Set up context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize persistence
	st, err := openStores(ctx, cfg, metrics)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize stores")
	}
	defer st.close()

	// Initialize Redis: directory cache and cross-instance event bus
	var eventBus providers.EventBus
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable; running without cache and with in-process events")
		} else {
			defer redisClient.Close()
			cacheProvider := cache.NewRedisAdapter(redisClient, "dental:")
			st.users = database.NewCachedUserAdapter(st.users, cacheProvider, metrics)
			st.catalog = database.NewCachedServiceCatalog(st.catalog, cacheProvider, metrics)
			eventBus = events.NewRedisEventBus(redisClient)
			logger.Info().Msg("Redis cache and event bus initialized")

			warming := services.NewCacheWarmingService(st.users, st.catalog)
			go func() {
				if err := warming.WarmCache(ctx); err != nil {
					logger.Warn().Err(err).Msg("Cache warming incomplete")
				}
			}()
		}
	}
	if eventBus == nil {
		eventBus = events.NewMemoryEventBus()
	}
	defer func() {
		if err := eventBus.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	// Initialize services
	gate := services.NewAccessGate()
	machine := services.NewStatusMachine(st.appointments, gate, eventBus, metrics)
	appointmentService := services.NewAppointmentService(st.appointments, st.users, st.catalog, machine, gate, eventBus)
	recordService := services.NewRecordService(st.records, st.appointments, st.users, gate)
	dashboardService := services.NewDashboardService(st.appointments, st.records, gate)
	directoryService := services.NewDirectoryService(st.users, st.catalog)

	queue := services.NewWalkInQueue(st.walkIns, st.users, metrics)
	if err := queue.Restore(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to restore walk-in queue")
	}

	// Initialize identity
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = devSecret()
		logger.Warn().Msg("JWT_SECRET is not set; using a random secret for this process")
	}
	verifier := identity.NewJWTVerifier(secret, cfg.Auth.Issuer, st.users)

	// Initialize handlers
	h := routes.Handlers{
		Session:     handlers.NewSessionHandler(identity.ContextIdentity{}, gate),
		Directory:   handlers.NewDirectoryHandler(directoryService),
		Appointment: handlers.NewAppointmentHandler(appointmentService),
		WalkIn:      handlers.NewWalkInHandler(queue, gate),
		Record:      handlers.NewRecordHandler(recordService),
		Dashboard:   handlers.NewDashboardHandler(dashboardService),
		SSE:         handlers.NewSSEHandler(eventBus, gate),
	}

	bookingLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	go bookingLimiter.Run(ctx)

	// Set up router
	router := routes.NewRouter(h, verifier, bookingLimiter, cfg.Server.AllowedOrigins, metrics)

	// Create HTTP server. WriteTimeout stays zero so event streams are not cut off.
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", serverAddr).Str("store", string(cfg.Store.Backend)).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	<-ctx.Done()
	logger.Info().Msg("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error during server shutdown")
	}

	logger.Info().Msg("Server stopped")
}

// openStores builds the configured backend. The memory backend is loaded with
// the demo data when seeding is enabled. Postgres is migrated on start and
// every postgres store is wrapped in the timeout and retry policy.
func openStores(ctx context.Context, cfg *config.Config, metrics *observability.Metrics) (*stores, error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		pgClient, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := pgClient.Migrate(ctx); err != nil {
			pgClient.Close()
			return nil, err
		}
		timeout, attempts := cfg.Store.CallTimeout, cfg.Store.RetryAttempt
		return &stores{
			appointments: database.NewRetryingAppointmentAdapter(database.NewAppointmentAdapter(pgClient), timeout, attempts, metrics),
			records:      database.NewRetryingRecordAdapter(database.NewPatientRecordAdapter(pgClient), timeout, attempts, metrics),
			walkIns:      database.NewRetryingWalkInAdapter(database.NewWalkInAdapter(pgClient), timeout, attempts, metrics),
			users:        database.NewRetryingUserAdapter(database.NewUserAdapter(pgClient), timeout, attempts, metrics),
			catalog:      database.NewRetryingServiceCatalog(database.NewServiceCatalogAdapter(pgClient), timeout, attempts, metrics),
			close: func() {
				if err := pgClient.Close(); err != nil {
					log.Error().Err(err).Msg("Error closing PostgreSQL client")
				}
			},
		}, nil

	default:
		st := &stores{
			appointments: memory.NewAppointmentStore(),
			records:      memory.NewRecordStore(),
			walkIns:      memory.NewWalkInStore(),
			users:        memory.NewUserStore(seed.Users()...),
			catalog:      memory.NewServiceCatalog(seed.Services()...),
			close:        func() {},
		}
		if cfg.Store.Seed {
			if err := seed.Load(ctx, seed.Stores{Appointments: st.appointments, Records: st.records}, time.Now()); err != nil {
				return nil, fmt.Errorf("failed to load demo data: %w", err)
			}
		}
		return st, nil
	}
}

func devSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
