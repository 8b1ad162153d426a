package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/qkart/internal"
	"github.com/dukerupert/qkart/internal/cache"
	"github.com/dukerupert/qkart/internal/domain"
	"github.com/dukerupert/qkart/internal/events"
	"github.com/dukerupert/qkart/internal/handler/api"
	"github.com/dukerupert/qkart/internal/middleware"
	"github.com/dukerupert/qkart/internal/postgres"
	"github.com/dukerupert/qkart/internal/router"
	"github.com/dukerupert/qkart/internal/routes"
	"github.com/dukerupert/qkart/internal/service"
	"github.com/dukerupert/qkart/internal/telemetry"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Logging())
	slog.SetDefault(logger)

	// Error tracking
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Enabled:     cfg.Sentry.Enabled,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.Sentry.Release,
		SampleRate:  cfg.Sentry.SampleRate,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	// Verify database connection
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	if err := internal.RunMigrations(sqlDB, logger); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	healthChecks := map[string]api.HealthCheck{
		"database": pool.Ping,
	}

	// Repositories
	carts := postgres.NewCartRepository(pool)
	users := postgres.NewUserRepository(pool)
	var catalog domain.Catalog = postgres.NewProductRepository(pool)

	// Catalog cache (optional)
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		catalog = cache.NewProductCache(catalog, rdb, time.Duration(cfg.Redis.TTLSeconds)*time.Second, logger)
		healthChecks["cache"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		logger.Info("Catalog cache enabled", "ttl_seconds", cfg.Redis.TTLSeconds)
	}

	// Checkout events (optional)
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		nc, err := events.NewNATSPublisher(cfg.NATS.URL, logger)
		if err != nil {
			return fmt.Errorf("nats initialization failed: %w", err)
		}
		defer nc.Close()
		publisher = nc
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middleware.NewMetrics("qkart", reg)
	cartMetrics := telemetry.NewCartMetrics("qkart", reg)

	// Services
	userService := service.NewUserService(users, service.UserDefaults{
		WalletMoney: cfg.Defaults.WalletMoney,
		Address:     cfg.Defaults.Address,
	}, logger)
	tokenService := service.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessExpirationMinutes)*time.Minute)
	productService := service.NewProductService(catalog)
	cartService := service.NewCartService(carts, catalog, service.NewWalletView(cfg.Defaults.Address), logger,
		service.WithPublisher(publisher, cfg.NATS.Subject),
		service.WithMetrics(cartMetrics),
	)

	// Rate limiters
	defaultRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer defaultRateLimiter.Stop()
	authRateLimiter := middleware.NewRateLimiter(middleware.StrictRateLimiterConfig())
	defer authRateLimiter.Stop()

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.HSTSMaxAge = 0
	}

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		middleware.WithRequestLogger(logger),
		telemetry.SentryMiddleware,
		httpMetrics.Middleware,
		router.CORS(cfg.CORSAllowedOrigins),
		middleware.SecurityHeaders(securityConfig),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
		defaultRateLimiter.Middleware,
		router.Logger(logger),
	)

	routes.RegisterOpsRoutes(r, routes.OpsDeps{
		HealthHandler:  api.NewHealthHandler(healthChecks),
		MetricsHandler: middleware.Handler(reg),
	})
	routes.RegisterAPIRoutes(r, routes.APIDeps{
		AuthHandler:    api.NewAuthHandler(userService, tokenService, logger),
		UserHandler:    api.NewUserHandler(userService),
		ProductHandler: api.NewProductHandler(productService),
		CartHandler:    api.NewCartHandler(cartService),
		RequireAuth:    middleware.RequireAuth(tokenService, userService),
		AuthRateLimit:  authRateLimiter.Middleware,
	})

	logger.Debug("Routes registered", "routes", r.Routes())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
