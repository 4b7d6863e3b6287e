// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carterperez-dev/subtracker/internal/auth"
	"github.com/carterperez-dev/subtracker/internal/config"
	"github.com/carterperez-dev/subtracker/internal/core"
	"github.com/carterperez-dev/subtracker/internal/health"
	"github.com/carterperez-dev/subtracker/internal/middleware"
	"github.com/carterperez-dev/subtracker/internal/server"
	"github.com/carterperez-dev/subtracker/internal/subscription"
	"github.com/carterperez-dev/subtracker/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	genKeys := flag.String(
		"generate-keys",
		"",
		"write an ES256 key pair to <prefix>.pem and <prefix>.pub.pem and exit",
	)
	flag.Parse()

	if *genKeys != "" {
		if err := auth.GenerateKeyPair(*genKeys+".pem", *genKeys+".pub.pem"); err != nil {
			slog.Error("generate keys", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	metrics := core.NewMetrics(cfg.Metrics.Namespace)

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeWith(logger, "database", db.Close)
	metrics.RegisterDatabase(db.DB.DB, "postgres")
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		applied, migErr := core.Migrate(ctx, db.DB)
		if migErr != nil {
			return migErr
		}
		logger.Info("database schema up to date", "applied", applied)
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer closeWith(logger, "redis", redis.Close)
	metrics.RegisterRedis(cfg.Metrics.Namespace, redis.PoolStats)
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", jwtManager.Algorithm(),
		"key_id", jwtManager.GetKeyID(),
		"ttl", jwtManager.TTL(),
	)

	userRepo := user.NewRepository(db.DB, metrics)
	userSvc := user.NewService(userRepo)

	if cfg.Seed.Email != "" {
		created, seedErr := userSvc.EnsureUser(ctx, cfg.Seed.Email, cfg.Seed.Password)
		if seedErr != nil {
			return fmt.Errorf("seed user: %w", seedErr)
		}
		logger.Info("seed user checked", "email", cfg.Seed.Email, "created", created)
	}

	subRepo := subscription.NewRepository(db.DB, metrics)
	subSvc := subscription.NewService(subRepo)

	authSvc := auth.NewService(jwtManager, userSvc)

	healthHandler := health.NewHandler(
		cfg.App.Version,
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	globalLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Scope: "global",
		Limit: middleware.PerWindow(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
			cfg.RateLimit.Window,
		),
		FailOpen: true,
		Metrics:  metrics,
	})
	defer globalLimiter.Close()

	authLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Scope: "auth",
		Limit: middleware.PerWindow(
			cfg.RateLimit.AuthRequests,
			cfg.RateLimit.AuthBurst,
			cfg.RateLimit.Window,
		),
		FailOpen: true,
		Metrics:  metrics,
	})
	defer authLimiter.Close()

	mountRoutes(srv.Router(), routes{
		logger:        logger,
		config:        cfg,
		metrics:       metrics,
		tokens:        jwtManager,
		users:         userSvc,
		authHandler:   auth.NewHandler(authSvc),
		userHandler:   user.NewHandler(userSvc),
		subHandler:    subscription.NewHandler(subSvc),
		healthHandler: healthHandler,
		globalLimiter: globalLimiter.Handler,
		authLimiter:   authLimiter.Handler,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	logger.Info("application stopped")
	return nil
}

func closeWith(logger *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Error(name+" close error", "error", err)
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
