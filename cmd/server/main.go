package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/iliyamo/codegate-events/internal/config"
	"github.com/iliyamo/codegate-events/internal/database"
	"github.com/iliyamo/codegate-events/internal/handler"
	"github.com/iliyamo/codegate-events/internal/obs"
	"github.com/iliyamo/codegate-events/internal/queue"
	"github.com/iliyamo/codegate-events/internal/repository"
	"github.com/iliyamo/codegate-events/internal/router"
	"github.com/iliyamo/codegate-events/internal/service"
	"github.com/iliyamo/codegate-events/internal/utils"
)

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file to load before reading the environment")
	migrateOnly := pflag.Bool("migrate-only", false, "apply database migrations and exit")
	pflag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load env file", "path", *envFile, "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger, *migrateOnly); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger, migrateOnly bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, cfg.ServiceName, handler.Version, cfg.Env, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(sctx)
	}()

	var store repository.Store
	switch cfg.DBDriver {
	case "memory":
		logger.Warn("using in-memory store; data is lost on restart")
		store = repository.NewMemoryStore()
	default:
		db, err := database.Open(database.Options{
			User: cfg.DBUser, Password: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
		}, !cfg.IsProduction())
		if err != nil {
			return err
		}
		defer database.Close(db)
		if cfg.DBAutoMigrate || migrateOnly {
			if err := database.Migrate(db); err != nil {
				return err
			}
			logger.Info("database migrated")
		}
		store = repository.NewGormStore(db)
	}
	if migrateOnly {
		return nil
	}

	codeSecret, generated, err := resolveCodeSecret(cfg, utils.RandomHex)
	if err != nil {
		return err
	}
	if generated {
		logger.Warn("CODE_SECRET not set; using a random per-process secret")
	}

	var pub service.Publisher
	if cfg.AMQPURL != "" {
		p := queue.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
		defer p.Close()
		pub = p
		if cfg.AuditConsumerEnabled {
			audit := queue.AuditConsumer{URL: cfg.AMQPURL, Exchange: cfg.AMQPExchange, LogPath: cfg.AuditLogPath, Log: logger}
			go func() {
				if err := audit.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("audit consumer stopped", "error", err)
				}
			}()
		}
	}

	rl, err := config.LoadRateLimitConfig()
	if err != nil {
		return err
	}
	cc, err := config.LoadCacheConfig()
	if err != nil {
		return err
	}
	rdb := config.NewRedisClient(logger)
	if rdb != nil {
		defer rdb.Close()
	}

	tickets := service.NewTicketingService(store, utils.NewCodeDeriver(codeSecret), pub, logger, service.Options{
		OrganizerEmail: cfg.OrganizerEmail,
		OrganizerName:  cfg.OrganizerName,
		StaffEmail:     cfg.PlaceholderStaffEmail,
		StaffName:      cfg.PlaceholderStaffName,
		RequireStaff:   cfg.CheckInRequireStaff,
	})
	e := router.New(router.Deps{
		Config:    cfg,
		RateLimit: rl,
		Cache:     cc,
		Redis:     rdb,
		Tickets:   tickets,
		QR:        service.NewQRService(nil),
		Log:       logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server is shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}

func setupLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// resolveCodeSecret returns the configured secret, or a random one outside
// production. generated reports whether the secret was made up.
func resolveCodeSecret(cfg config.Config, random func(int) (string, error)) (secret string, generated bool, err error) {
	if cfg.CodeSecret != "" {
		return cfg.CodeSecret, false, nil
	}
	if cfg.IsProduction() {
		return "", false, errors.New("CODE_SECRET must be set in production")
	}
	secret, err = random(32)
	if err != nil {
		return "", false, fmt.Errorf("generate code secret: %w", err)
	}
	return secret, true, nil
}
