package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tillpoint/tillpoint/internal/admin"
	"github.com/tillpoint/tillpoint/internal/app"
	"github.com/tillpoint/tillpoint/internal/auth"
	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/guard"
	"github.com/tillpoint/tillpoint/internal/observability"
	"github.com/tillpoint/tillpoint/internal/platform/cache"
	"github.com/tillpoint/tillpoint/internal/platform/db"
	"github.com/tillpoint/tillpoint/internal/rbac"
	"github.com/tillpoint/tillpoint/internal/session"
	"github.com/tillpoint/tillpoint/internal/shared"
	"github.com/tillpoint/tillpoint/internal/users"
	"github.com/tillpoint/tillpoint/jobs"
	"github.com/tillpoint/tillpoint/migrations"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	catalog, err := loadCatalog(cfg.RBACCatalogPath)
	if err != nil {
		logger.Error("load rbac catalog", slog.Any("error", err))
		os.Exit(1)
	}
	rbacMiddleware := rbac.Middleware{Catalog: catalog, Logger: logger}

	auditLogger := shared.NewAuditLogger(pool)
	deps := crud.Deps{
		Logger:      logger,
		Audit:       auditLogger,
		Idempotency: shared.NewIdempotencyStore(pool),
		Cache:       cache.NewJSONCache(redisClient, cfg.StatsCacheTTL),
		RBAC:        rbacMiddleware,
	}
	stores := app.PostgresStores(pool)
	modules := app.NewModules(stores, catalog, deps)

	seeded, err := users.NewSeeder(stores.Users, stores.Companies, logger).Seed(ctx, users.Bootstrap{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Company:  cfg.AdminCompany,
	})
	if err != nil {
		logger.Error("seed admin account", slog.Any("error", err))
		os.Exit(1)
	}
	if seeded {
		logger.Info("admin account created", slog.String("email", cfg.AdminEmail))
	}

	directory := session.Chain{users.NewDirectory(stores.Users)}
	if cfg.AuthDemoAccounts {
		demo, err := session.DemoDirectory()
		if err != nil {
			logger.Error("load demo roster", slog.Any("error", err))
			os.Exit(1)
		}
		directory = append(directory, demo)
		logger.Warn("demo accounts enabled")
	}
	sessions := session.NewManager(redisClient, directory, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction(), logger)

	metrics := observability.NewMetrics()
	authService := auth.NewService(auditLogger, logger).WithObserver(metrics)

	migrator, err := db.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		logger.Error("load migrations", slog.Any("error", err))
		os.Exit(1)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:      logger,
		Config:      cfg,
		Sessions:    sessions,
		Metrics:     metrics,
		Portal:      guard.NewPortal(logger, catalog),
		AuthHandler: auth.NewHandler(logger, authService, catalog).WithCookies(sessions),
		RBACHandler: rbac.NewHandler(logger, catalog, rbacMiddleware),
		Resources:   modules.Resources(),
		Admin:       admin.NewHandler(logger, migrator, auditLogger, rbacMiddleware),
		JobHandler:  jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

func loadCatalog(path string) (*rbac.Catalog, error) {
	if path == "" {
		return rbac.Default()
	}
	return rbac.LoadFile(path)
}
