// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/ammerola/pharmacy-be/internal/app"
	"github.com/ammerola/pharmacy-be/internal/handlers"
	"github.com/ammerola/pharmacy-be/internal/handlers/middleware"
	"github.com/ammerola/pharmacy-be/internal/pkg/config"
	"github.com/ammerola/pharmacy-be/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting pharmacy inventory api",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	ctx := context.Background()

	cfg, err := app.LoadConfig(ctx, slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.App.Version == "dev" {
		cfg.App.Version = Version
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	deps, err := app.New(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.Close()

	if cfg.Database.MigrateOnStart {
		if err := deps.Migrate(ctx); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			if cfg.IsProduction() {
				os.Exit(1)
			}
		}
	}

	inspector := asynq.NewInspector(app.AsynqRedisOpt(cfg))
	defer inspector.Close()

	server := setupHTTPServer(cfg, deps, inspector, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

func buildHandlers(cfg *config.Config, deps *app.Container, inspector *asynq.Inspector, logger *slog.Logger) handlers.Handlers {
	return handlers.Handlers{
		Auth:         handlers.NewAuthHandler(deps.Auth, logger),
		Purchases:    handlers.NewPurchaseHandler(deps.Purchases, logger),
		Sales:        handlers.NewSaleHandler(deps.Sales, logger),
		Batches:      handlers.NewBatchHandler(deps.Batches, logger),
		Stock:        handlers.NewStockHandler(deps.Stock, deps.Sheets, logger),
		Medicines:    handlers.NewMedicineHandler(deps.Medicines, logger),
		Catalog:      handlers.NewCatalogHandler(deps.Catalog, logger),
		Transactions: handlers.NewTransactionHandler(deps.Transactions, logger),
		Imports: handlers.NewImportHandler(
			deps.Imports,
			deps.ImportJobs,
			deps.Sheets,
			logger,
			cfg.Upload.MaxBytes(),
		),
		Dashboard: handlers.NewDashboardHandler(deps.Dashboard, logger),
		Users:     handlers.NewUserHandler(deps.Users, logger),
		AuditLogs: handlers.NewAuditLogHandler(deps.Audit, logger),
		Health: handlers.NewHealthHandler(
			deps.Database,
			deps.Cache,
			inspector,
			cfg.App.Version,
			cfg.App.Environment,
			logger,
		),
	}
}

func setupHTTPServer(cfg *config.Config, deps *app.Container, inspector *asynq.Inspector, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, buildHandlers(cfg, deps, inspector, logger), deps.Auth)

	// Apply middleware in reverse order (innermost first)
	var handler http.Handler = mux
	handler = middleware.Compression(handler)

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	handler = middleware.Recovery(logger)(handler)
	handler = middleware.Logger(logger)(handler)
	handler = middleware.RequestID(cfg.Security.RequestIDHeader)(handler)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}
