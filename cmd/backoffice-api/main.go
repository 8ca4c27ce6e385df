package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/backoffice-api/internal/adapters/sqlite"
	"github.com/jcmexdev/backoffice-api/internal/core/app"
	"github.com/jcmexdev/backoffice-api/internal/core/domain/entity"
	"github.com/jcmexdev/backoffice-api/internal/core/ports"
	"github.com/jcmexdev/backoffice-api/internal/infra/auth"
	"github.com/jcmexdev/backoffice-api/internal/infra/httpx"
	"github.com/jcmexdev/backoffice-api/internal/orderlog"
	orderlogsqlite "github.com/jcmexdev/backoffice-api/internal/orderlog/sqlite"
	"github.com/jcmexdev/backoffice-api/internal/pkg/cache"
	"github.com/jcmexdev/backoffice-api/internal/pkg/config"
	"github.com/jcmexdev/backoffice-api/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	shutdown, err := telemetry.SetupTracer(ctx, cfg.ServiceName)
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var events orderlog.Repository
	if cfg.OrderLogPath != "" {
		eventLog, err := orderlogsqlite.Open(cfg.OrderLogPath)
		if err != nil {
			slog.Error("failed to open order event log", "path", cfg.OrderLogPath, "error", err)
			os.Exit(1)
		}
		defer eventLog.Close()
		events = eventLog
	}

	verifier := buildVerifier(cfg)

	pages := app.Pagination{
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	}

	handler := httpx.NewHandler(
		app.NewOrderService(store, events, pages),
		app.NewProductService(store, pages),
		app.NewClientService(store, pages),
		app.NewUserService(store),
	)
	router := httpx.NewRouter(handler, verifier)

	slog.Info("backoffice API running", "addr", cfg.HTTPAddr)

	if err := http.ListenAndServe(cfg.HTTPAddr, router); err != nil {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

// buildVerifier assembles the token verifier: a static table seeded with
// the configured admin token, wrapped in a Redis cache when one is
// configured.
func buildVerifier(cfg config.Config) ports.TokenVerifier {
	tokens := map[string]ports.Actor{}
	if cfg.AdminToken != "" {
		tokens[cfg.AdminToken] = ports.Actor{UID: "admin", Role: entity.RoleAdmin}
	}

	var verifier ports.TokenVerifier = auth.NewStaticVerifier(tokens)
	if cfg.RedisAddr != "" {
		verifier = auth.NewCachedVerifier(verifier, cache.NewRedisCache(cfg.RedisAddr, cfg.ServiceName))
	}
	return verifier
}
