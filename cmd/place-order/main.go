package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/place-order/internal/config"
	"github.com/jcmexdev/place-order/internal/coordinator"
	"github.com/jcmexdev/place-order/internal/coordinator/sagalog"
	"github.com/jcmexdev/place-order/internal/coordinator/sagalog/sqlite"
	"github.com/jcmexdev/place-order/internal/pkg/cache"
	"github.com/jcmexdev/place-order/internal/pkg/telemetry"
	"github.com/jcmexdev/place-order/internal/place-order/infra/adapters/httpclient"
	"github.com/jcmexdev/place-order/internal/place-order/infra/adapters/inventory"
	"github.com/jcmexdev/place-order/internal/place-order/infra/adapters/notification"
	"github.com/jcmexdev/place-order/internal/place-order/infra/adapters/orders"
	"github.com/jcmexdev/place-order/internal/place-order/infra/httpx"
)

func main() {
	cfg := config.Load()
	telemetry.InitLogger(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, cfg.Telemetry)
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

	// Saga log (optional)
	var (
		sagaWriter sagalog.Repository
		sagaReader sagalog.Reader
	)
	if cfg.SagaLogPath != "" {
		repo, err := openSagaLog(cfg.SagaLogPath)
		if err != nil {
			slog.Error("failed to open saga log", "path", cfg.SagaLogPath, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		sagaWriter, sagaReader = repo, repo
	}

	gamesBase, err := httpclient.New("games", cfg.GamesServiceURL, nil)
	if err != nil {
		slog.Error("failed to configure games client", "error", err)
		os.Exit(1)
	}
	ordersBase, err := httpclient.New("orders", cfg.OrdersServiceURL, nil)
	if err != nil {
		slog.Error("failed to configure orders client", "error", err)
		os.Exit(1)
	}

	publisher := notification.NewPublisher(cfg.Broker)
	if err := publisher.DeclareExchange(ctx); err != nil {
		slog.Error("failed to declare exchange", "exchange", cfg.Broker.Exchange, "error", err)
		os.Exit(1)
	}

	// Idempotent replay (optional)
	var responses cache.Cache
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCache(cfg.RedisAddr, "place-order")
		if err := redisCache.Ping(ctx); err != nil {
			slog.Warn("redis unreachable, continuing without idempotent replay", "addr", cfg.RedisAddr, "error", err)
		} else {
			responses = redisCache
		}
		defer redisCache.Close()
	}

	saga := coordinator.NewPlaceOrderSaga(
		inventory.NewClient(gamesBase),
		orders.NewClient(ordersBase),
		publisher,
		sagaWriter,
	)

	handler := httpx.NewHandler(saga, sagaReader, responses, cfg.IdempotencyTTL)
	router := httpx.NewRouter(handler, cfg.CORSAllowOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(router, "place-order"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("place-order coordinator running", "addr", srv.Addr, "stage", cfg.Stage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
}

func openSagaLog(path string) (*sqlite.Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return sqlite.Open(path)
}
