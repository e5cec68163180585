package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/viant/bigquery"
	"golang.org/x/sync/errgroup"

	"semql/internal/api"
	"semql/internal/compile"
	"semql/internal/config"
	internaldb "semql/internal/db"
	"semql/internal/middleware"
	"semql/internal/repository"
	"semql/internal/service/semantic"
	"semql/internal/warehouse"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file (if present)
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	client, err := warehouse.Open(ctx, warehouse.Config{
		Driver:         cfg.WarehouseDriver,
		DSN:            cfg.WarehouseDSN,
		DefaultDataset: cfg.DefaultDataset,
	})
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	historyDB, err := internaldb.OpenSQLite(cfg.HistoryDBPath)
	if err != nil {
		return err
	}
	defer historyDB.Close() //nolint:errcheck

	logger.Info("running history migrations", "path", cfg.HistoryDBPath)
	if err := internaldb.RunMigrations(historyDB); err != nil {
		return err
	}

	opts := compile.Options{OnUnresolvedDimension: compile.OmitUnresolved}
	if cfg.StrictDimensions {
		opts.OnUnresolvedDimension = compile.ErrorUnresolved
	}

	svc := semantic.NewService(client, repository.NewQueryHistoryRepo(historyDB), opts, logger)
	handler := api.NewHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Mount("/v1", handler.Routes())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP API listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
