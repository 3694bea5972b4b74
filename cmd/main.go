package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/goldengoal/sponsormatch/internal/adapters/http/api"
	"github.com/goldengoal/sponsormatch/internal/adapters/repository"
	app "github.com/goldengoal/sponsormatch/internal/app"
	"github.com/goldengoal/sponsormatch/internal/cluster"
	"github.com/goldengoal/sponsormatch/internal/config"
	"github.com/goldengoal/sponsormatch/internal/domain/feature"
	"github.com/goldengoal/sponsormatch/internal/domain/scoring"
	"github.com/goldengoal/sponsormatch/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to open store", logger.Error(err))
		return
	}
	defer closeStore()

	// Cluster models are optional; a missing artifact degrades matching
	// instead of blocking startup.
	registry := cluster.NewRegistry(ctx, cfg.ModelsDir)

	scorer, err := scoring.NewScorer(scoring.WithWeights(cfg.Weights))
	if err != nil {
		log.Error(ctx, "invalid scoring weights", logger.Error(err))
		return
	}

	builderOpts := []feature.Option{}
	if len(cfg.IndustryAffinity) > 0 {
		builderOpts = append(builderOpts, feature.WithAffinityTable(cfg.IndustryAffinity))
	}

	svc, err := app.New(store,
		app.WithLogger(log),
		app.WithAssigner(registry),
		app.WithScorer(scorer),
		app.WithBuilder(feature.NewBuilder(builderOpts...)),
		app.WithDefaultMaxDistanceKM(cfg.DefaultMaxDistanceKM),
		app.WithTopNBounds(cfg.DefaultTopN, cfg.MaxTopN),
		app.WithMaxSearchLimit(cfg.MaxSearchLimit),
	)
	if err != nil {
		log.Error(ctx, "failed to build service", logger.Error(err))
		return
	}

	// HTTP mux and routes.
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// newStore opens the configured club/company store. The returned closer
// is a no-op for the in-memory store.
func newStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pg, err := repository.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, func() { _ = pg.Close() }, nil
	default:
		return repository.NewMemoryStore(), func() {}, nil
	}
}
