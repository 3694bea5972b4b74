// Command ingest loads club and company CSV files into the configured
// store, precomputing company cluster labels along the way.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/goldengoal/sponsormatch/internal/adapters/repository"
	"github.com/goldengoal/sponsormatch/internal/cluster"
	"github.com/goldengoal/sponsormatch/internal/config"
	"github.com/goldengoal/sponsormatch/internal/ingest"
	"github.com/goldengoal/sponsormatch/pkg/logger"
)

func main() {
	companiesPath := flag.String("companies", "", "path to the companies CSV")
	clubsPath := flag.String("clubs", "", "path to the clubs CSV")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get().Named("ingest-cli")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}
	if *companiesPath == "" && *clubsPath == "" {
		log.Error(ctx, "nothing to do; pass -companies and/or -clubs")
		os.Exit(2)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to open store", logger.Error(err))
		os.Exit(1)
	}
	defer closeStore()

	if *clubsPath != "" {
		f, err := os.Open(*clubsPath)
		if err != nil {
			log.Error(ctx, "failed to open clubs file", logger.Error(err))
			os.Exit(1)
		}
		loaded, skipped, err := ingest.LoadClubs(ctx, f, store)
		_ = f.Close()
		if err != nil {
			log.Error(ctx, "clubs load failed", logger.Error(err))
			os.Exit(1)
		}
		log.Info(ctx, "clubs loaded",
			logger.Int("loaded", loaded),
			logger.Int("skipped", skipped))
	}

	if *companiesPath != "" {
		registry := cluster.NewRegistry(ctx, cfg.ModelsDir)

		queue := ingest.NewMemoryQueue(ingest.WithCapacity(cfg.IngestQueueSize))
		pool := ingest.NewPool(queue, store, registry,
			ingest.WithWorkerCount(cfg.IngestWorkerCount))
		pool.Start(ctx)

		f, err := os.Open(*companiesPath)
		if err != nil {
			log.Error(ctx, "failed to open companies file", logger.Error(err))
			os.Exit(1)
		}
		enqueued, skipped, err := ingest.NewReader(queue).Load(ctx, f)
		_ = f.Close()
		_ = queue.Close()
		pool.Wait()

		if err != nil {
			log.Error(ctx, "companies load failed", logger.Error(err))
			os.Exit(1)
		}
		log.Info(ctx, "companies loaded",
			logger.Int("enqueued", enqueued),
			logger.Int("skipped", skipped))
	}
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
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
