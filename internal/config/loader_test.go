package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goldengoal/sponsormatch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"SPONSORMATCH_CONFIG",
		"SPONSORMATCH_ADDR",
		"SPONSORMATCH_LOG_LEVEL",
		"SPONSORMATCH_STORE_DRIVER",
		"SPONSORMATCH_DATABASE_URL",
		"SPONSORMATCH_MODELS_DIR",
		"SPONSORMATCH_DEFAULT_MAX_DISTANCE_KM",
		"SPONSORMATCH_DEFAULT_TOP_N",
		"SPONSORMATCH_MAX_TOP_N",
		"SPONSORMATCH_INGEST_QUEUE_SIZE",
		"SPONSORMATCH_INGEST_WORKER_COUNT",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreMemory)
				convey.So(cfg.DefaultMaxDistanceKM, convey.ShouldEqual, 15)
				convey.So(cfg.DefaultTopN, convey.ShouldEqual, 10)
				convey.So(cfg.MaxTopN, convey.ShouldEqual, 100)
				convey.So(cfg.Weights.Distance, convey.ShouldEqual, 0.4)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SPONSORMATCH_ADDR", ":8080")
			_ = os.Setenv("SPONSORMATCH_DEFAULT_MAX_DISTANCE_KM", "25")
			_ = os.Setenv("SPONSORMATCH_MAX_TOP_N", "20")
			_ = os.Setenv("SPONSORMATCH_INGEST_WORKER_COUNT", "4")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DefaultMaxDistanceKM, convey.ShouldEqual, 25)
				convey.So(cfg.MaxTopN, convey.ShouldEqual, 20)
				convey.So(cfg.IngestWorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When loading config from a YAML file", func() {
			clearConfigEnvVars()
			path := filepath.Join(t.TempDir(), "config.yaml")
			yaml := "addr: \":7070\"\nmodels_dir: /var/lib/sponsormatch/models\nweights:\n  distance: 0.5\n  size_match: 0.3\n  cluster_match: 0.1\n  industry_affinity: 0.1\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("SPONSORMATCH_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values layer over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.ModelsDir, convey.ShouldEqual, "/var/lib/sponsormatch/models")
				convey.So(cfg.Weights.Distance, convey.ShouldEqual, 0.5)
				convey.So(cfg.DefaultTopN, convey.ShouldEqual, 10) // untouched default
			})
		})

		convey.Convey("When the postgres driver is selected without a DSN", func() {
			clearConfigEnvVars()
			_ = os.Setenv("SPONSORMATCH_STORE_DRIVER", "postgres")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the store driver is unknown", func() {
			clearConfigEnvVars()
			_ = os.Setenv("SPONSORMATCH_STORE_DRIVER", "cassandra")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
