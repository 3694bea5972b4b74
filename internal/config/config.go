// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer sources.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"

	"github.com/goldengoal/sponsormatch/internal/domain/scoring"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the club/company store: memory or postgres.
	StoreDriver string `koanf:"store_driver"`

	// DatabaseURL is the postgres DSN, required when StoreDriver is postgres.
	DatabaseURL string `koanf:"database_url"`

	// ModelsDir holds the trained cluster model artifacts. Empty disables
	// cluster matching.
	ModelsDir string `koanf:"models_dir"`

	// DefaultMaxDistanceKM applies when a request omits max_distance_km.
	DefaultMaxDistanceKM float64 `koanf:"default_max_distance_km"`

	// DefaultTopN applies when a request omits top_n.
	DefaultTopN int `koanf:"default_top_n"`

	// MaxTopN caps top_n on recommendation requests.
	MaxTopN int `koanf:"max_top_n"`

	// MaxSearchLimit caps the club name search result size.
	MaxSearchLimit int `koanf:"max_search_limit"`

	// Weights control the relative feature importance in scoring.
	Weights scoring.Weights `koanf:"weights"`

	// IndustryAffinity overrides the built-in industry affinity table
	// when non-empty.
	IndustryAffinity map[string]float64 `koanf:"industry_affinity"`

	// IngestQueueSize bounds the in-memory ingest queue.
	IngestQueueSize int `koanf:"ingest_queue_size"`

	// IngestWorkerCount sets the number of ingest workers.
	IngestWorkerCount int `koanf:"ingest_worker_count"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		StoreDriver:          StoreMemory,
		ModelsDir:            "models",
		DefaultMaxDistanceKM: 15,
		DefaultTopN:          10,
		MaxTopN:              100,
		MaxSearchLimit:       50,
		Weights:              scoring.DefaultWeights(),
		IngestQueueSize:      10_000,
		IngestWorkerCount:    runtime.NumCPU(),
	}
}
