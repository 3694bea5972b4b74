package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SPONSORMATCH_CONFIG is set
//  3. env (prefix SPONSORMATCH_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("SPONSORMATCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: SPONSORMATCH_ADDR, SPONSORMATCH_MAX_TOP_N, ...
	// Map env keys like SPONSORMATCH_MAX_TOP_N -> max_top_n (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SPONSORMATCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "sponsormatch_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty: %w", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required for the postgres store: %w", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("unknown store_driver %q: %w", c.StoreDriver, ErrInvalidConfig)
	}
	if c.DefaultMaxDistanceKM <= 0 {
		return fmt.Errorf("default_max_distance_km must be positive: %w", ErrInvalidConfig)
	}
	if c.DefaultTopN < 1 || c.MaxTopN < 1 || c.DefaultTopN > c.MaxTopN {
		return fmt.Errorf("top_n bounds %d/%d are inconsistent: %w", c.DefaultTopN, c.MaxTopN, ErrInvalidConfig)
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
