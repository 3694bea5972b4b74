package cluster

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/goldengoal/sponsormatch/internal/domain/model"
	"github.com/goldengoal/sponsormatch/pkg/logger"
)

// Model families. Small and medium clubs share the default model; large
// clubs get their own.
const (
	FamilyDefault = "default"
	FamilyLarge   = "large"
)

// Artifact file names inside the models directory.
const (
	defaultArtifact = "kmeans_default.gob"
	largeArtifact   = "kmeans_large.gob"
)

// Family maps a size bucket to its model family.
func Family(bucket model.SizeBucket) string {
	if bucket == model.SizeLarge {
		return FamilyLarge
	}
	return FamilyDefault
}

// Registry holds the per-family cluster models, loaded once and shared
// read-only across requests. A Registry with no loadable models is valid:
// every assignment degrades to the no-cluster sentinel.
type Registry struct {
	models     map[string]Model
	logger     logger.Logger
	mismatches sync.Map // family -> *sync.Once, warn-once on incompatible artifacts
}

// RegistryOption applies a configuration option to the Registry.
type RegistryOption func(*Registry)

// WithLogger sets a custom logger for the registry.
func WithLogger(log logger.Logger) RegistryOption {
	return func(r *Registry) {
		if log != nil {
			r.logger = log
		}
	}
}

// WithModel injects a pre-built model for a family. Used by tests and by
// callers that load artifacts themselves.
func WithModel(family string, m Model) RegistryOption {
	return func(r *Registry) {
		if m != nil {
			r.models[family] = m
		}
	}
}

// NewRegistry loads model artifacts from dir. A missing or corrupt artifact
// is logged at warning level (once, here, per load attempt) and leaves the
// family unclustered; it never fails construction.
func NewRegistry(ctx context.Context, dir string, opts ...RegistryOption) *Registry {
	r := &Registry{
		models: make(map[string]Model),
		logger: logger.Get().Named("cluster"),
	}
	for _, opt := range opts {
		opt(r)
	}

	if dir == "" {
		r.logger.Warn(ctx, "no models directory configured; cluster matching disabled")
		return r
	}

	for family, name := range map[string]string{
		FamilyDefault: defaultArtifact,
		FamilyLarge:   largeArtifact,
	} {
		if _, ok := r.models[family]; ok {
			continue // injected via options
		}
		path := filepath.Join(dir, name)
		m, err := Load(path)
		if err != nil {
			r.logger.Warn(ctx, "cluster model unavailable; scoring degrades to no cluster-match bonus",
				logger.String("family", family),
				logger.String("path", path),
				logger.Error(err))
			continue
		}
		r.models[family] = m
		r.logger.Info(ctx, "loaded cluster model",
			logger.String("family", family),
			logger.Int("dimensions", m.Dimensions()))
	}
	return r
}

// ModelFor returns the model serving a size bucket, if one is loaded.
func (r *Registry) ModelFor(bucket model.SizeBucket) (Model, bool) {
	m, ok := r.models[Family(bucket)]
	return m, ok
}

// Assign maps a club to a cluster label using the model for its bucket.
// The second return value is false (the "no cluster" sentinel) when no
// model is loaded for the bucket or the model cannot consume the feature
// vector; callers must treat that as "no cluster-match bonus", never as
// an error.
func (r *Registry) Assign(ctx context.Context, club model.Club) (int, bool) {
	m, ok := r.ModelFor(club.SizeBucket)
	if !ok {
		return 0, false
	}

	features := []float64{club.Lat, club.Lon, float64(club.SizeBucket.Ordinal())}
	label, err := m.Predict(features)
	if err != nil {
		family := Family(club.SizeBucket)
		once, _ := r.mismatches.LoadOrStore(family, &sync.Once{})
		once.(*sync.Once).Do(func() {
			r.logger.Warn(ctx, "cluster model incompatible with feature vector; scoring degrades",
				logger.String("family", family),
				logger.Error(err))
		})
		return 0, false
	}
	return label, true
}

// AssignPoint maps raw coordinates and a bucket to a cluster label.
// Used at ingest time to precompute company cluster preferences.
func (r *Registry) AssignPoint(ctx context.Context, lat, lon float64, bucket model.SizeBucket) (int, bool) {
	return r.Assign(ctx, model.Club{Lat: lat, Lon: lon, SizeBucket: bucket})
}
