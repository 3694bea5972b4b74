// Package scoring turns feature vectors into a single match score.
package scoring

import (
	"context"
	"fmt"

	"github.com/goldengoal/sponsormatch/internal/domain/feature"
	"github.com/goldengoal/sponsormatch/pkg/logger"
	"github.com/goldengoal/sponsormatch/pkg/metrics"
)

// Weights hold the relative importance of each feature. They are
// non-negative and need not sum to one; the scorer normalizes by the sum.
type Weights struct {
	Distance         float64 `json:"distance" koanf:"distance"`
	SizeMatch        float64 `json:"size_match" koanf:"size_match"`
	ClusterMatch     float64 `json:"cluster_match" koanf:"cluster_match"`
	IndustryAffinity float64 `json:"industry_affinity" koanf:"industry_affinity"`
}

// DefaultWeights favor proximity, then size fit, then cluster and industry.
func DefaultWeights() Weights {
	return Weights{
		Distance:         0.4,
		SizeMatch:        0.3,
		ClusterMatch:     0.2,
		IndustryAffinity: 0.1,
	}
}

// Sum returns the total weight mass.
func (w Weights) Sum() float64 {
	return w.Distance + w.SizeMatch + w.ClusterMatch + w.IndustryAffinity
}

// Validate rejects negative weights and an all-zero weight set.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"distance":          w.Distance,
		"size_match":        w.SizeMatch,
		"cluster_match":     w.ClusterMatch,
		"industry_affinity": w.IndustryAffinity,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s is %v: %w", name, v, ErrNegativeWeight)
		}
	}
	if w.Sum() <= 0 {
		return ErrZeroWeights
	}
	return nil
}

// Scorer computes weighted-average match scores. Safe for concurrent use.
type Scorer struct {
	weights Weights
	logger  logger.Logger
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights overrides the default weights.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		s.weights = w
	}
}

// WithLogger sets a custom logger for the scorer.
func WithLogger(log logger.Logger) Option {
	return func(s *Scorer) {
		if log != nil {
			s.logger = log
		}
	}
}

// NewScorer creates a Scorer, validating the effective weights.
func NewScorer(opts ...Option) (*Scorer, error) {
	s := &Scorer{
		weights: DefaultWeights(),
		logger:  logger.Get().Named("scoring"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.weights.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Weights returns the weights the scorer runs with.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score returns the weighted average of the features, guaranteed in [0,1].
// A feature outside [0,1] indicates a builder bug upstream; it is clamped,
// logged and counted rather than propagated.
func (s *Scorer) Score(ctx context.Context, v feature.Vector) float64 {
	sum := s.weights.Sum()

	total := s.weights.Distance*s.bounded(ctx, "distance", v.Distance) +
		s.weights.SizeMatch*s.bounded(ctx, "size_match", v.SizeMatch) +
		s.weights.ClusterMatch*s.bounded(ctx, "cluster_match", v.ClusterMatch) +
		s.weights.IndustryAffinity*s.bounded(ctx, "industry_affinity", v.IndustryAffinity)

	return total / sum
}

func (s *Scorer) bounded(ctx context.Context, name string, f float64) float64 {
	if f >= 0 && f <= 1 {
		return f
	}
	metrics.RecordScoreClamped()
	s.logger.Warn(ctx, "feature outside [0,1], clamping",
		logger.String("feature", name),
		logger.Float64("value", f))
	if f < 0 {
		return 0
	}
	return 1
}
