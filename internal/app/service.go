// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goldengoal/sponsormatch/internal/adapters/repository"
	"github.com/goldengoal/sponsormatch/internal/domain/candidate"
	"github.com/goldengoal/sponsormatch/internal/domain/feature"
	"github.com/goldengoal/sponsormatch/internal/domain/model"
	"github.com/goldengoal/sponsormatch/internal/domain/ranking"
	"github.com/goldengoal/sponsormatch/internal/domain/scoring"
	"github.com/goldengoal/sponsormatch/pkg/logger"
	"github.com/goldengoal/sponsormatch/pkg/metrics"
)

// Assigner maps a club to a cluster label. The boolean is the no-cluster
// sentinel; false is a normal degraded outcome, never an error.
// Satisfied by the cluster registry.
type Assigner interface {
	Assign(ctx context.Context, club model.Club) (int, bool)
}

// Request carries one recommendation query.
type Request struct {
	ClubID int64

	// SizeBucket optionally overrides the club's stored size bucket.
	SizeBucket string

	// MaxDistanceKM limits the search radius. Zero means the configured default.
	MaxDistanceKM float64

	// TopN limits the result size. Zero means the configured default.
	TopN int
}

// Result is the response of one recommendation query.
type Result struct {
	RequestID       string                 `json:"request_id"`
	ClubID          int64                  `json:"club_id"`
	ClubName        string                 `json:"club_name"`
	MaxDistanceKM   float64                `json:"max_distance_km"`
	ClusterDegraded bool                   `json:"cluster_degraded"`
	Recommendations []model.Recommendation `json:"recommendations"`
}

// Service runs the sponsor matching pipeline. Safe for concurrent use;
// all dependencies are read-only after Start.
type Service struct {
	store    repository.Store
	assigner Assigner
	filter   *candidate.Filter
	builder  *feature.Builder
	scorer   *scoring.Scorer

	defaultMaxDistanceKM float64
	defaultTopN          int
	maxTopN              int
	maxSearchLimit       int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithAssigner sets the cluster assigner.
func WithAssigner(a Assigner) Option {
	return func(s *Service) {
		s.assigner = a
	}
}

// WithBuilder sets the feature builder.
func WithBuilder(b *feature.Builder) Option {
	return func(s *Service) {
		if b != nil {
			s.builder = b
		}
	}
}

// WithScorer sets the scorer.
func WithScorer(sc *scoring.Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithDefaultMaxDistanceKM sets the search radius used when a request
// omits max_distance_km.
func WithDefaultMaxDistanceKM(km float64) Option {
	return func(s *Service) {
		if km > 0 {
			s.defaultMaxDistanceKM = km
		}
	}
}

// WithTopNBounds sets the default and maximum result sizes.
func WithTopNBounds(def, max int) Option {
	return func(s *Service) {
		if def > 0 {
			s.defaultTopN = def
		}
		if max > 0 {
			s.maxTopN = max
		}
	}
}

// WithMaxSearchLimit caps club name search results.
func WithMaxSearchLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxSearchLimit = limit
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a Service over the given store. The scorer defaults to
// DefaultWeights; pass WithScorer to override.
func New(store repository.Store, opts ...Option) (*Service, error) {
	defaultScorer, err := scoring.NewScorer()
	if err != nil {
		return nil, err
	}

	s := &Service{
		store:                store,
		builder:              feature.NewBuilder(),
		scorer:               defaultScorer,
		defaultMaxDistanceKM: 15,
		defaultTopN:          10,
		maxTopN:              100,
		maxSearchLimit:       50,
		logger:               logger.Get().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.filter = candidate.NewFilter(store)
	return s, nil
}

// Recommend runs the full pipeline: load club, assign cluster, filter
// candidates, build features, score and rank. An empty recommendation
// list is a normal outcome.
func (s *Service) Recommend(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	requestID := uuid.NewString()

	club, maxDistanceKM, topN, err := s.prepare(ctx, req)
	if err != nil {
		return Result{}, err
	}

	label, clustered := 0, false
	if s.assigner != nil {
		label, clustered = s.assigner.Assign(ctx, club)
	}
	if !clustered {
		metrics.RecordClusterFallback()
	}

	matches, err := s.filter.Candidates(ctx, club, maxDistanceKM)
	if err != nil {
		return Result{}, err
	}
	metrics.ObserveCandidateCount(len(matches))

	scored := make([]ranking.Scored, 0, len(matches))
	for _, m := range matches {
		v := s.builder.Build(m.Company, label, clustered, m.DistanceKM, maxDistanceKM, club.SizeBucket)
		scored = append(scored, ranking.Scored{
			Company:    m.Company,
			DistanceKM: m.DistanceKM,
			Score:      s.scorer.Score(ctx, v),
		})
	}

	recommendations := ranking.Rank(scored, topN)
	if len(recommendations) == 0 {
		metrics.RecordEmptyResult()
	}
	metrics.RecordRecommendation(float64(time.Since(start).Milliseconds()))

	s.logger.Info(ctx, "recommendation served",
		logger.String("request_id", requestID),
		logger.Int64("club_id", club.ID),
		logger.Float64("max_distance_km", maxDistanceKM),
		logger.Int("candidates", len(matches)),
		logger.Int("results", len(recommendations)),
		logger.Bool("cluster_degraded", !clustered))

	return Result{
		RequestID:       requestID,
		ClubID:          club.ID,
		ClubName:        club.Name,
		MaxDistanceKM:   maxDistanceKM,
		ClusterDegraded: !clustered,
		Recommendations: recommendations,
	}, nil
}

// prepare validates the request and resolves the club plus effective limits.
func (s *Service) prepare(ctx context.Context, req Request) (model.Club, float64, int, error) {
	if req.ClubID <= 0 {
		return model.Club{}, 0, 0, fmt.Errorf("club_id %d must be positive: %w", req.ClubID, ErrValidation)
	}

	maxDistanceKM := req.MaxDistanceKM
	switch {
	case maxDistanceKM == 0:
		maxDistanceKM = s.defaultMaxDistanceKM
	case maxDistanceKM < 0:
		return model.Club{}, 0, 0, fmt.Errorf("max_distance_km %v must be positive: %w", maxDistanceKM, ErrValidation)
	}

	topN := req.TopN
	switch {
	case topN == 0:
		topN = s.defaultTopN
	case topN < 0:
		return model.Club{}, 0, 0, fmt.Errorf("top_n %d must be positive: %w", topN, ErrValidation)
	case topN > s.maxTopN:
		return model.Club{}, 0, 0, fmt.Errorf("top_n %d exceeds limit %d: %w", topN, s.maxTopN, ErrValidation)
	}

	club, err := s.store.GetClub(ctx, req.ClubID)
	if err != nil {
		return model.Club{}, 0, 0, err
	}

	if req.SizeBucket != "" {
		bucket, err := model.ParseSizeBucket(req.SizeBucket)
		if err != nil {
			return model.Club{}, 0, 0, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		club.SizeBucket = bucket
	}

	return club, maxDistanceKM, topN, nil
}

// GetClub returns a club by ID.
func (s *Service) GetClub(ctx context.Context, id int64) (model.Club, error) {
	return s.store.GetClub(ctx, id)
}

// SearchClubs returns clubs matching a name fragment.
func (s *Service) SearchClubs(ctx context.Context, query string, limit int) ([]model.Club, error) {
	if limit <= 0 || limit > s.maxSearchLimit {
		limit = s.maxSearchLimit
	}
	return s.store.SearchClubs(ctx, query, limit)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"clubs":                   s.store.CountClubs(ctx),
		"companies":               s.store.CountCompanies(ctx),
		"default_max_distance_km": s.defaultMaxDistanceKM,
		"default_top_n":           s.defaultTopN,
		"max_top_n":               s.maxTopN,
		"weights":                 s.scorer.Weights(),
	}
}
