// Package candidate narrows the company universe to sponsors within
// reach of a club.
package candidate

import (
	"context"
	"fmt"

	"github.com/goldengoal/sponsormatch/internal/domain/geo"
	"github.com/goldengoal/sponsormatch/internal/domain/model"
	"github.com/goldengoal/sponsormatch/pkg/logger"
)

// Source supplies companies inside a bounding box. Satisfied by the
// repository stores.
type Source interface {
	FindCompanies(ctx context.Context, box geo.BoundingBox) ([]model.Company, error)
}

// Match is a candidate company with its exact distance to the club.
type Match struct {
	Company    model.Company
	DistanceKM float64
}

// Filter performs the two-stage candidate search: a cheap bounding-box
// pre-filter at the source, then an exact great-circle cut.
type Filter struct {
	source Source
	logger logger.Logger
}

// Option applies a configuration option to the Filter.
type Option func(*Filter)

// WithLogger sets a custom logger for the filter.
func WithLogger(log logger.Logger) Option {
	return func(f *Filter) {
		if log != nil {
			f.logger = log
		}
	}
}

// NewFilter creates a Filter over the given source.
func NewFilter(source Source, opts ...Option) *Filter {
	f := &Filter{
		source: source,
		logger: logger.Get().Named("candidate"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Candidates returns every company within maxDistanceKM of the club,
// with exact distances attached. An empty result is a normal outcome,
// not an error. Companies with unusable coordinates are skipped and
// logged rather than failing the whole search.
func (f *Filter) Candidates(ctx context.Context, club model.Club, maxDistanceKM float64) ([]Match, error) {
	center := club.Coordinate()
	box, err := geo.BoxAround(center, maxDistanceKM)
	if err != nil {
		return nil, fmt.Errorf("candidate search for club %d: %w", club.ID, err)
	}

	companies, err := f.source.FindCompanies(ctx, box)
	if err != nil {
		return nil, fmt.Errorf("candidate search for club %d: %w", club.ID, err)
	}

	matches := make([]Match, 0, len(companies))
	for _, c := range companies {
		d, err := geo.Distance(center, c.Coordinate())
		if err != nil {
			f.logger.Warn(ctx, "skipping company with unusable coordinates",
				logger.Int64("company_id", c.ID),
				logger.Error(err))
			continue
		}
		if d > maxDistanceKM {
			continue
		}
		matches = append(matches, Match{Company: c, DistanceKM: d})
	}

	f.logger.Debug(ctx, "candidate search complete",
		logger.Int64("club_id", club.ID),
		logger.Int("in_box", len(companies)),
		logger.Int("in_range", len(matches)))

	return matches, nil
}
