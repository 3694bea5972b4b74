// Package feature derives pairwise club/company features for scoring.
package feature

import (
	"math"
	"strings"

	"github.com/goldengoal/sponsormatch/internal/domain/model"
)

// neutralAffinity is used for industries absent from the affinity table.
const neutralAffinity = 0.5

// Vector holds the per-pair features consumed by the scorer.
// Every field except DistanceKM is clamped to [0,1].
type Vector struct {
	// DistanceKM is the exact great-circle distance, kept raw for
	// ranking tie-breaks and result payloads.
	DistanceKM float64

	// Distance is the inverted proximity feature: 1 at the club,
	// 0 at or beyond the search radius.
	Distance float64

	SizeMatch        float64
	ClusterMatch     float64
	IndustryAffinity float64
}

// Builder computes feature vectors. Construct once and share; it is
// read-only after construction.
type Builder struct {
	affinity        map[string]float64
	defaultAffinity float64
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithAffinityTable sets the industry affinity lookup table. Keys are
// lower-cased; values are clamped to [0,1].
func WithAffinityTable(table map[string]float64) Option {
	return func(b *Builder) {
		if len(table) == 0 {
			return
		}
		b.affinity = make(map[string]float64, len(table))
		for industry, score := range table {
			b.affinity[strings.ToLower(strings.TrimSpace(industry))] = clamp01(score)
		}
	}
}

// WithDefaultAffinity sets the score for industries missing from the table.
func WithDefaultAffinity(score float64) Option {
	return func(b *Builder) {
		b.defaultAffinity = clamp01(score)
	}
}

// NewBuilder creates a Builder with the default sponsorship affinity table.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		affinity:        DefaultAffinityTable(),
		defaultAffinity: neutralAffinity,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// DefaultAffinityTable reflects how well common industries align with
// sports sponsorship.
func DefaultAffinityTable() map[string]float64 {
	return map[string]float64{
		"retail":     0.8,
		"finance":    0.7,
		"technology": 0.6,
		"education":  0.6,
		"energy":     0.5,
	}
}

// Build produces the feature vector for one (club, company) pair.
// clubCluster/clubClusterOK carry the assigner's result; ok=false means
// the no-cluster sentinel and always yields ClusterMatch 0.
func (b *Builder) Build(company model.Company, clubCluster int, clubClusterOK bool, distanceKM, maxDistanceKM float64, clubBucket model.SizeBucket) Vector {
	v := Vector{DistanceKM: distanceKM}

	if maxDistanceKM > 0 {
		v.Distance = clamp01(1 - math.Min(distanceKM/maxDistanceKM, 1))
	}

	v.SizeMatch = clamp01(SizeMatch(clubBucket, company.SizeBucket))

	if clubClusterOK && company.PreferredCluster != nil && *company.PreferredCluster == clubCluster {
		v.ClusterMatch = 1
	}

	v.IndustryAffinity = clamp01(b.industryAffinity(company.Industry))

	return v
}

// SizeMatch scores size-bucket compatibility: exact match 1.0, adjacent
// buckets 0.5, two apart 0.0. Monotonically decreasing in ordinal distance.
func SizeMatch(a, b model.SizeBucket) float64 {
	switch gap := a.Ordinal() - b.Ordinal(); {
	case gap == 0:
		return 1.0
	case gap == 1 || gap == -1:
		return 0.5
	default:
		return 0.0
	}
}

func (b *Builder) industryAffinity(industry string) float64 {
	key := strings.ToLower(strings.TrimSpace(industry))
	if key == "" {
		return b.defaultAffinity
	}
	if score, ok := b.affinity[key]; ok {
		return score
	}
	return b.defaultAffinity
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(1, x))
}
