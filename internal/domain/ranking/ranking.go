// Package ranking orders scored candidates and labels match quality.
package ranking

import (
	"sort"

	"github.com/goldengoal/sponsormatch/internal/domain/model"
)

// Match quality labels, derived from the final score.
const (
	QualityExcellent = "Excellent Match"
	QualityGood      = "Good Match"
	QualityFair      = "Fair Match"
	QualityPossible  = "Possible Match"
)

// Scored pairs a candidate company with its computed score and exact
// distance, ready for ordering.
type Scored struct {
	Company    model.Company
	DistanceKM float64
	Score      float64
}

// Quality maps a score in [0,1] to a human-readable match band.
func Quality(score float64) string {
	switch {
	case score >= 0.8:
		return QualityExcellent
	case score >= 0.6:
		return QualityGood
	case score >= 0.4:
		return QualityFair
	default:
		return QualityPossible
	}
}

// Rank sorts candidates by descending score, breaking ties by ascending
// distance and then company ID for determinism, and returns the top n as
// recommendations with 1-based ranks. n <= 0 yields an empty slice. The
// input slice is not modified.
func Rank(candidates []Scored, n int) []model.Recommendation {
	if n <= 0 || len(candidates) == 0 {
		return []model.Recommendation{}
	}

	ordered := make([]Scored, len(candidates))
	copy(ordered, candidates)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score > ordered[j].Score
		}
		if ordered[i].DistanceKM != ordered[j].DistanceKM {
			return ordered[i].DistanceKM < ordered[j].DistanceKM
		}
		return ordered[i].Company.ID < ordered[j].Company.ID
	})

	if n > len(ordered) {
		n = len(ordered)
	}

	out := make([]model.Recommendation, 0, n)
	for i, c := range ordered[:n] {
		out = append(out, model.Recommendation{
			CompanyID:  c.Company.ID,
			Name:       c.Company.Name,
			Lat:        c.Company.Lat,
			Lon:        c.Company.Lon,
			DistanceKM: c.DistanceKM,
			Score:      c.Score,
			Rank:       i + 1,
			Quality:    Quality(c.Score),
		})
	}
	return out
}
