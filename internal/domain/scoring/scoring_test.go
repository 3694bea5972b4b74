package scoring_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/goldengoal/sponsormatch/internal/domain/feature"
	"github.com/goldengoal/sponsormatch/internal/domain/scoring"
	"github.com/goldengoal/sponsormatch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestWeights(t *testing.T) {
	Convey("Given the default weights", t, func() {
		w := scoring.DefaultWeights()

		Convey("Then they sum to one and validate", func() {
			So(w.Sum(), ShouldAlmostEqual, 1.0, 1e-9)
			So(w.Validate(), ShouldBeNil)
		})
	})

	Convey("Given malformed weights", t, func() {
		Convey("Then a negative weight is rejected", func() {
			w := scoring.Weights{Distance: -0.1, SizeMatch: 0.5}
			So(errors.Is(w.Validate(), scoring.ErrNegativeWeight), ShouldBeTrue)
		})

		Convey("Then an all-zero set is rejected", func() {
			So(errors.Is(scoring.Weights{}.Validate(), scoring.ErrZeroWeights), ShouldBeTrue)
		})
	})
}

func TestScore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a scorer with default weights", t, func() {
		s, err := scoring.NewScorer()
		So(err, ShouldBeNil)

		Convey("When all features are perfect", func() {
			score := s.Score(ctx, feature.Vector{
				Distance: 1, SizeMatch: 1, ClusterMatch: 1, IndustryAffinity: 1,
			})
			So(score, ShouldAlmostEqual, 1.0, 1e-9)
		})

		Convey("When all features are zero", func() {
			So(s.Score(ctx, feature.Vector{}), ShouldEqual, 0.0)
		})

		Convey("When features are mixed", func() {
			// 0.4*1 + 0.3*0.5 + 0.2*0 + 0.1*0.8 = 0.63
			score := s.Score(ctx, feature.Vector{
				Distance: 1, SizeMatch: 0.5, ClusterMatch: 0, IndustryAffinity: 0.8,
			})
			So(score, ShouldAlmostEqual, 0.63, 1e-9)
		})

		Convey("When a feature escapes [0,1]", func() {
			score := s.Score(ctx, feature.Vector{
				Distance: 2.5, SizeMatch: -1, ClusterMatch: 1, IndustryAffinity: 0.5,
			})

			Convey("Then the score is still inside [0,1]", func() {
				So(score, ShouldBeBetweenOrEqual, 0, 1)
				// clamped to 1, 0, 1, 0.5 -> 0.4+0+0.2+0.05
				So(score, ShouldAlmostEqual, 0.65, 1e-9)
			})
		})
	})

	Convey("Given non-normalized custom weights", t, func() {
		s, err := scoring.NewScorer(scoring.WithWeights(scoring.Weights{
			Distance: 2, SizeMatch: 2,
		}))
		So(err, ShouldBeNil)

		Convey("Then the scorer normalizes by the weight sum", func() {
			score := s.Score(ctx, feature.Vector{Distance: 1, SizeMatch: 0})
			So(score, ShouldAlmostEqual, 0.5, 1e-9)
		})
	})

	Convey("Given invalid custom weights", t, func() {
		_, err := scoring.NewScorer(scoring.WithWeights(scoring.Weights{Distance: -1}))
		So(err, ShouldNotBeNil)
	})
}
