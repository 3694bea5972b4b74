package service_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/goldengoal/sponsormatch/internal/adapters/repository"
	service "github.com/goldengoal/sponsormatch/internal/app"
	"github.com/goldengoal/sponsormatch/internal/domain/model"
	"github.com/goldengoal/sponsormatch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fixedAssigner struct {
	label int
	ok    bool
}

func (a fixedAssigner) Assign(_ context.Context, _ model.Club) (int, bool) {
	return a.label, a.ok
}

func intPtr(v int) *int { return &v }

func TestRecommendEndToEnd(t *testing.T) {
	ctx := context.Background()

	Convey("Given a club and a single sponsor one tenth of a degree away", t, func() {
		store := repository.NewMemoryStore(
			repository.WithClubs(model.Club{
				ID: 1, Name: "Test Club", Lat: 10.0, Lon: 20.0, SizeBucket: model.SizeSmall,
			}),
			repository.WithCompanies(model.Company{
				ID: 100, OrgNr: "556000-0100", Name: "Test Sponsor",
				Lat: 10.1, Lon: 20.1, SizeBucket: model.SizeSmall, Industry: "Retail",
			}),
		)
		svc, err := service.New(store)
		So(err, ShouldBeNil)

		Convey("When recommending within 50 km, top 1", func() {
			res, err := svc.Recommend(ctx, service.Request{
				ClubID: 1, MaxDistanceKM: 50, TopN: 1,
			})
			So(err, ShouldBeNil)

			Convey("Then exactly one scored recommendation comes back", func() {
				So(res.Recommendations, ShouldHaveLength, 1)
				rec := res.Recommendations[0]
				So(rec.Name, ShouldEqual, "Test Sponsor")
				So(rec.DistanceKM, ShouldBeBetween, 13, 17)
				So(rec.Score, ShouldBeGreaterThan, 0)
				So(rec.Score, ShouldBeLessThanOrEqualTo, 1)
				So(rec.Rank, ShouldEqual, 1)
				So(res.RequestID, ShouldNotBeEmpty)
				So(res.ClubName, ShouldEqual, "Test Club")
			})
		})
	})
}

func TestRecommendPipeline(t *testing.T) {
	ctx := context.Background()

	club := model.Club{ID: 1, Name: "Göteborg IF", Lat: 57.7089, Lon: 11.9746, SizeBucket: model.SizeMedium}
	store := repository.NewMemoryStore(
		repository.WithClubs(club),
		repository.WithCompanies(
			model.Company{
				ID: 10, OrgNr: "556000-0010", Name: "Perfect Fit AB",
				Lat: 57.7089, Lon: 11.9800, SizeBucket: model.SizeMedium,
				Industry: "Retail", PreferredCluster: intPtr(7),
			},
			model.Company{
				ID: 11, OrgNr: "556000-0011", Name: "Distant Giant AB",
				Lat: 57.80, Lon: 12.10, SizeBucket: model.SizeLarge,
				Industry: "Energy",
			},
			model.Company{
				ID: 12, OrgNr: "556000-0012", Name: "Stockholm AB",
				Lat: 59.3293, Lon: 18.0686, SizeBucket: model.SizeMedium,
				Industry: "Finance",
			},
		),
	)

	Convey("Given a service with a healthy cluster assigner", t, func() {
		svc, err := service.New(store, service.WithAssigner(fixedAssigner{label: 7, ok: true}))
		So(err, ShouldBeNil)

		Convey("When recommending within 15 km", func() {
			res, err := svc.Recommend(ctx, service.Request{ClubID: 1, MaxDistanceKM: 15, TopN: 10})
			So(err, ShouldBeNil)

			Convey("Then only in-range companies are ranked, best first", func() {
				So(res.Recommendations, ShouldHaveLength, 2)
				So(res.Recommendations[0].Name, ShouldEqual, "Perfect Fit AB")
				So(res.Recommendations[0].Score, ShouldBeGreaterThan, res.Recommendations[1].Score)
				So(res.ClusterDegraded, ShouldBeFalse)

				Convey("And scores stay in [0,1] with ranks sequential", func() {
					for i, r := range res.Recommendations {
						So(r.Score, ShouldBeBetweenOrEqual, 0, 1)
						So(r.Rank, ShouldEqual, i+1)
					}
				})
			})
		})

		Convey("When the size bucket is overridden to large", func() {
			res, err := svc.Recommend(ctx, service.Request{
				ClubID: 1, SizeBucket: "large", MaxDistanceKM: 15, TopN: 10,
			})
			So(err, ShouldBeNil)

			Convey("Then the large company's size score improves its standing", func() {
				So(res.Recommendations, ShouldHaveLength, 2)
				// Perfect Fit is medium (adjacent), Distant Giant is large (exact).
				names := []string{res.Recommendations[0].Name, res.Recommendations[1].Name}
				So(names, ShouldContain, "Distant Giant AB")
			})
		})
	})

	Convey("Given a service with no cluster models", t, func() {
		svc, err := service.New(store, service.WithAssigner(fixedAssigner{ok: false}))
		So(err, ShouldBeNil)

		Convey("When recommending", func() {
			res, err := svc.Recommend(ctx, service.Request{ClubID: 1, MaxDistanceKM: 15, TopN: 10})

			Convey("Then matching degrades instead of failing", func() {
				So(err, ShouldBeNil)
				So(res.ClusterDegraded, ShouldBeTrue)
				So(res.Recommendations, ShouldHaveLength, 2)
				for _, r := range res.Recommendations {
					So(r.Score, ShouldBeGreaterThan, 0)
				}
			})
		})
	})

	Convey("Given a club with no sponsors nearby", t, func() {
		remote := model.Club{ID: 2, Name: "Kiruna SK", Lat: 67.8558, Lon: 20.2253, SizeBucket: model.SizeSmall}
		store := repository.NewMemoryStore(repository.WithClubs(remote))
		svc, err := service.New(store)
		So(err, ShouldBeNil)

		Convey("Then an empty result is returned without error", func() {
			res, err := svc.Recommend(ctx, service.Request{ClubID: 2, MaxDistanceKM: 15, TopN: 5})
			So(err, ShouldBeNil)
			So(res.Recommendations, ShouldBeEmpty)
		})
	})
}

func TestRecommendValidation(t *testing.T) {
	ctx := context.Background()

	store := repository.NewMemoryStore(repository.WithClubs(
		model.Club{ID: 1, Name: "Göteborg IF", Lat: 57.7089, Lon: 11.9746, SizeBucket: model.SizeMedium},
	))
	svc, err := service.New(store, service.WithTopNBounds(10, 50))
	if err != nil {
		t.Fatal(err)
	}

	Convey("Given a running service", t, func() {
		Convey("Then a non-positive club id is rejected", func() {
			_, err := svc.Recommend(ctx, service.Request{ClubID: 0})
			So(errors.Is(err, service.ErrValidation), ShouldBeTrue)
		})

		Convey("Then an unknown club id yields not found", func() {
			_, err := svc.Recommend(ctx, service.Request{ClubID: 999})
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("Then a negative radius is rejected", func() {
			_, err := svc.Recommend(ctx, service.Request{ClubID: 1, MaxDistanceKM: -5})
			So(errors.Is(err, service.ErrValidation), ShouldBeTrue)
		})

		Convey("Then top_n above the cap is rejected", func() {
			_, err := svc.Recommend(ctx, service.Request{ClubID: 1, TopN: 51})
			So(errors.Is(err, service.ErrValidation), ShouldBeTrue)
		})

		Convey("Then a bogus size bucket override is rejected", func() {
			_, err := svc.Recommend(ctx, service.Request{ClubID: 1, SizeBucket: "gigantic"})
			So(errors.Is(err, service.ErrValidation), ShouldBeTrue)
		})

		Convey("Then omitted limits fall back to defaults", func() {
			res, err := svc.Recommend(ctx, service.Request{ClubID: 1})
			So(err, ShouldBeNil)
			So(res.MaxDistanceKM, ShouldEqual, 15)
		})
	})
}

func TestServiceQueries(t *testing.T) {
	ctx := context.Background()

	Convey("Given a seeded service", t, func() {
		store := repository.NewMemoryStore(
			repository.WithClubs(
				model.Club{ID: 1, Name: "Göteborg IF", Lat: 57.70, Lon: 11.97, SizeBucket: model.SizeMedium},
				model.Club{ID: 2, Name: "Angered BK", Lat: 57.79, Lon: 12.05, SizeBucket: model.SizeSmall},
			),
			repository.WithCompanies(
				model.Company{ID: 10, OrgNr: "556000-0010", Name: "Inner AB", Lat: 57.70, Lon: 11.97, SizeBucket: model.SizeMedium},
			),
		)
		svc, err := service.New(store)
		So(err, ShouldBeNil)

		Convey("Then GetClub resolves by id", func() {
			club, err := svc.GetClub(ctx, 2)
			So(err, ShouldBeNil)
			So(club.Name, ShouldEqual, "Angered BK")
		})

		Convey("Then SearchClubs matches by fragment", func() {
			clubs, err := svc.SearchClubs(ctx, "göteborg", 10)
			So(err, ShouldBeNil)
			So(clubs, ShouldHaveLength, 1)
		})

		Convey("Then GetStats reports registry sizes", func() {
			stats := svc.GetStats(ctx)
			So(stats["clubs"], ShouldEqual, 2)
			So(stats["companies"], ShouldEqual, 1)
		})
	})
}
