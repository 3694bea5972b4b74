package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goldengoal/sponsormatch/internal/adapters/repository"
	"github.com/goldengoal/sponsormatch/internal/domain/geo"
	"github.com/goldengoal/sponsormatch/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryStoreClubs(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store seeded with clubs", t, func() {
		store := repository.NewMemoryStore(repository.WithClubs(
			model.Club{ID: 1, Name: "Göteborg IF", Lat: 57.70, Lon: 11.97, SizeBucket: model.SizeMedium},
			model.Club{ID: 2, Name: "Angered BK", Lat: 57.79, Lon: 12.05, SizeBucket: model.SizeSmall},
			model.Club{ID: 3, Name: "Göteborgs Simsällskap", Lat: 57.69, Lon: 11.98, SizeBucket: model.SizeLarge},
		))

		Convey("When looking up a known club", func() {
			club, err := store.GetClub(ctx, 1)
			So(err, ShouldBeNil)
			So(club.Name, ShouldEqual, "Göteborg IF")
		})

		Convey("When looking up an unknown club", func() {
			_, err := store.GetClub(ctx, 99)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When searching by name fragment", func() {
			clubs, err := store.SearchClubs(ctx, "göteborg", 10)
			So(err, ShouldBeNil)
			So(clubs, ShouldHaveLength, 2)
			So(clubs[0].Name, ShouldEqual, "Göteborg IF") // ordered by name

			Convey("Then the limit truncates", func() {
				clubs, err := store.SearchClubs(ctx, "göteborg", 1)
				So(err, ShouldBeNil)
				So(clubs, ShouldHaveLength, 1)
			})
		})

		Convey("When searching with an empty query", func() {
			clubs, err := store.SearchClubs(ctx, "   ", 10)
			So(err, ShouldBeNil)
			So(clubs, ShouldBeEmpty)
		})

		Convey("When upserting a club without an ID", func() {
			err := store.UpsertClub(ctx, model.Club{
				Name: "Mölndal FF", Lat: 57.65, Lon: 12.01, SizeBucket: model.SizeSmall,
			})
			So(err, ShouldBeNil)
			So(store.CountClubs(ctx), ShouldEqual, 4)
		})

		Convey("When upserting an invalid club", func() {
			err := store.UpsertClub(ctx, model.Club{Name: "Bad", Lat: 200, Lon: 0, SizeBucket: model.SizeSmall})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestMemoryStoreCompanies(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with companies around Gothenburg", t, func() {
		store := repository.NewMemoryStore(repository.WithCompanies(
			model.Company{ID: 10, OrgNr: "556000-0001", Name: "Inner AB", Lat: 57.70, Lon: 11.97, SizeBucket: model.SizeMedium},
			model.Company{ID: 11, OrgNr: "556000-0002", Name: "Outer AB", Lat: 59.33, Lon: 18.07, SizeBucket: model.SizeLarge},
		))

		Convey("When querying a box around the city", func() {
			box, err := geo.BoxAround(geo.Coordinate{Lat: 57.7089, Lon: 11.9746}, 15)
			So(err, ShouldBeNil)

			companies, err := store.FindCompanies(ctx, box)
			So(err, ShouldBeNil)

			Convey("Then only the in-box company is returned", func() {
				So(companies, ShouldHaveLength, 1)
				So(companies[0].ID, ShouldEqual, 10)
			})
		})

		Convey("When upserting a company with a known org number", func() {
			err := store.UpsertCompany(ctx, model.Company{
				OrgNr: "556000-0001", Name: "Inner Renamed AB",
				Lat: 57.70, Lon: 11.97, SizeBucket: model.SizeMedium,
			})
			So(err, ShouldBeNil)

			Convey("Then the existing row is replaced, not duplicated", func() {
				So(store.CountCompanies(ctx), ShouldEqual, 2)
				box, _ := geo.BoxAround(geo.Coordinate{Lat: 57.7089, Lon: 11.9746}, 15)
				companies, _ := store.FindCompanies(ctx, box)
				So(companies[0].Name, ShouldEqual, "Inner Renamed AB")
			})
		})

		Convey("When upserting a company without an org number", func() {
			err := store.UpsertCompany(ctx, model.Company{
				Name: "Anonymous AB", Lat: 57.70, Lon: 11.97, SizeBucket: model.SizeSmall,
			})
			So(errors.Is(err, repository.ErrMissingOrgNr), ShouldBeTrue)
		})

		Convey("When upserting a brand new company", func() {
			err := store.UpsertCompany(ctx, model.Company{
				OrgNr: "556000-0003", Name: "Fresh AB",
				Lat: 57.71, Lon: 11.96, SizeBucket: model.SizeSmall,
			})
			So(err, ShouldBeNil)
			So(store.CountCompanies(ctx), ShouldEqual, 3)
		})
	})
}
