package geo_test

import (
	"errors"
	"testing"

	"github.com/goldengoal/sponsormatch/internal/domain/geo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDistance(t *testing.T) {
	Convey("Given two valid coordinates", t, func() {
		gothenburg := geo.Coordinate{Lat: 57.7089, Lon: 11.9746}
		majorna := geo.Coordinate{Lat: 57.6969, Lon: 11.9789}

		Convey("Then distance is symmetric", func() {
			d1, err1 := geo.Distance(gothenburg, majorna)
			d2, err2 := geo.Distance(majorna, gothenburg)
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)
			So(d1, ShouldAlmostEqual, d2, 1e-9)
		})

		Convey("Then distance to itself is zero", func() {
			d, err := geo.Distance(gothenburg, gothenburg)
			So(err, ShouldBeNil)
			So(d, ShouldAlmostEqual, 0, 1e-9)
		})

		Convey("Then nearby Gothenburg points are roughly 1.3 km apart", func() {
			d, err := geo.Distance(gothenburg, majorna)
			So(err, ShouldBeNil)
			So(d, ShouldBeGreaterThan, 1.0)
			So(d, ShouldBeLessThan, 1.7)
		})

		Convey("Then one degree of latitude is roughly 111 km", func() {
			a := geo.Coordinate{Lat: 0, Lon: 0}
			b := geo.Coordinate{Lat: 1, Lon: 0}
			d, err := geo.Distance(a, b)
			So(err, ShouldBeNil)
			So(d, ShouldBeBetween, 110, 112)
		})
	})

	Convey("Given invalid coordinates", t, func() {
		valid := geo.Coordinate{Lat: 10, Lon: 20}

		Convey("When latitude is out of range", func() {
			_, err := geo.Distance(geo.Coordinate{Lat: 91, Lon: 0}, valid)
			So(errors.Is(err, geo.ErrInvalidCoordinate), ShouldBeTrue)
		})

		Convey("When longitude is out of range", func() {
			_, err := geo.Distance(valid, geo.Coordinate{Lat: 0, Lon: -181})
			So(errors.Is(err, geo.ErrInvalidCoordinate), ShouldBeTrue)
		})
	})
}

func TestBoxAround(t *testing.T) {
	Convey("Given a club location and a search radius", t, func() {
		center := geo.Coordinate{Lat: 57.7089, Lon: 11.9746}

		Convey("When building a 15 km box", func() {
			box, err := geo.BoxAround(center, 15)
			So(err, ShouldBeNil)

			Convey("Then the center is inside", func() {
				So(box.Contains(center), ShouldBeTrue)
			})

			Convey("Then a company 1.3 km away is inside", func() {
				So(box.Contains(geo.Coordinate{Lat: 57.6969, Lon: 11.9789}), ShouldBeTrue)
			})

			Convey("Then a company 100 km away is outside", func() {
				So(box.Contains(geo.Coordinate{Lat: 58.6, Lon: 11.97}), ShouldBeFalse)
			})

			Convey("Then every point within the radius stays inside the box", func() {
				// The buffer makes the box permissive; probe the cardinal edges.
				probes := []geo.Coordinate{
					{Lat: center.Lat + 15.0/111.0, Lon: center.Lon},
					{Lat: center.Lat - 15.0/111.0, Lon: center.Lon},
				}
				for _, p := range probes {
					d, derr := geo.Distance(center, p)
					So(derr, ShouldBeNil)
					So(d, ShouldBeLessThanOrEqualTo, 15.1)
					So(box.Contains(p), ShouldBeTrue)
				}
			})
		})

		Convey("When the center is near a pole", func() {
			box, err := geo.BoxAround(geo.Coordinate{Lat: 89.9, Lon: 0}, 50)
			So(err, ShouldBeNil)

			Convey("Then the box covers the full longitude range", func() {
				So(box.MinLon, ShouldEqual, -180)
				So(box.MaxLon, ShouldEqual, 180)
				So(box.MaxLat, ShouldEqual, 90)
			})
		})

		Convey("When the radius is negative", func() {
			_, err := geo.BoxAround(center, -1)
			So(errors.Is(err, geo.ErrInvalidCoordinate), ShouldBeTrue)
		})
	})
}
