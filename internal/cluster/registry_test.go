package cluster_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goldengoal/sponsormatch/internal/cluster"
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

func TestFamily(t *testing.T) {
	Convey("Given the bucket-to-family mapping", t, func() {
		So(cluster.Family(model.SizeSmall), ShouldEqual, cluster.FamilyDefault)
		So(cluster.Family(model.SizeMedium), ShouldEqual, cluster.FamilyDefault)
		So(cluster.Family(model.SizeLarge), ShouldEqual, cluster.FamilyLarge)
	})
}

func TestRegistryAssign(t *testing.T) {
	ctx := context.Background()

	Convey("Given a registry with a default model", t, func() {
		m, err := cluster.NewKMeans([][]float64{
			{57.7, 11.9, 0},
			{59.3, 18.0, 1},
		})
		So(err, ShouldBeNil)

		reg := cluster.NewRegistry(ctx, "", cluster.WithModel(cluster.FamilyDefault, m))

		Convey("When assigning a medium club near Gothenburg", func() {
			label, ok := reg.Assign(ctx, model.Club{
				Lat: 57.71, Lon: 11.95, SizeBucket: model.SizeMedium,
			})

			Convey("Then it gets the Gothenburg cluster", func() {
				So(ok, ShouldBeTrue)
				So(label, ShouldEqual, 0)
			})
		})

		Convey("When assigning a large club", func() {
			_, ok := reg.Assign(ctx, model.Club{
				Lat: 57.71, Lon: 11.95, SizeBucket: model.SizeLarge,
			})

			Convey("Then the missing large model yields the no-cluster sentinel", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a registry whose artifact has the wrong dimensionality", t, func() {
		m, err := cluster.NewKMeans([][]float64{{57.7, 11.9}}) // 2-dim artifact
		So(err, ShouldBeNil)
		reg := cluster.NewRegistry(ctx, "", cluster.WithModel(cluster.FamilyDefault, m))

		Convey("When assigning a club", func() {
			_, ok := reg.Assign(ctx, model.Club{Lat: 57.7, Lon: 11.9, SizeBucket: model.SizeSmall})

			Convey("Then the incompatible model degrades to no cluster", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a models directory on disk", t, func() {
		dir := t.TempDir()
		m, err := cluster.NewKMeans([][]float64{{57.7, 11.9, 0}, {59.3, 18.0, 2}})
		So(err, ShouldBeNil)
		So(m.Save(filepath.Join(dir, "kmeans_default.gob")), ShouldBeNil)

		Convey("When constructing a registry from it", func() {
			reg := cluster.NewRegistry(ctx, dir)

			Convey("Then the default family loads and the large family degrades", func() {
				_, ok := reg.ModelFor(model.SizeSmall)
				So(ok, ShouldBeTrue)
				_, ok = reg.ModelFor(model.SizeLarge)
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given an empty models directory path", t, func() {
		reg := cluster.NewRegistry(ctx, "")

		Convey("Then every assignment is the no-cluster sentinel", func() {
			_, ok := reg.Assign(ctx, model.Club{Lat: 1, Lon: 1, SizeBucket: model.SizeSmall})
			So(ok, ShouldBeFalse)
		})
	})
}
