package model_test

import (
	"testing"

	model "github.com/okian/appprofiles/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestRecord(t *testing.T) {
	convey.Convey("Given a record", t, func() {
		r := model.Record{"Instagram", "SOCIAL", "4.5"}

		convey.Convey("When reading columns in range", func() {
			convey.Convey("Then it should return the values", func() {
				convey.So(r.Field(0), convey.ShouldEqual, "Instagram")
				convey.So(r.Field(2), convey.ShouldEqual, "4.5")
			})
		})

		convey.Convey("When reading columns out of range", func() {
			convey.Convey("Then it should return an empty string", func() {
				convey.So(r.Field(3), convey.ShouldEqual, "")
				convey.So(r.Field(-1), convey.ShouldEqual, "")
			})
		})
	})
}

func TestDatasetFilter(t *testing.T) {
	convey.Convey("Given a dataset", t, func() {
		ds := model.Dataset{
			Name:   model.GooglePlay,
			Header: []string{"App", "Price"},
			Records: []model.Record{
				{"a", "0"},
				{"b", "1"},
				{"c", "0"},
			},
		}

		convey.Convey("When filtering records", func() {
			out := ds.Filter(func(r model.Record) bool { return r.Field(1) == "0" })

			convey.Convey("Then matching records are kept in order", func() {
				convey.So(out.Len(), convey.ShouldEqual, 2)
				convey.So(out.Records[0].Field(0), convey.ShouldEqual, "a")
				convey.So(out.Records[1].Field(0), convey.ShouldEqual, "c")
				convey.So(out.Name, convey.ShouldEqual, model.GooglePlay)
				convey.So(out.Header, convey.ShouldResemble, ds.Header)
			})

			convey.Convey("And the input is left untouched", func() {
				convey.So(ds.Len(), convey.ShouldEqual, 3)
			})
		})
	})
}

func TestSchemas(t *testing.T) {
	convey.Convey("Given the built-in schemas", t, func() {
		convey.Convey("Then every semantic column fits inside the arity", func() {
			for _, s := range []model.Schema{model.AppStoreSchema, model.GooglePlaySchema} {
				for _, idx := range []int{s.Name, s.Price, s.Category, s.Genre, s.Popularity, s.Reviews} {
					convey.So(idx, convey.ShouldBeLessThan, s.Arity)
				}
			}
		})

		convey.Convey("Then only Google Play carries a review count", func() {
			convey.So(model.AppStoreSchema.Reviews, convey.ShouldBeLessThan, 0)
			convey.So(model.GooglePlaySchema.Reviews, convey.ShouldEqual, 3)
		})
	})
}
