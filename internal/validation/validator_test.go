package validation_test

import (
	"errors"
	"testing"

	"github.com/okian/shortlist/internal/validation"
	. "github.com/smartystreets/goconvey/convey"
)

type sample struct {
	Query string `json:"query" validate:"required,notblank"`
	TopK  int    `json:"top_k" validate:"min=1,max=10"`
	Note  string
}

func TestStruct(t *testing.T) {
	Convey("Given the shared validator", t, func() {
		Convey("When the struct is valid", func() {
			err := validation.Struct(sample{Query: "java developer", TopK: 5})

			Convey("Then no error should be returned", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When several rules fail", func() {
			err := validation.Struct(sample{Query: "   ", TopK: 11})

			Convey("Then every failure should be reported by json name", func() {
				So(err, ShouldNotBeNil)
				var verr *validation.Error
				So(errors.As(err, &verr), ShouldBeTrue)
				So(verr.Fields, ShouldHaveLength, 2)
				So(verr.Fields[0].Field, ShouldEqual, "query")
				So(verr.Fields[0].Tag, ShouldEqual, "notblank")
				So(err.Error(), ShouldContainSubstring, "top_k must be at most 10")
			})
		})

		Convey("When a required field is missing", func() {
			err := validation.Struct(sample{TopK: 1})

			Convey("Then the message should name it", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldEqual, "query is required")
			})
		})
	})
}
