package types_test

import (
	"testing"

	"github.com/goccy/go-json"
	types "github.com/okian/shortlist/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecommendation(t *testing.T) {
	Convey("Given a Recommendation", t, func() {
		Convey("When the duration is unknown", func() {
			rec := types.Recommendation{
				Name:     "Java 8 (New)",
				URL:      "https://www.shl.com/solutions/products/product-catalog/view/java-8-new/",
				TestType: []string{"K"},
				Score:    0.42,
			}
			raw, err := json.Marshal(rec)

			Convey("Then duration should encode as null", func() {
				So(err, ShouldBeNil)
				So(string(raw), ShouldContainSubstring, `"duration":null`)
				So(string(raw), ShouldContainSubstring, `"test_type":["K"]`)
			})
		})

		Convey("When the duration is set", func() {
			d := 18
			rec := types.Recommendation{Name: "Verify", Duration: &d}
			raw, err := json.Marshal(rec)

			Convey("Then it should encode the minutes", func() {
				So(err, ShouldBeNil)
				So(string(raw), ShouldContainSubstring, `"duration":18`)
				So(string(raw), ShouldContainSubstring, `"adaptive_support":false`)
			})
		})
	})
}
