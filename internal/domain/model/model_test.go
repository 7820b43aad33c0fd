package model_test

import (
	"testing"

	model "github.com/okian/shortlist/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestParseTestType(t *testing.T) {
	convey.Convey("Given raw test type values", t, func() {
		convey.Convey("When parsing single-letter codes", func() {
			convey.Convey("Then every code in the closed set should resolve", func() {
				for _, code := range []string{"A", "B", "C", "D", "E", "K", "P", "S"} {
					tt, ok := model.ParseTestType(code)
					convey.So(ok, convey.ShouldBeTrue)
					convey.So(string(tt), convey.ShouldEqual, code)
				}
			})

			convey.Convey("And lower-case codes should resolve too", func() {
				tt, ok := model.ParseTestType(" k ")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(tt, convey.ShouldEqual, model.TestTypeKnowledge)
			})
		})

		convey.Convey("When parsing human-readable labels", func() {
			cases := map[string]model.TestType{
				"Knowledge & Skills":     model.TestTypeKnowledge,
				"Personality & Behavior": model.TestTypePersonality,
				"Ability & Aptitude":     model.TestTypeAbility,
				"Simulations":            model.TestTypeSimulation,
				"Biodata & Situational":  model.TestTypeBiodata,
				"Development & 360":      model.TestTypeDevelopment,
				"Assessment Exercises":   model.TestTypeExercise,
				"general":                model.TestTypeGeneral,
			}

			convey.Convey("Then each should map to its code", func() {
				for label, want := range cases {
					tt, ok := model.ParseTestType(label)
					convey.So(ok, convey.ShouldBeTrue)
					convey.So(tt, convey.ShouldEqual, want)
				}
			})
		})

		convey.Convey("When parsing unknown values", func() {
			_, okEmpty := model.ParseTestType("")
			_, okX := model.ParseTestType("X")

			convey.Convey("Then they should be rejected", func() {
				convey.So(okEmpty, convey.ShouldBeFalse)
				convey.So(okX, convey.ShouldBeFalse)
			})
		})
	})
}

func TestTestTypeSet(t *testing.T) {
	convey.Convey("Given a set of codes added out of order", t, func() {
		s := model.NewTestTypeSet(model.TestTypeCompetency, model.TestTypeKnowledge)
		s.Add(model.TestTypePersonality)

		convey.Convey("Then Sorted should follow the fixed priority order", func() {
			convey.So(s.Len(), convey.ShouldEqual, 3)
			convey.So(s.Sorted(), convey.ShouldResemble, []model.TestType{
				model.TestTypeKnowledge, model.TestTypePersonality, model.TestTypeCompetency,
			})
			convey.So(s.Has(model.TestTypeAbility), convey.ShouldBeFalse)
		})
	})
}

func TestAssessment_HasType(t *testing.T) {
	convey.Convey("Given an assessment with two codes", t, func() {
		a := &model.Assessment{TestTypes: []model.TestType{model.TestTypeKnowledge, model.TestTypeSimulation}}

		convey.Convey("Then HasType should reflect them", func() {
			convey.So(a.HasType(model.TestTypeSimulation), convey.ShouldBeTrue)
			convey.So(a.HasType(model.TestTypePersonality), convey.ShouldBeFalse)
		})
	})
}
