package balance_test

import (
	"fmt"
	"testing"

	"github.com/okian/shortlist/internal/domain/balance"
	"github.com/okian/shortlist/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func cand(key string, score float64, types ...model.TestType) model.Candidate {
	return model.Candidate{
		Assessment: &model.Assessment{Key: key, Name: key, URL: key, TestTypes: types},
		Score:      score,
	}
}

// ranked builds n candidates of the given types with descending scores from start.
func ranked(prefix string, n int, start float64, types ...model.TestType) []model.Candidate {
	out := make([]model.Candidate, n)
	for i := range out {
		out[i] = cand(fmt.Sprintf("%s%d", prefix, i+1), start-float64(i)*0.01, types...)
	}
	return out
}

func keys(cs []model.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Assessment.Key
	}
	return out
}

func count(cs []model.Candidate, t model.TestType) int {
	n := 0
	for _, c := range cs {
		if c.Assessment.HasType(t) {
			n++
		}
	}
	return n
}

func TestPrimary(t *testing.T) {
	Convey("Given candidates with several codes", t, func() {
		Convey("Then the bucket follows K > P > C > A > other", func() {
			So(balance.Primary(&model.Assessment{TestTypes: []model.TestType{model.TestTypePersonality, model.TestTypeKnowledge}}), ShouldEqual, model.TestTypeKnowledge)
			So(balance.Primary(&model.Assessment{TestTypes: []model.TestType{model.TestTypeAbility, model.TestTypeCompetency}}), ShouldEqual, model.TestTypeCompetency)
			So(balance.Primary(&model.Assessment{TestTypes: []model.TestType{model.TestTypeSimulation, model.TestTypeAbility}}), ShouldEqual, model.TestTypeAbility)
			So(balance.Primary(&model.Assessment{TestTypes: []model.TestType{model.TestTypeSimulation}}), ShouldEqual, model.TestType(""))
		})
	})
}

func TestBalance(t *testing.T) {
	Convey("Given a single required category without soft skills", t, func() {
		cands := append(ranked("k", 5, 0.9, model.TestTypeKnowledge), ranked("p", 5, 0.5, model.TestTypePersonality)...)
		out := balance.Balance(cands, model.NewTestTypeSet(model.TestTypeKnowledge), false, 3)

		Convey("Then the top candidates are returned unchanged", func() {
			So(keys(out), ShouldResemble, []string{"k1", "k2", "k3"})
		})
	})

	Convey("Given technical candidates outscoring personality ones", t, func() {
		cands := append(ranked("k", 8, 0.9, model.TestTypeKnowledge), ranked("p", 4, 0.3, model.TestTypePersonality)...)
		required := model.NewTestTypeSet(model.TestTypeKnowledge, model.TestTypePersonality)

		Convey("When soft skills are required", func() {
			out := balance.Balance(cands, required, true, 10)

			Convey("Then up to three personality slots are reserved first", func() {
				So(out, ShouldHaveLength, 10)
				So(keys(out)[:3], ShouldResemble, []string{"p1", "p2", "p3"})
				So(count(out, model.TestTypePersonality), ShouldEqual, 3)
				So(count(out, model.TestTypeKnowledge), ShouldEqual, 7)
			})
		})

		Convey("When soft skills are not flagged", func() {
			out := balance.Balance(cands, required, false, 6)

			Convey("Then each category gets its slot budget", func() {
				So(keys(out), ShouldResemble, []string{"k1", "k2", "k3", "p1", "p2", "p3"})
			})
		})

		Convey("When topK is too small for a reservation", func() {
			out := balance.Balance(cands, required, true, 2)

			Convey("Then personality is still represented", func() {
				So(out, ShouldHaveLength, 2)
				So(count(out, model.TestTypePersonality), ShouldBeGreaterThanOrEqualTo, 1)
				So(count(out, model.TestTypeKnowledge), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})
	})

	Convey("Given a required category only present as a secondary code", t, func() {
		cands := append(ranked("k", 5, 0.9, model.TestTypeKnowledge),
			cand("kc", 0.1, model.TestTypeKnowledge, model.TestTypeCompetency))
		required := model.NewTestTypeSet(model.TestTypeKnowledge, model.TestTypeCompetency)
		out := balance.Balance(cands, required, false, 4)

		Convey("Then the lowest ranked replaceable entry makes room for it", func() {
			So(keys(out), ShouldResemble, []string{"k1", "k2", "k3", "kc"})
		})
	})

	Convey("Given duplicate candidates", t, func() {
		a := cand("dup", 0.9, model.TestTypePersonality)
		cands := []model.Candidate{a, a, cand("k1", 0.8, model.TestTypeKnowledge), cand("p2", 0.7, model.TestTypePersonality)}
		out := balance.Balance(cands, model.NewTestTypeSet(model.TestTypeKnowledge, model.TestTypePersonality), true, 10)

		Convey("Then each URL appears once", func() {
			So(keys(out), ShouldHaveLength, 3)
			seen := map[string]bool{}
			for _, k := range keys(out) {
				So(seen[k], ShouldBeFalse)
				seen[k] = true
			}
		})
	})

	Convey("Given a non-positive topK", t, func() {
		out := balance.Balance(ranked("k", 3, 0.9, model.TestTypeKnowledge), model.NewTestTypeSet(), false, 0)
		So(out, ShouldBeEmpty)
	})
}

func TestBalanceCompleteness(t *testing.T) {
	Convey("Given every combination of two or three required categories", t, func() {
		cats := []model.TestType{model.TestTypeKnowledge, model.TestTypePersonality, model.TestTypeCompetency, model.TestTypeAbility}
		var cands []model.Candidate
		for i, c := range cats {
			cands = append(cands, ranked(string(c), 6, 0.9-float64(i)*0.2, c)...)
		}

		Convey("Then each required category present in the pool is represented", func() {
			for i := range cats {
				for j := i + 1; j < len(cats); j++ {
					for _, soft := range []bool{false, true} {
						required := model.NewTestTypeSet(cats[i], cats[j])
						out := balance.Balance(cands, required, soft, 10)
						So(count(out, cats[i]), ShouldBeGreaterThanOrEqualTo, 1)
						So(count(out, cats[j]), ShouldBeGreaterThanOrEqualTo, 1)

						for k := j + 1; k < len(cats); k++ {
							required3 := model.NewTestTypeSet(cats[i], cats[j], cats[k])
							out3 := balance.Balance(cands, required3, soft, 5)
							for _, c := range required3.Sorted() {
								So(count(out3, c), ShouldBeGreaterThanOrEqualTo, 1)
							}
						}
					}
				}
			}
		})
	})
}

func TestBalanceSmallTopKWithSoftSkills(t *testing.T) {
	Convey("Given personality candidates outscoring competency ones", t, func() {
		cands := append(ranked("p", 3, 0.9, model.TestTypePersonality), ranked("c", 3, 0.5, model.TestTypeCompetency)...)
		required := model.NewTestTypeSet(model.TestTypePersonality, model.TestTypeCompetency)

		Convey("When soft skills are required but topK leaves no room to reserve P", func() {
			out := balance.Balance(cands, required, true, 2)

			Convey("Then P does not take a category quota and is only swapped in for coverage", func() {
				So(keys(out), ShouldResemble, []string{"c1", "p1"})
			})
		})

		Convey("When soft skills are not required", func() {
			out := balance.Balance(cands, required, false, 2)

			Convey("Then P takes its quota first and C is swapped in for coverage", func() {
				So(keys(out), ShouldResemble, []string{"p1", "c1"})
			})
		})
	})
}
