package model

import (
	"strings"
)

// TestType is a catalog category code. The set is closed.
type TestType string

// Known test type codes.
const (
	TestTypeAbility     TestType = "A" // ability & aptitude
	TestTypeBiodata     TestType = "B" // biodata & situational judgement
	TestTypeCompetency  TestType = "C" // competencies / cognitive
	TestTypeDevelopment TestType = "D" // development & 360
	TestTypeExercise    TestType = "E" // assessment exercises
	TestTypeKnowledge   TestType = "K" // knowledge & skills
	TestTypePersonality TestType = "P" // personality & behaviour
	TestTypeSimulation  TestType = "S" // simulations
	TestTypeGeneral     TestType = "General"
)

// AllTestTypes lists every code in a fixed order. Callers iterate over it
// when they need deterministic output from a set of codes.
var AllTestTypes = []TestType{
	TestTypeKnowledge,
	TestTypePersonality,
	TestTypeCompetency,
	TestTypeAbility,
	TestTypeBiodata,
	TestTypeDevelopment,
	TestTypeExercise,
	TestTypeSimulation,
	TestTypeGeneral,
}

// labelCodes maps the human-readable labels found in raw catalog exports to codes.
// Order matters: the first keyword contained in a label wins.
var labelCodes = []struct {
	keyword string
	code    TestType
}{
	{"technical", TestTypeKnowledge},
	{"knowledge", TestTypeKnowledge},
	{"skills", TestTypeKnowledge},
	{"cognitive", TestTypeCompetency},
	{"competenc", TestTypeCompetency},
	{"ability", TestTypeAbility},
	{"aptitude", TestTypeAbility},
	{"personality", TestTypePersonality},
	{"behavior", TestTypePersonality},
	{"behaviour", TestTypePersonality},
	{"development", TestTypeDevelopment},
	{"exercise", TestTypeExercise},
	{"simulation", TestTypeSimulation},
	{"biodata", TestTypeBiodata},
	{"situational", TestTypeBiodata},
}

// ParseTestType resolves a code or label to a TestType.
// The second return value is false for anything outside the closed set.
func ParseTestType(raw string) (TestType, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	if strings.EqualFold(s, string(TestTypeGeneral)) {
		return TestTypeGeneral, true
	}
	switch TestType(strings.ToUpper(s)) {
	case TestTypeAbility:
		return TestTypeAbility, true
	case TestTypeBiodata:
		return TestTypeBiodata, true
	case TestTypeCompetency:
		return TestTypeCompetency, true
	case TestTypeDevelopment:
		return TestTypeDevelopment, true
	case TestTypeExercise:
		return TestTypeExercise, true
	case TestTypeKnowledge:
		return TestTypeKnowledge, true
	case TestTypePersonality:
		return TestTypePersonality, true
	case TestTypeSimulation:
		return TestTypeSimulation, true
	}

	lower := strings.ToLower(s)
	for _, lc := range labelCodes {
		if strings.Contains(lower, lc.keyword) {
			return lc.code, true
		}
	}
	return "", false
}

// String implements fmt.Stringer.
func (t TestType) String() string { return string(t) }

// TestTypeSet is a small set of codes.
type TestTypeSet map[TestType]struct{}

// NewTestTypeSet builds a set from codes.
func NewTestTypeSet(codes ...TestType) TestTypeSet {
	s := make(TestTypeSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Add inserts a code.
func (s TestTypeSet) Add(t TestType) { s[t] = struct{}{} }

// Has reports membership.
func (s TestTypeSet) Has(t TestType) bool {
	_, ok := s[t]
	return ok
}

// Len returns the number of codes in the set.
func (s TestTypeSet) Len() int { return len(s) }

// Sorted returns the codes in AllTestTypes order.
func (s TestTypeSet) Sorted() []TestType {
	out := make([]TestType, 0, len(s))
	for _, t := range AllTestTypes {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}
