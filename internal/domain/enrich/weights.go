package enrich

import "github.com/okian/shortlist/internal/domain/model"

// Assessment document weights.
const (
	NameWeight        = 10
	TechnologyWeight  = 20
	LeadershipWeight  = 10
	BankingWeight     = 8
	CodeWeight        = 15
	ExpansionWeight   = 5
	DescriptionWeight = 3
	DurationWeight    = 1
	BucketWeight      = 2
)

// Query document weights.
const (
	QueryTextWeight       = 3
	QueryTechnologyWeight = 10
	QuerySkillWeight      = 8
	QueryCategoryWeight   = 5
)

// Duration bucket bounds in minutes.
const (
	quickMaxMinutes    = 30
	standardMaxMinutes = 45
)

var (
	nameTechnologies = map[string]struct{}{
		"java": {}, "python": {}, "sql": {}, "javascript": {}, "selenium": {},
		"html": {}, "css": {}, "c++": {}, "excel": {}, "tableau": {},
		"aws": {}, "azure": {}, "react": {}, "angular": {}, "node": {},
	}

	leadershipCues  = []string{"leadership", "executive", "coo", "manager", "opq"}
	leadershipTerms = []string{"leadership", "executive", "senior", "management", "strategy"}

	bankingCues  = []string{"bank", "financial", "admin", "clerk"}
	bankingTerms = []string{"banking", "financial", "administrative", "clerical"}

	quickTerms    = []string{"quick", "short"}
	standardTerms = []string{"standard", "medium"}
)

// codeExpansion returns the keywords a test type code stands for.
func codeExpansion(t model.TestType) []string {
	switch t {
	case model.TestTypeKnowledge:
		return []string{"technical", "knowledge", "skills", "programming", "coding", "development"}
	case model.TestTypePersonality:
		return []string{"personality", "behavioral", "collaboration", "communication", "interpersonal", "teamwork"}
	case model.TestTypeCompetency:
		return []string{"cognitive", "reasoning", "analytical", "problem solving", "numerical", "verbal"}
	case model.TestTypeAbility:
		return []string{"ability", "aptitude", "skills"}
	case model.TestTypeDevelopment:
		return []string{"development", "360", "feedback"}
	case model.TestTypeSimulation:
		return []string{"simulation", "practical"}
	case model.TestTypeBiodata, model.TestTypeExercise, model.TestTypeGeneral:
		return nil
	default:
		return nil
	}
}

// queryExpansion returns the keywords injected into a query that requires t.
func queryExpansion(t model.TestType) []string {
	switch t {
	case model.TestTypePersonality:
		return []string{"personality", "behavioral", "collaboration", "communication"}
	case model.TestTypeKnowledge:
		return []string{"technical", "knowledge", "skills", "programming"}
	case model.TestTypeAbility, model.TestTypeBiodata, model.TestTypeCompetency,
		model.TestTypeDevelopment, model.TestTypeExercise, model.TestTypeSimulation,
		model.TestTypeGeneral:
		return nil
	default:
		return nil
	}
}
