// Package enrich turns assessments and queries into weighted documents for
// the vector space. High-signal fields (name, technologies, category codes)
// outweigh free description text.
package enrich

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/shortlist/internal/domain/model"
	"github.com/okian/shortlist/internal/domain/query"
	"github.com/okian/shortlist/internal/domain/vectorspace"
)

var nameSplit = regexp.MustCompile(`[^a-z0-9+#]+`)

// Document builds the weighted document for a.
func Document(a *model.Assessment) vectorspace.WeightedDoc {
	var d vectorspace.WeightedDoc
	name := strings.ToLower(a.Name)

	d.Add(a.Name, NameWeight)
	for _, tech := range NameTechnologies(a.Name) {
		d.Add(tech, TechnologyWeight)
	}
	if containsAny(name, leadershipCues) {
		d.AddAll(leadershipTerms, LeadershipWeight)
	}
	if containsAny(name, bankingCues) {
		d.AddAll(bankingTerms, BankingWeight)
	}

	for _, t := range a.TestTypes {
		d.Add(string(t), CodeWeight)
		d.AddAll(codeExpansion(t), ExpansionWeight)
	}

	d.Add(a.Description, DescriptionWeight)

	if a.Duration != nil {
		minutes := *a.Duration
		d.Add("duration "+strconv.Itoa(minutes)+" minutes", DurationWeight)
		switch {
		case minutes <= quickMaxMinutes:
			d.AddAll(quickTerms, BucketWeight)
		case minutes <= standardMaxMinutes:
			d.AddAll(standardTerms, BucketWeight)
		}
	}
	return d
}

// NameTechnologies returns every technology word in name, one entry per occurrence.
func NameTechnologies(name string) []string {
	var out []string
	for _, w := range nameSplit.Split(strings.ToLower(name), -1) {
		if _, ok := nameTechnologies[w]; ok {
			out = append(out, w)
		}
	}
	return out
}

// QueryDocument builds the weighted document for a query and its features.
func QueryDocument(q string, f query.Features) vectorspace.WeightedDoc {
	var d vectorspace.WeightedDoc
	d.Add(q, QueryTextWeight)
	d.AddAll(f.Technologies, QueryTechnologyWeight)
	d.AddAll(f.Skills, QuerySkillWeight)
	for _, t := range f.RequiredCategories.Sorted() {
		d.AddAll(queryExpansion(t), QueryCategoryWeight)
	}
	return d
}

// RawDocument is the query text alone, without enrichment.
func RawDocument(q string) vectorspace.WeightedDoc {
	var d vectorspace.WeightedDoc
	d.Add(q, 1)
	return d
}

func containsAny(s string, cues []string) bool {
	for _, c := range cues {
		if strings.Contains(s, c) {
			return true
		}
	}
	return false
}
