// Package query extracts intent signals from free-text hiring queries.
package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/shortlist/internal/domain/model"
)

// Features are the signals Extract finds in a query.
type Features struct {
	Technologies       []string
	Skills             []string
	SoftSkillsRequired bool
	RequiredCategories model.TestTypeSet
	DurationMax        *int
}

// Requires reports whether category t was detected.
func (f Features) Requires(t model.TestType) bool {
	return f.RequiredCategories.Has(t)
}

// NeedsBalancing reports whether results should be spread across categories.
func (f Features) NeedsBalancing() bool {
	return f.RequiredCategories.Len() > 1 || f.SoftSkillsRequired
}

type technology struct {
	name    string
	pattern *regexp.Regexp
	reject  func(rest string) bool
}

// Detection order is fixed; Technologies follows it.
var technologies = []technology{
	{name: "java", pattern: regexp.MustCompile(`\bjava\b`), reject: func(rest string) bool {
		return strings.HasPrefix(strings.TrimLeft(rest, " \t\r\n"), "script")
	}},
	{name: "javascript", pattern: regexp.MustCompile(`\bjavascript|java\s*script|\bjs\b`)},
	{name: "python", pattern: regexp.MustCompile(`\bpython\b`)},
	{name: "sql", pattern: regexp.MustCompile(`\bsql\b`)},
	{name: "selenium", pattern: regexp.MustCompile(`\bselenium\b`)},
	{name: "excel", pattern: regexp.MustCompile(`\bexcel\b`)},
	{name: "html", pattern: regexp.MustCompile(`\bhtml\b`)},
	{name: "css", pattern: regexp.MustCompile(`\bcss\b`)},
}

var (
	softSkillCues = []string{
		"collaborate", "collaboration", "collaborative",
		"communicate", "communication", "interpersonal",
		"team", "teamwork", "stakeholder", "business teams",
		"work with", "interact with", "personality", "behavioral",
		"soft skills", "people skills",
	}
	technicalCues  = []string{"technical", "coding", "programming", "developer", "engineer"}
	analyticalCues = []string{"cognitive", "analytical", "reasoning", "analyst"}

	softSkillTerms = []string{"collaboration", "communication"}

	durationPattern = regexp.MustCompile(`(\d+)\s*(?:min|minute)`)
)

// Extract derives Features from q. It never fails; a query without cues
// yields empty features.
func Extract(q string) Features {
	lower := strings.ToLower(q)
	f := Features{RequiredCategories: model.NewTestTypeSet()}

	for _, t := range technologies {
		if t.matches(lower) {
			f.Technologies = append(f.Technologies, t.name)
		}
	}

	if containsAny(lower, softSkillCues) {
		f.SoftSkillsRequired = true
		f.RequiredCategories.Add(model.TestTypePersonality)
		f.Skills = append(f.Skills, softSkillTerms...)
	}
	if containsAny(lower, technicalCues) {
		f.RequiredCategories.Add(model.TestTypeKnowledge)
	}
	if containsAny(lower, analyticalCues) {
		f.RequiredCategories.Add(model.TestTypeCompetency)
	}

	if m := durationPattern.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			f.DurationMax = &n
		}
	}
	return f
}

func (t technology) matches(s string) bool {
	if t.reject == nil {
		return t.pattern.MatchString(s)
	}
	for _, loc := range t.pattern.FindAllStringIndex(s, -1) {
		if !t.reject(s[loc[1]:]) {
			return true
		}
	}
	return false
}

func containsAny(s string, cues []string) bool {
	for _, c := range cues {
		if strings.Contains(s, c) {
			return true
		}
	}
	return false
}
