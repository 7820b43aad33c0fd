package vectorspace

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\b[a-zA-Z][a-zA-Z+#.]*\b`)

// Fragment is a piece of text counted Weight times.
type Fragment struct {
	Text   string
	Weight int
}

// WeightedDoc is a document expressed as weighted fragments. N-grams never
// span two fragments.
type WeightedDoc []Fragment

// Add appends text with weight. Blank text and non-positive weights are ignored.
func (d *WeightedDoc) Add(text string, weight int) {
	if weight <= 0 || strings.TrimSpace(text) == "" {
		return
	}
	*d = append(*d, Fragment{Text: text, Weight: weight})
}

// AddAll appends each term with the same weight.
func (d *WeightedDoc) AddAll(terms []string, weight int) {
	for _, t := range terms {
		d.Add(t, weight)
	}
}

// Tokenize lower-cases text and splits it into word tokens.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// counts returns the weighted raw term counts of d.
func (d WeightedDoc) counts(minN, maxN int) map[string]int {
	out := make(map[string]int)
	for _, f := range d {
		toks := Tokenize(f.Text)
		for n := minN; n <= maxN; n++ {
			for i := 0; i+n <= len(toks); i++ {
				out[strings.Join(toks[i:i+n], " ")] += f.Weight
			}
		}
	}
	return out
}
