// Package vectorspace fits a TF-IDF vector space over weighted documents.
//
// Terms are 1-3 word n-grams. Term frequency is sublinear (1+ln tf), inverse
// document frequency is smoothed (ln((1+n)/(1+df))+1) and every row is L2
// normalized, so cosine similarity between vectors of one Space is a dot
// product.
package vectorspace

import (
	"math"
	"sort"
)

// Space is a fitted vocabulary with one vector per training document.
// It is immutable and safe for concurrent use.
type Space struct {
	cfg   config
	vocab map[string]int
	terms []string
	idf   []float64
	rows  []Vector
}

// Fit builds a Space from docs.
func Fit(docs []WeightedDoc, opts ...Option) (*Space, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	total := make(map[string]int)
	for i, d := range docs {
		counts[i] = d.counts(cfg.minN, cfg.maxN)
		for t, c := range counts[i] {
			df[t]++
			total[t] += c
		}
	}
	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := selectTerms(df, total, len(docs), cfg)

	s := &Space{
		cfg:   cfg,
		vocab: make(map[string]int, len(terms)),
		terms: terms,
		idf:   make([]float64, len(terms)),
		rows:  make([]Vector, len(docs)),
	}
	n := float64(len(docs))
	for i, t := range terms {
		s.vocab[t] = i
		s.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	for i, c := range counts {
		s.rows[i] = s.vectorize(c)
	}
	return s, nil
}

// selectTerms applies max_df pruning and the feature cap, returning the
// kept terms in alphabetical order.
func selectTerms(df, total map[string]int, nDocs int, cfg config) []string {
	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}

	if cfg.maxDF > 0 && cfg.maxDF < 1 {
		limit := cfg.maxDF * float64(nDocs)
		kept := terms[:0:0]
		for _, t := range terms {
			if float64(df[t]) <= limit {
				kept = append(kept, t)
			}
		}
		// A corpus where every term is common (e.g. one document) keeps everything.
		if len(kept) > 0 {
			terms = kept
		}
	}

	if cfg.maxFeatures > 0 && len(terms) > cfg.maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if total[terms[i]] != total[terms[j]] {
				return total[terms[i]] > total[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:cfg.maxFeatures]
	}

	sort.Strings(terms)
	return terms
}

// vectorize turns raw counts into a unit-length TF-IDF vector.
func (s *Space) vectorize(counts map[string]int) Vector {
	idx := make([]int, 0, len(counts))
	for t := range counts {
		if i, ok := s.vocab[t]; ok {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)

	v := Vector{Index: idx, Value: make([]float64, len(idx))}
	var norm float64
	for k, i := range idx {
		w := (1 + math.Log(float64(counts[s.terms[i]]))) * s.idf[i]
		v.Value[k] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for k := range v.Value {
			v.Value[k] /= norm
		}
	}
	return v
}

// Transform vectorizes doc in this space. Unknown terms are ignored.
func (s *Space) Transform(doc WeightedDoc) Vector {
	return s.vectorize(doc.counts(s.cfg.minN, s.cfg.maxN))
}

// Row returns the vector of the i-th fitted document.
func (s *Space) Row(i int) Vector { return s.rows[i] }

// Len returns the number of fitted documents.
func (s *Space) Len() int { return len(s.rows) }

// VocabularySize returns the number of terms kept.
func (s *Space) VocabularySize() int { return len(s.terms) }

// Contains reports whether term is in the vocabulary.
func (s *Space) Contains(term string) bool {
	_, ok := s.vocab[term]
	return ok
}

// IDF returns the inverse document frequency of term and whether it is known.
func (s *Space) IDF(term string) (float64, bool) {
	i, ok := s.vocab[term]
	if !ok {
		return 0, false
	}
	return s.idf[i], true
}
