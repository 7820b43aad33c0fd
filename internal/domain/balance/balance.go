// Package balance spreads a ranked candidate list across required test
// categories so one dominant category cannot crowd out the others.
package balance

import (
	"github.com/okian/shortlist/internal/domain/model"
)

const (
	maxPersonalityReserve = 3
	minSlotsPerCategory   = 2
)

// bucketOther collects candidates without K, P, C or A.
const bucketOther model.TestType = ""

// Primary returns the bucket of a: the first of K, P, C, A it carries, or
// the empty code for anything else.
func Primary(a *model.Assessment) model.TestType {
	for _, t := range []model.TestType{
		model.TestTypeKnowledge,
		model.TestTypePersonality,
		model.TestTypeCompetency,
		model.TestTypeAbility,
	} {
		if a.HasType(t) {
			return t
		}
	}
	return bucketOther
}

// Balance returns at most topK candidates from cands (sorted by score,
// descending). With at most one required category and no soft skills it
// returns the top topK unchanged.
func Balance(cands []model.Candidate, required model.TestTypeSet, soft bool, topK int) []model.Candidate {
	if topK <= 0 {
		return nil
	}
	if required.Len() <= 1 && !soft {
		return head(cands, topK)
	}

	buckets := make(map[model.TestType][]model.Candidate)
	for _, c := range cands {
		p := Primary(c.Assessment)
		buckets[p] = append(buckets[p], c)
	}

	s := &selection{used: make(map[string]struct{}, topK), limit: topK}

	// A soft-skill query that requires P has its P share settled by the
	// reservation, even when topK is too small to reserve anything.
	reservesP := soft && required.Has(model.TestTypePersonality)
	if reservesP {
		n := min(maxPersonalityReserve, len(buckets[model.TestTypePersonality]), topK/3)
		s.take(buckets[model.TestTypePersonality], n)
	}

	remaining := topK - len(s.out)
	slots := max(minSlotsPerCategory, remaining/max(1, required.Len()))
	for _, cat := range required.Sorted() {
		if cat == model.TestTypePersonality && reservesP {
			continue
		}
		s.take(buckets[cat], slots)
	}

	s.take(cands, topK)
	s.ensureRepresented(cands, required)
	return s.out
}

type selection struct {
	out   []model.Candidate
	used  map[string]struct{}
	limit int
}

// take appends up to n unused candidates from src while room remains and
// returns how many it added.
func (s *selection) take(src []model.Candidate, n int) int {
	added := 0
	for _, c := range src {
		if added >= n || len(s.out) >= s.limit {
			break
		}
		if _, dup := s.used[c.Assessment.Key]; dup {
			continue
		}
		s.out = append(s.out, c)
		s.used[c.Assessment.Key] = struct{}{}
		added++
	}
	return added
}

// ensureRepresented swaps in the best candidate carrying each required
// category that is missing from the selection. The replaced entry is the
// lowest ranked one whose removal leaves every other required category
// covered. Candidates are matched by any of their codes, not only the
// primary bucket.
func (s *selection) ensureRepresented(cands []model.Candidate, required model.TestTypeSet) {
	for _, cat := range required.Sorted() {
		if s.covers(cat) {
			continue
		}
		var pick *model.Candidate
		for i := range cands {
			if _, dup := s.used[cands[i].Assessment.Key]; !dup && cands[i].Assessment.HasType(cat) {
				pick = &cands[i]
				break
			}
		}
		if pick == nil {
			continue
		}
		if len(s.out) < s.limit {
			s.out = append(s.out, *pick)
			s.used[pick.Assessment.Key] = struct{}{}
			continue
		}
		for i := len(s.out) - 1; i >= 0; i-- {
			if s.soleCover(i, required) {
				continue
			}
			delete(s.used, s.out[i].Assessment.Key)
			s.out[i] = *pick
			s.used[pick.Assessment.Key] = struct{}{}
			break
		}
	}
}

func (s *selection) covers(cat model.TestType) bool {
	for _, c := range s.out {
		if c.Assessment.HasType(cat) {
			return true
		}
	}
	return false
}

// soleCover reports whether out[i] is the only selected carrier of some
// required category.
func (s *selection) soleCover(i int, required model.TestTypeSet) bool {
	for _, cat := range required.Sorted() {
		if !s.out[i].Assessment.HasType(cat) {
			continue
		}
		others := false
		for j, c := range s.out {
			if j != i && c.Assessment.HasType(cat) {
				others = true
				break
			}
		}
		if !others {
			return true
		}
	}
	return false
}

func head(cands []model.Candidate, n int) []model.Candidate {
	if len(cands) < n {
		n = len(cands)
	}
	out := make([]model.Candidate, n)
	copy(out, cands[:n])
	return out
}
