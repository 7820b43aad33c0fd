package vectorspace

import "math"

// Vector is a sparse vector with strictly increasing indices.
type Vector struct {
	Index []int
	Value []float64
}

// Len returns the number of non-zero entries.
func (v Vector) Len() int { return len(v.Index) }

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	var s float64
	for _, x := range v.Value {
		s += x * x
	}
	return math.Sqrt(s)
}

// Dot returns the inner product of a and b.
func Dot(a, b Vector) float64 {
	var s float64
	i, j := 0, 0
	for i < len(a.Index) && j < len(b.Index) {
		switch {
		case a.Index[i] == b.Index[j]:
			s += a.Value[i] * b.Value[j]
			i++
			j++
		case a.Index[i] < b.Index[j]:
			i++
		default:
			j++
		}
	}
	return s
}

// Cosine returns the cosine similarity of a and b, or 0 if either is empty.
// Vectors produced by a Space are unit length, so this equals Dot.
func Cosine(a, b Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}
