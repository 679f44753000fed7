// Package floats provides the scalar kernels shared by the distance,
// perplexity and optimizer code. All reductions accumulate in float64
// regardless of the element type, so float32 embeddings do not lose
// precision inside long sums.
package floats

import "math"

// Float is the element type constraint for all matrices in this module.
type Float interface {
	~float32 | ~float64
}

// Dot calculates the dot product of two vectors.
//
// SAFETY: This function assumes len(a) == len(b).
// It does NOT perform bounds checks for performance reasons.
// Callers MUST ensure lengths match.
func Dot[F Float](a, b []F) float64 {
	var ret float64
	for i := range a {
		ret += float64(a[i]) * float64(b[i])
	}

	return ret
}

// SquaredL2 calculates the squared L2 distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2[F Float](a, b []F) float64 {
	var distance float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		distance += d * d
	}

	return distance
}

// Sum returns the sum of all elements of a.
func Sum[F Float](a []F) float64 {
	var ret float64
	for i := range a {
		ret += float64(a[i])
	}

	return ret
}

// Mean returns the arithmetic mean of a, or 0 for an empty slice.
func Mean[F Float](a []F) float64 {
	if len(a) == 0 {
		return 0
	}

	return Sum(a) / float64(len(a))
}

// ScaleInPlace multiplies all elements of a by scalar.
func ScaleInPlace[F Float](a []F, scalar F) {
	for i := range a {
		a[i] *= scalar
	}
}

// Fill sets every element of a to v.
func Fill[F Float](a []F, v F) {
	for i := range a {
		a[i] = v
	}
}

// IsFinite reports whether every element of a is finite (no NaN, no Inf).
func IsFinite[F Float](a []F) bool {
	for i := range a {
		if math.IsNaN(float64(a[i])) || math.IsInf(float64(a[i]), 0) {
			return false
		}
	}

	return true
}
