package distance

import (
	"github.com/hupe1980/tsnego/dense"
	"github.com/hupe1980/tsnego/internal/floats"
)

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot[F floats.Float](a, b []F) float64 {
	return floats.Dot(a, b)
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2[F floats.Float](a, b []F) float64 {
	return floats.SquaredL2(a, b)
}

// SquaredMatrix returns the (n x n) matrix of pairwise squared Euclidean
// distances between the rows of x (n x d).
//
// It uses the identity ||xi - xj||^2 = ||xi||^2 + ||xj||^2 - 2*xi.xj:
// squared norms are precomputed once, the Gram matrix supplies the cross
// terms, and only the upper triangle is combined explicitly. The diagonal is
// exactly zero and the lower triangle is filled by symmetry.
func SquaredMatrix[F floats.Float](x *dense.Dense[F]) (*dense.Dense[F], error) {
	n, _ := x.Dims()

	d, err := dense.New[F](n, n, nil)
	if err != nil {
		return nil, err
	}

	SquaredMatrixInto(d, x)

	return d, nil
}

// SquaredMatrixInto fills dst (n x n) with the pairwise squared distances
// between the rows of x (n x d). dst must be n x n; the optimizer reuses one
// buffer across iterations through this entry point.
//
// SAFETY: shapes are not re-validated here.
func SquaredMatrixInto[F floats.Float](dst, x *dense.Dense[F]) {
	n, _ := x.Dims()

	norms := make([]float64, n)
	for i := 0; i < n; i++ {
		row := x.Row(i)
		norms[i] = floats.Dot(row, row)
	}

	for i := 0; i < n; i++ {
		dst.Set(i, i, 0)

		xi := x.Row(i)
		for j := i + 1; j < n; j++ {
			v := norms[i] + norms[j] - 2*floats.Dot(xi, x.Row(j))
			if v < 0 {
				// Cancellation can push tiny distances below zero.
				v = 0
			}

			dst.Set(i, j, F(v))
			dst.Set(j, i, F(v))
		}
	}
}
