// Package pca provides the optional PCA pre-projection applied to the input
// points before pairwise distances are computed. Reducing very wide inputs
// (hundreds of dimensions) to ~50 components first is the conventional t-SNE
// preprocessing step and makes the O(n^2 d) distance pass much cheaper.
package pca

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/tsnego/dense"
	"github.com/hupe1980/tsnego/internal/floats"
)

// Reduce projects the rows of x (n x d) onto their top dims principal
// components, returning an (n x dims) matrix. The projection is computed via
// thin SVD of the column-centered data; the right singular vectors are the
// components.
func Reduce[F floats.Float](x *dense.Dense[F], dims int) (*dense.Dense[F], error) {
	n, d := x.Dims()

	if dims <= 0 || dims > d {
		return nil, fmt.Errorf("pca: target dimension must be in [1, %d], got %d", d, dims)
	}

	if dims > n {
		return nil, fmt.Errorf("pca: need at least %d points for %d components, got %d", dims, dims, n)
	}

	// Column means.
	mean := make([]float64, d)
	for i := 0; i < n; i++ {
		row := x.Row(i)
		for j := 0; j < d; j++ {
			mean[j] += float64(row[j])
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}

	// Centered data matrix.
	centered := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		row := x.Row(i)
		for j := 0; j < d; j++ {
			centered.Set(i, j, float64(row[j])-mean[j])
		}
	}

	// X = U * S * V^T; the columns of V are the principal components.
	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return nil, fmt.Errorf("pca: SVD factorization failed")
	}

	var v mat.Dense
	svd.VTo(&v)

	vr, _ := v.Dims()
	components := v.Slice(0, vr, 0, dims)

	var projected mat.Dense
	projected.Mul(centered, components)

	out, err := dense.New[F](n, dims, nil)
	if err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		row := out.Row(i)
		for j := 0; j < dims; j++ {
			row[j] = F(projected.At(i, j))
		}
	}

	return out, nil
}
