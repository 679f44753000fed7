package pca

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tsnego/dense"
	"github.com/hupe1980/tsnego/distance"
)

func TestReduce_BadDims(t *testing.T) {
	x, err := dense.New[float64](4, 3, nil)
	require.NoError(t, err)

	_, err = Reduce(x, 0)
	assert.Error(t, err)

	_, err = Reduce(x, 4)
	assert.Error(t, err)
}

func TestReduce_Shape(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	const n, d = 10, 6

	data := make([]float64, n*d)
	for i := range data {
		data[i] = rng.NormFloat64()
	}

	x, err := dense.New(n, d, data)
	require.NoError(t, err)

	y, err := Reduce(x, 3)
	require.NoError(t, err)

	rows, cols := y.Dims()
	assert.Equal(t, n, rows)
	assert.Equal(t, 3, cols)
}

func TestReduce_RecoversPlanarData(t *testing.T) {
	// Points living on a 2D plane embedded in 5D: projecting to 2 components
	// must preserve all pairwise distances.
	rng := rand.New(rand.NewSource(2))

	const n = 15

	x, err := dense.New[float64](n, 5, nil)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		a, b := rng.NormFloat64(), rng.NormFloat64()
		// Plane spanned by two fixed orthogonal directions.
		x.Row(i)[0] = a
		x.Row(i)[2] = b
		x.Row(i)[4] = 3 // constant offset, removed by centering
	}

	y, err := Reduce(x, 2)
	require.NoError(t, err)

	dx, err := distance.SquaredMatrix(x)
	require.NoError(t, err)

	dy, err := distance.SquaredMatrix(y)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.InDelta(t, float64(dx.At(i, j)), float64(dy.At(i, j)), 1e-9)
		}
	}
}

func TestReduce_CenteredOutput(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	const n, d = 12, 4

	data := make([]float64, n*d)
	for i := range data {
		data[i] = rng.Float64()*10 + 100
	}

	x, err := dense.New(n, d, data)
	require.NoError(t, err)

	y, err := Reduce(x, 2)
	require.NoError(t, err)

	// Projection of centered data has zero column means.
	for j := 0; j < 2; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += y.At(i, j)
		}
		assert.InDelta(t, 0.0, sum/float64(n), 1e-9)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < 2; j++ {
			assert.False(t, math.IsNaN(y.At(i, j)))
		}
	}
}
