package tsnego

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tsnego/dense"
)

func TestJointProbabilities_SumsToOne(t *testing.T) {
	// Conditional rows each summing to 1, zero diagonal.
	p, err := dense.New(3, 3, []float64{
		0, 0.7, 0.3,
		0.4, 0, 0.6,
		0.5, 0.5, 0,
	})
	require.NoError(t, err)

	jointProbabilities(p, 1e-12, 1)

	var total float64
	for _, v := range p.Data() {
		total += v
		assert.GreaterOrEqual(t, v, 1e-12)
	}

	// Diagonal entries were floored at eps, everything else is the
	// normalized joint mass.
	assert.InDelta(t, 1.0, total, 1e-9)

	// Symmetry.
	assert.Equal(t, p.At(0, 1), p.At(1, 0))
	assert.Equal(t, p.At(0, 2), p.At(2, 0))
	assert.Equal(t, p.At(1, 2), p.At(2, 1))
}

func TestJointProbabilities_Exaggeration(t *testing.T) {
	p, err := dense.New(2, 2, []float64{
		0, 1,
		1, 0,
	})
	require.NoError(t, err)

	jointProbabilities(p, 1e-12, 4)

	// Off-diagonal mass is scaled by the exaggeration factor.
	assert.InDelta(t, 2.0, p.At(0, 1), 1e-12)
	assert.InDelta(t, 2.0, p.At(1, 0), 1e-12)
}

func newTestOptimizer(n, dims int) *optimizer[float64] {
	o := applyOptions(nil)
	o.dims = dims

	return newOptimizer[float64](o, n)
}

func TestAffinities(t *testing.T) {
	opt := newTestOptimizer(3, 2)
	copy(opt.y.Data(), []float64{
		0, 0,
		1, 0,
		0, 2,
	})

	sum := opt.affinities()

	assert.Zero(t, opt.num.At(0, 0))
	assert.Zero(t, opt.num.At(1, 1))
	assert.InDelta(t, 0.5, opt.num.At(0, 1), 1e-12)  // 1/(1+1)
	assert.InDelta(t, 0.2, opt.num.At(0, 2), 1e-12)  // 1/(1+4)
	assert.InDelta(t, 1.0/6, opt.num.At(1, 2), 1e-12) // 1/(1+5)
	assert.Equal(t, opt.num.At(1, 2), opt.num.At(2, 1))

	assert.InDelta(t, 2*(0.5+0.2+1.0/6), sum, 1e-12)
}

func TestStep_GainRule(t *testing.T) {
	opt := newTestOptimizer(1, 4)

	opt.grad = []float64{1, -1, 1, -1}
	opt.vel = []float64{1, -1, -1, 1}

	opt.step(0)

	// Same signs decay, opposite signs grow.
	assert.InDelta(t, 0.8, opt.gains[0], 1e-12)
	assert.InDelta(t, 0.8, opt.gains[1], 1e-12)
	assert.InDelta(t, 1.2, opt.gains[2], 1e-12)
	assert.InDelta(t, 1.2, opt.gains[3], 1e-12)
}

func TestStep_GainFloor(t *testing.T) {
	opt := newTestOptimizer(1, 2)

	// Consistently agreeing signs decay gains toward the floor.
	for i := 0; i < 100; i++ {
		opt.grad[0], opt.grad[1] = 1, 1
		opt.vel[0], opt.vel[1] = 1, 1
		opt.step(0)
	}

	for _, g := range opt.gains {
		assert.GreaterOrEqual(t, g, opt.o.minGain)
	}
	assert.InDelta(t, opt.o.minGain, opt.gains[0], 1e-12)
}

func TestStep_VelocityUpdate(t *testing.T) {
	opt := newTestOptimizer(1, 1)

	opt.grad[0] = 0.5
	opt.vel[0] = 2

	opt.step(0.8)

	// vel = momentum*vel - eta*gain*grad with gain decayed to 0.8.
	want := 0.8*2 - 500*0.8*0.5
	assert.InDelta(t, want, opt.vel[0], 1e-9)
	assert.InDelta(t, want, opt.y.At(0, 0), 1e-9)
}

func TestRecenter(t *testing.T) {
	opt := newTestOptimizer(2, 2)
	copy(opt.y.Data(), []float64{
		1, 4,
		3, -2,
	})

	opt.recenter()

	assert.InDelta(t, -1.0, opt.y.At(0, 0), 1e-12)
	assert.InDelta(t, 1.0, opt.y.At(1, 0), 1e-12)
	assert.InDelta(t, 3.0, opt.y.At(0, 1), 1e-12)
	assert.InDelta(t, -3.0, opt.y.At(1, 1), 1e-12)

	// Mean is the zero vector.
	for k := 0; k < 2; k++ {
		assert.InDelta(t, 0.0, opt.y.At(0, k)+opt.y.At(1, k), 1e-12)
	}
}

func TestCost_MatchesDefinition(t *testing.T) {
	opt := newTestOptimizer(2, 1)
	copy(opt.y.Data(), []float64{-0.5, 0.5})

	sum := opt.affinities()

	p, err := dense.New(2, 2, []float64{
		1e-12, 0.5,
		0.5, 1e-12,
	})
	require.NoError(t, err)

	got := opt.cost(p, sum)

	// Q is 0.5 for both off-diagonal entries, so the divergence is zero.
	assert.InDelta(t, 0.0, got, 1e-9)
	assert.False(t, math.IsNaN(got))
}

func TestObserve_RecoversPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		observe(func() { panic("observer bug") })
	})
}

func TestNewRNG_Deterministic(t *testing.T) {
	seed := int64(7)

	a := newRNG(&seed)
	b := newRNG(&seed)

	assert.Equal(t, a.NormFloat64(), b.NormFloat64())
}

func TestErrDegenerate(t *testing.T) {
	err := &ErrDegenerate{Iteration: 42}
	assert.Contains(t, err.Error(), "42")
	assert.Nil(t, err.Unwrap())
}
