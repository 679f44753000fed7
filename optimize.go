package tsnego

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/tsnego/dense"
	"github.com/hupe1980/tsnego/distance"
	"github.com/hupe1980/tsnego/internal/floats"
)

// optimizer holds the mutable state of one gradient-descent run: the
// embedding itself plus the velocity and gain matrices. The state is owned
// exclusively by run and discarded when it returns.
type optimizer[F floats.Float] struct {
	o options
	n int

	y     *dense.Dense[F]
	vel   []float64 // momentum accumulator, n x dims
	gains []float64 // per-coordinate step multipliers, n x dims
	grad  []float64 // KL gradient, n x dims

	num *dense.Dense[F] // student-t affinities, reused every iteration
}

func newOptimizer[F floats.Float](o options, n int) *optimizer[F] {
	dims := o.dims

	opt := &optimizer[F]{
		o:     o,
		n:     n,
		y:     dense.Zeros[F](n, dims),
		vel:   make([]float64, n*dims),
		gains: make([]float64, n*dims),
		grad:  make([]float64, n*dims),
		num:   dense.Zeros[F](n, n),
	}

	for i := range opt.gains {
		opt.gains[i] = 1
	}

	return opt
}

// run minimizes the KL divergence between p and the embedding affinities.
// p must already be symmetrized, normalized, floored and exaggerated; run
// removes the exaggeration itself at the configured cutoff iteration.
//
// Iterations are strictly sequential: each one reads the embedding the
// previous one produced. Only the per-point gradient fans out.
func (opt *optimizer[F]) run(ctx context.Context, p *dense.Dense[F]) (*dense.Dense[F], error) {
	o := opt.o

	rng := newRNG(o.randomSeed)

	yData := opt.y.Data()
	for i := range yData {
		yData[i] = F(rng.NormFloat64() * 1e-4)
	}

	for iter := 0; iter < o.maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sumNum := opt.affinities()

		opt.gradient(p, sumNum)

		momentum := o.finalMomentum
		if iter < o.momentumSwitchIter {
			momentum = o.initialMomentum
		}

		opt.step(momentum)
		opt.recenter()

		if !floats.IsFinite(opt.y.Data()) {
			return nil, &ErrDegenerate{Iteration: iter}
		}

		if (iter+1)%o.costEvery == 0 {
			cost := opt.cost(p, sumNum)
			observe(func() {
				o.observer.OnIterationCost(iter+1, cost)
			})
			o.logger.LogIterationCost(ctx, iter+1, cost)
		}

		// Stop lying about the target probabilities.
		if iter == o.exaggerationCutoff {
			data := p.Data()
			for i := range data {
				data[i] = F(float64(data[i]) / o.exaggeration)
			}
		}
	}

	return opt.y, nil
}

// affinities fills num with the Student-t kernel 1/(1+||yi-yj||^2), zero on
// the diagonal, and returns the sum of all entries.
func (opt *optimizer[F]) affinities() float64 {
	distance.SquaredMatrixInto(opt.num, opt.y)

	var sum float64

	for i := 0; i < opt.n; i++ {
		opt.num.Set(i, i, 0)

		for j := i + 1; j < opt.n; j++ {
			v := 1 / (1 + float64(opt.num.At(i, j)))
			opt.num.Set(i, j, F(v))
			opt.num.Set(j, i, F(v))
			sum += 2 * v
		}
	}

	return sum
}

// gradient computes dKL/dY into opt.grad. For point i,
//
//	grad_i = sum_j (P[i][j] - Q[i][j]) * num[i][j] * (y_i - y_j)
//
// with Q = num/sumNum floored at the configured epsilon. Rows are
// independent, so points fan out across goroutines; iterations themselves
// stay sequential.
func (opt *optimizer[F]) gradient(p *dense.Dense[F], sumNum float64) {
	o := opt.o
	dims := o.dims
	invSum := 1 / sumNum

	g := new(errgroup.Group)
	if o.parallelism > 0 {
		g.SetLimit(o.parallelism)
	}

	for i := 0; i < opt.n; i++ {
		i := i
		g.Go(func() error {
			gi := opt.grad[i*dims : (i+1)*dims]
			for k := range gi {
				gi[k] = 0
			}

			yi := opt.y.Row(i)
			pRow := p.Row(i)
			numRow := opt.num.Row(i)

			for j := 0; j < opt.n; j++ {
				if j == i {
					continue
				}

				nu := float64(numRow[j])

				q := nu * invSum
				if q < o.probFloor {
					q = o.probFloor
				}

				mult := (float64(pRow[j]) - q) * nu

				yj := opt.y.Row(j)
				for k := 0; k < dims; k++ {
					gi[k] += mult * (float64(yi[k]) - float64(yj[k]))
				}
			}

			return nil
		})
	}

	_ = g.Wait()
}

// step adapts the per-coordinate gains, folds the gradient into the
// velocity, and applies the velocity to the embedding.
//
// A gain grows additively when the gradient sign disagrees with the
// accumulated velocity sign and decays multiplicatively when they agree;
// gains never drop below the configured floor.
func (opt *optimizer[F]) step(momentum float64) {
	o := opt.o
	yData := opt.y.Data()

	for c := range opt.grad {
		if (opt.grad[c] > 0) != (opt.vel[c] > 0) {
			opt.gains[c] += 0.2
		} else {
			opt.gains[c] *= 0.8
		}

		if opt.gains[c] < o.minGain {
			opt.gains[c] = o.minGain
		}

		opt.vel[c] = momentum*opt.vel[c] - o.eta*opt.gains[c]*opt.grad[c]
		yData[c] = F(float64(yData[c]) + opt.vel[c])
	}
}

// recenter subtracts the per-dimension mean, keeping the embedding centered
// at the origin.
func (opt *optimizer[F]) recenter() {
	dims := opt.o.dims

	means := make([]float64, dims)
	for i := 0; i < opt.n; i++ {
		row := opt.y.Row(i)
		for k := 0; k < dims; k++ {
			means[k] += float64(row[k])
		}
	}
	for k := range means {
		means[k] /= float64(opt.n)
	}

	for i := 0; i < opt.n; i++ {
		row := opt.y.Row(i)
		for k := 0; k < dims; k++ {
			row[k] = F(float64(row[k]) - means[k])
		}
	}
}

// cost is the KL divergence sum(P * log(P/Q)) with Q floored like the
// gradient. Diagnostics only; it never feeds back into the optimization.
func (opt *optimizer[F]) cost(p *dense.Dense[F], sumNum float64) float64 {
	o := opt.o
	invSum := 1 / sumNum

	var c float64

	pData := p.Data()
	numData := opt.num.Data()

	for idx := range pData {
		pv := float64(pData[idx])
		if pv <= 0 {
			continue
		}

		q := float64(numData[idx]) * invSum
		if q < o.probFloor {
			q = o.probFloor
		}

		c += pv * math.Log(pv/q)
	}

	return c
}
