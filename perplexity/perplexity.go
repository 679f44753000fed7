package perplexity

import (
	"math"

	"github.com/hupe1980/tsnego/internal/floats"
)

const (
	// DefaultTarget is the default target perplexity.
	DefaultTarget = 30.0

	// DefaultTolerance is the default convergence threshold on log-perplexity.
	DefaultTolerance = 1e-5

	// maxSearchIter bounds the bandwidth bisection per point.
	maxSearchIter = 50
)

// Result holds the outcome of calibrating one point.
type Result[F floats.Float] struct {
	// P is the calibrated probability row. P[self] is 0 and the remaining
	// entries sum to 1.
	P []F

	// Beta is the inverse-variance of the calibrated Gaussian kernel.
	Beta float64

	// Iterations is the number of bisection steps taken.
	Iterations int

	// Residual is |H - log(target)| at the returned beta. When the search
	// exhausts its budget this stays above the tolerance; callers may log it
	// but must not treat it as an error.
	Residual float64
}

// Converged reports whether the search met the given tolerance.
func (r Result[F]) Converged(tolerance float64) bool {
	return r.Residual <= tolerance
}

// PerplexityAndProb computes the log-perplexity H and the normalized
// probability row for the distance row at the given bandwidth beta. The
// weight of entry self is forced to zero (pass self < 0 to skip).
//
// H = log(W) + beta * sum(D*w)/W with w_j = exp(-beta*D_j) and W = sum(w).
// Working in the log domain avoids exponentiating the entropy.
func PerplexityAndProb[F floats.Float](row []F, beta float64, self int) (float64, []F) {
	p := make([]F, len(row))
	h := perplexityAndProbInto(p, row, beta, self)

	return h, p
}

// perplexityAndProbInto is the allocation-free core of PerplexityAndProb;
// the bisection reuses one scratch row across all evaluations.
func perplexityAndProbInto[F floats.Float](dst []F, row []F, beta float64, self int) float64 {
	var tot, weighted float64

	for j := range row {
		if j == self {
			dst[j] = 0
			continue
		}

		d := float64(row[j])
		w := math.Exp(-beta * d)
		dst[j] = F(w)
		tot += w
		weighted += d * w
	}

	if tot == 0 {
		// All weights underflowed: the kernel is narrower than any neighbor,
		// i.e. effective perplexity is below every target.
		return math.Inf(-1)
	}

	inv := 1 / tot
	for j := range dst {
		dst[j] = F(float64(dst[j]) * inv)
	}

	return math.Log(tot) + beta*weighted*inv
}

// CalibrateRow finds the bandwidth whose induced conditional distribution
// over row has log-perplexity log(target), by bisection with open-ended
// initial bounds. If the search does not converge within its iteration
// budget, the best bandwidth seen so far is returned; that is a deliberate
// degraded-precision fallback, not an error.
func CalibrateRow[F floats.Float](row []F, self int, target, tolerance float64) Result[F] {
	logTarget := math.Log(target)

	betamin := math.Inf(-1)
	betamax := math.Inf(1)
	beta := 1.0

	p := make([]F, len(row))
	h := perplexityAndProbInto(p, row, beta, self)

	bestBeta := beta
	bestResidual := math.Abs(h - logTarget)

	iter := 0
	for ; iter < maxSearchIter && math.Abs(h-logTarget) > tolerance; iter++ {
		if h > logTarget {
			// Perplexity too high: narrow the kernel.
			betamin = beta
			if math.IsInf(betamax, 1) {
				beta *= 2
			} else {
				beta = (beta + betamax) / 2
			}
		} else {
			// Perplexity too low: widen the kernel.
			betamax = beta
			if math.IsInf(betamin, -1) {
				beta /= 2
			} else {
				beta = (beta + betamin) / 2
			}
		}

		h = perplexityAndProbInto(p, row, beta, self)

		if residual := math.Abs(h - logTarget); residual < bestResidual {
			bestResidual = residual
			bestBeta = beta
		}
	}

	if beta != bestBeta {
		// Budget ran out past the best point; back up to it.
		perplexityAndProbInto(p, row, bestBeta, self)
		beta = bestBeta
	}

	return Result[F]{
		P:          p,
		Beta:       beta,
		Iterations: iter,
		Residual:   bestResidual,
	}
}
