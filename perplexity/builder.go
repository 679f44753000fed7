package perplexity

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/tsnego/dense"
	"github.com/hupe1980/tsnego/internal/floats"
)

// ErrConsistency indicates that a calibrated probability row violated an
// internal invariant (wrong length, or a non-zero self entry). It points at a
// bug in calibration and is never retried.
type ErrConsistency struct {
	Row    int
	Reason string
}

func (e *ErrConsistency) Error() string {
	return fmt.Sprintf("probability row %d: %s", e.Row, e.Reason)
}

// ProgressFunc is invoked as rows are calibrated. done is the number of rows
// completed so far out of total. It may be called from multiple goroutines;
// a panicking callback is recovered and ignored.
type ProgressFunc func(done, total int)

type builderOptions struct {
	parallelism   int
	progress      ProgressFunc
	progressEvery int
}

// BuilderOption configures Matrix.
type BuilderOption func(*builderOptions)

// WithParallelism limits the number of rows calibrated concurrently.
// Defaults to runtime.GOMAXPROCS(0). Values below 1 select the default.
func WithParallelism(n int) BuilderOption {
	return func(o *builderOptions) {
		o.parallelism = n
	}
}

// WithProgress installs a progress callback invoked every cadence completed
// rows (and for the final row). Pass cadence <= 0 for the default of 500.
func WithProgress(fn ProgressFunc, cadence int) BuilderOption {
	return func(o *builderOptions) {
		o.progress = fn
		if cadence > 0 {
			o.progressEvery = cadence
		}
	}
}

// Matrix drives per-row calibration over the full squared-distance matrix d
// and assembles the (n x n) conditional probability matrix. Row i holds the
// conditional probabilities under point i's calibrated kernel; the diagonal
// is zero and every row sums to 1.
//
// Rows are independent, so calibration fans out across goroutines; each
// goroutine writes only its own row. The returned slice holds the calibrated
// bandwidth of every point, for diagnostics.
func Matrix[F floats.Float](ctx context.Context, d *dense.Dense[F], target, tolerance float64, optFns ...BuilderOption) (*dense.Dense[F], []float64, error) {
	n, cols := d.Dims()
	if n != cols {
		return nil, nil, &dense.ErrShape{Rows: n, Cols: cols, Reason: "distance matrix must be square"}
	}

	o := builderOptions{
		parallelism:   runtime.GOMAXPROCS(0),
		progressEvery: 500,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.parallelism < 1 {
		o.parallelism = runtime.GOMAXPROCS(0)
	}

	p, err := dense.New[F](n, n, nil)
	if err != nil {
		return nil, nil, err
	}

	betas := make([]float64, n)

	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res := CalibrateRow(d.Row(i), i, target, tolerance)

			if len(res.P) != n {
				return &ErrConsistency{Row: i, Reason: fmt.Sprintf("has %d entries, want %d", len(res.P), n)}
			}

			if res.P[i] != 0 {
				return &ErrConsistency{Row: i, Reason: "self entry is not zero"}
			}

			copy(p.Row(i), res.P)
			betas[i] = res.Beta

			if completed := int(done.Add(1)); o.progress != nil && (completed%o.progressEvery == 0 || completed == n) {
				reportProgress(o.progress, completed, n)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return p, betas, nil
}

// MeanSigma summarizes calibrated bandwidths as the mean kernel standard
// deviation, mean(sqrt(1/beta)).
func MeanSigma(betas []float64) float64 {
	if len(betas) == 0 {
		return 0
	}

	var sum float64
	for _, b := range betas {
		sum += math.Sqrt(1 / b)
	}

	return sum / float64(len(betas))
}

// reportProgress shields the pipeline from a panicking callback; progress is
// observability only and must never abort the numeric result.
func reportProgress(fn ProgressFunc, done, total int) {
	defer func() {
		_ = recover()
	}()

	fn(done, total)
}
