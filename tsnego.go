package tsnego

import (
	"context"
	"math/rand"

	"github.com/hupe1980/tsnego/dense"
	"github.com/hupe1980/tsnego/distance"
	"github.com/hupe1980/tsnego/internal/floats"
	"github.com/hupe1980/tsnego/pca"
	"github.com/hupe1980/tsnego/perplexity"
)

// TSNE computes t-SNE embeddings with a fixed configuration. Instances are
// safe for concurrent use; each Embed call owns its own optimization state.
type TSNE[F floats.Float] struct {
	opts options
}

// New creates a TSNE instance with the given options. Configuration is
// validated once here so that Embed can assume a sound setup.
func New[F floats.Float](optFns ...Option) (*TSNE[F], error) {
	o := applyOptions(optFns)

	if o.perplexity <= 0 {
		return nil, ErrInvalidPerplexity
	}

	if o.dims <= 0 {
		return nil, ErrInvalidDims
	}

	if o.maxIter <= 0 {
		return nil, ErrInvalidMaxIter
	}

	return &TSNE[F]{opts: o}, nil
}

// Embed runs the full pipeline on x (n points x d dimensions) and returns
// the (n x dims) embedding.
//
// The context is checked between calibration rows and between optimizer
// iterations; cancellation aborts the run with ctx.Err(). Shape and internal
// consistency failures abort with no partial result.
func (t *TSNE[F]) Embed(ctx context.Context, x *dense.Dense[F]) (*dense.Dense[F], error) {
	logger := t.opts.logger

	if x == nil {
		return nil, ErrNilInput
	}

	n, d := x.Dims()
	if n < 2 {
		return nil, ErrTooFewPoints
	}

	y, err := t.embed(ctx, x)
	logger.LogEmbed(ctx, n, d, t.opts.dims, err)

	return y, err
}

func (t *TSNE[F]) embed(ctx context.Context, x *dense.Dense[F]) (*dense.Dense[F], error) {
	o := t.opts
	n, d := x.Dims()

	if o.pcaDims > 0 && d > o.pcaDims {
		reduced, err := pca.Reduce(x, o.pcaDims)
		if err != nil {
			return nil, err
		}
		x = reduced
	}

	dist, err := distance.SquaredMatrix(x)
	if err != nil {
		return nil, err
	}

	p, betas, err := perplexity.Matrix(ctx, dist, o.perplexity, o.tolerance,
		perplexity.WithParallelism(o.parallelism),
		perplexity.WithProgress(t.onRowProgress, o.progressEvery),
	)
	if err != nil {
		return nil, err
	}

	o.logger.LogCalibration(ctx, n, perplexity.MeanSigma(betas))

	jointProbabilities(p, o.probFloor, o.exaggeration)

	opt := newOptimizer[F](o, n)

	return opt.run(ctx, p)
}

func (t *TSNE[F]) onRowProgress(done, total int) {
	observe(func() {
		t.opts.observer.OnRowProgress(done, total)
	})
}

// jointProbabilities turns the conditional matrix P into the exaggerated
// joint target in place: symmetrize, renormalize to total mass 1, floor at
// eps, then scale by the early-exaggeration factor.
func jointProbabilities[F floats.Float](p *dense.Dense[F], eps, exaggeration float64) {
	n, _ := p.Dims()

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := p.At(i, j) + p.At(j, i)
			p.Set(i, j, v)
			p.Set(j, i, v)
		}
	}

	total := floats.Sum(p.Data())
	if total <= 0 {
		total = 1
	}

	data := p.Data()
	for i := range data {
		v := float64(data[i]) / total * exaggeration
		if v < eps {
			v = eps
		}
		data[i] = F(v)
	}
}

// observe runs a diagnostics callback, recovering any panic; observers are
// never allowed to abort the numeric pipeline.
func observe(fn func()) {
	defer func() {
		_ = recover()
	}()

	fn()
}

// newRNG derives the embedding-initialization RNG from the configured seed,
// or from a run-specific random seed when none was set.
func newRNG(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}

	return rand.New(rand.NewSource(rand.Int63()))
}
