package tsnego

import "log/slog"

type options struct {
	perplexity float64
	tolerance  float64
	dims       int
	maxIter    int

	initialMomentum    float64
	finalMomentum      float64
	momentumSwitchIter int
	eta                float64
	minGain            float64
	exaggeration       float64
	exaggerationCutoff int
	probFloor          float64

	pcaDims     int
	randomSeed  *int64
	parallelism int

	progressEvery int
	costEvery     int
	observer      Observer
	logger        *Logger
}

// Option configures a TSNE instance.
type Option func(*options)

// WithPerplexity sets the target perplexity, the effective neighborhood size
// each point's conditional distribution is calibrated to. Default: 30.
func WithPerplexity(p float64) Option {
	return func(o *options) {
		o.perplexity = p
	}
}

// WithTolerance sets the convergence threshold of the bandwidth bisection,
// measured on log-perplexity. Default: 1e-5.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		o.tolerance = tol
	}
}

// WithDims sets the output dimensionality. Default: 2.
func WithDims(dims int) Option {
	return func(o *options) {
		o.dims = dims
	}
}

// WithMaxIter sets the number of gradient-descent iterations. Termination is
// purely iteration-count based. Default: 1000.
func WithMaxIter(n int) Option {
	return func(o *options) {
		o.maxIter = n
	}
}

// WithMomentum sets the momentum schedule: initial is used for the first
// switchIter iterations, final afterwards. Defaults: 0.5, 0.8, switch at 20.
func WithMomentum(initial, final float64, switchIter int) Option {
	return func(o *options) {
		o.initialMomentum = initial
		o.finalMomentum = final
		o.momentumSwitchIter = switchIter
	}
}

// WithEta sets the learning rate. Default: 500.
func WithEta(eta float64) Option {
	return func(o *options) {
		o.eta = eta
	}
}

// WithMinGain sets the floor for the adaptive per-coordinate gains.
// Default: 0.01.
func WithMinGain(g float64) Option {
	return func(o *options) {
		o.minGain = g
	}
}

// WithExaggeration sets the early-exaggeration factor and the iteration at
// which it is removed. During the exaggeration phase the target
// probabilities are amplified to encourage early cluster separation.
// Defaults: factor 4, cutoff at iteration 100.
func WithExaggeration(factor float64, cutoffIter int) Option {
	return func(o *options) {
		o.exaggeration = factor
		o.exaggerationCutoff = cutoffIter
	}
}

// WithPCA enables PCA pre-projection of the input down to initialDims
// components before distances are computed. Inputs that are already
// initialDims wide or narrower pass through unchanged. Pass 0 to disable
// (the default). The conventional value is 50.
func WithPCA(initialDims int) Option {
	return func(o *options) {
		o.pcaDims = initialDims
	}
}

// WithRandomSeed fixes the seed of the embedding initialization, making runs
// reproducible. Without it a run-specific seed is drawn.
func WithRandomSeed(seed int64) Option {
	return func(o *options) {
		s := seed
		o.randomSeed = &s
	}
}

// WithParallelism limits the number of goroutines used for calibration and
// gradient fan-out. Defaults to runtime.GOMAXPROCS(0).
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithObserver installs a diagnostics observer. Pass nil to disable.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs == nil {
			obs = NoopObserver{}
		}
		o.observer = obs
	}
}

// WithProgressEvery sets the row-progress cadence of the observer.
// Default: 500 rows.
func WithProgressEvery(rows int) Option {
	return func(o *options) {
		if rows > 0 {
			o.progressEvery = rows
		}
	}
}

// WithCostEvery sets how often (in iterations) the KL divergence is computed
// and reported. The cost is observability only and never influences the
// optimization. Default: every 10 iterations.
func WithCostEvery(iters int) Option {
	return func(o *options) {
		if iters > 0 {
			o.costEvery = iters
		}
	}
}

// WithLogger configures structured logging. Pass nil to disable.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		perplexity:         30.0,
		tolerance:          1e-5,
		dims:               2,
		maxIter:            1000,
		initialMomentum:    0.5,
		finalMomentum:      0.8,
		momentumSwitchIter: 20,
		eta:                500,
		minGain:            0.01,
		exaggeration:       4,
		exaggerationCutoff: 100,
		probFloor:          1e-12,
		progressEvery:      500,
		costEvery:          10,
		observer:           NoopObserver{},
		logger:             NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
