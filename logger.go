package tsnego

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with tsnego-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithPoints adds a point-count field to the logger.
func (l *Logger) WithPoints(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("points", n),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// LogCalibration logs the outcome of the perplexity calibration stage.
func (l *Logger) LogCalibration(ctx context.Context, rows int, meanSigma float64) {
	l.InfoContext(ctx, "calibration completed",
		"rows", rows,
		"mean_sigma", meanSigma,
	)
}

// LogIterationCost logs the KL divergence sampled during optimization.
func (l *Logger) LogIterationCost(ctx context.Context, iter int, cost float64) {
	l.DebugContext(ctx, "iteration cost",
		"iteration", iter,
		"cost", cost,
	)
}

// LogEmbed logs the completion of an Embed run.
func (l *Logger) LogEmbed(ctx context.Context, points, inputDims, outputDims int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "embed failed",
			"points", points,
			"input_dims", inputDims,
			"output_dims", outputDims,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "embed completed",
			"points", points,
			"input_dims", inputDims,
			"output_dims", outputDims,
		)
	}
}
