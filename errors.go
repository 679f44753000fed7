package tsnego

import (
	"errors"
	"fmt"
)

var (
	// ErrNilInput is returned when Embed is called with a nil matrix.
	ErrNilInput = errors.New("input matrix must not be nil")

	// ErrTooFewPoints is returned when the input has fewer than two rows.
	ErrTooFewPoints = errors.New("need at least two points")

	// ErrInvalidPerplexity is returned for a non-positive target perplexity.
	ErrInvalidPerplexity = errors.New("perplexity must be positive")

	// ErrInvalidDims is returned for a non-positive output dimensionality.
	ErrInvalidDims = errors.New("output dimensionality must be positive")

	// ErrInvalidMaxIter is returned for a non-positive iteration budget.
	ErrInvalidMaxIter = errors.New("max iterations must be positive")
)

// ErrDegenerate indicates that the optimizer produced a non-finite embedding
// state (NaN or Inf). The run is aborted immediately; no partial result is
// returned.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDegenerate struct {
	Iteration int
	cause     error
}

func (e *ErrDegenerate) Error() string {
	return fmt.Sprintf("non-finite embedding state at iteration %d", e.Iteration)
}

func (e *ErrDegenerate) Unwrap() error { return e.cause }
