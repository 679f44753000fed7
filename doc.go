// Package tsnego provides an embeddable t-SNE implementation for Go.
//
// t-SNE (t-distributed Stochastic Neighbor Embedding) maps a set of
// high-dimensional points to a low-dimensional embedding such that local
// neighborhoods are preserved: nearby points stay nearby, and cluster
// structure becomes visible in two or three dimensions.
//
// # Quick Start
//
//	ctx := context.Background()
//
//	x, _ := dense.New(n, d, data) // n points, d dimensions, row-major
//
//	t, _ := tsnego.New[float64](
//	    tsnego.WithPerplexity(30),
//	    tsnego.WithDims(2),
//	    tsnego.WithRandomSeed(42),
//	)
//
//	y, _ := t.Embed(ctx, x) // n x 2 embedding
//
// # Pipeline
//
// Embed runs four stages, strictly downstream:
//
//  1. Optional PCA pre-projection of wide inputs (WithPCA).
//  2. Pairwise squared distances via the norms + Gram identity (distance).
//  3. Per-point perplexity calibration by bandwidth bisection, fanned out
//     across goroutines (perplexity).
//  4. Gradient descent on the KL divergence between input and embedding
//     affinities, with momentum, adaptive per-coordinate gains and an early
//     exaggeration phase.
//
// # Observability
//
// Progress and cost reporting go through an injectable Observer; the default
// is a no-op and the numeric core performs no hidden I/O. Structured logging
// uses log/slog behind the Logger wrapper and is likewise disabled by
// default.
//
// # Precision
//
// All matrices are generic over float32 and float64. Reductions accumulate
// in float64 internally, so single-precision embeddings stay numerically
// stable.
package tsnego
