package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math/rand"

	"github.com/hupe1980/tsnego"
	"github.com/hupe1980/tsnego/dense"
)

func main() {
	ctx := context.Background()

	// Three Gaussian blobs in 50 dimensions.
	const n, d = 150, 50

	rng := rand.New(rand.NewSource(42))

	x, err := dense.New[float64](n, d, nil)
	if err != nil {
		log.Fatal(err)
	}

	for i := 0; i < n; i++ {
		offset := float64(i%3) * 8
		row := x.Row(i)
		for j := range row {
			row[j] = offset + rng.NormFloat64()
		}
	}

	t, err := tsnego.New[float64](
		tsnego.WithPerplexity(30),
		tsnego.WithPCA(20),
		tsnego.WithRandomSeed(42),
		tsnego.WithLogLevel(slog.LevelDebug),
	)
	if err != nil {
		log.Fatal(err)
	}

	y, err := t.Embed(ctx, x)
	if err != nil {
		log.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		fmt.Printf("point %3d -> (%8.3f, %8.3f)\n", i, y.At(i, 0), y.At(i, 1))
	}
}
