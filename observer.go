package tsnego

import (
	"math"
	"sync/atomic"
)

// Observer receives diagnostics from the pipeline. Implement this interface
// to integrate with monitoring or progress UIs.
//
// Observers are pure sinks: they must never influence numeric results, and a
// panicking observer is recovered and ignored. OnRowProgress may be called
// from multiple goroutines.
type Observer interface {
	// OnRowProgress is called as probability rows are calibrated, at the
	// configured cadence. done is the number of rows completed out of total.
	OnRowProgress(done, total int)

	// OnIterationCost is called with the current KL divergence at the
	// configured cost cadence during optimization.
	OnIterationCost(iter int, cost float64)
}

// NoopObserver is a no-op implementation of Observer.
// Use this when diagnostics are not needed.
type NoopObserver struct{}

func (NoopObserver) OnRowProgress(int, int)       {}
func (NoopObserver) OnIterationCost(int, float64) {}

// BasicObserver provides simple in-memory diagnostics collection.
// Useful for debugging and tests without external dependencies.
type BasicObserver struct {
	RowsCalibrated atomic.Int64
	CostSamples    atomic.Int64
	lastIteration  atomic.Int64
	lastCostBits   atomic.Uint64
}

// OnRowProgress implements Observer. Calls may arrive out of order from
// concurrent calibration goroutines, so the counter only moves forward.
func (b *BasicObserver) OnRowProgress(done, total int) {
	for {
		cur := b.RowsCalibrated.Load()
		if int64(done) <= cur || b.RowsCalibrated.CompareAndSwap(cur, int64(done)) {
			return
		}
	}
}

// OnIterationCost implements Observer.
func (b *BasicObserver) OnIterationCost(iter int, cost float64) {
	b.CostSamples.Add(1)
	b.lastIteration.Store(int64(iter))
	b.lastCostBits.Store(math.Float64bits(cost))
}

// LastCost returns the most recently reported KL divergence and the
// iteration it was sampled at. ok is false before the first sample.
func (b *BasicObserver) LastCost() (iter int, cost float64, ok bool) {
	if b.CostSamples.Load() == 0 {
		return 0, 0, false
	}

	return int(b.lastIteration.Load()), math.Float64frombits(b.lastCostBits.Load()), true
}
