package lut

import "time"

// BakeBuilderOption configures a Bake call.
type BakeBuilderOption func(*bakeImpl)

// WithWorkers sets the number of bake workers. Defaults to the CPU count.
//
// Parameters:
//   - n: the worker count, at least 1
//
// Returns:
//   - BakeBuilderOption: a function that sets the worker count
func WithWorkers(n int) BakeBuilderOption {
	return func(b *bakeImpl) {
		b.workers = n
	}
}

// WithIdleTimeout sets how long an idle worker lingers before exiting.
func WithIdleTimeout(d time.Duration) BakeBuilderOption {
	return func(b *bakeImpl) {
		b.idleTimeout = d
	}
}
