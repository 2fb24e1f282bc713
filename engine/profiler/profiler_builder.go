package profiler

import "time"

// ProfilerBuilderOption configures a Profiler during construction.
type ProfilerBuilderOption func(*Profiler)

// WithUpdateInterval sets how often reports are logged.
//
// Parameters:
//   - d: the interval between reports
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the interval to a profiler
func WithUpdateInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.updateInterval = d
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}
