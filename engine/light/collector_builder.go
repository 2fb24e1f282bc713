package light

// CollectorBuilderOption configures a Collector during construction.
type CollectorBuilderOption func(*collectorImpl)

// WithLimits sets the per-frame light caps.
//
// Parameters:
//   - l: the caps, clamped to the shader array capacity
//
// Returns:
//   - CollectorBuilderOption: a function that applies the limits to a collector
func WithLimits(l Limits) CollectorBuilderOption {
	return func(c *collectorImpl) {
		c.limits = l
	}
}

// WithShadowAllocator replaces the default reservation-only shadow allocator.
//
// Parameters:
//   - a: the allocator
//
// Returns:
//   - CollectorBuilderOption: a function that applies the allocator to a collector
func WithShadowAllocator(a ShadowAllocator) CollectorBuilderOption {
	return func(c *collectorImpl) {
		c.shadows = a
	}
}
