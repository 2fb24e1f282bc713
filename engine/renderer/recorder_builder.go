package renderer

// RecorderBuilderOption configures a Recorder during construction.
type RecorderBuilderOption func(*Recorder)

// WithCopySupport sets whether the recorder reports hardware image copies as available.
//
// Parameters:
//   - supported: false to force callers onto the draw-based copy path
//
// Returns:
//   - RecorderBuilderOption: a function that applies the option to a Recorder
func WithCopySupport(supported bool) RecorderBuilderOption {
	return func(r *Recorder) {
		r.copySupported = supported
	}
}
