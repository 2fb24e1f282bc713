package window

import "github.com/Carmen-Shannon/oxy-rp/common"

// WindowBuilderOption configures a window before it opens.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the title bar text.
//
// Parameters:
//   - title: the window title
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the requested client size. High-DPI displays may report a larger framebuffer.
//
// Parameters:
//   - size: the client size in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(size common.Size) WindowBuilderOption {
	return func(w *engineWindow) {
		w.size = size
	}
}
