package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window is a desktop window that a render context presents into.
type Window interface {
	// SetUpdateCallback sets the function called on every message loop iteration.
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called with the new framebuffer size after a resize.
	SetResizeCallback(callback func(size common.Size))

	// SetKeyDownCallback sets the function called with the key code of every key press.
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetScrollCallback sets the function called with the vertical scroll offset.
	SetScrollCallback(callback func(delta float32))

	// SurfaceDescriptor returns the descriptor a WebGPU surface for this window is created from.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform surface descriptor, or nil once the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is still open.
	IsRunning() bool

	// Close destroys the window.
	//
	// Returns:
	//   - error: an error if the window was already closed
	Close() error

	// ProcessMessages polls window events until the window closes, calling the update callback between polls.
	ProcessMessages()

	// Size returns the framebuffer size in pixels.
	Size() common.Size
}

type engineWindow struct {
	title string
	size  common.Size

	platform *glfwWindow

	onUpdate  func()
	onResize  func(size common.Size)
	onKeyDown func(keyCode uint32)
	onScroll  func(delta float32)
}

var _ Window = &engineWindow{}

// NewWindow opens a 1280x720 window unless overridden. It must be called from the main goroutine.
//
// Parameters:
//   - options: variadic list of WindowBuilderOption functions
//
// Returns:
//   - Window: the open window
//   - error: an error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title: "oxy-rp",
		size:  common.Size{Width: 1280, Height: 720},
	}
	for _, opt := range options {
		opt(w)
	}
	if err := openPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(size common.Size)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return w.platform.surfaceDescriptor()
}

func (w *engineWindow) IsRunning() bool {
	return w.platform.isRunning()
}

func (w *engineWindow) Close() error {
	return w.platform.close()
}

func (w *engineWindow) ProcessMessages() {
	for w.platform.poll() {
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) Size() common.Size {
	return w.size
}
