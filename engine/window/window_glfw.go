package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var errClosed = errors.New("window is closed")

type glfwWindow struct {
	window  *glfw.Window
	running bool
}

// openPlatformWindow creates a GLFW window without a client API and wires its callbacks to w.
//
// Reference: https://www.glfw.org/docs/latest/window_guide.html
func openPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("initialize GLFW: %w", err)
	}
	// the surface is driven by WebGPU
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.size.Width, w.size.Height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("create GLFW window: %w", err)
	}
	gw := &glfwWindow{window: win, running: true}
	w.platform = gw

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		if key == glfw.KeyEscape {
			gw.running = false
			win.SetShouldClose(true)
			return
		}
		if w.onKeyDown != nil {
			w.onKeyDown(uint32(key))
		}
	})
	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.onScroll != nil {
			w.onScroll(float32(yoff))
		}
	})
	// framebuffer pixels, not screen coordinates, size the surface
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.size = common.Size{Width: width, Height: height}
		if w.onResize != nil {
			w.onResize(w.size)
		}
	})

	width, height := win.GetFramebufferSize()
	w.size = common.Size{Width: width, Height: height}
	return nil
}

// surfaceDescriptor uses the wgpuglfw bridge, which covers Windows, X11, Wayland and macOS.
func (g *glfwWindow) surfaceDescriptor() *wgpu.SurfaceDescriptor {
	if g == nil || !g.running {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(g.window)
}

func (g *glfwWindow) isRunning() bool {
	return g != nil && g.running && !g.window.ShouldClose()
}

func (g *glfwWindow) poll() bool {
	if !g.isRunning() {
		return false
	}
	glfw.PollEvents()
	return g.isRunning()
}

func (g *glfwWindow) close() error {
	if g == nil || g.window == nil {
		return errClosed
	}
	g.running = false
	g.window.Destroy()
	g.window = nil
	glfw.Terminate()
	return nil
}
