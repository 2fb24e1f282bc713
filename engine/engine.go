package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/Carmen-Shannon/oxy-rp/engine/camera"
	"github.com/Carmen-Shannon/oxy-rp/engine/camera_renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/profiler"
	"github.com/Carmen-Shannon/oxy-rp/engine/render_pipeline"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/window"
)

// engine implements the Engine interface.
// Game logic ticks on its own goroutine; frames are rendered on the window's message loop.
type engine struct {
	mu *sync.Mutex

	window   window.Window
	context  renderer.SurfaceContext
	pipeline *render_pipeline.RenderPipeline
	cameras  []camera.Camera

	tickRateChannel chan time.Duration
	quitChannel     chan struct{}
	quitOnce        sync.Once
	wg              sync.WaitGroup

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate   time.Duration
	renderFrameLimit time.Duration
	tickCallback     func(deltaTime float32)
	renderCallback   func(deltaTime float32, results []camera_renderer.FrameResult)
	lastRender       time.Time
}

// Engine drives a render pipeline over a set of cameras into a window.
type Engine interface {
	// Window returns the window frames are presented into.
	Window() window.Window

	// Context returns the surface render context.
	Context() renderer.SurfaceContext

	// Pipeline returns the render pipeline.
	Pipeline() *render_pipeline.RenderPipeline

	// AddCamera appends a camera. Cameras render in the order they were added. A camera without a pixel rect
	// is given the full window and follows window resizes.
	//
	// Parameters:
	//   - cam: the camera to add
	AddCamera(cam camera.Camera)

	// Cameras returns a copy of the registered cameras.
	Cameras() []camera.Camera

	// EnableProfiler attaches the profiler to the pipeline.
	EnableProfiler()

	// DisableProfiler detaches the profiler.
	DisableProfiler()

	// SetTickRate sets the game logic tick rate in ticks per second (60 if fps <= 0).
	SetTickRate(fps float64)

	// SetTickCallback registers the function called every logic tick with the delta time in seconds.
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after every rendered frame.
	//
	// Parameters:
	//   - callback: receives the delta time in seconds and the per-camera results of the frame
	SetRenderCallback(callback func(deltaTime float32, results []camera_renderer.FrameResult))

	// SetRenderFrameLimit caps the render rate. Pass 0 to uncap it.
	SetRenderFrameLimit(fps float64)

	// Run renders until the window closes or Quit is called.
	//
	// Returns:
	//   - error: an error if the engine has no window or context
	Run() error

	// Quit stops the engine. Safe to call more than once.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates an Engine. A window and a surface context must be supplied; the pipeline defaults to
// render_pipeline.New().
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.Mutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.pipeline == nil {
		e.pipeline = render_pipeline.New()
	}
	if e.profilingEnabled {
		e.pipeline.SetProfiler(e.profiler)
	}
	if e.window != nil {
		e.window.SetResizeCallback(e.resize)
		size := e.window.Size()
		for _, cam := range e.cameras {
			if cam.PixelRect().Size().Empty() {
				cam.SetPixelRect(common.Rect{Width: size.Width, Height: size.Height})
			}
		}
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Context() renderer.SurfaceContext {
	return e.context
}

func (e *engine) Pipeline() *render_pipeline.RenderPipeline {
	return e.pipeline
}

func (e *engine) AddCamera(cam camera.Camera) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cam.PixelRect().Size().Empty() && e.window != nil {
		size := e.window.Size()
		cam.SetPixelRect(common.Rect{Width: size.Width, Height: size.Height})
	}
	e.cameras = append(e.cameras, cam)
}

func (e *engine) Cameras() []camera.Camera {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]camera.Camera(nil), e.cameras...)
}

// resize reconfigures the surface and stretches full-window cameras to the new size.
func (e *engine) resize(size common.Size) {
	if size.Empty() {
		return
	}
	if e.context != nil {
		old := e.context.SurfaceSize()
		e.context.ConfigureSurface(size.Width, size.Height)
		e.mu.Lock()
		for _, cam := range e.cameras {
			if cam.PixelRect() == (common.Rect{Width: old.Width, Height: old.Height}) {
				cam.SetPixelRect(common.Rect{Width: size.Width, Height: size.Height})
			}
		}
		e.mu.Unlock()
	}
}

func (e *engine) Run() error {
	if e.window == nil || e.context == nil {
		return errors.New("engine needs a window and a surface context")
	}
	size := e.window.Size()
	e.context.ConfigureSurface(size.Width, size.Height)

	e.wg.Add(1)
	go e.handleEngine()

	e.lastRender = time.Now()
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			_ = e.window.Close()
		default:
			e.renderFrame()
		}
	})
	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()
	e.context.Release()
	_ = e.window.Close()
	return nil
}

func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handleEngine runs the fixed-rate logic tick until quit.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()
	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case now := <-ticker.C:
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case rate := <-e.tickRateChannel:
			ticker.Reset(rate)
		}
	}
}

// renderFrame renders every camera, presents and applies the frame limit.
func (e *engine) renderFrame() {
	now := time.Now()
	dt := float32(now.Sub(e.lastRender).Seconds())
	e.lastRender = now

	results, err := e.pipeline.Render(e.context, e.Cameras())
	if err != nil {
		common.Logger().Warn("frame failed", "error", err)
	}
	if err := e.context.Present(); err != nil {
		common.Logger().Warn("present failed", "error", err)
	}
	if e.renderCallback != nil {
		e.renderCallback(dt, results)
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
	e.pipeline.SetProfiler(e.profiler)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
	e.pipeline.SetProfiler(nil)
}

// SetTickRate takes effect on the next tick. A pending rate change that has not been picked up yet is replaced.
func (e *engine) SetTickRate(fps float64) {
	rate := tickDuration(fps)
	select {
	case e.tickRateChannel <- rate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- rate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32, results []camera_renderer.FrameResult)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameLimit(fps)
}

func tickDuration(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}

func frameLimit(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
