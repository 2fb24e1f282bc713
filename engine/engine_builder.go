package engine

import (
	"github.com/Carmen-Shannon/oxy-rp/engine/camera"
	"github.com/Carmen-Shannon/oxy-rp/engine/render_pipeline"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/window"
)

// EngineBuilderOption is a functional option for configuring the engine.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables the profiler.
//
// Parameters:
//   - enabled: true to report frame statistics through the logger
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the game logic tick rate in ticks per second (60 if fps <= 0).
//
// Parameters:
//   - fps: the tick rate
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate = tickDuration(fps)
	}
}

// WithRenderFrameLimit caps the render rate. Pass 0 to uncap it.
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameLimit(fps)
	}
}

// WithWindow sets the window frames are presented into.
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithContext sets the surface context frames are recorded into.
func WithContext(ctx renderer.SurfaceContext) EngineBuilderOption {
	return func(e *engine) {
		e.context = ctx
	}
}

// WithPipeline sets the render pipeline.
func WithPipeline(p *render_pipeline.RenderPipeline) EngineBuilderOption {
	return func(e *engine) {
		e.pipeline = p
	}
}

// WithCameras adds cameras in render order.
//
// Parameters:
//   - cameras: the cameras to add
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCameras(cameras ...camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.cameras = append(e.cameras, cameras...)
	}
}
