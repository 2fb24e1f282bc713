package render_pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-rp/engine/camera"
	"github.com/Carmen-Shannon/oxy-rp/engine/camera_renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/culling"
	"github.com/Carmen-Shannon/oxy-rp/engine/light"
	"github.com/Carmen-Shannon/oxy-rp/engine/profiler"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
)

// RenderPipeline renders every camera of a frame, one after another, with a single CameraRenderer.
type RenderPipeline struct {
	mu *sync.Mutex

	config   Config
	culler   culling.FrustumCuller
	renderer camera_renderer.CameraRenderer
	profiler *profiler.Profiler
}

// New creates a pipeline over an empty frustum culler. Register lights and drawables with Culler.
//
// Parameters:
//   - opts: variadic list of ConfigOption functions applied to DefaultConfig
//
// Returns:
//   - *RenderPipeline: the pipeline
func New(opts ...ConfigOption) *RenderPipeline {
	return NewWithRenderer(culling.NewFrustumCuller(), nil, opts...)
}

// NewWithRenderer creates a pipeline over culler with extra camera renderer options, such as a custom draw
// submitter or editor hooks.
//
// Parameters:
//   - culler: the visibility provider
//   - rendererOpts: options for the camera renderer; the light collector is built from the config
//   - opts: variadic list of ConfigOption functions applied to DefaultConfig
//
// Returns:
//   - *RenderPipeline: the pipeline
func NewWithRenderer(culler culling.FrustumCuller, rendererOpts []camera_renderer.CameraRendererBuilderOption, opts ...ConfigOption) *RenderPipeline {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	collector := light.NewCollector(light.WithLimits(cfg.LightLimits))
	rendererOpts = append([]camera_renderer.CameraRendererBuilderOption{camera_renderer.WithCollector(collector)}, rendererOpts...)
	return &RenderPipeline{
		mu:       &sync.Mutex{},
		config:   cfg,
		culler:   culler,
		renderer: camera_renderer.NewCameraRenderer(culler, rendererOpts...),
	}
}

// Culler returns the culler that owns the scene's lights and drawables.
func (p *RenderPipeline) Culler() culling.FrustumCuller {
	return p.culler
}

// Config returns a copy of the current configuration.
func (p *RenderPipeline) Config() Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	cfg := p.config
	cfg.PostFX = clonePostFX(cfg.PostFX)
	return cfg
}

// SetConfig applies options to the current configuration. It waits for a frame in progress to finish.
// Light limits are fixed at construction.
//
// Parameters:
//   - opts: the changes to apply
func (p *RenderPipeline) SetConfig(opts ...ConfigOption) {
	p.mu.Lock()
	defer p.mu.Unlock()
	limits := p.config.LightLimits
	for _, opt := range opts {
		opt(&p.config)
	}
	p.config.LightLimits = limits
}

// SetProfiler attaches a profiler that receives one FrameStats per Render call. Nil detaches it.
func (p *RenderPipeline) SetProfiler(prof *profiler.Profiler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profiler = prof
}

// Render renders cameras in order into ctx. Rendering stops at the first camera that fails; the results
// of the cameras rendered before it are returned with the error.
//
// Parameters:
//   - ctx: the frame's render context
//   - cameras: the cameras to render
//
// Returns:
//   - []camera_renderer.FrameResult: one result per rendered camera
//   - error: the first camera error
func (p *RenderPipeline) Render(ctx renderer.Context, cameras []camera.Camera) ([]camera_renderer.FrameResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	results := make([]camera_renderer.FrameResult, 0, len(cameras))
	stats := profiler.FrameStats{}
	defer func() {
		if p.profiler != nil {
			stats.Duration = time.Since(start)
			p.profiler.Tick(stats)
		}
	}()

	cfg := p.config
	for i, cam := range cameras {
		res, err := p.renderer.RenderFrame(ctx, cam, cfg.Buffer, cfg.Batching, cfg.Shadows, cfg.PostFX, cfg.LUTResolution)
		stats.Cameras++
		stats.Temporaries += res.Temporaries
		if res.Skipped {
			stats.Skipped++
		}
		if err != nil {
			return results, fmt.Errorf("camera %d: %w", i, err)
		}
		results = append(results, res)
	}
	return results, nil
}
