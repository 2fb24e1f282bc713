package camera_renderer

import (
	"github.com/Carmen-Shannon/oxy-rp/engine/culling"
	"github.com/Carmen-Shannon/oxy-rp/engine/light"
	"github.com/Carmen-Shannon/oxy-rp/engine/postfx"
)

// CameraRendererBuilderOption configures a CameraRenderer during construction.
type CameraRendererBuilderOption func(*cameraRendererImpl)

// WithDrawSubmitter sets the submitter that draws the opaque and transparent batches.
//
// Parameters:
//   - s: the draw submitter
//
// Returns:
//   - CameraRendererBuilderOption: a function that applies the submitter to a renderer
func WithDrawSubmitter(s culling.DrawSubmitter) CameraRendererBuilderOption {
	return func(r *cameraRendererImpl) {
		r.submitter = s
	}
}

// WithCollector sets the light collector. The renderer becomes the collector's only user.
//
// Parameters:
//   - c: the light collector
//
// Returns:
//   - CameraRendererBuilderOption: a function that applies the collector to a renderer
func WithCollector(c light.Collector) CameraRendererBuilderOption {
	return func(r *cameraRendererImpl) {
		r.collector = c
	}
}

// WithPostFXStack replaces the default post-processing stack.
func WithPostFXStack(s postfx.Stack) CameraRendererBuilderOption {
	return func(r *cameraRendererImpl) {
		r.stack = s
	}
}

// WithEditorHooks sets the editor hooks.
func WithEditorHooks(h EditorHooks) CameraRendererBuilderOption {
	return func(r *cameraRendererImpl) {
		r.hooks = h
	}
}

// WithShaderPasses sets the pass tags the geometry batches draw.
//
// Parameters:
//   - passes: the pass tags
//
// Returns:
//   - CameraRendererBuilderOption: a function that applies the pass tags to a renderer
func WithShaderPasses(passes ...string) CameraRendererBuilderOption {
	return func(r *cameraRendererImpl) {
		r.shaderPasses = passes
	}
}

// WithRenderingLayerMask restricts the geometry batches to drawables on the given layers.
func WithRenderingLayerMask(mask uint32) CameraRendererBuilderOption {
	return func(r *cameraRendererImpl) {
		r.layerMask = mask
	}
}
