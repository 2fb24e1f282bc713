package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithColorFormat sets the format of the color target. wgpu.TextureFormatUndefined drops the color target.
//
// Parameters:
//   - format: the color target format
//
// Returns:
//   - PipelineBuilderOption: a function that sets the color format for this pipeline
func WithColorFormat(format wgpu.TextureFormat) PipelineBuilderOption {
	return func(p *pipeline) {
		p.key.ColorFormat = format
	}
}

// WithDepthFormat sets the format of the depth target. Depth is always compared with Always so the full-screen
// triangle is never rejected.
//
// Parameters:
//   - format: the depth target format, or wgpu.TextureFormatUndefined for none
//   - write: whether the pass writes depth
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth format for this pipeline
func WithDepthFormat(format wgpu.TextureFormat, write bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.key.DepthFormat = format
		p.depthWriteEnabled = write
	}
}

// WithBlend sets the source and destination blend factors used for both color and alpha.
//
// Parameters:
//   - src: the source factor
//   - dst: the destination factor
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend factors for this pipeline
func WithBlend(src, dst wgpu.BlendFactor) PipelineBuilderOption {
	return func(p *pipeline) {
		p.key.SrcBlend = src
		p.key.DstBlend = dst
	}
}

// WithWriteMask sets the color write mask for this pipeline.
//
// Parameters:
//   - writeMask: the color write mask
//
// Returns:
//   - PipelineBuilderOption: a function that sets the color write mask for this pipeline
func WithWriteMask(writeMask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.writeMask = writeMask
	}
}
