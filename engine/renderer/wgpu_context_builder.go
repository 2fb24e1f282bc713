package renderer

import "github.com/cogentcore/webgpu/wgpu"

// WGPUContextBuilderOption configures the WebGPU context during construction.
type WGPUContextBuilderOption func(*wgpuContextImpl)

// WithPresentMode sets the presentation mode used when the surface is configured.
//
// Parameters:
//   - mode: PresentModeVSync or PresentModeUncapped
//
// Returns:
//   - WGPUContextBuilderOption: a function that applies the present mode
func WithPresentMode(mode PresentMode) WGPUContextBuilderOption {
	return func(c *wgpuContextImpl) {
		switch mode {
		case PresentModeUncapped:
			c.presentMode = wgpu.PresentModeImmediate
		default:
			c.presentMode = wgpu.PresentModeFifo
		}
	}
}

// WithForceSoftwareRenderer requests the fallback (software) adapter.
//
// Parameters:
//   - force: true to force the fallback adapter
//
// Returns:
//   - WGPUContextBuilderOption: a function that applies the adapter preference
func WithForceSoftwareRenderer(force bool) WGPUContextBuilderOption {
	return func(c *wgpuContextImpl) {
		c.forceFallback = force
	}
}

// WithHardwareCopies sets whether CopyImage is reported as available. Disabling it exercises the draw-based
// attachment copy path.
//
// Parameters:
//   - enabled: false to disable texture-to-texture copies
//
// Returns:
//   - WGPUContextBuilderOption: a function that applies the copy support flag
func WithHardwareCopies(enabled bool) WGPUContextBuilderOption {
	return func(c *wgpuContextImpl) {
		c.copySupported = enabled
	}
}

// WithShaderValidation compiles every program with naga before handing it to the device and logs what naga
// rejects.
//
// Parameters:
//   - enabled: true to validate programs on first use
//
// Returns:
//   - WGPUContextBuilderOption: a function that applies the validation flag
func WithShaderValidation(enabled bool) WGPUContextBuilderOption {
	return func(c *wgpuContextImpl) {
		c.validate = enabled
	}
}
