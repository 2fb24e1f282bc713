package camera_renderer

import "github.com/Carmen-Shannon/oxy-rp/engine/postfx"

// Render scale limits and the tolerance inside which a scale counts as native.
const (
	RenderScaleMin     float32 = 0.01
	RenderScaleMax     float32 = 2
	RenderScaleEpsilon float32 = 0.01
)

// BufferSettings is the pipeline-level camera buffer configuration.
type BufferSettings struct {
	AllowHDR            bool
	CopyColor           bool
	CopyColorReflection bool
	CopyDepth           bool
	CopyDepthReflection bool
	RenderScale         float32
	FXAA                postfx.FXAA
}

// DefaultBufferSettings returns HDR allowed, native scale, no attachment copies and the default FXAA
// thresholds with FXAA disabled.
func DefaultBufferSettings() BufferSettings {
	return BufferSettings{
		AllowHDR:    true,
		RenderScale: 1,
		FXAA:        postfx.DefaultFXAA(),
	}
}

// BatchingSettings controls how the geometry batches are drawn.
type BatchingSettings struct {
	DynamicBatching bool
	Instancing      bool
	LightsPerObject bool
}
