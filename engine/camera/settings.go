package camera

import "github.com/Carmen-Shannon/oxy-rp/engine/renderer"

// RenderScaleMode selects how a camera's render scale combines with the pipeline scale.
type RenderScaleMode int

const (
	// RenderScaleInherit uses the pipeline scale unchanged.
	RenderScaleInherit RenderScaleMode = iota
	// RenderScaleMultiply multiplies the pipeline scale by the camera scale.
	RenderScaleMultiply
	// RenderScaleOverride ignores the pipeline scale.
	RenderScaleOverride
)

func (m RenderScaleMode) String() string {
	switch m {
	case RenderScaleInherit:
		return "Inherit"
	case RenderScaleMultiply:
		return "Multiply"
	case RenderScaleOverride:
		return "Override"
	default:
		return "Unknown"
	}
}

// FinalBlendMode is the blend applied when the camera's final image is written to the presentation target.
type FinalBlendMode struct {
	Source      renderer.BlendFactor
	Destination renderer.BlendFactor
}

// Settings is the camera-level override of the pipeline configuration.
type Settings struct {
	CopyColor       bool
	CopyDepth       bool
	RenderScaleMode RenderScaleMode
	RenderScale     float32
	AllowFXAA       bool
	KeepAlpha       bool
	FinalBlend      FinalBlendMode
}

// DefaultSettings returns settings that inherit the pipeline scale, allow both copies and blend with One/Zero.
func DefaultSettings() Settings {
	return Settings{
		CopyColor:   true,
		CopyDepth:   true,
		RenderScale: 1,
		FinalBlend:  FinalBlendMode{Source: renderer.BlendOne, Destination: renderer.BlendZero},
	}
}

// GetRenderScale resolves the effective render scale before clamping.
//
// Parameters:
//   - scale: the pipeline render scale
//
// Returns:
//   - float32: the pipeline scale, the camera scale, or their product depending on RenderScaleMode
func (s Settings) GetRenderScale(scale float32) float32 {
	switch s.RenderScaleMode {
	case RenderScaleOverride:
		return s.RenderScale
	case RenderScaleMultiply:
		return scale * s.RenderScale
	default:
		return scale
	}
}
