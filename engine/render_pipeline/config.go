package render_pipeline

import (
	"github.com/Carmen-Shannon/oxy-rp/engine/camera_renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/light"
	"github.com/Carmen-Shannon/oxy-rp/engine/postfx"
)

// Config is the pipeline configuration. It is read-only while a frame renders; replace it between
// frames with RenderPipeline.SetConfig.
type Config struct {
	Buffer        camera_renderer.BufferSettings
	Batching      camera_renderer.BatchingSettings
	Shadows       light.ShadowSettings
	PostFX        *postfx.Settings
	LUTResolution postfx.LUTResolution
	LightLimits   light.Limits
}

// DefaultConfig returns the default buffer settings with dynamic batching and instancing on, default
// shadows and light limits, a 32 LUT and no post-processing.
func DefaultConfig() Config {
	return Config{
		Buffer:        camera_renderer.DefaultBufferSettings(),
		Batching:      camera_renderer.BatchingSettings{DynamicBatching: true, Instancing: true},
		Shadows:       light.DefaultShadowSettings(),
		LUTResolution: postfx.LUT32,
		LightLimits:   light.DefaultLimits(),
	}
}

// ConfigOption changes one part of a Config.
type ConfigOption func(*Config)

// WithBufferSettings sets the camera buffer settings.
//
// Parameters:
//   - b: the buffer settings
//
// Returns:
//   - ConfigOption: a function that applies the settings to a config
func WithBufferSettings(b camera_renderer.BufferSettings) ConfigOption {
	return func(c *Config) {
		c.Buffer = b
	}
}

// WithBatching sets the geometry batching flags.
func WithBatching(b camera_renderer.BatchingSettings) ConfigOption {
	return func(c *Config) {
		c.Batching = b
	}
}

// WithShadowSettings sets the shadow settings.
func WithShadowSettings(s light.ShadowSettings) ConfigOption {
	return func(c *Config) {
		c.Shadows = s
	}
}

// WithPostFX enables post-processing with a copy of the given settings. Nil disables it.
func WithPostFX(s *postfx.Settings) ConfigOption {
	return func(c *Config) {
		c.PostFX = clonePostFX(s)
	}
}

func clonePostFX(s *postfx.Settings) *postfx.Settings {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// WithLUTResolution sets the color grading LUT size.
func WithLUTResolution(r postfx.LUTResolution) ConfigOption {
	return func(c *Config) {
		c.LUTResolution = r
	}
}

// WithLightLimits sets the per-frame light caps. It only takes effect when passed to New.
func WithLightLimits(l light.Limits) ConfigOption {
	return func(c *Config) {
		c.LightLimits = l
	}
}
