package postfx

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/Carmen-Shannon/oxy-rp/engine/camera"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
)

// ErrInactive is returned by Render when the stack has no settings for the current camera.
var ErrInactive = errors.New("post-processing stack is inactive")

// Config is the part of a camera frame the stack reads.
type Config struct {
	// Scope owns every temporary the stack acquires.
	Scope         *renderer.TemporaryScope
	Camera        camera.Camera
	BufferSize    common.Size
	UseHDR        bool
	KeepAlpha     bool
	LUTResolution LUTResolution
	FXAA          FXAA
	FinalBlend    camera.FinalBlendMode
}

// Stack renders bloom, color grading, tone mapping, FXAA and the final rescale for one camera.
type Stack interface {
	// Configure prepares the stack for a camera frame. Settings are dropped for cameras that are neither
	// game nor scene-view cameras, which leaves the stack inactive.
	//
	// Parameters:
	//   - cfg: the frame configuration
	//   - settings: the post-processing settings, or nil to disable the stack
	Configure(cfg Config, settings *Settings)

	// IsActive reports whether the stack has settings for the configured frame.
	IsActive() bool

	// Render post-processes source and writes the result to the camera target. Every temporary the
	// stack acquires is released before Render returns successfully.
	//
	// Parameters:
	//   - source: the camera color attachment
	//
	// Returns:
	//   - error: ErrInactive, or an error from the render context
	Render(source renderer.TargetID) error
}

type stackImpl struct {
	cfg      Config
	settings *Settings
}

var _ Stack = &stackImpl{}

// NewStack creates an inactive stack.
//
// Returns:
//   - Stack: the stack
func NewStack() Stack {
	return &stackImpl{}
}

func (s *stackImpl) Configure(cfg Config, settings *Settings) {
	s.cfg = cfg
	if !cfg.LUTResolution.Valid() {
		s.cfg.LUTResolution = LUT32
	}
	s.settings = nil
	if cfg.Camera != nil && cfg.Camera.Kind() <= camera.KindSceneView {
		s.settings = settings
	}
}

func (s *stackImpl) IsActive() bool {
	return s.settings != nil
}

func (s *stackImpl) Render(source renderer.TargetID) error {
	if !s.IsActive() || s.cfg.Scope == nil {
		return ErrInactive
	}
	ctx := s.cfg.Scope.Context()
	ctx.BeginSample("Post FX")
	defer ctx.EndSample("Post FX")

	bloomed, err := s.doBloom(source)
	if err != nil {
		return fmt.Errorf("bloom: %w", err)
	}
	if !bloomed {
		return s.doFinal(source)
	}
	result := renderer.Target(shader.BloomResult)
	if err := s.doFinal(result); err != nil {
		return err
	}
	return s.cfg.Scope.Release(result)
}

func (s *stackImpl) format() renderer.Format {
	if s.cfg.UseHDR {
		return renderer.FormatDefaultHDR
	}
	return renderer.FormatDefault
}

func (s *stackImpl) acquire(p shader.Property, size common.Size, format renderer.Format) (renderer.TargetID, error) {
	id := renderer.Target(p)
	return id, s.cfg.Scope.Acquire(id, renderer.TextureDescriptor{
		Width:  size.Width,
		Height: size.Height,
		Filter: renderer.FilterBilinear,
		Format: format,
	})
}

// draw runs pass with from bound as the source and to as the color target.
func (s *stackImpl) draw(from, to renderer.TargetID, pass Pass) error {
	ctx := s.cfg.Scope.Context()
	ctx.SetGlobalTexture(shader.FXSource, from)
	ctx.SetRenderTarget(to, renderer.LoadDontCare, renderer.NoTarget, renderer.LoadDontCare)
	return ctx.DrawFullscreen(shader.ProgramPostFX, int(pass))
}

// finalDraw writes to the camera target inside the camera pixel rect with the camera's final blend.
func (s *stackImpl) finalDraw(from renderer.TargetID, pass Pass) error {
	ctx := s.cfg.Scope.Context()
	blend := s.cfg.FinalBlend
	ctx.SetGlobalFloat(shader.FinalSrcBlend, float32(blend.Source))
	ctx.SetGlobalFloat(shader.FinalDstBlend, float32(blend.Destination))
	ctx.SetGlobalTexture(shader.FXSource, from)
	load := renderer.LoadDontCare
	if blend.Destination != renderer.BlendZero {
		load = renderer.LoadLoad
	}
	ctx.SetRenderTarget(renderer.CameraTarget, load, renderer.NoTarget, renderer.LoadDontCare)
	ctx.SetViewport(s.cfg.Camera.PixelRect())
	return ctx.DrawFullscreen(shader.ProgramPostFX, int(pass))
}
