package culling

import (
	"math"

	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
)

// FullscreenDrawable draws one pass of a full-screen program with the render state of a material.
// It is never culled.
type FullscreenDrawable struct {
	Material material.Material
	Program  shader.Program
	Pass     int
	Layers   uint32
}

var _ Drawable = &FullscreenDrawable{}

func (f *FullscreenDrawable) Name() string {
	return f.Material.Name()
}

func (f *FullscreenDrawable) Bounds() ([3]float32, float32) {
	return [3]float32{}, float32(math.Inf(1))
}

func (f *FullscreenDrawable) RenderQueue() int {
	return f.Material.RenderQueue()
}

func (f *FullscreenDrawable) RenderingLayerMask() uint32 {
	if f.Layers == 0 {
		return 1
	}
	return f.Layers
}

func (f *FullscreenDrawable) CastsShadows() bool {
	return f.Material.ShadowCasterEnabled() && f.Material.ShadowMode() != material.ShadowsOff
}

func (f *FullscreenDrawable) Draw(ctx renderer.Context, settings DrawSettings) error {
	return ctx.DrawFullscreen(f.Program, f.Pass)
}
