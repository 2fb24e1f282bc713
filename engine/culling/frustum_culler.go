package culling

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/Carmen-Shannon/oxy-rp/engine/camera"
	"github.com/Carmen-Shannon/oxy-rp/engine/light"
)

type frustumCuller struct {
	mu        *sync.Mutex
	lights    []light.Light
	drawables []Drawable
}

// FrustumCuller culls lights and drawables against the camera frustum. It also owns the scene contents
// it culls.
type FrustumCuller interface {
	Culler

	// AddLight adds a light to the scene.
	AddLight(l light.Light)

	// AddDrawable adds a drawable to the scene.
	AddDrawable(d Drawable)

	// Lights returns the scene lights.
	Lights() []light.Light
}

var _ FrustumCuller = &frustumCuller{}

// NewFrustumCuller creates a culler over the given scene contents.
//
// Parameters:
//   - opts: variadic list of FrustumCullerBuilderOption functions
//
// Returns:
//   - FrustumCuller: the culler
func NewFrustumCuller(opts ...FrustumCullerBuilderOption) FrustumCuller {
	c := &frustumCuller{mu: &sync.Mutex{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *frustumCuller) AddLight(l light.Light) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lights = append(c.lights, l)
}

func (c *frustumCuller) AddDrawable(d Drawable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drawables = append(c.drawables, d)
}

func (c *frustumCuller) Lights() []light.Light {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]light.Light(nil), c.lights...)
}

// Cull fails for cameras with an empty pixel rect, a non-positive near plane, a far plane not beyond
// the near plane or a degenerate view-projection matrix.
func (c *frustumCuller) Cull(cam camera.Camera, maxShadowDistance float32) (Results, bool) {
	if cam == nil || cam.PixelRect().Size().Empty() || cam.Near() <= 0 || cam.Far() <= cam.Near() {
		return nil, false
	}
	frustum, ok := common.ExtractFrustumFromMatrix(cam.ViewProjectionMatrix())
	if !ok {
		return nil, false
	}
	shadowDistance := min(maxShadowDistance, cam.Far())

	c.mu.Lock()
	defer c.mu.Unlock()

	var visible []light.VisibleLight
	for _, l := range c.lights {
		if !l.Enabled() {
			continue
		}
		if l.Type() != light.LightTypeDirectional && !frustum.IntersectsSphere(l.Position(), l.Range()) {
			continue
		}
		visible = append(visible, light.NewVisibleLight(l))
	}

	var drawables []Drawable
	for _, d := range c.drawables {
		center, radius := d.Bounds()
		if frustum.IntersectsSphere(center, radius) {
			drawables = append(drawables, d)
		}
	}
	common.Logger().Debug("culled", "camera", cam.Name(), "lights", len(visible), "drawables", len(drawables))
	return NewResults(cam, visible, drawables, shadowDistance), true
}
