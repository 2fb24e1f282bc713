package culling

import "github.com/Carmen-Shannon/oxy-rp/engine/light"

// FrustumCullerBuilderOption configures a FrustumCuller during construction.
type FrustumCullerBuilderOption func(*frustumCuller)

// WithLights adds lights to the culled scene.
//
// Parameters:
//   - lights: the lights
//
// Returns:
//   - FrustumCullerBuilderOption: a function that appends the lights
func WithLights(lights ...light.Light) FrustumCullerBuilderOption {
	return func(c *frustumCuller) {
		c.lights = append(c.lights, lights...)
	}
}

// WithDrawables adds drawables to the culled scene.
//
// Parameters:
//   - drawables: the drawables
//
// Returns:
//   - FrustumCullerBuilderOption: a function that appends the drawables
func WithDrawables(drawables ...Drawable) FrustumCullerBuilderOption {
	return func(c *frustumCuller) {
		c.drawables = append(c.drawables, drawables...)
	}
}
