package light

import "github.com/Carmen-Shannon/oxy-rp/common"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = [3]float32{x, y, z}
	}
}

// WithDirection is an option builder that sets the direction of the light.
// The direction is normalized before storing.
//
// Parameters:
//   - x: the x direction component
//   - y: the y direction component
//   - z: the z direction component
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = common.Normalize3([3]float32{x, y, z})
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = [3]float32{r, g, b}
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithRange is an option builder that sets the maximum attenuation distance for
// point and spot lights.
//
// Parameters:
//   - lightRange: the range value
//
// Returns:
//   - LightBuilderOption: a function that applies the range option to a lightImpl
func WithRange(lightRange float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightRange = lightRange
	}
}

// WithSpotAngles is an option builder that sets the full inner and outer cone angles of a spot light in
// degrees. The collector converts them to the half-angle cosines the shader falloff uses.
//
// Parameters:
//   - innerDeg: inner cone angle in degrees
//   - outerDeg: outer cone angle in degrees
//
// Returns:
//   - LightBuilderOption: a function that applies the spot angle option to a lightImpl
func WithSpotAngles(innerDeg, outerDeg float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.SetSpotAngles(innerDeg, outerDeg)
	}
}

// WithEnabled is an option builder that sets whether the light is active for rendering.
//
// Parameters:
//   - enabled: true to enable the light
//
// Returns:
//   - LightBuilderOption: a function that applies the enabled option to a lightImpl
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

// WithShadows is an option builder that enables shadow casting with the given strength and normal bias.
//
// Parameters:
//   - strength: the shadow strength, clamped to [0, 1]
//   - normalBias: the normal offset bias
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow option to a lightImpl
func WithShadows(strength, normalBias float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.SetShadows(true, strength, normalBias)
	}
}

// WithRenderingLayerMask sets the rendering layers the light affects.
func WithRenderingLayerMask(mask uint32) LightBuilderOption {
	return func(l *lightImpl) {
		l.renderingLayerMask = mask
	}
}
