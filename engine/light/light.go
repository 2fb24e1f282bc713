package light

import "github.com/Carmen-Shannon/oxy-rp/common"

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun or moon. Affects all fragments
	// uniformly with no distance attenuation.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position.
	// Used for bare bulbs, lanterns, candle flames, and particle-emitted lights.
	// Attenuates with distance up to a configurable range.
	LightTypePoint

	// LightTypeSpot represents a light that emits in a cone from a position along a direction.
	// Used for flashlights, desk lamps, and wall sconces. Attenuates with both
	// distance and angle from the cone axis, controlled by inner and outer cone angles.
	LightTypeSpot
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType          LightType
	position           [3]float32
	direction          [3]float32
	color              [3]float32
	intensity          float32
	lightRange         float32
	innerSpotAngle     float32 // full cone angle in degrees
	spotAngle          float32 // full cone angle in degrees
	enabled            bool
	castsShadows       bool
	shadowStrength     float32
	shadowNormalBias   float32
	renderingLayerMask uint32
}

// Light defines the interface for a light source in the scene.
//
// All light types (directional, point, spot) share this interface; type-specific properties (e.g. cone angles
// for spot lights) are ignored when not applicable. The culler turns enabled lights into VisibleLight
// records and the Collector packs those into the bounded shader arrays each frame.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional, point, or spot)
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for directional lights.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Direction returns the normalized direction the light shines in.
	// For directional lights this is the light direction. For spot lights this
	// is the cone axis. Meaningless for point lights.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Range returns the maximum attenuation distance for point and spot lights.
	//
	// Returns:
	//   - float32: the range value
	Range() float32

	// InnerSpotAngle returns the full inner cone angle of a spot light in degrees.
	InnerSpotAngle() float32

	// SpotAngle returns the full outer cone angle of a spot light in degrees.
	SpotAngle() float32

	// Enabled returns whether this light is active for rendering.
	// Disabled lights are never visible.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// CastsShadows returns whether this light requests a shadow map slot.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// ShadowStrength returns the shadow strength in [0, 1].
	ShadowStrength() float32

	// ShadowNormalBias returns the normal offset applied when sampling the shadow map.
	ShadowNormalBias() float32

	// RenderingLayerMask returns the rendering layers the light affects.
	RenderingLayerMask() uint32

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetDirection sets the direction of the light and normalizes it.
	//
	// Parameters:
	//   - x, y, z: direction components (will be normalized)
	SetDirection(x, y, z float32)

	// SetColor sets the RGB color of the light.
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier.
	SetIntensity(intensity float32)

	// SetRange sets the maximum attenuation distance.
	SetRange(lightRange float32)

	// SetSpotAngles sets the full inner and outer cone angles of a spot light in degrees.
	// The inner angle is clamped to the outer angle.
	//
	// Parameters:
	//   - innerDeg: inner cone angle in degrees
	//   - outerDeg: outer cone angle in degrees
	SetSpotAngles(innerDeg, outerDeg float32)

	// SetEnabled enables or disables the light for rendering.
	SetEnabled(enabled bool)

	// SetShadows configures shadow casting.
	//
	// Parameters:
	//   - castsShadows: true to request a shadow map slot
	//   - strength: the shadow strength, clamped to [0, 1]
	//   - normalBias: the normal offset bias
	SetShadows(castsShadows bool, strength, normalBias float32)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with sensible defaults and
// any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create (directional, point, or spot)
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:          lightType,
		direction:          [3]float32{0, -1, 0},
		color:              [3]float32{1, 1, 1},
		intensity:          1.0,
		lightRange:         10.0,
		innerSpotAngle:     21.8,
		spotAngle:          30,
		enabled:            true,
		shadowStrength:     1,
		shadowNormalBias:   1,
		renderingLayerMask: 1,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	return l.position
}

func (l *lightImpl) Direction() [3]float32 {
	return l.direction
}

func (l *lightImpl) Color() [3]float32 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) InnerSpotAngle() float32 {
	return l.innerSpotAngle
}

func (l *lightImpl) SpotAngle() float32 {
	return l.spotAngle
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) ShadowStrength() float32 {
	return l.shadowStrength
}

func (l *lightImpl) ShadowNormalBias() float32 {
	return l.shadowNormalBias
}

func (l *lightImpl) RenderingLayerMask() uint32 {
	return l.renderingLayerMask
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = [3]float32{x, y, z}
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.direction = common.Normalize3([3]float32{x, y, z})
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetRange(lightRange float32) {
	l.lightRange = lightRange
}

func (l *lightImpl) SetSpotAngles(innerDeg, outerDeg float32) {
	l.spotAngle = common.Clamp(outerDeg, 0, 180)
	l.innerSpotAngle = common.Clamp(innerDeg, 0, l.spotAngle)
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) SetShadows(castsShadows bool, strength, normalBias float32) {
	l.castsShadows = castsShadows
	l.shadowStrength = common.Saturate(strength)
	l.shadowNormalBias = normalBias
}
