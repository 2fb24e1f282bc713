package light

import (
	"math"

	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
)

// Limits caps the number of lights collected per frame. Lights past a cap are dropped silently, first
// encountered wins.
type Limits struct {
	MaxDirectional int
	MaxOther       int
}

// DefaultLimits returns 4 directional and 64 other lights, the capacity of the shader arrays.
func DefaultLimits() Limits {
	return Limits{MaxDirectional: shader.MaxDirectionalLights, MaxOther: shader.MaxOtherLights}
}

// Buffers holds the shader-ready light arrays of one frame. The slices are sized to the collected counts
// and reuse storage allocated once by the Collector.
type Buffers struct {
	DirectionalColors             [][4]float32
	DirectionalDirectionsAndMasks [][4]float32
	DirectionalShadowData         [][4]float32
	OtherColors                   [][4]float32
	OtherPositions                [][4]float32
	OtherDirectionsAndMasks       [][4]float32
	OtherSpotAngles               [][4]float32
	OtherShadowData               [][4]float32
}

// DirectionalCount returns the number of collected directional lights.
func (b *Buffers) DirectionalCount() int {
	return len(b.DirectionalColors)
}

// OtherCount returns the number of collected point and spot lights.
func (b *Buffers) OtherCount() int {
	return len(b.OtherColors)
}

func newBuffers(l Limits) *Buffers {
	return &Buffers{
		DirectionalColors:             make([][4]float32, 0, l.MaxDirectional),
		DirectionalDirectionsAndMasks: make([][4]float32, 0, l.MaxDirectional),
		DirectionalShadowData:         make([][4]float32, 0, l.MaxDirectional),
		OtherColors:                   make([][4]float32, 0, l.MaxOther),
		OtherPositions:                make([][4]float32, 0, l.MaxOther),
		OtherDirectionsAndMasks:       make([][4]float32, 0, l.MaxOther),
		OtherSpotAngles:               make([][4]float32, 0, l.MaxOther),
		OtherShadowData:               make([][4]float32, 0, l.MaxOther),
	}
}

func (b *Buffers) reset() {
	b.DirectionalColors = b.DirectionalColors[:0]
	b.DirectionalDirectionsAndMasks = b.DirectionalDirectionsAndMasks[:0]
	b.DirectionalShadowData = b.DirectionalShadowData[:0]
	b.OtherColors = b.OtherColors[:0]
	b.OtherPositions = b.OtherPositions[:0]
	b.OtherDirectionsAndMasks = b.OtherDirectionsAndMasks[:0]
	b.OtherSpotAngles = b.OtherSpotAngles[:0]
	b.OtherShadowData = b.OtherShadowData[:0]
}

// Collector converts a camera's visible lights into the bounded light arrays and uploads them.
// A Collector owns its arrays; it must not be used by two camera renders at once.
type Collector interface {
	// Collect fills the light arrays from the visible lights in culling order.
	//
	// Parameters:
	//   - visible: the visible lights
	//   - indexMapSize: the engine's light index map length, used when perObject is set
	//   - shadows: the allocator that supplies each accepted light's shadow data
	//   - perObject: whether to build the per-object light index remap
	//
	// Returns:
	//   - *Buffers: the filled arrays, valid until the next Collect
	//   - []int: the remap, sized max(indexMapSize, len(visible)), or nil when perObject is false
	Collect(visible []VisibleLight, indexMapSize int, shadows ShadowAllocator, perObject bool) (*Buffers, []int)

	// Setup runs the shadow allocator setup, collects the lights, stores the remap on the culling results,
	// toggles the per-object keyword, uploads counts and arrays and renders the reserved shadows.
	//
	// Parameters:
	//   - ctx: the frame's render context
	//   - results: the camera's culling results
	//   - settings: the frame's shadow settings
	//   - perObject: whether per-object light indexing is enabled
	Setup(ctx renderer.Context, results CullingResults, settings ShadowSettings, perObject bool)

	// Cleanup releases the shadow allocator's frame resources.
	Cleanup(ctx renderer.Context)

	// Limits returns the collector's capacity.
	Limits() Limits
}

type collectorImpl struct {
	limits  Limits
	shadows ShadowAllocator
	buffers *Buffers
	remap   []int
}

var _ Collector = &collectorImpl{}

// NewCollector creates a collector with DefaultLimits and the default shadow allocator unless overridden.
// Limits above the shader array capacity are clamped to it.
//
// Parameters:
//   - opts: variadic list of CollectorBuilderOption functions
//
// Returns:
//   - Collector: the collector
func NewCollector(opts ...CollectorBuilderOption) Collector {
	c := &collectorImpl{limits: DefaultLimits()}
	for _, opt := range opts {
		opt(c)
	}
	c.limits.MaxDirectional = max(0, min(c.limits.MaxDirectional, shader.MaxDirectionalLights))
	c.limits.MaxOther = max(0, min(c.limits.MaxOther, shader.MaxOtherLights))
	if c.shadows == nil {
		c.shadows = NewShadowAllocator()
	}
	c.buffers = newBuffers(c.limits)
	return c
}

func (c *collectorImpl) Limits() Limits {
	return c.limits
}

func (c *collectorImpl) Collect(visible []VisibleLight, indexMapSize int, shadows ShadowAllocator, perObject bool) (*Buffers, []int) {
	b := c.buffers
	b.reset()
	var remap []int
	if perObject {
		remap = c.remapBuffer(max(indexMapSize, len(visible)))
	}

	for i := range visible {
		v := &visible[i]
		newIndex := -1
		switch v.Type {
		case LightTypeDirectional:
			if b.DirectionalCount() < c.limits.MaxDirectional {
				c.addDirectional(v, i, shadows)
			}
		case LightTypePoint, LightTypeSpot:
			if b.OtherCount() < c.limits.MaxOther {
				newIndex = b.OtherCount()
				c.addOther(v, i, shadows)
			}
		}
		if perObject {
			remap[i] = newIndex
		}
	}
	return b, remap
}

func (c *collectorImpl) remapBuffer(n int) []int {
	if cap(c.remap) < n {
		c.remap = make([]int, n)
	}
	c.remap = c.remap[:n]
	for i := range c.remap {
		c.remap[i] = -1
	}
	return c.remap
}

func maskBits(l Light) float32 {
	if l == nil {
		return 0
	}
	return math.Float32frombits(l.RenderingLayerMask())
}

func (c *collectorImpl) addDirectional(v *VisibleLight, visibleIndex int, shadows ShadowAllocator) {
	b := c.buffers
	b.DirectionalColors = append(b.DirectionalColors, v.FinalColor)
	b.DirectionalDirectionsAndMasks = append(b.DirectionalDirectionsAndMasks,
		[4]float32{-v.Forward[0], -v.Forward[1], -v.Forward[2], maskBits(v.Light)})
	b.DirectionalShadowData = append(b.DirectionalShadowData, reserve(shadows, v, visibleIndex, true))
}

func (c *collectorImpl) addOther(v *VisibleLight, visibleIndex int, shadows ShadowAllocator) {
	b := c.buffers
	b.OtherColors = append(b.OtherColors, v.FinalColor)
	b.OtherPositions = append(b.OtherPositions,
		[4]float32{v.Position[0], v.Position[1], v.Position[2], PointAttenuation(v.Range)})

	direction := [4]float32{0, 0, 0, maskBits(v.Light)}
	angles := [4]float32{0, 1, 0, 0}
	if v.Type == LightTypeSpot {
		direction[0], direction[1], direction[2] = -v.Forward[0], -v.Forward[1], -v.Forward[2]
		inner := v.SpotAngle
		if v.Light != nil {
			inner = v.Light.InnerSpotAngle()
		}
		scale, offset := SpotAngles(inner, v.SpotAngle)
		angles = [4]float32{scale, offset, 0, 0}
	}
	b.OtherDirectionsAndMasks = append(b.OtherDirectionsAndMasks, direction)
	b.OtherSpotAngles = append(b.OtherSpotAngles, angles)
	b.OtherShadowData = append(b.OtherShadowData, reserve(shadows, v, visibleIndex, false))
}

func reserve(shadows ShadowAllocator, v *VisibleLight, visibleIndex int, directional bool) [4]float32 {
	if shadows == nil || v.Light == nil {
		if directional {
			return [4]float32{}
		}
		return [4]float32{0, 0, 0, -1}
	}
	if directional {
		return shadows.ReserveDirectionalShadows(v.Light, visibleIndex)
	}
	return shadows.ReserveOtherShadows(v.Light, visibleIndex)
}

// PointAttenuation returns 1/max(range², 1e-5), the inverse squared range packed into position.w.
func PointAttenuation(lightRange float32) float32 {
	return 1 / max(lightRange*lightRange, 0.00001)
}

// SpotAngles returns the spot falloff coefficients (a, b) so the shader computes saturate(d·a + b) with
// d the cosine between the light axis and the light vector.
//
// Parameters:
//   - innerDeg: the full inner cone angle in degrees
//   - outerDeg: the full outer cone angle in degrees
//
// Returns:
//   - float32: 1 / max(cos(inner/2) − cos(outer/2), 0.001)
//   - float32: −cos(outer/2) times the first value
func SpotAngles(innerDeg, outerDeg float32) (float32, float32) {
	innerCos := float32(math.Cos(float64(innerDeg) * 0.5 * math.Pi / 180))
	outerCos := float32(math.Cos(float64(outerDeg) * 0.5 * math.Pi / 180))
	inv := 1 / max(innerCos-outerCos, 0.001)
	return inv, -outerCos * inv
}

func (c *collectorImpl) Setup(ctx renderer.Context, results CullingResults, settings ShadowSettings, perObject bool) {
	ctx.BeginSample("Lighting")
	defer ctx.EndSample("Lighting")

	c.shadows.Setup(results, settings)
	b, remap := c.Collect(results.VisibleLights(), results.LightIndexMapSize(), c.shadows, perObject)
	if perObject {
		results.SetLightIndexMap(remap)
	}
	ctx.SetKeyword(shader.KeywordLightsPerObject, perObject)

	ctx.SetGlobalInt(shader.DirectionalLightCount, int32(b.DirectionalCount()))
	if b.DirectionalCount() > 0 {
		ctx.SetGlobalVectorArray(shader.DirectionalLightColors, b.DirectionalColors)
		ctx.SetGlobalVectorArray(shader.DirectionalLightDirectionsAndMasks, b.DirectionalDirectionsAndMasks)
		ctx.SetGlobalVectorArray(shader.DirectionalLightShadowData, b.DirectionalShadowData)
	}
	ctx.SetGlobalInt(shader.OtherLightCount, int32(b.OtherCount()))
	if b.OtherCount() > 0 {
		ctx.SetGlobalVectorArray(shader.OtherLightColors, b.OtherColors)
		ctx.SetGlobalVectorArray(shader.OtherLightPositions, b.OtherPositions)
		ctx.SetGlobalVectorArray(shader.OtherLightDirectionsAndMasks, b.OtherDirectionsAndMasks)
		ctx.SetGlobalVectorArray(shader.OtherLightSpotAngles, b.OtherSpotAngles)
		ctx.SetGlobalVectorArray(shader.OtherLightShadowData, b.OtherShadowData)
	}
	c.shadows.Render(ctx)
}

func (c *collectorImpl) Cleanup(ctx renderer.Context) {
	c.shadows.Cleanup(ctx)
}
