package material

import (
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
)

// Property names a float property a lit material shader may declare.
type Property string

const (
	PropertyClipping         Property = "_Clipping"
	PropertyPremultiplyAlpha Property = "_PremulAlpha"
	PropertySrcBlend         Property = "_SrcBlend"
	PropertyDstBlend         Property = "_DstBlend"
	PropertyZWrite           Property = "_ZWrite"
	PropertyShadows          Property = "_Shadows"
	PropertyCutoff           Property = "_Cutoff"
)

// StandardProperties is the property set of the engine's lit shader.
var StandardProperties = []Property{
	PropertyClipping, PropertyPremultiplyAlpha, PropertySrcBlend, PropertyDstBlend,
	PropertyZWrite, PropertyShadows, PropertyCutoff,
}

// ShadowMode selects how a material casts shadows.
type ShadowMode int

const (
	ShadowsOn ShadowMode = iota
	ShadowsClip
	ShadowsDither
	ShadowsOff
)

func (m ShadowMode) String() string {
	switch m {
	case ShadowsOn:
		return "On"
	case ShadowsClip:
		return "Clip"
	case ShadowsDither:
		return "Dither"
	case ShadowsOff:
		return "Off"
	}
	return "Unknown"
}

// Render queue values. Opaque draws cover queues up to 2500, transparent draws the rest.
const (
	QueueGeometry    = 2000
	QueueAlphaTest   = 2450
	QueueTransparent = 3000
)

// material is the implementation of the Material interface.
type material struct {
	name        string
	baseColor   [4]float32
	properties  map[Property]float32
	keywords    map[shader.Keyword]bool
	renderQueue int
	shadowPass  bool
}

// Material is the surface state of a lit material: the float properties its shader declares, the keywords
// derived from them, its render queue and whether its shadow caster pass is enabled. Setters ignore
// properties the shader does not declare.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the albedo RGBA color of the material.
	BaseColor() [4]float32

	// HasProperty reports whether the material's shader declares p.
	HasProperty(p Property) bool

	// Float returns the value of a property.
	//
	// Parameters:
	//   - p: the property
	//
	// Returns:
	//   - float32: the value, or 0 when undeclared
	//   - bool: whether the property is declared
	Float(p Property) (float32, bool)

	// SetFloat sets a declared property.
	//
	// Parameters:
	//   - p: the property
	//   - v: the value
	//
	// Returns:
	//   - bool: false if the property is not declared and nothing changed
	SetFloat(p Property, v float32) bool

	// KeywordEnabled reports whether a shader keyword is enabled on the material.
	KeywordEnabled(k shader.Keyword) bool

	// SetKeyword enables or disables a shader keyword.
	SetKeyword(k shader.Keyword, enabled bool)

	// Keywords returns the enabled keywords in declaration order.
	Keywords() []shader.Keyword

	// RenderQueue returns the render queue the material draws in.
	RenderQueue() int

	// SetRenderQueue sets the render queue.
	SetRenderQueue(queue int)

	// ShadowCasterEnabled reports whether the shadow caster pass is enabled.
	ShadowCasterEnabled() bool

	// SetShadowCasterEnabled enables or disables the shadow caster pass.
	SetShadowCasterEnabled(enabled bool)

	// SrcBlend returns the source blend factor from PropertySrcBlend.
	SrcBlend() renderer.BlendFactor

	// DstBlend returns the destination blend factor from PropertyDstBlend.
	DstBlend() renderer.BlendFactor

	// ZWrite reports whether depth writes are enabled.
	ZWrite() bool

	// ShadowMode returns the mode stored in PropertyShadows.
	ShadowMode() ShadowMode
}

var _ Material = &material{}

// NewMaterial creates a material. Without WithProperties the material declares StandardProperties.
// Defaults match the Opaque preset.
//
// Parameters:
//   - opts: a variadic list of MaterialBuilderOption functions
//
// Returns:
//   - Material: the material
func NewMaterial(opts ...MaterialBuilderOption) Material {
	m := &material{
		baseColor:   [4]float32{1, 1, 1, 1},
		keywords:    make(map[shader.Keyword]bool),
		renderQueue: QueueGeometry,
		shadowPass:  true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.properties == nil {
		m.properties = make(map[Property]float32)
		for _, p := range StandardProperties {
			m.properties[p] = 0
		}
	}
	m.SetFloat(PropertySrcBlend, float32(renderer.BlendOne))
	m.SetFloat(PropertyDstBlend, float32(renderer.BlendZero))
	m.SetFloat(PropertyZWrite, 1)
	m.SetFloat(PropertyCutoff, 0.5)
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *material) HasProperty(p Property) bool {
	_, ok := m.properties[p]
	return ok
}

func (m *material) Float(p Property) (float32, bool) {
	v, ok := m.properties[p]
	return v, ok
}

func (m *material) SetFloat(p Property, v float32) bool {
	if !m.HasProperty(p) {
		return false
	}
	m.properties[p] = v
	return true
}

func (m *material) KeywordEnabled(k shader.Keyword) bool {
	return m.keywords[k]
}

func (m *material) SetKeyword(k shader.Keyword, enabled bool) {
	m.keywords[k] = enabled
}

func (m *material) Keywords() []shader.Keyword {
	var out []shader.Keyword
	for _, k := range slices.Sorted(maps.Keys(m.keywords)) {
		if m.keywords[k] {
			out = append(out, k)
		}
	}
	return out
}

func (m *material) RenderQueue() int {
	return m.renderQueue
}

func (m *material) SetRenderQueue(queue int) {
	m.renderQueue = queue
}

func (m *material) ShadowCasterEnabled() bool {
	return m.shadowPass
}

func (m *material) SetShadowCasterEnabled(enabled bool) {
	m.shadowPass = enabled
}

func (m *material) SrcBlend() renderer.BlendFactor {
	return renderer.BlendFactor(m.properties[PropertySrcBlend])
}

func (m *material) DstBlend() renderer.BlendFactor {
	return renderer.BlendFactor(m.properties[PropertyDstBlend])
}

func (m *material) ZWrite() bool {
	return m.properties[PropertyZWrite] != 0
}

func (m *material) ShadowMode() ShadowMode {
	return ShadowMode(m.properties[PropertyShadows])
}
