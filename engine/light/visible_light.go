package light

// VisibleLight is a light that survived culling for one camera, with its values resolved for the frame.
type VisibleLight struct {
	Light      Light
	Type       LightType
	FinalColor [4]float32 // linear color premultiplied by intensity, w = 1
	Position   [3]float32
	Forward    [3]float32
	Range      float32
	SpotAngle  float32 // full outer cone angle in degrees
}

// NewVisibleLight resolves the per-frame values of l.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - VisibleLight: the resolved record
func NewVisibleLight(l Light) VisibleLight {
	c, i := l.Color(), l.Intensity()
	return VisibleLight{
		Light:      l,
		Type:       l.Type(),
		FinalColor: [4]float32{c[0] * i, c[1] * i, c[2] * i, 1},
		Position:   l.Position(),
		Forward:    l.Direction(),
		Range:      l.Range(),
		SpotAngle:  l.SpotAngle(),
	}
}

// CullingResults is the part of a camera's culling results the light and shadow code reads and writes.
type CullingResults interface {
	// VisibleLights returns the visible lights in culling order.
	VisibleLights() []VisibleLight

	// LightIndexMapSize returns the length of the engine's per-object light index map.
	LightIndexMapSize() int

	// SetLightIndexMap replaces the per-object light index map. Entries of -1 exclude a light.
	SetLightIndexMap(indexMap []int)

	// ShadowCasterBounds reports whether any shadow caster lies within range of the visible light.
	ShadowCasterBounds(visibleIndex int) bool
}
