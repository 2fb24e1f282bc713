package material

import (
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
)

// Preset is one of the editor's one-click surface configurations.
type Preset int

const (
	PresetOpaque Preset = iota
	PresetClip
	PresetFade
	PresetTransparent
)

func (p Preset) String() string {
	switch p {
	case PresetOpaque:
		return "Opaque"
	case PresetClip:
		return "Clip"
	case PresetFade:
		return "Fade"
	case PresetTransparent:
		return "Transparent"
	}
	return "Unknown"
}

type presetValues struct {
	clipping    bool
	premultiply bool
	src, dst    renderer.BlendFactor
	zwrite      bool
	queue       int
	shadows     ShadowMode
}

var presets = map[Preset]presetValues{
	PresetOpaque:      {false, false, renderer.BlendOne, renderer.BlendZero, true, QueueGeometry, ShadowsOn},
	PresetClip:        {true, false, renderer.BlendOne, renderer.BlendZero, true, QueueAlphaTest, ShadowsClip},
	PresetFade:        {false, false, renderer.BlendSrcAlpha, renderer.BlendOneMinusSrcAlpha, false, QueueTransparent, ShadowsClip},
	PresetTransparent: {false, true, renderer.BlendOne, renderer.BlendOneMinusSrcAlpha, false, QueueTransparent, ShadowsClip},
}

// ApplyPreset sets clipping, premultiplied alpha, blend factors, depth writes, render queue and shadow mode
// of m in one step. The Transparent preset requires the premultiply property; without it nothing changes.
//
// Parameters:
//   - m: the material to configure
//   - p: the preset
//
// Returns:
//   - bool: false if the preset was refused
func ApplyPreset(m Material, p Preset) bool {
	v, ok := presets[p]
	if !ok {
		return false
	}
	if v.premultiply && !m.HasProperty(PropertyPremultiplyAlpha) {
		return false
	}
	setToggle(m, PropertyClipping, shader.KeywordClipping, v.clipping)
	setToggle(m, PropertyPremultiplyAlpha, shader.KeywordPremultiplyAlpha, v.premultiply)
	m.SetFloat(PropertySrcBlend, float32(v.src))
	m.SetFloat(PropertyDstBlend, float32(v.dst))
	zwrite := float32(0)
	if v.zwrite {
		zwrite = 1
	}
	m.SetFloat(PropertyZWrite, zwrite)
	m.SetRenderQueue(v.queue)
	SetShadowMode(m, v.shadows)
	return true
}

// SetShadowMode stores the shadow mode, updates the clip and dither keywords and enables the shadow caster
// pass unless the mode is ShadowsOff. Materials without the shadows property are left unchanged.
//
// Parameters:
//   - m: the material
//   - mode: the shadow mode
func SetShadowMode(m Material, mode ShadowMode) {
	if !m.SetFloat(PropertyShadows, float32(mode)) {
		return
	}
	m.SetKeyword(shader.KeywordShadowsClip, mode == ShadowsClip)
	m.SetKeyword(shader.KeywordShadowsDither, mode == ShadowsDither)
	m.SetShadowCasterEnabled(mode != ShadowsOff)
}

// setToggle sets a 0/1 property and its keyword together; the keyword follows only declared properties.
func setToggle(m Material, p Property, k shader.Keyword, on bool) {
	v := float32(0)
	if on {
		v = 1
	}
	if m.SetFloat(p, v) {
		m.SetKeyword(k, on)
	}
}
