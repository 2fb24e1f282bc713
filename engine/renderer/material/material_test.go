package material

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
)

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset   Preset
		clip     bool
		premul   bool
		src, dst renderer.BlendFactor
		zwrite   bool
		queue    int
		shadows  ShadowMode
	}{
		{PresetOpaque, false, false, renderer.BlendOne, renderer.BlendZero, true, QueueGeometry, ShadowsOn},
		{PresetClip, true, false, renderer.BlendOne, renderer.BlendZero, true, QueueAlphaTest, ShadowsClip},
		{PresetFade, false, false, renderer.BlendSrcAlpha, renderer.BlendOneMinusSrcAlpha, false, QueueTransparent, ShadowsClip},
		{PresetTransparent, false, true, renderer.BlendOne, renderer.BlendOneMinusSrcAlpha, false, QueueTransparent, ShadowsClip},
	}
	for _, tt := range tests {
		t.Run(tt.preset.String(), func(t *testing.T) {
			m := NewMaterial(WithName("test"))
			// start from a different preset so every field has to change
			ApplyPreset(m, PresetClip)
			ApplyPreset(m, PresetTransparent)
			if !ApplyPreset(m, tt.preset) {
				t.Fatal("preset refused")
			}
			if got := m.KeywordEnabled(shader.KeywordClipping); got != tt.clip {
				t.Errorf("clipping keyword = %v", got)
			}
			if got := m.KeywordEnabled(shader.KeywordPremultiplyAlpha); got != tt.premul {
				t.Errorf("premultiply keyword = %v", got)
			}
			if m.SrcBlend() != tt.src || m.DstBlend() != tt.dst {
				t.Errorf("blend = %v/%v", m.SrcBlend(), m.DstBlend())
			}
			if m.ZWrite() != tt.zwrite {
				t.Errorf("zwrite = %v", m.ZWrite())
			}
			if m.RenderQueue() != tt.queue {
				t.Errorf("queue = %d", m.RenderQueue())
			}
			if m.ShadowMode() != tt.shadows || !m.ShadowCasterEnabled() {
				t.Errorf("shadows = %v caster=%v", m.ShadowMode(), m.ShadowCasterEnabled())
			}
			if got := m.KeywordEnabled(shader.KeywordShadowsClip); got != (tt.shadows == ShadowsClip) {
				t.Errorf("shadows clip keyword = %v", got)
			}
		})
	}
}

func TestApplyPresetTransparentRequiresPremultiply(t *testing.T) {
	m := NewMaterial(WithProperties(PropertyClipping, PropertySrcBlend, PropertyDstBlend, PropertyZWrite))
	if ApplyPreset(m, PresetTransparent) {
		t.Fatal("transparent preset accepted without a premultiply property")
	}
	if m.RenderQueue() != QueueGeometry || m.DstBlend() != renderer.BlendZero {
		t.Error("refused preset modified the material")
	}
	if !ApplyPreset(m, PresetFade) {
		t.Fatal("fade preset refused")
	}
	if m.KeywordEnabled(shader.KeywordPremultiplyAlpha) {
		t.Error("keyword set for an undeclared property")
	}
}

func TestSetShadowModeOff(t *testing.T) {
	m := NewMaterial()
	SetShadowMode(m, ShadowsDither)
	if !m.KeywordEnabled(shader.KeywordShadowsDither) {
		t.Error("dither keyword not enabled")
	}
	SetShadowMode(m, ShadowsOff)
	if m.ShadowCasterEnabled() || m.KeywordEnabled(shader.KeywordShadowsDither) {
		t.Error("shadow caster should be disabled with no shadow keywords")
	}
}
