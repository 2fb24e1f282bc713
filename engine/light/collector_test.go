package light

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
)

type fakeResults struct {
	visible      []VisibleLight
	indexMapSize int
	indexMap     []int
	casters      map[int]bool
}

func (f *fakeResults) VisibleLights() []VisibleLight   { return f.visible }
func (f *fakeResults) LightIndexMapSize() int          { return f.indexMapSize }
func (f *fakeResults) SetLightIndexMap(indexMap []int) { f.indexMap = append([]int(nil), indexMap...) }
func (f *fakeResults) ShadowCasterBounds(i int) bool   { return f.casters == nil || f.casters[i] }

func visibleOf(lights ...Light) []VisibleLight {
	out := make([]VisibleLight, len(lights))
	for i, l := range lights {
		out[i] = NewVisibleLight(l)
	}
	return out
}

func TestCollectTruncatesDirectionalLights(t *testing.T) {
	var lights []Light
	for i := 0; i < 6; i++ {
		lights = append(lights, NewLight(LightTypeDirectional, WithIntensity(float32(i+1))))
	}
	c := NewCollector()
	b, remap := c.Collect(visibleOf(lights...), 0, nil, false)
	if b.DirectionalCount() != 4 {
		t.Fatalf("directional count = %d, want 4", b.DirectionalCount())
	}
	if b.DirectionalColors[3][0] != 4 {
		t.Errorf("fourth light color = %v, want first-encountered order", b.DirectionalColors[3])
	}
	if remap != nil {
		t.Errorf("remap = %v, want nil without per-object lights", remap)
	}
}

func TestCollectRemapsOtherLights(t *testing.T) {
	visible := visibleOf(
		NewLight(LightTypeDirectional),
		NewLight(LightTypePoint, WithRange(5)),
		NewLight(LightTypeSpot, WithSpotAngles(20, 40)),
		NewLight(LightTypePoint),
	)
	c := NewCollector(WithLimits(Limits{MaxDirectional: 4, MaxOther: 2}))
	b, remap := c.Collect(visible, 6, nil, true)

	want := []int{-1, 0, 1, -1, -1, -1}
	if len(remap) != len(want) {
		t.Fatalf("remap len = %d, want %d", len(remap), len(want))
	}
	for i := range want {
		if remap[i] != want[i] {
			t.Errorf("remap[%d] = %d, want %d", i, remap[i], want[i])
		}
	}
	if b.OtherCount() != 2 {
		t.Fatalf("other count = %d, want 2", b.OtherCount())
	}
	if got := b.OtherSpotAngles[0]; got != [4]float32{0, 1, 0, 0} {
		t.Errorf("point spot angles = %v, want (0, 1)", got)
	}
	if got := b.OtherPositions[0][3]; math.Abs(float64(got-1.0/25)) > 1e-6 {
		t.Errorf("point attenuation = %v, want 1/25", got)
	}
}

func TestRemapSizedToVisibleWhenMapIsShorter(t *testing.T) {
	c := NewCollector()
	_, remap := c.Collect(visibleOf(NewLight(LightTypePoint), NewLight(LightTypePoint)), 0, nil, true)
	if len(remap) != 2 || remap[0] != 0 || remap[1] != 1 {
		t.Fatalf("remap = %v, want [0 1]", remap)
	}
}

func TestPointAttenuationAtZeroRange(t *testing.T) {
	got := PointAttenuation(0)
	if math.IsInf(float64(got), 0) || got != 1/float32(0.00001) {
		t.Fatalf("attenuation = %v, want 1e5", got)
	}
}

func TestSpotAngles(t *testing.T) {
	tests := []struct {
		name         string
		inner, outer float32
	}{
		{"regular cone", 21.8, 30},
		{"equal angles", 30, 30},
		{"zero cone", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := SpotAngles(tt.inner, tt.outer)
			if a <= 0 || math.IsInf(float64(a), 0) || math.IsNaN(float64(b)) {
				t.Fatalf("SpotAngles = (%v, %v), want finite positive scale", a, b)
			}
			outerCos := float32(math.Cos(float64(tt.outer) * 0.5 * math.Pi / 180))
			if edge := outerCos*a + b; math.Abs(float64(edge)) > 1e-4 {
				t.Errorf("falloff at outer edge = %v, want 0", edge)
			}
		})
	}
}

func TestDirectionalDirectionPointsAwayFromForward(t *testing.T) {
	c := NewCollector()
	l := NewLight(LightTypeDirectional, WithDirection(0, 0, 1), WithRenderingLayerMask(3))
	b, _ := c.Collect(visibleOf(l), 0, nil, false)
	got := b.DirectionalDirectionsAndMasks[0]
	if got[0] != 0 || got[1] != 0 || got[2] != -1 {
		t.Errorf("direction = %v, want (0, 0, -1)", got)
	}
	if math.Float32bits(got[3]) != 3 {
		t.Errorf("mask bits = %d, want 3", math.Float32bits(got[3]))
	}
}

func TestSetupUploadsLighting(t *testing.T) {
	results := &fakeResults{
		visible: visibleOf(
			NewLight(LightTypeDirectional, WithShadows(0.5, 1)),
			NewLight(LightTypeSpot),
		),
		indexMapSize: 2,
	}
	rec := renderer.NewRecorder()
	c := NewCollector()
	c.Setup(rec, results, DefaultShadowSettings(), true)
	c.Cleanup(rec)

	if n, _ := rec.Int(shader.DirectionalLightCount); n != 1 {
		t.Errorf("directional count = %d, want 1", n)
	}
	if n, _ := rec.Int(shader.OtherLightCount); n != 1 {
		t.Errorf("other count = %d, want 1", n)
	}
	if on, ok := rec.Keyword(shader.KeywordLightsPerObject); !ok || !on {
		t.Errorf("per-object keyword = %v (set %v), want enabled", on, ok)
	}
	shadows, ok := rec.VectorArray(shader.DirectionalLightShadowData)
	if !ok || shadows[0][0] != 0.5 {
		t.Errorf("directional shadow data = %v, want strength 0.5", shadows)
	}
	if len(results.indexMap) != 2 || results.indexMap[1] != 0 {
		t.Errorf("index map = %v, want [-1 0]", results.indexMap)
	}
	if len(rec.Violations()) != 0 {
		t.Errorf("violations: %v", rec.Violations())
	}
}

func TestSetupSkipsEmptyArrays(t *testing.T) {
	rec := renderer.NewRecorder()
	NewCollector().Setup(rec, &fakeResults{}, DefaultShadowSettings(), false)

	if n, ok := rec.Int(shader.OtherLightCount); !ok || n != 0 {
		t.Errorf("other count = %d (set %v), want 0", n, ok)
	}
	if _, ok := rec.VectorArray(shader.OtherLightColors); ok {
		t.Error("other colors uploaded with zero lights")
	}
	if on, ok := rec.Keyword(shader.KeywordLightsPerObject); !ok || on {
		t.Errorf("per-object keyword = %v (set %v), want disabled", on, ok)
	}
}
