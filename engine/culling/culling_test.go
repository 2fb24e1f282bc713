package culling

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/Carmen-Shannon/oxy-rp/engine/camera"
	"github.com/Carmen-Shannon/oxy-rp/engine/light"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
)

type testDrawable struct {
	name    string
	center  [3]float32
	radius  float32
	queue   int
	casts   bool
	drawn   *[]string
	failure error
}

func (d *testDrawable) Name() string                  { return d.name }
func (d *testDrawable) Bounds() ([3]float32, float32) { return d.center, d.radius }
func (d *testDrawable) RenderQueue() int              { return d.queue }
func (d *testDrawable) RenderingLayerMask() uint32    { return 1 }
func (d *testDrawable) CastsShadows() bool            { return d.casts }
func (d *testDrawable) Draw(renderer.Context, DrawSettings) error {
	*d.drawn = append(*d.drawn, d.name)
	return d.failure
}

func testCamera() camera.Camera {
	return camera.NewCamera(
		camera.WithPixelRect(common.Rect{Width: 320, Height: 240}),
		camera.WithPosition(0, 0, -10),
		camera.WithTarget(0, 0, 0),
		camera.WithClipPlanes(0.3, 50),
	)
}

func TestCullFailsForEmptyPixelRect(t *testing.T) {
	c := NewFrustumCuller()
	if _, ok := c.Cull(camera.NewCamera(), 100); ok {
		t.Fatal("Cull succeeded for a camera without a pixel rect")
	}
}

func TestCullLights(t *testing.T) {
	c := NewFrustumCuller(WithLights(
		light.NewLight(light.LightTypeDirectional),
		light.NewLight(light.LightTypePoint, light.WithPosition(0, 0, 0), light.WithRange(2)),
		light.NewLight(light.LightTypePoint, light.WithPosition(0, 0, -100), light.WithRange(2)),
		light.NewLight(light.LightTypeSpot, light.WithEnabled(false)),
	))
	res, ok := c.Cull(testCamera(), 100)
	if !ok {
		t.Fatal("Cull failed")
	}
	if n := len(res.VisibleLights()); n != 2 {
		t.Fatalf("visible lights = %d, want 2", n)
	}
	if res.ShadowDistance() != 50 {
		t.Errorf("shadow distance = %v, want min(100, far) = 50", res.ShadowDistance())
	}
	if res.LightIndexMapSize() != 2 {
		t.Errorf("index map size = %d, want 2", res.LightIndexMapSize())
	}
}

func TestShadowCasterBounds(t *testing.T) {
	var drawn []string
	caster := &testDrawable{name: "caster", center: [3]float32{0, 0, 0}, radius: 1, queue: 2000, casts: true, drawn: &drawn}
	lights := []light.VisibleLight{
		light.NewVisibleLight(light.NewLight(light.LightTypeDirectional)),
		light.NewVisibleLight(light.NewLight(light.LightTypePoint, light.WithPosition(0, 0, 2), light.WithRange(3))),
		light.NewVisibleLight(light.NewLight(light.LightTypePoint, light.WithPosition(40, 0, 0), light.WithRange(3))),
	}
	res := NewResults(testCamera(), lights, []Drawable{caster}, 100)
	for i, want := range []bool{true, true, false} {
		if got := res.ShadowCasterBounds(i); got != want {
			t.Errorf("ShadowCasterBounds(%d) = %v, want %v", i, got, want)
		}
	}
	if res.ShadowCasterBounds(3) {
		t.Error("ShadowCasterBounds out of range = true")
	}
}

func TestDrawRenderersFiltersAndSorts(t *testing.T) {
	var drawn []string
	ds := []Drawable{
		&testDrawable{name: "far-opaque", center: [3]float32{0, 0, 10}, radius: 1, queue: 2000, drawn: &drawn},
		&testDrawable{name: "near-opaque", center: [3]float32{0, 0, -5}, radius: 1, queue: 2000, drawn: &drawn},
		&testDrawable{name: "far-glass", center: [3]float32{0, 0, 10}, radius: 1, queue: 3000, drawn: &drawn},
		&testDrawable{name: "near-glass", center: [3]float32{0, 0, -5}, radius: 1, queue: 3000, drawn: &drawn},
	}
	res := NewResults(testCamera(), nil, ds, 100)
	s := NewQueueSubmitter()
	rec := renderer.NewRecorder()

	settings := DrawSettings{Sorting: SortCommonOpaque}
	if err := s.DrawRenderers(rec, res, settings, FilterSettings{Queue: QueueRangeOpaque, RenderingLayerMask: 1}); err != nil {
		t.Fatal(err)
	}
	settings.Sorting = SortCommonTransparent
	if err := s.DrawRenderers(rec, res, settings, FilterSettings{Queue: QueueRangeTransparent, RenderingLayerMask: 1}); err != nil {
		t.Fatal(err)
	}
	want := []string{"near-opaque", "far-opaque", "far-glass", "near-glass"}
	if len(drawn) != len(want) {
		t.Fatalf("drawn = %v, want %v", drawn, want)
	}
	for i := range want {
		if drawn[i] != want[i] {
			t.Errorf("drawn[%d] = %s, want %s", i, drawn[i], want[i])
		}
	}
}

func TestDrawRenderersWrapsDrawError(t *testing.T) {
	var drawn []string
	boom := errors.New("boom")
	res := NewResults(testCamera(), nil, []Drawable{&testDrawable{name: "bad", queue: 2000, drawn: &drawn, failure: boom}}, 100)
	err := NewQueueSubmitter().DrawRenderers(renderer.NewRecorder(), res, DrawSettings{}, FilterSettings{Queue: QueueRangeAll, RenderingLayerMask: 1})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped boom", err)
	}
}
