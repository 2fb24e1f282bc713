package postfx

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/Carmen-Shannon/oxy-rp/engine/camera"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
)

var source = renderer.Target(shader.CameraColorAttachment)

type frame struct {
	rec   *renderer.Recorder
	scope *renderer.TemporaryScope
	stack Stack
}

// newFrame configures a stack for a game camera of native size with the source attachment held.
func newFrame(t *testing.T, native, buffer common.Size, settings *Settings, mutate func(*Config)) *frame {
	t.Helper()
	rec := renderer.NewRecorder()
	scope := renderer.NewTemporaryScope(rec)
	if err := scope.Acquire(source, renderer.TextureDescriptor{Width: buffer.Width, Height: buffer.Height, Format: renderer.FormatDefaultHDR}); err != nil {
		t.Fatal(err)
	}
	cam := camera.NewCamera(camera.WithPixelRect(common.Rect{Width: native.Width, Height: native.Height}))
	cfg := Config{
		Scope:         scope,
		Camera:        cam,
		BufferSize:    buffer,
		UseHDR:        true,
		LUTResolution: LUT32,
		FXAA:          DefaultFXAA(),
		FinalBlend:    camera.DefaultSettings().FinalBlend,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	s := NewStack()
	s.Configure(cfg, settings)
	return &frame{rec: rec, scope: scope, stack: s}
}

// finish renders, releases the source and checks that nothing leaked.
func (f *frame) finish(t *testing.T) {
	t.Helper()
	if err := f.stack.Render(source); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := f.scope.Release(source); err != nil {
		t.Fatal(err)
	}
	if err := f.rec.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if v := f.rec.Violations(); len(v) != 0 {
		t.Fatalf("violations: %v", v)
	}
	if f.rec.Acquired() != f.rec.Released() {
		t.Fatalf("acquired %d, released %d", f.rec.Acquired(), f.rec.Released())
	}
}

func (f *frame) acquiredSlots() map[renderer.TargetID]renderer.TextureDescriptor {
	out := make(map[renderer.TargetID]renderer.TextureDescriptor)
	for _, c := range f.rec.Filter(renderer.OpAcquire) {
		out[c.Target] = c.Desc
	}
	return out
}

func (f *frame) draws() []string {
	var out []string
	for _, c := range f.rec.Filter(renderer.OpDraw) {
		out = append(out, c.PassName)
	}
	return out
}

func bloomSlot(id renderer.TargetID) bool {
	p := shader.Property(id)
	return p == shader.BloomPrefilter || p == shader.BloomResult || p >= shader.BloomPyramid0
}

func bloomSettings(maxIterations, limit int, intensity float32) *Settings {
	return NewSettings(WithBloom(BloomSettings{
		MaxIterations:  maxIterations,
		DownscaleLimit: limit,
		Threshold:      0.5,
		ThresholdKnee:  0.5,
		Intensity:      intensity,
	}))
}

func TestStackInactive(t *testing.T) {
	native := common.Size{Width: 64, Height: 64}
	tests := []struct {
		name     string
		settings *Settings
		kind     camera.Kind
	}{
		{"nil settings", nil, camera.KindGame},
		{"preview camera", NewSettings(), camera.KindPreview},
		{"reflection camera", NewSettings(), camera.KindReflection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := renderer.NewRecorder()
			s := NewStack()
			s.Configure(Config{
				Scope:      renderer.NewTemporaryScope(rec),
				Camera:     camera.NewCamera(camera.WithKind(tt.kind), camera.WithPixelRect(common.Rect{Width: 64, Height: 64})),
				BufferSize: native,
			}, tt.settings)
			if s.IsActive() {
				t.Fatal("stack is active")
			}
			if err := s.Render(source); !errors.Is(err, ErrInactive) {
				t.Fatalf("Render error = %v, want ErrInactive", err)
			}
			if len(rec.Commands()) != 0 {
				t.Errorf("inactive stack recorded %d commands", len(rec.Commands()))
			}
		})
	}
}

func TestBloomSkipAcquiresNoBloomTargets(t *testing.T) {
	size := common.Size{Width: 64, Height: 64}
	tests := []struct {
		name     string
		settings *Settings
	}{
		{"zero iterations", bloomSettings(0, 1, 1)},
		{"zero intensity", bloomSettings(4, 1, 0)},
		{"negative intensity", bloomSettings(4, 1, -1)},
		{"half size below limit", bloomSettings(4, 40, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFrame(t, size, size, tt.settings, nil)
			f.finish(t)
			for id := range f.acquiredSlots() {
				if bloomSlot(id) {
					t.Errorf("bloom slot %s acquired while bloom is skipped", id)
				}
			}
		})
	}
}

func TestBloomPyramid(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		maxIter    int
		limit      int
		wantLevels int
	}{
		{"three levels", 64, 16, 4, 3},
		{"capped by iterations", 64, 2, 1, 2},
		{"single level", 32, 16, 8, 1},
		{"prefilter only", 16, 16, 8, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size := common.Size{Width: tt.size, Height: tt.size}
			f := newFrame(t, size, size, bloomSettings(tt.maxIter, tt.limit, 1), nil)
			f.finish(t)

			slots := f.acquiredSlots()
			pyramid := 0
			for id, desc := range slots {
				if shader.Property(id) >= shader.BloomPyramid0 {
					pyramid++
					if desc.Width < tt.limit || desc.Height < tt.limit {
						t.Errorf("level %s is %dx%d, below limit %d", id, desc.Width, desc.Height, tt.limit)
					}
				}
			}
			if pyramid != 2*tt.wantLevels {
				t.Errorf("pyramid targets = %d, want %d", pyramid, 2*tt.wantLevels)
			}
			pre := slots[renderer.Target(shader.BloomPrefilter)]
			if pre.Width != tt.size/2 || pre.Filter != renderer.FilterBilinear || pre.Format != renderer.FormatDefaultHDR {
				t.Errorf("prefilter = %+v, want half size bilinear HDR", pre)
			}
			if res := slots[renderer.Target(shader.BloomResult)]; res.Width != tt.size {
				t.Errorf("bloom result width = %d, want %d", res.Width, tt.size)
			}

			combines := 0
			for _, name := range f.draws() {
				if name == "BloomAdd" {
					combines++
				}
			}
			if want := max(tt.wantLevels-1, 0) + 1; combines != want {
				t.Errorf("combine draws = %d, want %d", combines, want)
			}
		})
	}
}

func TestBloomScatterWeights(t *testing.T) {
	size := common.Size{Width: 64, Height: 64}
	s := bloomSettings(4, 4, 2)
	s.Bloom.Mode = BloomScattering
	s.Bloom.Scatter = 0.3
	f := newFrame(t, size, size, s, nil)
	f.finish(t)

	var weights []float32
	for _, c := range f.rec.Filter(renderer.OpSetFloat) {
		if c.Property == shader.BloomIntensity {
			weights = append(weights, c.Float)
		}
	}
	if len(weights) != 2 || weights[0] != 0.3 || weights[1] != 2 {
		t.Errorf("intensity uploads = %v, want [0.3 2]", weights)
	}
	for _, name := range f.draws() {
		if name == "BloomAdd" {
			t.Fatal("scattering bloom drew an additive combine")
		}
	}
}

func TestBloomThreshold(t *testing.T) {
	got := BloomThreshold(1, 0.5)
	want := [4]float32{1, -0.5, 1, 0.25 / 0.50001}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Fatalf("BloomThreshold(1, 0.5) = %v, want %v", got, want)
		}
	}
}

func TestLUTParameters(t *testing.T) {
	for _, r := range []LUTResolution{LUT16, LUT32, LUT64} {
		w, h := r.Size()
		if w != int(r)*int(r) || h != int(r) {
			t.Errorf("%d: size = %dx%d", r, w, h)
		}
		bake := LUTBakeParameters(r)
		if bake[0] != float32(r) || bake[1] != 0.5/float32(w) || bake[3] != float32(r)/(float32(r)-1) {
			t.Errorf("%d: bake parameters = %v", r, bake)
		}
		apply := LUTApplyParameters(r)
		if apply[2] != float32(r)-1 {
			t.Errorf("%d: apply parameters = %v", r, apply)
		}
	}
}

func TestColorGradingLogC(t *testing.T) {
	size := common.Size{Width: 32, Height: 32}
	tests := []struct {
		name string
		hdr  bool
		mode ToneMappingMode
		want float32
		pass string
	}{
		{"hdr aces", true, ToneMappingACES, 1, "ColorGradingACES"},
		{"hdr none", true, ToneMappingNone, 0, "ColorGradingNone"},
		{"ldr reinhard", false, ToneMappingReinhard, 0, "ColorGradingReinhard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFrame(t, size, size, NewSettings(WithToneMapping(tt.mode)), func(c *Config) { c.UseHDR = tt.hdr })
			f.finish(t)
			if v, _ := f.rec.Float(shader.ColorGradingLUTInLogC); v != tt.want {
				t.Errorf("LUT in LogC = %v, want %v", v, tt.want)
			}
			if d := f.draws(); len(d) == 0 || d[0] != tt.pass {
				t.Errorf("first draw = %v, want %s", d, tt.pass)
			}
			lut := f.acquiredSlots()[renderer.Target(shader.ColorGradingLUT)]
			if lut.Width != 1024 || lut.Height != 32 || lut.Format != renderer.FormatDefaultHDR {
				t.Errorf("LUT = %+v, want 1024x32 HDR", lut)
			}
		})
	}
}

func TestFinalPaths(t *testing.T) {
	native := common.Size{Width: 100, Height: 50}
	half := common.Size{Width: 50, Height: 25}
	tests := []struct {
		name      string
		buffer    common.Size
		fxaa      bool
		keepAlpha bool
		want      []string
	}{
		{"native", native, false, false, []string{"ColorGradingNone", "ApplyColorGrading"}},
		{"native fxaa", native, true, false, []string{"ColorGradingNone", "ApplyColorGradingWithLuma", "FXAAWithLuma"}},
		{"native fxaa keep alpha", native, true, true, []string{"ColorGradingNone", "ApplyColorGrading", "FXAA"}},
		{"scaled", half, false, false, []string{"ColorGradingNone", "ApplyColorGrading", "FinalRescale"}},
		{"scaled fxaa", half, true, false, []string{"ColorGradingNone", "ApplyColorGradingWithLuma", "FXAAWithLuma", "FinalRescale"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFrame(t, native, tt.buffer, NewSettings(), func(c *Config) {
				c.FXAA.Enabled = tt.fxaa
				c.KeepAlpha = tt.keepAlpha
			})
			f.finish(t)
			got := f.draws()
			if len(got) != len(tt.want) {
				t.Fatalf("draws = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("draws = %v, want %v", got, tt.want)
				}
			}
			last := f.rec.Filter(renderer.OpDraw)[len(got)-1]
			if last.Target != renderer.CameraTarget {
				t.Errorf("final draw target = %s, want CameraTarget", last.Target)
			}
			vp := f.rec.Filter(renderer.OpSetViewport)
			if len(vp) != 1 || vp[0].Rect != (common.Rect{Width: 100, Height: 50}) {
				t.Errorf("viewports = %v, want the camera pixel rect once", vp)
			}
			_, scaledTarget := f.acquiredSlots()[renderer.Target(shader.FinalResult)]
			if scaledTarget != (tt.buffer != native) {
				t.Errorf("FinalResult acquired = %v", scaledTarget)
			}
		})
	}
}

func TestFinalBlendLoadsDestination(t *testing.T) {
	size := common.Size{Width: 16, Height: 16}
	f := newFrame(t, size, size, NewSettings(), func(c *Config) {
		c.FinalBlend = camera.FinalBlendMode{Source: renderer.BlendSrcAlpha, Destination: renderer.BlendOneMinusSrcAlpha}
	})
	f.finish(t)
	binds := f.rec.Filter(renderer.OpSetRenderTarget)
	last := binds[len(binds)-1]
	if last.Target != renderer.CameraTarget || last.ColorLoad != renderer.LoadLoad {
		t.Errorf("final bind = %+v, want CameraTarget with Load", last)
	}
	if v, _ := f.rec.Float(shader.FinalDstBlend); v != float32(renderer.BlendOneMinusSrcAlpha) {
		t.Errorf("final dst blend = %v", v)
	}
}
