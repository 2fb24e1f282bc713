package camera_renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/Carmen-Shannon/oxy-rp/engine/camera"
	"github.com/Carmen-Shannon/oxy-rp/engine/culling"
	"github.com/Carmen-Shannon/oxy-rp/engine/light"
	"github.com/Carmen-Shannon/oxy-rp/engine/postfx"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
)

// spyDrawable is a drawable that records what the context looked like when it was drawn.
type spyDrawable struct {
	name    string
	queue   int
	rec     *renderer.Recorder
	failure error

	drawn        int
	colorTexture renderer.TargetID
	sorting      culling.SortCriteria
}

func (p *spyDrawable) Name() string                  { return p.name }
func (p *spyDrawable) Bounds() ([3]float32, float32) { return [3]float32{}, 1 }
func (p *spyDrawable) RenderQueue() int              { return p.queue }
func (p *spyDrawable) RenderingLayerMask() uint32    { return 1 }
func (p *spyDrawable) CastsShadows() bool            { return false }
func (p *spyDrawable) Draw(_ renderer.Context, s culling.DrawSettings) error {
	p.drawn++
	p.sorting = s.Sorting
	p.colorTexture, _ = p.rec.Texture(shader.CameraColorTexture)
	return p.failure
}

func gameCamera(opts ...camera.CameraBuilderOption) camera.Camera {
	base := []camera.CameraBuilderOption{
		camera.WithName("Main"),
		camera.WithPixelRect(common.Rect{Width: 320, Height: 240}),
		camera.WithPosition(0, 0, -10),
		camera.WithTarget(0, 0, 0),
	}
	return camera.NewCamera(append(base, opts...)...)
}

type harness struct {
	rec         *renderer.Recorder
	renderer    CameraRenderer
	opaque      *spyDrawable
	transparent *spyDrawable
}

func newHarness(copySupported bool, opts ...CameraRendererBuilderOption) *harness {
	rec := renderer.NewRecorder(renderer.WithCopySupport(copySupported))
	h := &harness{
		rec:         rec,
		opaque:      &spyDrawable{name: "opaque", queue: 2000, rec: rec},
		transparent: &spyDrawable{name: "transparent", queue: 3000, rec: rec},
	}
	culler := culling.NewFrustumCuller(
		culling.WithDrawables(h.opaque, h.transparent),
		culling.WithLights(light.NewLight(light.LightTypeDirectional)),
	)
	h.renderer = NewCameraRenderer(culler, opts...)
	return h
}

func (h *harness) render(t *testing.T, cam camera.Camera, buffer BufferSettings, fx *postfx.Settings) FrameResult {
	t.Helper()
	res, err := h.renderer.RenderFrame(h.rec, cam, buffer, BatchingSettings{}, light.DefaultShadowSettings(), fx, postfx.LUT32)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if v := h.rec.Violations(); len(v) != 0 {
		t.Fatalf("lifetime violations: %v", v)
	}
	if held := h.rec.Held(); len(held) != 0 {
		t.Fatalf("temporaries still held: %v", held)
	}
	return res
}

func TestDirectFrameUsesNoTemporaries(t *testing.T) {
	h := newHarness(true)
	res := h.render(t, gameCamera(), DefaultBufferSettings(), nil)

	if res.Intermediate || res.Scaled || res.PostFX {
		t.Fatalf("result = %+v, want a direct frame", res)
	}
	if n := h.rec.Acquired(); n != 0 {
		t.Fatalf("acquired %d temporaries, want 0", n)
	}
	if res.BufferSize != (common.Size{Width: 320, Height: 240}) {
		t.Fatalf("buffer size = %+v", res.BufferSize)
	}
	if h.opaque.drawn != 1 || h.transparent.drawn != 1 {
		t.Fatalf("draws opaque=%d transparent=%d, want 1 each", h.opaque.drawn, h.transparent.drawn)
	}
	if h.opaque.sorting != culling.SortCommonOpaque || h.transparent.sorting != culling.SortCommonTransparent {
		t.Fatal("batches drawn with the wrong sorting")
	}
	if h.transparent.colorTexture != renderer.MissingTexture {
		t.Fatalf("color texture = %s, want MissingTexture", h.transparent.colorTexture)
	}
	if h.rec.Count(renderer.OpSubmit) != 1 {
		t.Fatal("frame was not submitted")
	}
	v, ok := h.rec.Vector(shader.CameraBufferSize)
	if !ok || v != [4]float32{1.0 / 320, 1.0 / 240, 320, 240} {
		t.Fatalf("CameraBufferSize = %v", v)
	}
}

func TestScaledHDRFrame(t *testing.T) {
	h := newHarness(true)
	buffer := DefaultBufferSettings()
	buffer.RenderScale = 0.5
	res := h.render(t, gameCamera(), buffer, nil)

	if !res.Scaled || !res.Intermediate || !res.HDR {
		t.Fatalf("result = %+v, want scaled intermediate HDR", res)
	}
	want := common.Size{Width: 160, Height: 120}
	if res.BufferSize != want {
		t.Fatalf("buffer size = %+v, want %+v", res.BufferSize, want)
	}
	acquires := h.rec.Filter(renderer.OpAcquire)
	if len(acquires) != 2 {
		t.Fatalf("acquired %d targets, want color and depth attachments", len(acquires))
	}
	color, depth := acquires[0], acquires[1]
	if color.Desc.Size() != want || color.Desc.Format != renderer.FormatDefaultHDR || color.Desc.Filter != renderer.FilterBilinear {
		t.Fatalf("color attachment = %+v", color.Desc)
	}
	if depth.Desc.DepthBits != 32 || depth.Desc.Format != renderer.FormatDepth || depth.Desc.Filter != renderer.FilterPoint {
		t.Fatalf("depth attachment = %+v", depth.Desc)
	}

	draws := h.rec.Filter(renderer.OpDraw)
	last := draws[len(draws)-1]
	if last.Program != shader.ProgramCameraCopy || last.Pass != shader.PassCopy {
		t.Fatalf("last draw = %s pass %d, want the final copy", last.Program, last.Pass)
	}
}

func TestCopyFallbackRebindsAttachments(t *testing.T) {
	h := newHarness(false)
	buffer := DefaultBufferSettings()
	buffer.CopyColor, buffer.CopyDepth = true, true
	res := h.render(t, gameCamera(), buffer, nil)

	if res.HardwareCopy {
		t.Fatal("HardwareCopy set without copy support")
	}
	if n := h.rec.Count(renderer.OpCopy); n != 0 {
		t.Fatalf("recorded %d image copies, want 0", n)
	}
	var copyPasses []int
	for _, d := range h.rec.Filter(renderer.OpDraw) {
		if d.Program == shader.ProgramCameraCopy {
			copyPasses = append(copyPasses, d.Pass)
		}
	}
	if len(copyPasses) < 2 || copyPasses[0] != shader.PassCopy || copyPasses[1] != shader.PassCopyDepth {
		t.Fatalf("copy passes = %v, want color then depth copies", copyPasses)
	}

	rebound := false
	color := renderer.Target(shader.CameraColorAttachment)
	depth := renderer.Target(shader.CameraDepthAttachment)
	for _, c := range h.rec.Filter(renderer.OpSetRenderTarget) {
		if c.Target == color && c.Depth == depth && c.ColorLoad == renderer.LoadLoad && c.DepthLoad == renderer.LoadLoad {
			rebound = true
		}
	}
	if !rebound {
		t.Fatal("attachments were not re-bound with Load after the copy draws")
	}
	if h.transparent.colorTexture != renderer.Target(shader.CameraColorTexture) {
		t.Fatalf("transparent batch saw color texture %s", h.transparent.colorTexture)
	}
	if h.opaque.colorTexture != renderer.MissingTexture {
		t.Fatalf("opaque batch saw color texture %s", h.opaque.colorTexture)
	}
}

func TestHardwareCopy(t *testing.T) {
	h := newHarness(true)
	buffer := DefaultBufferSettings()
	buffer.CopyColor, buffer.CopyDepth = true, true
	res := h.render(t, gameCamera(), buffer, nil)

	if !res.HardwareCopy {
		t.Fatal("HardwareCopy not set")
	}
	if n := h.rec.Count(renderer.OpCopy); n != 2 {
		t.Fatalf("recorded %d image copies, want 2", n)
	}
	if res.Temporaries != 4 {
		t.Fatalf("temporaries = %d, want 4", res.Temporaries)
	}
}

func TestCameraSettingsDisableCopies(t *testing.T) {
	settings := camera.DefaultSettings()
	settings.CopyColor = false
	h := newHarness(true)
	buffer := DefaultBufferSettings()
	buffer.CopyColor, buffer.CopyDepth = true, true
	res := h.render(t, gameCamera(camera.WithSettings(settings)), buffer, nil)
	if res.CopyColor || !res.CopyDepth {
		t.Fatalf("copies color=%v depth=%v, want false/true", res.CopyColor, res.CopyDepth)
	}
}

func TestReflectionCameraUsesReflectionCopyFlags(t *testing.T) {
	h := newHarness(true)
	buffer := DefaultBufferSettings()
	buffer.CopyColor, buffer.CopyDepth = true, true
	buffer.CopyDepthReflection = true
	res := h.render(t, gameCamera(camera.WithKind(camera.KindReflection)), buffer, nil)
	if res.CopyColor || !res.CopyDepth {
		t.Fatalf("copies color=%v depth=%v, want false/true", res.CopyColor, res.CopyDepth)
	}
}

func TestCullingFailureSkipsFrame(t *testing.T) {
	h := newHarness(true)
	cam := camera.NewCamera(camera.WithName("Broken"))
	res, err := h.renderer.RenderFrame(h.rec, cam, DefaultBufferSettings(), BatchingSettings{}, light.DefaultShadowSettings(), postfx.NewSettings(), postfx.LUT32)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if !res.Skipped {
		t.Fatal("frame not skipped")
	}
	if n := len(h.rec.Commands()); n != 0 {
		t.Fatalf("recorded %d commands for a skipped frame", n)
	}
}

func TestPostFXReleasesEverything(t *testing.T) {
	fx := postfx.NewSettings(
		postfx.WithBloom(postfx.BloomSettings{MaxIterations: 4, DownscaleLimit: 2, Threshold: 0.5, ThresholdKnee: 0.5, Intensity: 1}),
		postfx.WithToneMapping(postfx.ToneMappingACES),
	)
	buffers := map[string]BufferSettings{}
	base := DefaultBufferSettings()
	base.FXAA.Enabled = true
	buffers["native"] = base
	scaled := base
	scaled.RenderScale = 0.75
	buffers["scaled"] = scaled
	copies := base
	copies.CopyColor, copies.CopyDepth = true, true
	buffers["copies"] = copies

	for name, buffer := range buffers {
		t.Run(name, func(t *testing.T) {
			h := newHarness(name != "copies")
			res := h.render(t, fxaaCamera(true), buffer, fx)
			if !res.PostFX || !res.Intermediate {
				t.Fatalf("result = %+v, want post-processed intermediate frame", res)
			}
			if n := passDraws(h.rec, "FXAAWithLuma"); n != 1 {
				t.Fatalf("FXAAWithLuma draws = %d, want 1", n)
			}
			if h.rec.Acquired() != h.rec.Released() {
				t.Fatalf("acquired %d, released %d", h.rec.Acquired(), h.rec.Released())
			}
		})
	}
}

func fxaaCamera(allow bool) camera.Camera {
	settings := camera.DefaultSettings()
	settings.AllowFXAA = allow
	return gameCamera(camera.WithSettings(settings))
}

// passDraws counts the full-screen draws of the named pass.
func passDraws(rec *renderer.Recorder, pass string) int {
	n := 0
	for _, c := range rec.Filter(renderer.OpDraw) {
		if c.PassName == pass {
			n++
		}
	}
	return n
}

func TestFXAANeedsPipelineAndCameraFlags(t *testing.T) {
	tests := []struct {
		pipeline, camera bool
		want             int
	}{
		{pipeline: false, camera: false, want: 0},
		{pipeline: true, camera: false, want: 0},
		{pipeline: false, camera: true, want: 0},
		{pipeline: true, camera: true, want: 1},
	}
	for _, tt := range tests {
		h := newHarness(true)
		buffer := DefaultBufferSettings()
		buffer.FXAA.Enabled = tt.pipeline
		h.render(t, fxaaCamera(tt.camera), buffer, postfx.NewSettings())
		if n := passDraws(h.rec, "FXAA") + passDraws(h.rec, "FXAAWithLuma"); n != tt.want {
			t.Errorf("pipeline=%v camera=%v: FXAA draws = %d, want %d", tt.pipeline, tt.camera, n, tt.want)
		}
	}
}

func TestPostFXSkippedForPreviewCameras(t *testing.T) {
	h := newHarness(true)
	res := h.render(t, gameCamera(camera.WithKind(camera.KindPreview)), DefaultBufferSettings(), postfx.NewSettings())
	if res.PostFX || res.Intermediate {
		t.Fatalf("result = %+v, want a direct frame", res)
	}
}

func TestDrawErrorReleasesTemporaries(t *testing.T) {
	h := newHarness(true)
	h.opaque.failure = errors.New("boom")
	buffer := DefaultBufferSettings()
	buffer.RenderScale = 0.5

	_, err := h.renderer.RenderFrame(h.rec, gameCamera(), buffer, BatchingSettings{}, light.DefaultShadowSettings(), nil, postfx.LUT32)
	if !errors.Is(err, h.opaque.failure) {
		t.Fatalf("error = %v, want the drawable's error", err)
	}
	if held := h.rec.Held(); len(held) != 0 {
		t.Fatalf("temporaries still held after error: %v", held)
	}
	if h.rec.Count(renderer.OpSubmit) != 0 {
		t.Fatal("failed frame was submitted")
	}
	if h.rec.Count(renderer.OpBeginSample) != h.rec.Count(renderer.OpEndSample) {
		t.Fatal("samples left open after error")
	}
}

// failingContext fails the nth full-screen draw of one pass.
type failingContext struct {
	*renderer.Recorder
	pass string
	nth  int
	seen int
	err  error
}

func (f *failingContext) DrawFullscreen(program shader.Program, pass int) error {
	if name, _ := program.PassName(pass); name == f.pass {
		f.seen++
		if f.seen == f.nth {
			return f.err
		}
	}
	return f.Recorder.DrawFullscreen(program, pass)
}

func TestPostFXErrorReleasesTemporaries(t *testing.T) {
	fx := postfx.NewSettings(
		postfx.WithBloom(postfx.BloomSettings{MaxIterations: 4, DownscaleLimit: 2, Threshold: 0.5, ThresholdKnee: 0.5, Intensity: 1}),
		postfx.WithToneMapping(postfx.ToneMappingACES),
	)
	tests := []struct {
		pass string
		nth  int
	}{
		{pass: "BloomVertical", nth: 2},
		{pass: "BloomAdd", nth: 2},
		{pass: "FXAAWithLuma", nth: 1},
		{pass: "FinalRescale", nth: 1},
	}
	for _, tt := range tests {
		t.Run(tt.pass, func(t *testing.T) {
			h := newHarness(true)
			ctx := &failingContext{Recorder: h.rec, pass: tt.pass, nth: tt.nth, err: errors.New("device lost")}
			buffer := DefaultBufferSettings()
			buffer.RenderScale = 0.5
			buffer.FXAA.Enabled = true

			_, err := h.renderer.RenderFrame(ctx, fxaaCamera(true), buffer, BatchingSettings{}, light.DefaultShadowSettings(), fx, postfx.LUT32)
			if !errors.Is(err, ctx.err) {
				t.Fatalf("error = %v, want the draw error", err)
			}
			if ctx.seen < tt.nth {
				t.Fatalf("%s drawn %d times, never reached draw %d", tt.pass, ctx.seen, tt.nth)
			}
			if held := h.rec.Held(); len(held) != 0 {
				t.Fatalf("temporaries still held after error: %v", held)
			}
			if h.rec.Acquired() != h.rec.Released() {
				t.Fatalf("acquired %d, released %d", h.rec.Acquired(), h.rec.Released())
			}
			if h.rec.Count(renderer.OpSubmit) != 0 {
				t.Fatal("failed frame was submitted")
			}
			if h.rec.Count(renderer.OpBeginSample) != h.rec.Count(renderer.OpEndSample) {
				t.Fatal("samples left open after error")
			}
		})
	}
}

func TestClearFlags(t *testing.T) {
	background := [4]float32{1, 0.5, 0, 1}
	tests := []struct {
		name      string
		flags     camera.ClearFlags
		scale     float32
		wantDepth bool
		wantColor bool
	}{
		{name: "skybox direct", flags: camera.ClearSkybox, scale: 1, wantDepth: true},
		{name: "color direct", flags: camera.ClearColor, scale: 1, wantDepth: true, wantColor: true},
		{name: "depth direct", flags: camera.ClearDepth, scale: 1, wantDepth: true},
		{name: "nothing direct", flags: camera.ClearNothing, scale: 1},
		{name: "nothing intermediate", flags: camera.ClearNothing, scale: 0.5, wantDepth: true, wantColor: true},
		{name: "depth intermediate", flags: camera.ClearDepth, scale: 0.5, wantDepth: true, wantColor: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(true)
			buffer := DefaultBufferSettings()
			buffer.RenderScale = tt.scale
			h.render(t, gameCamera(camera.WithClear(tt.flags, background)), buffer, nil)

			clears := h.rec.Filter(renderer.OpClear)
			if len(clears) != 1 {
				t.Fatalf("recorded %d clears, want 1", len(clears))
			}
			c := clears[0]
			if c.ClearMask != [2]bool{tt.wantDepth, tt.wantColor} {
				t.Fatalf("clear mask = %v, want depth=%v color=%v", c.ClearMask, tt.wantDepth, tt.wantColor)
			}
			if tt.wantColor && c.Vector != common.ColorToLinear(background) {
				t.Fatalf("clear color = %v, want linear background", c.Vector)
			}
		})
	}
}

func TestResolveRenderScale(t *testing.T) {
	multiply := camera.DefaultSettings()
	multiply.RenderScaleMode = camera.RenderScaleMultiply
	multiply.RenderScale = 0.5
	override := camera.DefaultSettings()
	override.RenderScaleMode = camera.RenderScaleOverride
	override.RenderScale = 5

	tests := []struct {
		name       string
		settings   camera.Settings
		scale      float32
		useScaled  bool
		wantScale  float32
		wantScaled bool
	}{
		{name: "native", settings: camera.DefaultSettings(), scale: 1, useScaled: true, wantScale: 1},
		{name: "within epsilon", settings: camera.DefaultSettings(), scale: 1.005, useScaled: true, wantScale: 1.005},
		{name: "inherit", settings: camera.DefaultSettings(), scale: 0.5, useScaled: true, wantScale: 0.5, wantScaled: true},
		{name: "multiply", settings: multiply, scale: 1.5, useScaled: true, wantScale: 0.75, wantScaled: true},
		{name: "override clamped", settings: override, scale: 1, useScaled: true, wantScale: RenderScaleMax, wantScaled: true},
		{name: "lower clamp", settings: camera.DefaultSettings(), scale: 0, useScaled: true, wantScale: RenderScaleMin, wantScaled: true},
		{name: "scene window", settings: camera.DefaultSettings(), scale: 0.5, useScaled: false, wantScale: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := camera.NewCamera(camera.WithSettings(tt.settings))
			scale, scaled := resolveRenderScale(cam, tt.scale, tt.useScaled)
			if scale != tt.wantScale || scaled != tt.wantScaled {
				t.Fatalf("got (%v, %v), want (%v, %v)", scale, scaled, tt.wantScale, tt.wantScaled)
			}
		})
	}
}

func TestSceneWindowHooksRenderUnscaled(t *testing.T) {
	h := newHarness(true, WithEditorHooks(SceneWindowHooks{}))
	buffer := DefaultBufferSettings()
	buffer.RenderScale = 0.5

	res := h.render(t, gameCamera(camera.WithKind(camera.KindSceneView)), buffer, nil)
	if res.Scaled {
		t.Fatal("scene-view camera rendered scaled")
	}
	res = h.render(t, gameCamera(), buffer, nil)
	if !res.Scaled {
		t.Fatal("game camera rendered unscaled")
	}
}

func TestLightsUploaded(t *testing.T) {
	h := newHarness(true)
	res := h.render(t, gameCamera(), DefaultBufferSettings(), nil)
	if res.VisibleLights != 1 {
		t.Fatalf("visible lights = %d, want 1", res.VisibleLights)
	}
	if n, _ := h.rec.Int(shader.DirectionalLightCount); n != 1 {
		t.Fatalf("DirectionalLightCount = %d, want 1", n)
	}
}
