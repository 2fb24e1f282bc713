// Command oxyrp opens a window and renders a procedural sky through the camera render pipeline. Keys toggle
// the pipeline features at runtime; see common/key_codes.go.
package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"

	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/Carmen-Shannon/oxy-rp/engine"
	"github.com/Carmen-Shannon/oxy-rp/engine/camera"
	"github.com/Carmen-Shannon/oxy-rp/engine/camera_renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/culling"
	"github.com/Carmen-Shannon/oxy-rp/engine/light"
	"github.com/Carmen-Shannon/oxy-rp/engine/postfx"
	"github.com/Carmen-Shannon/oxy-rp/engine/render_pipeline"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-rp/engine/window"
	"github.com/urfave/cli"
)

// queueBackground draws the sky before the opaque geometry.
const queueBackground = 1000

var renderScales = []float32{1, 0.75, 0.5, 0.25, 1.5}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		common.Logger().Error("oxyrp", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "oxyrp"
	app.Usage = "render a procedural sky through the camera render pipeline"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "width", Value: 1280, Usage: "window width"},
		cli.IntFlag{Name: "height", Value: 720, Usage: "window height"},
		cli.BoolFlag{Name: "software", Usage: "use the fallback adapter"},
		cli.BoolFlag{Name: "no-copy", Usage: "disable texture copies to exercise the copy draws"},
		cli.BoolFlag{Name: "v", Usage: "log per-frame decisions and validate shaders with naga"},
	}
	app.Before = func(c *cli.Context) error {
		level := slog.LevelInfo
		if c.Bool("v") {
			level = slog.LevelDebug
		}
		common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	}
	app.Action = run
	return app
}

func run(c *cli.Context) error {
	win, err := window.NewWindow(
		window.WithTitle("oxy-rp"),
		window.WithSize(common.Size{Width: c.Int("width"), Height: c.Int("height")}),
	)
	if err != nil {
		return fmt.Errorf("failed to open window: %w", err)
	}
	ctx := renderer.NewWGPUContext(win.SurfaceDescriptor(),
		renderer.WithForceSoftwareRenderer(c.Bool("software")),
		renderer.WithHardwareCopies(!c.Bool("no-copy")),
		renderer.WithShaderValidation(c.Bool("v")),
	)

	fx := postfx.NewSettings(
		postfx.WithBloom(postfx.BloomSettings{
			MaxIterations:  8,
			DownscaleLimit: 2,
			Threshold:      0.9,
			ThresholdKnee:  0.5,
			Intensity:      0.6,
			FadeFireflies:  true,
			Mode:           postfx.BloomScattering,
			Scatter:        0.7,
		}),
		postfx.WithToneMapping(postfx.ToneMappingACES),
	)
	buffer := camera_renderer.DefaultBufferSettings()
	buffer.CopyColor, buffer.CopyDepth = true, true
	buffer.FXAA.Enabled = true

	pipeline := render_pipeline.NewWithRenderer(
		culling.NewFrustumCuller(),
		[]camera_renderer.CameraRendererBuilderOption{camera_renderer.WithEditorHooks(camera_renderer.SceneWindowHooks{})},
		render_pipeline.WithBufferSettings(buffer),
		render_pipeline.WithPostFX(fx),
	)
	sun := light.NewLight(light.LightTypeDirectional,
		light.WithDirection(-0.3, -0.4, 0.85),
		light.WithColor(1, 0.95, 0.85),
		light.WithIntensity(2),
		light.WithShadows(1, 1),
	)
	sky := material.NewMaterial(material.WithName("Sky"))
	material.ApplyPreset(sky, material.PresetOpaque)
	sky.SetRenderQueue(queueBackground)
	pipeline.Culler().AddLight(sun)
	pipeline.Culler().AddDrawable(&culling.FullscreenDrawable{Material: sky, Program: shader.ProgramSky})

	settings := camera.DefaultSettings()
	settings.AllowFXAA = true
	cam := camera.NewCamera(
		camera.WithName("Main Camera"),
		camera.WithFov(float32(60*math.Pi/180)),
		camera.WithTarget(0, 2, 0),
		camera.WithSettings(settings),
	)
	orbit := &camera.Orbit{Radius: 12, Elevation: 0.25, Speed: 0.2}
	var orbitMu sync.Mutex

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithContext(ctx),
		engine.WithPipeline(pipeline),
		engine.WithCameras(cam),
		engine.WithProfiling(true),
		engine.WithTickRate(60),
	)
	eng.SetTickCallback(func(dt float32) {
		orbitMu.Lock()
		defer orbitMu.Unlock()
		orbit.Advance(cam, dt)
	})
	win.SetScrollCallback(func(delta float32) {
		orbitMu.Lock()
		defer orbitMu.Unlock()
		orbit.Radius = common.Clamp(orbit.Radius-delta, 2, 100)
	})
	win.SetKeyDownCallback(newKeyHandler(pipeline, fx))

	return eng.Run()
}

// newKeyHandler maps key presses to pipeline configuration changes.
func newKeyHandler(p *render_pipeline.RenderPipeline, fx *postfx.Settings) func(uint32) {
	scaleIndex := 0
	bloom := fx.Bloom
	return func(key uint32) {
		cfg := p.Config()
		switch key {
		case common.KeyB:
			if cfg.PostFX != nil {
				next := *cfg.PostFX
				if next.Bloom.Intensity > 0 {
					next.Bloom.Intensity = 0
				} else {
					next.Bloom = bloom
				}
				p.SetConfig(render_pipeline.WithPostFX(&next))
			}
		case common.KeyF:
			b := cfg.Buffer
			b.FXAA.Enabled = !b.FXAA.Enabled
			p.SetConfig(render_pipeline.WithBufferSettings(b))
		case common.KeyH:
			b := cfg.Buffer
			b.AllowHDR = !b.AllowHDR
			p.SetConfig(render_pipeline.WithBufferSettings(b))
		case common.KeyP:
			if cfg.PostFX != nil {
				p.SetConfig(render_pipeline.WithPostFX(nil))
			} else {
				p.SetConfig(render_pipeline.WithPostFX(fx))
			}
		case common.KeyR:
			scaleIndex = (scaleIndex + 1) % len(renderScales)
			b := cfg.Buffer
			b.RenderScale = renderScales[scaleIndex]
			p.SetConfig(render_pipeline.WithBufferSettings(b))
		case common.KeyT:
			if cfg.PostFX != nil {
				next := *cfg.PostFX
				next.ToneMapping = (next.ToneMapping + 1) % (postfx.ToneMappingReinhard + 1)
				p.SetConfig(render_pipeline.WithPostFX(&next))
			}
		case common.Key1:
			p.SetConfig(render_pipeline.WithLUTResolution(postfx.LUT16))
		case common.Key2:
			p.SetConfig(render_pipeline.WithLUTResolution(postfx.LUT32))
		case common.Key3:
			p.SetConfig(render_pipeline.WithLUTResolution(postfx.LUT64))
		default:
			return
		}
		next := p.Config()
		common.Logger().Info("pipeline configuration changed",
			"postFX", next.PostFX != nil,
			"hdr", next.Buffer.AllowHDR,
			"fxaa", next.Buffer.FXAA.Enabled,
			"scale", next.Buffer.RenderScale,
			"lut", next.LUTResolution,
		)
	}
}
