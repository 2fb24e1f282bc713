package camera_renderer

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/Carmen-Shannon/oxy-rp/engine/camera"
	"github.com/Carmen-Shannon/oxy-rp/engine/culling"
	"github.com/Carmen-Shannon/oxy-rp/engine/light"
	"github.com/Carmen-Shannon/oxy-rp/engine/postfx"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
)

// defaultSampleName labels the frame sample of cameras without a name.
const defaultSampleName = "Render Camera"

// DefaultShaderPasses are the pass tags drawn by the geometry batches.
var DefaultShaderPasses = []string{"SRPDefaultUnlit", "CustomLit"}

// FrameResult describes what a RenderFrame call did.
type FrameResult struct {
	Camera string
	// Skipped is set when culling failed; nothing was recorded.
	Skipped      bool
	BufferSize   common.Size
	RenderScale  float32
	Scaled       bool
	HDR          bool
	Intermediate bool
	PostFX       bool
	CopyColor    bool
	CopyDepth    bool
	// HardwareCopy is set when attachment copies used CopyImage instead of copy draws.
	HardwareCopy  bool
	VisibleLights int
	Drawables     int
	// Temporaries counts the temporaries acquired during the frame.
	Temporaries int
}

// CameraRenderer renders one camera per call into a render context.
type CameraRenderer interface {
	// RenderFrame records and submits one frame for cam.
	//
	// Parameters:
	//   - ctx: the render context the frame is recorded into
	//   - cam: the camera to render
	//   - buffer: the pipeline buffer settings
	//   - batching: the geometry batching settings
	//   - shadows: the shadow settings
	//   - fx: the post-processing settings, or nil to disable post-processing
	//   - lutResolution: the color grading LUT size
	//
	// Returns:
	//   - FrameResult: a description of the frame
	//   - error: an error from the render context or a drawable; every temporary is released regardless
	RenderFrame(ctx renderer.Context, cam camera.Camera, buffer BufferSettings, batching BatchingSettings,
		shadows light.ShadowSettings, fx *postfx.Settings, lutResolution postfx.LUTResolution) (FrameResult, error)

	// Collector returns the light collector owned by the renderer.
	Collector() light.Collector
}

type cameraRendererImpl struct {
	mu *sync.Mutex

	culler       culling.Culler
	submitter    culling.DrawSubmitter
	collector    light.Collector
	stack        postfx.Stack
	hooks        EditorHooks
	shaderPasses []string
	layerMask    uint32
}

var _ CameraRenderer = &cameraRendererImpl{}

// NewCameraRenderer creates a CameraRenderer. A culler is required; the draw submitter, light collector,
// post-processing stack and editor hooks default to culling.NewQueueSubmitter, light.NewCollector,
// postfx.NewStack and NoopEditorHooks.
//
// Parameters:
//   - culler: the visibility provider
//   - options: variadic list of CameraRendererBuilderOption functions
//
// Returns:
//   - CameraRenderer: the renderer
func NewCameraRenderer(culler culling.Culler, options ...CameraRendererBuilderOption) CameraRenderer {
	r := &cameraRendererImpl{
		mu:           &sync.Mutex{},
		culler:       culler,
		shaderPasses: DefaultShaderPasses,
		layerMask:    math.MaxUint32,
	}
	for _, opt := range options {
		opt(r)
	}
	if r.submitter == nil {
		r.submitter = culling.NewQueueSubmitter()
	}
	if r.collector == nil {
		r.collector = light.NewCollector()
	}
	if r.stack == nil {
		r.stack = postfx.NewStack()
	}
	if r.hooks == nil {
		r.hooks = NoopEditorHooks{}
	}
	return r
}

func (r *cameraRendererImpl) Collector() light.Collector {
	return r.collector
}

// frameState is the per-frame working set of one RenderFrame call.
type frameState struct {
	ctx     renderer.Context
	scope   *renderer.TemporaryScope
	cam     camera.Camera
	results culling.Results
	sample  string

	bufferSize   common.Size
	useHDR       bool
	copyColor    bool
	copyDepth    bool
	intermediate bool
	hardwareCopy bool
}

func (f *frameState) format() renderer.Format {
	if f.useHDR {
		return renderer.FormatDefaultHDR
	}
	return renderer.FormatDefault
}

func (f *frameState) colorDescriptor() renderer.TextureDescriptor {
	return renderer.TextureDescriptor{
		Width:  f.bufferSize.Width,
		Height: f.bufferSize.Height,
		Filter: renderer.FilterBilinear,
		Format: f.format(),
	}
}

func (f *frameState) depthDescriptor() renderer.TextureDescriptor {
	return renderer.TextureDescriptor{
		Width:     f.bufferSize.Width,
		Height:    f.bufferSize.Height,
		DepthBits: 32,
		Filter:    renderer.FilterPoint,
		Format:    renderer.FormatDepth,
	}
}

// resolveRenderScale returns the clamped render scale and whether it differs from native.
func resolveRenderScale(cam camera.Camera, pipelineScale float32, useScaled bool) (float32, bool) {
	scale := common.Clamp(cam.Settings().GetRenderScale(pipelineScale), RenderScaleMin, RenderScaleMax)
	if !useScaled {
		return 1, false
	}
	return scale, scale < 1-RenderScaleEpsilon || scale > 1+RenderScaleEpsilon
}

// scaledSize truncates the scaled pixel size, keeping at least one pixel per axis.
func scaledSize(native common.Size, scale float32) common.Size {
	return common.Size{
		Width:  max(1, int(float32(native.Width)*scale)),
		Height: max(1, int(float32(native.Height)*scale)),
	}
}

func (r *cameraRendererImpl) RenderFrame(ctx renderer.Context, cam camera.Camera, buffer BufferSettings, batching BatchingSettings,
	shadows light.ShadowSettings, fx *postfx.Settings, lutResolution postfx.LUTResolution) (result FrameResult, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result.Camera = cam.Name()
	scale, scaled := resolveRenderScale(cam, buffer.RenderScale, !r.hooks.PrepareForSceneWindow(cam))

	results, ok := r.culler.Cull(cam, shadows.MaxDistance)
	if !ok {
		common.Logger().Debug("culling failed, camera skipped", "camera", cam.Name())
		result.Skipped = true
		return result, nil
	}

	f := &frameState{
		ctx:     ctx,
		scope:   renderer.NewTemporaryScope(ctx),
		cam:     cam,
		results: results,
		sample:  common.Coalesce(cam.Name(), defaultSampleName),
		useHDR:  buffer.AllowHDR && cam.AllowHDR(),
	}
	defer func() {
		if rerr := f.scope.ReleaseAll(); rerr != nil {
			err = errors.Join(err, rerr)
		}
		result.Temporaries = f.scope.Acquired()
	}()

	native := cam.PixelRect().Size()
	f.bufferSize = native
	if scaled {
		f.bufferSize = scaledSize(native, scale)
	}
	if cam.Kind() == camera.KindReflection {
		f.copyColor = buffer.CopyColorReflection
		f.copyDepth = buffer.CopyDepthReflection
	} else {
		f.copyColor = buffer.CopyColor && cam.Settings().CopyColor
		f.copyDepth = buffer.CopyDepth && cam.Settings().CopyDepth
	}

	ctx.BeginSample(f.sample)
	w, h := float32(f.bufferSize.Width), float32(f.bufferSize.Height)
	ctx.SetGlobalVector(shader.CameraBufferSize, [4]float32{1 / w, 1 / h, w, h})
	r.collector.Setup(ctx, results, shadows, batching.LightsPerObject)
	fxaa := buffer.FXAA
	fxaa.Enabled = fxaa.Enabled && cam.Settings().AllowFXAA
	r.stack.Configure(postfx.Config{
		Scope:         f.scope,
		Camera:        cam,
		BufferSize:    f.bufferSize,
		UseHDR:        f.useHDR,
		KeepAlpha:     cam.Settings().KeepAlpha,
		LUTResolution: lutResolution,
		FXAA:          fxaa,
		FinalBlend:    cam.Settings().FinalBlend,
	}, fx)
	ctx.EndSample(f.sample)

	f.intermediate = scaled || f.copyColor || f.copyDepth || r.stack.IsActive()

	result.BufferSize = f.bufferSize
	result.RenderScale = scale
	result.Scaled = scaled
	result.HDR = f.useHDR
	result.Intermediate = f.intermediate
	result.PostFX = r.stack.IsActive()
	result.CopyColor = f.copyColor
	result.CopyDepth = f.copyDepth
	result.VisibleLights = len(results.VisibleLights())
	result.Drawables = len(results.Drawables())

	ctx.BeginSample(f.sample)
	if err := r.render(f, batching); err != nil {
		ctx.EndSample(f.sample)
		r.collector.Cleanup(ctx)
		return result, fmt.Errorf("render camera %q: %w", cam.Name(), err)
	}
	result.HardwareCopy = f.hardwareCopy
	if err := r.cleanup(f); err != nil {
		ctx.EndSample(f.sample)
		return result, fmt.Errorf("render camera %q: %w", cam.Name(), err)
	}
	ctx.EndSample(f.sample)
	if err := ctx.Submit(); err != nil {
		return result, fmt.Errorf("submit camera %q: %w", cam.Name(), err)
	}
	return result, nil
}

func (r *cameraRendererImpl) render(f *frameState, batching BatchingSettings) error {
	if err := r.setup(f); err != nil {
		return err
	}
	if err := r.drawVisibleGeometry(f, batching); err != nil {
		return err
	}
	if err := r.hooks.DrawUnsupportedShaders(f.ctx, f.results); err != nil {
		return err
	}
	if err := r.hooks.DrawGizmosBeforeFX(f.ctx, f.cam); err != nil {
		return err
	}
	colorAttachment := renderer.Target(shader.CameraColorAttachment)
	if r.stack.IsActive() {
		if err := r.stack.Render(colorAttachment); err != nil {
			return err
		}
	} else if f.intermediate {
		f.ctx.SetGlobalTexture(shader.SourceTexture, colorAttachment)
		f.ctx.SetRenderTarget(renderer.CameraTarget, renderer.LoadDontCare, renderer.NoTarget, renderer.LoadDontCare)
		f.ctx.SetViewport(f.cam.PixelRect())
		if err := f.ctx.DrawFullscreen(shader.ProgramCameraCopy, shader.PassCopy); err != nil {
			return err
		}
	}
	return r.hooks.DrawGizmosAfterFX(f.ctx, f.cam)
}

// setup binds and clears the frame's render targets.
func (r *cameraRendererImpl) setup(f *frameState) error {
	flags := f.cam.ClearFlags()
	target, depth := renderer.CameraTarget, renderer.NoTarget
	if f.intermediate {
		// an intermediate buffer starts undefined, so it is always cleared
		flags = min(flags, camera.ClearColor)
		target = renderer.Target(shader.CameraColorAttachment)
		depth = renderer.Target(shader.CameraDepthAttachment)
		if err := f.scope.Acquire(target, f.colorDescriptor()); err != nil {
			return err
		}
		if err := f.scope.Acquire(depth, f.depthDescriptor()); err != nil {
			return err
		}
		f.ctx.SetRenderTarget(target, renderer.LoadDontCare, depth, renderer.LoadDontCare)
	} else {
		f.ctx.SetRenderTarget(target, renderer.LoadLoad, depth, renderer.LoadDontCare)
		f.ctx.SetViewport(f.cam.PixelRect())
	}

	clearColor := [4]float32{}
	if flags == camera.ClearColor {
		clearColor = common.ColorToLinear(f.cam.BackgroundColor())
	}
	f.ctx.ClearRenderTarget(flags <= camera.ClearDepth, flags == camera.ClearColor, clearColor)
	f.ctx.SetGlobalTexture(shader.CameraColorTexture, renderer.MissingTexture)
	f.ctx.SetGlobalTexture(shader.CameraDepthTexture, renderer.MissingTexture)
	return nil
}

func (r *cameraRendererImpl) drawVisibleGeometry(f *frameState, batching BatchingSettings) error {
	perObject := culling.PerObjectReflectionProbes | culling.PerObjectLightmaps | culling.PerObjectShadowMask |
		culling.PerObjectLightProbe | culling.PerObjectOcclusionProbe
	if batching.LightsPerObject {
		perObject |= culling.PerObjectLightData | culling.PerObjectLightIndices
	}
	settings := culling.DrawSettings{
		Sorting:               culling.SortCommonOpaque,
		EnableDynamicBatching: batching.DynamicBatching,
		EnableInstancing:      batching.Instancing,
		PerObjectData:         perObject,
		ShaderPasses:          r.shaderPasses,
	}
	filter := culling.FilterSettings{Queue: culling.QueueRangeOpaque, RenderingLayerMask: r.layerMask}
	if err := r.submitter.DrawRenderers(f.ctx, f.results, settings, filter); err != nil {
		return fmt.Errorf("opaque: %w", err)
	}

	if f.copyColor || f.copyDepth {
		if err := copyAttachments(f); err != nil {
			return err
		}
	}

	settings.Sorting = culling.SortCommonTransparent
	filter.Queue = culling.QueueRangeTransparent
	if err := r.submitter.DrawRenderers(f.ctx, f.results, settings, filter); err != nil {
		return fmt.Errorf("transparent: %w", err)
	}
	return nil
}

// copyAttachments makes the opaque color and depth available to the transparent batch as textures.
func copyAttachments(f *frameState) error {
	colorAttachment := renderer.Target(shader.CameraColorAttachment)
	depthAttachment := renderer.Target(shader.CameraDepthAttachment)
	f.hardwareCopy = f.ctx.CopySupported()
	if !f.hardwareCopy {
		common.Logger().Debug("image copies unsupported, copying attachments with draws", "camera", f.cam.Name())
	}

	if f.copyColor {
		colorTexture := renderer.Target(shader.CameraColorTexture)
		if err := f.scope.Acquire(colorTexture, f.colorDescriptor()); err != nil {
			return err
		}
		if err := copyTarget(f, colorAttachment, colorTexture, false); err != nil {
			return fmt.Errorf("copy color: %w", err)
		}
		f.ctx.SetGlobalTexture(shader.CameraColorTexture, colorTexture)
	}
	if f.copyDepth {
		depthTexture := renderer.Target(shader.CameraDepthTexture)
		if err := f.scope.Acquire(depthTexture, f.depthDescriptor()); err != nil {
			return err
		}
		if err := copyTarget(f, depthAttachment, depthTexture, true); err != nil {
			return fmt.Errorf("copy depth: %w", err)
		}
		f.ctx.SetGlobalTexture(shader.CameraDepthTexture, depthTexture)
	}

	if !f.hardwareCopy {
		f.ctx.SetRenderTarget(colorAttachment, renderer.LoadLoad, depthAttachment, renderer.LoadLoad)
	}
	return nil
}

func copyTarget(f *frameState, from, to renderer.TargetID, depth bool) error {
	if f.hardwareCopy {
		return f.ctx.CopyImage(from, to)
	}
	if depth {
		f.ctx.SetGlobalTexture(shader.SourceDepthTexture, from)
		f.ctx.SetRenderTarget(renderer.NoTarget, renderer.LoadDontCare, to, renderer.LoadDontCare)
		return f.ctx.DrawFullscreen(shader.ProgramCameraCopy, shader.PassCopyDepth)
	}
	f.ctx.SetGlobalTexture(shader.SourceTexture, from)
	f.ctx.SetRenderTarget(to, renderer.LoadDontCare, renderer.NoTarget, renderer.LoadDontCare)
	return f.ctx.DrawFullscreen(shader.ProgramCameraCopy, shader.PassCopy)
}

// cleanup releases the frame's shadow resources, attachments and attachment copies.
func (r *cameraRendererImpl) cleanup(f *frameState) error {
	r.collector.Cleanup(f.ctx)
	var release []renderer.TargetID
	if f.intermediate {
		release = append(release, renderer.Target(shader.CameraColorAttachment), renderer.Target(shader.CameraDepthAttachment))
	}
	if f.copyColor {
		release = append(release, renderer.Target(shader.CameraColorTexture))
	}
	if f.copyDepth {
		release = append(release, renderer.Target(shader.CameraDepthTexture))
	}
	for _, id := range release {
		if err := f.scope.Release(id); err != nil {
			return err
		}
	}
	return nil
}
