package renderer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode represents the presentation mode of the surface.
type PresentMode int

const (
	// PresentModeVSync waits for the vertical blank (FIFO).
	PresentModeVSync PresentMode = iota
	// PresentModeUncapped presents immediately.
	PresentModeUncapped
)

// bindings of the shared full-screen bind group layout, mirrored by assets/fullscreen.wgsl
const (
	bindingGlobals       = 0
	bindingLinearSampler = 6
	bindingPointSampler  = 7
	bindingLighting      = 8
)

// SurfaceContext is a Context backed by a WebGPU device that renders CameraTarget into a window surface.
type SurfaceContext interface {
	Context

	// ConfigureSurface (re)configures the surface for the given size. Call it on start-up and on resize.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	ConfigureSurface(width, height int)

	// SurfaceSize returns the configured surface size.
	SurfaceSize() common.Size

	// Present shows the current surface image. Submit every camera of the frame before presenting.
	//
	// Returns:
	//   - error: ErrNoSurface if the surface was never configured
	Present() error

	// Release frees every GPU object owned by the context.
	Release()
}

type gpuTarget struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	desc    TextureDescriptor
	format  wgpu.TextureFormat
}

func (t *gpuTarget) release() {
	if t.view != nil {
		t.view.Release()
	}
	if t.texture != nil {
		t.texture.Release()
	}
}

type passState struct {
	color, depth         TargetID
	colorLoad, depthLoad LoadAction
	clearColor           [4]float32
}

// wgpuContextImpl implements SurfaceContext. Commands are encoded as they are issued and the command
// buffer is submitted by Submit.
type wgpuContextImpl struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	surfaceSize   common.Size
	configured    bool
	presentMode   wgpu.PresentMode
	forceFallback bool
	copySupported bool
	validate      bool

	layout         *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	modules        map[shader.Program]*wgpu.ShaderModule
	pipelines      map[pipeline.Key]pipeline.Pipeline
	linearSampler  *wgpu.Sampler
	pointSampler   *wgpu.Sampler
	missingColor   *gpuTarget
	missingDepth   *gpuTarget
	lightingBuffer *wgpu.Buffer

	pool map[TextureDescriptor][]*gpuTarget
	held map[TargetID]*gpuTarget

	globals  []byte
	lighting []byte
	textures map[shader.Property]TargetID
	keywords map[shader.Keyword]bool

	encoder      *wgpu.CommandEncoder
	pass         *wgpu.RenderPassEncoder
	state        passState
	viewport     common.Rect
	viewportSet  bool
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
	samples      []string
	transient    []func()
}

var _ SurfaceContext = &wgpuContextImpl{}

// NewWGPUContext creates a WebGPU device for the given surface and the shared full-screen resources.
// Device creation failures panic; there is no meaningful way to continue without a device.
//
// Parameters:
//   - surfaceDescriptor: the platform surface descriptor, typically from the window
//   - opts: variadic list of WGPUContextBuilderOption functions
//
// Returns:
//   - SurfaceContext: the context
func NewWGPUContext(surfaceDescriptor *wgpu.SurfaceDescriptor, opts ...WGPUContextBuilderOption) SurfaceContext {
	runtime.LockOSThread()
	c := &wgpuContextImpl{
		mu:            &sync.Mutex{},
		instance:      wgpu.CreateInstance(nil),
		presentMode:   wgpu.PresentModeFifo,
		copySupported: true,
		modules:       make(map[shader.Program]*wgpu.ShaderModule),
		pipelines:     make(map[pipeline.Key]pipeline.Pipeline),
		pool:          make(map[TextureDescriptor][]*gpuTarget),
		held:          make(map[TargetID]*gpuTarget),
		globals:       make([]byte, shader.PostFXBlockSize),
		lighting:      make([]byte, shader.LightingBlockSize),
		textures:      make(map[shader.Property]TargetID),
		keywords:      make(map[shader.Keyword]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.surface = c.instance.CreateSurface(surfaceDescriptor)

	a, err := c.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: c.forceFallback,
		CompatibleSurface:    c.surface,
	})
	if err != nil {
		panic(err)
	}
	c.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Render Pipeline Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	c.device = d
	c.queue = d.GetQueue()
	common.Logger().Info("webgpu device created", "fallback", c.forceFallback)

	if err := c.initSharedResources(); err != nil {
		panic(err)
	}
	return c
}

func (c *wgpuContextImpl) initSharedResources() error {
	entries := []wgpu.BindGroupLayoutEntry{
		{Binding: bindingGlobals, Visibility: wgpu.ShaderStageFragment, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
		{Binding: bindingLinearSampler, Visibility: wgpu.ShaderStageFragment, Sampler: wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}},
		{Binding: bindingPointSampler, Visibility: wgpu.ShaderStageFragment, Sampler: wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}},
		{Binding: bindingLighting, Visibility: wgpu.ShaderStageFragment, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
	}
	for _, p := range textureProperties() {
		sampleType := wgpu.TextureSampleTypeFloat
		if p == shader.SourceDepthTexture {
			sampleType = wgpu.TextureSampleTypeDepth
		}
		entries = append(entries, wgpu.BindGroupLayoutEntry{
			Binding:    uint32(shader.Lookup(p).Slot),
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    sampleType,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		})
	}

	var err error
	c.layout, err = c.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Full-screen Bind Group Layout",
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("failed to create full-screen bind group layout: %w", err)
	}
	c.pipelineLayout, err = c.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Full-screen Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{c.layout},
	})
	if err != nil {
		return err
	}

	c.linearSampler, err = c.createSampler("Linear", wgpu.FilterModeLinear, wgpu.MipmapFilterModeLinear)
	if err != nil {
		return err
	}
	c.pointSampler, err = c.createSampler("Point", wgpu.FilterModeNearest, wgpu.MipmapFilterModeNearest)
	if err != nil {
		return err
	}

	c.lightingBuffer, err = c.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Lighting Buffer",
		Size:  shader.LightingBlockSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}

	c.missingColor, err = c.createTarget(TextureDescriptor{Width: 1, Height: 1, Format: FormatDefault})
	if err != nil {
		return err
	}
	c.missingDepth, err = c.createTarget(TextureDescriptor{Width: 1, Height: 1, DepthBits: 32, Format: FormatDepth})
	return err
}

// textureProperties lists the texture properties with a slot in the shared layout, in slot order.
func textureProperties() []shader.Property {
	return []shader.Property{shader.FXSource, shader.FXSource2, shader.ColorGradingLUT, shader.SourceTexture, shader.SourceDepthTexture}
}

func (c *wgpuContextImpl) createSampler(label string, filter wgpu.FilterMode, mipmapFilter wgpu.MipmapFilterMode) (*wgpu.Sampler, error) {
	return c.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     filter,
		MinFilter:     filter,
		MipmapFilter:  mipmapFilter,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
}

func textureFormat(f Format) wgpu.TextureFormat {
	switch f {
	case FormatDefaultHDR:
		return wgpu.TextureFormatRGBA16Float
	case FormatDepth:
		return wgpu.TextureFormatDepth32Float
	default:
		return wgpu.TextureFormatRGBA8Unorm
	}
}

func (c *wgpuContextImpl) createTarget(desc TextureDescriptor) (*gpuTarget, error) {
	format := textureFormat(desc.Format)
	tex, err := c.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: fmt.Sprintf("Temporary %s %dx%d", desc.Format, desc.Width, desc.Height),
		Size: wgpu.Extent3D{
			Width:              uint32(desc.Width),
			Height:             uint32(desc.Height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopySrc | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	return &gpuTarget{texture: tex, view: view, desc: desc, format: format}, nil
}

func (c *wgpuContextImpl) ConfigureSurface(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	capabilities := c.surface.GetCapabilities(c.adapter)
	c.surfaceFormat = capabilities.Formats[0]
	c.surface.Configure(c.adapter, c.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      c.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: c.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	c.surfaceSize = common.Size{Width: width, Height: height}
	c.configured = true
}

func (c *wgpuContextImpl) SurfaceSize() common.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surfaceSize
}

func (c *wgpuContextImpl) AcquireTemporary(id TargetID, desc TextureDescriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id.Builtin() {
		return fmt.Errorf("acquire built-in target %s", id)
	}
	if _, ok := c.held[id]; ok {
		return fmt.Errorf("acquire %s: %w", id, ErrTargetHeld)
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return fmt.Errorf("acquire %s with size %dx%d", id, desc.Width, desc.Height)
	}
	// filtering is chosen by the shader's sampler, so it does not split the pool
	key := desc
	key.Filter = FilterPoint
	if free := c.pool[key]; len(free) > 0 {
		c.held[id] = free[len(free)-1]
		c.pool[key] = free[:len(free)-1]
		return nil
	}
	t, err := c.createTarget(key)
	if err != nil {
		return fmt.Errorf("acquire %s: %w", id, err)
	}
	c.held[id] = t
	return nil
}

func (c *wgpuContextImpl) ReleaseTemporary(id TargetID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.held[id]
	if !ok {
		return fmt.Errorf("release %s: %w", id, ErrTargetNotHeld)
	}
	delete(c.held, id)
	c.pool[t.desc] = append(c.pool[t.desc], t)
	return nil
}

func (c *wgpuContextImpl) CopySupported() bool {
	return c.copySupported
}

func (c *wgpuContextImpl) CopyImage(src, dst TargetID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.copySupported {
		return errors.New("copy image is not supported")
	}
	from, ok := c.held[src]
	if !ok {
		return fmt.Errorf("copy from %s: %w", src, ErrTargetNotHeld)
	}
	to, ok := c.held[dst]
	if !ok {
		return fmt.Errorf("copy to %s: %w", dst, ErrTargetNotHeld)
	}
	if from.desc.Width != to.desc.Width || from.desc.Height != to.desc.Height || from.format != to.format {
		return fmt.Errorf("copy %s -> %s: size or format mismatch", src, dst)
	}
	if err := c.ensureEncoder(); err != nil {
		return err
	}
	c.endPass()
	c.encoder.CopyTextureToTexture(
		&wgpu.ImageCopyTexture{Texture: from.texture, MipLevel: 0, Origin: wgpu.Origin3D{}, Aspect: wgpu.TextureAspectAll},
		&wgpu.ImageCopyTexture{Texture: to.texture, MipLevel: 0, Origin: wgpu.Origin3D{}, Aspect: wgpu.TextureAspectAll},
		&wgpu.Extent3D{Width: uint32(from.desc.Width), Height: uint32(from.desc.Height), DepthOrArrayLayers: 1},
	)
	return nil
}

func (c *wgpuContextImpl) SetRenderTarget(color TargetID, colorLoad LoadAction, depth TargetID, depthLoad LoadAction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.endPass()
	c.state = passState{color: color, depth: depth, colorLoad: colorLoad, depthLoad: depthLoad}
	c.viewportSet = false
}

func (c *wgpuContextImpl) ClearRenderTarget(clearDepth, clearColor bool, color [4]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.endPass()
	if clearColor {
		c.state.colorLoad = LoadClear
		c.state.clearColor = color
	}
	if clearDepth {
		c.state.depthLoad = LoadClear
	}
	if err := c.beginPass(); err != nil {
		common.Logger().Warn("clear render target failed", "error", err)
	}
}

func (c *wgpuContextImpl) SetViewport(rect common.Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.viewport = rect
	c.viewportSet = true
	if c.pass != nil {
		c.applyViewport()
	}
}

func (c *wgpuContextImpl) SetGlobalTexture(p shader.Property, id TargetID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.textures[p] = id
}

func (c *wgpuContextImpl) SetGlobalVector(p shader.Property, v [4]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := shader.Lookup(p)
	buf := c.block(b.Block)
	if buf == nil {
		return
	}
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[int(b.Offset)+i*4:], math.Float32bits(f))
	}
}

func (c *wgpuContextImpl) SetGlobalFloat(p shader.Property, f float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := shader.Lookup(p)
	if buf := c.block(b.Block); buf != nil {
		binary.LittleEndian.PutUint32(buf[b.Offset:], math.Float32bits(f))
	}
}

func (c *wgpuContextImpl) SetGlobalInt(p shader.Property, i int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := shader.Lookup(p)
	if buf := c.block(b.Block); buf != nil {
		binary.LittleEndian.PutUint32(buf[b.Offset:], uint32(i))
	}
}

func (c *wgpuContextImpl) SetGlobalVectorArray(p shader.Property, v [][4]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := shader.Lookup(p)
	buf := c.block(b.Block)
	if buf == nil {
		return
	}
	n := min(len(v), b.Length)
	for e := 0; e < n; e++ {
		for i, f := range v[e] {
			binary.LittleEndian.PutUint32(buf[int(b.Offset)+e*16+i*4:], math.Float32bits(f))
		}
	}
}

func (c *wgpuContextImpl) block(b shader.Block) []byte {
	switch b {
	case shader.BlockPostFX:
		return c.globals
	case shader.BlockLighting:
		return c.lighting
	}
	return nil
}

func (c *wgpuContextImpl) SetKeyword(k shader.Keyword, enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keywords[k] = enabled
}

func (c *wgpuContextImpl) DrawFullscreen(program shader.Program, pass int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	name, err := program.PassName(pass)
	if err != nil {
		return err
	}
	if c.pass == nil {
		if err := c.beginPass(); err != nil {
			return fmt.Errorf("draw %s: %w", name, err)
		}
	}

	colorFormat, depthFormat := wgpu.TextureFormatUndefined, wgpu.TextureFormatUndefined
	if t, ok := c.resolve(c.state.color); ok {
		colorFormat = t.format
	}
	if t, ok := c.resolve(c.state.depth); ok {
		depthFormat = t.format
	}
	opts := []pipeline.PipelineBuilderOption{
		pipeline.WithColorFormat(colorFormat),
		pipeline.WithDepthFormat(depthFormat, program == shader.ProgramCameraCopy && pass == shader.PassCopyDepth),
	}
	if program == shader.ProgramPostFX && finalPass(name) {
		opts = append(opts, pipeline.WithBlend(c.blendFactor(shader.FinalSrcBlend), c.blendFactor(shader.FinalDstBlend)))
	}
	p, err := c.pipelineFor(program, pass, opts...)
	if err != nil {
		return fmt.Errorf("draw %s: %w", name, err)
	}
	bindGroup, err := c.drawBindGroup()
	if err != nil {
		return fmt.Errorf("draw %s: %w", name, err)
	}

	c.pass.SetPipeline(p.RenderPipeline())
	c.pass.SetBindGroup(0, bindGroup, nil)
	c.pass.Draw(3, 1, 0, 0)
	return nil
}

func finalPass(name string) bool {
	switch name {
	case "FinalRescale", "FXAA", "FXAAWithLuma", "ApplyColorGrading", "ApplyColorGradingWithLuma":
		return true
	}
	return false
}

func (c *wgpuContextImpl) blendFactor(p shader.Property) wgpu.BlendFactor {
	b := shader.Lookup(p)
	v := math.Float32frombits(binary.LittleEndian.Uint32(c.globals[b.Offset:]))
	switch BlendFactor(v) {
	case BlendZero:
		return wgpu.BlendFactorZero
	case BlendDstColor:
		return wgpu.BlendFactorDst
	case BlendSrcColor:
		return wgpu.BlendFactorSrc
	case BlendOneMinusDstColor:
		return wgpu.BlendFactorOneMinusDst
	case BlendSrcAlpha:
		return wgpu.BlendFactorSrcAlpha
	case BlendOneMinusSrcColor:
		return wgpu.BlendFactorOneMinusSrc
	case BlendDstAlpha:
		return wgpu.BlendFactorDstAlpha
	case BlendOneMinusDstAlpha:
		return wgpu.BlendFactorOneMinusDstAlpha
	case BlendSrcAlphaSaturate:
		return wgpu.BlendFactorSrcAlphaSaturated
	case BlendOneMinusSrcAlpha:
		return wgpu.BlendFactorOneMinusSrcAlpha
	default:
		return wgpu.BlendFactorOne
	}
}

func (c *wgpuContextImpl) pipelineFor(program shader.Program, pass int, opts ...pipeline.PipelineBuilderOption) (pipeline.Pipeline, error) {
	candidate, err := pipeline.NewPipeline(program, pass, opts...)
	if err != nil {
		return nil, err
	}
	if cached, ok := c.pipelines[candidate.Key()]; ok {
		return cached, nil
	}

	module, err := c.module(program)
	if err != nil {
		return nil, err
	}
	var targets []wgpu.ColorTargetState
	if candidate.HasColor() {
		targets = append(targets, wgpu.ColorTargetState{
			Format:    candidate.Key().ColorFormat,
			Blend:     candidate.BlendState(),
			WriteMask: candidate.WriteMask(),
		})
	}
	var depthStencil *wgpu.DepthStencilState
	if candidate.HasDepth() {
		depthStencil = &wgpu.DepthStencilState{
			Format:            candidate.Key().DepthFormat,
			DepthWriteEnabled: candidate.DepthWriteEnabled(),
			DepthCompare:      wgpu.CompareFunctionAlways,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	created, err := c.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  candidate.Key().String(),
		Layout: c.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: shader.VertexEntryPoint,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: candidate.EntryPoint(),
			Targets:    targets,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: depthStencil,
	})
	if err != nil {
		return nil, err
	}
	candidate.SetRenderPipeline(created)
	c.pipelines[candidate.Key()] = candidate
	return candidate, nil
}

func (c *wgpuContextImpl) module(program shader.Program) (*wgpu.ShaderModule, error) {
	if m, ok := c.modules[program]; ok {
		return m, nil
	}
	source, err := program.Source()
	if err != nil {
		return nil, err
	}
	if c.validate {
		// naga rejections are logged only; the device compiler is authoritative.
		if _, err := shader.Validate(program); err != nil {
			common.Logger().Warn("shader validation failed", "program", program.String(), "error", err)
		}
	}
	m, err := c.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: program.String(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("shader program %s: %w", program, err)
	}
	c.modules[program] = m
	return m, nil
}

// drawBindGroup snapshots the globals into a per-draw uniform buffer, since queue writes land before the
// whole command buffer executes.
func (c *wgpuContextImpl) drawBindGroup() (*wgpu.BindGroup, error) {
	globals, err := c.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Full-screen Globals",
		Size:  shader.PostFXBlockSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	c.queue.WriteBuffer(globals, 0, c.globals)
	c.transient = append(c.transient, globals.Release)

	entries := []wgpu.BindGroupEntry{
		{Binding: bindingGlobals, Buffer: globals, Offset: 0, Size: wgpu.WholeSize},
		{Binding: bindingLinearSampler, Sampler: c.linearSampler},
		{Binding: bindingPointSampler, Sampler: c.pointSampler},
		{Binding: bindingLighting, Buffer: c.lightingBuffer, Offset: 0, Size: wgpu.WholeSize},
	}
	for _, p := range textureProperties() {
		entries = append(entries, wgpu.BindGroupEntry{
			Binding:     uint32(shader.Lookup(p).Slot),
			TextureView: c.sampledView(p),
		})
	}

	bindGroup, err := c.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Full-screen Bind Group",
		Layout:  c.layout,
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	c.transient = append(c.transient, bindGroup.Release)
	return bindGroup, nil
}

// sampledView returns the view bound to a texture property, falling back to the placeholder when the target
// is not held, has the wrong aspect, or is currently an attachment of the pass.
func (c *wgpuContextImpl) sampledView(p shader.Property) *wgpu.TextureView {
	missing := c.missingColor
	if p == shader.SourceDepthTexture {
		missing = c.missingDepth
	}
	id, ok := c.textures[p]
	if !ok || id == c.state.color || id == c.state.depth {
		return missing.view
	}
	t, ok := c.held[id]
	if !ok || (t.desc.Format == FormatDepth) != (p == shader.SourceDepthTexture) {
		return missing.view
	}
	return t.view
}

// resolve returns the GPU target for an id; CameraTarget resolves to the current surface image.
func (c *wgpuContextImpl) resolve(id TargetID) (*gpuTarget, bool) {
	switch id {
	case NoTarget, MissingTexture:
		return nil, false
	case CameraTarget:
		if c.frameView == nil {
			return nil, false
		}
		return &gpuTarget{
			texture: c.frameSurface,
			view:    c.frameView,
			desc:    TextureDescriptor{Width: c.surfaceSize.Width, Height: c.surfaceSize.Height},
			format:  c.surfaceFormat,
		}, true
	}
	t, ok := c.held[id]
	return t, ok
}

func (c *wgpuContextImpl) ensureEncoder() error {
	if c.encoder != nil {
		return nil
	}
	encoder, err := c.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	c.encoder = encoder
	return nil
}

func (c *wgpuContextImpl) acquireSurface() error {
	if c.frameSurface != nil {
		return nil
	}
	if !c.configured {
		return ErrNoSurface
	}
	surfaceTexture, err := c.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}
	c.frameSurface = surfaceTexture
	c.frameView = view
	return nil
}

func loadOp(a LoadAction) wgpu.LoadOp {
	if a == LoadLoad {
		return wgpu.LoadOpLoad
	}
	return wgpu.LoadOpClear
}

func (c *wgpuContextImpl) beginPass() error {
	if err := c.ensureEncoder(); err != nil {
		return err
	}
	if c.state.color == CameraTarget {
		if err := c.acquireSurface(); err != nil {
			return err
		}
	}

	desc := &wgpu.RenderPassDescriptor{}
	if n := len(c.samples); n > 0 {
		desc.Label = c.samples[n-1]
	}
	color, hasColor := c.resolve(c.state.color)
	if hasColor {
		cc := c.state.clearColor
		desc.ColorAttachments = []wgpu.RenderPassColorAttachment{{
			View:       color.view,
			LoadOp:     loadOp(c.state.colorLoad),
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: float64(cc[0]), G: float64(cc[1]), B: float64(cc[2]), A: float64(cc[3])},
		}}
	}
	if depth, ok := c.resolve(c.state.depth); ok {
		desc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            depth.view,
			DepthLoadOp:     loadOp(c.state.depthLoad),
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		}
	}
	if !hasColor && desc.DepthStencilAttachment == nil {
		return fmt.Errorf("render target %s: %w", c.state.color, ErrTargetNotHeld)
	}

	c.pass = c.encoder.BeginRenderPass(desc)
	// later passes on the same target within the frame keep what the first one wrote
	c.state.colorLoad, c.state.depthLoad = LoadLoad, LoadLoad
	if c.viewportSet {
		c.applyViewport()
	}
	return nil
}

func (c *wgpuContextImpl) applyViewport() {
	var size common.Size
	if t, ok := c.resolve(c.state.color); ok {
		size = t.desc.Size()
	} else if t, ok := c.resolve(c.state.depth); ok {
		size = t.desc.Size()
	}
	x := common.Clamp(c.viewport.X, 0, size.Width)
	y := common.Clamp(c.viewport.Y, 0, size.Height)
	w := common.Clamp(c.viewport.Width, 0, size.Width-x)
	h := common.Clamp(c.viewport.Height, 0, size.Height-y)
	if w == 0 || h == 0 {
		return
	}
	c.pass.SetViewport(float32(x), float32(y), float32(w), float32(h), 0, 1)
}

func (c *wgpuContextImpl) endPass() {
	if c.pass == nil {
		return
	}
	c.pass.End()
	c.pass = nil
}

// BeginSample labels the render passes begun until the matching EndSample.
func (c *wgpuContextImpl) BeginSample(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = append(c.samples, name)
}

func (c *wgpuContextImpl) EndSample(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n := len(c.samples); n > 0 && c.samples[n-1] == name {
		c.samples = c.samples[:n-1]
	}
}

func (c *wgpuContextImpl) Submit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	defer c.releaseTransient()

	var leaked error
	if len(c.held) > 0 {
		ids := make([]TargetID, 0, len(c.held))
		for id, t := range c.held {
			ids = append(ids, id)
			c.pool[t.desc] = append(c.pool[t.desc], t)
		}
		clear(c.held)
		leaked = fmt.Errorf("%w: %v", ErrTargetsLeaked, ids)
	}

	if c.encoder == nil {
		return leaked
	}
	c.endPass()
	commandBuffer, err := c.encoder.Finish(nil)
	c.encoder.Release()
	c.encoder = nil
	if err != nil {
		return errors.Join(leaked, err)
	}
	c.queue.WriteBuffer(c.lightingBuffer, 0, c.lighting)
	c.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return leaked
}

func (c *wgpuContextImpl) releaseTransient() {
	for _, release := range c.transient {
		release()
	}
	c.transient = c.transient[:0]
}

func (c *wgpuContextImpl) Present() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.configured {
		return ErrNoSurface
	}
	if c.frameSurface == nil {
		return nil
	}
	c.surface.Present()
	c.frameView.Release()
	c.frameView = nil
	c.frameSurface.Release()
	c.frameSurface = nil
	return nil
}

func (c *wgpuContextImpl) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.releaseTransient()
	for _, t := range c.held {
		t.release()
	}
	for _, free := range c.pool {
		for _, t := range free {
			t.release()
		}
	}
	clear(c.held)
	clear(c.pool)
	for _, p := range c.pipelines {
		p.RenderPipeline().Release()
	}
	for _, m := range c.modules {
		m.Release()
	}
	c.missingColor.release()
	c.missingDepth.release()
	c.lightingBuffer.Release()
	c.linearSampler.Release()
	c.pointSampler.Release()
	c.pipelineLayout.Release()
	c.layout.Release()
	c.device.Release()
	c.adapter.Release()
	c.instance.Release()
}
