package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Key identifies a full-screen render pipeline. Two draws that share a key share a pipeline.
type Key struct {
	Program     shader.Program
	Pass        int
	ColorFormat wgpu.TextureFormat
	DepthFormat wgpu.TextureFormat
	SrcBlend    wgpu.BlendFactor
	DstBlend    wgpu.BlendFactor
}

func (k Key) String() string {
	name, err := k.Program.PassName(k.Pass)
	if err != nil {
		name = fmt.Sprintf("pass%d", k.Pass)
	}
	return fmt.Sprintf("%s/%s/%d/%d/%d-%d", k.Program, name, k.ColorFormat, k.DepthFormat, k.SrcBlend, k.DstBlend)
}

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	key Key

	// the fragment entry point resolved from the key's program and pass
	entryPoint string

	depthWriteEnabled bool
	writeMask         wgpu.ColorWriteMask

	renderPipeline *wgpu.RenderPipeline
}

// Pipeline describes a full-screen pass pipeline: a shared vertex stage drawing one triangle, a fragment entry
// point of a shader program and the target formats and blend it writes with.
type Pipeline interface {
	// Key returns the cache key of the pipeline.
	//
	// Returns:
	//   - Key: the key
	Key() Key

	// EntryPoint returns the fragment entry point of the pass.
	//
	// Returns:
	//   - string: the WGSL entry point name
	EntryPoint() string

	// HasColor reports whether the pipeline writes a color target.
	HasColor() bool

	// HasDepth reports whether the pipeline writes a depth target.
	HasDepth() bool

	// DepthWriteEnabled returns whether the pass writes depth.
	DepthWriteEnabled() bool

	// WriteMask returns the color write mask.
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state, or nil when the pass replaces the target.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state for the color target, or nil for One/Zero
	BlendState() *wgpu.BlendState

	// RenderPipeline returns the created GPU pipeline, or nil before the backend creates it.
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline stores the created GPU pipeline.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline
	SetRenderPipeline(p *wgpu.RenderPipeline)
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a full-screen pass pipeline for a program pass. By default it writes color to an
// RGBA8 target without depth and replaces the destination.
//
// Parameters:
//   - program: the shader program
//   - pass: the pass index within the program
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: the pipeline description
//   - error: an error if the program has no such pass
func NewPipeline(program shader.Program, pass int, opts ...PipelineBuilderOption) (Pipeline, error) {
	entryPoint, err := program.EntryPoint(pass)
	if err != nil {
		return nil, err
	}
	p := &pipeline{
		key: Key{
			Program:     program,
			Pass:        pass,
			ColorFormat: wgpu.TextureFormatRGBA8Unorm,
			DepthFormat: wgpu.TextureFormatUndefined,
			SrcBlend:    wgpu.BlendFactorOne,
			DstBlend:    wgpu.BlendFactorZero,
		},
		entryPoint: entryPoint,
		writeMask:  wgpu.ColorWriteMaskAll,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *pipeline) Key() Key {
	return p.key
}

func (p *pipeline) EntryPoint() string {
	return p.entryPoint
}

func (p *pipeline) HasColor() bool {
	return p.key.ColorFormat != wgpu.TextureFormatUndefined
}

func (p *pipeline) HasDepth() bool {
	return p.key.DepthFormat != wgpu.TextureFormatUndefined
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	if p.key.SrcBlend == wgpu.BlendFactorOne && p.key.DstBlend == wgpu.BlendFactorZero {
		return nil
	}
	component := wgpu.BlendComponent{
		SrcFactor: p.key.SrcBlend,
		DstFactor: p.key.DstBlend,
		Operation: wgpu.BlendOperationAdd,
	}
	return &wgpu.BlendState{Color: component, Alpha: component}
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}
