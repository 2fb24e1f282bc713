package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewPipelineDefaults(t *testing.T) {
	p, err := NewPipeline(shader.ProgramPostFX, 11)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	if p.EntryPoint() != "fs_final_rescale" {
		t.Errorf("entry point = %q", p.EntryPoint())
	}
	if !p.HasColor() || p.HasDepth() {
		t.Errorf("HasColor=%v HasDepth=%v, want color only", p.HasColor(), p.HasDepth())
	}
	if p.BlendState() != nil {
		t.Error("One/Zero should not produce a blend state")
	}
}

func TestNewPipelineBlendAndDepth(t *testing.T) {
	p, err := NewPipeline(shader.ProgramCameraCopy, shader.PassCopyDepth,
		WithColorFormat(wgpu.TextureFormatUndefined),
		WithDepthFormat(wgpu.TextureFormatDepth32Float, true),
	)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	if p.HasColor() || !p.HasDepth() || !p.DepthWriteEnabled() {
		t.Errorf("depth copy pipeline should be depth-only with writes")
	}

	blended, _ := NewPipeline(shader.ProgramPostFX, 11, WithBlend(wgpu.BlendFactorSrcAlpha, wgpu.BlendFactorOneMinusSrcAlpha))
	bs := blended.BlendState()
	if bs == nil || bs.Color.SrcFactor != wgpu.BlendFactorSrcAlpha || bs.Alpha.DstFactor != wgpu.BlendFactorOneMinusSrcAlpha {
		t.Errorf("blend state = %+v", bs)
	}
	if blended.Key() == p.Key() {
		t.Error("distinct pipelines share a key")
	}
}

func TestNewPipelineUnknownPass(t *testing.T) {
	if _, err := NewPipeline(shader.ProgramCameraCopy, 5); err == nil {
		t.Fatal("expected an error for a missing pass")
	}
}
