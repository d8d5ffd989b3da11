package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("lit", "// wgsl")
	if p.Key() != "lit" || p.Source() != "// wgsl" {
		t.Errorf("key = %q source = %q", p.Key(), p.Source())
	}
	s := p.State()
	if !s.DepthTest || !s.DepthWrite || s.Blend != nil {
		t.Errorf("default depth/blend state = %+v", s)
	}
	if s.Topology != wgpu.PrimitiveTopologyTriangleList || s.CullMode != wgpu.CullModeNone {
		t.Errorf("default primitive state = %+v", s)
	}
	if p.RenderPipeline() != nil {
		t.Error("an uncompiled pipeline has no render pipeline")
	}
	p.Release()
}

func TestPipelineOptions(t *testing.T) {
	p := NewPipeline("shadow", "",
		WithBindGroupSlots(0, 2),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithCullMode(wgpu.CullModeBack),
		WithDepthWriteEnabled(false),
		WithDepthBias(-2, -1),
		WithBlending(&AlphaBlend),
	)
	if slots := p.BindGroupSlots(); len(slots) != 2 || slots[0] != 0 || slots[1] != 2 {
		t.Errorf("slots = %v", slots)
	}
	s := p.State()
	if s.Topology != wgpu.PrimitiveTopologyLineList || s.CullMode != wgpu.CullModeBack {
		t.Error("primitive state not applied")
	}
	if s.DepthWrite || s.DepthBias != -2 || s.DepthBiasSlopeScale != -1 || s.Blend == nil {
		t.Errorf("depth/blend state not applied: %+v", s)
	}
}

func TestDescribe(t *testing.T) {
	p := NewPipeline("skybox", "",
		WithEntryPoints("vs_sky", "fs_sky"),
		WithDepthTestEnabled(false),
		WithBlending(&AlphaBlend),
	)
	d := p.Describe(nil, nil, Target{Format: wgpu.TextureFormatBGRA8Unorm})

	if d.Vertex.EntryPoint != "vs_sky" || d.Fragment.EntryPoint != "fs_sky" {
		t.Errorf("entry points = %q/%q", d.Vertex.EntryPoint, d.Fragment.EntryPoint)
	}
	if d.DepthStencil.DepthCompare != wgpu.CompareFunctionAlways {
		t.Errorf("depth compare = %v, want always", d.DepthStencil.DepthCompare)
	}
	if d.DepthStencil.Format != DepthFormat {
		t.Errorf("depth format = %v", d.DepthStencil.Format)
	}
	if d.Multisample.Count != 1 {
		t.Errorf("zero sample count should describe 1, got %d", d.Multisample.Count)
	}
	target := d.Fragment.Targets[0]
	if target.Format != wgpu.TextureFormatBGRA8Unorm || target.Blend == nil {
		t.Errorf("color target = %+v", target)
	}

	opaque := NewPipeline("lit", "").Describe(nil, nil, Target{SampleCount: 4})
	if opaque.Fragment.Targets[0].Blend != nil {
		t.Error("opaque pipeline has a blend state")
	}
	if opaque.DepthStencil.DepthCompare != wgpu.CompareFunctionLess || opaque.Multisample.Count != 4 {
		t.Error("depth-tested pipeline state wrong")
	}
}
