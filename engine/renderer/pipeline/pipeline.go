// Package pipeline describes render pipelines independently of any device, so the same
// description can be compiled again on a fresh device after a context restore.
package pipeline

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// DepthFormat is the depth attachment format every pipeline renders against.
const DepthFormat = wgpu.TextureFormatDepth24Plus

// AlphaBlend is standard non-premultiplied source-over blending.
var AlphaBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// State is the fixed-function state of a pipeline.
type State struct {
	DepthTest           bool
	DepthWrite          bool
	DepthBias           int32
	DepthBiasSlopeScale float32
	// Blend is nil for opaque pipelines.
	Blend    *wgpu.BlendState
	CullMode wgpu.CullMode
	Topology wgpu.PrimitiveTopology
}

// Target is the color attachment a pipeline is compiled for.
type Target struct {
	Format      wgpu.TextureFormat
	SampleCount uint32
}

// Pipeline describes a render pipeline: its WGSL source and entry points, vertex layout, the
// bind group slots it uses, and fixed-function state. The compiled *wgpu.RenderPipeline
// belongs to one device.
type Pipeline interface {
	// Key returns the unique key used for labels and lookups.
	Key() string

	// Source returns the WGSL module holding both entry points.
	Source() string

	// BindGroupSlots returns the backend bind group slots this pipeline uses, in group order.
	BindGroupSlots() []int

	// VertexLayouts returns the vertex buffer layouts, empty for pipelines that generate vertices.
	VertexLayouts() []wgpu.VertexBufferLayout

	// State returns the fixed-function state.
	State() State

	// Describe assembles the wgpu descriptor for an already created module and layout.
	//
	// Parameters:
	//   - module: the compiled shader module
	//   - layout: the pipeline layout built from BindGroupSlots
	//   - target: the color attachment format and sample count
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor
	Describe(module *wgpu.ShaderModule, layout *wgpu.PipelineLayout, target Target) *wgpu.RenderPipelineDescriptor

	// Compile builds the pipeline on a device, replacing any previously compiled one.
	//
	// Parameters:
	//   - device: the device to compile on
	//   - layouts: bind group layouts in BindGroupSlots order
	//   - target: the color attachment format and sample count
	//
	// Returns:
	//   - error: shader or pipeline creation failure
	Compile(device *wgpu.Device, layouts []*wgpu.BindGroupLayout, target Target) error

	// RenderPipeline returns the compiled pipeline, or nil before Compile.
	RenderPipeline() *wgpu.RenderPipeline

	// Release frees the compiled pipeline. The description stays usable for another device.
	Release()
}

type pipeline struct {
	key           string
	source        string
	vertexEntry   string
	fragmentEntry string
	slots         []int
	vertexLayouts []wgpu.VertexBufferLayout
	state         State

	compiled *wgpu.RenderPipeline
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a description with depth test and write on, no blending, no culling
// and triangle lists. Entry points default to vs_main and fs_main.
//
// Parameters:
//   - key: the unique key for this pipeline
//   - source: the WGSL module
//   - opts: functional options
//
// Returns:
//   - Pipeline: a new description
func NewPipeline(key, source string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		key:           key,
		source:        source,
		vertexEntry:   "vs_main",
		fragmentEntry: "fs_main",
		state: State{
			DepthTest:  true,
			DepthWrite: true,
			CullMode:   wgpu.CullModeNone,
			Topology:   wgpu.PrimitiveTopologyTriangleList,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Key() string { return p.key }
func (p *pipeline) Source() string { return p.source }
func (p *pipeline) BindGroupSlots() []int { return p.slots }
func (p *pipeline) VertexLayouts() []wgpu.VertexBufferLayout { return p.vertexLayouts }
func (p *pipeline) State() State { return p.state }
func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline { return p.compiled }

func (p *pipeline) Describe(module *wgpu.ShaderModule, layout *wgpu.PipelineLayout, target Target) *wgpu.RenderPipelineDescriptor {
	compare := wgpu.CompareFunctionLess
	if !p.state.DepthTest {
		compare = wgpu.CompareFunctionAlways
	}
	stencil := wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways}

	return &wgpu.RenderPipelineDescriptor{
		Label:  p.key + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.vertexEntry,
			Buffers:    p.vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.fragmentEntry,
			Targets: []wgpu.ColorTargetState{{
				Format:    target.Format,
				Blend:     p.state.Blend,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.state.Topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  p.state.CullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: max(target.SampleCount, 1),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:              DepthFormat,
			DepthWriteEnabled:   p.state.DepthWrite,
			DepthCompare:        compare,
			DepthBias:           p.state.DepthBias,
			DepthBiasSlopeScale: p.state.DepthBiasSlopeScale,
			StencilFront:        stencil,
			StencilBack:         stencil,
		},
	}
}

func (p *pipeline) Compile(device *wgpu.Device, layouts []*wgpu.BindGroupLayout, target Target) error {
	if len(layouts) != len(p.slots) {
		return fmt.Errorf("pipeline %s needs %d bind group layouts, got %d", p.key, len(p.slots), len(layouts))
	}
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          p.key + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: p.source},
	})
	if err != nil {
		return fmt.Errorf("failed to compile %s shader: %w", p.key, err)
	}
	defer module.Release()

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.key,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return fmt.Errorf("failed to create %s pipeline layout: %w", p.key, err)
	}
	defer layout.Release()

	compiled, err := device.CreateRenderPipeline(p.Describe(module, layout, target))
	if err != nil {
		return fmt.Errorf("failed to create %s pipeline: %w", p.key, err)
	}
	p.Release()
	p.compiled = compiled
	return nil
}

func (p *pipeline) Release() {
	if p.compiled != nil {
		p.compiled.Release()
		p.compiled = nil
	}
}
