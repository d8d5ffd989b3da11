package wgpu_backend

import (
	_ "embed"
	"fmt"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-dualview/engine/camera"
	"github.com/Carmen-Shannon/oxy-dualview/engine/light"
	"github.com/Carmen-Shannon/oxy-dualview/engine/model"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group slots shared by every pipeline.
const (
	slotFrame = iota
	slotEnvironment
	slotMesh
)

// Pipeline keys.
const (
	pipelineSkybox = "skybox"
	pipelineLit    = "lit"
	pipelineLines  = "lines"
	pipelineShadow = "shadow"
)

var (
	//go:embed shaders/common.wgsl
	commonWGSL string
	//go:embed shaders/lit.wgsl
	litWGSL string
	//go:embed shaders/lines.wgsl
	linesWGSL string
	//go:embed shaders/shadow.wgsl
	shadowWGSL string
	//go:embed shaders/skybox.wgsl
	skyboxWGSL string
)

// meshVertexLayout matches model.Vertex.
var meshVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: uint64(model.VertexSize),
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 2},
	},
}

// newPipelines returns device-independent descriptions of every pipeline a context draws with.
// They are compiled again on each device the context acquires.
//
// Returns:
//   - map[string]pipeline.Pipeline: the descriptions keyed by pipeline key
func newPipelines() map[string]pipeline.Pipeline {
	all := []pipeline.Pipeline{
		pipeline.NewPipeline(pipelineSkybox, commonWGSL+skyboxWGSL,
			pipeline.WithBindGroupSlots(slotFrame, slotEnvironment),
			pipeline.WithDepthTestEnabled(false),
			pipeline.WithDepthWriteEnabled(false),
		),
		pipeline.NewPipeline(pipelineLit, commonWGSL+litWGSL,
			pipeline.WithVertexLayouts(meshVertexLayout),
			pipeline.WithBindGroupSlots(slotFrame, slotEnvironment, slotMesh),
			pipeline.WithCullMode(wgpu.CullModeBack),
		),
		pipeline.NewPipeline(pipelineLines, commonWGSL+linesWGSL,
			pipeline.WithVertexLayouts(meshVertexLayout),
			pipeline.WithBindGroupSlots(slotFrame, slotEnvironment, slotMesh),
			pipeline.WithTopology(wgpu.PrimitiveTopologyLineList),
		),
		pipeline.NewPipeline(pipelineShadow, commonWGSL+shadowWGSL,
			pipeline.WithVertexLayouts(meshVertexLayout),
			pipeline.WithBindGroupSlots(slotFrame, slotEnvironment, slotMesh),
			pipeline.WithCullMode(wgpu.CullModeBack),
			pipeline.WithDepthWriteEnabled(false),
			pipeline.WithDepthBias(-2, -1),
			pipeline.WithBlending(&pipeline.AlphaBlend),
		),
	}
	out := make(map[string]pipeline.Pipeline, len(all))
	for _, p := range all {
		out[p.Key()] = p
	}
	return out
}

// bindGroupLayoutDescriptors returns the layout of each bind group slot.
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by slot
func bindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	both := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
	uniform := func(binding uint32, size uint64, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
		e := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}
		e.Buffer.Type = wgpu.BufferBindingTypeUniform
		e.Buffer.MinBindingSize = size
		return e
	}

	cube := wgpu.BindGroupLayoutEntry{Binding: 0, Visibility: wgpu.ShaderStageFragment}
	cube.Texture.SampleType = wgpu.TextureSampleTypeFloat
	cube.Texture.ViewDimension = wgpu.TextureViewDimensionCube
	samp := wgpu.BindGroupLayoutEntry{Binding: 1, Visibility: wgpu.ShaderStageFragment}
	samp.Sampler.Type = wgpu.SamplerBindingTypeFiltering

	var (
		cam  camera.GPUCameraUniform
		lit  light.GPULightUniform
		mesh GPUMeshUniform
	)
	return map[int]wgpu.BindGroupLayoutDescriptor{
		slotFrame: {
			Label: "Frame Bind Group Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				uniform(0, uint64(cam.Size()), both),
				uniform(1, uint64(lit.Size()), both),
				uniform(2, uint64(unsafe.Sizeof(GPUSkyUniform{})), both),
			},
		},
		slotEnvironment: {
			Label: "Environment Bind Group Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				cube,
				samp,
				uniform(2, uint64(unsafe.Sizeof(GPUEnvironmentUniform{})), wgpu.ShaderStageFragment),
			},
		},
		slotMesh: {
			Label: "Mesh Bind Group Layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				uniform(0, uint64(mesh.Size()), both),
			},
		},
	}
}

// registerPipeline compiles a pipeline description on the device with the layouts of the
// slots it names.
func (d *device) registerPipeline(p pipeline.Pipeline) error {
	slots := p.BindGroupSlots()
	layouts := make([]*wgpu.BindGroupLayout, len(slots))
	for i, slot := range slots {
		layout, ok := d.layouts[slot]
		if !ok {
			return fmt.Errorf("pipeline %s uses unknown bind group slot %d", p.Key(), slot)
		}
		layouts[i] = layout
	}
	return p.Compile(d.device, layouts, pipeline.Target{Format: d.format, SampleCount: d.sampleCount})
}
