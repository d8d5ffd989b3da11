package pipeline

import "github.com/cogentcore/webgpu/wgpu"

// PipelineBuilderOption configures a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithEntryPoints overrides the vs_main/fs_main entry points.
func WithEntryPoints(vertex, fragment string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexEntry = vertex
		p.fragmentEntry = fragment
	}
}

// WithVertexLayouts sets the vertex buffer layouts, one per vertex buffer slot.
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexLayouts = layouts
	}
}

// WithBindGroupSlots sets which backend bind group slots the pipeline binds. The i-th slot
// becomes @group(i) in the shader.
//
// Parameters:
//   - slots: backend slot identifiers in group order
//
// Returns:
//   - PipelineBuilderOption: functional option to set the slots
func WithBindGroupSlots(slots ...int) PipelineBuilderOption {
	return func(p *pipeline) {
		p.slots = slots
	}
}

// WithDepthTestEnabled toggles the less-than depth test. Disabled pipelines always pass.
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.state.DepthTest = enabled
	}
}

// WithDepthWriteEnabled toggles depth writes.
func WithDepthWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.state.DepthWrite = enabled
	}
}

// WithDepthBias offsets fragment depth, used to keep coplanar geometry from z-fighting.
//
// Parameters:
//   - bias: constant bias in depth units
//   - slopeScale: bias scaled by the polygon's depth slope
//
// Returns:
//   - PipelineBuilderOption: functional option to set the bias
func WithDepthBias(bias int32, slopeScale float32) PipelineBuilderOption {
	return func(p *pipeline) {
		p.state.DepthBias = bias
		p.state.DepthBiasSlopeScale = slopeScale
	}
}

// WithBlending sets the color blend state. Pass nil for opaque output.
//
// Parameters:
//   - blend: the blend state, typically &AlphaBlend
//
// Returns:
//   - PipelineBuilderOption: functional option to set blending
func WithBlending(blend *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.state.Blend = blend
	}
}

// WithCullMode sets which faces are culled.
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.state.CullMode = mode
	}
}

// WithTopology sets the primitive topology.
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.state.Topology = topology
	}
}
