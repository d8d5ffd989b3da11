package wgpu_backend

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-dualview/common"
	"github.com/Carmen-Shannon/oxy-dualview/engine/model"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// meshResources returns the GPU copy of a mesh on this device, uploading it on first use.
// Meshes are shared between contexts; each device keeps its own buffers.
//
// Parameters:
//   - m: the mesh
//
// Returns:
//   - bind_group_provider.BindGroupProvider: vertex, index and uniform buffers with the mesh bind group
//   - error: buffer or bind group creation failure
func (d *device) meshResources(m model.Mesh) (bind_group_provider.BindGroupProvider, error) {
	if provider, ok := d.meshes[m]; ok {
		return provider, nil
	}

	provider := bind_group_provider.NewBindGroupProvider(m.Name())
	if err := d.initMeshBuffers(provider, m); err != nil {
		provider.Release()
		return nil, fmt.Errorf("failed to upload mesh %s: %w", m.Name(), err)
	}
	if err := d.initUniformGroup(provider, slotMesh); err != nil {
		provider.Release()
		return nil, fmt.Errorf("failed to create bind group for mesh %s: %w", m.Name(), err)
	}
	d.meshes[m] = provider
	return provider, nil
}

func (d *device) initMeshBuffers(provider bind_group_provider.BindGroupProvider, m model.Mesh) error {
	vertexData := common.SliceToBytes(m.Vertices())
	indexData := common.SliceToBytes(m.Indices())
	if len(vertexData) == 0 || len(indexData) == 0 {
		return fmt.Errorf("mesh has no geometry")
	}

	vertices, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            provider.Label() + " Vertex Buffer",
		Size:             uint64(len(vertexData)),
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return err
	}
	d.queue.WriteBuffer(vertices, 0, vertexData)

	indices, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            provider.Label() + " Index Buffer",
		Size:             uint64(len(indexData)),
		Usage:            wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		vertices.Release()
		return err
	}
	d.queue.WriteBuffer(indices, 0, indexData)

	provider.SetMesh(vertices, len(m.Vertices()), indices, len(m.Indices()))
	return nil
}
