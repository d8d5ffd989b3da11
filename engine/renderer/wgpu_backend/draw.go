package wgpu_backend

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-dualview/common"
	"github.com/Carmen-Shannon/oxy-dualview/engine/camera"
	"github.com/Carmen-Shannon/oxy-dualview/engine/light"
	"github.com/Carmen-Shannon/oxy-dualview/engine/model"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// meshDraw is one mesh scheduled for the current frame.
type meshDraw struct {
	mesh     model.Mesh
	provider bind_group_provider.BindGroupProvider
	casts    bool
}

func (c *renderContext) Draw(scene renderer.Scene, cam camera.Camera) error {
	c.dispatchDriverLoss()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == renderer.StateLost || c.dev == nil {
		return nil
	}
	if c.width <= 0 || c.height <= 0 {
		return nil
	}
	d := c.dev

	environment := d.fallback
	envBound := false
	if env := scene.Environment(); env != nil {
		if h, ok := env.(*environmentHandle); ok && h.usableBy(c, c.generation) {
			environment = h.group
			envBound = true
		} else {
			common.Logger().Debug("ignoring environment from another device", "context", c.config.Label, "environment", env.Label())
		}
	}

	lights := scene.Lights()
	var shadow *shadowState
	draws := make([]meshDraw, 0, len(scene.Meshes()))
	for _, m := range scene.Meshes() {
		if m == nil || !m.Visible() {
			continue
		}
		if m.ShadowCatcher() {
			// Only the first catcher receives shadows; catchers are otherwise invisible.
			if dir, ok := light.ShadowLight(lights); ok && shadow == nil {
				shadow = newShadowState(m, dir)
			}
			continue
		}
		provider, err := d.meshResources(m)
		if err != nil {
			return err
		}
		draws = append(draws, meshDraw{mesh: m, provider: provider, casts: m.CastsShadow()})
	}

	viewProj := cam.ViewProjectionMatrix()
	cameraUniform := camera.UniformFrom(cam)
	lightUniform := light.PackUniform(lights)
	sky := skyUniform(viewProj, scene.Background())
	writes := []bind_group_provider.BufferWrite{
		{Provider: d.frame, Binding: 0, Data: cameraUniform.Marshal()},
		{Provider: d.frame, Binding: 1, Data: lightUniform.Marshal()},
		{Provider: d.frame, Binding: 2, Data: common.StructToBytes(&sky)},
	}
	for _, dr := range draws {
		var s *shadowState
		if dr.casts {
			s = shadow
		}
		u := meshUniform(dr.mesh, s)
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: dr.provider,
			Binding:  0,
			Data:     append([]byte(nil), common.StructToBytes(&u)...),
		})
	}
	d.writeBuffers(writes)

	return c.encodeFrame(d, scene, draws, environment, envBound && scene.EnvironmentBackground(), shadow != nil)
}

// encodeFrame records and presents one frame. Callers hold c.mu.
func (c *renderContext) encodeFrame(d *device, scene renderer.Scene, draws []meshDraw, environment bind_group_provider.BindGroupProvider, skybox, shadows bool) error {
	surfaceTexture, err := c.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("failed to acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(d.renderPassDescriptor(view, scene.Background()))
	groups := map[int]bind_group_provider.BindGroupProvider{
		slotFrame:       d.frame,
		slotEnvironment: environment,
	}
	bind := func(p pipeline.Pipeline, mesh bind_group_provider.BindGroupProvider) {
		pass.SetPipeline(p.RenderPipeline())
		groups[slotMesh] = mesh
		for i, slot := range p.BindGroupSlots() {
			pass.SetBindGroup(uint32(i), groups[slot].BindGroup(), nil)
		}
	}
	drawMesh := func(mesh bind_group_provider.BindGroupProvider) {
		pass.SetVertexBuffer(0, mesh.VertexBuffer(), 0, wgpu.WholeSize)
		pass.SetIndexBuffer(mesh.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(mesh.IndexCount()), 1, 0, 0, 0)
	}

	if skybox {
		bind(d.pipelines[pipelineSkybox], nil)
		pass.Draw(3, 1, 0, 0)
	}
	for _, dr := range draws {
		key := pipelineLit
		if dr.mesh.Topology() == model.TopologyLines {
			key = pipelineLines
		}
		bind(d.pipelines[key], dr.provider)
		drawMesh(dr.provider)
	}
	if shadows {
		for _, dr := range draws {
			if !dr.casts || dr.mesh.Topology() != model.TopologyTriangles {
				continue
			}
			bind(d.pipelines[pipelineShadow], dr.provider)
			drawMesh(dr.provider)
		}
	}
	pass.End()
	pass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()

	d.queue.Submit(commandBuffer)
	c.surface.Present()
	return nil
}
