package wgpu_backend

import (
	"fmt"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-dualview/common"
	"github.com/Carmen-Shannon/oxy-dualview/engine/model"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// device holds everything a context owns on one GPU device. A context drops the whole
// device on loss and builds a new one on restore; nothing here survives a restore.
type device struct {
	generation uint64

	adapter *wgpu.Adapter
	device  *wgpu.Device
	queue   *wgpu.Queue

	format      wgpu.TextureFormat
	alphaMode   wgpu.CompositeAlphaMode
	presentMode wgpu.PresentMode
	sampleCount uint32

	msaaTexture  *wgpu.Texture
	msaaView     *wgpu.TextureView
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	layouts   map[int]*wgpu.BindGroupLayout
	pipelines map[string]pipeline.Pipeline

	frame    bind_group_provider.BindGroupProvider
	fallback bind_group_provider.BindGroupProvider
	meshes   map[model.Mesh]bind_group_provider.BindGroupProvider
}

// acquireDevice requests an adapter and device compatible with the surface and creates the
// layouts, pipelines and shared bind groups. On failure everything created so far is released.
//
// Parameters:
//   - instance: the context's WebGPU instance
//   - surface: the context's surface
//   - cfg: the context configuration
//   - generation: the device generation reported back through onLost
//   - onLost: called from the driver's device-lost callback
//
// Returns:
//   - *device: the ready device
//   - error: adapter, device or pipeline creation failure
func acquireDevice(instance *wgpu.Instance, surface *wgpu.Surface, cfg renderer.Config, generation uint64, onLost func(generation uint64)) (*device, error) {
	a, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.ForceSoftware,
		CompatibleSurface:    surface,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}

	d := &device{
		generation:  generation,
		adapter:     a,
		presentMode: presentMode(cfg.PresentMode),
		sampleCount: uint32(cfg.MSAA),
		layouts:     make(map[int]*wgpu.BindGroupLayout),
		pipelines:   newPipelines(),
		meshes:      make(map[model.Mesh]bind_group_provider.BindGroupProvider),
	}

	dev, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: cfg.Label + " Device",
		DeviceLostCallback: func(reason wgpu.DeviceLostReason, message string) {
			common.Logger().Debug("device lost callback", "context", cfg.Label, "reason", reason, "message", message)
			onLost(generation)
		},
	})
	if err != nil {
		d.release()
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	d.device = dev
	d.queue = dev.GetQueue()

	capabilities := surface.GetCapabilities(a)
	if len(capabilities.Formats) == 0 {
		d.release()
		return nil, fmt.Errorf("surface reports no formats for this adapter")
	}
	d.format = capabilities.Formats[0]
	d.alphaMode = alphaMode(capabilities.AlphaModes, cfg.Alpha)

	for slot, desc := range bindGroupLayoutDescriptors() {
		layout, layoutErr := d.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			d.release()
			return nil, fmt.Errorf("failed to create bind group layout for group %d: %w", slot, layoutErr)
		}
		d.layouts[slot] = layout
	}

	for _, p := range d.pipelines {
		if err := d.registerPipeline(p); err != nil {
			d.release()
			return nil, err
		}
	}

	if err := d.initFrameGroup(cfg.Label); err != nil {
		d.release()
		return nil, err
	}
	if err := d.initFallbackEnvironment(cfg.Label); err != nil {
		d.release()
		return nil, err
	}

	return d, nil
}

// initFrameGroup creates the per-frame uniform buffers and their bind group.
func (d *device) initFrameGroup(label string) error {
	provider := bind_group_provider.NewBindGroupProvider(label + " Frame")
	d.frame = provider
	return d.initUniformGroup(provider, slotFrame)
}

// initUniformGroup creates one uniform buffer per entry of a buffer-only slot and binds them.
func (d *device) initUniformGroup(provider bind_group_provider.BindGroupProvider, slot int) error {
	desc := bindGroupLayoutDescriptors()[slot]
	entries := make([]wgpu.BindGroupEntry, len(desc.Entries))
	for i, entry := range desc.Entries {
		buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("%s Buffer %d", provider.Label(), entry.Binding),
			Size:  entry.Buffer.MinBindingSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return err
		}
		provider.SetBuffer(int(entry.Binding), buf)
		entries[i] = wgpu.BindGroupEntry{
			Binding: entry.Binding,
			Buffer:  buf,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}
	}

	bindGroup, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  d.layouts[slot],
		Entries: entries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(bindGroup)
	return nil
}

// configureSurface configures the surface for the device and recreates the size-dependent
// attachments.
//
// Parameters:
//   - surface: the context's surface
//   - width: surface width in pixels
//   - height: surface height in pixels
//
// Returns:
//   - error: attachment creation failure
func (d *device) configureSurface(surface *wgpu.Surface, width, height int) error {
	surface.Configure(d.adapter, d.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      d.format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: d.presentMode,
		AlphaMode:   d.alphaMode,
	})

	d.releaseAttachments()

	size := wgpu.Extent3D{
		Width:              uint32(width),
		Height:             uint32(height),
		DepthOrArrayLayers: 1,
	}

	if d.sampleCount > 1 {
		// The pass draws into the MSAA texture and resolves into the swapchain view.
		msaaTexture, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   d.sampleCount,
			Dimension:     wgpu.TextureDimension2D,
			Format:        d.format,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return err
		}
		d.msaaTexture = msaaTexture
		d.msaaView, err = msaaTexture.CreateView(nil)
		if err != nil {
			return err
		}
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   d.sampleCount,
		Dimension:     wgpu.TextureDimension2D,
		Format:        pipeline.DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	d.depthTexture = depthTexture
	d.depthView, err = depthTexture.CreateView(nil)
	return err
}

// renderPassDescriptor builds the main pass targeting the acquired swapchain view.
func (d *device) renderPassDescriptor(target *wgpu.TextureView, clear common.Color) *wgpu.RenderPassDescriptor {
	color := wgpu.RenderPassColorAttachment{
		View:    target,
		LoadOp:  wgpu.LoadOpClear,
		StoreOp: wgpu.StoreOpStore,
		ClearValue: wgpu.Color{
			R: float64(clear[0]), G: float64(clear[1]), B: float64(clear[2]), A: float64(clear[3]),
		},
	}
	if d.msaaView != nil {
		color.View = d.msaaView
		color.ResolveTarget = target
		color.StoreOp = wgpu.StoreOpDiscard
	}
	return &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            d.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

// writeBuffers uploads a batch of uniform writes. Writes to missing buffers are skipped.
func (d *device) writeBuffers(writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		d.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (d *device) releaseAttachments() {
	if d.msaaView != nil {
		d.msaaView.Release()
		d.msaaView = nil
	}
	if d.msaaTexture != nil {
		d.msaaTexture.Release()
		d.msaaTexture = nil
	}
	if d.depthView != nil {
		d.depthView.Release()
		d.depthView = nil
	}
	if d.depthTexture != nil {
		d.depthTexture.Release()
		d.depthTexture = nil
	}
}

// release frees every object created on the device, then the device and adapter.
// Environment handles built on this device are released separately by their caches.
func (d *device) release() {
	for key, provider := range d.meshes {
		provider.Release()
		delete(d.meshes, key)
	}
	if d.frame != nil {
		d.frame.Release()
		d.frame = nil
	}
	if d.fallback != nil {
		d.fallback.Release()
		d.fallback = nil
	}
	for _, p := range d.pipelines {
		p.Release()
	}
	for slot, layout := range d.layouts {
		layout.Release()
		delete(d.layouts, slot)
	}
	d.releaseAttachments()
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
}

// presentMode maps the renderer present mode onto WebGPU.
func presentMode(mode renderer.PresentMode) wgpu.PresentMode {
	switch mode {
	case renderer.PresentModeVSync:
		return wgpu.PresentModeFifo
	case renderer.PresentModeUncapped:
		fallthrough
	default:
		return wgpu.PresentModeImmediate
	}
}

// alphaMode picks premultiplied alpha when requested and supported, otherwise the surface's
// preferred mode.
//
// Parameters:
//   - supported: the surface's alpha modes in preference order
//   - wantAlpha: whether the context asked for a transparent surface
//
// Returns:
//   - wgpu.CompositeAlphaMode: the chosen mode
func alphaMode(supported []wgpu.CompositeAlphaMode, wantAlpha bool) wgpu.CompositeAlphaMode {
	if wantAlpha {
		for _, m := range supported {
			if m == wgpu.CompositeAlphaModePremultiplied {
				return m
			}
		}
	}
	for _, m := range supported {
		if m == wgpu.CompositeAlphaModeOpaque {
			return m
		}
	}
	if len(supported) > 0 {
		return supported[0]
	}
	return wgpu.CompositeAlphaModeAuto
}

// liveGeneration tracks which device generation may still report a driver loss.
type liveGeneration struct {
	current atomic.Uint64
	lost    atomic.Bool
}

// report latches a loss if it comes from the live device.
func (g *liveGeneration) report(generation uint64) {
	if g.current.Load() == generation {
		g.lost.Store(true)
	}
}

// retire stops the current device from reporting losses, so dropping it on purpose is silent.
func (g *liveGeneration) retire() {
	g.current.Store(0)
	g.lost.Store(false)
}
