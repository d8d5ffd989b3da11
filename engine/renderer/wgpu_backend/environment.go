package wgpu_backend

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-dualview/common"
	"github.com/Carmen-Shannon/oxy-dualview/engine/envmap"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// maxEnvironmentFaceSize caps the scaled cube face size.
const maxEnvironmentFaceSize = 512

// environmentHandle is an uploaded cube map plus the bind group that samples it.
// It belongs to one context and one device generation.
type environmentHandle struct {
	owner      *renderContext
	generation uint64
	label      string
	group      bind_group_provider.BindGroupProvider

	once     sync.Once
	released atomic.Bool
}

var _ envmap.Handle = &environmentHandle{}

func (h *environmentHandle) Label() string {
	return h.label
}

func (h *environmentHandle) Release() {
	h.once.Do(func() {
		h.released.Store(true)
		h.group.Release()
	})
}

// usableBy reports whether the handle may be drawn by the context on the given generation.
func (h *environmentHandle) usableBy(c *renderContext, generation uint64) bool {
	return h.owner == c && h.generation == generation && !h.released.Load()
}

// environmentFaceSize scales the configured face size by the pixel ratio and rounds it up to
// a power of two so every mip level halves exactly.
//
// Parameters:
//   - base: the configured face size
//   - ratio: the device pixel ratio
//
// Returns:
//   - int: the face size in texels
func environmentFaceSize(base int, ratio float32) int {
	if base < 1 {
		base = 1
	}
	if ratio < 1 {
		ratio = 1
	}
	want := int(math.Ceil(float64(float32(base) * ratio)))
	size := 1
	for size < want && size < maxEnvironmentFaceSize {
		size <<= 1
	}
	return size
}

// uploadEnvironment creates a cube texture holding every level of the prefiltered data and a
// bind group sampling it.
//
// Parameters:
//   - label: debug label for the GPU objects
//   - cube: the prefiltered environment
//   - enabled: false for the fallback cube, which the shaders ignore
//
// Returns:
//   - bind_group_provider.BindGroupProvider: the environment bind group and its resources
//   - error: texture or bind group creation failure
func (d *device) uploadEnvironment(label string, cube *envmap.CubeData, enabled bool) (bind_group_provider.BindGroupProvider, error) {
	levels := len(cube.Levels)
	if levels == 0 {
		return nil, fmt.Errorf("environment %s has no levels", label)
	}
	size := uint32(cube.Size())
	provider := bind_group_provider.NewBindGroupProvider(label)

	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label + " Cube Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              size,
			Height:             size,
			DepthOrArrayLayers: envmap.FaceCount,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: uint32(levels),
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}
	provider.AddTexture(tex)

	for level, data := range cube.Levels {
		n := uint32(data.Size)
		for face := range envmap.FaceCount {
			d.queue.WriteTexture(
				&wgpu.ImageCopyTexture{
					Texture:  tex,
					MipLevel: uint32(level),
					Origin:   wgpu.Origin3D{Z: uint32(face)},
					Aspect:   wgpu.TextureAspectAll,
				},
				data.Faces[face],
				&wgpu.TextureDataLayout{
					Offset:       0,
					BytesPerRow:  n * 4,
					RowsPerImage: n,
				},
				&wgpu.Extent3D{
					Width:              n,
					Height:             n,
					DepthOrArrayLayers: 1,
				},
			)
		}
	}

	view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           label + " Cube View",
		Format:          wgpu.TextureFormatRGBA8UnormSrgb,
		Dimension:       wgpu.TextureViewDimensionCube,
		BaseMipLevel:    0,
		MipLevelCount:   uint32(levels),
		BaseArrayLayer:  0,
		ArrayLayerCount: envmap.FaceCount,
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		provider.Release()
		return nil, err
	}
	provider.SetTextureView(0, view)

	samp, err := d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   float32(levels),
		MaxAnisotropy: 1,
	})
	if err != nil {
		provider.Release()
		return nil, err
	}
	provider.SetSampler(1, samp)

	params := GPUEnvironmentUniform{MaxLod: float32(levels - 1)}
	if enabled {
		params.Enabled = 1
	}
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Params",
		Size:  uint64(unsafe.Sizeof(params)),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		provider.Release()
		return nil, err
	}
	provider.SetBuffer(2, buf)
	d.queue.WriteBuffer(buf, 0, common.StructToBytes(&params))

	bindGroup, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " Bind Group",
		Layout: d.layouts[slotEnvironment],
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: samp},
			{Binding: 2, Buffer: buf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		provider.Release()
		return nil, err
	}
	provider.SetBindGroup(bindGroup)

	return provider, nil
}

// initFallbackEnvironment uploads a 1x1 grey cube bound whenever no usable environment is set.
func (d *device) initFallbackEnvironment(label string) error {
	texel := []byte{128, 128, 128, 255}
	cube := &envmap.CubeData{Levels: []envmap.CubeLevel{{Size: 1}}}
	for face := range envmap.FaceCount {
		cube.Levels[0].Faces[face] = texel
	}
	provider, err := d.uploadEnvironment(label+" Fallback Environment", cube, false)
	if err != nil {
		return fmt.Errorf("failed to create fallback environment: %w", err)
	}
	d.fallback = provider
	return nil
}
