// Package wgpu_backend implements renderer.RenderContext on WebGPU. Each context owns its own
// instance, surface and device, so one context can lose and restore its device while every
// other context keeps drawing.
package wgpu_backend

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-dualview/common"
	"github.com/Carmen-Shannon/oxy-dualview/engine/envmap"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer"
	"github.com/Carmen-Shannon/oxy-dualview/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoSurface is returned when the window cannot provide a WebGPU surface.
var ErrNoSurface = errors.New("wgpu_backend: window does not provide a surface descriptor")

// SurfaceProvider is the part of a window a context needs to create and size its surface.
type SurfaceProvider interface {
	// SurfaceDescriptor returns the platform surface descriptor, or nil once the window is gone.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// renderContext is the WebGPU implementation of renderer.RenderContext.
type renderContext struct {
	renderer.Signals

	mu     sync.Mutex
	config renderer.Config

	instance *wgpu.Instance
	surface  *wgpu.Surface

	state         renderer.ContextState
	generation    uint64
	dev           *device
	width, height int
	released      bool

	live liveGeneration
}

var _ renderer.RenderContext = &renderContext{}

// NewRenderContext creates a context on the provider's surface and acquires its first device.
//
// Parameters:
//   - surface: the window providing the surface
//   - options: renderer options (label, MSAA, alpha, present mode, ...)
//
// Returns:
//   - renderer.RenderContext: the ready context
//   - error: ErrNoSurface or a device acquisition failure
func NewRenderContext(surface SurfaceProvider, options ...renderer.RenderContextOption) (renderer.RenderContext, error) {
	desc := surface.SurfaceDescriptor()
	if desc == nil {
		return nil, ErrNoSurface
	}

	c := &renderContext{
		config: renderer.NewConfig(options...),
		width:  surface.Width(),
		height: surface.Height(),
		state:  renderer.StateLost,
	}
	c.instance = wgpu.CreateInstance(nil)
	c.surface = c.instance.CreateSurface(desc)

	c.mu.Lock()
	err := c.acquireLocked()
	c.mu.Unlock()
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("failed to create render context %s: %w", c.config.Label, err)
	}

	common.Logger().Info("render context created", "context", c.config.Label, "msaa", c.config.MSAA, "width", c.width, "height", c.height)
	return c, nil
}

// Factory adapts NewRenderContext to windows from the window package.
//
// Parameters:
//   - surface: a window that also implements SurfaceProvider
//   - options: renderer options
//
// Returns:
//   - renderer.RenderContext: the ready context
//   - error: ErrNoSurface when the window has no WebGPU surface, or a creation failure
func Factory(surface window.Window, options ...renderer.RenderContextOption) (renderer.RenderContext, error) {
	provider, ok := surface.(SurfaceProvider)
	if !ok {
		return nil, ErrNoSurface
	}
	return NewRenderContext(provider, options...)
}

func (c *renderContext) ID() string {
	return c.config.Label
}

func (c *renderContext) State() renderer.ContextState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *renderContext) Config() renderer.Config {
	return c.config
}

func (c *renderContext) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.width == width && c.height == height {
		return
	}
	c.width, c.height = width, height
	if c.dev == nil {
		// Applied when the next device is acquired.
		return
	}
	if err := c.dev.configureSurface(c.surface, width, height); err != nil {
		common.Logger().Warn("failed to resize surface", "context", c.config.Label, "error", err)
	}
}

func (c *renderContext) ForceLoss() {
	c.mu.Lock()
	if !c.loseLocked() {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	common.Logger().Info("context lost", "context", c.config.Label, "cause", "forced")
	c.EmitLost()
}

func (c *renderContext) ForceRestore() error {
	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		return fmt.Errorf("render context %s is released", c.config.Label)
	}
	if c.state == renderer.StateValid {
		c.mu.Unlock()
		return nil
	}
	if err := c.acquireLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	generation := c.generation
	c.mu.Unlock()

	common.Logger().Info("context restored", "context", c.config.Label, "generation", generation)
	c.EmitRestored()
	return nil
}

func (c *renderContext) BuildEnvironmentMap(src *envmap.Source, quality float32) (envmap.Handle, error) {
	if src == nil {
		return nil, envmap.ErrEmptySource
	}
	// A failed build skips Draw, so a latched driver loss has to surface here as well.
	c.dispatchDriverLoss()

	c.mu.Lock()
	if c.state == renderer.StateLost || c.dev == nil {
		c.mu.Unlock()
		return nil, renderer.ErrContextLost
	}
	faceSize := environmentFaceSize(c.config.EnvironmentFaceSize, c.config.PixelRatio)
	c.mu.Unlock()

	// Prefiltering is CPU-only, so the device lock is not held while it runs.
	cube, err := envmap.Prefilter(src, quality, envmap.WithFaceSize(faceSize))
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == renderer.StateLost || c.dev == nil {
		return nil, renderer.ErrContextLost
	}
	label := fmt.Sprintf("%s Environment %d", c.config.Label, c.generation)
	group, err := c.dev.uploadEnvironment(label, cube, true)
	if err != nil {
		return nil, fmt.Errorf("failed to upload environment: %w", err)
	}
	return &environmentHandle{
		owner:      c,
		generation: c.generation,
		label:      label,
		group:      group,
	}, nil
}

func (c *renderContext) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}
	c.released = true
	c.dropDeviceLocked()
	c.state = renderer.StateLost
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
	if c.instance != nil {
		c.instance.Release()
		c.instance = nil
	}
	common.Logger().Info("render context released", "context", c.config.Label)
}

// acquireLocked requests a new device generation and configures the surface for it.
// Callers hold c.mu.
func (c *renderContext) acquireLocked() error {
	generation := c.generation + 1
	dev, err := acquireDevice(c.instance, c.surface, c.config, generation, c.live.report)
	if err != nil {
		return err
	}
	if c.width > 0 && c.height > 0 {
		if err := dev.configureSurface(c.surface, c.width, c.height); err != nil {
			dev.release()
			return fmt.Errorf("failed to configure surface: %w", err)
		}
	}
	c.generation = generation
	c.dev = dev
	c.state = renderer.StateValid
	c.live.current.Store(generation)
	return nil
}

// loseLocked drops the device and reports whether the state changed. Callers hold c.mu.
func (c *renderContext) loseLocked() bool {
	if c.state == renderer.StateLost {
		return false
	}
	c.dropDeviceLocked()
	c.state = renderer.StateLost
	return true
}

func (c *renderContext) dropDeviceLocked() {
	c.live.retire()
	if c.dev != nil {
		c.dev.release()
		c.dev = nil
	}
}

// dispatchDriverLoss turns a latched driver loss into a state transition on the calling
// goroutine, then restores immediately when auto-restore is on.
func (c *renderContext) dispatchDriverLoss() {
	if !c.live.lost.Swap(false) {
		return
	}
	c.mu.Lock()
	changed := c.loseLocked()
	c.mu.Unlock()
	if !changed {
		return
	}

	common.Logger().Warn("context lost", "context", c.config.Label, "cause", "driver")
	c.EmitLost()

	if c.config.AutoRestore {
		if err := c.ForceRestore(); err != nil {
			common.Logger().Warn("automatic restore failed", "context", c.config.Label, "error", err)
		}
	}
}
