// Package viewport drives one render context: its frame loop, its camera and input, its
// environment cache and its loss/restore recovery.
package viewport

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-dualview/common"
	"github.com/Carmen-Shannon/oxy-dualview/engine/camera"
	"github.com/Carmen-Shannon/oxy-dualview/engine/envmap"
	"github.com/Carmen-Shannon/oxy-dualview/engine/host"
	"github.com/Carmen-Shannon/oxy-dualview/engine/profiler"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer"
	"github.com/Carmen-Shannon/oxy-dualview/engine/scene"
	"github.com/Carmen-Shannon/oxy-dualview/engine/window"
)

// Viewport renders the shared scene into one context. It owns the context, the camera and
// controller, the environment cache and the recovery controller; the scene is borrowed.
type Viewport struct {
	id         string
	ctx        renderer.RenderContext
	scene      *scene.SharedScene
	scheduler  host.Scheduler
	cam        camera.Camera
	controller camera.CameraController
	cache      *envmap.Cache
	recovery   *Recovery
	profiler   *profiler.Profiler

	surface   window.Window
	lossID    string
	restoreID string

	mu          sync.Mutex
	started     bool
	closed      bool
	hasPrevious bool
	previous    time.Duration
	lastElapsed time.Duration
	frames      uint64
}

// NewViewport wires a viewport around ctx. The viewport does not render until Start.
//
// Parameters:
//   - ctx: the render context, owned by the viewport from here on
//   - shared: the scene shared by all viewports
//   - scheduler: the host frame scheduler
//   - options: functional options to configure the viewport
//
// Returns:
//   - *Viewport: the viewport
//   - error: error if a required collaborator is missing
func NewViewport(ctx renderer.RenderContext, shared *scene.SharedScene, scheduler host.Scheduler, options ...ViewportOption) (*Viewport, error) {
	if ctx == nil || shared == nil || scheduler == nil {
		return nil, errors.New("viewport needs a context, a scene and a scheduler")
	}
	v := &Viewport{
		id:        ctx.ID(),
		ctx:       ctx,
		scene:     shared,
		scheduler: scheduler,
		cache:     envmap.NewCache(),
	}
	for _, opt := range options {
		opt(v)
	}
	if v.cam == nil {
		v.cam = camera.NewCamera(camera.WithController(camera.NewOrbitController()))
	}
	v.controller = v.cam.Controller()
	v.recovery = NewRecovery(ctx, v.cache, v.controller)

	if v.surface != nil {
		v.attach(v.surface)
	}
	return v, nil
}

// attach subscribes to the surface's resize, input and trigger events.
func (v *Viewport) attach(w window.Window) {
	w.SetResizeCallback(v.Resize)
	if v.controller != nil {
		w.SetScrollCallback(v.controller.Zoom)
		w.SetDragCallback(v.drag)
	}
	v.bindTrigger(w, v.lossID, v.ForceLoss)
	v.bindTrigger(w, v.restoreID, func() {
		_ = v.ForceRestore()
	})
	v.Resize(w.Width(), w.Height())
}

func (v *Viewport) bindTrigger(w window.Window, id string, fn func()) {
	if id == "" {
		return
	}
	if !w.BindTrigger(id, fn) {
		common.Logger().Debug("trigger not bound", "viewport", v.id, "trigger", id)
	}
}

// drag maps pointer motion to orbit (left button) or pan (right button).
func (v *Viewport) drag(button window.MouseButton, dx, dy float32) {
	sens := v.controller.MouseSensitivity()
	switch button {
	case window.MouseButtonLeft:
		v.controller.Rotate(-dx*sens, dy*sens)
	case window.MouseButtonRight, window.MouseButtonMiddle:
		v.controller.PanRight(-dx * sens)
		v.controller.PanUp(dy * sens)
	}
}

// ID returns the viewport's id, which is its context's id.
func (v *Viewport) ID() string {
	return v.id
}

// Context returns the viewport's render context.
func (v *Viewport) Context() renderer.RenderContext {
	return v.ctx
}

// Camera returns the viewport's camera.
func (v *Viewport) Camera() camera.Camera {
	return v.cam
}

// Cache returns the viewport's environment cache.
func (v *Viewport) Cache() *envmap.Cache {
	return v.cache
}

// Recovery returns the viewport's recovery controller.
func (v *Viewport) Recovery() *Recovery {
	return v.recovery
}

// Frames returns how many frames have run.
func (v *Viewport) Frames() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frames
}

// LastElapsed returns the elapsed time computed by the latest frame.
func (v *Viewport) LastElapsed() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastElapsed
}

// Start requests the first frame. Later calls are no-ops.
func (v *Viewport) Start() {
	v.mu.Lock()
	if v.started || v.closed {
		v.mu.Unlock()
		return
	}
	v.started = true
	v.mu.Unlock()

	common.Logger().Info("viewport started", "viewport", v.id)
	v.scheduler.RequestFrame(v.frame)
}

// Resize sets the camera aspect to width/height and resizes the context surface.
// Zero-sized surfaces, such as minimised windows, are ignored. The environment is kept.
//
// Parameters:
//   - width: new width in pixels
//   - height: new height in pixels
func (v *Viewport) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		common.Logger().Debug("zero-sized resize ignored", "viewport", v.id, "width", width, "height", height)
		return
	}
	v.cam.SetAspect(common.AspectRatio(width, height))
	v.ctx.Resize(width, height)
}

// ForceLoss drops the viewport's device as if the driver had lost it.
func (v *Viewport) ForceLoss() {
	v.ctx.ForceLoss()
}

// ForceRestore reacquires the viewport's device.
//
// Returns:
//   - error: device acquisition failure; the viewport stays lost
func (v *Viewport) ForceRestore() error {
	if err := v.ctx.ForceRestore(); err != nil {
		common.Logger().Warn("restore failed", "viewport", v.id, "error", err)
		return fmt.Errorf("failed to restore %s: %w", v.id, err)
	}
	return nil
}

// Close stops the frame loop and releases the environment and the context.
func (v *Viewport) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()

	v.cache.Close()
	v.ctx.Release()
	common.Logger().Info("viewport closed", "viewport", v.id, "frames", v.Frames())
}

// frame runs one iteration of the render loop.
func (v *Viewport) frame(timestamp time.Duration) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	var elapsed time.Duration
	if v.hasPrevious {
		elapsed = max(timestamp-v.previous, 0)
	}
	v.previous, v.hasPrevious = timestamp, true
	v.lastElapsed = elapsed
	v.frames++
	v.mu.Unlock()

	// Rescheduled even when the frame fails.
	defer v.scheduler.RequestFrame(v.frame)

	if v.profiler != nil {
		v.profiler.Tick()
	}
	if v.controller != nil {
		v.controller.Update(float32(elapsed.Seconds()))
	}
	v.cam.Update()

	if v.ctx.State() == renderer.StateLost {
		common.Logger().Debug("frame skipped, context lost", "viewport", v.id)
		return
	}
	if err := v.scene.Render(v.ctx, v.cache, v.cam); err != nil {
		common.Logger().Warn("frame failed", "viewport", v.id, "error", err)
	}
}
