// Package app is the composition root: it owns the frame pump and creates one viewport
// per window around the single shared scene.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-dualview/common"
	"github.com/Carmen-Shannon/oxy-dualview/engine/host"
	"github.com/Carmen-Shannon/oxy-dualview/engine/profiler"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer"
	"github.com/Carmen-Shannon/oxy-dualview/engine/scene"
	"github.com/Carmen-Shannon/oxy-dualview/engine/viewport"
	"github.com/Carmen-Shannon/oxy-dualview/engine/window"
)

// ErrNoDeviceFactory is returned by CreateViewport when the App was built without WithDeviceFactory.
var ErrNoDeviceFactory = errors.New("app: no device factory configured")

// DeviceFactory creates the render context for a window surface.
type DeviceFactory func(surface window.Window, options ...renderer.RenderContextOption) (renderer.RenderContext, error)

// App runs every viewport from one frame pump on the calling goroutine.
type App interface {
	// CreateViewport creates a render context on surface, wires a camera, controller,
	// environment cache and recovery controller around it, binds the loss and restore
	// triggers and starts its frame loop.
	//
	// Parameters:
	//   - surface: the window to render into
	//   - lossID: trigger id that forces a context loss ("" to skip)
	//   - restoreID: trigger id that forces a restore ("" to skip)
	//   - shared: the scene shared by every viewport
	//
	// Returns:
	//   - *viewport.Viewport: the started viewport
	//   - error: error if the context or viewport could not be created
	CreateViewport(surface window.Window, lossID, restoreID string, shared *scene.SharedScene) (*viewport.Viewport, error)

	// Viewports returns the created viewports in creation order.
	//
	// Returns:
	//   - []*viewport.Viewport: the viewports
	Viewports() []*viewport.Viewport

	// Pump returns the frame pump that drives every viewport.
	//
	// Returns:
	//   - *host.FramePump: the pump
	Pump() *host.FramePump

	// Run pumps frames until ctx is cancelled or every surface is closed, then closes the App.
	// Must be called from the goroutine that created the windows.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: ctx.Err() on cancellation, otherwise nil
	Run(ctx context.Context) error

	// Close releases every viewport and closes every surface. Safe to call more than once.
	Close()
}

type app struct {
	mu        sync.Mutex
	pump      *host.FramePump
	factory   DeviceFactory
	ctxOpts   []renderer.RenderContextOption
	pumpOpts  []host.FramePumpOption
	poller    func()
	profiling bool
	interval  time.Duration

	viewports []*viewport.Viewport
	surfaces  []window.Window
	closed    bool
}

var _ App = &app{}

// NewApp creates an App with no viewports.
//
// Parameters:
//   - options: functional options to configure the App
//
// Returns:
//   - App: the App
func NewApp(options ...AppBuilderOption) App {
	a := &app{interval: time.Second}
	for _, opt := range options {
		opt(a)
	}
	a.pump = host.NewFramePump(a.pumpOpts...)
	return a
}

func (a *app) CreateViewport(surface window.Window, lossID, restoreID string, shared *scene.SharedScene) (*viewport.Viewport, error) {
	if surface == nil || shared == nil {
		return nil, errors.New("app: viewport needs a surface and a scene")
	}
	if a.factory == nil {
		return nil, ErrNoDeviceFactory
	}

	opts := append([]renderer.RenderContextOption{
		renderer.WithLabel(surface.Title()),
		renderer.WithPixelRatio(surface.ContentScale()),
	}, a.ctxOpts...)
	ctx, err := a.factory(surface, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create render context for %q: %w", surface.Title(), err)
	}

	vpOpts := []viewport.ViewportOption{
		viewport.WithSurface(surface),
		viewport.WithTriggers(lossID, restoreID),
	}
	if a.profiling {
		vpOpts = append(vpOpts, viewport.WithProfiler(profiler.NewProfiler(ctx.ID(), profiler.WithInterval(a.interval))))
	}
	v, err := viewport.NewViewport(ctx, shared, a.pump, vpOpts...)
	if err != nil {
		ctx.Release()
		return nil, err
	}

	a.mu.Lock()
	a.viewports = append(a.viewports, v)
	a.surfaces = append(a.surfaces, surface)
	a.mu.Unlock()

	v.Start()
	common.Logger().Info("viewport created", "viewport", v.ID(), "width", surface.Width(), "height", surface.Height())
	return v, nil
}

func (a *app) Viewports() []*viewport.Viewport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*viewport.Viewport(nil), a.viewports...)
}

func (a *app) Pump() *host.FramePump {
	return a.pump
}

func (a *app) Run(ctx context.Context) error {
	defer a.Close()
	return a.pump.Run(ctx, a.poll)
}

// poll processes host events and reports whether any surface is still open.
func (a *app) poll() bool {
	if a.poller != nil {
		a.poller()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range a.surfaces {
		if s.IsRunning() {
			return true
		}
	}
	return false
}

func (a *app) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	viewports, surfaces := a.viewports, a.surfaces
	a.mu.Unlock()

	for _, v := range viewports {
		v.Close()
	}
	for _, s := range surfaces {
		if err := s.Close(); err != nil {
			common.Logger().Debug("surface close failed", "surface", s.Title(), "error", err)
		}
	}
}
