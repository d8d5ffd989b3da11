package app

import (
	"time"

	"github.com/Carmen-Shannon/oxy-dualview/engine/host"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer"
)

// AppBuilderOption is a functional option for configuring an App.
type AppBuilderOption func(*app)

// WithDeviceFactory sets the function that creates a render context per surface.
//
// Parameters:
//   - factory: the device factory
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithDeviceFactory(factory DeviceFactory) AppBuilderOption {
	return func(a *app) {
		a.factory = factory
	}
}

// WithRendererOptions appends options passed to every render context the App creates.
//
// Parameters:
//   - options: renderer options such as renderer.WithAntialias
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithRendererOptions(options ...renderer.RenderContextOption) AppBuilderOption {
	return func(a *app) {
		a.ctxOpts = append(a.ctxOpts, options...)
	}
}

// WithEventPoller sets the function that processes window events before every frame.
//
// Parameters:
//   - poll: the host event pump, e.g. glfw_window.PollEvents
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithEventPoller(poll func()) AppBuilderOption {
	return func(a *app) {
		a.poller = poll
	}
}

// WithFrameLimit caps the frame rate. Zero or negative means uncapped.
//
// Parameters:
//   - fps: maximum frames per second
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithFrameLimit(fps int) AppBuilderOption {
	return func(a *app) {
		a.pumpOpts = append(a.pumpOpts, host.WithFrameLimit(fps))
	}
}

// WithClock replaces the clock used for frame timestamps.
func WithClock(clock func() time.Time) AppBuilderOption {
	return func(a *app) {
		a.pumpOpts = append(a.pumpOpts, host.WithClock(clock))
	}
}

// WithProfiling enables per-viewport frame and memory reports at the given interval.
//
// Parameters:
//   - enabled: if true, each viewport gets a profiler
//   - interval: reporting interval, one second when zero
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithProfiling(enabled bool, interval time.Duration) AppBuilderOption {
	return func(a *app) {
		a.profiling = enabled
		if interval > 0 {
			a.interval = interval
		}
	}
}
