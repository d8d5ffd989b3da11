package viewport

import (
	"github.com/Carmen-Shannon/oxy-dualview/engine/camera"
	"github.com/Carmen-Shannon/oxy-dualview/engine/profiler"
	"github.com/Carmen-Shannon/oxy-dualview/engine/window"
)

// ViewportOption is a functional option for configuring a Viewport.
type ViewportOption func(*Viewport)

// WithCamera replaces the default orbit camera. The camera must have a controller.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - ViewportOption: option function to apply
func WithCamera(cam camera.Camera) ViewportOption {
	return func(v *Viewport) {
		v.cam = cam
	}
}

// WithSurface subscribes the viewport to a window's resize and input events and sizes
// the camera and context to it.
//
// Parameters:
//   - w: the window the context renders into
//
// Returns:
//   - ViewportOption: option function to apply
func WithSurface(w window.Window) ViewportOption {
	return func(v *Viewport) {
		v.surface = w
	}
}

// WithTriggers binds the surface triggers that force a loss and a restore. Empty ids are
// skipped; ids the surface does not know are logged and skipped.
//
// Parameters:
//   - lossID: trigger that calls ForceLoss
//   - restoreID: trigger that calls ForceRestore
//
// Returns:
//   - ViewportOption: option function to apply
func WithTriggers(lossID, restoreID string) ViewportOption {
	return func(v *Viewport) {
		v.lossID = lossID
		v.restoreID = restoreID
	}
}

// WithProfiler ticks p once per frame.
func WithProfiler(p *profiler.Profiler) ViewportOption {
	return func(v *Viewport) {
		v.profiler = p
	}
}
