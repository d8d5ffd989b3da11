// Package renderer defines the rendering-library boundary used by viewports: a RenderContext
// owning one GPU device and surface, and the Scene it draws. Implementations live in
// sub-packages (wgpu_backend for WebGPU, renderertest for tests).
package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-dualview/common"
	"github.com/Carmen-Shannon/oxy-dualview/engine/camera"
	"github.com/Carmen-Shannon/oxy-dualview/engine/envmap"
	"github.com/Carmen-Shannon/oxy-dualview/engine/light"
	"github.com/Carmen-Shannon/oxy-dualview/engine/model"
)

// ErrContextLost is returned by operations that need a live device while the context is lost.
var ErrContextLost = errors.New("renderer: context lost")

// Scene is the read-only view of a scene that a RenderContext draws.
type Scene interface {
	// Meshes returns the drawable meshes in draw order.
	//
	// Returns:
	//   - []model.Mesh: the meshes
	Meshes() []model.Mesh

	// Lights returns the scene's lights.
	//
	// Returns:
	//   - []light.Light: the lights
	Lights() []light.Light

	// Background returns the clear color used when no environment background is active.
	//
	// Returns:
	//   - common.Color: the background color
	Background() common.Color

	// Environment returns the active environment map, or nil when none is set.
	// A RenderContext must only ever draw with a handle it built itself.
	//
	// Returns:
	//   - envmap.Handle: the environment handle or nil
	Environment() envmap.Handle

	// EnvironmentBackground reports whether the environment map also replaces the background.
	//
	// Returns:
	//   - bool: true to draw the environment behind the scene
	EnvironmentBackground() bool
}

// RenderContext is one GPU device/surface pair. It is owned by exactly one viewport and can
// lose and regain its device independently of every other context.
//
// Loss and restore are reported through OnLost and OnRestored subscribers, never as errors.
// Subscribers are called on the goroutine that drives the context (the frame goroutine).
type RenderContext interface {
	// ID returns a stable identifier used in logs and GPU labels.
	//
	// Returns:
	//   - string: the context id
	ID() string

	// State returns whether the device is currently valid or lost.
	//
	// Returns:
	//   - ContextState: the current state
	State() ContextState

	// Config returns the options the context was created with.
	//
	// Returns:
	//   - Config: the context configuration
	Config() Config

	// Resize reconfigures the backing surface. Zero sizes are ignored.
	//
	// Parameters:
	//   - width: new surface width in pixels
	//   - height: new surface height in pixels
	Resize(width, height int)

	// Draw renders the scene from the camera. Drawing while lost is a no-op that returns nil.
	//
	// Parameters:
	//   - scene: the scene to draw
	//   - cam: the viewing camera
	//
	// Returns:
	//   - error: a surface or encoding failure; never ErrContextLost
	Draw(scene Scene, cam camera.Camera) error

	// ForceLoss drops the device as if the driver had lost it and notifies OnLost subscribers.
	// No-op when already lost.
	ForceLoss()

	// ForceRestore acquires a fresh device and notifies OnRestored subscribers.
	// No-op when already valid.
	//
	// Returns:
	//   - error: device acquisition failure; the context stays lost
	ForceRestore() error

	// OnLost subscribes to Valid -> Lost transitions.
	//
	// Parameters:
	//   - fn: callback invoked after the device is dropped
	OnLost(fn func())

	// OnRestored subscribes to Lost -> Valid transitions.
	//
	// Parameters:
	//   - fn: callback invoked after the new device is ready
	OnRestored(fn func())

	// BuildEnvironmentMap prefilters the source and uploads it as a cube texture owned by this
	// context's current device. The handle is invalid on any other context and after a restore.
	//
	// Parameters:
	//   - src: the environment source
	//   - quality: blur radius of the sharpest level (envmap.DefaultQuality)
	//
	// Returns:
	//   - envmap.Handle: the uploaded environment
	//   - error: ErrContextLost, a prefilter error, or an upload failure
	BuildEnvironmentMap(src *envmap.Source, quality float32) (envmap.Handle, error)

	// Release frees the device and surface. The context is unusable afterwards.
	Release()
}
