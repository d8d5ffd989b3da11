package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-dualview/common"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithRadius sets the initial distance from the target.
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius = radius
	}
}

// WithAzimuth sets the initial horizontal angle in radians.
func WithAzimuth(azimuth float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.azimuth = azimuth
	}
}

// WithElevation sets the initial vertical angle in radians.
func WithElevation(elevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.elevation = elevation
	}
}

// WithTarget sets the orbit pivot.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - CameraControllerOption: functional option to set the target
func WithTarget(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = mgl32.Vec3{x, y, z}
	}
}

// WithPosition places the camera at a world-space position relative to the target,
// deriving radius, azimuth and elevation from it. Apply after WithTarget.
//
// Parameters:
//   - x, y, z: world-space camera position
//
// Returns:
//   - CameraControllerOption: functional option to set the starting position
func WithPosition(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		d := mgl32.Vec3{x, y, z}.Sub(cc.target)
		horizontal := math.Hypot(float64(d[0]), float64(d[2]))
		cc.radius = d.Len()
		cc.azimuth = float32(math.Atan2(float64(d[0]), float64(d[2])))
		cc.elevation = float32(math.Atan2(float64(d[1]), horizontal))
	}
}

// WithRadiusBounds limits how close and how far the camera may dolly.
//
// Parameters:
//   - min: minimum distance to the target
//   - max: maximum distance to the target
//
// Returns:
//   - CameraControllerOption: functional option to set the bounds
func WithRadiusBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = min
		cc.maxRadius = max
	}
}

// WithElevationBounds limits the vertical angle in radians.
func WithElevationBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minElevation = min
		cc.maxElevation = max
	}
}

// WithMouseSensitivity sets the radians (or pan units) applied per pixel of drag.
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}

// WithZoomSpeed scales scroll input.
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}

// WithPanSpeed scales pan input.
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.panSpeed = speed
	}
}

// WithDamping sets the damping factor. Orbit controls in the browser viewer use 0.05.
// Values outside [0, 0.99] are clamped.
//
// Parameters:
//   - factor: fraction of pending motion applied per 60 Hz frame (0 disables damping)
//
// Returns:
//   - CameraControllerOption: functional option to set damping
func WithDamping(factor float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.dampingFactor = common.Clamp(factor, 0, 0.99)
	}
}
