package camera

// CameraController owns the eye and target of a Camera and turns pointer input into orbit,
// dolly and pan motion around the target. Rotation and panning are damped: input queues
// motion that Update applies over the following frames.
//
// A disabled controller ignores all interactive input and drops any damped motion still in
// flight. SetRadius keeps working while disabled.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the orbit pivot the camera looks at.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// Rotate queues an orbit by the given angles.
	//
	// Parameters:
	//   - deltaAzimuth: horizontal angle in radians
	//   - deltaElevation: vertical angle in radians
	Rotate(deltaAzimuth, deltaElevation float32)

	// PanRight queues a sideways move of both target and eye, scaled by distance to the target.
	PanRight(delta float32)

	// PanUp queues a move of both target and eye along the camera's up axis.
	PanUp(delta float32)

	// Zoom dollies toward the target. Positive delta moves closer. Applied immediately.
	//
	// Parameters:
	//   - delta: scroll amount, scaled by ZoomSpeed
	Zoom(delta float32)

	// Update advances damped motion by dt seconds. A zero dt applies nothing.
	//
	// Parameters:
	//   - dt: elapsed time since the previous update in seconds
	Update(dt float32)

	// LastDelta returns the dt passed to the most recent Update call.
	LastDelta() float32

	// SetEnabled enables or disables interactive input.
	//
	// Parameters:
	//   - enabled: false to ignore input and drop pending motion
	SetEnabled(enabled bool)

	// Enabled reports whether interactive input is accepted.
	Enabled() bool

	// Radius returns the distance from the eye to the target.
	Radius() float32

	// SetRadius sets the distance to the target, clamped to the radius bounds.
	SetRadius(radius float32)

	// Azimuth returns the horizontal angle around the Y axis, 0 looking down -Z from +Z.
	Azimuth() float32

	// Elevation returns the vertical angle above the target's horizontal plane.
	Elevation() float32

	// DampingFactor returns the fraction of pending motion applied per 60 Hz frame.
	// Zero disables damping.
	DampingFactor() float32

	// MouseSensitivity returns the radians (or pan units) per pixel of drag.
	MouseSensitivity() float32

	// ZoomSpeed returns the dolly speed multiplier.
	ZoomSpeed() float32

	// PanSpeed returns the pan speed multiplier.
	PanSpeed() float32
}
