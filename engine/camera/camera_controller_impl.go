package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-dualview/common"
	"github.com/go-gl/mathgl/mgl32"
)

// dollyBase is the radius scale applied per unit of zoom input.
const dollyBase = 0.95

// cameraControllerImpl keeps the eye in spherical coordinates around the target.
type cameraControllerImpl struct {
	mu sync.Mutex

	target    mgl32.Vec3
	radius    float32
	azimuth   float32
	elevation float32

	minRadius, maxRadius       float32
	minElevation, maxElevation float32

	mouseSensitivity float32
	zoomSpeed        float32
	panSpeed         float32

	// Motion queued by input, drained by Update when damping is on.
	dampingFactor    float32
	pendingAzimuth   float32
	pendingElevation float32
	pendingPan       mgl32.Vec3
	lastDelta        float32

	enabled bool
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates an orbit controller around the origin. Without options it
// sits 10 units out at 30 degrees elevation with no damping.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		radius:           10,
		elevation:        float32(math.Pi / 6),
		minRadius:        0.1,
		maxRadius:        1000,
		minElevation:     -float32(math.Pi/2 - 0.01),
		maxElevation:     float32(math.Pi/2 - 0.01),
		mouseSensitivity: 0.005,
		zoomSpeed:        1,
		panSpeed:         1,
		enabled:          true,
	}
	for _, option := range options {
		option(cc)
	}
	cc.clamp()
	return cc
}

// NewOrbitController creates a controller matching the viewer's default orbit controls:
// target at the origin, camera at (0, 4, 8), damping 0.05, and radius bounds that suit
// a 10-unit scene. Extra options are applied afterwards.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewOrbitController(options ...CameraControllerOption) CameraController {
	defaults := []CameraControllerOption{
		WithTarget(0, 0, 0),
		WithPosition(0, 4, 8),
		WithRadiusBounds(1, 100),
		WithElevationBounds(-float32(math.Pi/2-0.05), float32(math.Pi/2-0.05)),
		WithDamping(0.05),
	}
	return NewCameraController(append(defaults, options...)...)
}

// offset is the eye position relative to the target. Caller holds the mutex.
func (cc *cameraControllerImpl) offset() mgl32.Vec3 {
	sinE, cosE := math.Sincos(float64(cc.elevation))
	sinA, cosA := math.Sincos(float64(cc.azimuth))
	return mgl32.Vec3{
		float32(cosE * sinA),
		float32(sinE),
		float32(cosE * cosA),
	}.Mul(cc.radius)
}

// axes returns the camera's right and up vectors for a +Y world up.
// Caller holds the mutex.
func (cc *cameraControllerImpl) axes() (right, up mgl32.Vec3) {
	back := cc.offset()
	if back.Len() < 1e-8 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	back = back.Normalize()
	right = mgl32.Vec3{0, 1, 0}.Cross(back)
	if right.Len() < 1e-8 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	right = right.Normalize()
	return right, back.Cross(right)
}

func (cc *cameraControllerImpl) clamp() {
	cc.radius = common.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = common.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
}

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	p := cc.target.Add(cc.offset())
	return p[0], p[1], p[2]
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target[0], cc.target[1], cc.target[2]
}

func (cc *cameraControllerImpl) Rotate(deltaAzimuth, deltaElevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.enabled {
		return
	}
	if cc.dampingFactor > 0 {
		cc.pendingAzimuth += deltaAzimuth
		cc.pendingElevation += deltaElevation
		return
	}
	cc.azimuth += deltaAzimuth
	cc.elevation += deltaElevation
	cc.clamp()
}

func (cc *cameraControllerImpl) PanRight(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	right, _ := cc.axes()
	cc.pan(right.Mul(delta))
}

func (cc *cameraControllerImpl) PanUp(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	_, up := cc.axes()
	cc.pan(up.Mul(delta))
}

// pan moves the target by a direction scaled with the distance to it. Caller holds the mutex.
func (cc *cameraControllerImpl) pan(dir mgl32.Vec3) {
	if !cc.enabled {
		return
	}
	move := dir.Mul(cc.panSpeed * cc.radius)
	if cc.dampingFactor > 0 {
		cc.pendingPan = cc.pendingPan.Add(move)
		return
	}
	cc.target = cc.target.Add(move)
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.enabled {
		return
	}
	scale := float32(math.Pow(dollyBase, float64(delta*cc.zoomSpeed)))
	cc.radius = common.Clamp(cc.radius*scale, cc.minRadius, cc.maxRadius)
}

func (cc *cameraControllerImpl) Update(dt float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	dt = max(dt, 0)
	cc.lastDelta = dt
	if !cc.enabled || cc.dampingFactor <= 0 || dt == 0 {
		return
	}

	// Scale the per-frame factor so motion decays at the same rate at any frame rate.
	f := 1 - float32(math.Pow(float64(1-cc.dampingFactor), float64(dt*60)))
	cc.azimuth += cc.pendingAzimuth * f
	cc.elevation += cc.pendingElevation * f
	cc.target = cc.target.Add(cc.pendingPan.Mul(f))

	cc.pendingAzimuth = settle(cc.pendingAzimuth * (1 - f))
	cc.pendingElevation = settle(cc.pendingElevation * (1 - f))
	cc.pendingPan = cc.pendingPan.Mul(1 - f)
	if cc.pendingPan.Len() < 1e-6 {
		cc.pendingPan = mgl32.Vec3{}
	}
	cc.clamp()
}

// settle snaps negligible pending motion to zero.
func settle(v float32) float32 {
	if math.Abs(float64(v)) < 1e-6 {
		return 0
	}
	return v
}

func (cc *cameraControllerImpl) LastDelta() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.lastDelta
}

func (cc *cameraControllerImpl) SetEnabled(enabled bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.enabled = enabled
	if !enabled {
		cc.pendingAzimuth = 0
		cc.pendingElevation = 0
		cc.pendingPan = mgl32.Vec3{}
	}
}

func (cc *cameraControllerImpl) Enabled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.enabled
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = common.Clamp(radius, cc.minRadius, cc.maxRadius)
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) DampingFactor() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dampingFactor
}

func (cc *cameraControllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}

func (cc *cameraControllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}
