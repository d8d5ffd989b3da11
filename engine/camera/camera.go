package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-dualview/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera driven by a CameraController. Each viewport owns one;
// cameras are never shared between render contexts.
type Camera interface {
	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// ViewMatrix returns the column-major view matrix.
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the column-major projection matrix (WebGPU depth range).
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns projection * view.
	ViewProjectionMatrix() [16]float32

	// Controller returns the attached controller, or nil.
	Controller() CameraController

	// Eye returns the controller's camera position, or the origin without a controller.
	Eye() [3]float32

	// Update recomputes the matrices from the controller. Call once per frame after the
	// controller has been updated. Does nothing without a controller.
	Update()

	// SetAspect sets the aspect ratio and recomputes the projection.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)
}

type cameraImpl struct {
	mu sync.Mutex

	fov, aspect, near, far float32

	view, projection, viewProjection mgl32.Mat4

	controller CameraController
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera with a 75 degree vertical field of view, near 0.1 and far 1000.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		fov:            float32(75 * math.Pi / 180),
		aspect:         1,
		near:           0.1,
		far:            1000,
		view:           mgl32.Ident4(),
		projection:     mgl32.Ident4(),
		viewProjection: mgl32.Ident4(),
	}
	for _, option := range options {
		option(c)
	}
	c.recompute()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjection
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Eye() [3]float32 {
	c.mu.Lock()
	ctrl := c.controller
	c.mu.Unlock()
	if ctrl == nil {
		return [3]float32{}
	}
	x, y, z := ctrl.Position()
	return [3]float32{x, y, z}
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recompute()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.recompute()
}

// recompute rebuilds all three matrices. Caller holds the mutex.
func (c *cameraImpl) recompute() {
	if c.controller == nil {
		return
	}
	px, py, pz := c.controller.Position()
	tx, ty, tz := c.controller.Target()

	c.view = mgl32.LookAtV(mgl32.Vec3{px, py, pz}, mgl32.Vec3{tx, ty, tz}, mgl32.Vec3{0, 1, 0})
	c.projection = common.Perspective(c.fov, c.aspect, c.near, c.far)
	c.viewProjection = c.projection.Mul4(c.view)
}
