package camera

import (
	"math"
	"testing"
)

func TestOrbitControllerStartsAtViewerDefault(t *testing.T) {
	cc := NewOrbitController()
	x, y, z := cc.Position()
	if !near(x, 0, 1e-4) || !near(y, 4, 1e-4) || !near(z, 8, 1e-4) {
		t.Errorf("position = (%v, %v, %v), want (0, 4, 8)", x, y, z)
	}
	if !near(cc.Radius(), float32(math.Sqrt(80)), 1e-4) {
		t.Errorf("radius = %v, want sqrt(80)", cc.Radius())
	}
	if cc.DampingFactor() != 0.05 {
		t.Errorf("damping = %v, want 0.05", cc.DampingFactor())
	}
}

func TestDampedRotateNeedsElapsedTime(t *testing.T) {
	cc := NewOrbitController()
	start := cc.Azimuth()

	cc.Rotate(1, 0)
	cc.Update(0)
	if cc.Azimuth() != start {
		t.Fatalf("zero dt moved the camera: %v -> %v", start, cc.Azimuth())
	}
	if cc.LastDelta() != 0 {
		t.Errorf("LastDelta = %v, want 0", cc.LastDelta())
	}

	cc.Update(1.0 / 60)
	moved := cc.Azimuth() - start
	if !near(moved, 0.05, 1e-4) {
		t.Errorf("one 60 Hz frame applied %v, want 0.05 of the pending rotation", moved)
	}

	for i := 0; i < 600; i++ {
		cc.Update(1.0 / 60)
	}
	if !near(cc.Azimuth()-start, 1, 1e-3) {
		t.Errorf("damped rotation converged to %v, want 1", cc.Azimuth()-start)
	}
}

func TestDampingIsFrameRateIndependent(t *testing.T) {
	a := NewOrbitController()
	b := NewOrbitController()
	a.Rotate(1, 0)
	b.Rotate(1, 0)

	a.Update(1.0 / 30)
	b.Update(1.0 / 60)
	b.Update(1.0 / 60)
	if !near(a.Azimuth(), b.Azimuth(), 1e-4) {
		t.Errorf("30 Hz azimuth %v != 2x60 Hz azimuth %v", a.Azimuth(), b.Azimuth())
	}
}

func TestNegativeDeltaClampedToZero(t *testing.T) {
	cc := NewOrbitController()
	cc.Update(-1)
	if cc.LastDelta() != 0 {
		t.Errorf("LastDelta = %v, want 0", cc.LastDelta())
	}
}

func TestDisabledControllerIgnoresInput(t *testing.T) {
	cc := NewOrbitController()
	cc.Rotate(1, 0)
	cc.SetEnabled(false)
	if cc.Enabled() {
		t.Fatal("controller still enabled")
	}
	az, r := cc.Azimuth(), cc.Radius()

	cc.Rotate(1, 1)
	cc.Zoom(1)
	cc.PanRight(1)
	cc.Update(1)
	if cc.Azimuth() != az || cc.Radius() != r {
		t.Fatal("disabled controller moved")
	}
	if x, y, z := cc.Target(); x != 0 || y != 0 || z != 0 {
		t.Fatalf("disabled controller panned to (%v, %v, %v)", x, y, z)
	}

	// Pending motion from before the disable must not resume afterwards.
	cc.SetEnabled(true)
	cc.Update(1)
	if cc.Azimuth() != az {
		t.Errorf("pending rotation survived disable: %v -> %v", az, cc.Azimuth())
	}
}

func TestUndampedRotateAppliesImmediately(t *testing.T) {
	cc := NewOrbitController(WithDamping(0))
	start := cc.Azimuth()
	cc.Rotate(0.25, 0)
	if !near(cc.Azimuth()-start, 0.25, 1e-6) {
		t.Errorf("azimuth moved %v, want 0.25", cc.Azimuth()-start)
	}
}

func TestRadiusAndElevationClamped(t *testing.T) {
	cc := NewCameraController(
		WithRadiusBounds(2, 10),
		WithElevationBounds(0, 1),
		WithRadius(50),
		WithElevation(3),
	)
	if cc.Radius() != 10 {
		t.Errorf("radius = %v, want 10", cc.Radius())
	}
	if cc.Elevation() != 1 {
		t.Errorf("elevation = %v, want 1", cc.Elevation())
	}
	cc.SetRadius(0)
	if cc.Radius() != 2 {
		t.Errorf("SetRadius(0) = %v, want 2", cc.Radius())
	}
}

func TestZoomDolliesTowardTarget(t *testing.T) {
	cc := NewCameraController(WithRadius(10), WithRadiusBounds(1, 100))
	cc.Zoom(1)
	if !near(cc.Radius(), 9.5, 1e-4) {
		t.Errorf("zoom in: radius = %v, want 9.5", cc.Radius())
	}
	cc.Zoom(-2)
	if cc.Radius() <= 10 {
		t.Errorf("zoom out: radius = %v, want > 10", cc.Radius())
	}
	cc.Zoom(1000)
	if cc.Radius() != 1 {
		t.Errorf("zoom past bound: radius = %v, want 1", cc.Radius())
	}
}

func TestPanMovesTargetAndEyeTogether(t *testing.T) {
	cc := NewCameraController(WithRadius(10), WithElevation(0))
	ex, ey, ez := cc.Position()

	cc.PanRight(0.1)
	tx, ty, tz := cc.Target()
	if !near(tx, 1, 1e-4) || !near(ty, 0, 1e-4) || !near(tz, 0, 1e-4) {
		t.Fatalf("target after pan right = (%v, %v, %v), want (1, 0, 0)", tx, ty, tz)
	}
	x, y, z := cc.Position()
	if !near(x-ex, 1, 1e-4) || !near(y, ey, 1e-4) || !near(z, ez, 1e-4) {
		t.Errorf("eye after pan right = (%v, %v, %v)", x, y, z)
	}

	cc.PanUp(0.1)
	_, ty, _ = cc.Target()
	if !near(ty, 1, 1e-4) {
		t.Errorf("target y after pan up = %v, want 1", ty)
	}
}

func TestDampedPanDrains(t *testing.T) {
	cc := NewOrbitController()
	cc.PanUp(0.1)
	if _, y, _ := cc.Target(); y != 0 {
		t.Fatalf("damped pan applied before Update: y = %v", y)
	}
	for i := 0; i < 600; i++ {
		cc.Update(1.0 / 60)
	}
	if _, y, _ := cc.Target(); y <= 0 {
		t.Errorf("damped pan never moved the target: y = %v", y)
	}
}
