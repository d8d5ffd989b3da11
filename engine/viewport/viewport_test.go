package viewport

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-dualview/common"
	"github.com/Carmen-Shannon/oxy-dualview/engine/camera"
	"github.com/Carmen-Shannon/oxy-dualview/engine/host"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-dualview/engine/scene"
	"github.com/Carmen-Shannon/oxy-dualview/engine/window"
	"github.com/Carmen-Shannon/oxy-dualview/engine/window/windowtest"
)

const frameStep = 16 * time.Millisecond

func newTestViewport(t *testing.T, pump *host.FramePump, shared *scene.SharedScene, id string, options ...ViewportOption) (*Viewport, *renderertest.FakeContext) {
	t.Helper()
	ctx := renderertest.NewFakeContext(id)
	v, err := NewViewport(ctx, shared, pump, options...)
	if err != nil {
		t.Fatalf("NewViewport(%s) = %v", id, err)
	}
	v.Start()
	return v, ctx
}

// pumpFrames runs n frames starting at from, one frameStep apart, and returns the next timestamp.
func pumpFrames(pump *host.FramePump, from time.Duration, n int) time.Duration {
	for range n {
		pump.Pump(from)
		from += frameStep
	}
	return from
}

func checkClean(t *testing.T, ctxs ...*renderertest.FakeContext) {
	t.Helper()
	for _, ctx := range ctxs {
		if err := ctx.Err(); err != nil {
			t.Errorf("%s: %v", ctx.ID(), err)
		}
	}
}

func TestNewViewportRequiresCollaborators(t *testing.T) {
	pump := host.NewFramePump()
	if _, err := NewViewport(nil, scene.NewSharedScene(), pump); err == nil {
		t.Error("nil context should fail")
	}
	if _, err := NewViewport(renderertest.NewFakeContext("x"), nil, pump); err == nil {
		t.Error("nil scene should fail")
	}
}

func TestFirstFrameHasZeroElapsed(t *testing.T) {
	pump := host.NewFramePump()
	v, _ := newTestViewport(t, pump, scene.NewSharedScene(), "left")

	pump.Pump(5 * time.Second)
	if v.LastElapsed() != 0 {
		t.Errorf("first elapsed = %v, want 0", v.LastElapsed())
	}
	if d := v.Camera().Controller().LastDelta(); d != 0 {
		t.Errorf("first controller dt = %v, want 0", d)
	}

	pump.Pump(5*time.Second + frameStep)
	if v.LastElapsed() != frameStep {
		t.Errorf("second elapsed = %v, want %v", v.LastElapsed(), frameStep)
	}

	pump.Pump(time.Second)
	if v.LastElapsed() != 0 {
		t.Errorf("elapsed after a clock step back = %v, want 0", v.LastElapsed())
	}
}

func TestFrameReschedulesItself(t *testing.T) {
	pump := host.NewFramePump()
	v, ctx := newTestViewport(t, pump, scene.NewSharedScene(), "left")
	v.Start()
	if pump.Pending() != 1 {
		t.Fatalf("pending after Start = %d, want 1", pump.Pending())
	}
	pumpFrames(pump, 0, 4)
	if pump.Pending() != 1 || v.Frames() != 4 || ctx.Draws() != 4 {
		t.Errorf("pending = %d frames = %d draws = %d", pump.Pending(), v.Frames(), ctx.Draws())
	}
}

func TestEnvironmentBuiltOncePerEpoch(t *testing.T) {
	pump := host.NewFramePump()
	v, ctx := newTestViewport(t, pump, scene.NewSharedScene(), "left")
	pumpFrames(pump, 0, 10)
	if ctx.Builds() != 1 {
		t.Errorf("builds = %d, want 1", ctx.Builds())
	}
	if !v.Cache().Built() {
		t.Error("cache should be built")
	}
	checkClean(t, ctx)
}

func TestLossFreezesAndRestoreInvalidates(t *testing.T) {
	pump := host.NewFramePump()
	v, ctx := newTestViewport(t, pump, scene.NewSharedScene(), "left")
	ts := pumpFrames(pump, 0, 2)
	first := ctx.Handles()[0]

	v.ForceLoss()
	if v.Recovery().State() != renderer.StateLost {
		t.Fatal("recovery should be lost")
	}
	if v.Camera().Controller().Enabled() {
		t.Error("controller should be disabled while lost")
	}
	ts = pumpFrames(pump, ts, 3)
	if ctx.Draws() != 2 {
		t.Errorf("draws while lost = %d, want 2", ctx.Draws())
	}
	if pump.Pending() != 1 {
		t.Error("loop should keep scheduling while lost")
	}

	if err := v.ForceRestore(); err != nil {
		t.Fatal(err)
	}
	if v.Cache().Built() {
		t.Error("restore must leave the cache unbuilt")
	}
	if first.Releases() != 1 {
		t.Errorf("pre-restore handle releases = %d, want 1", first.Releases())
	}
	if v.Cache().Epoch() != 1 {
		t.Errorf("epoch = %d, want 1", v.Cache().Epoch())
	}
	if !v.Camera().Controller().Enabled() {
		t.Error("controller should be enabled after restore")
	}

	pumpFrames(pump, ts, 2)
	if ctx.Builds() != 2 || ctx.Draws() != 4 {
		t.Errorf("builds = %d draws = %d, want 2 and 4", ctx.Builds(), ctx.Draws())
	}
	stats := v.Recovery().Stats()
	if stats.Losses != 1 || stats.Restores != 1 || stats.Released != 1 {
		t.Errorf("recovery stats = %+v", stats)
	}
	checkClean(t, ctx)
}

func TestRestoreWithoutBuildReleasesNothing(t *testing.T) {
	pump := host.NewFramePump()
	v, ctx := newTestViewport(t, pump, scene.NewSharedScene(), "left")

	v.ForceLoss()
	if err := v.ForceRestore(); err != nil {
		t.Fatal(err)
	}
	stats := v.Cache().Stats()
	if stats.Releases != 0 || stats.Epoch != 1 || v.Cache().Built() {
		t.Errorf("cache stats = %+v built = %v", stats, v.Cache().Built())
	}
	pumpFrames(pump, 0, 1)
	if ctx.Builds() != 1 {
		t.Errorf("builds = %d, want 1", ctx.Builds())
	}
	checkClean(t, ctx)
}

func TestRestoreAlwaysInvalidates(t *testing.T) {
	pump := host.NewFramePump()
	v, ctx := newTestViewport(t, pump, scene.NewSharedScene(), "left")
	ts := pumpFrames(pump, 0, 1)
	for i := range 2 {
		v.ForceLoss()
		if err := v.ForceRestore(); err != nil {
			t.Fatal(err)
		}
		if v.Cache().Built() {
			t.Fatalf("cycle %d: cache still built after restore", i)
		}
		ts = pumpFrames(pump, ts, 1)
	}
	if ctx.Builds() != 3 {
		t.Errorf("builds = %d, want 3", ctx.Builds())
	}
}

func TestThreeCyclesReleaseBeforeRebuild(t *testing.T) {
	pump := host.NewFramePump()
	v, ctx := newTestViewport(t, pump, scene.NewSharedScene(), "left")
	ctx.BeforeBuild = func(f *renderertest.FakeContext) {
		for _, h := range f.Handles() {
			if h.Releases() != 1 {
				t.Errorf("building while %s has %d releases", h.Label(), h.Releases())
			}
		}
	}

	ts := pumpFrames(pump, 0, 2)
	for range 3 {
		v.ForceLoss()
		ts = pumpFrames(pump, ts, 2)
		if err := v.ForceRestore(); err != nil {
			t.Fatal(err)
		}
		ts = pumpFrames(pump, ts, 2)
	}

	handles := ctx.Handles()
	if len(handles) != 4 {
		t.Fatalf("handles = %d, want 4", len(handles))
	}
	for i, h := range handles[:3] {
		if h.Releases() != 1 {
			t.Errorf("handle %d releases = %d, want 1", i, h.Releases())
		}
	}
	if handles[3].Releases() != 0 || v.Cache().Resource() != handles[3] {
		t.Error("the current handle should be live and cached")
	}
	if v.Cache().Epoch() != 3 {
		t.Errorf("epoch = %d, want 3", v.Cache().Epoch())
	}
	checkClean(t, ctx)
}

func TestViewportsNeverShareCacheState(t *testing.T) {
	pump := host.NewFramePump()
	shared := scene.NewSharedScene()
	left, leftCtx := newTestViewport(t, pump, shared, "left")
	right, rightCtx := newTestViewport(t, pump, shared, "right")

	pumpFrames(pump, 0, 5)
	if left.Cache() == right.Cache() {
		t.Fatal("caches must be distinct")
	}
	if left.Cache().Resource() == right.Cache().Resource() {
		t.Fatal("handles must be distinct")
	}
	if leftCtx.Builds() != 1 || rightCtx.Builds() != 1 {
		t.Errorf("builds = %d/%d, want 1/1", leftCtx.Builds(), rightCtx.Builds())
	}

	left.ForceLoss()
	if err := left.ForceRestore(); err != nil {
		t.Fatal(err)
	}
	if !right.Cache().Built() || right.Cache().Epoch() != 0 {
		t.Error("restoring left must not touch right's cache")
	}
	pumpFrames(pump, 5*frameStep, 2)
	checkClean(t, leftCtx, rightCtx)
}

func TestForceLossOfOneLeavesOtherDrawing(t *testing.T) {
	pump := host.NewFramePump()
	shared := scene.NewSharedScene()
	left, leftCtx := newTestViewport(t, pump, shared, "left")
	_, rightCtx := newTestViewport(t, pump, shared, "right")

	ts := pumpFrames(pump, 0, 2)
	left.ForceLoss()
	pumpFrames(pump, ts, 3)

	if leftCtx.Draws() != 2 {
		t.Errorf("left draws = %d, want 2", leftCtx.Draws())
	}
	if rightCtx.Draws() != 5 {
		t.Errorf("right draws = %d, want 5", rightCtx.Draws())
	}
	checkClean(t, leftCtx, rightCtx)
}

func TestResizeUpdatesAspectWithoutRebuild(t *testing.T) {
	pump := host.NewFramePump()
	v, ctx := newTestViewport(t, pump, scene.NewSharedScene(), "left")
	ts := pumpFrames(pump, 0, 1)

	v.Resize(800, 600)
	if got, want := v.Camera().Aspect(), float32(800)/float32(600); got != want {
		t.Errorf("aspect = %v, want %v", got, want)
	}
	if w, h := ctx.Size(); w != 800 || h != 600 {
		t.Errorf("context size = %dx%d, want 800x600", w, h)
	}

	v.Resize(0, 600)
	if got, want := v.Camera().Aspect(), float32(800)/float32(600); got != want {
		t.Errorf("zero-width resize changed aspect to %v", got)
	}

	pumpFrames(pump, ts, 2)
	if ctx.Builds() != 1 {
		t.Errorf("builds = %d, want 1", ctx.Builds())
	}
}

func TestBuildFailureKeepsLoopRunning(t *testing.T) {
	pump := host.NewFramePump()
	v, ctx := newTestViewport(t, pump, scene.NewSharedScene(), "left")
	ctx.BuildErr = errors.New("out of memory")
	ctx.FailBuilds = 2

	pumpFrames(pump, 0, 3)
	if ctx.Draws() != 1 || ctx.Builds() != 1 {
		t.Errorf("draws = %d builds = %d, want 1 and 1", ctx.Draws(), ctx.Builds())
	}
	if pump.Pending() != 1 || v.Frames() != 3 {
		t.Errorf("pending = %d frames = %d", pump.Pending(), v.Frames())
	}
}

func TestRestoreFailureStaysLost(t *testing.T) {
	pump := host.NewFramePump()
	v, ctx := newTestViewport(t, pump, scene.NewSharedScene(), "left")
	pumpFrames(pump, 0, 1)

	ctx.RestoreErr = errors.New("no adapter")
	v.ForceLoss()
	if err := v.ForceRestore(); !errors.Is(err, ctx.RestoreErr) {
		t.Fatalf("ForceRestore = %v, want no adapter", err)
	}
	if v.Recovery().State() != renderer.StateLost || !v.Cache().Built() {
		t.Error("failed restore must leave the viewport lost and the cache untouched")
	}
}

func TestSurfaceEventsAndTriggers(t *testing.T) {
	pump := host.NewFramePump()
	w := windowtest.NewFakeWindow(
		window.WithWidth(400),
		window.WithHeight(300),
		window.WithTrigger("lose-left", common.KeyL),
		window.WithTrigger("restore-left", common.KeyR),
	)
	cam := camera.NewCamera(camera.WithController(camera.NewOrbitController(camera.WithDamping(0))))
	v, ctx := newTestViewport(t, pump, scene.NewSharedScene(), "left",
		WithCamera(cam),
		WithSurface(w),
		WithTriggers("lose-left", "restore-left"),
	)

	if got, want := cam.Aspect(), float32(400)/float32(300); got != want {
		t.Errorf("initial aspect = %v, want %v", got, want)
	}
	w.Resize(1000, 500)
	if cam.Aspect() != 2 {
		t.Errorf("aspect after resize = %v, want 2", cam.Aspect())
	}

	radius := cam.Controller().Radius()
	w.Scroll(1)
	if cam.Controller().Radius() >= radius {
		t.Error("scrolling up should zoom in")
	}

	azimuth := cam.Controller().Azimuth()
	w.Drag(window.MouseButtonLeft, 10, 0)
	want := azimuth - 10*cam.Controller().MouseSensitivity()
	if got := cam.Controller().Azimuth(); math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("azimuth after drag = %v, want %v", got, want)
	}

	pumpFrames(pump, 0, 1)
	if !w.Fire("lose-left") || ctx.State() != renderer.StateLost {
		t.Fatal("loss trigger should lose the context")
	}
	if !w.Fire("restore-left") || ctx.State() != renderer.StateValid {
		t.Fatal("restore trigger should restore the context")
	}
	if v.Cache().Built() {
		t.Error("restore trigger should invalidate the cache")
	}
}

func TestMissingTriggerIsNotAnError(t *testing.T) {
	pump := host.NewFramePump()
	w := windowtest.NewFakeWindow()
	_, ctx := newTestViewport(t, pump, scene.NewSharedScene(), "left",
		WithSurface(w),
		WithTriggers("lose-left", "restore-left"),
	)
	if w.Fire("lose-left") {
		t.Error("unknown trigger should not be bound")
	}
	if ctx.State() != renderer.StateValid {
		t.Error("context should stay valid")
	}
}

func TestCloseStopsLoopAndReleases(t *testing.T) {
	pump := host.NewFramePump()
	v, ctx := newTestViewport(t, pump, scene.NewSharedScene(), "left")
	pumpFrames(pump, 0, 1)
	handle := ctx.Handles()[0]

	v.Close()
	v.Close()
	pumpFrames(pump, frameStep, 1)
	if pump.Pending() != 0 {
		t.Error("closed viewport should stop scheduling")
	}
	if handle.Releases() != 1 || !ctx.Released() {
		t.Error("Close should release the environment and the context")
	}
	checkClean(t, ctx)
}
