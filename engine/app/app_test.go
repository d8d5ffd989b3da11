package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-dualview/common"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-dualview/engine/scene"
	"github.com/Carmen-Shannon/oxy-dualview/engine/window"
	"github.com/Carmen-Shannon/oxy-dualview/engine/window/windowtest"
)

// fakeDevices is a DeviceFactory that records the contexts it creates.
type fakeDevices struct {
	mu       sync.Mutex
	contexts map[string]*renderertest.FakeContext
	err      error
}

func newFakeDevices() *fakeDevices {
	return &fakeDevices{contexts: map[string]*renderertest.FakeContext{}}
}

func (d *fakeDevices) create(_ window.Window, options ...renderer.RenderContextOption) (renderer.RenderContext, error) {
	if d.err != nil {
		return nil, d.err
	}
	cfg := renderer.NewConfig(options...)
	ctx := renderertest.NewFakeContext(cfg.Label, options...)
	d.mu.Lock()
	d.contexts[cfg.Label] = ctx
	d.mu.Unlock()
	return ctx, nil
}

func (d *fakeDevices) get(label string) *renderertest.FakeContext {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.contexts[label]
}

func newSurface(title, loss, restore string) *windowtest.FakeWindow {
	return windowtest.NewFakeWindow(
		window.WithTitle(title),
		window.WithWidth(window.HalfWidth(1280)),
		window.WithHeight(720),
		window.WithTrigger(loss, common.KeyL),
		window.WithTrigger(restore, common.KeyR),
	)
}

func TestCreateViewportWithoutFactory(t *testing.T) {
	a := NewApp()
	_, err := a.CreateViewport(newSurface("left", "l", "r"), "l", "r", scene.NewSharedScene())
	if !errors.Is(err, ErrNoDeviceFactory) {
		t.Fatalf("CreateViewport = %v, want ErrNoDeviceFactory", err)
	}
}

func TestCreateViewportFactoryError(t *testing.T) {
	devices := newFakeDevices()
	devices.err = errors.New("no adapter")
	a := NewApp(WithDeviceFactory(devices.create))
	_, err := a.CreateViewport(newSurface("left", "l", "r"), "l", "r", scene.NewSharedScene())
	if !errors.Is(err, devices.err) {
		t.Fatalf("CreateViewport = %v, want wrapped factory error", err)
	}
	if len(a.Viewports()) != 0 {
		t.Error("failed viewport should not be registered")
	}
}

func TestTwoViewportsShareSceneIndependently(t *testing.T) {
	devices := newFakeDevices()
	a := NewApp(
		WithDeviceFactory(devices.create),
		WithRendererOptions(renderer.WithMSAA(renderer.MSAAOff)),
	)
	shared := scene.NewSharedScene()

	leftWin := newSurface("left", "lose-left", "restore-left")
	leftWin.SetContentScale(2)
	rightWin := newSurface("right", "lose-right", "restore-right")

	left, err := a.CreateViewport(leftWin, "lose-left", "restore-left", shared)
	if err != nil {
		t.Fatal(err)
	}
	right, err := a.CreateViewport(rightWin, "lose-right", "restore-right", shared)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Viewports()) != 2 || a.Pump().Pending() != 2 {
		t.Fatalf("viewports = %d pending = %d", len(a.Viewports()), a.Pump().Pending())
	}

	leftCtx, rightCtx := devices.get("left"), devices.get("right")
	if cfg := leftCtx.Config(); cfg.PixelRatio != 2 || cfg.MSAA != renderer.MSAAOff {
		t.Errorf("left config = %+v", cfg)
	}
	if w, h := leftCtx.Size(); w != 640 || h != 720 {
		t.Errorf("left size = %dx%d, want 640x720", w, h)
	}
	if left.Camera().Aspect() != float32(640)/float32(720) {
		t.Errorf("left aspect = %v", left.Camera().Aspect())
	}

	a.Pump().Pump(0)
	leftWin.Fire("lose-left")
	a.Pump().Pump(16)
	a.Pump().Pump(32)

	if leftCtx.Draws() != 1 || rightCtx.Draws() != 3 {
		t.Errorf("draws left = %d right = %d, want 1 and 3", leftCtx.Draws(), rightCtx.Draws())
	}
	if right.Recovery().State() != renderer.StateValid {
		t.Error("right should stay valid")
	}

	leftWin.Fire("restore-left")
	a.Pump().Pump(48)
	if leftCtx.Builds() != 2 || rightCtx.Builds() != 1 {
		t.Errorf("builds left = %d right = %d, want 2 and 1", leftCtx.Builds(), rightCtx.Builds())
	}
	for _, ctx := range []*renderertest.FakeContext{leftCtx, rightCtx} {
		if err := ctx.Err(); err != nil {
			t.Error(err)
		}
	}
}

func TestRunStopsWhenSurfacesClose(t *testing.T) {
	devices := newFakeDevices()
	leftWin := newSurface("left", "l", "r")
	rightWin := newSurface("right", "l", "r")

	polls := 0
	a := NewApp(
		WithDeviceFactory(devices.create),
		WithEventPoller(func() {
			polls++
			if polls == 4 {
				_ = leftWin.Close()
				_ = rightWin.Close()
			}
		}),
	)
	shared := scene.NewSharedScene()
	for _, w := range []*windowtest.FakeWindow{leftWin, rightWin} {
		if _, err := a.CreateViewport(w, "", "", shared); err != nil {
			t.Fatal(err)
		}
	}

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run = %v", err)
	}
	for _, label := range []string{"left", "right"} {
		ctx := devices.get(label)
		if ctx.Draws() != 3 {
			t.Errorf("%s draws = %d, want 3", label, ctx.Draws())
		}
		if !ctx.Released() {
			t.Errorf("%s not released after Run", label)
		}
		if h := ctx.Handles(); len(h) != 1 || h[0].Releases() != 1 {
			t.Errorf("%s environment should be released once", label)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	devices := newFakeDevices()
	ctx, cancel := context.WithCancel(context.Background())
	a := NewApp(WithDeviceFactory(devices.create), WithEventPoller(cancel))
	if _, err := a.CreateViewport(newSurface("left", "l", "r"), "", "", scene.NewSharedScene()); err != nil {
		t.Fatal(err)
	}
	if err := a.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
	if !devices.get("left").Released() {
		t.Error("Run should close the App on cancellation")
	}
}
