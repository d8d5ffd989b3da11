package viewport

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-dualview/engine/camera"
	"github.com/Carmen-Shannon/oxy-dualview/engine/envmap"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer/renderertest"
)

func TestRecoveryIgnoresMismatchedSignals(t *testing.T) {
	ctx := renderertest.NewFakeContext("left")
	cache := envmap.NewCache()
	r := NewRecovery(ctx, cache, camera.NewOrbitController())

	r.handleRestored()
	if r.State() != renderer.StateValid || cache.Epoch() != 0 {
		t.Error("restore while valid must be ignored")
	}

	r.handleLost()
	r.handleLost()
	stats := r.Stats()
	if stats.Losses != 1 || stats.Ignored != 2 {
		t.Errorf("stats = %+v, want 1 loss and 2 ignored", stats)
	}

	r.handleRestored()
	if r.State() != renderer.StateValid || cache.Epoch() != 1 {
		t.Errorf("state = %v epoch = %d after restore", r.State(), cache.Epoch())
	}
}

func TestRecoveryFollowsContextSignals(t *testing.T) {
	ctx := renderertest.NewFakeContext("left")
	cache := envmap.NewCache()
	ctrl := camera.NewOrbitController()
	r := NewRecovery(ctx, cache, ctrl)

	h, _, err := cache.Resolve(func() (envmap.Handle, error) {
		return ctx.BuildEnvironmentMap(envmap.NewRoomSource(1), envmap.DefaultQuality)
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx.ForceLoss()
	if r.State() != renderer.StateLost || ctrl.Enabled() {
		t.Fatal("loss should disable the controller")
	}
	if err := ctx.ForceRestore(); err != nil {
		t.Fatal(err)
	}
	if r.State() != renderer.StateValid || !ctrl.Enabled() {
		t.Fatal("restore should re-enable the controller")
	}
	if h.(*renderertest.FakeHandle).Releases() != 1 || cache.Built() {
		t.Error("restore should release the stale handle and empty the cache")
	}
	if r.Stats().Released != 1 {
		t.Errorf("released = %d, want 1", r.Stats().Released)
	}
}

func TestRecoveryWithoutController(t *testing.T) {
	ctx := renderertest.NewFakeContext("left")
	r := NewRecovery(ctx, envmap.NewCache(), nil)
	ctx.ForceLoss()
	if err := ctx.ForceRestore(); err != nil {
		t.Fatal(err)
	}
	if s := r.Stats(); s.Losses != 1 || s.Restores != 1 {
		t.Errorf("stats = %+v", s)
	}
}
