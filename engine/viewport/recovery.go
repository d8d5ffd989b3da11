package viewport

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-dualview/common"
	"github.com/Carmen-Shannon/oxy-dualview/engine/camera"
	"github.com/Carmen-Shannon/oxy-dualview/engine/envmap"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer"
)

// RecoveryStats counts what a Recovery has observed.
type RecoveryStats struct {
	Losses   uint64
	Restores uint64
	// Ignored counts signals that did not match the current state.
	Ignored uint64
	// Released counts environment handles released by restores.
	Released uint64
}

// Recovery tracks one context's Valid/Lost state and keeps the viewport consistent with it.
// On loss it freezes interaction; on restore it drops the environment built on the dead
// device so the next frame rebuilds it, then unfreezes interaction.
type Recovery struct {
	mu         sync.Mutex
	id         string
	state      renderer.ContextState
	cache      *envmap.Cache
	controller camera.CameraController
	stats      RecoveryStats
}

// NewRecovery creates a Recovery in the Valid state and subscribes it to ctx's signals.
//
// Parameters:
//   - ctx: the context whose signals drive the state machine
//   - cache: the environment cache to invalidate on restore
//   - controller: the interaction controller to disable while lost (may be nil)
//
// Returns:
//   - *Recovery: the subscribed recovery controller
func NewRecovery(ctx renderer.RenderContext, cache *envmap.Cache, controller camera.CameraController) *Recovery {
	r := &Recovery{
		id:         ctx.ID(),
		state:      renderer.StateValid,
		cache:      cache,
		controller: controller,
	}
	ctx.OnLost(r.handleLost)
	ctx.OnRestored(r.handleRestored)
	return r
}

// State returns the last state the controller transitioned to.
func (r *Recovery) State() renderer.ContextState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Stats returns a snapshot of the transition counters.
func (r *Recovery) Stats() RecoveryStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *Recovery) handleLost() {
	r.mu.Lock()
	if r.state == renderer.StateLost {
		r.stats.Ignored++
		r.mu.Unlock()
		common.Logger().Debug("loss signal ignored, context already lost", "context", r.id)
		return
	}
	r.state = renderer.StateLost
	r.stats.Losses++
	losses := r.stats.Losses
	r.mu.Unlock()

	if r.controller != nil {
		r.controller.SetEnabled(false)
	}
	common.Logger().Info("context lost", "context", r.id, "losses", losses)
}

func (r *Recovery) handleRestored() {
	r.mu.Lock()
	if r.state == renderer.StateValid {
		r.stats.Ignored++
		r.mu.Unlock()
		common.Logger().Debug("restore signal ignored, context already valid", "context", r.id)
		return
	}
	r.state = renderer.StateValid
	r.stats.Restores++
	r.mu.Unlock()

	released := r.cache.Invalidate()
	if released {
		r.mu.Lock()
		r.stats.Released++
		r.mu.Unlock()
	}
	if r.controller != nil {
		r.controller.SetEnabled(true)
	}
	common.Logger().Info("context restored", "context", r.id, "epoch", r.cache.Epoch(), "released", released)
}
