// Package renderertest provides an in-memory RenderContext for tests. It performs no GPU
// work but tracks every build, release and draw so tests can assert the environment
// lifecycle and cross-context isolation.
package renderertest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-dualview/engine/camera"
	"github.com/Carmen-Shannon/oxy-dualview/engine/envmap"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer"
)

// FakeHandle is an environment handle created by a FakeContext.
type FakeHandle struct {
	owner    *FakeContext
	label    string
	epoch    int
	mu       sync.Mutex
	releases int
}

var _ envmap.Handle = &FakeHandle{}

func (h *FakeHandle) Label() string {
	return h.label
}

// Release records the release. Releasing twice is recorded as a violation on the owner.
func (h *FakeHandle) Release() {
	h.mu.Lock()
	h.releases++
	n := h.releases
	h.mu.Unlock()
	if n > 1 {
		h.owner.violate(fmt.Sprintf("%s released %d times", h.label, n))
	}
}

// Releases returns how many times Release was called.
func (h *FakeHandle) Releases() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.releases
}

// Owner returns the context that built the handle.
func (h *FakeHandle) Owner() *FakeContext {
	return h.owner
}

// Epoch returns the device generation the handle was built on.
func (h *FakeHandle) Epoch() int {
	return h.epoch
}

// FakeContext is a RenderContext that records calls instead of rendering.
type FakeContext struct {
	renderer.Signals

	mu     sync.Mutex
	id     string
	config renderer.Config
	state  renderer.ContextState
	epoch  int

	width, height int

	handles      []*FakeHandle
	draws        int
	skippedDraws int
	lastEnv      envmap.Handle
	violations   []string
	released     bool

	// BuildErr, when non-nil, is returned by the next FailBuilds calls to BuildEnvironmentMap.
	BuildErr   error
	FailBuilds int

	// RestoreErr, when non-nil, makes ForceRestore fail and leaves the context lost.
	RestoreErr error

	// BeforeBuild, when set, runs at the start of every successful build.
	BeforeBuild func(ctx *FakeContext)
}

var _ renderer.RenderContext = &FakeContext{}

// NewFakeContext creates a valid FakeContext.
//
// Parameters:
//   - id: the context id
//   - options: renderer options recorded in Config
//
// Returns:
//   - *FakeContext: the fake
func NewFakeContext(id string, options ...renderer.RenderContextOption) *FakeContext {
	return &FakeContext{
		id:     id,
		config: renderer.NewConfig(append([]renderer.RenderContextOption{renderer.WithLabel(id)}, options...)...),
		state:  renderer.StateValid,
	}
}

func (f *FakeContext) ID() string {
	return f.id
}

func (f *FakeContext) State() renderer.ContextState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *FakeContext) Config() renderer.Config {
	return f.config
}

func (f *FakeContext) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.width, f.height = width, height
}

// Size returns the last non-zero size passed to Resize.
func (f *FakeContext) Size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width, f.height
}

func (f *FakeContext) Draw(scene renderer.Scene, _ camera.Camera) error {
	f.mu.Lock()
	if f.state == renderer.StateLost {
		f.skippedDraws++
		f.mu.Unlock()
		return nil
	}
	f.draws++
	env := scene.Environment()
	f.lastEnv = env
	f.mu.Unlock()

	if env == nil {
		return nil
	}
	h, ok := env.(*FakeHandle)
	switch {
	case !ok || h.owner != f:
		f.violate(fmt.Sprintf("%s drew with foreign environment %s", f.id, env.Label()))
	case h.Releases() > 0:
		f.violate(fmt.Sprintf("%s drew with released environment %s", f.id, h.label))
	case h.epoch != f.Epoch():
		f.violate(fmt.Sprintf("%s drew with stale environment %s", f.id, h.label))
	}
	return nil
}

func (f *FakeContext) ForceLoss() {
	f.mu.Lock()
	if f.state == renderer.StateLost {
		f.mu.Unlock()
		return
	}
	f.state = renderer.StateLost
	f.mu.Unlock()
	f.EmitLost()
}

func (f *FakeContext) ForceRestore() error {
	f.mu.Lock()
	if f.state == renderer.StateValid {
		f.mu.Unlock()
		return nil
	}
	if f.RestoreErr != nil {
		err := f.RestoreErr
		f.mu.Unlock()
		return err
	}
	f.state = renderer.StateValid
	f.epoch++
	f.mu.Unlock()
	f.EmitRestored()
	return nil
}

func (f *FakeContext) BuildEnvironmentMap(src *envmap.Source, quality float32) (envmap.Handle, error) {
	if src == nil {
		return nil, envmap.ErrEmptySource
	}
	if !(quality > 0) {
		return nil, envmap.ErrInvalidQuality
	}
	f.mu.Lock()
	if f.state == renderer.StateLost {
		f.mu.Unlock()
		return nil, renderer.ErrContextLost
	}
	if f.BuildErr != nil && f.FailBuilds > 0 {
		f.FailBuilds--
		err := f.BuildErr
		f.mu.Unlock()
		return nil, err
	}
	hook := f.BeforeBuild
	f.mu.Unlock()

	if hook != nil {
		hook(f)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	h := &FakeHandle{
		owner: f,
		label: fmt.Sprintf("%s/env-%d", f.id, len(f.handles)),
		epoch: f.epoch,
	}
	f.handles = append(f.handles, h)
	return h, nil
}

func (f *FakeContext) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = true
}

// Released reports whether Release was called.
func (f *FakeContext) Released() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}

// Epoch returns the device generation, incremented on every restore.
func (f *FakeContext) Epoch() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.epoch
}

// Handles returns every handle built so far, oldest first.
func (f *FakeContext) Handles() []*FakeHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*FakeHandle(nil), f.handles...)
}

// Builds returns the number of successful environment builds.
func (f *FakeContext) Builds() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handles)
}

// Draws returns the number of draws performed while valid.
func (f *FakeContext) Draws() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draws
}

// SkippedDraws returns the number of draws ignored while lost.
func (f *FakeContext) SkippedDraws() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.skippedDraws
}

// LastEnvironment returns the environment seen by the most recent valid draw.
func (f *FakeContext) LastEnvironment() envmap.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastEnv
}

// Violations returns every invariant breach observed: double releases and draws with
// foreign, released or stale handles.
func (f *FakeContext) Violations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.violations...)
}

// Err joins all violations into one error, or returns nil.
func (f *FakeContext) Err() error {
	var errs []error
	for _, v := range f.Violations() {
		errs = append(errs, errors.New(v))
	}
	return errors.Join(errs...)
}

func (f *FakeContext) violate(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.violations = append(f.violations, msg)
}
