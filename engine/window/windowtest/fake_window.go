// Package windowtest provides an in-memory window.Window for tests.
package windowtest

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-dualview/engine/window"
)

// FakeWindow records bindings and lets tests fire input by hand.
type FakeWindow struct {
	mu       sync.Mutex
	config   window.Config
	scale    float32
	running  bool
	bound    map[string]func()
	onResize func(width, height int)
	onScroll func(delta float32)
	onDrag   func(button window.MouseButton, dx, dy float32)
}

var _ window.Window = &FakeWindow{}

// NewFakeWindow creates a running fake from the usual window options.
func NewFakeWindow(options ...window.WindowBuilderOption) *FakeWindow {
	return &FakeWindow{
		config:  window.NewConfig(options...),
		scale:   1,
		running: true,
		bound:   map[string]func(){},
	}
}

func (w *FakeWindow) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.config.Title
}

func (w *FakeWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.config.Width
}

func (w *FakeWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.config.Height
}

func (w *FakeWindow) ContentScale() float32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

// SetContentScale changes the reported pixel ratio.
func (w *FakeWindow) SetContentScale(scale float32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scale = scale
}

func (w *FakeWindow) SetResizeCallback(callback func(width, height int)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onResize = callback
}

func (w *FakeWindow) SetScrollCallback(callback func(delta float32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onScroll = callback
}

func (w *FakeWindow) SetDragCallback(callback func(button window.MouseButton, dx, dy float32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onDrag = callback
}

func (w *FakeWindow) BindTrigger(id string, fn func()) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.config.Triggers[id]; !ok {
		return false
	}
	w.bound[id] = fn
	return true
}

func (w *FakeWindow) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *FakeWindow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.running = false
	return nil
}

// Resize changes the size and runs the resize callback.
func (w *FakeWindow) Resize(width, height int) {
	w.mu.Lock()
	w.config.Width = width
	w.config.Height = height
	cb := w.onResize
	w.mu.Unlock()
	if cb != nil {
		cb(width, height)
	}
}

// Scroll runs the scroll callback.
func (w *FakeWindow) Scroll(delta float32) {
	w.mu.Lock()
	cb := w.onScroll
	w.mu.Unlock()
	if cb != nil {
		cb(delta)
	}
}

// Drag runs the drag callback.
func (w *FakeWindow) Drag(button window.MouseButton, dx, dy float32) {
	w.mu.Lock()
	cb := w.onDrag
	w.mu.Unlock()
	if cb != nil {
		cb(button, dx, dy)
	}
}

// Fire runs the function bound to the trigger id. It reports false if nothing is bound.
func (w *FakeWindow) Fire(id string) bool {
	w.mu.Lock()
	fn := w.bound[id]
	w.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}
