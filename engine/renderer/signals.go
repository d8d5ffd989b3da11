package renderer

import "sync"

// Signals is a small subscriber list for loss and restore notifications, shared by
// RenderContext implementations.
type Signals struct {
	mu       sync.Mutex
	lost     []func()
	restored []func()
}

// OnLost subscribes fn to loss notifications.
//
// Parameters:
//   - fn: the callback; nil is ignored
func (s *Signals) OnLost(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lost = append(s.lost, fn)
}

// OnRestored subscribes fn to restore notifications.
//
// Parameters:
//   - fn: the callback; nil is ignored
func (s *Signals) OnRestored(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restored = append(s.restored, fn)
}

// EmitLost calls every loss subscriber in subscription order.
func (s *Signals) EmitLost() {
	for _, fn := range s.snapshot(&s.lost) {
		fn()
	}
}

// EmitRestored calls every restore subscriber in subscription order.
func (s *Signals) EmitRestored() {
	for _, fn := range s.snapshot(&s.restored) {
		fn()
	}
}

// snapshot copies a subscriber list so callbacks run without the lock held and may subscribe again.
func (s *Signals) snapshot(list *[]func()) []func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]func(){}, *list...)
}
