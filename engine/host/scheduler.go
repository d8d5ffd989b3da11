// Package host provides the per-frame scheduling primitive that drives every viewport.
// Frames are cooperative callbacks, not goroutines: a callback requested while a pump
// is running executes on the next pump, never re-entrantly.
package host

import (
	"context"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-dualview/common"
)

// FrameCallback receives the host timestamp of the frame, measured from the pump's start.
type FrameCallback func(timestamp time.Duration)

// Scheduler is the host's "request next frame" primitive.
type Scheduler interface {
	// RequestFrame queues cb to run once on the next frame.
	//
	// Parameters:
	//   - cb: the callback; nil is ignored
	RequestFrame(cb FrameCallback)
}

// FramePump is a Scheduler that runs queued callbacks in batches. Each Pump call runs the
// callbacks queued before it started, in request order, so frames of different viewports
// interleave only at whole-callback granularity.
type FramePump struct {
	mu      sync.Mutex
	pending []FrameCallback
	frames  uint64

	clock       func() time.Time
	start       time.Time
	minInterval time.Duration
	recoverFn   func(any)
}

var _ Scheduler = &FramePump{}

// NewFramePump creates an empty pump.
//
// Parameters:
//   - options: functional options to configure the pump
//
// Returns:
//   - *FramePump: the pump
func NewFramePump(options ...FramePumpOption) *FramePump {
	p := &FramePump{
		clock: time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.start = p.clock()
	return p
}

func (p *FramePump) RequestFrame(cb FrameCallback) {
	if cb == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, cb)
}

// Pending returns the number of callbacks waiting for the next pump.
//
// Returns:
//   - int: queued callbacks
func (p *FramePump) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Frames returns how many pumps have run.
//
// Returns:
//   - uint64: pump count
func (p *FramePump) Frames() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Pump runs every callback queued before the call with the given timestamp. Callbacks
// requested during the pump are deferred to the next one. A panicking callback is
// recovered and logged so the remaining callbacks still run.
//
// Parameters:
//   - timestamp: the frame timestamp passed to each callback
//
// Returns:
//   - int: number of callbacks run
func (p *FramePump) Pump(timestamp time.Duration) int {
	p.mu.Lock()
	batch := p.pending
	p.pending = nil
	p.frames++
	p.mu.Unlock()

	for _, cb := range batch {
		p.run(cb, timestamp)
	}
	return len(batch)
}

func (p *FramePump) run(cb FrameCallback, timestamp time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("frame callback panicked", "panic", r)
			if p.recoverFn != nil {
				p.recoverFn(r)
			}
		}
	}()
	cb(timestamp)
}

// Run pumps frames until ctx is cancelled, poll returns false, or nothing is queued.
// poll runs before every frame (window event processing); a nil poll always continues.
// With a frame limit set, Run sleeps so frames start at least the minimum interval apart.
//
// Parameters:
//   - ctx: cancels the loop
//   - poll: host event processing; returns false to stop
//
// Returns:
//   - error: ctx.Err() when cancelled, otherwise nil
func (p *FramePump) Run(ctx context.Context, poll func() bool) error {
	var last time.Time
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if poll != nil && !poll() {
			return nil
		}
		if p.Pending() == 0 {
			return nil
		}
		if p.minInterval > 0 && !last.IsZero() {
			if wait := p.minInterval - p.clock().Sub(last); wait > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(wait):
				}
			}
		}
		now := p.clock()
		last = now
		p.Pump(now.Sub(p.start))
	}
}
