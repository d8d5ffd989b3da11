package host

import "time"

// FramePumpOption is a functional option for configuring a FramePump.
type FramePumpOption func(*FramePump)

// WithClock replaces the wall clock used for frame timestamps.
//
// Parameters:
//   - clock: returns the current time
//
// Returns:
//   - FramePumpOption: option function to apply
func WithClock(clock func() time.Time) FramePumpOption {
	return func(p *FramePump) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithFrameLimit caps Run at fps frames per second. Zero or negative means unlimited.
//
// Parameters:
//   - fps: maximum frames per second
//
// Returns:
//   - FramePumpOption: option function to apply
func WithFrameLimit(fps int) FramePumpOption {
	return func(p *FramePump) {
		if fps > 0 {
			p.minInterval = time.Second / time.Duration(fps)
		} else {
			p.minInterval = 0
		}
	}
}

// WithPanicHandler is called with the recovered value whenever a frame callback panics.
//
// Parameters:
//   - fn: the handler
//
// Returns:
//   - FramePumpOption: option function to apply
func WithPanicHandler(fn func(any)) FramePumpOption {
	return func(p *FramePump) {
		p.recoverFn = fn
	}
}
