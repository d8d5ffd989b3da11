// Package window defines the surface a viewport renders into and receives input from.
// Implementations live in subpackages; glfw_window is the desktop one.
package window

// MouseButton identifies a pointer button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Window provides a render surface plus the input events a viewport listens to.
// Sizes are framebuffer pixels.
type Window interface {
	// Title returns the window title.
	//
	// Returns:
	//   - string: the title text
	Title() string

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int

	// ContentScale returns the ratio between framebuffer pixels and screen coordinates.
	//
	// Returns:
	//   - float32: device pixel ratio, 1 on standard displays
	ContentScale() float32

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up/zoom in)
	SetScrollCallback(callback func(delta float32))

	// SetDragCallback sets the callback for pointer motion while a button is held.
	//
	// Parameters:
	//   - callback: function receiving the held button and the motion in pixels
	SetDragCallback(callback func(button MouseButton, dx, dy float32))

	// BindTrigger attaches fn to the trigger registered under id. Triggers are the
	// window's named actions (key bindings on the desktop).
	//
	// Parameters:
	//   - id: the trigger identifier
	//   - fn: function to run when the trigger fires
	//
	// Returns:
	//   - bool: false when the window has no trigger with that id
	BindTrigger(id string, fn func()) bool

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error
}

// HalfWidth returns the width each of two side-by-side viewports gets out of total.
//
// Parameters:
//   - total: the full width in pixels
//
// Returns:
//   - int: half of total, never below 1 for a positive total
func HalfWidth(total int) int {
	if total <= 0 {
		return 0
	}
	return max(total/2, 1)
}
