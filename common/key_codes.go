package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyL   = 76  // L key (ASCII)
	KeyR   = 82  // R key (ASCII)
	KeyK   = 75  // K key (ASCII)
	KeyJ   = 74  // J key (ASCII)
	KeyEsc = 256 // Escape key (GLFW)
)
