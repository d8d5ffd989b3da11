package window

// Config holds the settings a Window implementation is created from.
type Config struct {
	Title     string
	Width     int
	Height    int
	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int

	// X and Y position the window on screen. Negative values leave placement to the platform.
	X int
	Y int

	// Triggers maps trigger ids to platform key codes (see common.Key*).
	Triggers map[string]uint32
}

// WindowBuilderOption is a functional option for configuring a window Config.
// Use the With* functions to create options.
type WindowBuilderOption func(c *Config)

// NewConfig returns a Config with defaults applied, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Config: the resulting configuration
func NewConfig(options ...WindowBuilderOption) Config {
	c := Config{
		Title:     "Default Window Title",
		Width:     640,
		Height:    720,
		MinWidth:  200,
		MinHeight: 200,
		MaxWidth:  3840,
		MaxHeight: 2160,
		X:         -1,
		Y:         -1,
		Triggers:  map[string]uint32{},
	}
	for _, opt := range options {
		opt(&c)
	}
	return c
}

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(c *Config) {
		c.Title = title
	}
}

// WithWidth sets the initial window width.
//
// Parameters:
//   - width: initial width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(c *Config) {
		if width > 0 {
			c.Width = width
		}
	}
}

// WithHeight sets the initial window height.
//
// Parameters:
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(c *Config) {
		if height > 0 {
			c.Height = height
		}
	}
}

// WithMinSize sets the smallest size the window can be resized to.
func WithMinSize(width, height int) WindowBuilderOption {
	return func(c *Config) {
		c.MinWidth = width
		c.MinHeight = height
	}
}

// WithMaxSize sets the largest size the window can be resized to.
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(c *Config) {
		c.MaxWidth = width
		c.MaxHeight = height
	}
}

// WithPosition places the window's top-left corner at (x, y) in screen coordinates.
//
// Parameters:
//   - x: horizontal position
//   - y: vertical position
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithPosition(x, y int) WindowBuilderOption {
	return func(c *Config) {
		c.X = x
		c.Y = y
	}
}

// WithTrigger registers a named trigger fired by the given key.
//
// Parameters:
//   - id: the trigger identifier passed to BindTrigger
//   - keyCode: the key that fires it
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTrigger(id string, keyCode uint32) WindowBuilderOption {
	return func(c *Config) {
		if id != "" {
			c.Triggers[id] = keyCode
		}
	}
}
