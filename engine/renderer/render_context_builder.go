package renderer

// Config holds the creation options shared by every RenderContext implementation.
type Config struct {
	// Label prefixes GPU object labels and log lines.
	Label string

	// MSAA is the sample count of the main pass. The antialias option selects MSAA4x.
	MSAA MSAASampleCount

	// Alpha requests a premultiplied-alpha surface when the adapter supports it.
	Alpha bool

	// PresentMode selects vsync or uncapped presentation.
	PresentMode PresentMode

	// ForceSoftware requests the fallback (CPU) adapter.
	ForceSoftware bool

	// AutoRestore makes a context try to reacquire its device on the first Draw after a
	// driver-initiated loss.
	AutoRestore bool

	// EnvironmentFaceSize is the base cube face size used by BuildEnvironmentMap.
	EnvironmentFaceSize int

	// PixelRatio scales logical window sizes to surface pixels.
	PixelRatio float32
}

// RenderContextOption is a functional option applied to a Config during context creation.
type RenderContextOption func(*Config)

// NewConfig returns the default configuration with the given options applied.
// Defaults: antialias on, alpha on, vsync, 64 texel environment faces, pixel ratio 1.
//
// Parameters:
//   - options: functional options to apply
//
// Returns:
//   - Config: the resulting configuration
func NewConfig(options ...RenderContextOption) Config {
	c := Config{
		Label:               "context",
		MSAA:                MSAA4x,
		Alpha:               true,
		PresentMode:         PresentModeVSync,
		EnvironmentFaceSize: 64,
		PixelRatio:          1,
	}
	for _, opt := range options {
		opt(&c)
	}
	return c
}

// WithLabel sets the context label.
//
// Parameters:
//   - label: the label used for GPU objects and logs
//
// Returns:
//   - RenderContextOption: option function to apply
func WithLabel(label string) RenderContextOption {
	return func(c *Config) {
		c.Label = label
	}
}

// WithAntialias turns 4x MSAA on or off.
//
// Parameters:
//   - enabled: true for MSAA4x, false for MSAAOff
//
// Returns:
//   - RenderContextOption: option function to apply
func WithAntialias(enabled bool) RenderContextOption {
	return func(c *Config) {
		if enabled {
			c.MSAA = MSAA4x
		} else {
			c.MSAA = MSAAOff
		}
	}
}

// WithMSAA sets the multisample anti-aliasing sample count.
// Higher values (MSAA8x, MSAA16x) are adapter-dependent and may not be supported
// by all hardware.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RenderContextOption: option function to apply
func WithMSAA(count MSAASampleCount) RenderContextOption {
	return func(c *Config) {
		c.MSAA = count
	}
}

// WithAlpha requests a transparent, premultiplied-alpha surface.
//
// Parameters:
//   - enabled: true to request surface alpha
//
// Returns:
//   - RenderContextOption: option function to apply
func WithAlpha(enabled bool) RenderContextOption {
	return func(c *Config) {
		c.Alpha = enabled
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RenderContextOption: option function to apply
func WithPresentMode(mode PresentMode) RenderContextOption {
	return func(c *Config) {
		c.PresentMode = mode
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter
//
// Returns:
//   - RenderContextOption: option function to apply
func WithForceSoftwareRenderer(force bool) RenderContextOption {
	return func(c *Config) {
		c.ForceSoftware = force
	}
}

// WithAutoRestore makes the context reacquire its device automatically after a driver loss.
// Forced losses are never auto-restored.
//
// Parameters:
//   - enabled: true to restore on the next Draw
//
// Returns:
//   - RenderContextOption: option function to apply
func WithAutoRestore(enabled bool) RenderContextOption {
	return func(c *Config) {
		c.AutoRestore = enabled
	}
}

// WithEnvironmentFaceSize sets the base cube face size used for environment maps.
// Values below 1 are ignored.
//
// Parameters:
//   - size: face width and height in texels
//
// Returns:
//   - RenderContextOption: option function to apply
func WithEnvironmentFaceSize(size int) RenderContextOption {
	return func(c *Config) {
		if size > 0 {
			c.EnvironmentFaceSize = size
		}
	}
}

// WithPixelRatio sets the ratio between logical and physical surface size.
// Values below or equal to 0 are ignored.
//
// Parameters:
//   - ratio: device pixel ratio
//
// Returns:
//   - RenderContextOption: option function to apply
func WithPixelRatio(ratio float32) RenderContextOption {
	return func(c *Config) {
		if ratio > 0 {
			c.PixelRatio = ratio
		}
	}
}
