package scene

import "github.com/Carmen-Shannon/oxy-dualview/common"

// SharedSceneOption is a functional option for configuring a SharedScene.
type SharedSceneOption func(*SharedScene)

// WithEnvironmentAmbient sets the intensity of the ambient light inside the environment room.
//
// Parameters:
//   - intensity: ambient intensity, negative values clamp to zero
//
// Returns:
//   - SharedSceneOption: option function to apply
func WithEnvironmentAmbient(intensity float32) SharedSceneOption {
	return func(s *SharedScene) {
		s.ambient = max(intensity, 0)
	}
}

// WithQuality sets the prefilter blur radius used when a viewport builds the environment.
//
// Parameters:
//   - sigma: blur radius of the sharpest level, ignored unless positive
//
// Returns:
//   - SharedSceneOption: option function to apply
func WithQuality(sigma float32) SharedSceneOption {
	return func(s *SharedScene) {
		if sigma > 0 {
			s.quality = sigma
		}
	}
}

// WithoutEnvironment removes the environment source; Prepare becomes a no-op.
func WithoutEnvironment() SharedSceneOption {
	return func(s *SharedScene) {
		s.noEnv = true
	}
}

// WithBackground sets the clear colour.
func WithBackground(c common.Color) SharedSceneOption {
	return func(s *SharedScene) {
		s.background = c
	}
}

// WithEnvironmentBackground chooses whether the environment also replaces the background.
func WithEnvironmentBackground(enabled bool) SharedSceneOption {
	return func(s *SharedScene) {
		s.envBackground = enabled
	}
}
