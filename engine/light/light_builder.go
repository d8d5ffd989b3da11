package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption configures a Light during construction.
type LightBuilderOption func(*lightImpl)

// WithDirection sets the direction the light travels in. The vector is normalized and a
// zero vector is ignored.
//
// Parameters:
//   - x, y, z: direction components
//
// Returns:
//   - LightBuilderOption: functional option to set the direction
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		d := mgl32.Vec3{x, y, z}
		if d.Len() == 0 {
			return
		}
		l.direction = d.Normalize()
	}
}

// WithColor sets the linear RGB color.
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = [3]float32{r, g, b}
	}
}

// WithIntensity sets the scalar multiplier applied to the color.
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithEnabled sets whether the light starts enabled.
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

// WithCastsShadows marks a directional light as the shadow caster. Ignored for ambient lights.
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
	}
}
