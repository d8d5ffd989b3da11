package model

import "github.com/Carmen-Shannon/oxy-dualview/common"

// MeshBuilderOption is a functional option for configuring a Mesh.
type MeshBuilderOption func(*meshImpl)

// WithName sets the mesh's debug name.
//
// Parameters:
//   - name: the mesh name
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithName(name string) MeshBuilderOption {
	return func(m *meshImpl) {
		m.name = name
	}
}

// WithColor sets the base color.
//
// Parameters:
//   - c: linear RGBA color
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithColor(c common.Color) MeshBuilderOption {
	return func(m *meshImpl) {
		m.color = c
	}
}

// WithRoughness sets the surface roughness, clamped to [0, 1].
//
// Parameters:
//   - roughness: surface roughness
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithRoughness(roughness float32) MeshBuilderOption {
	return func(m *meshImpl) {
		m.roughness = common.Clamp(roughness, 0, 1)
	}
}

// WithMetalness sets the surface metalness, clamped to [0, 1].
//
// Parameters:
//   - metalness: surface metalness
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithMetalness(metalness float32) MeshBuilderOption {
	return func(m *meshImpl) {
		m.metalness = common.Clamp(metalness, 0, 1)
	}
}

// WithPosition sets the initial world position.
//
// Parameters:
//   - x, y, z: world-space position
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithPosition(x, y, z float32) MeshBuilderOption {
	return func(m *meshImpl) {
		m.position = [3]float32{x, y, z}
	}
}

// WithRotation sets the Euler rotation in radians.
//
// Parameters:
//   - x, y, z: rotation about each axis in radians
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithRotation(x, y, z float32) MeshBuilderOption {
	return func(m *meshImpl) {
		m.rotation = [3]float32{x, y, z}
	}
}

// WithScale sets the per-axis scale.
//
// Parameters:
//   - x, y, z: scale factors
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithScale(x, y, z float32) MeshBuilderOption {
	return func(m *meshImpl) {
		m.scale = [3]float32{x, y, z}
	}
}

// WithCastsShadow marks the mesh as a shadow caster.
//
// Parameters:
//   - casts: true to project the mesh onto shadow catchers
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithCastsShadow(casts bool) MeshBuilderOption {
	return func(m *meshImpl) {
		m.castsShadow = casts
	}
}

// WithShadowCatcher turns the mesh into a surface that is invisible except for the
// shadows cast onto it.
//
// Parameters:
//   - opacity: shadow darkness in [0, 1]
//
// Returns:
//   - MeshBuilderOption: option function to apply
func WithShadowCatcher(opacity float32) MeshBuilderOption {
	return func(m *meshImpl) {
		m.shadowCatcher = true
		m.shadowOpacity = common.Clamp(opacity, 0, 1)
	}
}
