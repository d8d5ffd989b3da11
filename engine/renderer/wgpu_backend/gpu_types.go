package wgpu_backend

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-dualview/common"
	"github.com/Carmen-Shannon/oxy-dualview/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// groundPlane is the catcher plane y = 0 in the catcher's local space.
var groundPlane = mgl32.Vec4{0, 1, 0, 0}

// GPUMeshUniform is the per-mesh block bound at group 2.
// Size: 160 bytes (WGSL uniform aligned).
type GPUMeshUniform struct {
	Model  [16]float32 // offset   0: model matrix
	Shadow [16]float32 // offset  64: planar shadow projection * model
	Color  [4]float32  // offset 128: base color multiplied into vertex color
	Params [4]float32  // offset 144: roughness, metalness, shadow opacity, unused
}

// Size returns the size of the GPUMeshUniform struct in bytes.
func (g *GPUMeshUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// GPUSkyUniform carries what the skybox needs to turn screen positions into view rays.
// Size: 80 bytes.
type GPUSkyUniform struct {
	InvViewProj [16]float32 // offset  0
	Background  [4]float32  // offset 64
}

// GPUEnvironmentUniform describes the bound cube map.
// Size: 16 bytes.
type GPUEnvironmentUniform struct {
	MaxLod  float32 // index of the blurriest mip level
	Enabled float32 // 1 when a real environment is bound, 0 for the fallback
	_pad    [2]float32
}

// meshUniform packs a mesh's transform and surface properties. When shadow is non-nil the
// mesh is a caster and Shadow receives the flattening matrix toward the catcher.
//
// Parameters:
//   - m: the mesh
//   - shadow: the catcher's shadow state, nil for meshes that cast no shadow this frame
//
// Returns:
//   - GPUMeshUniform: the packed uniform
func meshUniform(m model.Mesh, shadow *shadowState) GPUMeshUniform {
	u := GPUMeshUniform{
		Model:  m.ModelMatrix(),
		Color:  m.Color(),
		Params: [4]float32{m.Roughness(), m.Metalness(), 0, 0},
	}
	if shadow != nil {
		u.Shadow = shadow.projection.Mul4(u.Model)
		u.Params[2] = shadow.opacity
	}
	return u
}

// shadowState is the projection shared by every caster in one frame.
type shadowState struct {
	projection mgl32.Mat4
	opacity    float32
}

// newShadowState builds the projection that flattens world geometry onto a catcher along the
// light. The plane is the catcher's local y = 0 moved to its world position.
//
// Parameters:
//   - catcher: the shadow catching mesh
//   - light: homogeneous light vector from light.ShadowLight
//
// Returns:
//   - *shadowState: the projection and the catcher's opacity
func newShadowState(catcher model.Mesh, light [4]float32) *shadowState {
	pos := catcher.Position()
	plane := groundPlane
	plane[3] = -pos[1]
	return &shadowState{
		projection: common.PlanarShadow(plane, light),
		opacity:    catcher.ShadowOpacity(),
	}
}

// skyUniform inverts the camera's view-projection so the skybox can reconstruct view rays.
// A singular matrix yields the zero matrix, which draws the background color.
//
// Parameters:
//   - viewProj: the camera's view-projection matrix
//   - background: the clear color
//
// Returns:
//   - GPUSkyUniform: the packed uniform
func skyUniform(viewProj [16]float32, background common.Color) GPUSkyUniform {
	return GPUSkyUniform{
		InvViewProj: mgl32.Mat4(viewProj).Inv(),
		Background:  background,
	}
}
