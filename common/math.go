package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes returns a byte view of a slice for GPU buffer uploads.
// The result shares memory with data.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte view of the input data, or nil if data is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	n := int(unsafe.Sizeof(data[0])) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), n)
}

// StructToBytes returns a byte view of the struct v points to.
func StructToBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(unsafe.Sizeof(*v)))
}

// Perspective returns a right-handed projection that maps view depth into WebGPU's [0, 1]
// clip range. mgl32.Perspective targets OpenGL's [-1, 1] range and cannot be used directly.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: width / height
//   - near: near plane distance (> 0)
//   - far: far plane distance (> near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1 / float32(math.Tan(float64(fovY)/2))
	depth := near - far
	return mgl32.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, far / depth, -1,
		0, 0, near * far / depth, 0,
	}
}

// ModelMatrix composes translation, Y-X-Z Euler rotation and scale.
//
// Parameters:
//   - position: translation in world space
//   - rotation: angles in radians around X, Y and Z
//   - scale: scale factors along each axis
//
// Returns:
//   - mgl32.Mat4: T * Ry * Rx * Rz * S
func ModelMatrix(position, rotation, scale [3]float32) mgl32.Mat4 {
	return mgl32.Translate3D(position[0], position[1], position[2]).
		Mul4(mgl32.HomogRotate3DY(rotation[1])).
		Mul4(mgl32.HomogRotate3DX(rotation[0])).
		Mul4(mgl32.HomogRotate3DZ(rotation[2])).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// AspectRatio returns width / height, or 1 when height is not positive.
func AspectRatio(width, height int) float32 {
	if height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

// PlanarShadow returns a matrix that flattens geometry onto a plane along a light.
// A directional light uses w = 0 with xyz pointing toward the light.
//
// Parameters:
//   - plane: coefficients (a, b, c, d) with ax + by + cz + d = 0
//   - light: homogeneous light position or direction
//
// Returns:
//   - mgl32.Mat4: dot(plane, light) * I - light * plane^T
func PlanarShadow(plane, light mgl32.Vec4) mgl32.Mat4 {
	return mgl32.Ident4().Mul(plane.Dot(light)).Sub(light.OuterProd4(plane))
}
