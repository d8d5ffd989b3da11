package light

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPULightUniform is the GPU-aligned light block read by the lit shader.
// Ambient lights are summed; only the first enabled directional light is used.
// Size: 48 bytes (WGSL uniform aligned).
type GPULightUniform struct {
	Ambient        [3]float32 // offset  0: summed ambient color * intensity
	HasDirectional uint32     // offset 12: 1 when Direction/Color are valid
	Direction      [3]float32 // offset 16: direction the light travels in
	CastsShadows   uint32     // offset 28: 1 when the directional light casts shadows
	Color          [3]float32 // offset 32: directional color * intensity
	_pad           float32    // offset 44
}

// Size returns the size of the GPULightUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPULightUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform into a little-endian byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer
func (g *GPULightUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	put := func(off int, v float32) { binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v)) }
	for i := range 3 {
		put(i*4, g.Ambient[i])
		put(16+i*4, g.Direction[i])
		put(32+i*4, g.Color[i])
	}
	binary.LittleEndian.PutUint32(buf[12:], g.HasDirectional)
	binary.LittleEndian.PutUint32(buf[28:], g.CastsShadows)
	return buf
}

// PackUniform folds a light list into a GPULightUniform. Disabled lights are skipped.
//
// Parameters:
//   - lights: the scene's lights
//
// Returns:
//   - GPULightUniform: the packed block
func PackUniform(lights []Light) GPULightUniform {
	var u GPULightUniform
	for _, l := range lights {
		if l == nil || !l.Enabled() {
			continue
		}
		c := l.Color()
		k := l.Intensity()
		switch l.Type() {
		case LightTypeAmbient:
			for i := range 3 {
				u.Ambient[i] += c[i] * k
			}
		case LightTypeDirectional:
			if u.HasDirectional == 1 {
				continue
			}
			u.HasDirectional = 1
			u.Direction = l.Direction()
			u.Color = [3]float32{c[0] * k, c[1] * k, c[2] * k}
			if l.CastsShadows() {
				u.CastsShadows = 1
			}
		}
	}
	return u
}

// ShadowLight returns the homogeneous light vector for planar shadow projection from the
// first enabled shadow-casting directional light (pointing toward the light, w = 0).
//
// Parameters:
//   - lights: the scene's lights
//
// Returns:
//   - [4]float32: the light vector
//   - bool: false when no light casts shadows
func ShadowLight(lights []Light) ([4]float32, bool) {
	for _, l := range lights {
		if l == nil || !l.Enabled() || l.Type() != LightTypeDirectional || !l.CastsShadows() {
			continue
		}
		d := l.Direction()
		return [4]float32{-d[0], -d[1], -d[2], 0}, true
	}
	return [4]float32{}, false
}
