// Package common contains small shared helpers used throughout the engine: column-major
// matrix math, colour conversion, key codes and the engine-wide logger. Nothing in here
// touches the GPU or the windowing system.
package common

// Color is a linear RGBA colour with components in [0, 1].
type Color [4]float32

// HexColor converts a 0xRRGGBB value into an opaque Color.
//
// Parameters:
//   - hex: the packed 24-bit colour
//
// Returns:
//   - Color: the colour with alpha set to 1
func HexColor(hex uint32) Color {
	return Color{
		float32((hex>>16)&0xff) / 255,
		float32((hex>>8)&0xff) / 255,
		float32(hex&0xff) / 255,
		1,
	}
}
