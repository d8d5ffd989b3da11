package model

import "unsafe"

// Vertex is the interleaved vertex layout uploaded for every mesh.
// Size: 40 bytes (position 12, normal 12, color 16).
type Vertex struct {
	Position [3]float32 // offset  0
	Normal   [3]float32 // offset 12
	Color    [4]float32 // offset 24
}

// VertexSize is the byte stride of Vertex.
const VertexSize = int(unsafe.Sizeof(Vertex{}))
