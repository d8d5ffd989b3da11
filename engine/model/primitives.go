package model

import "github.com/Carmen-Shannon/oxy-dualview/common"

var white = [4]float32{1, 1, 1, 1}

// NewPlane creates a square in the XZ plane facing +Y, centred on the origin.
//
// Parameters:
//   - size: edge length
//   - options: functional options applied to the mesh
//
// Returns:
//   - Mesh: the plane mesh
func NewPlane(size float32, options ...MeshBuilderOption) Mesh {
	h := size / 2
	up := [3]float32{0, 1, 0}
	vertices := []Vertex{
		{Position: [3]float32{-h, 0, -h}, Normal: up, Color: white},
		{Position: [3]float32{-h, 0, h}, Normal: up, Color: white},
		{Position: [3]float32{h, 0, h}, Normal: up, Color: white},
		{Position: [3]float32{h, 0, -h}, Normal: up, Color: white},
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}
	return NewMesh(TopologyTriangles, vertices, indices, append([]MeshBuilderOption{WithName("plane")}, options...)...)
}

// boxFaces lists each face's normal and the two in-plane axes used to place its corners.
var boxFaces = [6]struct {
	normal, u, v [3]float32
}{
	{[3]float32{1, 0, 0}, [3]float32{0, 0, -1}, [3]float32{0, 1, 0}},
	{[3]float32{-1, 0, 0}, [3]float32{0, 0, 1}, [3]float32{0, 1, 0}},
	{[3]float32{0, 1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, -1}},
	{[3]float32{0, -1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, 1}},
	{[3]float32{0, 0, 1}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}},
	{[3]float32{0, 0, -1}, [3]float32{-1, 0, 0}, [3]float32{0, 1, 0}},
}

// NewBox creates an axis-aligned box centred on the origin with outward normals and
// counter-clockwise front faces.
//
// Parameters:
//   - width, height, depth: box extents along X, Y and Z
//   - options: functional options applied to the mesh
//
// Returns:
//   - Mesh: the box mesh
func NewBox(width, height, depth float32, options ...MeshBuilderOption) Mesh {
	half := [3]float32{width / 2, height / 2, depth / 2}
	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range boxFaces {
		base := uint32(len(vertices))
		for _, corner := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			var p [3]float32
			for a := 0; a < 3; a++ {
				p[a] = (f.normal[a] + corner[0]*f.u[a] + corner[1]*f.v[a]) * half[a]
			}
			vertices = append(vertices, Vertex{Position: p, Normal: f.normal, Color: white})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return NewMesh(TopologyTriangles, vertices, indices, append([]MeshBuilderOption{WithName("box")}, options...)...)
}

// NewGrid creates a line grid in the XZ plane. The centre lines use centerColor and the
// rest use gridColor.
//
// Parameters:
//   - size: total edge length of the grid
//   - divisions: number of cells along each edge
//   - centerColor: color of the two lines through the origin
//   - gridColor: color of every other line
//   - options: functional options applied to the mesh
//
// Returns:
//   - Mesh: the grid mesh
func NewGrid(size float32, divisions int, centerColor, gridColor common.Color, options ...MeshBuilderOption) Mesh {
	if divisions < 1 {
		divisions = 1
	}
	step := size / float32(divisions)
	half := size / 2
	vertices := make([]Vertex, 0, 4*(divisions+1))
	up := [3]float32{0, 1, 0}
	for i := 0; i <= divisions; i++ {
		k := -half + float32(i)*step
		c := [4]float32(gridColor)
		if i == divisions/2 {
			c = [4]float32(centerColor)
		}
		vertices = append(vertices,
			Vertex{Position: [3]float32{-half, 0, k}, Normal: up, Color: c},
			Vertex{Position: [3]float32{half, 0, k}, Normal: up, Color: c},
			Vertex{Position: [3]float32{k, 0, -half}, Normal: up, Color: c},
			Vertex{Position: [3]float32{k, 0, half}, Normal: up, Color: c},
		)
	}
	return NewMesh(TopologyLines, vertices, sequence(len(vertices)), append([]MeshBuilderOption{WithName("grid")}, options...)...)
}

// NewAxes creates three lines from the origin along +X (red), +Y (green) and +Z (blue).
//
// Parameters:
//   - length: length of each axis line
//   - options: functional options applied to the mesh
//
// Returns:
//   - Mesh: the axes mesh
func NewAxes(length float32, options ...MeshBuilderOption) Mesh {
	red := [4]float32{1, 0, 0, 1}
	green := [4]float32{0, 1, 0, 1}
	blue := [4]float32{0, 0, 1, 1}
	vertices := []Vertex{
		{Position: [3]float32{0, 0, 0}, Color: red},
		{Position: [3]float32{length, 0, 0}, Color: red},
		{Position: [3]float32{0, 0, 0}, Color: green},
		{Position: [3]float32{0, length, 0}, Color: green},
		{Position: [3]float32{0, 0, 0}, Color: blue},
		{Position: [3]float32{0, 0, length}, Color: blue},
	}
	return NewMesh(TopologyLines, vertices, sequence(len(vertices)), append([]MeshBuilderOption{WithName("axes")}, options...)...)
}

func sequence(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}
