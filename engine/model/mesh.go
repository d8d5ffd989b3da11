package model

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-dualview/common"
)

// Topology selects how a mesh's indices are assembled into primitives.
type Topology int

const (
	// TopologyTriangles draws indexed triangle lists with lighting.
	TopologyTriangles Topology = iota

	// TopologyLines draws indexed line lists unlit, using vertex colors only.
	TopologyLines
)

// meshImpl is the implementation of the Mesh interface.
type meshImpl struct {
	mu *sync.Mutex

	name     string
	topology Topology
	vertices []Vertex
	indices  []uint32

	color     common.Color
	roughness float32
	metalness float32

	position [3]float32
	rotation [3]float32
	scale    [3]float32

	castsShadow   bool
	shadowCatcher bool
	shadowOpacity float32
	visible       bool
}

// Mesh is an immutable piece of geometry plus the surface and transform properties
// needed to draw it. Geometry is CPU-side only; every render context uploads its own
// copy, so one Mesh can be shared by any number of contexts.
type Mesh interface {
	// Name returns the mesh's debug name, also used to label GPU resources.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// Topology returns the primitive topology of the mesh.
	//
	// Returns:
	//   - Topology: triangles or lines
	Topology() Topology

	// Vertices returns the mesh's vertex data. Callers must not modify the slice.
	//
	// Returns:
	//   - []Vertex: the vertices
	Vertices() []Vertex

	// Indices returns the mesh's index data. Callers must not modify the slice.
	//
	// Returns:
	//   - []uint32: the indices
	Indices() []uint32

	// Color returns the base color multiplied into every vertex color.
	//
	// Returns:
	//   - common.Color: linear RGBA color
	Color() common.Color

	// Roughness returns the surface roughness in [0, 1], used to pick the environment mip level.
	//
	// Returns:
	//   - float32: roughness
	Roughness() float32

	// Metalness returns the surface metalness in [0, 1].
	//
	// Returns:
	//   - float32: metalness
	Metalness() float32

	// ModelMatrix returns the column-major world transform built from position, rotation and scale.
	//
	// Returns:
	//   - [16]float32: the model matrix
	ModelMatrix() [16]float32

	// Position returns the mesh's world position.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// CastsShadow reports whether the mesh is projected onto shadow catchers.
	//
	// Returns:
	//   - bool: true if the mesh casts shadows
	CastsShadow() bool

	// ShadowCatcher reports whether the mesh only shows shadows cast onto it.
	//
	// Returns:
	//   - bool: true for shadow-catching surfaces
	ShadowCatcher() bool

	// ShadowOpacity returns the darkness of shadows drawn on a shadow catcher.
	//
	// Returns:
	//   - float32: opacity in [0, 1]
	ShadowOpacity() float32

	// Visible reports whether the mesh is drawn.
	//
	// Returns:
	//   - bool: true if visible
	Visible() bool

	// SetPosition moves the mesh.
	//
	// Parameters:
	//   - x, y, z: world-space position
	SetPosition(x, y, z float32)

	// SetVisible shows or hides the mesh.
	//
	// Parameters:
	//   - visible: true to draw the mesh
	SetVisible(visible bool)
}

var _ Mesh = &meshImpl{}

// NewMesh creates a Mesh from raw geometry.
//
// Parameters:
//   - topology: how indices are assembled
//   - vertices: vertex data
//   - indices: index data
//   - options: functional options to configure the mesh
//
// Returns:
//   - Mesh: the newly created mesh
func NewMesh(topology Topology, vertices []Vertex, indices []uint32, options ...MeshBuilderOption) Mesh {
	m := &meshImpl{
		mu:            &sync.Mutex{},
		name:          "mesh",
		topology:      topology,
		vertices:      vertices,
		indices:       indices,
		color:         common.Color{1, 1, 1, 1},
		roughness:     0.5,
		scale:         [3]float32{1, 1, 1},
		castsShadow:   false,
		shadowOpacity: 0.5,
		visible:       true,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *meshImpl) Name() string {
	return m.name
}

func (m *meshImpl) Topology() Topology {
	return m.topology
}

func (m *meshImpl) Vertices() []Vertex {
	return m.vertices
}

func (m *meshImpl) Indices() []uint32 {
	return m.indices
}

func (m *meshImpl) Color() common.Color {
	return m.color
}

func (m *meshImpl) Roughness() float32 {
	return m.roughness
}

func (m *meshImpl) Metalness() float32 {
	return m.metalness
}

func (m *meshImpl) CastsShadow() bool {
	return m.castsShadow
}

func (m *meshImpl) ShadowCatcher() bool {
	return m.shadowCatcher
}

func (m *meshImpl) ShadowOpacity() float32 {
	return m.shadowOpacity
}

func (m *meshImpl) ModelMatrix() [16]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return common.ModelMatrix(m.position, m.rotation, m.scale)
}

func (m *meshImpl) Position() [3]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *meshImpl) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

func (m *meshImpl) SetPosition(x, y, z float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = [3]float32{x, y, z}
}

func (m *meshImpl) SetVisible(visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = visible
}
