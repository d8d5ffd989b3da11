package light

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeAmbient lights every fragment equally, with no direction.
	LightTypeAmbient LightType = iota

	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun. Directional lights are the only
	// shadow casters.
	LightTypeDirectional
)

// String returns the light type name.
func (t LightType) String() string {
	switch t {
	case LightTypeAmbient:
		return "ambient"
	case LightTypeDirectional:
		return "directional"
	default:
		return "unknown"
	}
}

type lightImpl struct {
	mu sync.RWMutex

	lightType    LightType
	direction    mgl32.Vec3
	color        [3]float32
	intensity    float32
	enabled      bool
	castsShadows bool
}

// Light is a scene-level light source shared by every viewport. Each render context packs
// the scene's lights into its own uniform block per frame with PackUniform.
type Light interface {
	Type() LightType

	// Direction returns the normalized direction the light travels in. Unused for ambient lights.
	Direction() [3]float32

	Color() [3]float32
	Intensity() float32
	Enabled() bool

	// CastsShadows reports whether this light projects onto shadow catchers.
	CastsShadows() bool

	SetIntensity(intensity float32)
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with white color, intensity 1,
// and a straight-down direction.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: the newly created light
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		direction: mgl32.Vec3{0, -1, 0},
		color:     [3]float32{1, 1, 1},
		intensity: 1,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.lightType == LightTypeAmbient {
		l.castsShadows = false
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Direction() [3]float32 {
	return l.direction
}

func (l *lightImpl) Color() [3]float32 {
	return l.color
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) Intensity() float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.intensity
}

func (l *lightImpl) Enabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = intensity
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}
