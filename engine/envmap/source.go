package envmap

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Box is an axis-aligned box inside the room. Emissive boxes act as area lights;
// the rest are props that only reflect the ambient term.
type Box struct {
	Center   mgl32.Vec3
	Half     mgl32.Vec3
	Emission float32
	Albedo   float32
}

func (b Box) lower() mgl32.Vec3 { return b.Center.Sub(b.Half) }
func (b Box) upper() mgl32.Vec3 { return b.Center.Add(b.Half) }

// intersect returns the entry distance along a ray starting outside the box, using the slab method.
func (b Box) intersect(origin, invDir mgl32.Vec3) (float32, bool) {
	lo, hi := b.lower(), b.upper()
	tmin := float32(math.Inf(-1))
	tmax := float32(math.Inf(1))
	for a := 0; a < 3; a++ {
		t1 := (lo[a] - origin[a]) * invDir[a]
		t2 := (hi[a] - origin[a]) * invDir[a]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}
	if tmax < max(tmin, 0) || math.IsInf(float64(tmin), 1) {
		return 0, false
	}
	return tmin, tmin > 0
}

// Source is a lightweight room fragment used only to compute environment lighting.
// It is never drawn; the prefilter samples it by casting rays from Probe.
type Source struct {
	// Probe is the point the environment is captured from.
	Probe mgl32.Vec3

	// RoomMin and RoomMax bound the enclosing room.
	RoomMin, RoomMax mgl32.Vec3

	// Floor, Wall and Ceiling are the room albedos.
	Floor, Wall, Ceiling float32

	// Ambient is the intensity of the ambient light added to the fragment.
	Ambient float32

	// Exposure scales radiance before tone mapping into 8-bit texels.
	Exposure float32

	// Boxes are the lights and props inside the room.
	Boxes []Box
}

// NewRoomSource creates the default studio room: six emissive panels around a capture point at the
// origin and three grey props, with an ambient light of the given intensity.
//
// Parameters:
//   - ambient: intensity of the room's ambient light
//
// Returns:
//   - *Source: the environment source
func NewRoomSource(ambient float32) *Source {
	return &Source{
		Probe:    mgl32.Vec3{0, 0, 0},
		RoomMin:  mgl32.Vec3{-16.6, -1.0, -13.6},
		RoomMax:  mgl32.Vec3{15.1, 27.3, 15.0},
		Floor:    0.35,
		Wall:     0.6,
		Ceiling:  0.7,
		Ambient:  ambient,
		Exposure: 0.5,
		Boxes: []Box{
			{Center: mgl32.Vec3{-16.1, 14.4, 8.2}, Half: mgl32.Vec3{0.05, 1.21, 1.37}, Emission: 50},
			{Center: mgl32.Vec3{-16.1, 18.0, -8.2}, Half: mgl32.Vec3{0.05, 1.21, 1.38}, Emission: 50},
			{Center: mgl32.Vec3{14.9, 12.2, -1.8}, Half: mgl32.Vec3{0.08, 2.13, 3.17}, Emission: 17},
			{Center: mgl32.Vec3{-0.5, 8.9, 14.5}, Half: mgl32.Vec3{2.19, 2.72, 0.04}, Emission: 43},
			{Center: mgl32.Vec3{3.2, 11.5, -12.5}, Half: mgl32.Vec3{1.25, 1.0, 0.05}, Emission: 20},
			{Center: mgl32.Vec3{0, 20, 0}, Half: mgl32.Vec3{0.5, 0.05, 0.5}, Emission: 100},
			{Center: mgl32.Vec3{0.7, 1.0, 5.4}, Half: mgl32.Vec3{1.9, 2.0, 1.8}, Albedo: 0.5},
			{Center: mgl32.Vec3{-10.9, 2.0, -3.0}, Half: mgl32.Vec3{1.2, 3.1, 0.9}, Albedo: 0.5},
			{Center: mgl32.Vec3{-0.6, 2.1, -7.8}, Half: mgl32.Vec3{1.0, 3.2, 1.0}, Albedo: 0.5},
		},
	}
}

// Radiance returns the linear radiance seen from the capture point along dir.
//
// Parameters:
//   - dir: view direction (need not be normalized)
//
// Returns:
//   - float32: scalar radiance along dir
func (s *Source) Radiance(dir mgl32.Vec3) float32 {
	if dir.Len() == 0 {
		return 0
	}
	dir = dir.Normalize()
	inv := mgl32.Vec3{1 / dir[0], 1 / dir[1], 1 / dir[2]}

	nearest := float32(math.Inf(1))
	radiance := s.wallRadiance(dir, inv)
	for _, b := range s.Boxes {
		t, ok := b.intersect(s.Probe, inv)
		if !ok || t >= nearest {
			continue
		}
		nearest = t
		if b.Emission > 0 {
			radiance = b.Emission
		} else {
			radiance = b.Albedo * s.Ambient
		}
	}
	return radiance
}

// wallRadiance returns the ambient-lit albedo of the room surface hit by a ray from the capture point.
func (s *Source) wallRadiance(dir, inv mgl32.Vec3) float32 {
	exit := float32(math.Inf(1))
	axis := 0
	for a := 0; a < 3; a++ {
		if dir[a] == 0 {
			continue
		}
		bound := s.RoomMax[a]
		if dir[a] < 0 {
			bound = s.RoomMin[a]
		}
		if t := (bound - s.Probe[a]) * inv[a]; t < exit {
			exit = t
			axis = a
		}
	}
	albedo := s.Wall
	if axis == 1 {
		albedo = s.Floor
		if dir[1] > 0 {
			albedo = s.Ceiling
		}
	}
	return albedo * s.Ambient
}
