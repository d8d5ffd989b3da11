package envmap

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl32"
)

// FaceCount is the number of faces in a cube map, ordered +X, -X, +Y, -Y, +Z, -Z.
const FaceCount = 6

// DefaultQuality is the blur radius (sigma, in radians) of the sharpest prefiltered level.
const DefaultQuality float32 = 0.04

// CubeLevel is one mip level of a prefiltered cube map.
type CubeLevel struct {
	// Size is the width and height of each face in texels.
	Size int

	// Sigma is the gaussian blur radius in radians used for this level.
	Sigma float32

	// Faces holds sRGB-encoded RGBA8 texels for each face, row-major.
	Faces [FaceCount][]byte
}

// CubeData is a prefiltered environment cube map ready for GPU upload.
// Level 0 is the sharpest; each further level halves the face size and doubles the blur.
type CubeData struct {
	Levels []CubeLevel
}

// Size returns the face size of the base level, or 0 when empty.
func (c *CubeData) Size() int {
	if c == nil || len(c.Levels) == 0 {
		return 0
	}
	return c.Levels[0].Size
}

// prefilterConfig holds the tunables applied by PrefilterOption.
type prefilterConfig struct {
	size    int
	levels  int
	samples int
	pool    worker.DynamicWorkerPool
}

var (
	facePoolOnce sync.Once
	facePool     worker.DynamicWorkerPool
)

// sharedFacePool returns the process-wide pool that filters cube faces. Workers in the pool
// never exit, so every build reuses the same goroutines.
func sharedFacePool() worker.DynamicWorkerPool {
	facePoolOnce.Do(func() {
		facePool = worker.NewDynamicWorkerPool(FaceCount, 4*FaceCount, time.Second)
	})
	return facePool
}

// PrefilterOption is a functional option for configuring Prefilter.
type PrefilterOption func(*prefilterConfig)

// WithFaceSize sets the base face size in texels. Values below 1 are ignored.
//
// Parameters:
//   - size: face width/height of mip level 0
//
// Returns:
//   - PrefilterOption: option function to apply
func WithFaceSize(size int) PrefilterOption {
	return func(c *prefilterConfig) {
		if size > 0 {
			c.size = size
		}
	}
}

// WithLevels sets the number of mip levels to generate. Generation stops early once a face
// would shrink below one texel.
//
// Parameters:
//   - levels: the requested mip level count
//
// Returns:
//   - PrefilterOption: option function to apply
func WithLevels(levels int) PrefilterOption {
	return func(c *prefilterConfig) {
		if levels > 0 {
			c.levels = levels
		}
	}
}

// WithSamples sets the number of cone samples gathered per texel.
//
// Parameters:
//   - samples: samples per texel (minimum 1)
//
// Returns:
//   - PrefilterOption: option function to apply
func WithSamples(samples int) PrefilterOption {
	return func(c *prefilterConfig) {
		if samples > 0 {
			c.samples = samples
		}
	}
}

// WithPool runs face filtering on a caller-owned pool instead of the shared one. The pool
// must outlive the call; Prefilter never stops it.
//
// Parameters:
//   - pool: the worker pool to submit face tasks to; nil is ignored
//
// Returns:
//   - PrefilterOption: option function to apply
func WithPool(pool worker.DynamicWorkerPool) PrefilterOption {
	return func(c *prefilterConfig) {
		if pool != nil {
			c.pool = pool
		}
	}
}

// Prefilter renders src into a cube map and blurs every level with a gaussian cone filter,
// approximating the roughness chain of a PMREM. Faces are filtered in parallel on a long-lived
// worker pool; the call returns once every level is complete.
//
// Parameters:
//   - src: the environment source to capture
//   - sigma: blur radius of level 0 in radians (DefaultQuality matches the studio preset)
//   - options: functional options for size, levels, samples and pool
//
// Returns:
//   - *CubeData: the prefiltered cube map
//   - error: ErrEmptySource, ErrInvalidQuality, or a face filtering failure
func Prefilter(src *Source, sigma float32, options ...PrefilterOption) (*CubeData, error) {
	if src == nil {
		return nil, ErrEmptySource
	}
	if !(sigma > 0) || math.IsInf(float64(sigma), 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidQuality, sigma)
	}

	cfg := prefilterConfig{size: 64, levels: 5, samples: 24}
	for _, opt := range options {
		opt(&cfg)
	}
	pool := cfg.pool
	if pool == nil {
		pool = sharedFacePool()
	}

	data := &CubeData{}
	size := cfg.size
	levelSigma := sigma
	for l := 0; l < cfg.levels && size >= 1; l++ {
		level := CubeLevel{Size: size, Sigma: levelSigma}

		var (
			wg      sync.WaitGroup
			errMu   sync.Mutex
			faceErr error
		)
		for face := 0; face < FaceCount; face++ {
			wg.Add(1)
			f := face
			pool.SubmitTask(worker.Task{
				ID: l*FaceCount + f,
				Do: func() (any, error) {
					defer wg.Done()
					texels, err := filterFace(src, f, level.Size, level.Sigma, cfg.samples)
					if err != nil {
						// Reported through faceErr; the pool only sees successful tasks.
						errMu.Lock()
						faceErr = err
						errMu.Unlock()
						return nil, nil
					}
					level.Faces[f] = texels
					return nil, nil
				},
			})
		}
		wg.Wait()
		if faceErr != nil {
			return nil, faceErr
		}

		data.Levels = append(data.Levels, level)
		size /= 2
		levelSigma *= 2
	}
	return data, nil
}

// faceDirection maps a face texel centre in [-1, 1] uv space to a world direction.
func faceDirection(face int, u, v float32) mgl32.Vec3 {
	switch face {
	case 0:
		return mgl32.Vec3{1, -v, -u}
	case 1:
		return mgl32.Vec3{-1, -v, u}
	case 2:
		return mgl32.Vec3{u, 1, v}
	case 3:
		return mgl32.Vec3{u, -1, -v}
	case 4:
		return mgl32.Vec3{u, -v, 1}
	default:
		return mgl32.Vec3{-u, -v, -1}
	}
}

// goldenAngle spreads cone samples evenly around the axis.
var goldenAngle = float32(math.Pi * (3 - math.Sqrt(5)))

// filterFace computes one face of one level.
func filterFace(src *Source, face, size int, sigma float32, samples int) ([]byte, error) {
	if face < 0 || face >= FaceCount {
		return nil, fmt.Errorf("envmap: face index %d out of range", face)
	}
	texels := make([]byte, size*size*4)
	radius := 3 * sigma
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			u := 2*(float32(x)+0.5)/float32(size) - 1
			v := 2*(float32(y)+0.5)/float32(size) - 1
			n := faceDirection(face, u, v).Normalize()
			t, b := tangentBasis(n)

			var sum, weight float32
			for i := 0; i < samples; i++ {
				theta := radius * float32(math.Sqrt((float64(i)+0.5)/float64(samples)))
				phi := float32(i) * goldenAngle
				st, ct := float32(math.Sin(float64(theta))), float32(math.Cos(float64(theta)))
				sp, cp := float32(math.Sin(float64(phi))), float32(math.Cos(float64(phi)))
				dir := n.Mul(ct).Add(t.Mul(st * cp)).Add(b.Mul(st * sp))
				w := float32(math.Exp(float64(-theta * theta / (2 * sigma * sigma))))
				sum += src.Radiance(dir) * w
				weight += w
			}

			value := encode(sum/weight, src.Exposure)
			i := (y*size + x) * 4
			texels[i], texels[i+1], texels[i+2], texels[i+3] = value, value, value, 255
		}
	}
	return texels, nil
}

// tangentBasis returns two unit vectors orthogonal to n and to each other.
func tangentBasis(n mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	up := mgl32.Vec3{0, 1, 0}
	if math.Abs(float64(n[1])) > 0.999 {
		up = mgl32.Vec3{1, 0, 0}
	}
	t := up.Cross(n).Normalize()
	return t, n.Cross(t)
}

// encode tone maps linear radiance with Reinhard and applies the sRGB transfer curve.
func encode(radiance, exposure float32) byte {
	x := radiance * exposure
	x = x / (1 + x)
	var s float64
	if x <= 0.0031308 {
		s = 12.92 * float64(x)
	} else {
		s = 1.055*math.Pow(float64(x), 1/2.4) - 0.055
	}
	return byte(math.Round(math.Max(0, math.Min(1, s)) * 255))
}
