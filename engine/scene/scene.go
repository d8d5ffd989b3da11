// Package scene holds the single scene shared by every viewport.
package scene

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-dualview/common"
	"github.com/Carmen-Shannon/oxy-dualview/engine/camera"
	"github.com/Carmen-Shannon/oxy-dualview/engine/envmap"
	"github.com/Carmen-Shannon/oxy-dualview/engine/light"
	"github.com/Carmen-Shannon/oxy-dualview/engine/model"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer"
)

// SharedScene is the one scene graph drawn by all viewports. Its meshes and lights are
// immutable after construction; the only mutable state is the active-environment slot,
// which each viewport overwrites with its own handle right before drawing.
//
// SharedScene never owns an environment handle. Handles belong to the viewport caches
// passed into Prepare and Render.
type SharedScene struct {
	// renderMu makes Prepare+Draw in Render one exclusive section.
	renderMu sync.Mutex

	mu          sync.Mutex
	environment envmap.Handle

	meshes        []model.Mesh
	lights        []light.Light
	background    common.Color
	envBackground bool

	source  *envmap.Source
	ambient float32
	quality float32
	noEnv   bool
}

var _ renderer.Scene = &SharedScene{}

// NewSharedScene builds the studio scene: a shadow-catching ground, a red box resting on it,
// a grid and axes overlay, a light rig and the room environment source.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - *SharedScene: the scene, to be shared by pointer between viewports
func NewSharedScene(options ...SharedSceneOption) *SharedScene {
	s := &SharedScene{
		background:    common.HexColor(0xc0c0c0),
		envBackground: true,
		ambient:       1,
		quality:       envmap.DefaultQuality,
	}
	for _, opt := range options {
		opt(s)
	}

	s.meshes = []model.Mesh{
		model.NewGrid(10, 10, common.HexColor(0x444444), common.HexColor(0x888888), model.WithName("grid")),
		model.NewAxes(2, model.WithName("axes")),
		model.NewPlane(10, model.WithName("ground"), model.WithShadowCatcher(0.5)),
		model.NewBox(1, 1, 1,
			model.WithName("box"),
			model.WithColor(common.HexColor(0xe02020)),
			model.WithPosition(0, 0.5, 0),
			model.WithCastsShadow(true),
		),
	}
	s.lights = []light.Light{
		light.NewLight(light.LightTypeAmbient, light.WithIntensity(0.3)),
		light.NewLight(light.LightTypeDirectional,
			light.WithDirection(-0.4, -1, -0.3),
			light.WithIntensity(0.8),
			light.WithCastsShadows(true),
		),
	}
	if !s.noEnv {
		s.source = envmap.NewRoomSource(s.ambient)
	}
	return s
}

func (s *SharedScene) Meshes() []model.Mesh {
	return s.meshes
}

func (s *SharedScene) Lights() []light.Light {
	return s.lights
}

func (s *SharedScene) Background() common.Color {
	return s.background
}

func (s *SharedScene) Environment() envmap.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.environment
}

func (s *SharedScene) EnvironmentBackground() bool {
	return s.envBackground
}

// Source returns the environment source, or nil when the scene has none.
func (s *SharedScene) Source() *envmap.Source {
	return s.source
}

// Quality returns the prefilter blur used for environment builds.
func (s *SharedScene) Quality() float32 {
	return s.quality
}

// Mesh returns the mesh with the given name.
//
// Parameters:
//   - name: the mesh name
//
// Returns:
//   - model.Mesh: the mesh, or nil if none matches
func (s *SharedScene) Mesh(name string) model.Mesh {
	for _, m := range s.meshes {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

// Prepare is the pre-render hook. It makes sure cache holds an environment built by ctx,
// building it on the first call of each cache epoch, and installs that handle as the
// scene's active environment. A scene without an environment source does nothing.
//
// Parameters:
//   - ctx: the render context about to draw
//   - cache: the environment cache owned by the same viewport as ctx
//
// Returns:
//   - error: the wrapped build error; the cache stays unbuilt and the next call retries
func (s *SharedScene) Prepare(ctx renderer.RenderContext, cache *envmap.Cache) error {
	if s.source == nil {
		return nil
	}
	h, built, err := cache.Resolve(func() (envmap.Handle, error) {
		return ctx.BuildEnvironmentMap(s.source, s.quality)
	})
	if err != nil {
		return fmt.Errorf("failed to build environment for %s: %w", ctx.ID(), err)
	}
	if built {
		common.Logger().Info("environment built", "context", ctx.ID(), "handle", h.Label(), "epoch", cache.Epoch())
	}

	s.mu.Lock()
	s.environment = h
	s.mu.Unlock()
	return nil
}

// Render runs Prepare and then draws the scene on ctx, both inside one exclusive section,
// so the environment ctx draws with is always the one it just installed.
//
// Parameters:
//   - ctx: the render context to draw on
//   - cache: the environment cache owned by the same viewport as ctx
//   - cam: the viewing camera
//
// Returns:
//   - error: the Prepare error (draw skipped) or the draw error
func (s *SharedScene) Render(ctx renderer.RenderContext, cache *envmap.Cache, cam camera.Camera) error {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	if err := s.Prepare(ctx, cache); err != nil {
		return err
	}
	if err := ctx.Draw(s, cam); err != nil {
		return fmt.Errorf("failed to draw on %s: %w", ctx.ID(), err)
	}
	return nil
}
