package wgpu_backend

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-dualview/common"
	"github.com/Carmen-Shannon/oxy-dualview/engine/envmap"
	"github.com/Carmen-Shannon/oxy-dualview/engine/model"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer"
	"github.com/Carmen-Shannon/oxy-dualview/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-dualview/engine/window/windowtest"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

// transform applies a column-major matrix to a point.
func transform(m [16]float32, p [4]float32) [4]float32 {
	var out [4]float32
	for row := range 4 {
		for k := range 4 {
			out[row] += m[k*4+row] * p[k]
		}
	}
	return out
}

func TestUniformSizes(t *testing.T) {
	var mesh GPUMeshUniform
	if mesh.Size() != 160 {
		t.Errorf("mesh uniform = %d bytes, want 160", mesh.Size())
	}
	var sky GPUSkyUniform
	if n := len(common.StructToBytes(&sky)); n != 80 {
		t.Errorf("sky uniform = %d bytes, want 80", n)
	}
	var env GPUEnvironmentUniform
	if n := len(common.StructToBytes(&env)); n != 16 {
		t.Errorf("environment uniform = %d bytes, want 16", n)
	}
}

func TestMeshUniformWithoutShadow(t *testing.T) {
	box := model.NewBox(1, 1, 1,
		model.WithPosition(0, 0.5, 0),
		model.WithColor(common.HexColor(0xe02020)),
		model.WithRoughness(0.3),
		model.WithMetalness(0.1),
	)
	u := meshUniform(box, nil)
	if u.Color != box.Color() {
		t.Errorf("color = %v, want %v", u.Color, box.Color())
	}
	if !approx(u.Params[0], 0.3) || !approx(u.Params[1], 0.1) || u.Params[2] != 0 {
		t.Errorf("params = %v", u.Params)
	}
	if u.Shadow != ([16]float32{}) {
		t.Error("a mesh without shadow state should get a zero shadow matrix")
	}
}

func TestMeshUniformFlattensOntoCatcher(t *testing.T) {
	box := model.NewBox(1, 1, 1, model.WithPosition(0, 0.5, 0))
	ground := model.NewPlane(10, model.WithShadowCatcher(0.5))

	u := meshUniform(box, newShadowState(ground, [4]float32{0, 1, 0, 0}))
	if !approx(u.Params[2], 0.5) {
		t.Errorf("shadow opacity = %v, want 0.5", u.Params[2])
	}

	// Top corner of the box at world (0.5, 1, 0.5) lands straight below it.
	p := transform(u.Shadow, [4]float32{0.5, 0.5, 0.5, 1})
	want := [4]float32{0.5, 0, 0.5, 1}
	for i := range 4 {
		if !approx(p[i], want[i]) {
			t.Fatalf("projected corner = %v, want %v", p, want)
		}
	}
}

func TestShadowStateFollowsRaisedCatcher(t *testing.T) {
	ground := model.NewPlane(10, model.WithPosition(0, 2, 0), model.WithShadowCatcher(1))
	s := newShadowState(ground, [4]float32{0, 1, 0, 0})
	p := transform(s.projection, [4]float32{1, 5, -1, 1})
	if !approx(p[1]/p[3], 2) {
		t.Errorf("projected y = %v, want 2", p[1]/p[3])
	}
}

func TestSkyUniformInvertsViewProjection(t *testing.T) {
	proj := common.Perspective(float32(75*math.Pi/180), 1.5, 0.1, 1000)
	view := mgl32.LookAtV(mgl32.Vec3{0, 4, 8}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	vp := proj.Mul4(view)

	bg := common.HexColor(0xc0c0c0)
	u := skyUniform(vp, bg)
	if u.Background != bg {
		t.Errorf("background = %v, want %v", u.Background, bg)
	}
	product := vp.Mul4(u.InvViewProj)
	if !product.ApproxEqualThreshold(mgl32.Ident4(), 1e-3) {
		t.Errorf("vp * inverse = %v, want identity", product)
	}
}

func TestSkyUniformSingularMatrix(t *testing.T) {
	u := skyUniform([16]float32{}, common.Color{})
	if u.InvViewProj != ([16]float32{}) {
		t.Error("a singular view-projection should yield the zero matrix")
	}
}

func TestEnvironmentFaceSize(t *testing.T) {
	tests := []struct {
		base  int
		ratio float32
		want  int
	}{
		{64, 1, 64},
		{64, 2, 128},
		{64, 1.5, 128},
		{100, 1, 128},
		{64, 0.5, 64},
		{0, 0, 1},
		{400, 2, maxEnvironmentFaceSize},
	}
	for _, tt := range tests {
		if got := environmentFaceSize(tt.base, tt.ratio); got != tt.want {
			t.Errorf("environmentFaceSize(%d, %v) = %d, want %d", tt.base, tt.ratio, got, tt.want)
		}
	}
}

func TestPresentMode(t *testing.T) {
	if presentMode(renderer.PresentModeVSync) != wgpu.PresentModeFifo {
		t.Error("vsync should map to fifo")
	}
	if presentMode(renderer.PresentModeUncapped) != wgpu.PresentModeImmediate {
		t.Error("uncapped should map to immediate")
	}
}

func TestAlphaMode(t *testing.T) {
	both := []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque, wgpu.CompositeAlphaModePremultiplied}
	if alphaMode(both, true) != wgpu.CompositeAlphaModePremultiplied {
		t.Error("alpha requested and supported should pick premultiplied")
	}
	if alphaMode(both, false) != wgpu.CompositeAlphaModeOpaque {
		t.Error("alpha not requested should pick opaque")
	}
	opaqueOnly := []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque}
	if alphaMode(opaqueOnly, true) != wgpu.CompositeAlphaModeOpaque {
		t.Error("unsupported alpha should fall back to opaque")
	}
	if alphaMode(nil, true) != wgpu.CompositeAlphaModeAuto {
		t.Error("no reported modes should fall back to auto")
	}
}

func TestPipelineDescriptions(t *testing.T) {
	pipelines := newPipelines()
	layouts := bindGroupLayoutDescriptors()
	for _, key := range []string{pipelineSkybox, pipelineLit, pipelineLines, pipelineShadow} {
		p, ok := pipelines[key]
		if !ok {
			t.Fatalf("missing pipeline %s", key)
		}
		for i, slot := range p.BindGroupSlots() {
			if slot != i {
				t.Errorf("%s binds slot %d at group %d; groups must be contiguous", key, slot, i)
			}
			if _, ok := layouts[slot]; !ok {
				t.Errorf("%s uses slot %d with no layout", key, slot)
			}
		}
	}
	if len(pipelines[pipelineSkybox].VertexLayouts()) != 0 {
		t.Error("the skybox generates its own vertices")
	}
	if pipelines[pipelineLines].State().Topology != wgpu.PrimitiveTopologyLineList {
		t.Error("lines pipeline should use line lists")
	}
	shadow := pipelines[pipelineShadow].State()
	if shadow.Blend == nil || shadow.DepthWrite {
		t.Error("shadow pipeline should blend without writing depth")
	}
	if meshVertexLayout.ArrayStride != uint64(model.VertexSize) {
		t.Errorf("vertex stride = %d, want %d", meshVertexLayout.ArrayStride, model.VertexSize)
	}
}

func TestLiveGeneration(t *testing.T) {
	var g liveGeneration
	g.current.Store(2)

	g.report(1)
	if g.lost.Load() {
		t.Error("a loss from a retired device must be ignored")
	}
	g.report(2)
	if !g.lost.Load() {
		t.Error("a loss from the live device must latch")
	}

	g.retire()
	if g.lost.Load() {
		t.Error("retire should clear a pending loss")
	}
	g.report(2)
	if g.lost.Load() {
		t.Error("a retired generation must not latch")
	}
}

func TestEnvironmentHandleRelease(t *testing.T) {
	owner := &renderContext{}
	other := &renderContext{}
	h := &environmentHandle{
		owner:      owner,
		generation: 3,
		label:      "left Environment 3",
		group:      bind_group_provider.NewBindGroupProvider("left Environment 3"),
	}
	if !h.usableBy(owner, 3) {
		t.Error("handle should be usable by its owner on its generation")
	}
	if h.usableBy(other, 3) {
		t.Error("handle must not be usable by another context")
	}
	if h.usableBy(owner, 4) {
		t.Error("handle must not be usable after a restore")
	}

	h.Release()
	h.Release()
	if h.usableBy(owner, 3) {
		t.Error("a released handle is not usable")
	}
}

func TestFactoryRequiresSurface(t *testing.T) {
	_, err := Factory(windowtest.NewFakeWindow())
	if !errors.Is(err, ErrNoSurface) {
		t.Errorf("Factory error = %v, want ErrNoSurface", err)
	}
}

type nilSurface struct{}

func (nilSurface) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (nilSurface) Width() int                                 { return 640 }
func (nilSurface) Height() int                                { return 720 }

func TestNewRenderContextWithoutDescriptor(t *testing.T) {
	_, err := NewRenderContext(nilSurface{})
	if !errors.Is(err, ErrNoSurface) {
		t.Errorf("NewRenderContext error = %v, want ErrNoSurface", err)
	}
}

func TestBuildEnvironmentMapDispatchesLatchedLoss(t *testing.T) {
	c := &renderContext{generation: 1}
	c.config.Label = "left"
	c.live.current.Store(1)
	lost := 0
	c.OnLost(func() { lost++ })

	c.live.report(1)
	_, err := c.BuildEnvironmentMap(envmap.NewRoomSource(1), envmap.DefaultQuality)
	if !errors.Is(err, renderer.ErrContextLost) {
		t.Fatalf("err = %v, want ErrContextLost", err)
	}
	if c.State() != renderer.StateLost {
		t.Errorf("state = %v, want lost", c.State())
	}
	if lost != 1 {
		t.Errorf("lost signals = %d, want 1", lost)
	}

	// The latch is consumed; a second build does not signal again.
	if _, err := c.BuildEnvironmentMap(envmap.NewRoomSource(1), envmap.DefaultQuality); !errors.Is(err, renderer.ErrContextLost) {
		t.Errorf("second build err = %v", err)
	}
	if lost != 1 {
		t.Errorf("lost signals after second build = %d, want 1", lost)
	}
}
