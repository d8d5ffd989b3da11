package bind_group_provider

import "testing"

func TestNewBindGroupProviderKeepsLabel(t *testing.T) {
	p := NewBindGroupProvider("left/box")
	if p.Label() != "left/box" {
		t.Errorf("label = %q, want left/box", p.Label())
	}
	if p.BindGroup() != nil || p.Buffer(0) != nil || p.VertexBuffer() != nil {
		t.Error("a new provider holds no GPU objects")
	}
}

func TestReleaseEmptyProviderTwice(t *testing.T) {
	p := NewBindGroupProvider("empty", WithBuffer(0, nil), WithSampler(1, nil))
	p.SetMesh(nil, 4, nil, 6)
	if p.VertexCount() != 4 || p.IndexCount() != 6 {
		t.Errorf("counts = %d/%d, want 4/6", p.VertexCount(), p.IndexCount())
	}
	p.Release()
	p.Release()
	if p.IndexCount() != 0 || p.VertexCount() != 0 {
		t.Error("Release should reset the element counts")
	}
}
