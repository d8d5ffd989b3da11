package light

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestPackUniform(t *testing.T) {
	lights := []Light{
		NewLight(LightTypeAmbient, WithIntensity(0.5)),
		NewLight(LightTypeAmbient, WithColor(1, 0, 0), WithIntensity(0.5)),
		NewLight(LightTypeDirectional, WithDirection(0, -2, 0), WithIntensity(2), WithCastsShadows(true)),
		NewLight(LightTypeDirectional, WithDirection(1, 0, 0)),
		NewLight(LightTypeAmbient, WithEnabled(false)),
	}
	u := PackUniform(lights)

	if u.Ambient != [3]float32{1, 0.5, 0.5} {
		t.Errorf("ambient = %v, want [1 0.5 0.5]", u.Ambient)
	}
	if u.HasDirectional != 1 || u.CastsShadows != 1 {
		t.Errorf("directional flags = (%d, %d), want (1, 1)", u.HasDirectional, u.CastsShadows)
	}
	if u.Direction != [3]float32{0, -1, 0} {
		t.Errorf("direction = %v, want first light normalized", u.Direction)
	}
	if u.Color != [3]float32{2, 2, 2} {
		t.Errorf("color = %v, want [2 2 2]", u.Color)
	}
}

func TestMarshalLayout(t *testing.T) {
	u := GPULightUniform{Ambient: [3]float32{1, 2, 3}, HasDirectional: 1, Direction: [3]float32{0, -1, 0}, Color: [3]float32{4, 5, 6}}
	buf := u.Marshal()
	if len(buf) != 48 {
		t.Fatalf("len = %d, want 48", len(buf))
	}
	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	if f(0) != 1 || f(8) != 3 || f(20) != -1 || f(40) != 6 {
		t.Errorf("unexpected layout: %v %v %v %v", f(0), f(8), f(20), f(40))
	}
	if binary.LittleEndian.Uint32(buf[12:]) != 1 {
		t.Error("HasDirectional not at offset 12")
	}
}

func TestShadowLight(t *testing.T) {
	if _, ok := ShadowLight([]Light{NewLight(LightTypeDirectional)}); ok {
		t.Error("non-casting light reported as shadow light")
	}
	v, ok := ShadowLight([]Light{NewLight(LightTypeDirectional, WithDirection(0, -1, 0), WithCastsShadows(true))})
	if !ok || v != [4]float32{0, 1, 0, 0} {
		t.Errorf("ShadowLight = (%v, %v), want ([0 1 0 0], true)", v, ok)
	}
}

func TestAmbientNeverCastsShadows(t *testing.T) {
	if NewLight(LightTypeAmbient, WithCastsShadows(true)).CastsShadows() {
		t.Error("ambient light casts shadows")
	}
}
