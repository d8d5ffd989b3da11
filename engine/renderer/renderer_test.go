package renderer

import "testing"

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig()
	if c.MSAA != MSAA4x || !c.Alpha {
		t.Errorf("defaults = %+v, want antialias and alpha on", c)
	}
	if c.EnvironmentFaceSize != 64 || c.PixelRatio != 1 {
		t.Errorf("defaults = %+v", c)
	}
}

func TestConfigOptions(t *testing.T) {
	c := NewConfig(
		WithLabel("left"),
		WithAntialias(false),
		WithAlpha(false),
		WithPresentMode(PresentModeUncapped),
		WithForceSoftwareRenderer(true),
		WithAutoRestore(true),
		WithEnvironmentFaceSize(0),
		WithPixelRatio(-1),
	)
	want := Config{
		Label:               "left",
		MSAA:                MSAAOff,
		Alpha:               false,
		PresentMode:         PresentModeUncapped,
		ForceSoftware:       true,
		AutoRestore:         true,
		EnvironmentFaceSize: 64,
		PixelRatio:          1,
	}
	if c != want {
		t.Errorf("config = %+v, want %+v", c, want)
	}
}

func TestSignalsOrderAndReentry(t *testing.T) {
	var s Signals
	var got []string
	s.OnLost(func() { got = append(got, "lost-1") })
	s.OnLost(func() {
		got = append(got, "lost-2")
		// Subscribing from inside a callback must not deadlock or run in this emission.
		s.OnLost(func() { got = append(got, "lost-3") })
	})
	s.OnRestored(func() { got = append(got, "restored") })
	s.OnLost(nil)

	s.EmitLost()
	s.EmitRestored()

	want := []string{"lost-1", "lost-2", "restored"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestContextStateString(t *testing.T) {
	if StateValid.String() != "valid" || StateLost.String() != "lost" {
		t.Errorf("unexpected names %q %q", StateValid, StateLost)
	}
}
