package state

import (
	"encoding/json"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/volanim/transform"
	"golang.org/x/image/math/f64"
)

func newTestState(nChannels int) *RenderingState {
	pd := f64.Vec3{1, 1, 2}
	return New(3, transform.New(pd, pd, f64.Vec3{32, 32, 16}), nChannels)
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestPropertyAccess(t *testing.T) {
	s := newTestState(2)
	s.SetNonChannelProperty(Far, 12)
	s.SetChannelProperty(1, IntensityMax, 200)
	s.SetProperty(NonChannel, Near, -4)
	s.SetProperty(0, Weight, 0.5)

	if got := s.NonChannelProperty(Far); got != 12 {
		t.Errorf("Far = %f, want 12", got)
	}
	if got := s.Property(NonChannel, Near); got != -4 {
		t.Errorf("Near = %f, want -4", got)
	}
	if got := s.ChannelProperty(1, IntensityMax); got != 200 {
		t.Errorf("IntensityMax = %f, want 200", got)
	}
	if got := s.Property(0, Weight); got != 0.5 {
		t.Errorf("Weight = %f, want 0.5", got)
	}
	if got := s.ChannelProperty(0, IntensityMax); got != 0 {
		t.Errorf("channel 0 IntensityMax = %f, want untouched 0", got)
	}
}

func TestOutOfRangePanics(t *testing.T) {
	s := newTestState(2)
	expectPanic(t, "non-channel high", func() { s.NonChannelProperty(NumNonChannelProperties) })
	expectPanic(t, "non-channel negative", func() { s.SetNonChannelProperty(-1, 0) })
	expectPanic(t, "channel high", func() { s.ChannelProperty(2, Weight) })
	expectPanic(t, "channel negative", func() { s.SetChannelProperty(-1, Weight, 0) })
	expectPanic(t, "channel property high", func() { s.ChannelProperty(0, NumChannelProperties) })
	expectPanic(t, "sentinel below NonChannel", func() { s.Property(-2, 0) })
	expectPanic(t, "negative channel count", func() { New(0, nil, -1) })
}

func TestCloneIsDeep(t *testing.T) {
	s := newTestState(2)
	s.SetChannelProperty(0, AlphaMax, 7)
	s.SetNonChannelProperty(BoundingBoxXMax, 63)

	c := s.Clone()
	if c.Frame() != s.Frame() {
		t.Fatalf("Clone frame = %d, want %d", c.Frame(), s.Frame())
	}
	c.SetChannelProperty(0, AlphaMax, 99)
	c.SetNonChannelProperty(BoundingBoxXMax, 1)
	c.Transform().SetScale(4)

	if s.ChannelProperty(0, AlphaMax) != 7 || s.NonChannelProperty(BoundingBoxXMax) != 63 {
		t.Error("clone aliases property storage")
	}
	if s.Transform().Scale() != 1 {
		t.Error("clone aliases transform")
	}

	at := s.CloneAt(10)
	if at.Frame() != 10 || at.ChannelProperty(0, AlphaMax) != 7 {
		t.Errorf("CloneAt(10) = frame %d alphaMax %f", at.Frame(), at.ChannelProperty(0, AlphaMax))
	}
}

func TestSetFromKeepsIdentity(t *testing.T) {
	live := newTestState(2)
	tr := live.Transform()

	src := newTestState(2).CloneAt(8)
	src.SetChannelProperty(1, ColorGreen, 255)
	src.Transform().SetScale(2)

	live.SetFrom(src)
	if live.Transform() != tr {
		t.Fatal("SetFrom replaced the transform pointer")
	}
	if live.Frame() != 8 || live.ChannelProperty(1, ColorGreen) != 255 || tr.Scale() != 2 {
		t.Errorf("SetFrom did not copy: frame %d green %f scale %f", live.Frame(), live.ChannelProperty(1, ColorGreen), tr.Scale())
	}

	src.SetChannelProperty(1, ColorGreen, 0)
	if live.ChannelProperty(1, ColorGreen) != 255 {
		t.Error("SetFrom aliases source storage")
	}

	expectPanic(t, "channel mismatch", func() { live.SetFrom(newTestState(3)) })
}

func TestReadOnlyCopies(t *testing.T) {
	s := newTestState(1)
	s.SetChannelProperty(0, Weight, 1)
	cp := s.ChannelProperties()
	cp[0][Weight] = 5
	nc := s.NonChannelProperties()
	nc[Near] = 5
	if s.ChannelProperty(0, Weight) != 1 || s.NonChannelProperty(Near) != 0 {
		t.Error("property copies alias the state")
	}
}

func TestChannelColor(t *testing.T) {
	s := newTestState(1)
	c, _ := colorful.Hex("#ff8000")
	s.SetChannelColor(0, c)
	if s.ChannelProperty(0, ColorRed) != 255 || s.ChannelProperty(0, ColorGreen) != 128 || s.ChannelProperty(0, ColorBlue) != 0 {
		t.Fatalf("colour slots = %v", s.ChannelProperties()[0])
	}
	if got := s.ChannelColor(0).Hex(); got != "#ff8000" {
		t.Errorf("ChannelColor = %s, want #ff8000", got)
	}
}

func TestMarshalJSON(t *testing.T) {
	s := newTestState(1)
	s.SetChannelProperty(0, IntensityMax, 100)
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Frame     int `json:"frame"`
		Transform struct {
			InputSpacing []float64 `json:"inputSpacing"`
		} `json:"transform"`
		Channels [][]float64 `json:"channels"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if out.Frame != 3 || out.Channels[0][IntensityMax] != 100 || out.Transform.InputSpacing[2] != 2 {
		t.Errorf("unexpected JSON %s", b)
	}
}
