package render

import (
	"errors"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/volanim/state"
	"github.com/matt-g-everett/volanim/transform"
	"golang.org/x/image/math/f64"
)

func testVolume() *Volume {
	red, _ := colorful.Hex("#ff0000")
	green, _ := colorful.Hex("#00ff00")
	return &Volume{
		Channels: []ChannelInfo{
			{Min: 10, Max: 100, Color: red},
			{Min: 0, Max: 4095, Color: green},
		},
		VoxelSize: f64.Vec3{1, 1, 2},
		Width:     64,
		Height:    32,
		Depth:     16,
	}
}

type recorder struct {
	got []*Projection
	err error
}

func (r *recorder) Project(p *Projection) error {
	r.got = append(r.got, p)
	return r.err
}

func newTestRenderer(t *testing.T, p Projector) *Renderer {
	t.Helper()
	r, err := NewRenderer(testVolume(), p, 64, 32)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestDefaultState(t *testing.T) {
	r := newTestRenderer(t, &recorder{})
	s := r.RenderingState()

	if s.NumChannels() != 2 {
		t.Fatalf("channels = %d, want 2", s.NumChannels())
	}
	want := state.ChannelVector{10, 100, 1, 10, 100, 2, 1, 255, 0, 0}
	if got := s.ChannelProperties()[0]; got != want {
		t.Errorf("channel 0 = %v, want %v", got, want)
	}
	if got := s.ChannelColor(1).Hex(); got != "#00ff00" {
		t.Errorf("channel 1 colour = %s", got)
	}
	bb := s.NonChannelProperties()
	if bb[state.BoundingBoxXMax] != 64 || bb[state.BoundingBoxYMax] != 32 || bb[state.BoundingBoxZMax] != 16 {
		t.Errorf("bounding box = %v", bb)
	}
	if c := s.Transform().Center(); c != (f64.Vec3{32, 16, 16}) {
		t.Errorf("rotation center = %v, want (32, 16, 16)", c)
	}
}

func TestPrepareUnrotated(t *testing.T) {
	r := newTestRenderer(t, &recorder{})
	p, err := Prepare(r.RenderingState())
	if err != nil {
		t.Fatal(err)
	}
	if p.Forward != transform.Identity() || p.Inverse != transform.Identity() {
		t.Errorf("matching spacings should give identity transforms: %v", p.Forward)
	}
	// One output step along z is one input slice of physical depth 2.
	if p.OpacityCorrection != 2 {
		t.Errorf("opacity correction = %f, want 2", p.OpacityCorrection)
	}
	if p.SampleDepth != 2 {
		t.Errorf("sample depth = %f, want 2", p.SampleDepth)
	}
}

func TestPrepareRotatedAndZoomed(t *testing.T) {
	pd := f64.Vec3{1, 1, 1}
	tr := transform.New(pd, pd, f64.Vec3{8, 8, 8})
	tr.Rotate(f64.Vec3{0, 1, 0}, math.Pi/4)
	tr.SetScale(2)
	s := state.New(3, tr, 1)

	p, err := Prepare(s)
	if err != nil {
		t.Fatal(err)
	}
	// Rotation keeps step length; zoom 2 halves it in input space.
	if math.Abs(p.OpacityCorrection-0.5) > 1e-12 {
		t.Errorf("opacity correction = %f, want 0.5", p.OpacityCorrection)
	}
	if p.SampleDepth != 0.5 {
		t.Errorf("sample depth = %f, want 0.5", p.SampleDepth)
	}
	if p.Frame != 3 {
		t.Errorf("frame = %d, want 3", p.Frame)
	}
}

func TestPrepareDegenerate(t *testing.T) {
	tr := transform.New(f64.Vec3{1, 1, 0}, f64.Vec3{1, 1, 1}, f64.Vec3{})
	if _, err := Prepare(state.New(0, tr, 1)); !errors.Is(err, transform.ErrDegenerate) {
		t.Fatalf("err = %v, want ErrDegenerate", err)
	}
	if _, err := Prepare(state.New(0, nil, 1)); !errors.Is(err, ErrNoTransform) {
		t.Fatalf("err = %v, want ErrNoTransform", err)
	}
}

func TestRenderDoesNotProjectDegenerate(t *testing.T) {
	rec := &recorder{}
	r := newTestRenderer(t, rec)
	kf := r.RenderingState()
	kf.Transform().SetScale(0)
	if _, err := r.Render(kf); !errors.Is(err, transform.ErrDegenerate) {
		t.Fatalf("err = %v, want ErrDegenerate", err)
	}
	if len(rec.got) != 0 {
		t.Error("degenerate frame was projected")
	}
}

func TestRenderRefreshesLiveStateFromCopy(t *testing.T) {
	rec := &recorder{}
	r := newTestRenderer(t, rec)

	kf := r.RenderingState().CloneAt(7)
	kf.SetChannelProperty(0, state.Weight, 0.5)
	p, err := r.Render(kf)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.got) != 1 || rec.got[0] != p {
		t.Fatalf("projector calls = %d", len(rec.got))
	}
	if p.Channels[0][state.Weight] != 0.5 {
		t.Errorf("projected weight = %f", p.Channels[0][state.Weight])
	}

	live := r.RenderingState()
	if live.Frame() != 7 || live.ChannelProperty(0, state.Weight) != 0.5 {
		t.Errorf("live state = frame %d weight %f", live.Frame(), live.ChannelProperty(0, state.Weight))
	}

	kf.SetChannelProperty(0, state.Weight, 0.1)
	p.Channels[0][state.Weight] = 0.2
	if r.RenderingState().ChannelProperty(0, state.Weight) != 0.5 {
		t.Error("live state aliases the rendered keyframe or projection")
	}
}

func TestRenderProjectorError(t *testing.T) {
	boom := errors.New("boom")
	r := newTestRenderer(t, &recorder{err: boom})
	if _, err := r.Render(r.RenderingState()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestSetTargetSize(t *testing.T) {
	rec := &recorder{}
	r := newTestRenderer(t, rec)
	if err := r.SetTargetSize(128, 16); err != nil {
		t.Fatal(err)
	}
	if w, h := r.TargetSize(); w != 128 || h != 16 {
		t.Errorf("TargetSize = %dx%d", w, h)
	}
	want := f64.Vec3{0.5, 2, 2}
	if got := r.RenderingState().Transform().OutputSpacing(); got != want {
		t.Errorf("output spacing = %v, want %v", got, want)
	}

	// Keyframes resolved before the size change render at the new spacing.
	kf := state.New(0, transform.New(f64.Vec3{1, 1, 2}, f64.Vec3{1, 1, 2}, f64.Vec3{32, 16, 16}), 2)
	p, err := r.Render(kf)
	if err != nil {
		t.Fatal(err)
	}
	if p.Forward[0] != 2 || p.Forward[5] != 0.5 {
		t.Errorf("forward scale = %f, %f, want 2, 0.5", p.Forward[0], p.Forward[5])
	}
	if kf.Transform().OutputSpacing() != (f64.Vec3{1, 1, 2}) {
		t.Error("Render modified the keyframe's transform")
	}

	if err := r.SetTargetSize(0, 10); err == nil {
		t.Error("zero width accepted")
	}
}

func TestResetRestoresChannelSettings(t *testing.T) {
	r := newTestRenderer(t, &recorder{})
	kf := r.RenderingState()
	kf.SetChannelProperty(1, state.AlphaGamma, 9)
	if _, err := r.Render(kf); err != nil {
		t.Fatal(err)
	}
	r.Reset()
	if got := r.RenderingState().ChannelProperty(1, state.AlphaGamma); got != 2 {
		t.Errorf("alpha gamma after reset = %f, want 2", got)
	}
}

func TestSetTimelapseIndex(t *testing.T) {
	v := testVolume()
	var rebinds []int
	v.OnTimepoint = func(t int) { rebinds = append(rebinds, t) }

	r, err := NewRenderer(v, &recorder{}, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	r.SetTimelapseIndex(1)
	if len(rebinds) != 0 {
		t.Fatalf("single time step volume rebound: %v", rebinds)
	}

	v.Timepoints = 3
	r.SetTimelapseIndex(2)
	r.SetTimelapseIndex(2)
	r.SetTimelapseIndex(5)
	if len(rebinds) != 1 || rebinds[0] != 2 || v.Timepoint() != 2 {
		t.Errorf("rebinds = %v, timepoint = %d", rebinds, v.Timepoint())
	}
}

func TestDefaultIgnoresRenderedFrames(t *testing.T) {
	r := newTestRenderer(t, &recorder{})
	if err := r.SetTargetSize(32, 32); err != nil {
		t.Fatal(err)
	}
	kf := r.RenderingState()
	kf.Transform().SetScale(3)
	kf.SetChannelProperty(0, state.IntensityMax, 1)
	if _, err := r.Render(kf); err != nil {
		t.Fatal(err)
	}

	d := r.Default()
	if d.Transform().Scale() != 1 || d.ChannelProperty(0, state.IntensityMax) != 100 {
		t.Errorf("default = scale %f max %f", d.Transform().Scale(), d.ChannelProperty(0, state.IntensityMax))
	}
	if got := d.Transform().OutputSpacing(); got != (f64.Vec3{2, 1, 2}) {
		t.Errorf("default output spacing = %v, want (2, 1, 2)", got)
	}
}
