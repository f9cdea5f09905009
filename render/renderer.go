// Package render turns resolved rendering states into the arguments of the
// raycasting backend.
package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/matt-g-everett/volanim/state"
	"github.com/matt-g-everett/volanim/transform"
	"github.com/matt-g-everett/volanim/util"
	"golang.org/x/image/math/f64"
)

// ErrNoTransform is returned for states without a transform.
var ErrNoTransform = errors.New("rendering state has no transform")

// Projection holds everything the backend needs to render one frame.
type Projection struct {
	Frame             int
	Forward           f64.Mat4
	Inverse           f64.Mat4
	Channels          []state.ChannelVector
	NonChannel        state.NonChannelVector
	OpacityCorrection float64
	// SampleDepth is the step length along the ray.
	SampleDepth float64
}

// A Projector renders a Projection. The image stays with the backend.
type Projector interface {
	Project(p *Projection) error
}

// ProjectorFunc adapts a function to a Projector.
type ProjectorFunc func(p *Projection) error

// Project calls f.
func (f ProjectorFunc) Project(p *Projection) error {
	return f(p)
}

// Prepare derives the backend arguments from a resolved state. It fails if
// the state's transform cannot be inverted.
func Prepare(kf *state.RenderingState) (*Projection, error) {
	tr := kf.Transform()
	if tr == nil {
		return nil, fmt.Errorf("frame %d: %w", kf.Frame(), ErrNoTransform)
	}
	fwd := tr.Forward()
	inv, err := transform.Inverse(fwd)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", kf.Frame(), err)
	}

	// Opacity correction: one output step along z is (inv[2], inv[6], inv[10])
	// in input pixels. Its physical length relative to the reference input
	// spacing pdIn[0] scales the per-sample opacity.
	pdIn := tr.InputSpacing()
	dx := pdIn[0] * inv[2]
	dy := pdIn[1] * inv[6]
	dz := pdIn[2] * inv[10]
	alphacorr := math.Sqrt(dx*dx+dy*dy+dz*dz) / pdIn[0]

	return &Projection{
		Frame:             kf.Frame(),
		Forward:           fwd,
		Inverse:           inv,
		Channels:          kf.ChannelProperties(),
		NonChannel:        kf.NonChannelProperties(),
		OpacityCorrection: alphacorr,
		SampleDepth:       tr.OutputSpacing()[2] / tr.Scale(),
	}, nil
}

// Renderer adapts resolved states to a Projector for one host Source.
type Renderer struct {
	src       Source
	projector Projector
	rs        *state.RenderingState
	width     int
	height    int
}

// NewRenderer creates a Renderer with the default rendering state of src
// and a target size of w×h.
func NewRenderer(src Source, projector Projector, w, h int) (*Renderer, error) {
	r := new(Renderer)
	r.src = src
	r.projector = projector
	pd := src.Spacing()
	r.rs = r.defaultState(pd)
	if err := r.SetTargetSize(w, h); err != nil {
		return nil, err
	}
	return r, nil
}

// defaultState builds frame 0 from the source: the full volume as bounding
// box, rotation about the volume center, and the source's channel settings.
func (r *Renderer) defaultState(pdOut f64.Vec3) *state.RenderingState {
	pdIn := r.src.Spacing()
	vw, vh, vd := r.src.Size()
	center := f64.Vec3{
		float64(vw) * pdIn[0] / 2,
		float64(vh) * pdIn[1] / 2,
		float64(vd) * pdIn[2] / 2,
	}

	s := state.New(0, transform.New(pdIn, pdOut, center), r.src.NumChannels())
	s.SetNonChannelProperty(state.BoundingBoxXMax, float64(vw))
	s.SetNonChannelProperty(state.BoundingBoxYMax, float64(vh))
	s.SetNonChannelProperty(state.BoundingBoxZMax, float64(vd))
	resetChannels(s, r.src)
	return s
}

func resetChannels(s *state.RenderingState, src Source) {
	for c := 0; c < src.NumChannels(); c++ {
		min, max := src.Window(c)
		s.SetChannelProperty(c, state.IntensityMin, min)
		s.SetChannelProperty(c, state.IntensityMax, max)
		s.SetChannelProperty(c, state.IntensityGamma, 1)
		s.SetChannelProperty(c, state.AlphaMin, min)
		s.SetChannelProperty(c, state.AlphaMax, max)
		s.SetChannelProperty(c, state.AlphaGamma, 2)
		s.SetChannelProperty(c, state.Weight, 1)
		s.SetChannelColor(c, src.Color(c))
	}
}

// Reset restores the channel settings of the live state from the source.
func (r *Renderer) Reset() {
	resetChannels(r.rs, r.src)
}

// Default returns a fresh default state at the current output spacing,
// suitable as the base of a timeline.
func (r *Renderer) Default() *state.RenderingState {
	return r.defaultState(r.rs.Transform().OutputSpacing())
}

// RenderingState returns a copy of the state last rendered, or the default
// state before the first frame.
func (r *Renderer) RenderingState() *state.RenderingState {
	return r.rs.Clone()
}

// Source returns the host source.
func (r *Renderer) Source() Source {
	return r.src
}

// Render prepares kf at the renderer's current output spacing and passes it
// to the projector. kf itself is not modified.
func (r *Renderer) Render(kf *state.RenderingState) (*Projection, error) {
	working := kf.Clone()
	if tr := working.Transform(); tr != nil {
		tr.SetOutputSpacing(r.rs.Transform().OutputSpacing())
	}
	p, err := Prepare(working)
	if err != nil {
		util.Logger().Warn("frame not rendered", "frame", kf.Frame(), "err", err)
		return nil, err
	}

	r.rs.SetFrom(working)
	util.Logger().Debug("projecting frame", "frame", p.Frame,
		"opacityCorrection", p.OpacityCorrection, "sampleDepth", p.SampleDepth)
	if err := r.projector.Project(p); err != nil {
		return p, fmt.Errorf("project frame %d: %w", p.Frame, err)
	}
	return p, nil
}

// SetTargetSize sets the output image size. The output pixel spacing is
// recomputed so that the volume fills w×h; the depth spacing is kept.
func (r *Renderer) SetTargetSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid target size %dx%d", w, h)
	}
	vw, vh, _ := r.src.Size()
	pdIn := r.src.Spacing()
	tr := r.rs.Transform()
	pdOut := f64.Vec3{
		float64(vw) * pdIn[0] / float64(w),
		float64(vh) * pdIn[1] / float64(h),
		tr.OutputSpacing()[2],
	}
	tr.SetOutputSpacing(pdOut)
	r.width, r.height = w, h
	return nil
}

// TargetSize returns the output image size.
func (r *Renderer) TargetSize() (w, h int) {
	return r.width, r.height
}

// SetTimelapseIndex selects the time step of the source, if it has more than one.
func (r *Renderer) SetTimelapseIndex(t int) {
	if r.src.NumTimepoints() > 1 {
		r.src.SetTimepoint(t)
	}
}
