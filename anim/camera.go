package anim

import (
	"fmt"

	"github.com/matt-g-everett/volanim/state"
	"github.com/matt-g-everett/volanim/transform"
	"github.com/matt-g-everett/volanim/util"
	"github.com/matt-g-everett/volanim/value"
	"golang.org/x/image/math/f64"
)

// A Rotate turns the camera by angle radians about axis over its range,
// starting from the rotation at the first frame.
type Rotate struct {
	span
	axis  f64.Vec3
	angle float64
	curve util.Curve
}

// NewRotate creates a Rotate over [from, to]. A nil curve means linear.
func NewRotate(from, to int, axis f64.Vec3, angle float64, curve util.Curve) (*Rotate, error) {
	sp, err := newSpan(from, to)
	if err != nil {
		return nil, err
	}
	if axis == (f64.Vec3{}) {
		return nil, fmt.Errorf("%w: zero rotation axis", ErrMalformed)
	}
	if curve == nil {
		curve = func(t float64) float64 { return t }
	}
	return &Rotate{span: sp, axis: axis, angle: angle, curve: curve}, nil
}

// Apply sets the camera rotation of current.
func (r *Rotate) Apply(current *state.RenderingState, history History) error {
	t := current.Frame()
	if !r.active(t) {
		return nil
	}
	tr := current.Transform()
	if tr == nil {
		return fmt.Errorf("rotate at frame %d: state has no transform", t)
	}
	from, err := r.start(current, history)
	if err != nil {
		return err
	}
	base := from.Transform().Rotation()
	p := r.curve(value.Progress(t, r.from, r.to))
	tr.SetRotation(transform.Mul(transform.AxisAngle(r.axis, r.angle*p), base))
	return nil
}

// A Zoom animates the camera zoom. A macro target sets the zoom directly.
type Zoom struct {
	span
	target value.Source
}

// NewZoom creates a Zoom over [from, to].
func NewZoom(from, to int, target value.Source) (*Zoom, error) {
	sp, err := newSpan(from, to)
	if err != nil {
		return nil, err
	}
	return &Zoom{span: sp, target: target}, nil
}

// Apply sets the camera zoom of current.
func (z *Zoom) Apply(current *state.RenderingState, history History) error {
	t := current.Frame()
	if !z.active(t) {
		return nil
	}
	tr := current.Transform()
	if tr == nil {
		return fmt.Errorf("zoom at frame %d: state has no transform", t)
	}
	if z.target.IsMacro() {
		tr.SetScale(z.target.Evaluate(t, z.from, z.to))
		return nil
	}
	from, err := z.start(current, history)
	if err != nil {
		return err
	}
	tr.SetScale(z.interpolate(t, from.Transform().Scale(), z.target.Value()))
	return nil
}
