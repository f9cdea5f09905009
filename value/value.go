// Package value provides the target of an animated property: either a
// literal number or a macro evaluated per frame.
package value

import (
	"fmt"
	"math"

	"github.com/matt-g-everett/volanim/util"
)

// An Evaluator computes a macro value for frame within the animation range
// [from, to]. Implementations must be pure.
type Evaluator interface {
	Evaluate(frame, from, to int) float64
}

// EvaluatorFunc adapts a function to an Evaluator.
type EvaluatorFunc func(frame, from, to int) float64

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(frame, from, to int) float64 {
	return f(frame, from, to)
}

// Source is either a Literal or a Macro.
type Source struct {
	literal float64
	macro   Evaluator
}

// Literal returns a Source holding v.
func Literal(v float64) Source {
	return Source{literal: v}
}

// Macro returns a Source deferring to e.
func Macro(e Evaluator) Source {
	if e == nil {
		panic("value: nil macro evaluator")
	}
	return Source{macro: e}
}

// IsMacro reports whether s is a macro.
func (s Source) IsMacro() bool {
	return s.macro != nil
}

// Value returns the literal value. It panics for macros.
func (s Source) Value() float64 {
	if s.macro != nil {
		panic("value: Value called on a macro source")
	}
	return s.literal
}

// Evaluate evaluates the macro. It panics for literals.
func (s Source) Evaluate(frame, from, to int) float64 {
	if s.macro == nil {
		panic("value: Evaluate called on a literal source")
	}
	return s.macro.Evaluate(frame, from, to)
}

// Resolve returns the literal value or the macro evaluation.
func (s Source) Resolve(frame, from, to int) float64 {
	if s.macro != nil {
		return s.macro.Evaluate(frame, from, to)
	}
	return s.literal
}

func (s Source) String() string {
	if s.macro != nil {
		return fmt.Sprintf("macro(%T)", s.macro)
	}
	return fmt.Sprintf("%g", s.literal)
}

// Progress is the normalised position of frame in [from, to], clamped to
// [0, 1]. A single-frame range is complete.
func Progress(frame, from, to int) float64 {
	if to <= from {
		return 1
	}
	p := float64(frame-from) / float64(to-from)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Constant is a macro that always yields v.
func Constant(v float64) Evaluator {
	return EvaluatorFunc(func(int, int, int) float64 { return v })
}

// Ramp is the macro frame / to. It yields 0 when to is 0.
func Ramp() Evaluator {
	return EvaluatorFunc(func(frame, _, to int) float64 {
		if to == 0 {
			return 0
		}
		return float64(frame) / float64(to)
	})
}

// Ease is a macro that moves from a to b along curve over the animation range.
func Ease(a, b float64, curve util.Curve) Evaluator {
	return EvaluatorFunc(func(frame, from, to int) float64 {
		return a + (b-a)*curve(Progress(frame, from, to))
	})
}

// Oscillate is a macro that swings around mid by amp with the given period
// in frames, starting at mid on the first frame of the range.
func Oscillate(mid, amp float64, period int) Evaluator {
	return EvaluatorFunc(func(frame, from, _ int) float64 {
		if period <= 0 {
			return mid
		}
		return mid + amp*math.Sin(2*math.Pi*float64(frame-from)/float64(period))
	})
}
