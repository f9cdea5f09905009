// Package anim implements the animations that contribute to a frame's
// rendering state.
package anim

import (
	"errors"
	"fmt"

	"github.com/matt-g-everett/volanim/state"
)

// ErrMalformed is returned when an animation is constructed with
// inconsistent arguments.
var ErrMalformed = errors.New("malformed animation")

// History gives read access to previously resolved states by frame.
type History interface {
	At(frame int) (*state.RenderingState, error)
}

// An Animation contributes to the rendering state of the frames in
// [FromFrame, ToFrame]. Apply mutates current, whose frame is the one being
// resolved; history holds the states of all earlier frames.
//
// The set of animations is closed to this package.
type Animation interface {
	FromFrame() int
	ToFrame() int
	Apply(current *state.RenderingState, history History) error
	sealed()
}

type span struct {
	from int
	to   int
}

func newSpan(from, to int) (span, error) {
	if from < 0 || to < from {
		return span{}, fmt.Errorf("%w: frame range [%d, %d]", ErrMalformed, from, to)
	}
	return span{from: from, to: to}, nil
}

// FromFrame returns the first frame the animation affects.
func (s span) FromFrame() int { return s.from }

// ToFrame returns the last frame the animation affects.
func (s span) ToFrame() int { return s.to }

func (span) sealed() {}

func (s span) active(t int) bool {
	return t >= s.from && t <= s.to
}

// interpolate linearly between vFrom at the first frame and vTo at the last.
// The last frame yields vTo exactly.
func (s span) interpolate(t int, vFrom, vTo float64) float64 {
	if t >= s.to {
		return vTo
	}
	return vFrom + (vTo-vFrom)*float64(t-s.from)/float64(s.to-s.from)
}

// start returns the state holding the values the animation starts from: the
// working state itself on the first frame, the resolved state of the first
// frame afterwards.
func (s span) start(current *state.RenderingState, history History) (*state.RenderingState, error) {
	if current.Frame() == s.from {
		return current, nil
	}
	kf, err := history.At(s.from)
	if err != nil {
		return nil, fmt.Errorf("animation [%d, %d] at frame %d: %w", s.from, s.to, current.Frame(), err)
	}
	return kf, nil
}

func checkTarget(channel, idx int) error {
	switch {
	case channel < state.NonChannel:
		return fmt.Errorf("%w: channel %d", ErrMalformed, channel)
	case channel == state.NonChannel && (idx < 0 || idx >= state.NumNonChannelProperties):
		return fmt.Errorf("%w: non-channel property %d", ErrMalformed, idx)
	case channel >= 0 && (idx < 0 || idx >= state.NumChannelProperties):
		return fmt.Errorf("%w: channel property %d", ErrMalformed, idx)
	}
	return nil
}
