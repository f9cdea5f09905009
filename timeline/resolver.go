package timeline

import (
	"fmt"

	"github.com/matt-g-everett/volanim/anim"
	"github.com/matt-g-everett/volanim/state"
	"github.com/matt-g-everett/volanim/util"
)

// Resolver produces the rendering state of a frame by applying every
// registered animation, in registration order, to a copy of the previous
// frame's state.
type Resolver struct {
	base       *state.RenderingState
	history    *History
	animations []anim.Animation
}

// NewResolver creates a Resolver whose frame 0 starts from a copy of base.
func NewResolver(base *state.RenderingState) *Resolver {
	r := new(Resolver)
	r.base = base.CloneAt(0)
	r.history = new(History)
	return r
}

// Add registers animations. Later animations win where they overlap
// earlier ones on the same property.
func (r *Resolver) Add(animations ...anim.Animation) {
	r.animations = append(r.animations, animations...)
}

// Animations returns the registered animations in order.
func (r *Resolver) Animations() []anim.Animation {
	return append([]anim.Animation(nil), r.animations...)
}

// History returns the store of resolved states.
func (r *Resolver) History() *History {
	return r.history
}

// Base returns a copy of the state frame 0 starts from.
func (r *Resolver) Base() *state.RenderingState {
	return r.base.Clone()
}

// Rebase replaces the base state and discards all resolved frames.
func (r *Resolver) Rebase(base *state.RenderingState) {
	r.base = base.CloneAt(0)
	r.history.reset()
}

// Resolve returns the rendering state of frame t. Frames must be resolved in
// increasing order the first time; frames already resolved are recomputed
// from their predecessor, which yields an identical state. The returned
// state is a copy the caller may keep or mutate.
func (r *Resolver) Resolve(t int) (*state.RenderingState, error) {
	if t < 0 {
		return nil, fmt.Errorf("resolve frame %d: %w", t, ErrFrameRange)
	}
	n := r.history.Len()
	if t > n {
		return nil, fmt.Errorf("resolve frame %d with %d frames resolved: %w", t, n, ErrHistoryGap)
	}

	var prev *state.RenderingState
	if t == 0 {
		prev = r.base
	} else {
		var err error
		if prev, err = r.history.At(t - 1); err != nil {
			return nil, err
		}
	}

	working := prev.CloneAt(t)
	for _, a := range r.animations {
		if t < a.FromFrame() || t > a.ToFrame() {
			continue
		}
		if err := a.Apply(working, r.history); err != nil {
			return nil, fmt.Errorf("resolve frame %d: %w", t, err)
		}
	}

	if t == n {
		r.history.append(working)
		util.Logger().Debug("resolved frame", "frame", t, "animations", len(r.animations))
		return working.Clone(), nil
	}
	return working, nil
}

// ResolveRange resolves the frames [from, to] in order, calling fn with each
// state. It stops at the first error.
func (r *Resolver) ResolveRange(from, to int, fn func(*state.RenderingState) error) error {
	for t := from; t <= to; t++ {
		s, err := r.Resolve(t)
		if err != nil {
			return err
		}
		if fn != nil {
			if err := fn(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// ResolveAll resolves every frame up to and including last that has not
// been resolved yet.
func (r *Resolver) ResolveAll(last int) error {
	return r.ResolveRange(r.history.Len(), last, nil)
}
