package anim

import (
	"fmt"

	"github.com/matt-g-everett/volanim/state"
	"github.com/matt-g-everett/volanim/value"
)

// A Change animates one or more properties of a single channel (or the
// non-channel properties) towards target values.
//
// For a frame t in range, each property is either set to its macro's
// evaluation at t, or linearly interpolated from its value at the first
// frame to its literal target.
type Change struct {
	span
	channel     int
	indices     []int
	targets     []value.Source
	stopAtMacro bool
}

// A ChangeOption configures a Change.
type ChangeOption func(*Change)

// StopAtMacro makes Apply stop after the first macro target of a frame,
// leaving later properties of the same Change untouched.
func StopAtMacro() ChangeOption {
	return func(c *Change) { c.stopAtMacro = true }
}

// NewChange creates a Change over [from, to]. channel is a channel index or
// state.NonChannel. indices and targets pair up one-to-one.
func NewChange(from, to, channel int, indices []int, targets []value.Source, opts ...ChangeOption) (*Change, error) {
	sp, err := newSpan(from, to)
	if err != nil {
		return nil, err
	}
	if len(indices) == 0 || len(indices) != len(targets) {
		return nil, fmt.Errorf("%w: %d property indices for %d targets", ErrMalformed, len(indices), len(targets))
	}
	for _, idx := range indices {
		if err := checkTarget(channel, idx); err != nil {
			return nil, err
		}
	}

	c := &Change{
		span:    sp,
		channel: channel,
		indices: append([]int(nil), indices...),
		targets: append([]value.Source(nil), targets...),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// NewSingleChange creates a Change of one property.
func NewSingleChange(from, to, channel, idx int, target value.Source, opts ...ChangeOption) (*Change, error) {
	return NewChange(from, to, channel, []int{idx}, []value.Source{target}, opts...)
}

// Channel returns the animated channel, or state.NonChannel.
func (c *Change) Channel() int {
	return c.channel
}

// Indices returns the animated property indices.
func (c *Change) Indices() []int {
	return append([]int(nil), c.indices...)
}

// Apply writes the contribution of c to current.
func (c *Change) Apply(current *state.RenderingState, history History) error {
	t := current.Frame()
	if !c.active(t) {
		return nil
	}

	var from *state.RenderingState
	for i, idx := range c.indices {
		target := c.targets[i]
		if target.IsMacro() {
			current.SetProperty(c.channel, idx, target.Evaluate(t, c.from, c.to))
			if c.stopAtMacro {
				return nil
			}
			continue
		}

		if from == nil {
			var err error
			if from, err = c.start(current, history); err != nil {
				return err
			}
		}
		vFrom := from.Property(c.channel, idx)
		current.SetProperty(c.channel, idx, c.interpolate(t, vFrom, target.Value()))
	}
	return nil
}
