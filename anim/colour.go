package anim

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/volanim/state"
	"github.com/matt-g-everett/volanim/value"
)

// A Stop is one colour of a Gradient at a position in [0, 1].
type Stop struct {
	Pos   float64
	Color colorful.Color
}

// Gradient is a list of stops in ascending position, blended in HCL.
type Gradient []Stop

// Color gets the colour at t. Before the first stop the colour blends from
// start; past the last stop it is the last stop's colour.
func (g Gradient) Color(t float64, start colorful.Color) colorful.Color {
	if t <= g[0].Pos {
		if g[0].Pos <= 0 {
			return g[0].Color
		}
		return start.BlendHcl(g[0].Color, t/g[0].Pos).Clamped()
	}
	for i := 0; i < len(g)-1; i++ {
		c1 := g[i]
		c2 := g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			return c1.Color.BlendHcl(c2.Color, (t-c1.Pos)/(c2.Pos-c1.Pos)).Clamped()
		}
	}
	return g[len(g)-1].Color
}

func (g Gradient) validate() error {
	if len(g) == 0 {
		return fmt.Errorf("%w: empty gradient", ErrMalformed)
	}
	prev := 0.0
	for i, s := range g {
		if s.Pos < prev || s.Pos > 1 {
			return fmt.Errorf("%w: gradient stop %d at %g", ErrMalformed, i, s.Pos)
		}
		prev = s.Pos
	}
	return nil
}

// A ColorFade moves the display colour of a channel along a gradient.
type ColorFade struct {
	span
	channel  int
	gradient Gradient
}

// NewColorFade creates a ColorFade over [from, to]. Stops must be ordered
// within [0, 1]; a first stop after 0 fades in from the channel's colour at
// the first frame.
func NewColorFade(from, to, channel int, gradient Gradient) (*ColorFade, error) {
	sp, err := newSpan(from, to)
	if err != nil {
		return nil, err
	}
	if channel < 0 {
		return nil, fmt.Errorf("%w: colour needs a channel, got %d", ErrMalformed, channel)
	}
	if err := gradient.validate(); err != nil {
		return nil, err
	}
	return &ColorFade{span: sp, channel: channel, gradient: append(Gradient(nil), gradient...)}, nil
}

// Channel returns the animated channel.
func (f *ColorFade) Channel() int {
	return f.channel
}

// Apply sets the channel colour of current.
func (f *ColorFade) Apply(current *state.RenderingState, history History) error {
	t := current.Frame()
	if !f.active(t) {
		return nil
	}
	var start colorful.Color
	if f.gradient[0].Pos > 0 {
		from, err := f.start(current, history)
		if err != nil {
			return err
		}
		start = from.ChannelColor(f.channel)
	}
	current.SetChannelColor(f.channel, f.gradient.Color(value.Progress(t, f.from, f.to), start))
	return nil
}
