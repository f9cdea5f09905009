package anim

import (
	"github.com/matt-g-everett/volanim/state"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// A Tween animates a single property to a literal target along an easing
// curve. Values are computed in float32, the precision of the tweening
// library; the last frame yields the target exactly.
type Tween struct {
	span
	channel int
	index   int
	target  float64
	fn      ease.TweenFunc
}

// NewTween creates a Tween over [from, to]. A nil fn means linear.
func NewTween(from, to, channel, idx int, target float64, fn ease.TweenFunc) (*Tween, error) {
	sp, err := newSpan(from, to)
	if err != nil {
		return nil, err
	}
	if err := checkTarget(channel, idx); err != nil {
		return nil, err
	}
	if fn == nil {
		fn = ease.Linear
	}
	return &Tween{span: sp, channel: channel, index: idx, target: target, fn: fn}, nil
}

// Apply writes the eased value of the property to current.
func (tw *Tween) Apply(current *state.RenderingState, history History) error {
	t := current.Frame()
	if !tw.active(t) {
		return nil
	}
	if t == tw.to {
		current.SetProperty(tw.channel, tw.index, tw.target)
		return nil
	}

	from, err := tw.start(current, history)
	if err != nil {
		return err
	}
	vFrom := from.Property(tw.channel, tw.index)

	// A fresh tween per frame keeps Apply independent of call order.
	g := gween.New(float32(vFrom), float32(tw.target), float32(tw.to-tw.from), tw.fn)
	v, _ := g.Update(float32(t - tw.from))
	current.SetProperty(tw.channel, tw.index, float64(v))
	return nil
}
