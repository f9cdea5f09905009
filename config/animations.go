package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/volanim/anim"
	"github.com/matt-g-everett/volanim/state"
	"github.com/matt-g-everett/volanim/util"
	"github.com/matt-g-everett/volanim/value"
	"golang.org/x/image/math/f64"
)

// Animation types.
const (
	TypeChange = "change"
	TypeTween  = "tween"
	TypeRotate = "rotate"
	TypeZoom   = "zoom"
	TypeColor  = "color"
)

var channelProperties = map[string]int{
	"intensitymin":   state.IntensityMin,
	"intensitymax":   state.IntensityMax,
	"intensitygamma": state.IntensityGamma,
	"alphamin":       state.AlphaMin,
	"alphamax":       state.AlphaMax,
	"alphagamma":     state.AlphaGamma,
	"weight":         state.Weight,
	"colorred":       state.ColorRed,
	"colorgreen":     state.ColorGreen,
	"colorblue":      state.ColorBlue,
}

var nonChannelProperties = map[string]int{
	"boundingboxxmin": state.BoundingBoxXMin,
	"boundingboxymin": state.BoundingBoxYMin,
	"boundingboxzmin": state.BoundingBoxZMin,
	"boundingboxxmax": state.BoundingBoxXMax,
	"boundingboxymax": state.BoundingBoxYMax,
	"boundingboxzmax": state.BoundingBoxZMax,
	"near":            state.Near,
	"far":             state.Far,
}

// PropertyIndex resolves a property name such as "intensity-max" for a
// channel, or for the non-channel properties when channel is state.NonChannel.
func PropertyIndex(channel int, name string) (int, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(name))
	props := channelProperties
	if channel == state.NonChannel {
		props = nonChannelProperties
	}
	idx, ok := props[key]
	if !ok {
		return 0, fmt.Errorf("unknown property %q", name)
	}
	return idx, nil
}

// MacroCfg selects one of the stock macros.
type MacroCfg struct {
	Kind   string  `yaml:"kind"`
	Ease   string  `yaml:"ease,omitempty"`
	Start  float64 `yaml:"start,omitempty"`
	End    float64 `yaml:"end,omitempty"`
	Value  float64 `yaml:"value,omitempty"`
	Mid    float64 `yaml:"mid,omitempty"`
	Amp    float64 `yaml:"amp,omitempty"`
	Period int     `yaml:"period,omitempty"`
}

// Build returns the macro's evaluator.
func (m MacroCfg) Build() (value.Evaluator, error) {
	switch m.Kind {
	case "ramp":
		return value.Ramp(), nil
	case "constant":
		return value.Constant(m.Value), nil
	case "oscillate":
		if m.Period <= 0 {
			return nil, fmt.Errorf("oscillate macro needs a positive period")
		}
		return value.Oscillate(m.Mid, m.Amp, m.Period), nil
	case "ease":
		name := m.Ease
		if name == "" {
			name = "linear"
		}
		curve, ok := util.Easing(name)
		if !ok {
			return nil, fmt.Errorf("unknown easing %q", m.Ease)
		}
		return value.Ease(m.Start, m.End, curve), nil
	}
	return nil, fmt.Errorf("unknown macro kind %q", m.Kind)
}

// PropertyCfg is one animated property with either a literal target or a macro.
type PropertyCfg struct {
	Name  string    `yaml:"name"`
	To    *float64  `yaml:"to,omitempty"`
	Macro *MacroCfg `yaml:"macro,omitempty"`
}

func (p PropertyCfg) source() (value.Source, error) {
	switch {
	case p.To != nil && p.Macro != nil:
		return value.Source{}, fmt.Errorf("property %q has both a target and a macro", p.Name)
	case p.To != nil:
		return value.Literal(*p.To), nil
	case p.Macro != nil:
		e, err := p.Macro.Build()
		if err != nil {
			return value.Source{}, fmt.Errorf("property %q: %w", p.Name, err)
		}
		return value.Macro(e), nil
	}
	return value.Source{}, fmt.Errorf("property %q has neither a target nor a macro", p.Name)
}

// AnimationCfg describes one animation. Channel is omitted for the
// non-channel properties.
type AnimationCfg struct {
	Type        string        `yaml:"type"`
	From        int           `yaml:"from"`
	To          int           `yaml:"to"`
	Channel     *int          `yaml:"channel,omitempty"`
	StopAtMacro bool          `yaml:"stopAtMacro,omitempty"`
	Properties  []PropertyCfg `yaml:"properties,omitempty"`

	// tween
	Ease string `yaml:"ease,omitempty"`

	// rotate
	Axis    []float64 `yaml:"axis,omitempty"`
	Degrees float64   `yaml:"degrees,omitempty"`

	// zoom
	Zoom *PropertyCfg `yaml:"zoom,omitempty"`

	// color
	Stops []StopCfg `yaml:"stops,omitempty"`
}

// StopCfg is one gradient stop with a hex colour.
type StopCfg struct {
	Pos   float64 `yaml:"pos"`
	Color string  `yaml:"color"`
}

func (a AnimationCfg) channel() int {
	if a.Channel == nil {
		return state.NonChannel
	}
	return *a.Channel
}

// Build validates and constructs the animation.
func (a AnimationCfg) Build(nChannels int) (anim.Animation, error) {
	ch := a.channel()
	if ch >= nChannels {
		return nil, fmt.Errorf("channel %d of %d", ch, nChannels)
	}

	switch a.Type {
	case TypeChange, "":
		indices := make([]int, 0, len(a.Properties))
		targets := make([]value.Source, 0, len(a.Properties))
		for _, p := range a.Properties {
			idx, err := PropertyIndex(ch, p.Name)
			if err != nil {
				return nil, err
			}
			src, err := p.source()
			if err != nil {
				return nil, err
			}
			indices = append(indices, idx)
			targets = append(targets, src)
		}
		var opts []anim.ChangeOption
		if a.StopAtMacro {
			opts = append(opts, anim.StopAtMacro())
		}
		c, err := anim.NewChange(a.From, a.To, ch, indices, targets, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil

	case TypeTween:
		if len(a.Properties) != 1 || a.Properties[0].To == nil {
			return nil, fmt.Errorf("tween needs exactly one property with a target")
		}
		idx, err := PropertyIndex(ch, a.Properties[0].Name)
		if err != nil {
			return nil, err
		}
		name := a.Ease
		if name == "" {
			name = "linear"
		}
		fn, ok := util.Tween(name)
		if !ok {
			return nil, fmt.Errorf("unknown easing %q", a.Ease)
		}
		tw, err := anim.NewTween(a.From, a.To, ch, idx, *a.Properties[0].To, fn)
		if err != nil {
			return nil, err
		}
		return tw, nil

	case TypeRotate:
		if len(a.Axis) != 3 {
			return nil, fmt.Errorf("rotation axis needs 3 values, got %d", len(a.Axis))
		}
		var curve util.Curve
		if a.Ease != "" {
			var ok bool
			if curve, ok = util.Easing(a.Ease); !ok {
				return nil, fmt.Errorf("unknown easing %q", a.Ease)
			}
		}
		axis := f64.Vec3{a.Axis[0], a.Axis[1], a.Axis[2]}
		r, err := anim.NewRotate(a.From, a.To, axis, a.Degrees*math.Pi/180, curve)
		if err != nil {
			return nil, err
		}
		return r, nil

	case TypeZoom:
		if a.Zoom == nil {
			return nil, fmt.Errorf("zoom needs a target")
		}
		src, err := a.Zoom.source()
		if err != nil {
			return nil, err
		}
		z, err := anim.NewZoom(a.From, a.To, src)
		if err != nil {
			return nil, err
		}
		return z, nil

	case TypeColor:
		gradient := make(anim.Gradient, 0, len(a.Stops))
		for _, st := range a.Stops {
			col, err := colorful.Hex(st.Color)
			if err != nil {
				return nil, fmt.Errorf("gradient colour %q: %w", st.Color, err)
			}
			gradient = append(gradient, anim.Stop{Pos: st.Pos, Color: col})
		}
		f, err := anim.NewColorFade(a.From, a.To, ch, gradient)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return nil, fmt.Errorf("unknown animation type %q", a.Type)
}

// Build constructs all animations in order.
func (c *Config) Build() ([]anim.Animation, error) {
	out := make([]anim.Animation, 0, len(c.Animations))
	for i, a := range c.Animations {
		built, err := a.Build(len(c.Volume.Channels))
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		out = append(out, built)
	}
	return out, nil
}
