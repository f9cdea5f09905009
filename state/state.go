// Package state holds the resolved rendering parameters of one frame.
package state

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/volanim/transform"
)

// NonChannel is the channel sentinel selecting the non-channel properties.
const NonChannel = -1

// Non-channel property indices.
const (
	BoundingBoxXMin = iota
	BoundingBoxYMin
	BoundingBoxZMin
	BoundingBoxXMax
	BoundingBoxYMax
	BoundingBoxZMax
	Near
	Far

	NumNonChannelProperties
)

// Channel property indices.
const (
	IntensityMin = iota
	IntensityMax
	IntensityGamma
	AlphaMin
	AlphaMax
	AlphaGamma
	Weight
	ColorRed
	ColorGreen
	ColorBlue

	NumChannelProperties
)

// ChannelVector holds the properties of one channel.
type ChannelVector [NumChannelProperties]float64

// NonChannelVector holds the properties shared by all channels.
type NonChannelVector [NumNonChannelProperties]float64

// RenderingState is everything needed to render one frame.
type RenderingState struct {
	frame      int
	transform  *transform.Combined
	nonChannel NonChannelVector
	channels   []ChannelVector
}

// New creates a zeroed RenderingState. The channel count is fixed for the
// lifetime of the state.
func New(frame int, t *transform.Combined, nChannels int) *RenderingState {
	if nChannels < 0 {
		panic(fmt.Sprintf("state: negative channel count %d", nChannels))
	}
	s := new(RenderingState)
	s.frame = frame
	s.transform = t
	s.channels = make([]ChannelVector, nChannels)
	return s
}

// Frame returns the frame index.
func (s *RenderingState) Frame() int {
	return s.frame
}

// Transform returns the state's transform. Callers mutating it mutate the state.
func (s *RenderingState) Transform() *transform.Combined {
	return s.transform
}

// NumChannels returns the channel count.
func (s *RenderingState) NumChannels() int {
	return len(s.channels)
}

func checkNonChannel(idx int) {
	if idx < 0 || idx >= NumNonChannelProperties {
		panic(fmt.Sprintf("state: non-channel property %d out of range [0, %d)", idx, NumNonChannelProperties))
	}
}

func (s *RenderingState) checkChannel(channel, idx int) {
	if channel < 0 || channel >= len(s.channels) {
		panic(fmt.Sprintf("state: channel %d out of range [0, %d)", channel, len(s.channels)))
	}
	if idx < 0 || idx >= NumChannelProperties {
		panic(fmt.Sprintf("state: channel property %d out of range [0, %d)", idx, NumChannelProperties))
	}
}

// NonChannelProperty returns a non-channel property. It panics if idx is out of range.
func (s *RenderingState) NonChannelProperty(idx int) float64 {
	checkNonChannel(idx)
	return s.nonChannel[idx]
}

// SetNonChannelProperty sets a non-channel property. It panics if idx is out of range.
func (s *RenderingState) SetNonChannelProperty(idx int, v float64) {
	checkNonChannel(idx)
	s.nonChannel[idx] = v
}

// ChannelProperty returns a property of one channel. It panics if channel
// or idx is out of range.
func (s *RenderingState) ChannelProperty(channel, idx int) float64 {
	s.checkChannel(channel, idx)
	return s.channels[channel][idx]
}

// SetChannelProperty sets a property of one channel. It panics if channel
// or idx is out of range.
func (s *RenderingState) SetChannelProperty(channel, idx int, v float64) {
	s.checkChannel(channel, idx)
	s.channels[channel][idx] = v
}

// Property reads a channel property, or a non-channel property when channel
// is NonChannel.
func (s *RenderingState) Property(channel, idx int) float64 {
	if channel == NonChannel {
		return s.NonChannelProperty(idx)
	}
	return s.ChannelProperty(channel, idx)
}

// SetProperty writes a channel property, or a non-channel property when
// channel is NonChannel.
func (s *RenderingState) SetProperty(channel, idx int, v float64) {
	if channel == NonChannel {
		s.SetNonChannelProperty(idx, v)
		return
	}
	s.SetChannelProperty(channel, idx, v)
}

// NonChannelProperties returns a copy of the non-channel properties.
func (s *RenderingState) NonChannelProperties() NonChannelVector {
	return s.nonChannel
}

// ChannelProperties returns a copy of the per-channel properties.
func (s *RenderingState) ChannelProperties() []ChannelVector {
	out := make([]ChannelVector, len(s.channels))
	copy(out, s.channels)
	return out
}

// ChannelColor returns the display colour of a channel.
func (s *RenderingState) ChannelColor(channel int) colorful.Color {
	s.checkChannel(channel, ColorRed)
	v := s.channels[channel]
	return colorful.Color{R: v[ColorRed] / 255, G: v[ColorGreen] / 255, B: v[ColorBlue] / 255}
}

// SetChannelColor stores c as 0..255 RGB in the colour slots of a channel.
func (s *RenderingState) SetChannelColor(channel int, c colorful.Color) {
	s.checkChannel(channel, ColorRed)
	r, g, b := c.Clamped().RGB255()
	s.channels[channel][ColorRed] = float64(r)
	s.channels[channel][ColorGreen] = float64(g)
	s.channels[channel][ColorBlue] = float64(b)
}

// Clone returns a deep copy of s, including its transform.
func (s *RenderingState) Clone() *RenderingState {
	return s.CloneAt(s.frame)
}

// CloneAt returns a deep copy of s stamped with another frame index.
func (s *RenderingState) CloneAt(frame int) *RenderingState {
	out := New(frame, nil, len(s.channels))
	out.SetFrom(s)
	out.frame = frame
	return out
}

// SetFrom deep-copies every field of o, including its frame, into s without
// changing the identity of s. Both states must have the same channel count.
func (s *RenderingState) SetFrom(o *RenderingState) {
	if len(o.channels) != len(s.channels) {
		panic(fmt.Sprintf("state: channel count mismatch %d != %d", len(o.channels), len(s.channels)))
	}
	s.frame = o.frame
	s.nonChannel = o.nonChannel
	copy(s.channels, o.channels)
	switch {
	case o.transform == nil:
		s.transform = nil
	case s.transform == nil:
		s.transform = o.transform.Clone()
	default:
		s.transform.SetFrom(o.transform)
	}
}
