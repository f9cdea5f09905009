package render

import (
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/math/f64"
)

// Source is the host image the volume is rendered from.
type Source interface {
	NumChannels() int
	// Spacing is the physical voxel width, height and depth.
	Spacing() f64.Vec3
	// Size is the extent in voxels.
	Size() (w, h, d int)
	// Window is the display range of a channel's intensities.
	Window(channel int) (min, max float64)
	Color(channel int) colorful.Color
	NumTimepoints() int
	Timepoint() int
	// SetTimepoint selects a time step. Implementations rebind the volume
	// data when the time step changes.
	SetTimepoint(t int)
}

// ChannelInfo describes one channel of a Volume.
type ChannelInfo struct {
	Min   float64
	Max   float64
	Color colorful.Color
}

// Volume is an in-memory description of a host image.
type Volume struct {
	Channels   []ChannelInfo
	VoxelSize  f64.Vec3
	Width      int
	Height     int
	Depth      int
	Timepoints int

	// OnTimepoint is called when the selected time step changes.
	OnTimepoint func(t int)

	timepoint int
}

func (v *Volume) NumChannels() int {
	return len(v.Channels)
}

func (v *Volume) Spacing() f64.Vec3 {
	return v.VoxelSize
}

func (v *Volume) Size() (w, h, d int) {
	return v.Width, v.Height, v.Depth
}

func (v *Volume) Color(channel int) colorful.Color {
	return v.Channels[channel].Color
}

func (v *Volume) Timepoint() int {
	return v.timepoint
}

func (v *Volume) Window(channel int) (min, max float64) {
	return v.Channels[channel].Min, v.Channels[channel].Max
}

func (v *Volume) NumTimepoints() int {
	if v.Timepoints < 1 {
		return 1
	}
	return v.Timepoints
}

func (v *Volume) SetTimepoint(t int) {
	if t < 0 || t >= v.NumTimepoints() || t == v.timepoint {
		return
	}
	v.timepoint = t
	if v.OnTimepoint != nil {
		v.OnTimepoint(t)
	}
}
