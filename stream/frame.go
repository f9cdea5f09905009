package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/matt-g-everett/volanim/render"
	"github.com/matt-g-everett/volanim/state"
)

// frameMagic starts every frame on the wire.
const frameMagic uint16 = 0x5646

// ErrShortFrame is returned when decoding truncated frame data.
var ErrShortFrame = errors.New("short frame")

// Frame is the wire representation of one projection, sent to a raycasting
// device. All values are little endian; scalars are float32.
//
//	uint16  magic
//	uint32  frame
//	uint16  channel count n
//	16×f32  forward transform, row-major
//	16×f32  inverse transform, row-major
//	f32     opacity correction
//	f32     sample depth
//	8×f32   non-channel properties
//	n×10×f32 channel properties
type Frame struct {
	Projection *render.Projection
}

// NewFrame wraps a projection for sending.
func NewFrame(p *render.Projection) *Frame {
	f := new(Frame)
	f.Projection = p
	return f
}

func frameSize(nChannels int) int {
	return 2 + 4 + 2 + 4*(16+16+2+state.NumNonChannelProperties+nChannels*state.NumChannelProperties)
}

// MarshalBinary converts a Frame into binary data.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	p := f.Projection
	if len(p.Channels) > math.MaxUint16 {
		return nil, fmt.Errorf("too many channels: %d", len(p.Channels))
	}

	data = make([]byte, 8, frameSize(len(p.Channels)))
	binary.LittleEndian.PutUint16(data, frameMagic)
	binary.LittleEndian.PutUint32(data[2:], uint32(p.Frame))
	binary.LittleEndian.PutUint16(data[6:], uint16(len(p.Channels)))

	put := func(v float64) {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(float32(v)))
	}
	for _, v := range p.Forward {
		put(v)
	}
	for _, v := range p.Inverse {
		put(v)
	}
	put(p.OpacityCorrection)
	put(p.SampleDepth)
	for _, v := range p.NonChannel {
		put(v)
	}
	for _, ch := range p.Channels {
		for _, v := range ch {
			put(v)
		}
	}
	return data, nil
}

// UnmarshalBinary decodes data produced by MarshalBinary.
func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return ErrShortFrame
	}
	if m := binary.LittleEndian.Uint16(data); m != frameMagic {
		return fmt.Errorf("bad frame magic %#04x", m)
	}
	n := int(binary.LittleEndian.Uint16(data[6:]))
	if len(data) != frameSize(n) {
		return fmt.Errorf("%w: %d bytes for %d channels", ErrShortFrame, len(data), n)
	}

	p := new(render.Projection)
	p.Frame = int(binary.LittleEndian.Uint32(data[2:]))
	off := 8
	get := func() float64 {
		v := math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		off += 4
		return float64(v)
	}
	for i := range p.Forward {
		p.Forward[i] = get()
	}
	for i := range p.Inverse {
		p.Inverse[i] = get()
	}
	p.OpacityCorrection = get()
	p.SampleDepth = get()
	for i := range p.NonChannel {
		p.NonChannel[i] = get()
	}
	p.Channels = make([]state.ChannelVector, n)
	for c := range p.Channels {
		for i := range p.Channels[c] {
			p.Channels[c][i] = get()
		}
	}
	f.Projection = p
	return nil
}
