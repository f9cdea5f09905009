package stream

import (
	"encoding/json"
	"fmt"
)

// Control message types.
const (
	MsgSize      = "size"
	MsgTimelapse = "timelapse"
	MsgReset     = "reset"
	MsgSeek      = "seek"
	MsgAck       = "ack"
)

// ControlMessage is sent by clients on the control topic.
type ControlMessage struct {
	Type   string `json:"type"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Index  int    `json:"index,omitempty"`
	Frame  int    `json:"frame,omitempty"`
}

// ParseControlMessage decodes and validates a control message.
func ParseControlMessage(payload []byte) (ControlMessage, error) {
	var m ControlMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		return m, fmt.Errorf("control message: %w", err)
	}
	switch m.Type {
	case MsgSize:
		if m.Width <= 0 || m.Height <= 0 {
			return m, fmt.Errorf("control message: invalid size %dx%d", m.Width, m.Height)
		}
	case MsgTimelapse, MsgSeek, MsgAck:
		if m.Index < 0 || m.Frame < 0 {
			return m, fmt.Errorf("control message: negative index in %q", m.Type)
		}
	case MsgReset:
	default:
		return m, fmt.Errorf("control message: unknown type %q", m.Type)
	}
	return m, nil
}
