package state

import (
	"encoding/json"

	"golang.org/x/image/math/f64"
)

type jsonTransform struct {
	InputSpacing  f64.Vec3 `json:"inputSpacing"`
	OutputSpacing f64.Vec3 `json:"outputSpacing"`
	Center        f64.Vec3 `json:"center"`
	Rotation      f64.Mat4 `json:"rotation"`
	Scale         float64  `json:"scale"`
}

type jsonState struct {
	Frame      int              `json:"frame"`
	Transform  *jsonTransform   `json:"transform,omitempty"`
	NonChannel NonChannelVector `json:"nonChannel"`
	Channels   []ChannelVector  `json:"channels"`
}

// MarshalJSON encodes the state for read-only views.
func (s *RenderingState) MarshalJSON() ([]byte, error) {
	js := jsonState{
		Frame:      s.frame,
		NonChannel: s.nonChannel,
		Channels:   s.channels,
	}
	if t := s.transform; t != nil {
		js.Transform = &jsonTransform{
			InputSpacing:  t.InputSpacing(),
			OutputSpacing: t.OutputSpacing(),
			Center:        t.Center(),
			Rotation:      t.Rotation(),
			Scale:         t.Scale(),
		}
	}
	return json.Marshal(js)
}
