package stream

import (
	"errors"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/volanim/render"
)

// ErrPublishTimeout is returned when the broker does not acknowledge a frame in time.
var ErrPublishTimeout = errors.New("publish timed out")

// Publisher is the part of mqtt.Client the Streamer needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Streamer sends projections as binary frames over MQTT to a raycasting device.
type Streamer struct {
	client  Publisher
	topic   string
	qos     byte
	timeout time.Duration
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(client Publisher, topic string, qos byte, timeout time.Duration) *Streamer {
	s := new(Streamer)
	s.client = client
	s.topic = topic
	s.qos = qos
	s.timeout = timeout
	return s
}

// Project publishes p and waits for the broker.
func (s *Streamer) Project(p *render.Projection) error {
	b, err := NewFrame(p).MarshalBinary()
	if err != nil {
		return err
	}
	token := s.client.Publish(s.topic, s.qos, false, b)
	if s.timeout > 0 {
		if !token.WaitTimeout(s.timeout) {
			return ErrPublishTimeout
		}
	} else {
		token.Wait()
	}
	return token.Error()
}
