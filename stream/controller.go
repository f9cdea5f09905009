package stream

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/volanim/render"
	"github.com/matt-g-everett/volanim/state"
	"github.com/matt-g-everett/volanim/timeline"
	"github.com/matt-g-everett/volanim/util"
)

// ErrDone is returned by Step once the last frame has been played without looping.
var ErrDone = errors.New("playback finished")

// RenderError reports a frame that was resolved but could not be rendered.
// Playback continues past it.
type RenderError struct {
	Frame int
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render frame %d: %v", e.Frame, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Subscriber is the part of mqtt.Client used for control messages.
type Subscriber interface {
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
}

// Controller plays a timeline: it resolves frames in order, renders them
// and applies control messages between frames.
type Controller struct {
	resolver  *timeline.Resolver
	renderer  *render.Renderer
	frameRate float64
	lastFrame int
	loop      bool

	next    int
	acked   int
	control chan ControlMessage

	// OnFrame, if set, is called after each rendered frame.
	OnFrame func(s *state.RenderingState, p *render.Projection)
}

// NewController creates an instance of a Controller playing frames
// [0, lastFrame] at frameRate frames per second.
func NewController(resolver *timeline.Resolver, renderer *render.Renderer, frameRate float64, lastFrame int, loop bool) *Controller {
	c := new(Controller)
	c.resolver = resolver
	c.renderer = renderer
	c.frameRate = frameRate
	c.lastFrame = lastFrame
	c.loop = loop
	c.acked = -1
	c.control = make(chan ControlMessage, 16)
	return c
}

// Next returns the frame the next Step plays.
func (c *Controller) Next() int {
	return c.next
}

// Acked returns the last frame acknowledged by the device, or -1.
func (c *Controller) Acked() int {
	return c.acked
}

// Step resolves and renders the next frame.
func (c *Controller) Step() error {
	if c.next > c.lastFrame {
		if !c.loop {
			return ErrDone
		}
		c.next = 0
	}

	s, err := c.resolver.Resolve(c.next)
	if err != nil {
		return err
	}
	c.next++
	p, err := c.renderer.Render(s)
	if err != nil {
		return &RenderError{Frame: s.Frame(), Err: err}
	}
	if c.OnFrame != nil {
		c.OnFrame(s, p)
	}
	return nil
}

// HandlePayload queues a control message for the playback loop.
func (c *Controller) HandlePayload(payload []byte) error {
	m, err := ParseControlMessage(payload)
	if err != nil {
		return err
	}
	select {
	case c.control <- m:
		return nil
	default:
		return fmt.Errorf("control queue full, dropped %q", m.Type)
	}
}

func (c *Controller) handleClientMessages(client mqtt.Client, msg mqtt.Message) {
	if err := c.HandlePayload(msg.Payload()); err != nil {
		log.Printf("Control message on %s: %v", msg.Topic(), err)
	}
}

// Subscribe listens for control messages on topic.
func (c *Controller) Subscribe(client Subscriber, topic string) error {
	if token := client.Subscribe(topic, 0, c.handleClientMessages); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (c *Controller) apply(m ControlMessage) error {
	util.Logger().Info("control message", "type", m.Type)
	switch m.Type {
	case MsgSize:
		return c.renderer.SetTargetSize(m.Width, m.Height)
	case MsgTimelapse:
		c.renderer.SetTimelapseIndex(m.Index)
	case MsgReset:
		c.renderer.Reset()
		c.resolver.Rebase(c.renderer.Default())
		c.next = 0
	case MsgSeek:
		// Frames past the resolved history cannot be reached directly.
		if n := c.resolver.History().Len(); m.Frame > n {
			m.Frame = n
		}
		c.next = m.Frame
	case MsgAck:
		if m.Frame > c.acked {
			c.acked = m.Frame
		}
	}
	return nil
}

// Run plays frames on a ticker until ctx is cancelled or, without looping,
// the last frame has been played.
func (c *Controller) Run(ctx context.Context) error {
	period := time.Second
	if c.frameRate > 0 {
		period = time.Duration(float64(time.Second) / c.frameRate)
	}
	publishTimer := time.NewTicker(period)
	defer publishTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-c.control:
			if err := c.apply(m); err != nil {
				log.Printf("Control %s: %v", m.Type, err)
			}
		case <-publishTimer.C:
			err := c.Step()
			var re *RenderError
			switch {
			case errors.Is(err, ErrDone):
				return nil
			case errors.As(err, &re):
				log.Printf("Skipping frame: %v", re)
			case err != nil:
				return err
			}
		}
	}
}
