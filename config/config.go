// Package config loads the YAML job description: broker, playback, the host
// volume and the animations to play.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/volanim/render"
	"golang.org/x/image/math/f64"
	"gopkg.in/yaml.v2"
)

// Defaults applied by Load.
const (
	DefaultClientID  = "volanim"
	DefaultStream    = "volanim/stream"
	DefaultControl   = "volanim/control"
	DefaultFrameRate = 25.0
	DefaultTimeout   = 5 * time.Second
)

type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientId"`
		QoS      byte   `yaml:"qos"`
		Timeout  string `yaml:"timeout"`
		Topics   struct {
			Stream  string `yaml:"stream"`
			Control string `yaml:"control"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Playback struct {
		FrameRate float64 `yaml:"frameRate"`
		LastFrame int     `yaml:"lastFrame"`
		Loop      bool    `yaml:"loop"`
	} `yaml:"playback"`
	Output struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"output"`
	Volume     VolumeCfg      `yaml:"volume"`
	Animations []AnimationCfg `yaml:"animations"`
}

type ChannelCfg struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Color string  `yaml:"color"`
}

type VolumeCfg struct {
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	Depth      int          `yaml:"depth"`
	Spacing    []float64    `yaml:"spacing"`
	Timepoints int          `yaml:"timepoints"`
	Channels   []ChannelCfg `yaml:"channels"`
}

// PublishTimeout parses the MQTT publish timeout.
func (c *Config) PublishTimeout() (time.Duration, error) {
	if c.Mqtt.Timeout == "" {
		return DefaultTimeout, nil
	}
	return time.ParseDuration(c.Mqtt.Timeout)
}

// Source builds the in-memory host volume.
func (v VolumeCfg) Source() (*render.Volume, error) {
	vol := &render.Volume{
		VoxelSize:  f64.Vec3{1, 1, 1},
		Width:      v.Width,
		Height:     v.Height,
		Depth:      v.Depth,
		Timepoints: v.Timepoints,
	}
	if len(v.Spacing) != 0 {
		if len(v.Spacing) != 3 {
			return nil, fmt.Errorf("volume spacing needs 3 values, got %d", len(v.Spacing))
		}
		copy(vol.VoxelSize[:], v.Spacing)
	}
	for i, c := range v.Channels {
		col := colorful.Color{R: 1, G: 1, B: 1}
		if c.Color != "" {
			var err error
			if col, err = colorful.Hex(c.Color); err != nil {
				return nil, fmt.Errorf("channel %d colour %q: %w", i, c.Color, err)
			}
		}
		vol.Channels = append(vol.Channels, render.ChannelInfo{Min: c.Min, Max: c.Max, Color: col})
	}
	return vol, nil
}

func (c *Config) validate() error {
	v := c.Volume
	switch {
	case v.Width <= 0 || v.Height <= 0 || v.Depth <= 0:
		return fmt.Errorf("volume size %dx%dx%d", v.Width, v.Height, v.Depth)
	case len(v.Channels) == 0:
		return errors.New("volume has no channels")
	case c.Playback.LastFrame < 0:
		return fmt.Errorf("negative last frame %d", c.Playback.LastFrame)
	case c.Mqtt.QoS > 2:
		return fmt.Errorf("invalid qos %d", c.Mqtt.QoS)
	}
	if _, err := c.PublishTimeout(); err != nil {
		return fmt.Errorf("mqtt timeout: %w", err)
	}
	for _, s := range v.Spacing {
		if s <= 0 {
			return fmt.Errorf("volume spacing %v", v.Spacing)
		}
	}
	return nil
}

// Load reads and validates a YAML config file, applying defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	decoder.SetStrict(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if cfg.Mqtt.ClientID == "" {
		cfg.Mqtt.ClientID = DefaultClientID
	}
	if cfg.Mqtt.Topics.Stream == "" {
		cfg.Mqtt.Topics.Stream = DefaultStream
	}
	if cfg.Mqtt.Topics.Control == "" {
		cfg.Mqtt.Topics.Control = DefaultControl
	}
	if cfg.Playback.FrameRate <= 0 {
		cfg.Playback.FrameRate = DefaultFrameRate
	}
	if cfg.Output.Width <= 0 {
		cfg.Output.Width = cfg.Volume.Width
	}
	if cfg.Output.Height <= 0 {
		cfg.Output.Height = cfg.Volume.Height
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if _, err := cfg.Build(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}
