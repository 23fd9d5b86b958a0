// Package config loads the timer-slot configuration from a YAML file and
// validates it before any hardware is touched. Bad configuration refuses to
// start the daemon; nothing is truncated or defaulted into silence.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/timesince/internal/feed"
	"github.com/sweeney/timesince/internal/timer"
)

// Timer kinds.
const (
	KindManual  = "manual"
	KindGitHub  = "github"
	KindBluesky = "bluesky"
	KindWeather = "weather"
)

// Default poll intervals per kind, applied when the slot omits one.
const (
	DefaultActivityInterval = 300 * time.Second
	DefaultWeatherInterval  = 900 * time.Second
)

// Duration wraps time.Duration so intervals read naturally in YAML
// ("300s", "15m").
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("bad duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// TimerConfig is one timer slot.
type TimerConfig struct {
	Name      string   `yaml:"name"`
	Kind      string   `yaml:"kind"`
	User      string   `yaml:"user,omitempty"`      // github
	Handle    string   `yaml:"handle,omitempty"`    // bluesky
	Latitude  *float64 `yaml:"latitude,omitempty"`  // weather
	Longitude *float64 `yaml:"longitude,omitempty"` // weather
	Interval  Duration `yaml:"interval,omitempty"`
}

// Config is the full timer-slot configuration.
type Config struct {
	Timers []TimerConfig `yaml:"timers"`
}

// Load reads and validates the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Timers) == 0 {
		return fmt.Errorf("config: no timers defined")
	}
	for i := range c.Timers {
		if err := c.Timers[i].validate(); err != nil {
			return fmt.Errorf("config: timer %d: %w", i, err)
		}
	}
	return nil
}

func (t *TimerConfig) validate() error {
	if t.Name == "" {
		return fmt.Errorf("missing name")
	}
	if len(t.Name) > timer.MaxNameLen {
		return fmt.Errorf("name %q exceeds %d characters", t.Name, timer.MaxNameLen)
	}
	if t.Interval < 0 {
		return fmt.Errorf("negative interval")
	}

	switch t.Kind {
	case KindManual:
		if t.Interval != 0 {
			return fmt.Errorf("manual timers take no interval")
		}
	case KindGitHub:
		if t.User == "" {
			return fmt.Errorf("github timer needs a user")
		}
		if len(t.User) > feed.MaxGitHubUserLen {
			return fmt.Errorf("github user %q exceeds %d characters", t.User, feed.MaxGitHubUserLen)
		}
	case KindBluesky:
		if t.Handle == "" {
			return fmt.Errorf("bluesky timer needs a handle")
		}
		if len(t.Handle) > feed.MaxBlueskyHandleLen {
			return fmt.Errorf("bluesky handle exceeds %d characters", feed.MaxBlueskyHandleLen)
		}
	case KindWeather:
		if t.Latitude == nil || t.Longitude == nil {
			return fmt.Errorf("weather timer needs latitude and longitude")
		}
	case "":
		return fmt.Errorf("missing kind")
	default:
		return fmt.Errorf("unknown kind %q", t.Kind)
	}
	return nil
}

func (c *Config) applyDefaults() {
	for i := range c.Timers {
		t := &c.Timers[i]
		if t.Interval != 0 {
			continue
		}
		switch t.Kind {
		case KindGitHub, KindBluesky:
			t.Interval = Duration(DefaultActivityInterval)
		case KindWeather:
			t.Interval = Duration(DefaultWeatherInterval)
		}
	}
}
