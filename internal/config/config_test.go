package config

import (
	"strings"
	"testing"
	"time"
)

const validYAML = `
timers:
  - name: Last drank water
    kind: manual
  - name: Last GitHub push
    kind: github
    user: evjrob
    interval: 300s
  - name: Last Bsky post
    kind: bluesky
    handle: evjrob.bsky.social
  - name: Last above 0C
    kind: weather
    latitude: 49.8954
    longitude: -97.1385
`

func TestParseValid(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Timers) != 4 {
		t.Fatalf("timers: got %d, want 4", len(cfg.Timers))
	}

	gh := cfg.Timers[1]
	if gh.Kind != KindGitHub || gh.User != "evjrob" {
		t.Errorf("github slot: got %+v", gh)
	}
	if time.Duration(gh.Interval) != 300*time.Second {
		t.Errorf("github interval: got %v", time.Duration(gh.Interval))
	}

	// Omitted intervals pick up per-kind defaults.
	if time.Duration(cfg.Timers[2].Interval) != DefaultActivityInterval {
		t.Errorf("bluesky default interval: got %v", time.Duration(cfg.Timers[2].Interval))
	}
	if time.Duration(cfg.Timers[3].Interval) != DefaultWeatherInterval {
		t.Errorf("weather default interval: got %v", time.Duration(cfg.Timers[3].Interval))
	}
	if cfg.Timers[0].Interval != 0 {
		t.Errorf("manual timer should have no interval, got %v", time.Duration(cfg.Timers[0].Interval))
	}

	if *cfg.Timers[3].Latitude != 49.8954 {
		t.Errorf("latitude: got %v", *cfg.Timers[3].Latitude)
	}
}

func TestParseRejections(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", `timers: []`},
		{"missing name", "timers:\n  - kind: manual"},
		{"name too wide", "timers:\n  - name: This name is far too wide for the display\n    kind: manual"},
		{"missing kind", "timers:\n  - name: X"},
		{"unknown kind", "timers:\n  - name: X\n    kind: mastodon"},
		{"github without user", "timers:\n  - name: X\n    kind: github"},
		{"github user too long", "timers:\n  - name: X\n    kind: github\n    user: " + strings.Repeat("a", 40)},
		{"bluesky without handle", "timers:\n  - name: X\n    kind: bluesky"},
		{"weather without coordinates", "timers:\n  - name: X\n    kind: weather\n    latitude: 49.0"},
		{"manual with interval", "timers:\n  - name: X\n    kind: manual\n    interval: 60s"},
		{"bad duration", "timers:\n  - name: X\n    kind: github\n    user: a\n    interval: soon"},
		{"not yaml", `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}
