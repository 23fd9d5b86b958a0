package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/timesince/internal/display"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string      `json:"event,omitempty"`
	Reason        string      `json:"reason,omitempty"`
	Timers        []TimerJSON `json:"timers"`
	Selected      int         `json:"selected"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	StartTime     string      `json:"start_time"`
	Timestamp     string      `json:"timestamp"`
	MQTT          MQTTStatus  `json:"mqtt"`
	Counts        CountsJSON  `json:"event_counts"`
	Config        ConfigJSON  `json:"config"`
}

// TimerJSON is the JSON representation of one timer.
type TimerJSON struct {
	Name            string `json:"name"`
	Kind            string `json:"kind"`
	Pollable        bool   `json:"pollable"`
	Selected        bool   `json:"selected"`
	LastTrigger     string `json:"last_trigger"`
	ElapsedSeconds  int64  `json:"elapsed_seconds"`
	Elapsed         string `json:"elapsed"`
	LastPoll        string `json:"last_poll,omitempty"`
	IntervalSeconds int64  `json:"interval_seconds,omitempty"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Triggered int `json:"triggered"`
	Refreshed int `json:"refreshed"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs      int64  `json:"tick_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	ConfigPath  string `json:"config_path"`
}

func buildInner(snap Snapshot) StatusInner {
	timers := make([]TimerJSON, len(snap.Timers))
	for i, tm := range snap.Timers {
		tj := TimerJSON{
			Name:           tm.Name,
			Kind:           tm.Kind,
			Pollable:       tm.Pollable,
			Selected:       i == snap.Selected,
			LastTrigger:    tm.LastTrigger.UTC().Format(time.RFC3339),
			ElapsedSeconds: tm.Elapsed(snap.Now),
			Elapsed:        display.FormatElapsed(tm.Elapsed(snap.Now)),
		}
		if tm.Pollable {
			tj.LastPoll = tm.LastPoll.UTC().Format(time.RFC3339)
			tj.IntervalSeconds = int64(tm.Interval / time.Second)
		}
		timers[i] = tj
	}

	return StatusInner{
		Timers:        timers,
		Selected:      snap.Selected,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Triggered: snap.Counts.Triggered,
			Refreshed: snap.Counts.Refreshed,
		},
		Config: ConfigJSON{
			TickMs:      snap.Config.TickMs,
			DebounceMs:  snap.Config.DebounceMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			ConfigPath:  snap.Config.ConfigPath,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
