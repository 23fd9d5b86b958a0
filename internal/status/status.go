// Package status provides a thread-safe status tracker for the timesince
// daemon. It is read by the HTTP handlers and by the MQTT heartbeat, while
// the control loop updates it each tick.
package status

import (
	"sync"
	"time"
)

// TimerStatus is one timer's state as of the last tick.
type TimerStatus struct {
	Name        string
	Kind        string
	Pollable    bool
	LastTrigger time.Time
	LastPoll    time.Time // zero for manual timers
	Interval    time.Duration
}

// Elapsed returns whole seconds since the timer's last trigger; negative
// when the trigger time is in the future.
func (t TimerStatus) Elapsed(now time.Time) int64 {
	return now.Unix() - t.LastTrigger.Unix()
}

// Counts tracks how many trigger-time changes happened since startup.
type Counts struct {
	Triggered int // manual action-button resets
	Refreshed int // polls that moved a trigger time
}

// Config contains daemon configuration for display.
type Config struct {
	TickMs      int64
	DebounceMs  int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	ConfigPath  string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Timers        []TimerStatus
	Selected      int
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// UpdateTimers sets the per-timer rows and the selection cursor.
// Called from the run loop on every tick.
func (t *Tracker) UpdateTimers(timers []TimerStatus, selected int) {
	t.mu.Lock()
	t.snap.Timers = append(t.snap.Timers[:0], timers...)
	t.snap.Selected = selected
	t.mu.Unlock()
}

// AddCounts accumulates event counts.
func (t *Tracker) AddCounts(triggered, refreshed int) {
	t.mu.Lock()
	t.snap.Counts.Triggered += triggered
	t.snap.Counts.Refreshed += refreshed
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.Timers = append([]TimerStatus(nil), t.snap.Timers...)
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
