// Package timer contains pure business logic for elapsed-time tracking.
// This package has NO external dependencies (no LCD, buttons, network, or
// time.Sleep). Time is always injectable via time.Time parameters.
package timer

import (
	"fmt"
	"time"
)

// MaxNameLen is the widest display name that fits on the LCD's top line.
const MaxNameLen = 16

// Poller performs one remote fetch-and-extract attempt for a pollable timer.
//
// A nil error means the fetch itself succeeded; triggered reports whether the
// attempt produced a new event time. The two are independent: a threshold
// source can fetch fine and still not trigger.
type Poller interface {
	Poll(now time.Time) (event time.Time, triggered bool, err error)
}

// PollSource tracks when a pollable timer last refreshed from its remote
// service. lastPoll advances only on successful polls, so a failed attempt
// is immediately due again on the next check.
type PollSource struct {
	poller   Poller
	interval time.Duration
	lastPoll time.Time
}

// NewPollSource creates a poll source for the given strategy and interval.
// seed sets the initial lastPoll time (usually the startup time, or the time
// of a successful construction-time poll).
func NewPollSource(p Poller, interval time.Duration, seed time.Time) *PollSource {
	return &PollSource{
		poller:   p,
		interval: interval,
		lastPoll: seed,
	}
}

// Due reports whether the poll interval has elapsed since the last
// successful poll.
func (s *PollSource) Due(now time.Time) bool {
	return now.Sub(s.lastPoll) >= s.interval
}

// LastPoll returns the time of the last successful poll.
func (s *PollSource) LastPoll() time.Time {
	return s.lastPoll
}

// Interval returns the configured poll interval.
func (s *PollSource) Interval() time.Duration {
	return s.interval
}

// Timer pairs a display name with the timestamp of the most recent known
// occurrence of its event. A Timer with a poll source refreshes that
// timestamp from a remote service; one without is triggered only by the
// action button.
type Timer struct {
	name string
	last time.Time
	poll *PollSource // nil for manual timers
}

// New creates a manual timer seeded with the given initial trigger time.
// The name must fit the display width.
func New(name string, initial time.Time) (*Timer, error) {
	if name == "" {
		return nil, fmt.Errorf("timer: empty display name")
	}
	if len(name) > MaxNameLen {
		return nil, fmt.Errorf("timer: display name %q exceeds %d characters", name, MaxNameLen)
	}
	return &Timer{name: name, last: initial}, nil
}

// NewPolling creates a pollable timer. initial seeds the trigger time
// (current time or a best-effort remote lookup done by the caller).
func NewPolling(name string, initial time.Time, src *PollSource) (*Timer, error) {
	t, err := New(name, initial)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("timer: %q: nil poll source", name)
	}
	t.poll = src
	return t, nil
}

// Name returns the display name.
func (t *Timer) Name() string {
	return t.name
}

// LastTrigger returns the timestamp of the most recent known event.
func (t *Timer) LastTrigger() time.Time {
	return t.last
}

// TimeSince returns now minus the last trigger time, in whole seconds.
// The result is negative when the trigger time is in the future (e.g. a
// remote record ahead of the local clock); callers decide how to display
// that.
func (t *Timer) TimeSince(now time.Time) int64 {
	return now.Unix() - t.last.Unix()
}

// Trigger unconditionally overwrites the last trigger time. The new value
// may be earlier or later than the old one.
func (t *Timer) Trigger(ts time.Time) {
	t.last = ts
}

// Pollable reports whether the timer refreshes from a remote service.
func (t *Timer) Pollable() bool {
	return t.poll != nil
}

// Source returns the timer's poll source, or nil for manual timers.
func (t *Timer) Source() *PollSource {
	return t.poll
}

// Poll runs one remote refresh attempt. On fetch success it advances the
// source's lastPoll and, if the attempt produced an event time, triggers
// with it. On failure both timestamps are left untouched and the error is
// returned for logging.
func (t *Timer) Poll(now time.Time) (bool, error) {
	if t.poll == nil {
		return false, nil
	}
	event, triggered, err := t.poll.poller.Poll(now)
	if err != nil {
		return false, err
	}
	t.poll.lastPoll = now
	if triggered {
		t.last = event
	}
	return true, nil
}

// CheckPoll polls if the source is due. It returns whether a successful poll
// happened this call.
func (t *Timer) CheckPoll(now time.Time) (bool, error) {
	if t.poll == nil || !t.poll.Due(now) {
		return false, nil
	}
	return t.Poll(now)
}

// HandleAction reacts to the action button. Manual timers trigger with the
// current time and always consume the press. Pollable timers repurpose the
// press as a force-refresh and report whether the poll succeeded.
func (t *Timer) HandleAction(now time.Time) bool {
	if t.poll == nil {
		t.Trigger(now)
		return true
	}
	ok, _ := t.Poll(now)
	return ok
}
