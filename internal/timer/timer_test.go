package timer

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// fakePoller is a scripted Poller for tests.
type fakePoller struct {
	event     time.Time
	triggered bool
	err       error
	calls     int
}

func (f *fakePoller) Poll(now time.Time) (time.Time, bool, error) {
	f.calls++
	return f.event, f.triggered, f.err
}

func TestNewValidatesName(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		wantErr bool
	}{
		{"Last drank water", false},
		{"", true},
		{strings.Repeat("x", 16), false},
		{strings.Repeat("x", 17), true},
	}

	for _, tt := range tests {
		_, err := New(tt.name, now)
		if tt.wantErr && err == nil {
			t.Errorf("New(%q): expected error, got nil", tt.name)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("New(%q): unexpected error: %v", tt.name, err)
		}
	}
}

func TestTimeSinceExact(t *testing.T) {
	seed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tm, err := New("Water", seed)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		now  time.Time
		want int64
	}{
		{seed, 0},
		{seed.Add(1 * time.Second), 1},
		{seed.Add(3*time.Hour + 25*time.Minute + 45*time.Second), 12345},
		// Trigger time in the future: result must be negative, not clamped.
		{seed.Add(-90 * time.Second), -90},
	}

	for _, tt := range tests {
		if got := tm.TimeSince(tt.now); got != tt.want {
			t.Errorf("TimeSince(%v): got %d, want %d", tt.now, got, tt.want)
		}
	}
}

func TestTriggerOverwrites(t *testing.T) {
	seed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tm, _ := New("Water", seed)

	ts := seed.Add(10 * time.Minute)
	tm.Trigger(ts)
	if !tm.LastTrigger().Equal(ts) {
		t.Errorf("LastTrigger: got %v, want %v", tm.LastTrigger(), ts)
	}
	if got := tm.TimeSince(ts); got != 0 {
		t.Errorf("TimeSince immediately after trigger: got %d, want 0", got)
	}

	// A trigger may also move the timestamp backwards.
	earlier := seed.Add(-time.Hour)
	tm.Trigger(earlier)
	if !tm.LastTrigger().Equal(earlier) {
		t.Errorf("LastTrigger after backwards trigger: got %v, want %v", tm.LastTrigger(), earlier)
	}
}

func TestManualHandleAction(t *testing.T) {
	seed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tm, _ := New("Water", seed)

	now := seed.Add(time.Hour)
	if !tm.HandleAction(now) {
		t.Error("manual HandleAction should always consume the press")
	}
	if !tm.LastTrigger().Equal(now) {
		t.Errorf("LastTrigger: got %v, want %v", tm.LastTrigger(), now)
	}
	if tm.Pollable() {
		t.Error("manual timer should not be pollable")
	}
}

func TestPollSourceDue(t *testing.T) {
	seed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	src := NewPollSource(&fakePoller{}, 300*time.Second, seed)

	tests := []struct {
		now  time.Time
		want bool
	}{
		{seed, false},
		{seed.Add(299 * time.Second), false},
		{seed.Add(300 * time.Second), true},
		{seed.Add(301 * time.Second), true},
	}

	for _, tt := range tests {
		if got := src.Due(tt.now); got != tt.want {
			t.Errorf("Due(%v): got %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestPollSuccessAdvancesBothTimestamps(t *testing.T) {
	seed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	event := seed.Add(30 * time.Minute)
	p := &fakePoller{event: event, triggered: true}
	tm, err := NewPolling("GitHub", seed, NewPollSource(p, 300*time.Second, seed))
	if err != nil {
		t.Fatalf("NewPolling: %v", err)
	}

	now := seed.Add(time.Hour)
	ok, err := tm.Poll(now)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if !ok {
		t.Error("Poll should report success")
	}
	if !tm.LastTrigger().Equal(event) {
		t.Errorf("LastTrigger: got %v, want %v", tm.LastTrigger(), event)
	}
	if !tm.Source().LastPoll().Equal(now) {
		t.Errorf("LastPoll: got %v, want %v", tm.Source().LastPoll(), now)
	}
}

func TestPollSuccessWithoutTrigger(t *testing.T) {
	// The freeze tracker fetches fine at sub-zero temperatures: the poll
	// clock advances but the trigger time must not move.
	seed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p := &fakePoller{triggered: false}
	tm, _ := NewPolling("Above 0C", seed, NewPollSource(p, 900*time.Second, seed))

	now := seed.Add(time.Hour)
	ok, err := tm.Poll(now)
	if err != nil || !ok {
		t.Fatalf("Poll: ok=%v err=%v", ok, err)
	}
	if !tm.LastTrigger().Equal(seed) {
		t.Errorf("LastTrigger moved on non-triggering poll: got %v", tm.LastTrigger())
	}
	if !tm.Source().LastPoll().Equal(now) {
		t.Errorf("LastPoll: got %v, want %v", tm.Source().LastPoll(), now)
	}
}

func TestFailedPollLeavesTimestamps(t *testing.T) {
	seed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p := &fakePoller{err: errors.New("connection refused")}
	tm, _ := NewPolling("GitHub", seed, NewPollSource(p, 300*time.Second, seed))

	now := seed.Add(301 * time.Second)
	ok, err := tm.Poll(now)
	if ok {
		t.Error("failed Poll should report failure")
	}
	if err == nil {
		t.Error("failed Poll should return the error")
	}
	if !tm.LastTrigger().Equal(seed) {
		t.Errorf("LastTrigger changed on failure: got %v", tm.LastTrigger())
	}
	if !tm.Source().LastPoll().Equal(seed) {
		t.Errorf("LastPoll changed on failure: got %v", tm.Source().LastPoll())
	}
	// No backoff: the source must still be due on the very next check.
	if !tm.Source().Due(now.Add(time.Second)) {
		t.Error("source should remain due after a failed poll")
	}
}

func TestCheckPollOnlyWhenDue(t *testing.T) {
	seed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p := &fakePoller{triggered: true, event: seed}
	tm, _ := NewPolling("GitHub", seed, NewPollSource(p, 300*time.Second, seed))

	if ok, _ := tm.CheckPoll(seed.Add(100 * time.Second)); ok {
		t.Error("CheckPoll before the interval should not poll")
	}
	if p.calls != 0 {
		t.Errorf("poller called %d times before due", p.calls)
	}

	if ok, _ := tm.CheckPoll(seed.Add(300 * time.Second)); !ok {
		t.Error("CheckPoll at the interval should poll")
	}
	if p.calls != 1 {
		t.Errorf("poller calls: got %d, want 1", p.calls)
	}
}

func TestPollableHandleActionForcesRefresh(t *testing.T) {
	seed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	event := seed.Add(5 * time.Minute)
	p := &fakePoller{event: event, triggered: true}
	tm, _ := NewPolling("GitHub", seed, NewPollSource(p, 300*time.Second, seed))

	// Not due yet, but the action press forces an immediate poll.
	now := seed.Add(10 * time.Second)
	if !tm.HandleAction(now) {
		t.Error("HandleAction should report the successful poll")
	}
	if p.calls != 1 {
		t.Errorf("poller calls: got %d, want 1", p.calls)
	}
	if !tm.LastTrigger().Equal(event) {
		t.Errorf("LastTrigger: got %v, want %v", tm.LastTrigger(), event)
	}

	p.err = errors.New("boom")
	if tm.HandleAction(now.Add(time.Second)) {
		t.Error("HandleAction should report a failed poll")
	}
}
