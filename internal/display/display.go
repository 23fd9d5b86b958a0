// Package display drives the LCD from the timer registry: one Update per
// control-loop tick covering poll-check, button handling, and rendering.
// All hardware goes through the lcd and button interfaces; time and sleep
// are injectable, so the package is fully testable with fakes.
package display

import (
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/sweeney/timesince/internal/button"
	"github.com/sweeney/timesince/internal/lcd"
	"github.com/sweeney/timesince/internal/timer"
)

// EventKind classifies a tick event for telemetry.
type EventKind string

const (
	// EventTriggered is a manual timer reset by the action button.
	EventTriggered EventKind = "TRIGGERED"
	// EventRefreshed is a poll (scheduled or forced) that moved a timer's
	// trigger time.
	EventRefreshed EventKind = "REFRESHED"
)

// Event records that a timer's trigger time changed during a tick.
type Event struct {
	Timestamp time.Time
	Kind      EventKind
	Timer     string
	// ElapsedSeconds is the timer's elapsed time right after the change.
	ElapsedSeconds int64
}

// unrendered marks the elapsed-seconds cache as invalid, forcing the next
// render to write the time field.
const unrendered = math.MinInt64

// timeRow is the display row carrying the elapsed time.
const timeRow = 1

// Controller owns the selection cursor's behavior and the render cache.
// It is not safe for concurrent use; the single control loop owns it.
type Controller struct {
	reg      *timer.Registry
	screen   lcd.Screen
	buttons  button.Reader
	debounce time.Duration
	sleep    func(time.Duration)

	prev        button.State
	lastName    string
	lastSeconds int64
}

// NewController creates a controller over the given registry and hardware.
// sleep is called after a detected button edge for debouncing; pass nil for
// time.Sleep.
func NewController(reg *timer.Registry, screen lcd.Screen, buttons button.Reader, debounce time.Duration, sleep func(time.Duration)) *Controller {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Controller{
		reg:         reg,
		screen:      screen,
		buttons:     buttons,
		debounce:    debounce,
		sleep:       sleep,
		lastSeconds: unrendered,
	}
}

// Update runs one tick: refresh the selected timer if its poll is due,
// handle the action button, render, then handle navigation. Every step is
// best-effort; an input or display failure never aborts the rest of the
// tick. The returned events describe trigger-time changes for telemetry.
func (c *Controller) Update(now time.Time) []Event {
	var events []Event

	// Only the selected timer polls; the others stay stale until the user
	// navigates to them.
	cur := c.reg.Current()
	if cur.Pollable() && cur.Source().Due(now) {
		if ev, ok := c.pollCurrent(cur, now); ok {
			events = append(events, ev)
		}
	}

	st, err := c.buttons.Read()
	if err != nil {
		log.Printf("display: button read: %v", err)
		c.render(now)
		return events
	}

	// Action fires on the idle-to-pressed edge only, so a held button
	// registers exactly once.
	if st.Action && !c.prev.Action {
		c.clearTimeField()
		before := cur.LastTrigger()
		if cur.HandleAction(now) && !cur.LastTrigger().Equal(before) {
			kind := EventTriggered
			if cur.Pollable() {
				kind = EventRefreshed
			}
			events = append(events, Event{
				Timestamp:      now,
				Kind:           kind,
				Timer:          cur.Name(),
				ElapsedSeconds: cur.TimeSince(now),
			})
		}
		c.sleep(c.debounce)
	}
	c.prev.Action = st.Action

	c.render(now)

	nav, err := c.buttons.Read()
	if err != nil {
		log.Printf("display: button read: %v", err)
		return events
	}
	if nav.Down && !c.prev.Down {
		c.reg.Next()
		c.sleep(c.debounce)
	}
	if nav.Up && !c.prev.Up {
		c.reg.Prev()
		c.sleep(c.debounce)
	}
	c.prev.Up, c.prev.Down = nav.Up, nav.Down

	return events
}

// pollCurrent runs the due poll and reports an event when the trigger time
// moved.
func (c *Controller) pollCurrent(cur *timer.Timer, now time.Time) (Event, bool) {
	before := cur.LastTrigger()
	ok, err := cur.Poll(now)
	if err != nil {
		log.Printf("display: poll %s: %v", cur.Name(), err)
		return Event{}, false
	}
	if !ok || cur.LastTrigger().Equal(before) {
		return Event{}, false
	}
	return Event{
		Timestamp:      now,
		Kind:           EventRefreshed,
		Timer:          cur.Name(),
		ElapsedSeconds: cur.TimeSince(now),
	}, true
}

// render updates the screen from the selected timer. A name change redraws
// everything; an elapsed-seconds change rewrites only the time field; no
// change issues no display I/O at all.
func (c *Controller) render(now time.Time) {
	cur := c.reg.Current()
	name := cur.Name()
	seconds := cur.TimeSince(now)

	switch {
	case name != c.lastName:
		if err := c.screen.Clear(); err != nil {
			log.Printf("display: clear: %v", err)
		}
		c.screen.SetCursor(0, 0)
		if err := c.screen.Write(name); err != nil {
			log.Printf("display: write name: %v", err)
		}
		c.writeTimeField(seconds)
		c.lastName = name
		c.lastSeconds = seconds
	case seconds != c.lastSeconds:
		c.writeTimeField(seconds)
		c.lastSeconds = seconds
	}
}

// writeTimeField draws the elapsed time right-aligned on the bottom row.
func (c *Controller) writeTimeField(seconds int64) {
	text := FormatElapsed(seconds)
	col := lcd.Cols - len(text)
	if col < 0 {
		col = 0
	}
	c.screen.SetCursor(col, timeRow)
	if err := c.screen.Write(text); err != nil {
		log.Printf("display: write time: %v", err)
	}
}

// clearTimeField blanks the bottom row so no stale digits linger around a
// shorter value, and invalidates the cache so the next render rewrites it.
func (c *Controller) clearTimeField() {
	c.screen.SetCursor(0, timeRow)
	if err := c.screen.Write(strings.Repeat(" ", lcd.Cols)); err != nil {
		log.Printf("display: clear time field: %v", err)
	}
	c.lastSeconds = unrendered
}

// FormatElapsed renders elapsed seconds as zero-padded HH:MM:SS. Hours grow
// past two digits as needed. Negative values (a trigger time in the future,
// e.g. clock skew) clamp to zero here; TimeSince itself stays exact.
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
