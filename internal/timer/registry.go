package timer

import "fmt"

// Registry is a fixed, ordered collection of timers with a selection cursor.
// The set is established at startup and never changes afterwards; the
// registry owns its timers for the life of the process.
type Registry struct {
	timers   []*Timer
	selected int
}

// NewRegistry creates a registry over the given timers. At least one timer
// is required.
func NewRegistry(timers []*Timer) (*Registry, error) {
	if len(timers) == 0 {
		return nil, fmt.Errorf("timer: registry needs at least one timer")
	}
	for i, t := range timers {
		if t == nil {
			return nil, fmt.Errorf("timer: registry slot %d is nil", i)
		}
	}
	return &Registry{timers: timers}, nil
}

// Len returns the number of timers.
func (r *Registry) Len() int {
	return len(r.timers)
}

// Selected returns the index of the current timer.
func (r *Registry) Selected() int {
	return r.selected
}

// Current returns the timer at the selection cursor.
func (r *Registry) Current() *Timer {
	return r.timers[r.selected]
}

// At returns the timer at index i.
func (r *Registry) At(i int) *Timer {
	return r.timers[i]
}

// Next advances the cursor, wrapping from the last timer to the first.
func (r *Registry) Next() {
	r.selected = (r.selected + 1) % len(r.timers)
}

// Prev retreats the cursor, wrapping from the first timer to the last.
// The index never goes negative.
func (r *Registry) Prev() {
	r.selected = (r.selected + len(r.timers) - 1) % len(r.timers)
}
