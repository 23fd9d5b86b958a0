// Package button provides the three-button input reader with hardware
// abstraction. The real implementation uses the Linux GPIO character
// device; the fake replays scripted samples for tests.
package button

// State is one sample of the logical button levels. true means pressed;
// the raw lines are active-low with pull-ups, so the real reader inverts.
type State struct {
	Up     bool
	Down   bool
	Action bool
}

// Reader samples the button states.
type Reader interface {
	// Read returns the current logical button levels.
	Read() (State, error)

	// Close releases GPIO resources.
	Close() error
}

// Pin definitions (BCM numbering).
const (
	DefaultPinUp     = 17
	DefaultPinDown   = 27
	DefaultPinAction = 22
)
