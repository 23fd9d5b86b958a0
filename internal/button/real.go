//go:build linux

package button

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads the buttons from actual hardware using the Linux GPIO
// character device.
type RealReader struct {
	chip   *gpiocdev.Chip
	up     *gpiocdev.Line
	down   *gpiocdev.Line
	action *gpiocdev.Line
}

// NewRealReader requests the three button lines as pulled-up inputs.
func NewRealReader(pinUp, pinDown, pinAction int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealReader{chip: chip}
	lines := []struct {
		pin  int
		name string
		dst  **gpiocdev.Line
	}{
		{pinUp, "up", &r.up},
		{pinDown, "down", &r.down},
		{pinAction, "action", &r.action},
	}
	for _, l := range lines {
		line, err := chip.RequestLine(l.pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", l.name, l.pin, err)
		}
		*l.dst = line
	}
	return r, nil
}

// Read samples all three lines. Active-low: raw 0 = pressed.
func (r *RealReader) Read() (State, error) {
	var s State
	reads := []struct {
		line *gpiocdev.Line
		name string
		dst  *bool
	}{
		{r.up, "up", &s.Up},
		{r.down, "down", &s.Down},
		{r.action, "action", &s.Action},
	}
	for _, rd := range reads {
		v, err := rd.line.Value()
		if err != nil {
			return State{}, fmt.Errorf("read %s pin: %w", rd.name, err)
		}
		*rd.dst = v == 0
	}
	return s, nil
}

// Close releases GPIO resources.
func (r *RealReader) Close() error {
	var firstErr error
	for _, line := range []*gpiocdev.Line{r.up, r.down, r.action} {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close line: %w", err)
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close chip: %w", err)
		}
	}
	return firstErr
}
