//go:build !linux

package lcd

import "errors"

// Device is not available on non-Linux platforms.
type Device struct{}

// Open returns an error on non-Linux platforms.
func Open(busPath string, addr uint8) (*Device, error) {
	return nil, errors.New("lcd: not supported on this platform (requires Linux i2c-dev)")
}

// Clear is not implemented on non-Linux platforms.
func (d *Device) Clear() error {
	return errors.New("lcd: not supported")
}

// SetCursor is not implemented on non-Linux platforms.
func (d *Device) SetCursor(col, row int) error {
	return errors.New("lcd: not supported")
}

// Write is not implemented on non-Linux platforms.
func (d *Device) Write(text string) error {
	return errors.New("lcd: not supported")
}

// Close is not implemented on non-Linux platforms.
func (d *Device) Close() error {
	return nil
}
