// Package lcd provides the 16x2 character display sink with hardware
// abstraction. The real implementation drives an HD44780 with a PCF8574 I2C
// backpack over the Linux i2c-dev interface; the fake records writes for
// tests.
package lcd

// Display geometry of the reference device.
const (
	Cols = 16
	Rows = 2
)

// Screen is the character-grid sink the display controller draws on.
// Writes past the end of a row are truncated by the hardware; callers keep
// text within Cols.
type Screen interface {
	// Clear blanks the whole display and homes the cursor.
	Clear() error

	// SetCursor moves the write position to the given column and row.
	SetCursor(col, row int) error

	// Write prints text at the current cursor position.
	Write(text string) error
}

// Default I2C parameters for the reference device (PCF8574T backpack).
const (
	DefaultBus  = "/dev/i2c-1"
	DefaultAddr = 0x27
)
