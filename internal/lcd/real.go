//go:build linux

package lcd

import (
	"fmt"

	"golang.org/x/sys/unix"
	"tinygo.org/x/drivers/hd44780i2c"
)

// i2cSlave is the i2c-dev ioctl selecting the target chip address.
const i2cSlave = 0x0703

// i2cBus adapts a Linux i2c-dev file descriptor to the driver's I2C
// interface (Tx writes w then reads into r, addressed per transaction).
type i2cBus struct {
	fd int
}

func (b *i2cBus) Tx(addr uint16, w, r []byte) error {
	if err := unix.IoctlSetInt(b.fd, i2cSlave, int(addr)); err != nil {
		return fmt.Errorf("select i2c address %#x: %w", addr, err)
	}
	if len(w) > 0 {
		if _, err := unix.Write(b.fd, w); err != nil {
			return fmt.Errorf("i2c write: %w", err)
		}
	}
	if len(r) > 0 {
		if _, err := unix.Read(b.fd, r); err != nil {
			return fmt.Errorf("i2c read: %w", err)
		}
	}
	return nil
}

// Device is a 16x2 HD44780 display behind a PCF8574 I2C backpack.
type Device struct {
	bus *i2cBus
	lcd hd44780i2c.Device
}

// Open initializes the display on the given i2c-dev bus and chip address
// (PCF8574T is usually 0x27, PCF8574AT 0x3F).
func Open(busPath string, addr uint8) (*Device, error) {
	fd, err := unix.Open(busPath, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", busPath, err)
	}

	bus := &i2cBus{fd: fd}
	d := &Device{bus: bus, lcd: hd44780i2c.New(bus, addr)}
	if err := d.lcd.Configure(hd44780i2c.Config{Width: Cols, Height: Rows}); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("configure lcd at %#x: %w", addr, err)
	}
	d.lcd.BacklightOn(true)
	return d, nil
}

// Clear blanks the display.
func (d *Device) Clear() error {
	d.lcd.ClearDisplay()
	return nil
}

// SetCursor moves the write position.
func (d *Device) SetCursor(col, row int) error {
	d.lcd.SetCursor(uint8(col), uint8(row))
	return nil
}

// Write prints text at the cursor.
func (d *Device) Write(text string) error {
	d.lcd.Print([]byte(text))
	return nil
}

// Close blanks the display and releases the bus.
func (d *Device) Close() error {
	d.lcd.ClearDisplay()
	d.lcd.BacklightOn(false)
	return unix.Close(d.bus.fd)
}
