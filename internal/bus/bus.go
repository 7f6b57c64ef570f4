// internal/bus/bus.go

// Package bus provides the I2C transports behind ads7828.Conn.
// Each handle is bound to one 7-bit address and owned by one device.
package bus

import (
	"fmt"

	"github.com/tamzrod/adc-replicator/internal/ads7828"
)

// Transport drivers.
const (
	DriverI2CDev = "i2cdev" // Linux /dev/i2c-N character device
	DriverPeriph = "periph" // periph.io host drivers
)

// Config selects a transport and the bus it talks to.
// For i2cdev Name is a device path (/dev/i2c-1); for periph it is a periph
// bus name ("1", "I2C1") or empty for the first bus found.
type Config struct {
	Driver string
	Name   string
}

// KnownDriver reports whether d names a supported transport.
func KnownDriver(d string) bool {
	switch d {
	case DriverI2CDev, DriverPeriph:
		return true
	default:
		return false
	}
}

// Open returns a handle to the device at addr on the configured bus.
// One attempt, no retries.
func Open(cfg Config, addr uint8) (ads7828.Conn, error) {
	switch cfg.Driver {
	case DriverI2CDev, "":
		d, err := OpenI2CDev(cfg.Name, addr)
		if err != nil {
			return nil, err
		}
		return d, nil
	case DriverPeriph:
		p, err := OpenPeriph(cfg.Name, addr)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("bus: unknown driver %q", cfg.Driver)
	}
}
