// internal/bus/i2cdev_other.go

//go:build !linux

package bus

import "errors"

// I2CDev is only available on Linux.
type I2CDev struct{}

func OpenI2CDev(path string, addr uint8) (*I2CDev, error) {
	return nil, errors.New("bus i2cdev: not supported on this platform")
}

func (d *I2CDev) Addr() uint8          { return 0 }
func (d *I2CDev) Write(p []byte) error { return errors.New("bus i2cdev: not supported") }
func (d *I2CDev) Read(p []byte) error  { return errors.New("bus i2cdev: not supported") }
func (d *I2CDev) Close() error         { return nil }
