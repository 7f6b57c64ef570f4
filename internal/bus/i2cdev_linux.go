// internal/bus/i2cdev_linux.go

//go:build linux

package bus

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// i2cSlave is the I2C_SLAVE ioctl from <linux/i2c-dev.h>.
const i2cSlave = 0x0703

// I2CDev is a plain-I2C handle on a Linux i2c-dev character device.
// Every Write/Read is its own START...STOP message.
type I2CDev struct {
	path string
	addr uint8
	fd   int
}

// OpenI2CDev opens path and binds the descriptor to addr.
func OpenI2CDev(path string, addr uint8) (*I2CDev, error) {
	if path == "" {
		return nil, errors.New("bus i2cdev: device path required")
	}

	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("bus i2cdev: open %s: %w", path, err)
	}

	if err := unix.IoctlSetInt(fd, i2cSlave, int(addr)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bus i2cdev: I2C_SLAVE 0x%02X on %s: %w", addr, path, err)
	}

	return &I2CDev{path: path, addr: addr, fd: fd}, nil
}

func (d *I2CDev) Addr() uint8 { return d.addr }

func (d *I2CDev) Write(p []byte) error {
	if d.fd < 0 {
		return errors.New("bus i2cdev: closed")
	}
	n, err := unix.Write(d.fd, p)
	if err != nil {
		return fmt.Errorf("bus i2cdev: write 0x%02X: %w", d.addr, err)
	}
	if n != len(p) {
		return fmt.Errorf("bus i2cdev: short write 0x%02X (%d of %d bytes)", d.addr, n, len(p))
	}
	return nil
}

func (d *I2CDev) Read(p []byte) error {
	if d.fd < 0 {
		return errors.New("bus i2cdev: closed")
	}
	n, err := unix.Read(d.fd, p)
	if err != nil {
		return fmt.Errorf("bus i2cdev: read 0x%02X: %w", d.addr, err)
	}
	if n != len(p) {
		return fmt.Errorf("bus i2cdev: short read 0x%02X (%d of %d bytes)", d.addr, n, len(p))
	}
	return nil
}

// Close releases the descriptor. Safe to call twice.
func (d *I2CDev) Close() error {
	if d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}
