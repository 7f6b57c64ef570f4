// internal/bus/i2cdev_linux_test.go

//go:build linux

package bus

import (
	"testing"

	"golang.org/x/sys/unix"
)

// pipeDev wires an I2CDev to one end of a pipe; i2c-dev is just read/write on
// a descriptor once I2C_SLAVE is set.
func pipeDev(t *testing.T, writeEnd bool) (*I2CDev, int) {
	t.Helper()

	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		t.Fatalf("pipe: %v", err)
	}

	if writeEnd {
		t.Cleanup(func() { unix.Close(fds[0]) })
		return &I2CDev{path: "pipe", addr: 0x48, fd: fds[1]}, fds[0]
	}
	t.Cleanup(func() { unix.Close(fds[1]) })
	return &I2CDev{path: "pipe", addr: 0x48, fd: fds[0]}, fds[1]
}

func TestI2CDev_WriteThenPeerRead(t *testing.T) {
	d, peer := pipeDev(t, true)
	defer d.Close()

	if err := d.Write([]byte{0x8C}); err != nil {
		t.Fatalf("Write err=%v", err)
	}

	buf := make([]byte, 1)
	if _, err := unix.Read(peer, buf); err != nil {
		t.Fatalf("peer read: %v", err)
	}
	if buf[0] != 0x8C {
		t.Fatalf("expected 0x8C, got 0x%02X", buf[0])
	}
}

func TestI2CDev_ReadFull(t *testing.T) {
	d, peer := pipeDev(t, false)
	defer d.Close()

	if _, err := unix.Write(peer, []byte{0x01, 0x23}); err != nil {
		t.Fatalf("peer write: %v", err)
	}

	buf := make([]byte, 2)
	if err := d.Read(buf); err != nil {
		t.Fatalf("Read err=%v", err)
	}
	if buf[0] != 0x01 || buf[1] != 0x23 {
		t.Fatalf("unexpected bytes % X", buf)
	}
}

func TestI2CDev_ShortRead(t *testing.T) {
	d, peer := pipeDev(t, false)
	defer d.Close()

	if _, err := unix.Write(peer, []byte{0x01}); err != nil {
		t.Fatalf("peer write: %v", err)
	}

	if err := d.Read(make([]byte, 2)); err == nil {
		t.Fatalf("expected short read error")
	}
}

func TestI2CDev_CloseTwice(t *testing.T) {
	d, _ := pipeDev(t, true)

	if err := d.Close(); err != nil {
		t.Fatalf("first Close err=%v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second Close err=%v", err)
	}
	if err := d.Write([]byte{0x00}); err == nil {
		t.Fatalf("write after close should fail")
	}
}
