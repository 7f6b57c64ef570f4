// internal/ads7828/device.go

// Package ads7828 drives a TI ADS7828 8-channel 12-bit ADC over I2C.
//
// The device has no registers: every transaction writes one command byte that
// selects channel, reference and power mode, then reads the 2-byte result.
//
// Datasheet: http://www.ti.com/lit/ds/symlink/ads7828.pdf
package ads7828

import (
	"errors"
	"fmt"
)

// NumChannels is the number of single-ended inputs.
const NumChannels = 8

// Channel identifies one analog input, 0..7.
type Channel uint8

// Reading is one raw conversion result. Valid values are 0..MaxReading;
// NoReading means "no valid sample".
type Reading int16

const (
	NoReading  Reading = -1
	MaxReading Reading = 0x0FFF
)

// Valid reports whether r is a real sample.
func (r Reading) Valid() bool {
	return r >= 0 && r <= MaxReading
}

var (
	// ErrIO marks a failed bus write or read. Transient; the next poll retries.
	ErrIO = errors.New("ads7828: bus i/o failed")

	// ErrInvalidChannel is returned for a channel outside 0..7.
	ErrInvalidChannel = errors.New("ads7828: invalid channel")
)

// Conn is an exclusively owned handle to one device on the bus.
// Write and Read block until the transfer completes or fails.
type Conn interface {
	Addr() uint8
	Write(p []byte) error
	Read(p []byte) error
	Close() error
}

// Logger receives transient I/O diagnostics.
type Logger interface {
	Warnf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...interface{}) {}

// Option configures a Device at construction.
type Option func(*Device)

// WithLogger routes I/O diagnostics to l.
func WithLogger(l Logger) Option {
	return func(d *Device) {
		if l != nil {
			d.log = l
		}
	}
}

// WithReference sets the initial reference (default RefInternal).
func WithReference(ref Reference) Option {
	return func(d *Device) { d.ref = ref }
}

// Device is one ADS7828.
//
// Device does no locking. The caller must make sure only one goroutine runs
// transactions at a time, and that SetReference does not race a Poll.
type Device struct {
	conn Conn
	addr uint8
	ref  Reference
	log  Logger

	readings [NumChannels]Reading
}

// New validates the address behind conn and returns a Device with every
// channel set to NoReading. An invalid address returns ErrInvalidAddress and
// no device; conn is left open for the caller to close.
func New(conn Conn, opts ...Option) (*Device, error) {
	if conn == nil {
		return nil, errors.New("ads7828: nil bus handle")
	}

	addr := conn.Addr()
	if !ValidAddress(addr) {
		return nil, fmt.Errorf("%w: 0x%02X (want 0x%02X-0x%02X)", ErrInvalidAddress, addr, AddressBase, AddressMax)
	}

	d := &Device{
		conn: conn,
		addr: addr,
		ref:  RefInternal,
		log:  nopLogger{},
	}
	for _, o := range opts {
		o(d)
	}
	for i := range d.readings {
		d.readings[i] = NoReading
	}
	return d, nil
}

// Address returns the 7-bit bus address.
func (d *Device) Address() uint8 { return d.addr }

// SetReference changes the reference used from the next transaction on.
func (d *Device) SetReference(ref Reference) { d.ref = ref }

// Reference returns the reference used by the next transaction.
func (d *Device) Reference() Reference { return d.ref }

// ReadChannel runs one conversion on ch and returns it, bypassing the buffer.
// Prefer Poll + Reading for periodic sampling.
//
// On failure it returns NoReading and an error wrapping ErrIO (or
// ErrInvalidChannel). Nothing is retried.
func (d *Device) ReadChannel(ch Channel) (Reading, error) {
	if ch >= NumChannels {
		return NoReading, fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}

	cmd := Command(ch, d.ref)

	if err := d.conn.Write([]byte{cmd}); err != nil {
		d.log.Warnf("ads7828 0x%02X: ch%d write command 0x%02X failed: %v", d.addr, ch, cmd, err)
		return NoReading, fmt.Errorf("%w: ch%d write: %v", ErrIO, ch, err)
	}

	var buf [2]byte
	if err := d.conn.Read(buf[:]); err != nil {
		d.log.Warnf("ads7828 0x%02X: ch%d read result failed: %v", d.addr, ch, err)
		return NoReading, fmt.Errorf("%w: ch%d read: %v", ErrIO, ch, err)
	}

	return decode(buf), nil
}

// decode drops the upper nibble of the big-endian result word.
func decode(b [2]byte) Reading {
	raw := uint16(b[0])<<8 | uint16(b[1])
	return Reading(raw & uint16(MaxReading))
}

// Poll samples channels 0..7 in order and stores each result, valid or
// NoReading. A failed channel does not stop the cycle.
func (d *Device) Poll() {
	for ch := Channel(0); ch < NumChannels; ch++ {
		r, _ := d.ReadChannel(ch)
		d.readings[ch] = r
	}
}

// Reading returns the most recent polled value of ch without I/O.
// It is NoReading before the first poll, after a failed transaction, or for
// a channel outside 0..7.
func (d *Device) Reading(ch Channel) Reading {
	if ch >= NumChannels {
		return NoReading
	}
	return d.readings[ch]
}

// Readings returns a copy of the channel buffer.
func (d *Device) Readings() [NumChannels]Reading {
	return d.readings
}

// Close releases the bus handle.
func (d *Device) Close() error {
	return d.conn.Close()
}
