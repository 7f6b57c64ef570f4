// internal/bus/periph.go
package bus

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// Periph is a handle opened through the periph.io host registry.
// The handle owns the bus it opened and closes it on Close.
type Periph struct {
	bus  i2c.BusCloser
	dev  *i2c.Dev
	addr uint8
}

// OpenPeriph initialises periph host drivers and opens bus name.
func OpenPeriph(name string, addr uint8) (*Periph, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("bus periph: host init: %w", err)
	}

	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("bus periph: open %q: %w", name, err)
	}

	return &Periph{
		bus:  b,
		dev:  &i2c.Dev{Bus: b, Addr: uint16(addr)},
		addr: addr,
	}, nil
}

func (p *Periph) Addr() uint8 { return p.addr }

// Write sends w as one write-only transaction.
func (p *Periph) Write(w []byte) error {
	if err := p.dev.Tx(w, nil); err != nil {
		return fmt.Errorf("bus periph: write 0x%02X: %w", p.addr, err)
	}
	return nil
}

// Read fills r with one read-only transaction.
func (p *Periph) Read(r []byte) error {
	if err := p.dev.Tx(nil, r); err != nil {
		return fmt.Errorf("bus periph: read 0x%02X: %w", p.addr, err)
	}
	return nil
}

func (p *Periph) Close() error {
	return p.bus.Close()
}
