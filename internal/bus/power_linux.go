// internal/bus/power_linux.go

//go:build linux

package bus

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// PowerLine is a GPIO output that switches the analog front-end rail.
// It is requested low and driven high by On.
type PowerLine struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
	name string
}

// OpenPowerLine requests offset on chip (e.g. "gpiochip0") as an output.
func OpenPowerLine(chip string, offset int, consumer string) (*PowerLine, error) {
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, fmt.Errorf("bus power: open %s: %w", chip, err)
	}

	l, err := c.RequestLine(offset,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer(consumer))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("bus power: request %s line %d: %w", chip, offset, err)
	}

	return &PowerLine{
		chip: c,
		line: l,
		name: fmt.Sprintf("%s/%d", chip, offset),
	}, nil
}

func (p *PowerLine) String() string { return p.name }

func (p *PowerLine) On() error {
	if err := p.line.SetValue(1); err != nil {
		return fmt.Errorf("bus power: %s on: %w", p.name, err)
	}
	return nil
}

func (p *PowerLine) Off() error {
	if err := p.line.SetValue(0); err != nil {
		return fmt.Errorf("bus power: %s off: %w", p.name, err)
	}
	return nil
}

// Close drives the rail low and releases the line and chip.
func (p *PowerLine) Close() error {
	offErr := p.Off()
	lineErr := p.line.Close()
	chipErr := p.chip.Close()
	if offErr != nil {
		return offErr
	}
	if lineErr != nil {
		return lineErr
	}
	return chipErr
}
