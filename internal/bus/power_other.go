// internal/bus/power_other.go

//go:build !linux

package bus

import "errors"

// PowerLine is only available on Linux.
type PowerLine struct{}

func OpenPowerLine(chip string, offset int, consumer string) (*PowerLine, error) {
	return nil, errors.New("bus power: gpio character device not supported on this platform")
}

func (p *PowerLine) String() string { return "" }
func (p *PowerLine) On() error      { return nil }
func (p *PowerLine) Off() error     { return nil }
func (p *PowerLine) Close() error   { return nil }
