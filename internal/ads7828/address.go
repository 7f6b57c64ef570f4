// internal/ads7828/address.go
package ads7828

import "errors"

// ErrInvalidAddress is a configuration error: the bus handle does not point
// at an ADS7828. It is never retried.
var ErrInvalidAddress = errors.New("ads7828: invalid device address")

// Valid 7-bit addresses are 0b10010XY, where X/Y are the A1/A0 strap pins.
const (
	AddressBase uint8 = 0x48
	AddressMax  uint8 = 0x4B

	addressMask uint8 = 0xFC
)

// ValidAddress reports whether addr is one of 0x48..0x4B.
func ValidAddress(addr uint8) bool {
	return addr&addressMask == AddressBase
}
