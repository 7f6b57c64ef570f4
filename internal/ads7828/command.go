// internal/ads7828/command.go
package ads7828

import "fmt"

// Reference selects the converter's full-scale reference.
type Reference uint8

const (
	RefInternal Reference = iota // internal 2.5V reference (default)
	RefExternal                  // external VREF pin
)

func (r Reference) String() string {
	switch r {
	case RefInternal:
		return "internal"
	case RefExternal:
		return "external"
	default:
		return fmt.Sprintf("Reference(%d)", uint8(r))
	}
}

// ParseReference maps the config spelling onto a Reference.
func ParseReference(s string) (Reference, error) {
	switch s {
	case "internal", "":
		return RefInternal, nil
	case "external":
		return RefExternal, nil
	default:
		return RefInternal, fmt.Errorf("ads7828: unknown reference %q", s)
	}
}

// Command byte layout (bit 7 = MSB):
//
//	7    SD   1 = single-ended
//	6:4  C2-0 channel select
//	3    PD1  1 = internal reference on
//	2    PD0  1 = A/D stays powered between conversions
//	1:0  unused
const (
	cmdSingleEnded byte = 1 << 7
	cmdChannelPos       = 4
	cmdRefInternal byte = 1 << 3
	cmdPowerOn     byte = 1 << 2
)

// Command builds the command byte for a single-ended conversion of ch.
// Pure; ch is masked to 3 bits.
func Command(ch Channel, ref Reference) byte {
	b := cmdSingleEnded | byte(ch&0x07)<<cmdChannelPos | cmdPowerOn
	if ref == RefInternal {
		b |= cmdRefInternal
	}
	return b
}
