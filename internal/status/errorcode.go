// internal/status/errorcode.go
package status

import (
	"errors"

	"github.com/tamzrod/adc-replicator/internal/ads7828"
)

// Error codes written to SlotLastErrorCode.
const (
	CodeNone           uint16 = 0
	CodeGeneric        uint16 = 1
	CodeBusIO          uint16 = 2
	CodeInvalidChannel uint16 = 3
)

// ErrorCode extracts a best-effort uint16 code from an error without assuming
// concrete types. Errors exposing Code() or ErrorCode() pass their value
// through; driver sentinels map to fixed codes; anything else is CodeGeneric.
func ErrorCode(err error) uint16 {
	if err == nil {
		return CodeNone
	}

	type coderA interface{ Code() uint16 }
	type coderB interface{ ErrorCode() uint16 }

	var a coderA
	if errors.As(err, &a) {
		return a.Code()
	}
	var b coderB
	if errors.As(err, &b) {
		return b.ErrorCode()
	}

	switch {
	case errors.Is(err, ads7828.ErrIO):
		return CodeBusIO
	case errors.Is(err, ads7828.ErrInvalidChannel):
		return CodeInvalidChannel
	}

	return CodeGeneric
}
