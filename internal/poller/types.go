// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/adc-replicator/internal/ads7828"
)

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	UnitID string
	At     time.Time

	// Readings is the channel buffer right after the cycle.
	// Failed channels hold ads7828.NoReading.
	Readings [ads7828.NumChannels]ads7828.Reading

	// FailedMask has bit n set when channel n failed this cycle.
	FailedMask uint16

	Err error // non-nil means at least one channel failed
}

// Failed reports whether channel ch failed in this cycle.
func (r PollResult) Failed(ch ads7828.Channel) bool {
	return r.FailedMask&(1<<ch) != 0
}
