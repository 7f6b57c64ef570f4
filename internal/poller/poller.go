// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"math/bits"
	"time"

	"github.com/tamzrod/adc-replicator/internal/ads7828"
)

// Sensor is anything that refreshes its own buffer on demand.
type Sensor interface {
	Poll()
}

// Snapshotter exposes the buffer a Sensor refreshes.
type Snapshotter interface {
	Readings() [ads7828.NumChannels]ads7828.Reading
}

// Source is what the poller drives. *ads7828.Device satisfies it.
type Source interface {
	Sensor
	Snapshotter
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	UnitID   string
	Interval time.Duration
}

// Poller is a dumb, clock-driven reader.
type Poller struct {
	cfg Config
	src Source
}

// New creates a poller with immutable config.
func New(cfg Config, src Source) (*Poller, error) {
	if cfg.UnitID == "" {
		return nil, errors.New("poller: unit id required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if src == nil {
		return nil, errors.New("poller: source required")
	}
	return &Poller{cfg: cfg, src: src}, nil
}

// PollOnce performs exactly one poll cycle.
// Fail-soft: every channel is attempted, and the result always carries the
// full buffer. Err summarizes the failed channels.
func (p *Poller) PollOnce() PollResult {
	p.src.Poll()

	res := PollResult{
		UnitID:   p.cfg.UnitID,
		At:       time.Now(),
		Readings: p.src.Readings(),
	}

	for ch, r := range res.Readings {
		if !r.Valid() {
			res.FailedMask |= 1 << uint(ch)
		}
	}

	if res.FailedMask != 0 {
		res.Err = fmt.Errorf(
			"poller: %d/%d channels failed (mask 0x%02X): %w",
			bits.OnesCount16(res.FailedMask),
			ads7828.NumChannels,
			res.FailedMask,
			ads7828.ErrIO,
		)
	}

	return res
}
