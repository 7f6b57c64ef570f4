// internal/poller/builder.go
package poller

import (
	"fmt"
	"time"

	"github.com/tamzrod/adc-replicator/internal/ads7828"
	"github.com/tamzrod/adc-replicator/internal/bus"
	cfg "github.com/tamzrod/adc-replicator/internal/config"
	"github.com/tamzrod/adc-replicator/internal/logger"
)

// Build constructs a Poller over the unit's ADS7828 and wires the hardware
// lifecycle: optional power line first, then the bus handle, then the device.
// Fails fast at startup. The returned closer releases everything in reverse.
func Build(u cfg.UnitConfig, log *logger.Logger) (*Poller, func() error, error) {
	ref, err := ads7828.ParseReference(u.Source.Reference)
	if err != nil {
		return nil, nil, fmt.Errorf("poller: unit %s: %w", u.ID, err)
	}

	var power *bus.PowerLine
	if pl := u.Source.PowerLine; pl != nil {
		power, err = bus.OpenPowerLine(pl.Chip, pl.Line, "adc-replicator/"+u.ID)
		if err != nil {
			return nil, nil, err
		}
		if err := power.On(); err != nil {
			power.Close()
			return nil, nil, err
		}
		log.Infof("analog rail %s on", power)
	}

	closePower := func() error {
		if power == nil {
			return nil
		}
		return power.Close()
	}

	conn, err := bus.Open(bus.Config{
		Driver: u.Source.Bus.Driver,
		Name:   u.Source.Bus.Name,
	}, u.Source.Address)
	if err != nil {
		closePower()
		return nil, nil, err
	}

	dev, err := ads7828.New(conn,
		ads7828.WithLogger(log),
		ads7828.WithReference(ref),
	)
	if err != nil {
		conn.Close()
		closePower()
		return nil, nil, err
	}

	p, err := New(
		Config{
			UnitID:   u.ID,
			Interval: time.Duration(u.Poll.IntervalMs) * time.Millisecond,
		},
		dev,
	)
	if err != nil {
		dev.Close()
		closePower()
		return nil, nil, err
	}

	log.Infof("ads7828 0x%02X on %s/%s, reference %s, every %dms",
		dev.Address(), u.Source.Bus.Driver, u.Source.Bus.Name, dev.Reference(), u.Poll.IntervalMs)

	closer := func() error {
		devErr := dev.Close()
		powerErr := closePower()
		if devErr != nil {
			return devErr
		}
		return powerErr
	}

	return p, closer, nil
}
