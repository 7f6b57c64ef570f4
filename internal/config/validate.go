// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/tamzrod/adc-replicator/internal/ads7828"
	"github.com/tamzrod/adc-replicator/internal/bus"
	"github.com/tamzrod/adc-replicator/internal/status"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}
	if len(cfg.Replicator.Units) == 0 {
		return fmt.Errorf("config: at least one unit required")
	}

	type span struct {
		start uint32
		end   uint32
		owner string
	}

	// ------------------------------------------------------------
	// UNIT / SOURCE VALIDATION
	// ------------------------------------------------------------

	ids := make(map[string]struct{})
	// key = bus driver | bus name | address
	devices := make(map[string]string)

	for _, u := range cfg.Replicator.Units {
		if u.ID == "" {
			return fmt.Errorf("unit: id required")
		}
		if _, dup := ids[u.ID]; dup {
			return fmt.Errorf("unit %q: duplicate id", u.ID)
		}
		ids[u.ID] = struct{}{}

		if u.Source.Bus.Driver != "" && !bus.KnownDriver(u.Source.Bus.Driver) {
			return fmt.Errorf("unit %q: unknown bus driver %q", u.ID, u.Source.Bus.Driver)
		}
		if (u.Source.Bus.Driver == "" || u.Source.Bus.Driver == bus.DriverI2CDev) && u.Source.Bus.Name == "" {
			return fmt.Errorf("unit %q: bus.name (device path) required for i2cdev", u.ID)
		}

		if !ads7828.ValidAddress(u.Source.Address) {
			return fmt.Errorf(
				"unit %q: address 0x%02X is not an ADS7828 address (0x%02X-0x%02X)",
				u.ID,
				u.Source.Address,
				ads7828.AddressBase,
				ads7828.AddressMax,
			)
		}

		// one driver instance per physical device; an omitted driver is i2cdev
		driver := u.Source.Bus.Driver
		if driver == "" {
			driver = bus.DriverI2CDev
		}
		devKey := fmt.Sprintf("%s|%s|%d", driver, u.Source.Bus.Name, u.Source.Address)
		if prev, exists := devices[devKey]; exists {
			return fmt.Errorf(
				"device collision: bus=%s address=0x%02X used by units %q and %q",
				u.Source.Bus.Name,
				u.Source.Address,
				prev,
				u.ID,
			)
		}
		devices[devKey] = u.ID

		if _, err := ads7828.ParseReference(u.Source.Reference); err != nil {
			return fmt.Errorf("unit %q: %v", u.ID, err)
		}

		if u.Poll.IntervalMs <= 0 {
			return fmt.Errorf("unit %q: poll.interval_ms must be > 0", u.ID)
		}

		if pl := u.Source.PowerLine; pl != nil {
			if pl.Chip == "" {
				return fmt.Errorf("unit %q: power_line.chip required", u.ID)
			}
			if pl.Line < 0 {
				return fmt.Errorf("unit %q: power_line.line must be >= 0", u.ID)
			}
		}

		// device_name sanity (ASCII only)
		for i := 0; i < len(u.Source.DeviceName); i++ {
			if u.Source.DeviceName[i] > 0x7F {
				return fmt.Errorf(
					"unit %q: device_name must contain ASCII characters only",
					u.ID,
				)
			}
		}

		for _, t := range u.Targets {
			if t.Endpoint == "" {
				return fmt.Errorf("unit %q: target %d has no endpoint", u.ID, t.ID)
			}
			switch t.Kind {
			case "", TargetKindModbus, TargetKindIngest:
			default:
				return fmt.Errorf("unit %q: target %d has unknown kind %q", u.ID, t.ID, t.Kind)
			}
		}

		if r := u.Telemetry.Redis; r != nil {
			if r.Addr == "" {
				return fmt.Errorf("unit %q: telemetry.redis.addr required", u.ID)
			}
			if r.Key == "" && r.Channel == "" {
				return fmt.Errorf("unit %q: telemetry.redis needs a key or a channel", u.ID)
			}
		}
	}

	// ------------------------------------------------------------
	// ENDPOINT PROTOCOL VALIDATION
	// ------------------------------------------------------------

	// one client per endpoint: every use must agree on the protocol
	kinds := make(map[string]string)
	useKind := func(endpoint, kind string) error {
		if kind == "" {
			kind = TargetKindModbus
		}
		if prev, ok := kinds[endpoint]; ok && prev != kind {
			return fmt.Errorf("endpoint %s used as both %s and %s", endpoint, prev, kind)
		}
		kinds[endpoint] = kind
		return nil
	}

	for _, u := range cfg.Replicator.Units {
		for _, t := range u.Targets {
			if err := useKind(t.Endpoint, t.Kind); err != nil {
				return err
			}
			if u.Source.StatusSlot != nil {
				if err := useKind(StatusEndpoint(cfg, t), t.Kind); err != nil {
					return err
				}
			}
		}
	}

	// ------------------------------------------------------------
	// DEVICE STATUS BLOCK VALIDATION (PER-TARGET, OPT-IN)
	// ------------------------------------------------------------

	// key = endpoint | status_unit_id | status_slot
	statusOwner := make(map[string]string)

	for _, u := range cfg.Replicator.Units {
		// status is opt-in
		if u.Source.StatusSlot == nil {
			continue
		}

		// status requires at least one target
		if len(u.Targets) == 0 {
			return fmt.Errorf(
				"unit %q: status_slot is set but no targets are defined",
				u.ID,
			)
		}

		slot := *u.Source.StatusSlot

		if (uint32(slot)+1)*status.SlotsPerDevice > 0x10000 {
			return fmt.Errorf("unit %q: status_slot %d out of register range", u.ID, slot)
		}

		for _, t := range u.Targets {
			// each target must declare status_unit_id
			if t.StatusUnitID == nil {
				return fmt.Errorf(
					"unit %q: status_slot is set but target %q has no status_unit_id",
					u.ID,
					t.Endpoint,
				)
			}

			key := fmt.Sprintf(
				"%s|%d|%d",
				StatusEndpoint(cfg, t),
				*t.StatusUnitID,
				slot,
			)

			if prev, exists := statusOwner[key]; exists && prev != u.ID {
				return fmt.Errorf(
					"status_slot collision: endpoint=%s status_unit_id=%d slot=%d used by units %q and %q",
					StatusEndpoint(cfg, t),
					*t.StatusUnitID,
					slot,
					prev,
					u.ID,
				)
			}

			statusOwner[key] = u.ID
		}
	}

	// ------------------------------------------------------------
	// DESTINATION MEMORY GEOMETRY VALIDATION
	// ------------------------------------------------------------

	// key = endpoint | unit_id
	spans := make(map[string][]span)

	claim := func(key string, s span) error {
		for _, e := range spans[key] {
			// the same block reached through two targets
			if e.owner == s.owner && e.start == s.start && e.end == s.end {
				return nil
			}
			// overlap check (inclusive)
			if !(s.end < e.start || s.start > e.end) {
				return fmt.Errorf(
					"memory overlap: %s range=%d-%d (%s) overlaps range=%d-%d (%s)",
					key,
					s.start,
					s.end,
					s.owner,
					e.start,
					e.end,
					e.owner,
				)
			}
		}
		spans[key] = append(spans[key], s)
		return nil
	}

	for _, u := range cfg.Replicator.Units {
		for _, t := range u.Targets {
			start := uint32(t.Address)
			end := start + ads7828.NumChannels - 1
			if end > 0xFFFF {
				return fmt.Errorf("unit %q: target %s address %d leaves no room for %d channels",
					u.ID, t.Endpoint, t.Address, ads7828.NumChannels)
			}

			key := fmt.Sprintf("endpoint=%s unit_id=%d", t.Endpoint, t.UnitID)
			if err := claim(key, span{start: start, end: end, owner: "unit " + u.ID + " data"}); err != nil {
				return err
			}

			if u.Source.StatusSlot == nil || t.StatusUnitID == nil {
				continue
			}

			// status blocks share register space with data when unit ids match
			sStart := uint32(*u.Source.StatusSlot) * status.SlotsPerDevice
			sKey := fmt.Sprintf("endpoint=%s unit_id=%d", StatusEndpoint(cfg, t), *t.StatusUnitID)
			if err := claim(sKey, span{
				start: sStart,
				end:   sStart + status.SlotsPerDevice - 1,
				owner: "unit " + u.ID + " status",
			}); err != nil {
				return err
			}
		}
	}

	return nil
}

// StatusEndpoint is where a target's status block lives: the shared status
// memory when configured, otherwise the target's own endpoint.
func StatusEndpoint(cfg *Config, t TargetConfig) string {
	if cfg != nil && cfg.Replicator.StatusMemory.Endpoint != "" {
		return cfg.Replicator.StatusMemory.Endpoint
	}
	return t.Endpoint
}
