// internal/config/normalize.go
package config

import "github.com/tamzrod/adc-replicator/internal/bus"

const (
	DefaultTimeoutMs = 1000
	DefaultReference = "internal"
	DeviceNameMax    = 16
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	for ui := range cfg.Replicator.Units {
		u := &cfg.Replicator.Units[ui]

		if u.Source.Bus.Driver == "" {
			u.Source.Bus.Driver = bus.DriverI2CDev
		}
		if u.Source.Reference == "" {
			u.Source.Reference = DefaultReference
		}
		if u.Source.TimeoutMs <= 0 {
			u.Source.TimeoutMs = DefaultTimeoutMs
		}

		for ti := range u.Targets {
			if u.Targets[ti].Kind == "" {
				u.Targets[ti].Kind = TargetKindModbus
			}
		}

		// Skip units that did not opt in to the status block
		if u.Source.StatusSlot == nil {
			continue
		}

		// ASCII already validated; truncate to max 16 characters
		if len(u.Source.DeviceName) > DeviceNameMax {
			u.Source.DeviceName = u.Source.DeviceName[:DeviceNameMax]
		}
		if u.Source.DeviceName == "" {
			u.Source.DeviceName = u.ID
			if len(u.Source.DeviceName) > DeviceNameMax {
				u.Source.DeviceName = u.Source.DeviceName[:DeviceNameMax]
			}
		}
	}
}
