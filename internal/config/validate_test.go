// internal/config/validate_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// helper to build a unit quickly
func unit(id string, busName string, addr uint8, endpoint string, unitID uint8, regAddr uint16) UnitConfig {
	return UnitConfig{
		ID: id,
		Source: SourceConfig{
			Bus:     BusConfig{Driver: "i2cdev", Name: busName},
			Address: addr,
		},
		Poll: PollConfig{IntervalMs: 100},
		Targets: []TargetConfig{
			{
				ID:       1,
				Endpoint: endpoint,
				UnitID:   unitID,
				Address:  regAddr,
			},
		},
	}
}

func cfgOf(units ...UnitConfig) *Config {
	return &Config{Replicator: ReplicatorConfig{Units: units}}
}

func u8(v uint8) *uint8    { return &v }
func u16(v uint16) *uint16 { return &v }

// ---- tests ----

func TestValidate_Minimal(t *testing.T) {
	cfg := cfgOf(unit("u1", "/dev/i2c-1", 0x48, "ep1", 1, 0))

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_AddressRange(t *testing.T) {
	for _, addr := range []uint8{0x48, 0x49, 0x4A, 0x4B} {
		if err := Validate(cfgOf(unit("u1", "/dev/i2c-1", addr, "ep1", 1, 0))); err != nil {
			t.Fatalf("addr 0x%02X rejected: %v", addr, err)
		}
	}
	for _, addr := range []uint8{0x00, 0x40, 0x47, 0x4C, 0x50} {
		if err := Validate(cfgOf(unit("u1", "/dev/i2c-1", addr, "ep1", 1, 0))); err == nil {
			t.Fatalf("addr 0x%02X accepted", addr)
		}
	}
}

func TestValidate_SourceErrors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(u *UnitConfig)
	}{
		{"missing id", func(u *UnitConfig) { u.ID = "" }},
		{"unknown driver", func(u *UnitConfig) { u.Source.Bus.Driver = "smbus" }},
		{"missing device path", func(u *UnitConfig) { u.Source.Bus.Name = "" }},
		{"bad reference", func(u *UnitConfig) { u.Source.Reference = "vdd" }},
		{"zero interval", func(u *UnitConfig) { u.Poll.IntervalMs = 0 }},
		{"power line without chip", func(u *UnitConfig) { u.Source.PowerLine = &PowerLineConfig{Line: 3} }},
		{"non-ascii name", func(u *UnitConfig) { u.Source.DeviceName = "ADC-µ" }},
		{"target without endpoint", func(u *UnitConfig) { u.Targets[0].Endpoint = "" }},
		{"unknown target kind", func(u *UnitConfig) { u.Targets[0].Kind = "mqtt" }},
		{"redis without addr", func(u *UnitConfig) { u.Telemetry.Redis = &RedisConfig{Key: "adc"} }},
		{"redis without key or channel", func(u *UnitConfig) { u.Telemetry.Redis = &RedisConfig{Addr: "localhost:6379"} }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			u := unit("u1", "/dev/i2c-1", 0x48, "ep1", 1, 0)
			c.mut(&u)
			if err := Validate(cfgOf(u)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestValidate_PeriphAllowsEmptyBusName(t *testing.T) {
	u := unit("u1", "", 0x48, "ep1", 1, 0)
	u.Source.Bus.Driver = "periph"

	if err := Validate(cfgOf(u)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_DuplicateUnitID(t *testing.T) {
	cfg := cfgOf(
		unit("u1", "/dev/i2c-1", 0x48, "ep1", 1, 0),
		unit("u1", "/dev/i2c-1", 0x49, "ep1", 1, 8),
	)

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidate_SameDeviceTwice(t *testing.T) {
	cfg := cfgOf(
		unit("u1", "/dev/i2c-1", 0x48, "ep1", 1, 0),
		unit("u2", "/dev/i2c-1", 0x48, "ep1", 1, 8),
	)

	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "device collision") {
		t.Fatalf("expected device collision, got %v", err)
	}

	// omitted driver defaults to i2cdev, so this is still the same device
	a := unit("u1", "/dev/i2c-1", 0x48, "ep1", 1, 0)
	a.Source.Bus.Driver = ""
	b := unit("u2", "/dev/i2c-1", 0x48, "ep1", 1, 8)

	err = Validate(cfgOf(a, b))
	if err == nil || !strings.Contains(err.Error(), "device collision") {
		t.Fatalf("expected device collision with defaulted driver, got %v", err)
	}
}

func TestValidate_SameAddressDifferentBus(t *testing.T) {
	cfg := cfgOf(
		unit("u1", "/dev/i2c-1", 0x48, "ep1", 1, 0),
		unit("u2", "/dev/i2c-2", 0x48, "ep1", 1, 8),
	)

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_TouchingBlocksAllowed(t *testing.T) {
	cfg := cfgOf(
		unit("u1", "/dev/i2c-1", 0x48, "ep1", 1, 0), // 0–7
		unit("u2", "/dev/i2c-1", 0x49, "ep1", 1, 8), // 8–15
	)

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_OverlapDetected(t *testing.T) {
	cfg := cfgOf(
		unit("u1", "/dev/i2c-1", 0x48, "ep1", 1, 0), // 0–7
		unit("u2", "/dev/i2c-1", 0x49, "ep1", 1, 4), // 4–11 → overlap
	)

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected overlap error, got nil")
	}
}

func TestValidate_NoOverlapDifferentUnitID(t *testing.T) {
	cfg := cfgOf(
		unit("u1", "/dev/i2c-1", 0x48, "ep1", 1, 0),
		unit("u2", "/dev/i2c-1", 0x49, "ep1", 2, 0),
	)

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_StatusRequiresStatusUnitID(t *testing.T) {
	u := unit("u1", "/dev/i2c-1", 0x48, "ep1", 1, 0)
	u.Source.StatusSlot = u16(0)

	if err := Validate(cfgOf(u)); err == nil {
		t.Fatalf("expected error for missing status_unit_id")
	}

	u.Targets[0].StatusUnitID = u8(2)
	if err := Validate(cfgOf(u)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_StatusSlotCollision(t *testing.T) {
	a := unit("u1", "/dev/i2c-1", 0x48, "ep1", 1, 0)
	a.Source.StatusSlot = u16(3)
	a.Targets[0].StatusUnitID = u8(2)

	b := unit("u2", "/dev/i2c-1", 0x49, "ep1", 1, 8)
	b.Source.StatusSlot = u16(3)
	b.Targets[0].StatusUnitID = u8(2)

	err := Validate(cfgOf(a, b))
	if err == nil || !strings.Contains(err.Error(), "status_slot collision") {
		t.Fatalf("expected status collision, got %v", err)
	}
}

func TestValidate_StatusBlockOverlapsData(t *testing.T) {
	// status block 0 spans registers 0–19 of unit 1, where the data lives too
	u := unit("u1", "/dev/i2c-1", 0x48, "ep1", 1, 0)
	u.Source.StatusSlot = u16(0)
	u.Targets[0].StatusUnitID = u8(1)

	if err := Validate(cfgOf(u)); err == nil {
		t.Fatalf("expected overlap between status and data")
	}
}

func TestValidate_EndpointKindConflict(t *testing.T) {
	a := unit("u1", "/dev/i2c-1", 0x48, "ep1", 1, 0)
	b := unit("u2", "/dev/i2c-1", 0x49, "ep1", 2, 0)
	b.Targets[0].Kind = TargetKindIngest

	if err := Validate(cfgOf(a, b)); err == nil {
		t.Fatalf("expected protocol conflict on ep1")
	}

	a.Targets[0].Kind = TargetKindIngest
	if err := Validate(cfgOf(a, b)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	u := unit("a-very-long-unit-identifier", "/dev/i2c-1", 0x48, "ep1", 1, 0)
	u.Source.Bus.Driver = ""
	u.Source.StatusSlot = u16(1)
	cfg := cfgOf(u)

	Normalize(cfg)

	got := cfg.Replicator.Units[0]
	if got.Source.Bus.Driver != "i2cdev" {
		t.Fatalf("driver default: %q", got.Source.Bus.Driver)
	}
	if got.Source.Reference != "internal" {
		t.Fatalf("reference default: %q", got.Source.Reference)
	}
	if got.Source.TimeoutMs != DefaultTimeoutMs {
		t.Fatalf("timeout default: %d", got.Source.TimeoutMs)
	}
	if got.Targets[0].Kind != TargetKindModbus {
		t.Fatalf("target kind default: %q", got.Targets[0].Kind)
	}
	if got.Source.DeviceName != "a-very-long-unit" {
		t.Fatalf("device name default: %q", got.Source.DeviceName)
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	const doc = `
replicator:
  status_memory:
    endpoint: 127.0.0.1:1502
  units:
    - id: adc-main
      source:
        bus: { driver: i2cdev, name: /dev/i2c-1 }
        address: 0x4A
        reference: external
        status_slot: 2
        device_name: ADC-MAIN
      poll: { interval_ms: 250 }
      targets:
        - id: 1
          endpoint: 127.0.0.1:1502
          unit_id: 1
          address: 16
          status_unit_id: 2
      telemetry:
        redis: { addr: 127.0.0.1:6379, key: "adc:main", channel: adc }
`
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate err=%v", err)
	}

	u := cfg.Replicator.Units[0]
	if u.Source.Address != 0x4A || u.Source.Reference != "external" {
		t.Fatalf("source decoded wrong: %+v", u.Source)
	}
	if u.Poll.IntervalMs != 250 || u.Targets[0].Address != 16 {
		t.Fatalf("poll/target decoded wrong: %+v %+v", u.Poll, u.Targets[0])
	}
	if u.Telemetry.Redis == nil || u.Telemetry.Redis.Key != "adc:main" {
		t.Fatalf("telemetry decoded wrong: %+v", u.Telemetry)
	}
}

func TestLoad_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("replicator:\n  unitz: []\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}
