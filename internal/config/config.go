// internal/config/config.go
package config

type Config struct {
	Replicator ReplicatorConfig `yaml:"replicator"`
}

type ReplicatorConfig struct {
	StatusMemory StatusMemoryConfig `yaml:"status_memory"`
	Units        []UnitConfig       `yaml:"units"`
}

// StatusMemoryConfig is the default home of device status blocks.
type StatusMemoryConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// ---- UNIT ----

type UnitConfig struct {
	ID        string          `yaml:"id"`
	Source    SourceConfig    `yaml:"source"`
	Targets   []TargetConfig  `yaml:"targets"`
	Poll      PollConfig      `yaml:"poll"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ---- SOURCE ----

type SourceConfig struct {
	Bus       BusConfig `yaml:"bus"`
	Address   uint8     `yaml:"address"`
	Reference string    `yaml:"reference"` // internal | external
	TimeoutMs int       `yaml:"timeout_ms"`

	PowerLine *PowerLineConfig `yaml:"power_line"`

	// Device status block (optional, opt-in)
	StatusSlot *uint16 `yaml:"status_slot"`
	DeviceName string  `yaml:"device_name"`
}

type BusConfig struct {
	Driver string `yaml:"driver"` // i2cdev | periph
	Name   string `yaml:"name"`
}

type PowerLineConfig struct {
	Chip string `yaml:"chip"`
	Line int    `yaml:"line"`
}

// ---- TARGET ----

const (
	TargetKindModbus = "modbus"
	TargetKindIngest = "ingest"
)

type TargetConfig struct {
	ID           uint32 `yaml:"id"`
	Kind         string `yaml:"kind"`
	Endpoint     string `yaml:"endpoint"`
	UnitID       uint8  `yaml:"unit_id"`        // data memory
	Address      uint16 `yaml:"address"`        // first register of the channel block
	StatusUnitID *uint8 `yaml:"status_unit_id"` // per-target status memory (optional)
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- TELEMETRY ----

type TelemetryConfig struct {
	Redis *RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr    string `yaml:"addr"`
	DB      int    `yaml:"db"`
	Key     string `yaml:"key"`     // hash holding the latest readings
	Channel string `yaml:"channel"` // pub/sub channel notified per poll
}
