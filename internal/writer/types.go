// internal/writer/types.go
package writer

import "github.com/tamzrod/adc-replicator/internal/poller"

// TargetEndpoint is one destination for the 8-channel register block.
type TargetEndpoint struct {
	TargetID uint32
	Endpoint string
	UnitID   uint8
	Address  uint16 // first register of the block
}

// StatusPlan is one destination for the device status block.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// Plan is the fully-built write plan for one unit.
type Plan struct {
	UnitID  string
	Targets []TargetEndpoint
	Status  []StatusPlan // empty => status disabled
}

// Writer writes poll snapshots into targets.
type Writer interface {
	Write(res poller.PollResult) error
}

// TelemetrySink receives a flat view of every poll.
type TelemetrySink interface {
	Publish(fields map[string]interface{}) error
}
