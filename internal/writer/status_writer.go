// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/adc-replicator/internal/status"
)

// StatusWriter is the delivery-only contract for device status.
// It receives a snapshot and writes it verbatim.
// No logic, no interpretation.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// deviceStatusWriter fans one snapshot out to every status destination.
type deviceStatusWriter struct {
	dests []*statusDest
}

// statusDest tracks what one destination is known to hold.
type statusDest struct {
	plan StatusPlan
	cli  endpointClient

	needFull bool
	last     status.Snapshot
}

// NewDeviceStatusWriter builds a status writer if status is enabled for the unit.
// If plan.Status is empty, status is disabled.
func NewDeviceStatusWriter(plan Plan, clients map[string]endpointClient) (*deviceStatusWriter, bool) {
	if len(plan.Status) == 0 {
		return nil, false
	}

	sw := &deviceStatusWriter{}
	for _, sp := range plan.Status {
		sw.dests = append(sw.dests, &statusDest{
			plan:     sp,
			cli:      clients[sp.Endpoint],
			needFull: true, // full re-assert on first successful write
			last:     status.Snapshot{Health: status.HealthUnknown},
		})
	}
	return sw, true
}

// WriteStatus delivers a device status snapshot into status memory.
// On any write failure, the next successful call will re-assert the full block.
func (sw *deviceStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil || len(sw.dests) == 0 {
		return errors.New("status writer: disabled")
	}

	var errs []string
	for _, d := range sw.dests {
		if err := d.write(s); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}
	return nil
}

func (d *statusDest) write(s status.Snapshot) error {
	if d.cli == nil {
		return fmt.Errorf("status writer: missing client for endpoint %s", d.plan.Endpoint)
	}

	baseAddr := d.baseAddr()
	unitID := d.plan.UnitID

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if d.needFull {
		regs := status.Encode(s, d.plan.DeviceName)

		if err := d.cli.WriteRegisters(unitID, baseAddr, regs); err != nil {
			d.needFull = true
			return fmt.Errorf("status writer: ep=%s full block write failed: %w", d.plan.Endpoint, err)
		}

		d.needFull = false
		d.last = s
		return nil
	}

	var errs []string

	slots := []struct {
		name string
		slot uint16
		cur  *uint16
		val  uint16
	}{
		{"health", status.SlotHealthCode, &d.last.Health, s.Health},
		{"last_error", status.SlotLastErrorCode, &d.last.LastErrorCode, s.LastErrorCode},
		{"seconds", status.SlotSecondsInError, &d.last.SecondsInError, s.SecondsInError},
		{"failed_channels", status.SlotFailedChannels, &d.last.FailedChannels, s.FailedChannels},
	}

	for _, sl := range slots {
		if *sl.cur == sl.val {
			continue
		}
		if err := d.cli.WriteRegisters(unitID, baseAddr+sl.slot, []uint16{sl.val}); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d %s write failed: %v", sl.slot, sl.name, err))
			continue
		}
		*sl.cur = sl.val
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt: re-assert on next success.
		d.needFull = true
		return fmt.Errorf("status writer: ep=%s %s", d.plan.Endpoint, strings.Join(errs, " | "))
	}

	return nil
}

func (d *statusDest) baseAddr() uint16 {
	// Each device owns a fixed SlotsPerDevice block.
	return d.plan.BaseSlot * status.SlotsPerDevice
}
