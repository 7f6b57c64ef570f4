// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tamzrod/adc-replicator/internal/ads7828"
	"github.com/tamzrod/adc-replicator/internal/poller"
)

// NoReadingRegister is the register value written for a failed channel.
// No 12-bit conversion can produce it.
const NoReadingRegister uint16 = 0xFFFF

// endpointClient is the exact contract the writer uses.
// IMPORTANT: There must be NO other version of this interface anywhere.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

type writerImpl struct {
	plan      Plan
	clients   map[string]endpointClient
	telemetry TelemetrySink
}

// New builds the data writer. telemetry may be nil.
func New(plan Plan, clients map[string]endpointClient, telemetry TelemetrySink) Writer {
	return &writerImpl{
		plan:      plan,
		clients:   clients,
		telemetry: telemetry,
	}
}

// Write delivers the full channel buffer to every target, failed channels
// included, so a stale value never survives downstream.
func (w *writerImpl) Write(res poller.PollResult) error {
	var errs []string

	regs := EncodeReadings(res.Readings)

	for _, tgt := range w.plan.Targets {
		cli := w.clients[tgt.Endpoint]
		if cli == nil {
			errs = append(errs, fmt.Sprintf(
				"writer: missing client for endpoint %s",
				tgt.Endpoint,
			))
			continue
		}

		if err := cli.WriteRegisters(tgt.UnitID, tgt.Address, regs); err != nil {
			errs = append(errs, fmt.Sprintf(
				"writer: ep=%s unit=%d addr=%d err=%v",
				tgt.Endpoint, tgt.UnitID, tgt.Address, err,
			))
		}
	}

	if w.telemetry != nil {
		if err := w.telemetry.Publish(telemetryFields(res)); err != nil {
			errs = append(errs, fmt.Sprintf("writer: telemetry: %v", err))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}

	return nil
}

// EncodeReadings maps each Reading onto one register.
func EncodeReadings(readings [ads7828.NumChannels]ads7828.Reading) []uint16 {
	regs := make([]uint16, ads7828.NumChannels)
	for i, r := range readings {
		if r.Valid() {
			regs[i] = uint16(r)
		} else {
			regs[i] = NoReadingRegister
		}
	}
	return regs
}

func telemetryFields(res poller.PollResult) map[string]interface{} {
	fields := make(map[string]interface{}, ads7828.NumChannels+2)
	for i, r := range res.Readings {
		fields[fmt.Sprintf("ch%d", i)] = int(r)
	}
	fields["failed_mask"] = res.FailedMask
	fields["timestamp"] = res.At.Format(time.RFC3339)
	return fields
}
