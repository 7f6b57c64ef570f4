// internal/writer/builder.go
package writer

import (
	"errors"
	"fmt"
	"time"

	cfg "github.com/tamzrod/adc-replicator/internal/config"
	wingest "github.com/tamzrod/adc-replicator/internal/writer/ingest"
	wmodbus "github.com/tamzrod/adc-replicator/internal/writer/modbus"
	wredis "github.com/tamzrod/adc-replicator/internal/writer/redis"
)

// BuildPlan converts one unit config into a Writer Plan.
// Assumes config has already passed validation and normalization.
func BuildPlan(c *cfg.Config, u cfg.UnitConfig) (Plan, error) {
	if u.ID == "" {
		return Plan{}, errors.New("writer: unit.id required")
	}

	plan := Plan{UnitID: u.ID}

	seen := make(map[string]struct{})

	for _, t := range u.Targets {
		plan.Targets = append(plan.Targets, TargetEndpoint{
			TargetID: t.ID,
			Endpoint: t.Endpoint,
			UnitID:   t.UnitID,
			Address:  t.Address,
		})

		if u.Source.StatusSlot == nil || t.StatusUnitID == nil {
			continue
		}

		sp := StatusPlan{
			Endpoint:   cfg.StatusEndpoint(c, t),
			UnitID:     *t.StatusUnitID,
			BaseSlot:   *u.Source.StatusSlot,
			DeviceName: u.Source.DeviceName,
		}

		// targets sharing status memory get one block
		key := fmt.Sprintf("%s|%d", sp.Endpoint, sp.UnitID)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		plan.Status = append(plan.Status, sp)
	}

	return plan, nil
}

// closableClient is an endpointClient the builder owns.
type closableClient interface {
	endpointClient
	Close() error
}

// BuildEndpointClients creates one client per unique endpoint, data and status.
// The client protocol follows the target kind.
func BuildEndpointClients(c *cfg.Config, u cfg.UnitConfig) (map[string]endpointClient, func() error, error) {
	// endpoint -> kind
	unique := map[string]string{}
	for _, t := range u.Targets {
		unique[t.Endpoint] = t.Kind
		if u.Source.StatusSlot != nil && t.StatusUnitID != nil {
			ep := cfg.StatusEndpoint(c, t)
			if _, ok := unique[ep]; !ok {
				unique[ep] = t.Kind
			}
		}
	}

	timeout := time.Duration(u.Source.TimeoutMs) * time.Millisecond

	clients := make(map[string]endpointClient)
	var closers []func() error

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	for endpoint, kind := range unique {
		cli, err := newEndpointClient(kind, endpoint, timeout)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("writer: unit %s endpoint %s: %w", u.ID, endpoint, err)
		}
		clients[endpoint] = cli
		closers = append(closers, cli.Close)
	}

	return clients, closeAll, nil
}

func newEndpointClient(kind, endpoint string, timeout time.Duration) (closableClient, error) {
	switch kind {
	case cfg.TargetKindModbus, "":
		c, err := wmodbus.NewEndpointClient(wmodbus.Config{Endpoint: endpoint, Timeout: timeout})
		if err != nil {
			return nil, err
		}
		return c, nil
	case cfg.TargetKindIngest:
		c, err := wingest.NewEndpointClient(wingest.Config{Endpoint: endpoint, Timeout: timeout})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown target kind %q", kind)
	}
}

// BuildTelemetry connects the unit's Redis publisher.
// Returns a nil sink and a no-op closer when telemetry is not configured.
func BuildTelemetry(u cfg.UnitConfig) (TelemetrySink, func() error, error) {
	r := u.Telemetry.Redis
	if r == nil {
		return nil, func() error { return nil }, nil
	}

	pub, err := wredis.NewPublisher(wredis.Config{
		Addr:    r.Addr,
		DB:      r.DB,
		Key:     r.Key,
		Channel: r.Channel,
		Payload: u.ID,
		Timeout: time.Duration(u.Source.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("writer: unit %s telemetry: %w", u.ID, err)
	}

	return pub, pub.Close, nil
}
