// cmd/replicator/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/tamzrod/adc-replicator/internal/config"
	"github.com/tamzrod/adc-replicator/internal/logger"
	"github.com/tamzrod/adc-replicator/internal/poller"
	"github.com/tamzrod/adc-replicator/internal/status"
	"github.com/tamzrod/adc-replicator/internal/writer"
)

func main() {
	logLevel := flag.Int("log", int(logger.LogLevelInfo), "log level (0=none, 1=error, 2=warn, 3=info, 4=debug)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-log N] <config.yaml>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logger.NewLogger(nil, logger.LogLevel(*logLevel))

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfgPath := flag.Arg(0)

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var (
		wg      sync.WaitGroup
		closers []func() error
	)

	// --------------------
	// Build per-unit pipelines
	// --------------------

	for _, unit := range cfg.Replicator.Units {
		ulog := log.WithTag(unit.ID)

		// ---- poller ----
		p, closePoller, err := poller.Build(unit, ulog)
		if err != nil {
			log.Fatalf("poller build failed (unit=%s): %v", unit.ID, err)
		}
		closers = append(closers, closePoller)

		// ---- writer plan ----
		plan, err := writer.BuildPlan(cfg, unit)
		if err != nil {
			log.Fatalf("writer plan failed (unit=%s): %v", unit.ID, err)
		}

		// ---- writer clients (DATA + STATUS) ----
		clients, closeWriters, err := writer.BuildEndpointClients(cfg, unit)
		if err != nil {
			log.Fatalf("writer clients failed (unit=%s): %v", unit.ID, err)
		}
		closers = append(closers, closeWriters)

		// ---- telemetry (optional) ----
		sink, closeSink, err := writer.BuildTelemetry(unit)
		if err != nil {
			log.Fatalf("telemetry failed (unit=%s): %v", unit.ID, err)
		}
		closers = append(closers, closeSink)

		dataWriter := writer.New(plan, clients, sink)

		// Status writer (optional per unit)
		statusWriter, statusEnabled := writer.NewDeviceStatusWriter(plan, clients)

		// ---- channel between poller and writer ----
		out := make(chan poller.PollResult)

		wg.Add(2)
		go func() {
			defer wg.Done()
			orchestrate(ctx, ulog, out, dataWriter, statusWriter, statusEnabled)
		}()

		// poller producer
		go func() {
			defer wg.Done()
			p.Run(ctx, out)
		}()
	}

	log.Infof("replicating %d unit(s)", len(cfg.Replicator.Units))

	sig := <-sigChan
	log.Infof("received %v, shutting down", sig)
	cancel()

	wg.Wait()

	// release in reverse build order
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			log.Warnf("close: %v", err)
		}
	}
}

// orchestrate owns the unit's status state: poll outcomes drive health,
// a 1 Hz ticker drives seconds_in_error.
func orchestrate(
	ctx context.Context,
	log *logger.Logger,
	in <-chan poller.PollResult,
	dataWriter writer.Writer,
	statusWriter writer.StatusWriter,
	statusEnabled bool,
) {
	tracker := status.NewTracker()

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	// Full block write on start (identity re-assert) if enabled.
	if statusEnabled {
		if err := statusWriter.WriteStatus(tracker.Snapshot()); err != nil {
			log.Warnf("status write failed on start: %v", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-in:
			// --- data delivery ---
			if err := dataWriter.Write(res); err != nil {
				log.Errorf("writer error: %v", err)
			}
			if res.Err != nil {
				log.Debugf("poll: %v", res.Err)
			}

			if !statusEnabled {
				continue
			}

			// --- status update (device-level truth) ---
			if snap, changed := tracker.Observe(res.Err, res.FailedMask); changed {
				if err := statusWriter.WriteStatus(snap); err != nil {
					log.Warnf("status write failed: %v", err)
				}
			}

		case <-secTicker.C:
			if !statusEnabled {
				continue
			}

			if snap, changed := tracker.Tick(); changed {
				if err := statusWriter.WriteStatus(snap); err != nil {
					log.Warnf("status seconds tick write failed: %v", err)
				}
			}
		}
	}
}
