// internal/poller/poller_test.go
package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tamzrod/adc-replicator/internal/ads7828"
)

type fakeSensor struct {
	polls int
	buf   [ads7828.NumChannels]ads7828.Reading
}

func (f *fakeSensor) Poll() { f.polls++ }

func (f *fakeSensor) Readings() [ads7828.NumChannels]ads7828.Reading { return f.buf }

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Interval: time.Second}, &fakeSensor{}); err == nil {
		t.Fatalf("expected error for missing unit id")
	}
	if _, err := New(Config{UnitID: "u1"}, &fakeSensor{}); err == nil {
		t.Fatalf("expected error for zero interval")
	}
	if _, err := New(Config{UnitID: "u1", Interval: time.Second}, nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
}

func TestPollOnce_Success(t *testing.T) {
	src := &fakeSensor{}
	for i := range src.buf {
		src.buf[i] = ads7828.Reading(i * 100)
	}

	p, err := New(Config{UnitID: "u1", Interval: time.Second}, src)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	res := p.PollOnce()
	if res.Err != nil {
		t.Fatalf("PollOnce err=%v", res.Err)
	}
	if src.polls != 1 {
		t.Fatalf("expected 1 poll, got %d", src.polls)
	}
	if res.UnitID != "u1" || res.FailedMask != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Readings[7] != 700 {
		t.Fatalf("expected ch7=700, got %d", res.Readings[7])
	}
}

func TestPollOnce_PartialFailure(t *testing.T) {
	src := &fakeSensor{}
	for i := range src.buf {
		src.buf[i] = 2000
	}
	src.buf[3] = ads7828.NoReading
	src.buf[6] = ads7828.NoReading

	p, _ := New(Config{UnitID: "u1", Interval: time.Second}, src)

	res := p.PollOnce()
	if res.Err == nil || !errors.Is(res.Err, ads7828.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", res.Err)
	}
	if res.FailedMask != 1<<3|1<<6 {
		t.Fatalf("unexpected mask 0x%02X", res.FailedMask)
	}
	if !res.Failed(3) || res.Failed(0) {
		t.Fatalf("Failed() disagrees with mask")
	}
	// good channels still delivered
	if res.Readings[0] != 2000 {
		t.Fatalf("expected ch0=2000, got %d", res.Readings[0])
	}
}

func TestRun_EmitsAndStops(t *testing.T) {
	src := &fakeSensor{}
	p, _ := New(Config{UnitID: "u1", Interval: 5 * time.Millisecond}, src)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan PollResult)
	done := make(chan struct{})

	go func() {
		p.Run(ctx, out)
		close(done)
	}()

	select {
	case res := <-out:
		if res.UnitID != "u1" {
			t.Fatalf("unexpected unit %q", res.UnitID)
		}
	case <-time.After(time.Second):
		t.Fatalf("no result emitted")
	}

	// nobody reads anymore: Run must still exit on cancel
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}
