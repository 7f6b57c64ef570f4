// internal/status/tracker.go
package status

// Tracker owns the status state of one device.
// It is driven by poll outcomes and by a 1 Hz tick, and reports whether the
// snapshot changed so callers write only on change.
//
// Not safe for concurrent use; one orchestrator goroutine owns it.
type Tracker struct {
	snap Snapshot
}

// NewTracker starts in HealthUnknown with no error.
func NewTracker() *Tracker {
	return &Tracker{snap: Snapshot{Health: HealthUnknown}}
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot { return t.snap }

// Observe folds one poll outcome into the state.
// err is the poll error (nil on a clean cycle); failed is the failed-channel mask.
func (t *Tracker) Observe(err error, failed uint16) (Snapshot, bool) {
	prev := t.snap

	if err == nil {
		// Recovery / OK
		t.snap.Health = HealthOK
		t.snap.LastErrorCode = CodeNone
		t.snap.SecondsInError = 0
		t.snap.FailedChannels = 0
	} else {
		t.snap.Health = HealthError
		t.snap.LastErrorCode = ErrorCode(err)
		t.snap.FailedChannels = failed
		// seconds_in_error moves on Tick only
	}

	return t.snap, t.snap != prev
}

// Tick advances seconds_in_error while the device is not OK.
// It saturates at SecondsInErrorMax and never wraps.
func (t *Tracker) Tick() (Snapshot, bool) {
	if t.snap.Health == HealthOK {
		return t.snap, false
	}
	if t.snap.SecondsInError >= SecondsInErrorMax {
		return t.snap, false
	}
	t.snap.SecondsInError++
	return t.snap, true
}
