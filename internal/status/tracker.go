// internal/status/tracker.go
package status

import (
	"errors"
	"sync"
	"time"
)

// Tracker owns the device-level status truth.
// Interim may be called from the cycle goroutine while Observe and Tick run
// on the orchestrator, so all transitions are serialized.
// Every method reports whether the snapshot changed.
type Tracker struct {
	mu   sync.Mutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker starts in the unknown state.
func NewTracker() *Tracker {
	t := &Tracker{now: time.Now}
	t.snap = Snapshot{
		Health:    HealthUnknown,
		Text:      InitialText,
		UpdatedAt: t.now(),
	}
	return t
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}

// Interim records the status text surfaced mid-cycle.
func (t *Tracker) Interim(text string) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.snap.Text == text {
		return t.snap, false
	}
	t.snap.Text = text
	t.snap.UpdatedAt = t.now()
	return t.snap, true
}

// Observe records the outcome of a completed cycle.
func (t *Tracker) Observe(err error) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	changed := false

	if err == nil {
		// Recovery / OK
		if t.snap.Health != HealthOK {
			t.snap.Health = HealthOK
			changed = true
		}
		// Reset last error code when healthy.
		if t.snap.LastErrorCode != 0 {
			t.snap.LastErrorCode = 0
			changed = true
		}
		// Reset seconds-in-error on recovery.
		if t.snap.SecondsInError != 0 {
			t.snap.SecondsInError = 0
			changed = true
		}
	} else {
		if t.snap.Health != HealthError {
			t.snap.Health = HealthError
			changed = true
		}

		code := ErrorCode(err)
		if t.snap.LastErrorCode != code {
			t.snap.LastErrorCode = code
			changed = true
		}

		// The error message replaces the interim status.
		if msg := err.Error(); t.snap.Text != msg {
			t.snap.Text = msg
			changed = true
		}

		// NOTE: seconds_in_error increments on Tick only.
	}

	if changed {
		t.snap.UpdatedAt = t.now()
	}
	return t.snap, changed
}

// Tick advances the error clock by one second while not healthy.
func (t *Tracker) Tick() (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.snap.Health == HealthOK || t.snap.SecondsInError >= MaxSecondsInError {
		return t.snap, false
	}
	t.snap.SecondsInError++
	t.snap.UpdatedAt = t.now()
	return t.snap, true
}

// ErrorCode extracts a best-effort uint16 code from an error without assuming concrete types.
// If the error does not expose a code, returns ErrorCodeGeneric.
func ErrorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	type coderA interface{ Code() uint16 }
	type coderB interface{ ErrorCode() uint16 }

	var a coderA
	if errors.As(err, &a) {
		return a.Code()
	}
	var b coderB
	if errors.As(err, &b) {
		return b.ErrorCode()
	}

	return ErrorCodeGeneric
}
