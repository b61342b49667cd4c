// internal/publish/status_writer.go
package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/tamzrod/modem-poller/internal/status"
)

// StatusWriter is the delivery-only contract for device health.
// It receives a snapshot and publishes it verbatim.
// No logic, no interpretation.
type StatusWriter interface {
	WriteStatus(ctx context.Context, s status.Snapshot) error
}

// healthWriter publishes a snapshot only when it differs from the last one
// delivered. After any failed publish the next call re-asserts unconditionally.
type healthWriter struct {
	sink HealthSink

	needFull bool
	last     status.Snapshot
}

// NewStatusWriter builds a status writer on top of sink.
func NewStatusWriter(sink HealthSink) StatusWriter {
	return &healthWriter{
		sink:     sink,
		needFull: true, // full re-assert on first write
	}
}

// WriteStatus delivers s if it changed or if the previous delivery failed.
func (w *healthWriter) WriteStatus(ctx context.Context, s status.Snapshot) error {
	if w == nil || w.sink == nil {
		return errors.New("status writer: disabled")
	}

	if !w.needFull && sameStatus(w.last, s) {
		return nil
	}

	if err := w.sink.PublishHealth(ctx, status.Encode(s)); err != nil {
		// Any failure introduces doubt: re-assert on next call.
		w.needFull = true
		return fmt.Errorf("status writer: publish failed: %w", err)
	}

	w.needFull = false
	w.last = s
	return nil
}

// sameStatus ignores UpdatedAt; only observable state counts.
func sameStatus(a, b status.Snapshot) bool {
	return a.Health == b.Health &&
		a.LastErrorCode == b.LastErrorCode &&
		a.SecondsInError == b.SecondsInError &&
		a.Text == b.Text
}
