// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/modem-poller/internal/layout"
)

// Request describes one holding register read.
// Geometry only: no semantics.
type Request = layout.Window

// Measurement is one decoded value.
// Value is one of uint64, int64, float64 or string.
type Measurement struct {
	Path  string
	Value any
	Unit  string
}

// Meta announces the unit of a path.
type Meta struct {
	Path  string
	Units string
}

// Batch is the set of measurements produced by one successful cycle.
type Batch struct {
	ID           string
	At           time.Time
	Measurements []Measurement
}

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	Batch Batch
	Err   error // non-nil means the poll cycle failed and Batch carries no measurements
}
