// internal/poller/runner.go
package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Cycler runs one poll cycle.
type Cycler interface {
	PollOnce(ctx context.Context) PollResult
}

// RunnerState is the scheduler lifecycle.
type RunnerState int32

const (
	StateIdle RunnerState = iota
	StateRunning
	StateStopped
)

func (s RunnerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// tickerFunc arms a repeating timer and returns its channel and stop func.
type tickerFunc func(d time.Duration) (<-chan time.Time, func())

func timeTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Runner triggers a cycle immediately and then once per interval.
// Ticks are measured from start, not from cycle completion.
// At most one cycle is in flight: a tick that lands while one runs is skipped.
type Runner struct {
	cycler   Cycler
	interval time.Duration
	logger   *slog.Logger
	ticker   tickerFunc

	state    atomic.Int32
	inFlight atomic.Bool
	skipped  atomic.Uint64
	wg       sync.WaitGroup
}

// NewRunner creates a runner for c.
func NewRunner(c Cycler, interval time.Duration, logger *slog.Logger) (*Runner, error) {
	if c == nil {
		return nil, errors.New("runner: cycler required")
	}
	if interval <= 0 {
		return nil, errors.New("runner: interval must be > 0")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cycler:   c,
		interval: interval,
		logger:   logger,
		ticker:   timeTicker,
	}, nil
}

// State reports the lifecycle state.
func (r *Runner) State() RunnerState { return RunnerState(r.state.Load()) }

// Interval reports the cycle spacing.
func (r *Runner) Interval() time.Duration { return r.interval }

// Skipped reports how many ticks were dropped because a cycle was still running.
func (r *Runner) Skipped() uint64 { return r.skipped.Load() }

// Run emits one PollResult per completed cycle on out until ctx is done.
// Cancelling ctx stops future cycles only. A cycle in flight runs to completion
// on a context detached from ctx, and its result is dropped.
// A runner runs once; a second Run returns immediately.
func (r *Runner) Run(ctx context.Context, out chan<- PollResult) {
	if !r.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return
	}
	defer r.state.Store(int32(StateStopped))

	// Stopped before start: no cycle at all.
	if ctx.Err() != nil {
		return
	}

	tick, stop := r.ticker(r.interval)
	defer stop()

	r.trigger(ctx, out)

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			r.trigger(ctx, out)
		}
	}
}

// Wait blocks until the in-flight cycle, if any, has finished.
func (r *Runner) Wait() { r.wg.Wait() }

func (r *Runner) trigger(ctx context.Context, out chan<- PollResult) {
	// select picks randomly when a tick and the stop land together.
	if ctx.Err() != nil {
		return
	}
	if !r.inFlight.CompareAndSwap(false, true) {
		r.skipped.Add(1)
		r.logger.Warn("poll cycle still in flight, skipping tick", "interval", r.interval)
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.inFlight.Store(false)

		res := r.cycler.PollOnce(context.WithoutCancel(ctx))

		if ctx.Err() != nil {
			r.logger.Debug("runner stopped, dropping cycle result", "batch", res.Batch.ID)
			return
		}
		select {
		case out <- res:
		case <-ctx.Done():
			r.logger.Debug("runner stopped, dropping cycle result", "batch", res.Batch.ID)
		}
	}()
}
