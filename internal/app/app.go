// internal/app/app.go
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	cfg "github.com/tamzrod/modem-poller/internal/config"
	"github.com/tamzrod/modem-poller/internal/poller"
	"github.com/tamzrod/modem-poller/internal/publish"
	"github.com/tamzrod/modem-poller/internal/status"
)

// tickerFunc arms the 1 Hz health clock.
type tickerFunc func(d time.Duration) (<-chan time.Time, func())

// defaultPublishTimeout bounds every sink call so a stalled broker cannot
// hold a cycle or the orchestrator.
const defaultPublishTimeout = 10 * time.Second

func timeTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// App wires one device pipeline: runner -> publisher, plus status tracking.
type App struct {
	logger  *slog.Logger
	sink    publish.Sink
	health  publish.StatusWriter
	tracker *status.Tracker

	poller      *poller.Poller
	runner      *poller.Runner
	closeClient func() error

	tick           tickerFunc
	publishTimeout time.Duration

	// runCtx is set before the runner starts and read by the status hook.
	runCtx context.Context
}

// New builds the poller pipeline for c and binds it to sink.
func New(c cfg.Config, sink publish.Sink, logger *slog.Logger) (*App, error) {
	a, err := newApp(sink, logger)
	if err != nil {
		return nil, err
	}

	p, r, closer, err := poller.Build(c, a.onStatus, a.logger)
	if err != nil {
		return nil, err
	}
	a.poller, a.runner, a.closeClient = p, r, closer
	return a, nil
}

func newApp(sink publish.Sink, logger *slog.Logger) (*App, error) {
	if sink == nil {
		return nil, errors.New("app: sink required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		logger:      logger,
		sink:        sink,
		health:      publish.NewStatusWriter(sink),
		tracker:     status.NewTracker(),
		closeClient: func() error { return nil },
		tick:           timeTicker,
		publishTimeout: defaultPublishTimeout,
		runCtx:         context.Background(),
	}, nil
}

// Status returns the current health snapshot.
func (a *App) Status() status.Snapshot { return a.tracker.Snapshot() }

// Run publishes metadata, then drives the runner until ctx is done.
// Cycle failures never stop the loop.
func (a *App) Run(ctx context.Context) error {
	a.runCtx = ctx

	pctx, cancel := a.bounded(ctx)
	if err := a.sink.PublishMeta(pctx, poller.Units); err != nil {
		a.logger.Warn("meta publish failed", "err", err)
	}
	cancel()
	// Full assert on start.
	a.writeHealth(ctx, a.tracker.Snapshot())

	results := make(chan poller.PollResult)
	runnerDone := make(chan struct{})
	go func() {
		defer close(runnerDone)
		a.runner.Run(ctx, results)
	}()

	secTick, stop := a.tick(time.Second)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			// No new cycle can start once the runner loop has returned.
			<-runnerDone
			a.runner.Wait()
			return nil

		case res := <-results:
			a.handle(ctx, res)

		case <-secTick:
			snap, _ := a.tracker.Tick()
			// Unchanged snapshots are dropped by the writer unless a
			// previous write failed.
			a.writeHealth(ctx, snap)
		}
	}
}

// Once runs a single cycle and reports it without publishing.
func (a *App) Once(ctx context.Context) poller.PollResult {
	a.runCtx = ctx
	res := a.poller.PollOnce(ctx)
	a.tracker.Observe(res.Err)
	return res
}

// Close releases the device connection and the sink.
func (a *App) Close() error {
	return errors.Join(a.closeClient(), a.sink.Close())
}

func (a *App) handle(ctx context.Context, res poller.PollResult) {
	pctx, cancel := a.bounded(ctx)
	if res.Err != nil {
		a.logger.Warn("poll cycle failed", "batch", res.Batch.ID, "err", res.Err)
		if err := a.sink.PublishError(pctx, res.Err.Error()); err != nil {
			a.logger.Warn("error publish failed", "err", err)
		}
	} else {
		if err := a.sink.Publish(pctx, res.Batch); err != nil {
			a.logger.Warn("delta publish failed", "batch", res.Batch.ID, "err", err)
		}
	}
	cancel()

	if snap, changed := a.tracker.Observe(res.Err); changed {
		a.writeHealth(ctx, snap)
	}
}

// onStatus runs on the cycle goroutine.
func (a *App) onStatus(text string) {
	ctx := a.runCtx
	if ctx.Err() != nil {
		return
	}
	a.tracker.Interim(text)

	ctx, cancel := a.bounded(ctx)
	defer cancel()
	if err := a.sink.PublishStatus(ctx, text); err != nil {
		a.logger.Warn("status publish failed", "err", err)
	}
}

func (a *App) writeHealth(ctx context.Context, snap status.Snapshot) {
	ctx, cancel := a.bounded(ctx)
	defer cancel()
	if err := a.health.WriteStatus(ctx, snap); err != nil {
		a.logger.Warn("health publish failed", "err", err)
	}
}

func (a *App) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.publishTimeout)
}
