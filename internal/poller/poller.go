// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tamzrod/modem-poller/internal/layout"
)

// Client abstracts the register read the poller needs.
// The poller depends on geometry only.
type Client interface {
	ReadHoldingRegisters(ctx context.Context, addr, qty uint16) ([]uint16, error) // FC 3
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Variant layout.Variant

	// OnStatus receives interim status text while a cycle is still running.
	OnStatus func(text string)

	Logger *slog.Logger
}

// Poller runs the fixed step sequence against one device.
type Poller struct {
	cfg    Config
	regs   layout.Map
	steps  []Step
	client Client
	now    func() time.Time
}

// New creates a poller with immutable config.
func New(cfg Config, client Client) (*Poller, error) {
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	regs, err := layout.For(cfg.Variant)
	if err != nil {
		return nil, fmt.Errorf("poller: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Poller{
		cfg:    cfg,
		regs:   regs,
		steps:  Steps(),
		client: client,
		now:    time.Now,
	}, nil
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: any failure aborts the cycle and no measurements are returned.
func (p *Poller) PollOnce(ctx context.Context) (res PollResult) {
	res.Batch.ID = uuid.NewString()
	started := p.now()
	res.Batch.At = started
	log := p.cfg.Logger.With("batch", res.Batch.ID)

	// A malformed window must not take down the scheduler loop.
	defer func() {
		if r := recover(); r != nil {
			res.Batch.Measurements = nil
			res.Err = fmt.Errorf("poller: cycle aborted: %v", r)
		}
	}()

	c := &Cycle{Map: p.regs}

	for _, st := range p.steps {
		w := st.Window(c)

		words, err := p.client.ReadHoldingRegisters(ctx, w.Address, w.Count)
		if err != nil {
			res.Err = fmt.Errorf("step %s: %w", st.Name, err)
			return res
		}
		log.Debug("window read", "step", st.Name, "addr", w.Address, "qty", w.Count)

		if err := st.Decode(c, words); err != nil {
			res.Err = fmt.Errorf("step %s: %w", st.Name, err)
			return res
		}

		if st.Status != nil && p.cfg.OnStatus != nil {
			p.cfg.OnStatus(st.Status(c))
		}
	}

	// Commit only if all steps succeeded
	res.Batch.At = p.now()
	res.Batch.Measurements = c.Measurements()
	log.Debug("cycle complete", "measurements", len(res.Batch.Measurements), "took", res.Batch.At.Sub(started))
	return res
}
