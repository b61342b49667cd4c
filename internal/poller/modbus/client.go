// internal/poller/modbus/client.go
package modbus

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Client implements poller.Client using Modbus TCP (FC 3 only).
// By default every read is a scoped acquire/use/release of its own connection.
// With Reuse set, the connection is kept while healthy and discarded on a
// connection-class failure; the next read dials again.
type Client struct {
	cfg  Config
	dial dialFunc

	mu   sync.Mutex
	conn conn
	mb   modbus.Client
}

// Config is minimal transport config.
type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
	Reuse    bool
	Logger   *slog.Logger
}

// conn is the lifecycle half of a goburrow handler.
type conn interface {
	Connect() error
	Close() error
}

type dialFunc func(cfg Config) (conn, modbus.Client)

const defaultTimeout = 5 * time.Second

// New creates a client. No connection is opened until the first read.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus client: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{cfg: cfg, dial: dialTCP}, nil
}

func dialTCP(cfg Config) (conn, modbus.Client) {
	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID
	if cfg.Logger.Enabled(context.Background(), slog.LevelDebug) {
		h.Logger = slog.NewLogLogger(cfg.Logger.Handler(), slog.LevelDebug)
	}
	return h, modbus.NewClient(h)
}

// Close releases a kept connection, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropLocked()
}

// ReadHoldingRegisters reads qty registers starting at addr.
// The returned window always has exactly qty words.
func (c *Client) ReadHoldingRegisters(ctx context.Context, addr, qty uint16) ([]uint16, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if qty == 0 {
		return nil, &ProtocolError{Address: addr, Count: qty, Err: errors.New("zero quantity")}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.acquireLocked(); err != nil {
		return nil, err
	}

	raw, err := c.mb.ReadHoldingRegisters(addr, qty)
	err = c.classify(addr, qty, err)
	c.releaseLocked(err)
	if err != nil {
		return nil, err
	}

	if len(raw) != int(qty)*2 {
		return nil, &ProtocolError{
			Address: addr,
			Count:   qty,
			Err:     errors.New("response length does not match quantity"),
		}
	}

	return unpackRegisters(raw), nil
}

// ---- connection scope ----

func (c *Client) acquireLocked() error {
	if c.conn != nil {
		return nil
	}

	h, mb := c.dial(c.cfg)
	if err := h.Connect(); err != nil {
		_ = h.Close()
		return &ConnectionError{Endpoint: c.cfg.Endpoint, Err: err}
	}

	c.conn = h
	c.mb = mb
	return nil
}

func (c *Client) releaseLocked(err error) {
	var ce *ConnectionError
	if c.cfg.Reuse && !errors.As(err, &ce) {
		return
	}
	if err := c.dropLocked(); err != nil {
		c.cfg.Logger.Debug("modbus close failed", "endpoint", c.cfg.Endpoint, "err", err)
	}
}

func (c *Client) dropLocked() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.mb = nil
	return err
}

// classify maps a goburrow error onto the transport taxonomy.
func (c *Client) classify(addr, qty uint16, err error) error {
	if err == nil {
		return nil
	}

	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return &DeviceError{Function: me.FunctionCode, Exception: me.ExceptionCode}
	}

	var ne net.Error
	if errors.As(err, &ne) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, net.ErrClosed) {
		return &ConnectionError{Endpoint: c.cfg.Endpoint, Err: err}
	}

	return &ProtocolError{Address: addr, Count: qty, Err: err}
}

// ---- helpers (pure geometry) ----

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
