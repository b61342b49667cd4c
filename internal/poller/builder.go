// internal/poller/builder.go
package poller

import (
	"log/slog"

	cfg "github.com/tamzrod/modem-poller/internal/config"
	"github.com/tamzrod/modem-poller/internal/layout"
	pmodbus "github.com/tamzrod/modem-poller/internal/poller/modbus"
)

// Build constructs the Modbus client, Poller and Runner for one device.
// No connection is opened here; the client dials per fetch (or once, when
// reuse is enabled) so a device that is down at startup does not stop the daemon.
// The returned closer releases a kept connection.
func Build(c cfg.Config, onStatus func(string), logger *slog.Logger) (*Poller, *Runner, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := pmodbus.New(pmodbus.Config{
		Endpoint: c.Device.Endpoint(),
		UnitID:   c.Device.UnitID,
		Timeout:  c.Device.Timeout(),
		Reuse:    c.Device.ReuseConnection,
		Logger:   logger.With("component", "modbus"),
	})
	if err != nil {
		return nil, nil, nil, err
	}

	variant := layout.FromLegacyFlag(c.Device.LegacyVariant)

	p, err := New(
		Config{
			Variant:  variant,
			OnStatus: onStatus,
			Logger:   logger.With("component", "poller"),
		},
		client,
	)
	if err != nil {
		return nil, nil, nil, err
	}

	r, err := NewRunner(p, c.Poll.Interval(), logger.With("component", "runner"))
	if err != nil {
		return nil, nil, nil, err
	}

	logger.Info("poller built",
		"endpoint", c.Device.Endpoint(),
		"variant", variant.String(),
		"interval", c.Poll.Interval(),
		"reuse_connection", c.Device.ReuseConnection,
	)

	return p, r, client.Close, nil
}
