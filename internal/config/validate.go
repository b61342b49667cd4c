// internal/config/validate.go
package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	d := cfg.Device
	if strings.TrimSpace(d.Address) == "" {
		return fmt.Errorf("device.address: required")
	}
	if d.Port < 1 || d.Port > 65535 {
		return fmt.Errorf("device.port: %d out of range 1-65535", d.Port)
	}
	if d.TimeoutMs <= 0 {
		return fmt.Errorf("device.timeout_ms: must be > 0, got %d", d.TimeoutMs)
	}

	// ------------------------------------------------------------
	// POLL
	// ------------------------------------------------------------

	if cfg.Poll.IntervalSeconds <= 0 {
		return fmt.Errorf("poll.interval_seconds: must be > 0, got %d", cfg.Poll.IntervalSeconds)
	}

	// ------------------------------------------------------------
	// PUBLISH
	// ------------------------------------------------------------

	p := cfg.Publish
	switch p.Sink {
	case SinkLog:
	case SinkMQTT:
		if p.MQTT.Broker == "" {
			return fmt.Errorf("publish.mqtt.broker: required when sink is %q", SinkMQTT)
		}
		if p.MQTT.QoS < 0 || p.MQTT.QoS > 2 {
			return fmt.Errorf("publish.mqtt.qos: %d out of range 0-2", p.MQTT.QoS)
		}
		if strings.ContainsAny(p.MQTT.TopicPrefix, "+#") {
			return fmt.Errorf("publish.mqtt.topic_prefix: wildcards not allowed in %q", p.MQTT.TopicPrefix)
		}
	default:
		return fmt.Errorf("publish.sink: unknown sink %q", p.Sink)
	}

	switch p.Format {
	case FormatJSON, FormatCBOR:
	default:
		return fmt.Errorf("publish.format: unknown format %q", p.Format)
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	if _, err := cfg.Log.SlogLevel(); err != nil {
		return err
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.Log.Format)
	}

	return nil
}

// SlogLevel parses the configured level name.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}
