// internal/config/validate_test.go
package config

import "testing"

// helper to build a normalized config quickly
func valid() *Config {
	cfg := &Config{}
	Normalize(cfg)
	return cfg
}

// ---- tests ----

func TestNormalize_Defaults(t *testing.T) {
	cfg := valid()

	if cfg.Device.Address != DefaultAddress {
		t.Fatalf("address: got %q", cfg.Device.Address)
	}
	if cfg.Device.Port != 502 {
		t.Fatalf("port: got %d", cfg.Device.Port)
	}
	if cfg.Device.UnitID != 1 {
		t.Fatalf("unit id: got %d", cfg.Device.UnitID)
	}
	if cfg.Poll.IntervalSeconds != 60 {
		t.Fatalf("interval: got %d", cfg.Poll.IntervalSeconds)
	}
	if cfg.Device.LegacyVariant {
		t.Fatalf("legacy variant must default to false")
	}
	if cfg.Publish.Sink != SinkLog || cfg.Publish.Format != FormatJSON {
		t.Fatalf("publish defaults: %+v", cfg.Publish)
	}
	if cfg.Device.Endpoint() != "192.168.1.1:502" {
		t.Fatalf("endpoint: got %q", cfg.Device.Endpoint())
	}
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Device: DeviceConfig{Address: "10.0.0.1", Port: 1502, LegacyVariant: true},
		Poll:   PollConfig{IntervalSeconds: 15},
	}
	Normalize(cfg)

	if cfg.Device.Endpoint() != "10.0.0.1:1502" {
		t.Fatalf("endpoint: got %q", cfg.Device.Endpoint())
	}
	if cfg.Poll.IntervalSeconds != 15 || !cfg.Device.LegacyVariant {
		t.Fatalf("explicit values overwritten: %+v", cfg)
	}
}

func TestValidate_DefaultsPass(t *testing.T) {
	if err := Validate(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port too high", func(c *Config) { c.Device.Port = 70000 }},
		{"port negative", func(c *Config) { c.Device.Port = -1 }},
		{"negative interval", func(c *Config) { c.Poll.IntervalSeconds = -5 }},
		{"negative timeout", func(c *Config) { c.Device.TimeoutMs = -1 }},
		{"blank address", func(c *Config) { c.Device.Address = "  " }},
		{"unknown sink", func(c *Config) { c.Publish.Sink = "kafka" }},
		{"unknown format", func(c *Config) { c.Publish.Format = "xml" }},
		{"mqtt without broker", func(c *Config) { c.Publish.Sink = SinkMQTT }},
		{"mqtt bad qos", func(c *Config) {
			c.Publish.Sink = SinkMQTT
			c.Publish.MQTT.Broker = "tcp://localhost:1883"
			c.Publish.MQTT.QoS = 3
		}},
		{"mqtt wildcard prefix", func(c *Config) {
			c.Publish.Sink = SinkMQTT
			c.Publish.MQTT.Broker = "tcp://localhost:1883"
			c.Publish.MQTT.TopicPrefix = "modem/#"
		}},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tc := range cases {
		cfg := valid()
		tc.mutate(cfg)
		if err := Validate(cfg); err == nil {
			t.Fatalf("%s: expected error, got nil", tc.name)
		}
	}
}

func TestValidate_MQTTOK(t *testing.T) {
	cfg := valid()
	cfg.Publish.Sink = SinkMQTT
	cfg.Publish.MQTT.Broker = "tcp://localhost:1883"
	cfg.Publish.MQTT.QoS = 1

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	cfg := &Config{}
	_ = Validate(cfg)
	if cfg.Device.Port != 0 || cfg.Publish.Sink != "" {
		t.Fatalf("Validate mutated config: %+v", cfg)
	}
}
