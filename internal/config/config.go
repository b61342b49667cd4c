// internal/config/config.go
package config

import (
	"net"
	"strconv"
	"time"
)

type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Poll    PollConfig    `yaml:"poll"`
	Publish PublishConfig `yaml:"publish"`
	Log     LogConfig     `yaml:"log"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Address   string `yaml:"address"`
	Port      int    `yaml:"port"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// RUT240 keeps its usage counters at a different address.
	LegacyVariant bool `yaml:"legacy_variant"`

	// Keep one connection across fetches instead of one per fetch.
	ReuseConnection bool `yaml:"reuse_connection"`
}

// Endpoint is the host:port dial target.
func (d DeviceConfig) Endpoint() string {
	return net.JoinHostPort(d.Address, strconv.Itoa(d.Port))
}

func (d DeviceConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutMs) * time.Millisecond
}

// ---- POLL ----

type PollConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalSeconds) * time.Second
}

// ---- PUBLISH ----

const (
	SinkLog  = "log"
	SinkMQTT = "mqtt"

	FormatJSON = "json"
	FormatCBOR = "cbor"
)

type PublishConfig struct {
	Sink        string     `yaml:"sink"`
	Format      string     `yaml:"format"`
	Context     string     `yaml:"context"`
	SourceLabel string     `yaml:"source_label"`
	MQTT        MQTTConfig `yaml:"mqtt"`
}

type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         int    `yaml:"qos"`
}

// ---- LOG ----

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}
