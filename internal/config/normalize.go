// internal/config/normalize.go
package config

const (
	DefaultAddress         = "192.168.1.1"
	DefaultPort            = 502
	DefaultUnitID          = 1
	DefaultTimeoutMs       = 5000
	DefaultIntervalSeconds = 60
	DefaultContext         = "vessels.self"
	DefaultSourceLabel     = "modem-poller"
	DefaultClientID        = "modem-poller"
	DefaultTopicPrefix     = "modem"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// Normalize fills defaults for unset fields.
// It is allowed to mutate configuration.
// It MUST be called before Validate(); explicit invalid values are left for Validate to reject.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	d := &cfg.Device
	if d.Address == "" {
		d.Address = DefaultAddress
	}
	if d.Port == 0 {
		d.Port = DefaultPort
	}
	// Unit id 0 is the TCP broadcast id; RUT firmware answers on 1.
	if d.UnitID == 0 {
		d.UnitID = DefaultUnitID
	}
	if d.TimeoutMs == 0 {
		d.TimeoutMs = DefaultTimeoutMs
	}

	if cfg.Poll.IntervalSeconds == 0 {
		cfg.Poll.IntervalSeconds = DefaultIntervalSeconds
	}

	p := &cfg.Publish
	if p.Sink == "" {
		p.Sink = SinkLog
	}
	if p.Format == "" {
		p.Format = FormatJSON
	}
	if p.Context == "" {
		p.Context = DefaultContext
	}
	if p.SourceLabel == "" {
		p.SourceLabel = DefaultSourceLabel
	}
	if p.MQTT.ClientID == "" {
		p.MQTT.ClientID = DefaultClientID
	}
	if p.MQTT.TopicPrefix == "" {
		p.MQTT.TopicPrefix = DefaultTopicPrefix
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
