// internal/config/load.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file. An empty path yields a zero config,
// leaving everything to environment overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv loads optional dotenv files, then overrides cfg from the environment.
// Variables already set in the process environment win over dotenv files.
// Malformed numeric or boolean values are reported, not defaulted.
func ApplyEnv(cfg *Config, envFiles ...string) error {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("env file %s: %w", f, err)
		}
	}

	envString("MODEM_ADDRESS", &cfg.Device.Address)
	if err := envInt("MODEM_PORT", &cfg.Device.Port); err != nil {
		return err
	}
	if err := envUint8("MODEM_UNIT_ID", &cfg.Device.UnitID); err != nil {
		return err
	}
	if err := envInt("MODEM_TIMEOUT_MS", &cfg.Device.TimeoutMs); err != nil {
		return err
	}
	if err := envBool("MODEM_LEGACY_VARIANT", &cfg.Device.LegacyVariant); err != nil {
		return err
	}
	if err := envBool("MODEM_REUSE_CONNECTION", &cfg.Device.ReuseConnection); err != nil {
		return err
	}

	if err := envInt("POLL_INTERVAL_SECONDS", &cfg.Poll.IntervalSeconds); err != nil {
		return err
	}

	envString("PUBLISH_SINK", &cfg.Publish.Sink)
	envString("PUBLISH_FORMAT", &cfg.Publish.Format)
	envString("PUBLISH_CONTEXT", &cfg.Publish.Context)
	envString("MQTT_HOST", &cfg.Publish.MQTT.Broker)
	envString("MQTT_CLIENT_ID", &cfg.Publish.MQTT.ClientID)
	envString("MQTT_USERNAME", &cfg.Publish.MQTT.Username)
	envString("MQTT_PASSWORD", &cfg.Publish.MQTT.Password)
	envString("MQTT_TOPIC", &cfg.Publish.MQTT.TopicPrefix)
	if err := envInt("MQTT_QOS", &cfg.Publish.MQTT.QoS); err != nil {
		return err
	}

	envString("LOG_LEVEL", &cfg.Log.Level)
	envString("LOG_FORMAT", &cfg.Log.Format)

	return nil
}

func envString(name string, dst *string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*dst = v
	}
}

func envInt(name string, dst *int) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("env %s: %q is not an integer", name, v)
	}
	*dst = n
	return nil
}

func envUint8(name string, dst *uint8) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 8)
	if err != nil {
		return fmt.Errorf("env %s: %q is not a unit id", name, v)
	}
	*dst = uint8(n)
	return nil
}

func envBool(name string, dst *bool) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("env %s: %q is not a boolean", name, v)
	}
	*dst = b
	return nil
}
