// cmd/modem-poller/main_test.go
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/modem-poller/internal/config"
)

func TestLoadConfig_FlagOverridesLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("device:\n  address: 10.0.0.1\nlog:\n  level: info\n"), 0o600))

	cfg, err := loadConfig(options{configPath: path, logLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "10.0.0.1", cfg.Device.Address)
	assert.Equal(t, config.DefaultPort, cfg.Device.Port)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := loadConfig(options{logLevel: "loud"})
	require.Error(t, err)
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestRootCmd_RejectsExtraArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"a.yaml", "b.yaml"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	require.Error(t, cmd.Execute())
}
