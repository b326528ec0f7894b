package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
	assert.Equal(t, "otai.command", cfg.Channel.CommandSubject)
	assert.Equal(t, 60*time.Second, cfg.Channel.WaitTimeout.Std())
	assert.Equal(t, "lairedis-oid", cfg.Store.Bucket)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "bridge.json", `{
		"nats": {"url": "nats://agent:4222", "connect_timeout": "10s"},
		"channel": {
			"command_subject": "lc1.command",
			"response_subject": "lc1.response",
			"notification_subject": "lc1.notification",
			"wait_timeout": "30s"
		},
		"store": {"bucket": "lc1-oid"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "nats://agent:4222", cfg.NATS.URL)
	assert.Equal(t, 10*time.Second, cfg.NATS.ConnectTimeout.Std())
	assert.Equal(t, "lc1.command", cfg.Channel.CommandSubject)
	assert.Equal(t, 30*time.Second, cfg.Channel.WaitTimeout.Std())
	assert.Equal(t, "lc1-oid", cfg.Store.Bucket)
	// Untouched fields keep their defaults
	assert.Equal(t, "vidcounter", cfg.Store.CounterKey)
	assert.Equal(t, -1, cfg.NATS.MaxReconnects)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "bridge.yaml", `
nats:
  url: nats://agent:4222
  reconnect_wait: 500ms
channel:
  command_subject: lc2.command
  response_subject: lc2.response
  notification_subject: lc2.notification
  wait_timeout: 0s
metrics:
  enabled: true
  port: 9200
  path: /metrics
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.NATS.ReconnectWait.Std())
	assert.Zero(t, cfg.Channel.WaitTimeout.Std())
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9200, cfg.Metrics.Port)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Channel, cfg.Channel)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "bridge.toml", "nats = {}")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoadMalformedJSON(t *testing.T) {
	path := writeConfig(t, "bridge.json", `{"nats": {`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := writeConfig(t, "bridge.json", `{"nats": {"url": ""}}`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nats.url is required")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LAIREDIS_NATS_URL", "nats://override:4222")
	t.Setenv("LAIREDIS_STORE_BUCKET", "override-oid")
	t.Setenv("LAIREDIS_METRICS_PORT", "9300")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "nats://override:4222", cfg.NATS.URL)
	assert.Equal(t, "override-oid", cfg.Store.Bucket)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9300, cfg.Metrics.Port)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing url",
			mutate:  func(c *Config) { c.NATS.URL = "" },
			wantErr: "nats.url is required",
		},
		{
			name:    "missing command subject",
			mutate:  func(c *Config) { c.Channel.CommandSubject = "" },
			wantErr: "channel.command_subject is required",
		},
		{
			name:    "bad subject characters",
			mutate:  func(c *Config) { c.Channel.ResponseSubject = "otai response" },
			wantErr: "not a valid NATS subject",
		},
		{
			name:    "leading dot subject",
			mutate:  func(c *Config) { c.Channel.NotificationSubject = ".otai.notification" },
			wantErr: "not a valid NATS subject",
		},
		{
			name:    "negative wait timeout",
			mutate:  func(c *Config) { c.Channel.WaitTimeout = Duration(-time.Second) },
			wantErr: "channel.wait_timeout cannot be negative",
		},
		{
			name:    "missing bucket",
			mutate:  func(c *Config) { c.Store.Bucket = "" },
			wantErr: "store.bucket is required",
		},
		{
			name: "metrics port out of range",
			mutate: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.Port = 70000
			},
			wantErr: "out of range",
		},
		{
			name: "metrics path without slash",
			mutate: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.Path = "metrics"
			},
			wantErr: "must start with /",
		},
		{
			name: "tls enabled without cert",
			mutate: func(c *Config) {
				c.Security.TLS.Server.Enabled = true
			},
			wantErr: "cert_file is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDurationRoundTrip(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"90s"`)))
	assert.Equal(t, 90*time.Second, d.Std())

	raw, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(raw))

	// Bare nanosecond counts are accepted too
	require.NoError(t, d.UnmarshalJSON([]byte(`1000000000`)))
	assert.Equal(t, time.Second, d.Std())

	require.Error(t, d.UnmarshalJSON([]byte(`"not-a-duration"`)))
}
