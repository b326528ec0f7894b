package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/zhengweitang-zwt/sonic-otn-laireds/pkg/security"
)

// Duration wraps time.Duration so config files can carry human-readable
// values like "60s" or "2m" in both JSON and YAML.
type Duration time.Duration

// Std returns the wrapped time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String returns the human-readable form
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler. Accepts a duration string or a
// bare number of nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return d.fromAny(raw)
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return d.fromAny(raw)
}

func (d *Duration) fromAny(raw any) error {
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case float64:
		*d = Duration(time.Duration(v))
	case int:
		*d = Duration(time.Duration(v))
	default:
		return fmt.Errorf("invalid duration value %v", raw)
	}
	return nil
}

// Config is the complete bridge configuration
type Config struct {
	NATS     NATSConfig      `json:"nats" yaml:"nats"`
	Channel  ChannelConfig   `json:"channel" yaml:"channel"`
	Store    StoreConfig     `json:"store" yaml:"store"`
	Metrics  MetricsConfig   `json:"metrics" yaml:"metrics"`
	Security security.Config `json:"security,omitempty" yaml:"security,omitempty"`
}

// NATSConfig defines the connection to the NATS server carrying the
// command, response and notification subjects.
type NATSConfig struct {
	URL            string   `json:"url" yaml:"url"`
	Name           string   `json:"name,omitempty" yaml:"name,omitempty"`
	ConnectTimeout Duration `json:"connect_timeout,omitempty" yaml:"connect_timeout,omitempty"`
	ReconnectWait  Duration `json:"reconnect_wait,omitempty" yaml:"reconnect_wait,omitempty"`
	MaxReconnects  int      `json:"max_reconnects,omitempty" yaml:"max_reconnects,omitempty"`
}

// ChannelConfig defines the keyed command channel
type ChannelConfig struct {
	CommandSubject      string `json:"command_subject" yaml:"command_subject"`
	ResponseSubject     string `json:"response_subject" yaml:"response_subject"`
	NotificationSubject string `json:"notification_subject" yaml:"notification_subject"`
	ResponseBuffer      int    `json:"response_buffer,omitempty" yaml:"response_buffer,omitempty"`
	// WaitTimeout bounds the blocking wait for a response. Zero waits
	// indefinitely.
	WaitTimeout Duration `json:"wait_timeout" yaml:"wait_timeout"`
}

// StoreConfig defines the KV bucket backing identifier counters
type StoreConfig struct {
	Bucket     string `json:"bucket" yaml:"bucket"`
	CounterKey string `json:"counter_key,omitempty" yaml:"counter_key,omitempty"`
}

// MetricsConfig defines the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Port    int    `json:"port,omitempty" yaml:"port,omitempty"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		NATS: NATSConfig{
			URL:            "nats://localhost:4222",
			Name:           "lairedis-bridge",
			ConnectTimeout: Duration(5 * time.Second),
			ReconnectWait:  Duration(2 * time.Second),
			MaxReconnects:  -1,
		},
		Channel: ChannelConfig{
			CommandSubject:      "otai.command",
			ResponseSubject:     "otai.response",
			NotificationSubject: "otai.notification",
			ResponseBuffer:      16,
			WaitTimeout:         Duration(60 * time.Second),
		},
		Store: StoreConfig{
			Bucket:     "lairedis-oid",
			CounterKey: "vidcounter",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9100,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for internal consistency
func (c *Config) Validate() error {
	if c.NATS.URL == "" {
		return errors.New("nats.url is required")
	}
	if c.NATS.ConnectTimeout < 0 {
		return errors.New("nats.connect_timeout cannot be negative")
	}
	if c.NATS.ReconnectWait < 0 {
		return errors.New("nats.reconnect_wait cannot be negative")
	}

	for name, subject := range map[string]string{
		"channel.command_subject":      c.Channel.CommandSubject,
		"channel.response_subject":     c.Channel.ResponseSubject,
		"channel.notification_subject": c.Channel.NotificationSubject,
	} {
		if subject == "" {
			return fmt.Errorf("%s is required", name)
		}
		if !isValidSubject(subject) {
			return fmt.Errorf("%s %q is not a valid NATS subject", name, subject)
		}
	}
	if c.Channel.ResponseBuffer < 0 {
		return errors.New("channel.response_buffer cannot be negative")
	}
	if c.Channel.WaitTimeout < 0 {
		return errors.New("channel.wait_timeout cannot be negative")
	}

	if c.Store.Bucket == "" {
		return errors.New("store.bucket is required")
	}
	if !isValidSubject(c.Store.Bucket) {
		return fmt.Errorf("store.bucket %q is not a valid bucket name", c.Store.Bucket)
	}

	if c.Metrics.Enabled {
		if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port %d out of range", c.Metrics.Port)
		}
		if c.Metrics.Path == "" || c.Metrics.Path[0] != '/' {
			return fmt.Errorf("metrics.path %q must start with /", c.Metrics.Path)
		}
	}

	if err := c.validateSecurity(); err != nil {
		return fmt.Errorf("security configuration: %w", err)
	}

	return nil
}

// validateSecurity checks TLS material referenced by the config exists
func (c *Config) validateSecurity() error {
	if c.Security.TLS.Server.Enabled {
		if c.Security.TLS.Server.CertFile == "" {
			return errors.New("tls.server.cert_file is required when TLS is enabled")
		}
		if c.Security.TLS.Server.KeyFile == "" {
			return errors.New("tls.server.key_file is required when TLS is enabled")
		}
		if _, err := os.Stat(c.Security.TLS.Server.CertFile); err != nil {
			return fmt.Errorf("tls.server.cert_file: %w", err)
		}
		if _, err := os.Stat(c.Security.TLS.Server.KeyFile); err != nil {
			return fmt.Errorf("tls.server.key_file: %w", err)
		}
		if c.Security.TLS.Server.MinVersion != "" {
			if err := validateTLSVersion(c.Security.TLS.Server.MinVersion); err != nil {
				return fmt.Errorf("tls.server.min_version: %w", err)
			}
		}
	}

	for i, caFile := range c.Security.TLS.Client.CAFiles {
		if _, err := os.Stat(caFile); err != nil {
			return fmt.Errorf("tls.client.ca_files[%d]: %w", i, err)
		}
	}
	if c.Security.TLS.Client.MinVersion != "" {
		if err := validateTLSVersion(c.Security.TLS.Client.MinVersion); err != nil {
			return fmt.Errorf("tls.client.min_version: %w", err)
		}
	}

	return nil
}

func validateTLSVersion(version string) error {
	switch version {
	case "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS version %q (must be \"1.2\" or \"1.3\")", version)
	}
}

// isValidSubject checks a string is a usable NATS subject token sequence:
// alphanumeric tokens separated by dots, dashes and underscores allowed.
func isValidSubject(s string) bool {
	if len(s) == 0 || s[0] == '.' || s[len(s)-1] == '.' {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) &&
			r != '-' && r != '_' && r != '.' {
			return false
		}
	}
	return true
}
