package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxConfigSize bounds config file reads. A config file larger than this is
// a mistake, not a configuration.
const maxConfigSize = 1 << 20

// envPrefix namespaces environment overrides
const envPrefix = "LAIREDIS"

// Load reads a configuration file on top of the defaults. The format
// follows the file extension: .json, .yaml or .yml. Environment overrides
// apply last, then the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := safeReadFile(path)
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		default:
			return nil, fmt.Errorf("unsupported config format %q (want .json, .yaml or .yml)", filepath.Ext(path))
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return cfg, nil
}

// safeReadFile reads a config file with a size bound
func safeReadFile(path string) ([]byte, error) {
	cleaned := filepath.Clean(path)

	info, err := os.Stat(cleaned)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", cleaned, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("config file %s is not a regular file", cleaned)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", cleaned, maxConfigSize)
	}

	return os.ReadFile(cleaned)
}

// applyEnvOverrides applies LAIREDIS_* environment variables over the
// loaded configuration. Only connection-level settings are overridable;
// everything else belongs in the file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envPrefix + "_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv(envPrefix + "_NATS_NAME"); v != "" {
		cfg.NATS.Name = v
	}
	if v := os.Getenv(envPrefix + "_STORE_BUCKET"); v != "" {
		cfg.Store.Bucket = v
	}
	if v := os.Getenv(envPrefix + "_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
			cfg.Metrics.Enabled = true
		}
	}
}
