package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath   string
	LogLevel     string
	LogFormat    string
	HardwareInfo string
	OpTimeout    time.Duration
	Watch        bool
	Validate     bool
	ShowVersion  bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("LAIREDIS_CONFIG", ""),
		"Path to configuration file, empty for defaults (env: LAIREDIS_CONFIG)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("LAIREDIS_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: LAIREDIS_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("LAIREDIS_LOG_FORMAT", "text"),
		"Log format: json, text (env: LAIREDIS_LOG_FORMAT)")

	flag.StringVar(&cfg.HardwareInfo, "hardware-info",
		getEnv("LAIREDIS_HARDWARE_INFO", ""),
		"Linecard hardware info string; a stable identifier is derived from it (env: LAIREDIS_HARDWARE_INFO)")

	flag.DurationVar(&cfg.OpTimeout, "timeout", 90*time.Second,
		"Overall timeout for the probe operations")

	flag.BoolVar(&cfg.Watch, "watch", false,
		"Stay attached after the probe and stream notifications")
	flag.BoolVar(&cfg.Validate, "validate", false,
		"Validate configuration and exit")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")

	flag.Parse()
	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	if cfg.ConfigPath != "" {
		if _, err := os.Stat(cfg.ConfigPath); err != nil {
			return fmt.Errorf("config file not found: %s", cfg.ConfigPath)
		}
	}

	if cfg.OpTimeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", cfg.OpTimeout)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
