// Package config loads and validates bridge configuration.
//
// Configuration comes from three layers: compiled-in defaults, an optional
// JSON or YAML file, and LAIREDIS_* environment overrides for
// connection-level settings. Load applies the layers in that order and
// validates the result, so a *Config handed to the rest of the system is
// always internally consistent.
package config
