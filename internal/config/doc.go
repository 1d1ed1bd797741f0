// Package config loads, normalizes, and validates lectern configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and validates detection thresholds once at
// load time so the pipeline never reads settings ad hoc. Always obtain
// settings through this package so downstream code receives sanitized paths
// and clear validation errors.
package config
