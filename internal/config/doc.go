// Package config loads, normalizes, and validates the memedex TOML
// configuration. Environment variables provide overrides for deployment
// settings such as the data directory and worker counts; all path fields are
// expanded to absolute paths before use.
package config
