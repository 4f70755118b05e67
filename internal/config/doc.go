// Package config loads, validates, and normalizes scribe's TOML
// configuration. Defaults live in defaults.go; environment variables
// supply API keys so they never need to be written to disk.
package config
