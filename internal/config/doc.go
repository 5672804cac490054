// Package config loads, normalizes, and validates ngrams configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), and
// reads TOML files from --config, ~/.config/ngrams/config.toml or
// ./ngrams.toml, in that order. Command-line flags are applied on top by the
// CLI after Load returns.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical encoding names, and clear validation errors.
package config
