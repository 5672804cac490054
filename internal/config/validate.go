package config

import (
	"errors"
	"fmt"

	"github.com/csmclaren/charfreq-tools/internal/pattern"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateScan() error {
	if _, err := pattern.Compile(c.Scan.Patterns); err != nil {
		return fmt.Errorf("scan.patterns: %w", err)
	}
	if _, err := c.InputCharset(); err != nil {
		return fmt.Errorf("scan.input_encoding: %w", err)
	}
	if _, err := c.NewlineMode(); err != nil {
		return fmt.Errorf("scan.newlines: %w", err)
	}
	if c.Scan.BufferKiB <= 0 || c.Scan.BufferKiB > maxBufferKiB {
		return fmt.Errorf("scan.buffer_kib must be between 1 and %d", maxBufferKiB)
	}
	switch c.Scan.Progress {
	case ProgressDots, ProgressBar, ProgressNone:
	default:
		return fmt.Errorf("scan.progress: unsupported value %q (want dots, bar or none)", c.Scan.Progress)
	}
	if c.Scan.ProgressInterval <= 0 {
		return errors.New("scan.progress_interval must be positive")
	}
	return nil
}

func (c *Config) validateExport() error {
	if c.Export.SampleLimit < 0 {
		return errors.New("export.sample_limit must not be negative")
	}
	if _, err := c.OutputCharset(); err != nil {
		return fmt.Errorf("export.output_encoding: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
