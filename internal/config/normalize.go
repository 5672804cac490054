package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.Export.OutputEncoding = lowerTrim(c.Export.OutputEncoding, defaultOutputEncoding)
	c.Logging.Format = lowerTrim(c.Logging.Format, defaultLogFormat)
	c.Logging.Level = lowerTrim(c.Logging.Level, defaultLogLevel)
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDirPath()
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() {
	c.Scan.InputEncoding = lowerTrim(c.Scan.InputEncoding, defaultInputEncoding)
	c.Scan.Newlines = lowerTrim(c.Scan.Newlines, defaultNewlines)
	c.Scan.Progress = lowerTrim(c.Scan.Progress, defaultProgress)

	// Empty expressions would match every name; drop them rather than let a
	// stray "" in the list silently disable filtering.
	patterns := c.Scan.Patterns[:0]
	for _, p := range c.Scan.Patterns {
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	c.Scan.Patterns = patterns
}

func lowerTrim(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return value
}
