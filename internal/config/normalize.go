package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSorting()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WatchDir) == "" {
		c.Paths.WatchDir = defaultWatchDir
	}
	if c.Paths.WatchDir, err = expandPath(c.Paths.WatchDir); err != nil {
		return fmt.Errorf("paths.watch_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSorting() {
	if c.Sorting.StabilityTimeoutSeconds <= 0 {
		c.Sorting.StabilityTimeoutSeconds = defaultStabilityTimeoutSeconds
	}
	if c.Sorting.StabilityPollSeconds <= 0 {
		c.Sorting.StabilityPollSeconds = defaultStabilityPollSeconds
	}
	if c.Sorting.MoveAttempts <= 0 {
		c.Sorting.MoveAttempts = defaultMoveAttempts
	}
	if c.Sorting.MoveRetryDelaySeconds <= 0 {
		c.Sorting.MoveRetryDelaySeconds = defaultMoveRetryDelaySeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
