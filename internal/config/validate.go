package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSorting(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.WatchDir == "" {
		return errors.New("paths.watch_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	if c.Paths.LogDir == c.Paths.WatchDir {
		return errors.New("paths.log_dir must not be the watched directory")
	}
	return nil
}

func (c *Config) validateSorting() error {
	if c.Sorting.StabilityPollSeconds > c.Sorting.StabilityTimeoutSeconds {
		return fmt.Errorf("sorting.stability_poll_seconds (%d) must not exceed sorting.stability_timeout_seconds (%d)",
			c.Sorting.StabilityPollSeconds, c.Sorting.StabilityTimeoutSeconds)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
