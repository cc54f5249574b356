package main

import (
	"os"
	"strconv"

	"github.com/Iweisc/ioc/profiler"
)

// Config centralizes the CLI's environment-derived settings, mirroring the
// teacher's builder.builderConfig functional-defaults-then-override shape
// but sourced from environment variables rather than constructor options,
// since the CLI has no programmatic caller to pass them.
type Config struct {
	ProfilePath string
	Mode        string
	Debug       bool
}

// DefaultConfig returns the CLI's built-in defaults: profiler.DefaultPath,
// balanced selection mode, debug logging off.
func DefaultConfig() *Config {
	return &Config{
		ProfilePath: profiler.DefaultPath,
		Mode:        "balanced",
		Debug:       false,
	}
}

// LoadEnv overlays IOC_PROFILE_PATH, IOC_MODE, and IOC_DEBUG onto the
// config's defaults when set. Malformed IOC_DEBUG is treated as false
// rather than failing the command, matching the profiler's own
// never-fatal-on-bad-input IO policy.
func (c *Config) LoadEnv() error {
	if v := os.Getenv("IOC_PROFILE_PATH"); v != "" {
		c.ProfilePath = v
	}
	if v := os.Getenv("IOC_MODE"); v != "" {
		c.Mode = v
	}
	if v := os.Getenv("IOC_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
	return nil
}
