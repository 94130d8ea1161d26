package config

import (
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRender(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateRender() error {
	r := c.Render
	if r.SampleRate <= 0 {
		return fmt.Errorf("render.sample_rate must be positive, got %d", r.SampleRate)
	}
	if r.Duration <= 0 {
		return fmt.Errorf("render.duration must be positive, got %d", r.Duration)
	}
	if r.Fadeout < 0 {
		return fmt.Errorf("render.fadeout must not be negative, got %d", r.Fadeout)
	}
	if r.Fadeout > r.Duration {
		return fmt.Errorf("render.fadeout (%d) must not exceed render.duration (%d)", r.Fadeout, r.Duration)
	}
	if math.IsNaN(r.Pan) || math.IsInf(r.Pan, 0) {
		return fmt.Errorf("render.pan must be a finite number, got %v", r.Pan)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
