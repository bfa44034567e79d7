package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. LLM credentials are checked
// separately by preflight because their absence is a pre-flight fatal
// condition rather than a parse error; Validate only rejects values that can
// never work.
func (c *Config) Validate() error {
	if err := c.validateWhisper(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWhisper() error {
	switch c.Whisper.Mode {
	case "", "remote", "local":
		return nil
	default:
		return fmt.Errorf("whisper.mode must be \"remote\", \"local\", or empty, got %q", c.Whisper.Mode)
	}
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.MaxAttempts > 10 {
		return errors.New("workflow.max_attempts must be at most 10")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
