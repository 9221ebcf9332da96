package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// SessionConfig holds configuration for session tokens and the idle-session sweeper.
type SessionConfig struct {
	Secret          string
	ExpirationHours int
	IdleTimeout     time.Duration
	SweepSpec       string
}

// NewSessionConfig creates a session configuration from environment variables.
// It reads SESSION_SECRET (required), SESSION_EXPIRATION_HOURS (default: 24),
// SESSION_IDLE_TIMEOUT (default: 2h) and SESSION_SWEEP_SPEC (default: @every 10m).
func NewSessionConfig() (*SessionConfig, error) {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required but not set")
	}

	expirationStr := os.Getenv("SESSION_EXPIRATION_HOURS")
	if expirationStr == "" {
		expirationStr = "24" // default
	}

	expirationHours, err := strconv.Atoi(expirationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_EXPIRATION_HOURS: %v", err)
	}

	idleStr := os.Getenv("SESSION_IDLE_TIMEOUT")
	if idleStr == "" {
		idleStr = "2h"
	}
	idleTimeout, err := time.ParseDuration(idleStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_IDLE_TIMEOUT: %v", err)
	}

	sweepSpec := os.Getenv("SESSION_SWEEP_SPEC")
	if sweepSpec == "" {
		sweepSpec = "@every 10m"
	}

	config := &SessionConfig{
		Secret:          secret,
		ExpirationHours: expirationHours,
		IdleTimeout:     idleTimeout,
		SweepSpec:       sweepSpec,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *SessionConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("SESSION_SECRET cannot be empty")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("SESSION_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	if c.IdleTimeout < time.Minute {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be at least 1m, got: %s", c.IdleTimeout)
	}
	return nil
}
