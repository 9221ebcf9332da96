// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/fieldmap"
)

// Default values applied by MergeWithDefaults callers.
const (
	DefaultProfilePath      = "profile.json"
	DefaultApplicationsPath = "applications.json"
	DefaultConcurrency      = 4
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Profile      string `json:"profile,omitempty"`      // Path to profile JSON
	Applications string `json:"applications,omitempty"` // Path to application history JSON
	Template     string `json:"template,omitempty"`     // Path to a custom script template

	// Screening answers embedded into generated scripts
	Answers fieldmap.Answers `json:"answers,omitempty"`

	// Behavior
	Concurrency int    `json:"concurrency,omitempty"`  // Workers used by batch generation
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty"`    // Redis connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}

	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}

	if c.Profile != "" && c.Profile == c.Applications {
		return fmt.Errorf("config error: 'profile' and 'applications' must be different files")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Profile == "" {
		result.Profile = defaults.Profile
	}
	if result.Applications == "" {
		result.Applications = defaults.Applications
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}

	// Int fields: use default if zero
	if result.Concurrency == 0 {
		if defaults.Concurrency > 0 {
			result.Concurrency = defaults.Concurrency
		} else {
			result.Concurrency = DefaultConcurrency
		}
	}

	// Answers: empty entries fall back to the defaults' entries
	result.Answers = mergeAnswers(result.Answers, defaults.Answers)

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

func mergeAnswers(a, defaults fieldmap.Answers) fieldmap.Answers {
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	a.NoticePeriod = pick(a.NoticePeriod, defaults.NoticePeriod)
	a.StartDate = pick(a.StartDate, defaults.StartDate)
	a.Salary = pick(a.Salary, defaults.Salary)
	a.HowDidYouHear = pick(a.HowDidYouHear, defaults.HowDidYouHear)
	a.VisaStatus = pick(a.VisaStatus, defaults.VisaStatus)
	a.VisaType = pick(a.VisaType, defaults.VisaType)
	a.OpenToWorking = pick(a.OpenToWorking, defaults.OpenToWorking)
	a.CodingLanguage = pick(a.CodingLanguage, defaults.CodingLanguage)
	if len(a.Languages) == 0 {
		a.Languages = defaults.Languages
	}
	return a
}
