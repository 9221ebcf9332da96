package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/config"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/observability"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/rendering"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/tracker"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

var (
	configPath string
	verbose    bool

	// cfg is the effective configuration: config file values merged with defaults.
	cfg config.Config

	// now stamps tracked applications.
	now = time.Now
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

func loadRootConfig(_ *cobra.Command, _ []string) error {
	fileCfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		fileCfg = loaded
	}

	cfg = fileCfg.MergeWithDefaults(config.Config{
		Profile:      config.DefaultProfilePath,
		Applications: config.DefaultApplicationsPath,
		Concurrency:  config.DefaultConcurrency,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
	})
	cfg.Verbose = verbose || fileCfg.Verbose

	debugf("config: profile=%s applications=%s concurrency=%d", cfg.Profile, cfg.Applications, cfg.Concurrency)
	return nil
}

func debugf(format string, args ...any) {
	if cfg.Verbose {
		log.Printf("[VERBOSE] "+format, args...)
	}
}

func printer(cmd *cobra.Command) *observability.Printer {
	return observability.NewPrinter(cmd.OutOrStdout())
}

// profilePath returns the flag value when set, else the configured profile path.
func profilePath(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Profile
}

// loadProfile reads a profile file. A missing file yields an empty profile.
func loadProfile(path string) (*types.Profile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		debugf("profile %s not found, using an empty profile", path)
		return types.NewProfile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	profile, err := types.ImportProfile(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %s: %w", path, err)
	}
	return profile, nil
}

func saveProfile(path string, profile *types.Profile) error {
	return writeJSON(path, profile)
}

func newGenerator() (*rendering.Generator, error) {
	if cfg.Template != "" {
		debugf("using script template %s", cfg.Template)
		return rendering.NewGeneratorFromFile(cfg.Template, cfg.Answers)
	}
	return rendering.NewGenerator(cfg.Answers), nil
}

func openTracker(cmd *cobra.Command) (*tracker.Tracker, error) {
	debugf("application history: %s", cfg.Applications)
	return tracker.Open(cmd.Context(), tracker.NewFileStore(cfg.Applications))
}
