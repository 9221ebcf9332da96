package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/fetch"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/fieldmap"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/formscan"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/platform"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Check which form fields a script would reach on an application page",
	Long: `Scans application page HTML against the platform's field map and reports which
fields and screening questions the generated script would find. The HTML comes
from --html (a page saved from the browser) or --url (a plain GET, which misses
forms rendered by JavaScript). The platform is taken from --platform, else
detected from --url.`,
	RunE: runPreview,
}

var (
	previewHTML     string
	previewURL      string
	previewPlatform string
)

func init() {
	previewCmd.Flags().StringVar(&previewHTML, "html", "", "Path to a saved application page")
	previewCmd.Flags().StringVarP(&previewURL, "url", "u", "", "Application page URL to fetch")
	previewCmd.Flags().StringVar(&previewPlatform, "platform", "", "Platform name (lever, greenhouse, workday, glassdoor)")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	if previewHTML == "" && previewURL == "" {
		return fmt.Errorf("either --html or --url must be provided")
	}
	if previewHTML != "" && previewURL != "" {
		return fmt.Errorf("--html and --url are mutually exclusive; provide only one")
	}

	id, err := previewPlatformID()
	if err != nil {
		return err
	}
	spec, ok := fieldmap.Build(id, cfg.Answers)
	if !ok {
		return fmt.Errorf("%s has no field map; supported platforms: %v", id, fieldmap.Supported())
	}

	html, err := previewSource(cmd)
	if err != nil {
		return err
	}

	report, err := formscan.Scan(html, spec)
	if err != nil {
		return fmt.Errorf("failed to scan page: %w", err)
	}
	printer(cmd).PrintScanReport(report)
	return nil
}

func previewPlatformID() (platform.ID, error) {
	if previewPlatform != "" {
		id, ok := platform.Parse(previewPlatform)
		if !ok {
			return platform.Unknown, fmt.Errorf("unknown platform %q", previewPlatform)
		}
		return id, nil
	}
	if previewURL == "" {
		return platform.Unknown, fmt.Errorf("--platform is required with --html")
	}
	id, _ := platform.Detect(previewURL)
	return id, nil
}

func previewSource(cmd *cobra.Command) (string, error) {
	if previewHTML != "" {
		data, err := os.ReadFile(previewHTML)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", previewHTML, err)
		}
		return string(data), nil
	}

	result, err := fetch.Page(cmd.Context(), previewURL, fetch.DefaultOptions())
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	if result.Truncated {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: page truncated at %d bytes\n", fetch.DefaultMaxBytes)
	}
	debugf("fetched %s (%d bytes, %s)", previewURL, len(result.HTML), result.ContentType)
	return result.HTML, nil
}
