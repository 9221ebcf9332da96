package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/observability"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/platform"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/rendering"
)

var scriptCmd = &cobra.Command{
	Use:   "script <url>",
	Short: "Generate the auto-fill script for a job URL",
	Long: `Generates a JavaScript snippet that fills the application form at <url> from your
profile. Paste it into the browser console on the application page. Unsupported
platforms produce a placeholder script that only logs a message.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

var (
	scriptProfile string
	scriptOut     string
)

func init() {
	scriptCmd.Flags().StringVarP(&scriptProfile, "profile", "p", "", "Path to profile JSON (defaults to the configured profile)")
	scriptCmd.Flags().StringVarP(&scriptOut, "out", "o", "", "Write the script to this file instead of stdout")
	rootCmd.AddCommand(scriptCmd)
}

func runScript(cmd *cobra.Command, args []string) error {
	jobURL := args[0]

	profile, err := loadProfile(profilePath(scriptProfile))
	if err != nil {
		return err
	}
	generator, err := newGenerator()
	if err != nil {
		return err
	}

	id, _ := platform.Detect(jobURL)
	debugf("detected platform %s for %s", id, jobURL)

	script, err := generator.Generate(id, profile, jobURL)
	if err != nil {
		return fmt.Errorf("failed to generate script: %w", err)
	}

	// Warnings go to stderr so stdout stays a clean script.
	if missing := profile.MissingRequired(); len(missing) > 0 {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintMissingRequired(missing)
	}
	if rendering.IsUnsupported(script) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s is not supported; the script only logs a message\n", id.Icon(), id)
	}

	if scriptOut == "" {
		fmt.Fprintln(cmd.OutOrStdout(), script)
		return nil
	}
	if err := writeFile(scriptOut, []byte(script)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Script for %s written to %s\n", id, scriptOut)
	return nil
}
