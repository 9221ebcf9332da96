package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/ingestion"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Show platform, company, job ID and form notes for a job URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var analyzeJSON bool

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the analysis as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	posting := ingestion.Analyze(args[0])

	if analyzeJSON {
		data, err := json.MarshalIndent(posting, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal analysis: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	printer(cmd).PrintJobPosting(posting)
	return nil
}
