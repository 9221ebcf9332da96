package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/platform"
)

var detectCmd = &cobra.Command{
	Use:   "detect <url>...",
	Short: "Identify the application platform of job URLs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, rawURL := range args {
		id, icon := platform.Detect(rawURL)
		support := "unsupported"
		if id.Supported() {
			support = "supported"
		}
		fmt.Fprintf(out, "%s %-10s %-11s %s\n", icon, id, support, rawURL)
	}
	return nil
}
