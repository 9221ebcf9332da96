// Package main provides the autoapply CLI: job URL analysis, auto-fill script
// generation, application tracking and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "autoapply",
	Short: "Job application auto-fill script generator and tracker",
	Long: `autoapply recognizes the applicant tracking platform behind a job URL, generates a
JavaScript snippet that fills the application form from your profile, and keeps a
history of the applications you submitted.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadRootConfig,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
