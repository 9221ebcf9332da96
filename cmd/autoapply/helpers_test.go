package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/config"
)

// getBinaryPath returns the path to the autoapply binary for testing
func getBinaryPath(t *testing.T) string {
	if testing.Short() {
		t.Skip("Skipping CLI binary tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", "autoapply")
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/autoapply ./cmd/autoapply'", binaryPath)
	}

	return binaryPath
}

// resetFlags restores every flag to its default so commands can run repeatedly in-process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// executeCLI runs the root command with args and returns stdout and stderr.
func executeCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = config.Config{}
	now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mustExecute runs the CLI and fails the test on error.
func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := executeCLI(t, args...)
	require.NoError(t, err, "stderr: %s", stderr)
	return stdout
}

// writeConfig writes a config file that points the profile and application
// history into dir, and returns its path.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.json")
	data := []byte(`{
  "profile": "` + filepath.ToSlash(filepath.Join(dir, "profile.json")) + `",
  "applications": "` + filepath.ToSlash(filepath.Join(dir, "applications.json")) + `",
  "concurrency": 2
}`)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}
