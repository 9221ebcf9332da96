package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/ingestion"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/platform"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/rendering"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch [url]...",
	Short: "Generate auto-fill scripts for many job URLs",
	Long: `Generates one script per job URL into --out-dir. URLs come from the arguments
and/or --urls, a text file with one URL per line (blank lines and lines starting
with # are ignored). Unsupported platforms are skipped.`,
	RunE: runBatch,
}

var (
	batchURLsFile string
	batchOutDir   string
	batchProfile  string
)

func init() {
	batchCmd.Flags().StringVar(&batchURLsFile, "urls", "", "File with one job URL per line")
	batchCmd.Flags().StringVarP(&batchOutDir, "out-dir", "o", "", "Directory for generated scripts (required)")
	batchCmd.Flags().StringVarP(&batchProfile, "profile", "p", "", "Path to profile JSON (defaults to the configured profile)")

	if err := batchCmd.MarkFlagRequired("out-dir"); err != nil {
		panic(fmt.Sprintf("failed to mark out-dir flag as required: %v", err))
	}

	rootCmd.AddCommand(batchCmd)
}

// batchResult is the outcome for one URL, kept in input order.
type batchResult struct {
	posting types.JobPosting
	file    string
}

func runBatch(cmd *cobra.Command, args []string) error {
	urls := append([]string(nil), args...)
	if batchURLsFile != "" {
		fromFile, err := readURLList(batchURLsFile)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no job URLs given; pass them as arguments or with --urls")
	}

	profile, err := loadProfile(profilePath(batchProfile))
	if err != nil {
		return err
	}
	generator, err := newGenerator()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(batchOutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	results := make([]batchResult, len(urls))
	g, gCtx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(cfg.Concurrency, 1))

	for i, jobURL := range urls {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			posting := ingestion.Analyze(jobURL)
			results[i].posting = posting
			if !posting.Supported {
				debugf("skipping %s: %s is not supported", jobURL, posting.Platform)
				return nil
			}

			id, _ := platform.Parse(posting.Platform)
			script, err := generator.Generate(id, profile, jobURL)
			if err != nil {
				return fmt.Errorf("failed to generate script for %s: %w", jobURL, err)
			}
			if rendering.IsUnsupported(script) {
				return nil
			}

			name := scriptFileName(i, posting)
			if err := writeFile(filepath.Join(batchOutDir, name), []byte(script)); err != nil {
				return err
			}
			results[i].file = name
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	written := 0
	for _, r := range results {
		if r.file == "" {
			fmt.Fprintf(out, "%s %-10s skipped  %s\n", r.posting.Icon, r.posting.Platform, r.posting.URL)
			continue
		}
		written++
		fmt.Fprintf(out, "%s %-10s %s\n", r.posting.Icon, r.posting.Platform, r.file)
	}
	fmt.Fprintf(out, "\n%d of %d scripts written to %s\n", written, len(results), batchOutDir)

	if missing := profile.MissingRequired(); len(missing) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: profile is missing %s\n", strings.Join(missing, ", "))
	}
	return nil
}

func readURLList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL list: %w", err)
	}
	defer func() { _ = f.Close() }()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	return urls, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// scriptFileName builds a stable, filesystem-safe name such as 003-lever-abcd-1234.js.
func scriptFileName(i int, posting types.JobPosting) string {
	jobID := unsafeFileChars.ReplaceAllString(posting.JobID, "_")
	if len(jobID) > 40 {
		jobID = jobID[:40]
	}
	return fmt.Sprintf("%03d-%s-%s.js", i+1, strings.ToLower(posting.Platform), jobID)
}
