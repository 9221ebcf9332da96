package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/ingestion"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/tracker"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Record and review submitted applications",
	Long: `Keeps the application history in the configured applications file. Listings are
newest first; the #N shown by "track list" is the display index accepted by
"track status".`,
}

var (
	trackCompany  string
	trackPlatform string
	trackStatus   string
	trackStorage  bool
	trackOut      string
)

var trackAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Record a submitted application",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrackAdd,
}

var trackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications, newest first",
	Args:  cobra.NoArgs,
	RunE:  runTrackList,
}

var trackStatusCmd = &cobra.Command{
	Use:   "status <index> <status>",
	Short: "Change an application's status (Applied, Interview, Rejected, Offer, Withdrawn)",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrackStatus,
}

var trackSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show application counts by status and platform",
	Args:  cobra.NoArgs,
	RunE:  runTrackSummary,
}

var trackClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole application history",
	Args:  cobra.NoArgs,
	RunE:  runTrackClear,
}

var trackExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the history as JSON",
	Args:  cobra.NoArgs,
	RunE:  runTrackExport,
}

var trackImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the history with an exported JSON document",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrackImport,
}

func init() {
	trackAddCmd.Flags().StringVar(&trackCompany, "company", "", "Company name (derived from the URL when omitted)")
	trackAddCmd.Flags().StringVar(&trackPlatform, "platform", "", "Platform name (detected from the URL when omitted)")

	trackListCmd.Flags().StringVar(&trackStatus, "status", "", "Only show applications with this status")
	trackListCmd.Flags().StringVar(&trackPlatform, "platform", "", "Only show applications on this platform")

	trackStatusCmd.Flags().BoolVar(&trackStorage, "storage-index", false, "Treat <index> as the insertion-order index")

	trackExportCmd.Flags().StringVarP(&trackOut, "out", "o", "", "Write to this file instead of stdout")

	trackCmd.AddCommand(trackAddCmd, trackListCmd, trackStatusCmd, trackSummaryCmd, trackClearCmd, trackExportCmd, trackImportCmd)
	rootCmd.AddCommand(trackCmd)
}

func runTrackAdd(cmd *cobra.Command, args []string) error {
	t, err := openTracker(cmd)
	if err != nil {
		return err
	}

	record := types.NewApplicationRecord(ingestion.Analyze(args[0]), now())
	if trackCompany != "" {
		record.Company = trackCompany
	}
	if trackPlatform != "" {
		record.Platform = trackPlatform
	}

	index, err := t.Add(cmd.Context(), record)
	if err != nil {
		return err
	}
	stored := t.List()[index]
	fmt.Fprintf(cmd.OutOrStdout(), "Tracked %s (%s) as %s\n", stored.Company, stored.Platform, stored.Status)
	return nil
}

func runTrackList(cmd *cobra.Command, _ []string) error {
	t, err := openTracker(cmd)
	if err != nil {
		return err
	}

	filter := tracker.Filter{Platform: trackPlatform}
	if trackStatus != "" {
		status, err := types.ParseStatus(trackStatus)
		if err != nil {
			return err
		}
		filter.Status = status
	}
	printer(cmd).PrintApplications(t.Filter(filter))
	return nil
}

func runTrackStatus(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("index must be an integer: %q", args[0])
	}
	status, err := types.ParseStatus(args[1])
	if err != nil {
		return err
	}

	t, err := openTracker(cmd)
	if err != nil {
		return err
	}
	if !trackStorage {
		if index, err = t.DisplayToStorageIndex(index); err != nil {
			return err
		}
	}
	if err := t.UpdateStatus(cmd.Context(), index, status); err != nil {
		return err
	}

	record := t.List()[index]
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now %s\n", record.Company, record.Platform, record.Status)
	return nil
}

func runTrackSummary(cmd *cobra.Command, _ []string) error {
	t, err := openTracker(cmd)
	if err != nil {
		return err
	}
	printer(cmd).PrintSummary(t.Summary())
	return nil
}

func runTrackClear(cmd *cobra.Command, _ []string) error {
	t, err := openTracker(cmd)
	if err != nil {
		return err
	}
	n := t.Len()
	if err := t.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d application(s)\n", n)
	return nil
}

func runTrackExport(cmd *cobra.Command, _ []string) error {
	t, err := openTracker(cmd)
	if err != nil {
		return err
	}
	data, err := t.Export()
	if err != nil {
		return err
	}

	if trackOut == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	if err := writeFile(trackOut, data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d application(s) to %s\n", t.Len(), trackOut)
	return nil
}

func runTrackImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	t, err := openTracker(cmd)
	if err != nil {
		return err
	}
	if err := t.Import(cmd.Context(), data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d application(s)\n", t.Len())
	return nil
}
