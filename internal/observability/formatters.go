// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/formscan"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/tracker"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles boxed, human-readable output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBanner(text string) {
	fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, text)
	fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
}

// PrintJobPosting outputs the analysis of one job URL.
func (p *Printer) PrintJobPosting(posting types.JobPosting) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Platform: %s %s\n", posting.Icon, posting.Platform))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", posting.Company))
	sb.WriteString(fmt.Sprintf("Job ID:   %s\n", posting.JobID))
	if posting.Supported {
		sb.WriteString("Script:   supported\n")
	} else {
		sb.WriteString("Script:   not supported\n")
	}
	if posting.RequiresLogin {
		sb.WriteString("Login:    required\n")
	}
	if posting.MultiPage {
		sb.WriteString("Pages:    multiple\n")
	}

	if len(posting.Notes) > 0 {
		sb.WriteString("\nNotes:\n")
		for _, note := range posting.Notes {
			sb.WriteString(fmt.Sprintf("  • %s\n", note))
		}
	}

	p.printBox("JOB ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMissingRequired warns about required profile keys that are still empty.
func (p *Printer) PrintMissingRequired(missing []string) {
	if len(missing) == 0 {
		p.printBanner("✅ REQUIRED PROFILE FIELDS PRESENT")
		return
	}

	var sb strings.Builder
	sb.WriteString("The script will leave these fields empty:\n\n")
	for _, key := range missing {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", key))
	}

	p.printBox("MISSING PROFILE FIELDS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs application counts by status and by platform.
func (p *Printer) PrintSummary(summary tracker.Summary) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total applications: %d\n\n", summary.Total))

	for _, status := range types.Statuses() {
		sb.WriteString(fmt.Sprintf("  %-10s %d\n", status, summary.ByStatus[status]))
	}

	if len(summary.ByPlatform) > 0 {
		platforms := make([]string, 0, len(summary.ByPlatform))
		for name := range summary.ByPlatform {
			platforms = append(platforms, name)
		}
		sort.Strings(platforms)

		sb.WriteString("\nBy platform:\n")
		for _, name := range platforms {
			sb.WriteString(fmt.Sprintf("  %-10s %d\n", name, summary.ByPlatform[name]))
		}
	}

	p.printBox("APPLICATION SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintApplications lists tracked applications in display order.
func (p *Printer) PrintApplications(entries []tracker.Entry) {
	if len(entries) == 0 {
		p.printBanner("No applications tracked yet")
		return
	}

	var sb strings.Builder
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("#%d  %s (%s)\n", e.DisplayIndex, e.Record.Company, e.Record.Platform))
		sb.WriteString(fmt.Sprintf("    %s · %s\n", e.Record.Status, e.Record.Date))
		sb.WriteString(fmt.Sprintf("    %s\n", e.Record.URL))
		if i < len(entries)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(fmt.Sprintf("APPLICATIONS (%d)", len(entries)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScanReport outputs which fields and questions a script would reach on a page.
func (p *Printer) PrintScanReport(report formscan.Report) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Form controls: %d\n", report.Controls))
	sb.WriteString(fmt.Sprintf("Fields found:  %d/%d\n", report.FieldsFound(), len(report.Fields)))
	if len(report.Rules) > 0 {
		sb.WriteString(fmt.Sprintf("Questions:     %d/%d\n", report.RulesFound(), len(report.Rules)))
	}
	sb.WriteString("\n")

	for _, f := range report.Fields {
		mark := "✗"
		if f.Found {
			mark = "✓"
		}
		target := f.Locator.Selector
		if target == "" {
			target = fmt.Sprintf("label %q", f.Locator.Label)
		}
		sb.WriteString(fmt.Sprintf("%s %s → %s\n", mark, target, strings.Join(f.ProfileKeys, "+")))
	}

	for _, r := range report.Rules {
		switch {
		case r.Found && r.HasControls:
			sb.WriteString(fmt.Sprintf("✓ %s\n", r.Name))
		case r.Found:
			sb.WriteString(fmt.Sprintf("⚠ %s (no matching input)\n", r.Name))
		default:
			sb.WriteString(fmt.Sprintf("✗ %s\n", r.Name))
		}
	}

	if len(report.Questions) > 0 {
		sb.WriteString("\nRecognized questions:\n")
		count := min(len(report.Questions), maxItemsToShow)
		for i := 0; i < count; i++ {
			q := report.Questions[i]
			sb.WriteString(fmt.Sprintf("  • %s [%s]\n", q.Text, q.Field))
		}
		if len(report.Questions) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(report.Questions)-maxItemsToShow))
		}
	}

	p.printBox(fmt.Sprintf("FORM SCAN: %s", report.Platform), strings.TrimSuffix(sb.String(), "\n"))
}
