// Package ingestion derives job metadata from posting URLs without any network access.
package ingestion

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/fieldmap"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/platform"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

// ExtractJobInfo derives a best-effort company name and job identifier from a URL.
// The company is the first label of the host with hyphens turned into spaces and
// each word title-cased; the job ID is the last non-empty path segment. A URL
// pasted without a scheme has no host, so only its job ID is derived, and only
// when that segment holds no whitespace. Anything that cannot be derived is
// reported as "Unknown". It never fails.
func ExtractJobInfo(rawURL string) types.JobInfo {
	info := types.JobInfo{Company: types.Unknown, JobID: types.Unknown, URL: rawURL}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return info
	}

	segments := strings.FieldsFunc(parsed.Path, func(r rune) bool { return r == '/' })
	last := ""
	if len(segments) > 0 {
		last = segments[len(segments)-1]
	}

	host := parsed.Hostname()
	if host == "" {
		if last != "" && !strings.ContainsFunc(last, unicode.IsSpace) {
			info.JobID = last
		}
		return info
	}

	label := strings.SplitN(host, ".", 2)[0]
	if company := TitleCase(strings.ReplaceAll(label, "-", " ")); company != "" {
		info.Company = company
	}
	if last != "" {
		info.JobID = last
	}
	return info
}

// TitleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "boards2go" becomes "Boards2Go".
func TitleCase(s string) string {
	caser := cases.Title(language.English)
	var sb strings.Builder
	start := -1
	for i, r := range s {
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			sb.WriteString(caser.String(s[start:i]))
			start = -1
		}
		sb.WriteRune(r)
	}
	if start >= 0 {
		sb.WriteString(caser.String(s[start:]))
	}
	return sb.String()
}

// Analyze detects the platform of a URL and extracts its job metadata.
func Analyze(rawURL string) types.JobPosting {
	id, icon := platform.Detect(rawURL)
	info := ExtractJobInfo(rawURL)

	posting := types.JobPosting{
		Platform: id.String(),
		Icon:     icon,
		Company:  info.Company,
		JobID:    info.JobID,
		URL:      info.URL,
	}
	if spec, ok := fieldmap.Lookup(id); ok {
		posting.Supported = true
		posting.RequiresLogin = spec.RequiresLogin
		posting.MultiPage = spec.MultiPage
		posting.Notes = append([]string(nil), spec.Notes...)
	}
	return posting
}
