// Package platform provides ATS platform detection for job posting URLs.
package platform

import (
	"strings"
)

// ID identifies a known job board or applicant tracking platform.
type ID string

const (
	// Lever is the Lever ATS platform
	Lever ID = "Lever"
	// Greenhouse is the Greenhouse ATS platform
	Greenhouse ID = "Greenhouse"
	// Workday is the Workday ATS platform
	Workday ID = "Workday"
	// Glassdoor is the Glassdoor job board
	Glassdoor ID = "Glassdoor"
	// LinkedIn is the LinkedIn job board
	LinkedIn ID = "LinkedIn"
	// Indeed is the Indeed job board
	Indeed ID = "Indeed"
	// Unknown is an unrecognized platform
	Unknown ID = "Unknown"
)

// pattern binds a set of URL fragments to a platform. Order matters: the first
// pattern with a matching fragment wins.
type pattern struct {
	id        ID
	fragments []string
}

var patterns = []pattern{
	{Lever, []string{"lever.co"}},
	{Greenhouse, []string{"greenhouse.io"}},
	{Workday, []string{"workday", "myworkday"}},
	{Glassdoor, []string{"glassdoor"}},
	{LinkedIn, []string{"linkedin"}},
	{Indeed, []string{"indeed"}},
}

var icons = map[ID]string{
	Lever:      "🎯",
	Greenhouse: "🌿",
	Workday:    "💼",
	Glassdoor:  "🚪",
	LinkedIn:   "🔗",
	Indeed:     "📋",
	Unknown:    "❓",
}

// Detect identifies the platform a job URL belongs to, along with its display icon.
// The URL is not parsed; malformed input simply matches nothing and yields Unknown.
func Detect(rawURL string) (ID, string) {
	lower := strings.ToLower(rawURL)
	for _, p := range patterns {
		for _, fragment := range p.fragments {
			if strings.Contains(lower, fragment) {
				return p.id, p.id.Icon()
			}
		}
	}
	return Unknown, Unknown.Icon()
}

// Icon returns the decorative icon for the platform.
func (id ID) Icon() string {
	if icon, ok := icons[id]; ok {
		return icon
	}
	return icons[Unknown]
}

// Supported reports whether an auto-fill script can be generated for the platform.
func (id ID) Supported() bool {
	switch id {
	case Lever, Greenhouse, Workday, Glassdoor:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return string(id)
}

// All returns every known platform in detection priority order, followed by Unknown.
func All() []ID {
	ids := make([]ID, 0, len(patterns)+1)
	for _, p := range patterns {
		ids = append(ids, p.id)
	}
	return append(ids, Unknown)
}

// Parse converts a platform name (case-insensitive) to an ID.
// Returns Unknown and false if the name is not a known platform.
func Parse(name string) (ID, bool) {
	name = strings.TrimSpace(name)
	for _, id := range All() {
		if strings.EqualFold(string(id), name) {
			return id, true
		}
	}
	return Unknown, false
}
