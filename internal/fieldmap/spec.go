// Package fieldmap declares, per ATS platform, how profile values and screening
// answers map onto the platform's application form.
package fieldmap

import (
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/platform"
)

// LocatorKind selects how a form field is found on the page.
type LocatorKind string

const (
	// BySelector finds the first element matching a CSS selector.
	BySelector LocatorKind = "selector"
	// ByLabel finds the first label containing some text and takes the input
	// inside its closest container.
	ByLabel LocatorKind = "label"
)

// Locator identifies a single form field.
type Locator struct {
	Kind      LocatorKind `json:"kind"`
	Selector  string      `json:"selector,omitempty"`
	Label     string      `json:"label,omitempty"`
	Container string      `json:"container,omitempty"`
}

// Selector returns a locator for the first element matching a CSS selector.
func Selector(css string) Locator {
	return Locator{Kind: BySelector, Selector: css}
}

// Label returns a locator for the input inside the closest container of the
// first label whose text contains text (case-insensitive).
func Label(text, container string) Locator {
	return Locator{Kind: ByLabel, Label: text, Container: container}
}

// Mapping writes profile values into one field. When several keys are given,
// their non-empty values are joined with a single space.
type Mapping struct {
	Locator     Locator  `json:"locator"`
	ProfileKeys []string `json:"profileKeys"`
}

// Map builds a mapping from a locator to one or more profile keys.
func Map(locator Locator, keys ...string) Mapping {
	return Mapping{Locator: locator, ProfileKeys: keys}
}

// Rule answers one screening question. Keywords are alternatives tried in
// order; the first one whose question container is found wins.
type Rule struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Strategy Strategy `json:"strategy"`
}

// Spec is the declarative field map of one platform.
type Spec struct {
	Platform      platform.ID `json:"platform"`
	Mappings      []Mapping   `json:"mappings"`
	Rules         []Rule      `json:"rules,omitempty"`
	RequiresLogin bool        `json:"requiresLogin"`
	MultiPage     bool        `json:"multiPage"`
	Notes         []string    `json:"notes,omitempty"`
}

// UsesLabels reports whether any mapping is located by label text.
func (s Spec) UsesLabels() bool {
	for _, m := range s.Mappings {
		if m.Locator.Kind == ByLabel {
			return true
		}
	}
	return false
}

// ProfileKeys returns every profile key the spec reads, in first-use order.
func (s Spec) ProfileKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	add := func(key string) {
		if key != "" && !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	for _, m := range s.Mappings {
		for _, key := range m.ProfileKeys {
			add(key)
		}
	}
	for _, r := range s.Rules {
		add(r.Strategy.ProfileKey)
	}
	return keys
}

// Lookup returns the spec for a platform built with the default answers.
// Platforms that are detectable but not scriptable report false.
func Lookup(id platform.ID) (Spec, bool) {
	return Build(id, DefaultAnswers())
}

// Build returns the spec for a platform with the given screening answers.
// Empty answers fall back to the defaults.
func Build(id platform.ID, answers Answers) (Spec, bool) {
	answers = answers.WithDefaults()
	switch id {
	case platform.Lever:
		return leverSpec(answers), true
	case platform.Greenhouse:
		return greenhouseSpec(), true
	case platform.Workday:
		return workdaySpec(), true
	case platform.Glassdoor:
		return glassdoorSpec(), true
	}
	return Spec{}, false
}

// Supported returns every platform that has a spec, in detection priority order.
func Supported() []platform.ID {
	var ids []platform.ID
	for _, id := range platform.All() {
		if _, ok := Lookup(id); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
