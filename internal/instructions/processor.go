// Package instructions parses the repository-supplied .reviewthor document
// into structured review preferences and merges them with server defaults.
//
// The document is a plain-text, heading-delimited format: a heading is any
// line starting with '#', matched case-insensitively by substring, and list
// items are lines beginning with '-', '*' or 'N.'. Anything else is ignored
// silently; a malformed document is never an error, it just contributes less.
package instructions

import (
	"fmt"
	"strings"

	"github.com/krejcif/reviewthor/internal/core"
)

// maxItemLength bounds focus areas and custom rules; these are injected into
// the model prompt and an unbounded item is either an accident or an attempt
// to smuggle in a second prompt.
const maxItemLength = 200

// Fragment holds the preferences actually present in a parsed document.
// Severity is empty when the document did not set a usable value.
type Fragment struct {
	FocusAreas     []string
	CustomRules    []string
	IgnorePatterns []string
	Severity       core.Severity
}

type section int

const (
	sectionNone section = iota
	sectionFocus
	sectionRules
	sectionIgnore
	sectionSeverity
)

// Parse extracts a Fragment from a .reviewthor document. It never fails:
// unrecognized headings and non-list lines are skipped, and a severity value
// outside {error, warning, info} is left unset so the default applies.
func Parse(document string) *Fragment {
	f := &Fragment{}
	current := sectionNone
	severityTaken := false

	for _, raw := range strings.Split(document, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			heading := strings.ToLower(line)
			switch {
			case strings.Contains(heading, "focus areas"):
				current = sectionFocus
			case strings.Contains(heading, "custom rules"):
				current = sectionRules
			case strings.Contains(heading, "ignore patterns"):
				current = sectionIgnore
			case strings.Contains(heading, "severity"):
				current = sectionSeverity
				severityTaken = false
			default:
				current = sectionNone
			}
			continue
		}

		switch current {
		case sectionFocus, sectionRules, sectionIgnore:
			item, ok := listItem(line)
			if !ok || item == "" {
				continue
			}
			switch current {
			case sectionFocus:
				f.FocusAreas = append(f.FocusAreas, item)
			case sectionRules:
				f.CustomRules = append(f.CustomRules, item)
			case sectionIgnore:
				f.IgnorePatterns = append(f.IgnorePatterns, item)
			}
		case sectionSeverity:
			if severityTaken {
				continue
			}
			severityTaken = true
			if v := core.Severity(strings.ToLower(line)); v.Valid() {
				f.Severity = v
			}
		}
	}

	return f
}

// listItem strips a leading '-', '*' or 'N.' marker from a line. The second
// return value is false when the line is not a list item at all.
func listItem(line string) (string, bool) {
	if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
		return strings.TrimSpace(line[1:]), true
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && line[i] == '.' {
		return strings.TrimSpace(line[i+1:]), true
	}
	return "", false
}

// Validate checks a parsed fragment and returns human-readable problems.
// It never panics: a malformed pattern is reported, not thrown.
func Validate(f *Fragment) []string {
	if f == nil {
		return nil
	}

	var errs []string
	for _, area := range f.FocusAreas {
		if len(area) > maxItemLength {
			errs = append(errs, fmt.Sprintf("focus area exceeds %d characters: %q", maxItemLength, truncateForError(area)))
		}
	}
	for _, rule := range f.CustomRules {
		if len(rule) > maxItemLength {
			errs = append(errs, fmt.Sprintf("custom rule exceeds %d characters: %q", maxItemLength, truncateForError(rule)))
		}
	}
	for _, pattern := range f.IgnorePatterns {
		if !ValidPattern(pattern) {
			errs = append(errs, fmt.Sprintf("invalid ignore pattern: %q", pattern))
		}
	}
	return errs
}

func truncateForError(s string) string {
	if len(s) <= 40 {
		return s
	}
	return s[:40] + "..."
}

// Merge combines a parsed fragment with the server defaults into the
// effective review policy:
//
//   - focus areas are unioned, defaults first, duplicates removed;
//   - custom rules and ignore patterns are concatenated, defaults first
//     (these are instructions, not a set; duplicates are allowed);
//   - the severity floor uses the custom value when present;
//   - the comment limit and enabled checks always come from defaults.
func Merge(f *Fragment, defaults core.ReviewConfig) core.ReviewConfig {
	merged := core.ReviewConfig{
		SeverityFloor:    defaults.SeverityFloor,
		MaxCommentsPerPR: defaults.MaxCommentsPerPR,
		EnabledChecks:    append([]string(nil), defaults.EnabledChecks...),
	}
	if merged.SeverityFloor == "" {
		merged.SeverityFloor = core.SeverityInfo
	}

	seen := make(map[string]struct{})
	for _, set := range [][]string{defaults.FocusAreas, fragmentFocus(f)} {
		for _, area := range set {
			if _, ok := seen[area]; ok {
				continue
			}
			seen[area] = struct{}{}
			merged.FocusAreas = append(merged.FocusAreas, area)
		}
	}

	merged.CustomRules = append(append([]string{}, defaults.CustomRules...), fragmentRules(f)...)
	merged.IgnorePatterns = append(append([]string{}, defaults.IgnorePatterns...), fragmentPatterns(f)...)

	if f != nil && f.Severity != "" {
		merged.SeverityFloor = f.Severity
	}
	return merged
}

func fragmentFocus(f *Fragment) []string {
	if f == nil {
		return nil
	}
	return f.FocusAreas
}

func fragmentRules(f *Fragment) []string {
	if f == nil {
		return nil
	}
	return f.CustomRules
}

func fragmentPatterns(f *Fragment) []string {
	if f == nil {
		return nil
	}
	return f.IgnorePatterns
}
