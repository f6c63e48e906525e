// Package application contains use-case orchestration services.
package application

import (
	"regexp"
	"strings"
)

// ExtractIssueKey scans text for "<prefix>-<digits>" case-insensitively and
// returns the first occurrence uppercased. The prefix is quoted before the
// pattern is compiled, so prefixes containing regex metacharacters (e.g.
// "A.B") match literally. Returns ok=false when no key is present.
func ExtractIssueKey(text, prefix string) (string, bool) {
	if text == "" || prefix == "" {
		return "", false
	}

	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(prefix) + `-\d+`)
	match := pattern.FindString(text)
	if match == "" {
		return "", false
	}

	return strings.ToUpper(match), true
}
