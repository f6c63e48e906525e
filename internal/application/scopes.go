package application

import (
	"slices"
	"strings"
)

// NormalizeScopes lowercases, trims, and deduplicates a scope list, dropping
// empty entries. Order of first appearance is preserved.
func NormalizeScopes(scopes []string) []string {
	normalized := make([]string, 0, len(scopes))
	for _, s := range scopes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || slices.Contains(normalized, s) {
			continue
		}
		normalized = append(normalized, s)
	}
	return normalized
}

// SplitScopes parses a scope expression where scopes are separated by spaces
// or commas, e.g. "repo:read, issues:write". The result is normalized.
func SplitScopes(expr string) []string {
	fields := strings.FieldsFunc(expr, func(r rune) bool {
		return r == ' ' || r == ','
	})
	return NormalizeScopes(fields)
}

// HasScope reports whether the granted scope set contains scope.
// Comparison is case-insensitive.
func HasScope(granted []string, scope string) bool {
	return slices.Contains(NormalizeScopes(granted), strings.ToLower(strings.TrimSpace(scope)))
}

// HasAllScopes reports whether every required scope is granted.
func HasAllScopes(granted, required []string) bool {
	return len(MissingScopes(granted, required)) == 0
}

// MissingScopes returns the required scopes absent from the granted set,
// normalized and in required order. Empty means all requirements are met.
func MissingScopes(granted, required []string) []string {
	have := NormalizeScopes(granted)

	var missing []string
	for _, scope := range NormalizeScopes(required) {
		if !slices.Contains(have, scope) {
			missing = append(missing, scope)
		}
	}
	return missing
}
