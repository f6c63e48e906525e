package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/camdenr/trackhub/internal/application"
)

func TestNormalizeScopes(t *testing.T) {
	got := application.NormalizeScopes([]string{" Issues:Read ", "pulls:read", "ISSUES:READ", "", "pulls:read"})
	assert.Equal(t, []string{"issues:read", "pulls:read"}, got)
}

func TestSplitScopes(t *testing.T) {
	tests := []struct {
		expr string
		want []string
	}{
		{"issues:read", []string{"issues:read"}},
		{"issues:read pulls:read", []string{"issues:read", "pulls:read"}},
		{"issues:read, pulls:read,commits:read", []string{"issues:read", "pulls:read", "commits:read"}},
		{"  Issues:Read , issues:read ", []string{"issues:read"}},
		{"", []string{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, application.SplitScopes(tt.expr), "expr %q", tt.expr)
	}
}

func TestHasScope(t *testing.T) {
	granted := []string{"issues:read", "pulls:read"}

	assert.True(t, application.HasScope(granted, "issues:read"))
	assert.True(t, application.HasScope(granted, "PULLS:READ"))
	assert.False(t, application.HasScope(granted, "commits:read"))
}

func TestHasAllScopes(t *testing.T) {
	granted := []string{"issues:read", "pulls:read"}

	assert.True(t, application.HasAllScopes(granted, nil))
	assert.True(t, application.HasAllScopes(granted, []string{"issues:read"}))
	assert.False(t, application.HasAllScopes(granted, []string{"issues:read", "commits:read"}))
}

func TestMissingScopes(t *testing.T) {
	granted := []string{"issues:read"}

	missing := application.MissingScopes(granted, []string{"Issues:Read", "commits:read", "admin"})
	assert.Equal(t, []string{"commits:read", "admin"}, missing)
}
