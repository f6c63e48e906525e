package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/camdenr/trackhub/internal/application"
)

func TestExtractIssueKey(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		prefix string
		want   string
		wantOK bool
	}{
		{
			name:   "exact match",
			text:   "ABC-123: fix login redirect",
			prefix: "ABC",
			want:   "ABC-123",
			wantOK: true,
		},
		{
			name:   "lowercase key is uppercased",
			text:   "Fixes abc-42 and also ABC-1",
			prefix: "ABC",
			want:   "ABC-42",
			wantOK: true,
		},
		{
			name:   "mixed case prefix in text",
			text:   "feature/aBc-7-login",
			prefix: "ABC",
			want:   "ABC-7",
			wantOK: true,
		},
		{
			name:   "first match wins",
			text:   "ABC-2 supersedes ABC-1",
			prefix: "ABC",
			want:   "ABC-2",
			wantOK: true,
		},
		{
			name:   "key embedded in branch name",
			text:   "feature/ABC-7-login",
			prefix: "ABC",
			want:   "ABC-7",
			wantOK: true,
		},
		{
			name:   "no digits after dash",
			text:   "ABC- is not a key",
			prefix: "ABC",
			wantOK: false,
		},
		{
			name:   "no key present",
			text:   "wip",
			prefix: "ABC",
			wantOK: false,
		},
		{
			name:   "metacharacter prefix matches literally",
			text:   "A.B-12 shipped",
			prefix: "A.B",
			want:   "A.B-12",
			wantOK: true,
		},
		{
			name:   "metacharacter prefix does not match as wildcard",
			text:   "AXB-12 shipped",
			prefix: "A.B",
			wantOK: false,
		},
		{
			name:   "empty text",
			text:   "",
			prefix: "ABC",
			wantOK: false,
		},
		{
			name:   "empty prefix",
			text:   "ABC-1",
			prefix: "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := application.ExtractIssueKey(tt.text, tt.prefix)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
