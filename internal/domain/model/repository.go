package model

import "time"

// Repository represents a source-control repository connected to a project.
// IssuePrefix is copied from the owning project when the repository is
// connected and is treated as immutable by the reconciler.
type Repository struct {
	ID          int64
	ProjectID   int64
	FullName    string // "owner/name" as reported by GitHub.
	Owner       string
	Name        string
	IssuePrefix string
	AddedAt     time.Time
}
