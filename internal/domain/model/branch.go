package model

import "time"

// Branch represents a source-control branch tracked for a repository.
// Rows are created lazily the first time a commit or pull request references
// an unseen branch name; the head SHA advances with each push.
type Branch struct {
	ID           int64
	RepositoryID int64
	Name         string
	HeadSHA      string
	IssueID      *int64 // Resolved from the branch name at creation; nil when no key matched.
	IsDefault    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsDefaultBranchName reports whether name is a conventional default branch.
func IsDefaultBranchName(name string) bool {
	return name == "main" || name == "master"
}
