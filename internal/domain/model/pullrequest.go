package model

import "time"

// PullRequest represents a GitHub pull request reconciled into the tracker.
// (RepositoryID, GitHubPRID) is the natural key; GitHubPRID is the PR number
// assigned by GitHub within the repository.
type PullRequest struct {
	ID           int64
	RepositoryID int64
	GitHubPRID   int64
	Title        string
	Author       string
	State        PRState
	BaseBranchID int64
	HeadBranchID int64
	IssueID      *int64 // From the head branch name, falling back to the title.
	MergedAt     *time.Time
	ClosedAt     *time.Time
	MergedBy     *string
	OpenedAt     time.Time
	UpdatedAt    time.Time
}

// PRUpdate is a partial update applied to an existing pull request on
// lifecycle webhook events. Nil fields are left untouched.
type PRUpdate struct {
	State    *PRState
	MergedAt *time.Time
	ClosedAt *time.Time
	MergedBy *string
}

// IsOpen reports whether the pull request can still receive commits.
func (pr PullRequest) IsOpen() bool {
	return pr.State == PRStateOpen || pr.State == PRStateDraft
}
