package model

import "time"

// Commit represents a single commit ingested from a push webhook.
// SHA is globally unique; repeated delivery of the same commit upserts in
// place. Author identity and commit date are immutable once recorded, while
// message, branch link, issue link, and stats follow the latest delivery.
type Commit struct {
	ID            int64
	SHA           string
	RepositoryID  int64
	BranchID      *int64
	IssueID       *int64 // Re-derived from the message on every upsert.
	PullRequestID *int64 // Best-effort link to an open PR on the same branch.
	Message       string
	AuthorName    string
	AuthorEmail   string
	CommittedAt   time.Time
	Additions     *int // nil until stats are backfilled.
	Deletions     *int
}

// CommitStats carries addition/deletion counts fetched from the GitHub
// commits API during stats backfill.
type CommitStats struct {
	Additions int
	Deletions int
}
