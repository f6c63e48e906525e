package model

import "time"

// PRCheck represents one named CI check on a pull request.
// (PullRequestID, Name) is unique; status webhooks upsert last-write-wins.
type PRCheck struct {
	ID            int64
	PullRequestID int64
	Name          string
	Status        CheckStatus
	Conclusion    string
	StartedAt     time.Time
	CompletedAt   time.Time // Zero while the check is still running.
}
