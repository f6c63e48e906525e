package model

import "time"

// Issue is the join target for reconciliation. It is owned by the
// issue-tracking domain; the reconciler only resolves issues by exact key
// within a project and never mutates them.
type Issue struct {
	ID        int64
	ProjectID int64
	Key       string // "<prefix>-<number>", stored uppercase.
	Title     string
	CreatedAt time.Time
}
