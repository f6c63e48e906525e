package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/camdenr/trackhub/internal/domain/model"
	"github.com/camdenr/trackhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CheckStore = (*CheckRepo)(nil)

// CheckRepo is the SQLite implementation of the CheckStore port interface.
type CheckRepo struct {
	db *DB
}

// NewCheckRepo creates a new CheckRepo backed by the given DB.
func NewCheckRepo(db *DB) *CheckRepo {
	return &CheckRepo{db: db}
}

// Upsert inserts or replaces a check keyed by (pull request, name).
// Repeated status webhooks are last-write-wins on status, conclusion, and timestamps.
func (r *CheckRepo) Upsert(ctx context.Context, check model.PRCheck) error {
	const query = `
		INSERT INTO pr_checks (pull_request_id, name, status, conclusion, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(pull_request_id, name) DO UPDATE SET
			status = excluded.status,
			conclusion = excluded.conclusion,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at
	`

	var startedAt, completedAt any
	if !check.StartedAt.IsZero() {
		startedAt = check.StartedAt.UTC()
	}
	if !check.CompletedAt.IsZero() {
		completedAt = check.CompletedAt.UTC()
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		check.PullRequestID, check.Name, string(check.Status), check.Conclusion,
		startedAt, completedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert check %q for pull request %d: %w", check.Name, check.PullRequestID, err)
	}

	return nil
}

// ListByPullRequest returns all checks for the given pull request, ordered by name.
func (r *CheckRepo) ListByPullRequest(ctx context.Context, pullRequestID int64) ([]model.PRCheck, error) {
	const query = `
		SELECT id, pull_request_id, name, status, conclusion, started_at, completed_at
		FROM pr_checks
		WHERE pull_request_id = ?
		ORDER BY name
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, pullRequestID)
	if err != nil {
		return nil, fmt.Errorf("query checks for pull request %d: %w", pullRequestID, err)
	}
	defer rows.Close()

	var checks []model.PRCheck
	for rows.Next() {
		check, err := scanPRCheck(rows)
		if err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		checks = append(checks, *check)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checks: %w", err)
	}

	return checks, nil
}

func scanPRCheck(s scanner) (*model.PRCheck, error) {
	var check model.PRCheck
	var status string
	var startedAt, completedAt sql.NullString

	err := s.Scan(
		&check.ID, &check.PullRequestID, &check.Name, &status, &check.Conclusion,
		&startedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	check.Status = model.CheckStatus(status)

	if startedAt.Valid {
		check.StartedAt, err = parseTime(startedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
	}

	if completedAt.Valid {
		check.CompletedAt, err = parseTime(completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse completed_at: %w", err)
		}
	}

	return &check, nil
}
