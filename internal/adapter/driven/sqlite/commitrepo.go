package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/camdenr/trackhub/internal/domain/model"
	"github.com/camdenr/trackhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CommitStore = (*CommitRepo)(nil)

// CommitRepo is the SQLite implementation of the CommitStore port interface.
type CommitRepo struct {
	db *DB
}

// NewCommitRepo creates a new CommitRepo backed by the given DB.
func NewCommitRepo(db *DB) *CommitRepo {
	return &CommitRepo{db: db}
}

// Upsert inserts or updates a commit keyed by SHA. On conflict only message,
// branch link, issue link, PR link, and stats are updated; author identity and
// commit date keep their original values. Incoming nil stats never erase
// previously backfilled counts.
func (r *CommitRepo) Upsert(ctx context.Context, commit model.Commit) error {
	const query = `
		INSERT INTO commits (
			sha, repository_id, branch_id, issue_id, pull_request_id,
			message, author_name, author_email, committed_at, additions, deletions
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(sha) DO UPDATE SET
			message = excluded.message,
			branch_id = excluded.branch_id,
			issue_id = excluded.issue_id,
			pull_request_id = COALESCE(excluded.pull_request_id, commits.pull_request_id),
			additions = COALESCE(excluded.additions, commits.additions),
			deletions = COALESCE(excluded.deletions, commits.deletions)
	`

	_, err := r.db.Writer.ExecContext(ctx, query,
		commit.SHA, commit.RepositoryID, nullableInt64(commit.BranchID),
		nullableInt64(commit.IssueID), nullableInt64(commit.PullRequestID),
		commit.Message, commit.AuthorName, commit.AuthorEmail, commit.CommittedAt.UTC(),
		nullableInt(commit.Additions), nullableInt(commit.Deletions),
	)
	if err != nil {
		return fmt.Errorf("upsert commit %s: %w", commit.SHA, err)
	}

	return nil
}

// GetBySHA retrieves a commit by its SHA.
// Returns (nil, nil) if the commit does not exist.
func (r *CommitRepo) GetBySHA(ctx context.Context, sha string) (*model.Commit, error) {
	const query = `
		SELECT id, sha, repository_id, branch_id, issue_id, pull_request_id,
		       message, author_name, author_email, committed_at, additions, deletions
		FROM commits
		WHERE sha = ?
	`

	commit, err := scanCommit(r.db.Reader.QueryRowContext(ctx, query, sha))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get commit %s: %w", sha, err)
	}

	return commit, nil
}

// ListByRepository returns all commits of a repository, newest first.
func (r *CommitRepo) ListByRepository(ctx context.Context, repositoryID int64) ([]model.Commit, error) {
	const query = `
		SELECT id, sha, repository_id, branch_id, issue_id, pull_request_id,
		       message, author_name, author_email, committed_at, additions, deletions
		FROM commits
		WHERE repository_id = ?
		ORDER BY committed_at DESC
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, repositoryID)
	if err != nil {
		return nil, fmt.Errorf("list commits for repository %d: %w", repositoryID, err)
	}
	defer rows.Close()

	var commits []model.Commit
	for rows.Next() {
		commit, err := scanCommit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan commit: %w", err)
		}
		commits = append(commits, *commit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commits: %w", err)
	}

	return commits, nil
}

// LinkPullRequest stamps the commit's pull request reference.
func (r *CommitRepo) LinkPullRequest(ctx context.Context, sha string, pullRequestID int64) error {
	const query = `UPDATE commits SET pull_request_id = ? WHERE sha = ?`

	if _, err := r.db.Writer.ExecContext(ctx, query, pullRequestID, sha); err != nil {
		return fmt.Errorf("link commit %s to pull request %d: %w", sha, pullRequestID, err)
	}

	return nil
}

// UpdateStats backfills addition/deletion counts for a commit SHA.
func (r *CommitRepo) UpdateStats(ctx context.Context, sha string, stats model.CommitStats) error {
	const query = `UPDATE commits SET additions = ?, deletions = ? WHERE sha = ?`

	if _, err := r.db.Writer.ExecContext(ctx, query, stats.Additions, stats.Deletions, sha); err != nil {
		return fmt.Errorf("update stats for commit %s: %w", sha, err)
	}

	return nil
}

func scanCommit(s scanner) (*model.Commit, error) {
	var commit model.Commit
	var branchID, issueID, pullRequestID sql.NullInt64
	var additions, deletions sql.NullInt64
	var committedAt string

	err := s.Scan(
		&commit.ID, &commit.SHA, &commit.RepositoryID, &branchID, &issueID, &pullRequestID,
		&commit.Message, &commit.AuthorName, &commit.AuthorEmail, &committedAt,
		&additions, &deletions,
	)
	if err != nil {
		return nil, err
	}

	if branchID.Valid {
		commit.BranchID = &branchID.Int64
	}
	if issueID.Valid {
		commit.IssueID = &issueID.Int64
	}
	if pullRequestID.Valid {
		commit.PullRequestID = &pullRequestID.Int64
	}
	if additions.Valid {
		v := int(additions.Int64)
		commit.Additions = &v
	}
	if deletions.Valid {
		v := int(deletions.Int64)
		commit.Deletions = &v
	}

	commit.CommittedAt, err = parseTime(committedAt)
	if err != nil {
		return nil, fmt.Errorf("parse committed_at: %w", err)
	}

	return &commit, nil
}

// nullableInt converts an optional int to a driver value, mapping nil to NULL.
func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
