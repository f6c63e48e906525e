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
var _ driven.IssueStore = (*IssueRepo)(nil)

// IssueRepo is the SQLite implementation of the IssueStore port interface.
type IssueRepo struct {
	db *DB
}

// NewIssueRepo creates a new IssueRepo backed by the given DB.
func NewIssueRepo(db *DB) *IssueRepo {
	return &IssueRepo{db: db}
}

// Create inserts a new issue and returns its id.
func (r *IssueRepo) Create(ctx context.Context, issue model.Issue) (int64, error) {
	const query = `
		INSERT INTO issues (project_id, issue_key, title, created_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.Writer.ExecContext(ctx, query,
		issue.ProjectID, issue.Key, issue.Title, issue.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("create issue %q: %w", issue.Key, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id for issue %q: %w", issue.Key, err)
	}

	return id, nil
}

// GetByKey resolves an issue by exact key within a project.
// Returns (nil, nil) when no issue has that key.
func (r *IssueRepo) GetByKey(ctx context.Context, projectID int64, key string) (*model.Issue, error) {
	const query = `
		SELECT id, project_id, issue_key, title, created_at
		FROM issues
		WHERE project_id = ? AND issue_key = ?
	`

	issue, err := scanIssue(r.db.Reader.QueryRowContext(ctx, query, projectID, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get issue %q in project %d: %w", key, projectID, err)
	}

	return issue, nil
}

// ListByProject returns all issues of a project ordered by key.
func (r *IssueRepo) ListByProject(ctx context.Context, projectID int64) ([]model.Issue, error) {
	const query = `
		SELECT id, project_id, issue_key, title, created_at
		FROM issues
		WHERE project_id = ?
		ORDER BY issue_key
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list issues for project %d: %w", projectID, err)
	}
	defer rows.Close()

	var issues []model.Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issues = append(issues, *issue)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issues: %w", err)
	}

	return issues, nil
}

func scanIssue(s scanner) (*model.Issue, error) {
	var issue model.Issue
	var createdAt string

	err := s.Scan(&issue.ID, &issue.ProjectID, &issue.Key, &issue.Title, &createdAt)
	if err != nil {
		return nil, err
	}

	issue.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &issue, nil
}
