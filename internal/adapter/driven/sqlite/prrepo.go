package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/camdenr/trackhub/internal/domain/model"
	"github.com/camdenr/trackhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PRStore = (*PRRepo)(nil)

// PRRepo is the SQLite implementation of the PRStore port interface.
type PRRepo struct {
	db *DB
}

// NewPRRepo creates a new PRRepo backed by the given DB.
func NewPRRepo(db *DB) *PRRepo {
	return &PRRepo{db: db}
}

// Create inserts a new pull request. Returns driven.ErrPullRequestExists when
// the (repository, GitHub PR id) pair is already present -- lifecycle updates
// for an existing PR must go through Update instead.
func (r *PRRepo) Create(ctx context.Context, pr model.PullRequest) (int64, error) {
	const query = `
		INSERT INTO pull_requests (
			repository_id, github_pr_id, title, author, state,
			base_branch_id, head_branch_id, issue_id,
			merged_at, closed_at, merged_by, opened_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var mergedBy any
	if pr.MergedBy != nil {
		mergedBy = *pr.MergedBy
	}

	result, err := r.db.Writer.ExecContext(ctx, query,
		pr.RepositoryID, pr.GitHubPRID, pr.Title, pr.Author, string(pr.State),
		pr.BaseBranchID, pr.HeadBranchID, nullableInt64(pr.IssueID),
		nullableTime(pr.MergedAt), nullableTime(pr.ClosedAt), mergedBy,
		pr.OpenedAt.UTC(), pr.UpdatedAt.UTC(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return 0, driven.ErrPullRequestExists
		}
		return 0, fmt.Errorf("create pull request %d in repository %d: %w", pr.GitHubPRID, pr.RepositoryID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id for pull request %d: %w", pr.GitHubPRID, err)
	}

	return id, nil
}

// GetByGitHubID retrieves a pull request by (repository, GitHub PR id).
// Returns (nil, nil) if the pull request does not exist.
func (r *PRRepo) GetByGitHubID(ctx context.Context, repositoryID, githubPRID int64) (*model.PullRequest, error) {
	const query = `
		SELECT id, repository_id, github_pr_id, title, author, state,
		       base_branch_id, head_branch_id, issue_id,
		       merged_at, closed_at, merged_by, opened_at, updated_at
		FROM pull_requests
		WHERE repository_id = ? AND github_pr_id = ?
	`

	pr, err := scanPullRequest(r.db.Reader.QueryRowContext(ctx, query, repositoryID, githubPRID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pull request %d in repository %d: %w", githubPRID, repositoryID, err)
	}

	return pr, nil
}

// Update applies a partial lifecycle update keyed by the natural pair.
// Nil fields in upd leave their columns untouched. Returns
// driven.ErrPullRequestNotFound when no such pull request exists.
func (r *PRRepo) Update(ctx context.Context, repositoryID, githubPRID int64, upd model.PRUpdate) error {
	set := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}

	if upd.State != nil {
		set = append(set, "state = ?")
		args = append(args, string(*upd.State))
	}
	if upd.MergedAt != nil {
		set = append(set, "merged_at = ?")
		args = append(args, upd.MergedAt.UTC())
	}
	if upd.ClosedAt != nil {
		set = append(set, "closed_at = ?")
		args = append(args, upd.ClosedAt.UTC())
	}
	if upd.MergedBy != nil {
		set = append(set, "merged_by = ?")
		args = append(args, *upd.MergedBy)
	}

	query := fmt.Sprintf(
		`UPDATE pull_requests SET %s WHERE repository_id = ? AND github_pr_id = ?`,
		strings.Join(set, ", "),
	)
	args = append(args, repositoryID, githubPRID)

	result, err := r.db.Writer.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update pull request %d in repository %d: %w", githubPRID, repositoryID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return driven.ErrPullRequestNotFound
	}

	return nil
}

// GetOpenByHeadBranch returns an OPEN or DRAFT pull request whose head branch
// matches, or (nil, nil) when there is none.
func (r *PRRepo) GetOpenByHeadBranch(ctx context.Context, repositoryID, headBranchID int64) (*model.PullRequest, error) {
	const query = `
		SELECT id, repository_id, github_pr_id, title, author, state,
		       base_branch_id, head_branch_id, issue_id,
		       merged_at, closed_at, merged_by, opened_at, updated_at
		FROM pull_requests
		WHERE repository_id = ? AND head_branch_id = ? AND state IN ('open', 'draft')
		ORDER BY github_pr_id DESC
		LIMIT 1
	`

	pr, err := scanPullRequest(r.db.Reader.QueryRowContext(ctx, query, repositoryID, headBranchID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get open pull request on branch %d: %w", headBranchID, err)
	}

	return pr, nil
}

// ListByRepository returns all pull requests for a repository, newest first.
func (r *PRRepo) ListByRepository(ctx context.Context, repositoryID int64) ([]model.PullRequest, error) {
	const query = `
		SELECT id, repository_id, github_pr_id, title, author, state,
		       base_branch_id, head_branch_id, issue_id,
		       merged_at, closed_at, merged_by, opened_at, updated_at
		FROM pull_requests
		WHERE repository_id = ?
		ORDER BY github_pr_id DESC
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, repositoryID)
	if err != nil {
		return nil, fmt.Errorf("list pull requests for repository %d: %w", repositoryID, err)
	}
	defer rows.Close()

	var prs []model.PullRequest
	for rows.Next() {
		pr, err := scanPullRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pull request: %w", err)
		}
		prs = append(prs, *pr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pull requests: %w", err)
	}

	return prs, nil
}

func scanPullRequest(s scanner) (*model.PullRequest, error) {
	var pr model.PullRequest
	var state string
	var issueID sql.NullInt64
	var mergedAt, closedAt, mergedBy sql.NullString
	var openedAt, updatedAt string

	err := s.Scan(
		&pr.ID, &pr.RepositoryID, &pr.GitHubPRID, &pr.Title, &pr.Author, &state,
		&pr.BaseBranchID, &pr.HeadBranchID, &issueID,
		&mergedAt, &closedAt, &mergedBy, &openedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	pr.State = model.PRState(state)
	if issueID.Valid {
		pr.IssueID = &issueID.Int64
	}
	if mergedBy.Valid {
		pr.MergedBy = &mergedBy.String
	}

	pr.MergedAt, err = parseNullTime(mergedAt)
	if err != nil {
		return nil, fmt.Errorf("parse merged_at: %w", err)
	}

	pr.ClosedAt, err = parseNullTime(closedAt)
	if err != nil {
		return nil, fmt.Errorf("parse closed_at: %w", err)
	}

	pr.OpenedAt, err = parseTime(openedAt)
	if err != nil {
		return nil, fmt.Errorf("parse opened_at: %w", err)
	}

	pr.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &pr, nil
}
