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
var _ driven.BranchStore = (*BranchRepo)(nil)

// BranchRepo is the SQLite implementation of the BranchStore port interface.
type BranchRepo struct {
	db *DB
}

// NewBranchRepo creates a new BranchRepo backed by the given DB.
func NewBranchRepo(db *DB) *BranchRepo {
	return &BranchRepo{db: db}
}

// Create inserts a new branch row and returns its id.
func (r *BranchRepo) Create(ctx context.Context, branch model.Branch) (int64, error) {
	const query = `
		INSERT INTO branches (repository_id, name, head_sha, issue_id, is_default, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	isDefault := 0
	if branch.IsDefault {
		isDefault = 1
	}

	result, err := r.db.Writer.ExecContext(ctx, query,
		branch.RepositoryID, branch.Name, branch.HeadSHA, nullableInt64(branch.IssueID),
		isDefault, branch.CreatedAt.UTC(), branch.UpdatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("create branch %q in repository %d: %w", branch.Name, branch.RepositoryID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id for branch %q: %w", branch.Name, err)
	}

	return id, nil
}

// GetByName retrieves a branch by (repository, name).
// Returns (nil, nil) if the branch does not exist.
func (r *BranchRepo) GetByName(ctx context.Context, repositoryID int64, name string) (*model.Branch, error) {
	const query = `
		SELECT id, repository_id, name, head_sha, issue_id, is_default, created_at, updated_at
		FROM branches
		WHERE repository_id = ? AND name = ?
	`

	branch, err := scanBranch(r.db.Reader.QueryRowContext(ctx, query, repositoryID, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get branch %q in repository %d: %w", name, repositoryID, err)
	}

	return branch, nil
}

// UpdateHeadSHA advances the stored head commit pointer for a branch.
// Returns driven.ErrBranchNotFound if the branch does not exist.
func (r *BranchRepo) UpdateHeadSHA(ctx context.Context, id int64, headSHA string) error {
	const query = `UPDATE branches SET head_sha = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, headSHA, id)
	if err != nil {
		return fmt.Errorf("update head sha for branch %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return driven.ErrBranchNotFound
	}

	return nil
}

// ListByRepository returns all branches of a repository ordered by name.
func (r *BranchRepo) ListByRepository(ctx context.Context, repositoryID int64) ([]model.Branch, error) {
	const query = `
		SELECT id, repository_id, name, head_sha, issue_id, is_default, created_at, updated_at
		FROM branches
		WHERE repository_id = ?
		ORDER BY name
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, repositoryID)
	if err != nil {
		return nil, fmt.Errorf("list branches for repository %d: %w", repositoryID, err)
	}
	defer rows.Close()

	var branches []model.Branch
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		branches = append(branches, *branch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate branches: %w", err)
	}

	return branches, nil
}

// DeleteByName removes every branch row matching the name within the
// repository. Deleting an absent name is not an error.
func (r *BranchRepo) DeleteByName(ctx context.Context, repositoryID int64, name string) error {
	const query = `DELETE FROM branches WHERE repository_id = ? AND name = ?`

	if _, err := r.db.Writer.ExecContext(ctx, query, repositoryID, name); err != nil {
		return fmt.Errorf("delete branch %q in repository %d: %w", name, repositoryID, err)
	}

	return nil
}

func scanBranch(s scanner) (*model.Branch, error) {
	var branch model.Branch
	var issueID sql.NullInt64
	var isDefault int
	var createdAt, updatedAt string

	err := s.Scan(
		&branch.ID, &branch.RepositoryID, &branch.Name, &branch.HeadSHA,
		&issueID, &isDefault, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if issueID.Valid {
		branch.IssueID = &issueID.Int64
	}
	branch.IsDefault = isDefault != 0

	branch.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	branch.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &branch, nil
}
