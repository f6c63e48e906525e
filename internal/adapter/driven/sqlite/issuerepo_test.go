package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camdenr/trackhub/internal/domain/model"
)

func makeIssue(projectID int64, key, title string) model.Issue {
	return model.Issue{
		ProjectID: projectID,
		Key:       key,
		Title:     title,
		CreatedAt: time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC),
	}
}

func TestIssueRepo_CreateAndGetByKey(t *testing.T) {
	db := setupTestDB(t)
	issues := NewIssueRepo(db)
	ctx := context.Background()

	id, err := issues.Create(ctx, makeIssue(10, "ABC-7", "Login flow"))
	require.NoError(t, err)

	got, err := issues.GetByKey(ctx, 10, "ABC-7")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Login flow", got.Title)
}

func TestIssueRepo_GetByKey_ScopedToProject(t *testing.T) {
	db := setupTestDB(t)
	issues := NewIssueRepo(db)
	ctx := context.Background()

	_, err := issues.Create(ctx, makeIssue(10, "ABC-7", "Login flow"))
	require.NoError(t, err)

	got, err := issues.GetByKey(ctx, 99, "ABC-7")
	require.NoError(t, err)
	assert.Nil(t, got, "same key in a different project must not resolve")
}

func TestIssueRepo_GetByKey_Missing(t *testing.T) {
	db := setupTestDB(t)

	got, err := NewIssueRepo(db).GetByKey(context.Background(), 10, "ABC-999")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIssueRepo_DuplicateKeyInProjectFails(t *testing.T) {
	db := setupTestDB(t)
	issues := NewIssueRepo(db)
	ctx := context.Background()

	_, err := issues.Create(ctx, makeIssue(10, "ABC-7", "Login flow"))
	require.NoError(t, err)

	_, err = issues.Create(ctx, makeIssue(10, "ABC-7", "Different title"))
	assert.Error(t, err)
}

func TestIssueRepo_ListByProject(t *testing.T) {
	db := setupTestDB(t)
	issues := NewIssueRepo(db)
	ctx := context.Background()

	_, err := issues.Create(ctx, makeIssue(10, "ABC-7", "Login flow"))
	require.NoError(t, err)
	_, err = issues.Create(ctx, makeIssue(10, "ABC-42", "Signup flow"))
	require.NoError(t, err)
	_, err = issues.Create(ctx, makeIssue(99, "XYZ-1", "Other project"))
	require.NoError(t, err)

	got, err := issues.ListByProject(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
