package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/camdenr/trackhub/internal/domain/model"
)

// Shared row builders for adapter tests. Foreign keys are enforced, so
// dependent rows must be seeded through these in order.

func seedRepository(t *testing.T, db *DB) model.Repository {
	t.Helper()

	repo := model.Repository{
		ProjectID:   10,
		FullName:    "acme/webapp",
		Owner:       "acme",
		Name:        "webapp",
		IssuePrefix: "ABC",
		AddedAt:     time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}

	id, err := NewRepoRepo(db).Add(context.Background(), repo)
	require.NoError(t, err)
	repo.ID = id

	return repo
}

func seedBranch(t *testing.T, db *DB, repositoryID int64, name, headSHA string) model.Branch {
	t.Helper()

	now := time.Date(2026, 1, 15, 11, 0, 0, 0, time.UTC)
	branch := model.Branch{
		RepositoryID: repositoryID,
		Name:         name,
		HeadSHA:      headSHA,
		IsDefault:    model.IsDefaultBranchName(name),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := NewBranchRepo(db).Create(context.Background(), branch)
	require.NoError(t, err)
	branch.ID = id

	return branch
}

func seedPullRequest(t *testing.T, db *DB, repositoryID, baseBranchID, headBranchID, number int64, state model.PRState) model.PullRequest {
	t.Helper()

	opened := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	pr := model.PullRequest{
		RepositoryID: repositoryID,
		GitHubPRID:   number,
		Title:        "Add login form",
		Author:       "dana",
		State:        state,
		BaseBranchID: baseBranchID,
		HeadBranchID: headBranchID,
		OpenedAt:     opened,
		UpdatedAt:    opened,
	}

	id, err := NewPRRepo(db).Create(context.Background(), pr)
	require.NoError(t, err)
	pr.ID = id

	return pr
}

func seedAppAndUser(t *testing.T, db *DB) (appID, userID int64) {
	t.Helper()

	ctx := context.Background()
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	appID, err := NewAppRepo(db).Create(ctx, model.App{
		Name:      "Flowbot",
		Status:    model.AppStatusPublished,
		CreatedAt: created,
	})
	require.NoError(t, err)

	userID, err = NewUserRepo(db).Create(ctx, model.User{
		Email:     "dana@acme.test",
		Name:      "Dana Dev",
		CreatedAt: created,
	})
	require.NoError(t, err)

	return appID, userID
}

// testKey is a fixed 32-byte AES-256 key for installation tests.
func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i + 1)
	}
	return key
}
