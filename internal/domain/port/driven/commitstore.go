package driven

import (
	"context"

	"github.com/camdenr/trackhub/internal/domain/model"
)

// CommitStore defines the driven port for commit persistence.
type CommitStore interface {
	// Upsert inserts the commit on first sight of its SHA. On conflict it
	// updates message, branch link, issue link, and stats in place; author
	// identity and commit date are immutable once recorded.
	Upsert(ctx context.Context, commit model.Commit) error
	GetBySHA(ctx context.Context, sha string) (*model.Commit, error)
	ListByRepository(ctx context.Context, repositoryID int64) ([]model.Commit, error)
	// LinkPullRequest stamps the commit's pull request reference.
	LinkPullRequest(ctx context.Context, sha string, pullRequestID int64) error
	// UpdateStats backfills addition/deletion counts for a commit SHA.
	UpdateStats(ctx context.Context, sha string, stats model.CommitStats) error
}
