package driven

import (
	"context"
	"errors"

	"github.com/camdenr/trackhub/internal/domain/model"
)

// Sentinel errors returned by PRStore implementations.
var (
	// ErrPullRequestNotFound indicates no pull request matches the
	// (repository, GitHub PR id) pair. Update callers must tolerate it:
	// webhook deliveries can arrive before the opened event was processed.
	ErrPullRequestNotFound = errors.New("pull request not found")

	// ErrPullRequestExists indicates a pull request with the same
	// (repository, GitHub PR id) pair was already created.
	ErrPullRequestExists = errors.New("pull request already exists")
)

// PRStore defines the driven port for pull request persistence.
type PRStore interface {
	// Create inserts a new pull request. Returns ErrPullRequestExists when
	// the (repository, GitHub PR id) pair is already present.
	Create(ctx context.Context, pr model.PullRequest) (int64, error)
	GetByGitHubID(ctx context.Context, repositoryID, githubPRID int64) (*model.PullRequest, error)
	// Update applies a partial update keyed by the natural pair. Returns
	// ErrPullRequestNotFound when no such pull request exists.
	Update(ctx context.Context, repositoryID, githubPRID int64, upd model.PRUpdate) error
	// GetOpenByHeadBranch returns an OPEN or DRAFT pull request whose head
	// branch matches, or (nil, nil) when there is none.
	GetOpenByHeadBranch(ctx context.Context, repositoryID, headBranchID int64) (*model.PullRequest, error)
	ListByRepository(ctx context.Context, repositoryID int64) ([]model.PullRequest, error)
}
