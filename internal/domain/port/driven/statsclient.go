package driven

import (
	"context"
	"errors"

	"github.com/camdenr/trackhub/internal/domain/model"
)

// ErrInvalidRef indicates the owner, repo, or SHA failed input validation
// before any outbound request was made.
var ErrInvalidRef = errors.New("invalid owner, repo, or sha")

// StatsClient defines the driven port for fetching commit stats from the
// GitHub commits API.
type StatsClient interface {
	// FetchCommitStats returns addition/deletion counts for the commit.
	// Returns ErrInvalidRef without performing any network call when the
	// inputs fail validation.
	FetchCommitStats(ctx context.Context, owner, repo, sha string) (*model.CommitStats, error)
}
