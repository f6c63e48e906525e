package driven

import (
	"context"

	"github.com/camdenr/trackhub/internal/domain/model"
)

// CheckStore defines the driven port for per-PR CI check persistence.
type CheckStore interface {
	// Upsert inserts or replaces the check keyed by (pull request, name).
	// Repeated status webhooks are last-write-wins.
	Upsert(ctx context.Context, check model.PRCheck) error
	ListByPullRequest(ctx context.Context, pullRequestID int64) ([]model.PRCheck, error)
}
