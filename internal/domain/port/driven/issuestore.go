package driven

import (
	"context"

	"github.com/camdenr/trackhub/internal/domain/model"
)

// IssueStore defines the driven port for issue lookup and seeding.
// The reconciler only reads issues; Create exists for the tracker side.
type IssueStore interface {
	Create(ctx context.Context, issue model.Issue) (int64, error)
	// GetByKey resolves an issue by exact key within a project.
	// Returns (nil, nil) when no issue has that key.
	GetByKey(ctx context.Context, projectID int64, key string) (*model.Issue, error)
	ListByProject(ctx context.Context, projectID int64) ([]model.Issue, error)
}
