package driven

import (
	"context"
	"errors"

	"github.com/camdenr/trackhub/internal/domain/model"
)

// ErrBranchNotFound indicates the requested branch does not exist.
var ErrBranchNotFound = errors.New("branch not found")

// BranchStore defines the driven port for branch persistence.
// GetByName returns (nil, nil) when no branch with that name exists so that
// callers can distinguish expected absence from operational failure.
type BranchStore interface {
	Create(ctx context.Context, branch model.Branch) (int64, error)
	GetByName(ctx context.Context, repositoryID int64, name string) (*model.Branch, error)
	UpdateHeadSHA(ctx context.Context, id int64, headSHA string) error
	ListByRepository(ctx context.Context, repositoryID int64) ([]model.Branch, error)
	// DeleteByName removes every branch row matching the name within the
	// repository. Deleting an absent name is not an error.
	DeleteByName(ctx context.Context, repositoryID int64, name string) error
}
