// Package driven defines the driven (outbound) port interfaces of the domain.
package driven

import (
	"context"
	"errors"

	"github.com/camdenr/trackhub/internal/domain/model"
)

// Sentinel errors returned by RepoStore implementations.
var (
	// ErrRepoNotFound indicates the requested repository does not exist.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrRepoAlreadyExists indicates a repository with the same full name is already connected.
	ErrRepoAlreadyExists = errors.New("repository already exists")
)

// RepoStore defines the driven port for connected-repository persistence.
// Add returns ErrRepoAlreadyExists if the full name is already connected.
type RepoStore interface {
	Add(ctx context.Context, repo model.Repository) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Repository, error)
	GetByFullName(ctx context.Context, fullName string) (*model.Repository, error)
	ListAll(ctx context.Context) ([]model.Repository, error)
	Remove(ctx context.Context, fullName string) error
}
