package driven

import (
	"context"

	"github.com/camdenr/trackhub/internal/domain/model"
)

// AppStore defines the driven port for third-party app descriptors.
// GetByID returns (nil, nil) when the app does not exist.
type AppStore interface {
	Create(ctx context.Context, app model.App) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.App, error)
}

// UserStore defines the driven port for resolving installing users.
// GetByID returns (nil, nil) when the user does not exist.
type UserStore interface {
	Create(ctx context.Context, user model.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}
