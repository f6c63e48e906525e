package driven

import (
	"context"
	"errors"

	"github.com/camdenr/trackhub/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned by InstallationStore operations when
// TRACKHUB_SECRET_KEY has not been configured.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set TRACKHUB_SECRET_KEY")

// InstallationStore defines the driven port for app installation persistence.
// Access tokens are plaintext at this boundary; the adapter encrypts them at
// rest and decrypts them on read.
type InstallationStore interface {
	// Create stores a new installation with its token encrypted.
	// Returns ErrEncryptionKeyNotSet if the adapter has no encryption key.
	Create(ctx context.Context, inst model.AppInstallation) (int64, error)

	GetByID(ctx context.Context, id int64) (*model.AppInstallation, error)

	// ListActiveWithToken returns every ACTIVE installation that has a
	// stored access token, with tokens decrypted. Rows whose token fails to
	// decrypt are skipped, not surfaced as a global failure.
	ListActiveWithToken(ctx context.Context) ([]model.AppInstallation, error)

	UpdateStatus(ctx context.Context, id int64, status model.InstallationStatus) error
}
