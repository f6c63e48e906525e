package model

import "time"

// AppInstallation binds an App to a Workspace and the User who authorized it.
// One row per (app, workspace, user) tuple. AccessToken is plaintext at the
// domain boundary; the store layer encrypts it at rest.
type AppInstallation struct {
	ID             int64
	AppID          int64
	WorkspaceID    int64
	UserID         int64
	AccessToken    string
	TokenExpiresAt *time.Time // Nil means the token never expires.
	Scopes         []string
	Status         InstallationStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TokenExpired reports whether the installation's token expired before now.
func (i AppInstallation) TokenExpired(now time.Time) bool {
	return i.TokenExpiresAt != nil && i.TokenExpiresAt.Before(now)
}
