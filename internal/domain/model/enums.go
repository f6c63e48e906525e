package model

// PRState represents the lifecycle state of a pull request.
type PRState string

const (
	PRStateOpen   PRState = "open"
	PRStateClosed PRState = "closed"
	PRStateMerged PRState = "merged"
	PRStateDraft  PRState = "draft"
)

// CheckStatus represents the outcome of a named CI check on a pull request.
type CheckStatus string

const (
	CheckStatusPending   CheckStatus = "pending"
	CheckStatusSuccess   CheckStatus = "success"
	CheckStatusFailure   CheckStatus = "failure"
	CheckStatusError     CheckStatus = "error"
	CheckStatusCancelled CheckStatus = "cancelled"
	CheckStatusNeutral   CheckStatus = "neutral"
	CheckStatusSkipped   CheckStatus = "skipped"
)

// AppStatus represents the marketplace lifecycle state of a third-party app.
// Only PUBLISHED apps may authenticate, regardless of installation status.
type AppStatus string

const (
	AppStatusDraft     AppStatus = "draft"
	AppStatusPublished AppStatus = "published"
	AppStatusSuspended AppStatus = "suspended"
)

// InstallationStatus represents the state of an app installation in a workspace.
type InstallationStatus string

const (
	InstallationStatusActive    InstallationStatus = "active"
	InstallationStatusSuspended InstallationStatus = "suspended"
	InstallationStatusRevoked   InstallationStatus = "revoked"
)
