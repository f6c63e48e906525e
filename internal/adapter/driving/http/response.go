package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/camdenr/trackhub/internal/application"
	"github.com/camdenr/trackhub/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// authErrorResponse is the OAuth-style error body for authentication failures.
type authErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// IssueResponse is the JSON representation of a tracker issue.
type IssueResponse struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"project_id"`
	Key       string `json:"key"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

// PRResponse is the JSON representation of a reconciled pull request.
type PRResponse struct {
	ID           int64   `json:"id"`
	RepositoryID int64   `json:"repository_id"`
	Number       int64   `json:"number"`
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	State        string  `json:"state"`
	IssueID      *int64  `json:"issue_id"`
	MergedAt     *string `json:"merged_at"`
	ClosedAt     *string `json:"closed_at"`
	MergedBy     *string `json:"merged_by"`
	OpenedAt     string  `json:"opened_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// CommitResponse is the JSON representation of a reconciled commit.
type CommitResponse struct {
	SHA           string `json:"sha"`
	RepositoryID  int64  `json:"repository_id"`
	BranchID      *int64 `json:"branch_id"`
	IssueID       *int64 `json:"issue_id"`
	PullRequestID *int64 `json:"pull_request_id"`
	Message       string `json:"message"`
	AuthorName    string `json:"author_name"`
	AuthorEmail   string `json:"author_email"`
	CommittedAt   string `json:"committed_at"`
	Additions     *int   `json:"additions"`
	Deletions     *int   `json:"deletions"`
}

// AppContextResponse describes the authenticated caller on GET /api/v1/app.
type AppContextResponse struct {
	InstallationID int64    `json:"installation_id"`
	AppID          int64    `json:"app_id"`
	AppName        string   `json:"app_name"`
	WorkspaceID    int64    `json:"workspace_id"`
	UserID         int64    `json:"user_id"`
	UserEmail      string   `json:"user_email"`
	Scopes         []string `json:"scopes"`
	TokenExpiresAt *string  `json:"token_expires_at"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func toIssueResponse(issue model.Issue) IssueResponse {
	return IssueResponse{
		ID:        issue.ID,
		ProjectID: issue.ProjectID,
		Key:       issue.Key,
		Title:     issue.Title,
		CreatedAt: issue.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toPRResponse(pr model.PullRequest) PRResponse {
	return PRResponse{
		ID:           pr.ID,
		RepositoryID: pr.RepositoryID,
		Number:       pr.GitHubPRID,
		Title:        pr.Title,
		Author:       pr.Author,
		State:        string(pr.State),
		IssueID:      pr.IssueID,
		MergedAt:     formatTimePtr(pr.MergedAt),
		ClosedAt:     formatTimePtr(pr.ClosedAt),
		MergedBy:     pr.MergedBy,
		OpenedAt:     pr.OpenedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    pr.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toCommitResponse(c model.Commit) CommitResponse {
	return CommitResponse{
		SHA:           c.SHA,
		RepositoryID:  c.RepositoryID,
		BranchID:      c.BranchID,
		IssueID:       c.IssueID,
		PullRequestID: c.PullRequestID,
		Message:       c.Message,
		AuthorName:    c.AuthorName,
		AuthorEmail:   c.AuthorEmail,
		CommittedAt:   c.CommittedAt.UTC().Format(time.RFC3339),
		Additions:     c.Additions,
		Deletions:     c.Deletions,
	}
}

func toAppContextResponse(ac application.AuthContext) AppContextResponse {
	scopes := ac.Installation.Scopes
	if scopes == nil {
		scopes = []string{}
	}

	return AppContextResponse{
		InstallationID: ac.Installation.ID,
		AppID:          ac.App.ID,
		AppName:        ac.App.Name,
		WorkspaceID:    ac.WorkspaceID,
		UserID:         ac.User.ID,
		UserEmail:      ac.User.Email,
		Scopes:         scopes,
		TokenExpiresAt: formatTimePtr(ac.Installation.TokenExpiresAt),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
