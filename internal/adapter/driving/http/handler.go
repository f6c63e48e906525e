// Package httphandler is the HTTP driving adapter: the GitHub webhook
// endpoint plus the app-facing REST API behind the token auth gate.
package httphandler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/camdenr/trackhub/internal/application"
	"github.com/camdenr/trackhub/internal/domain/port/driven"
)

// Handler serves the app-facing REST API. Every data endpoint requires a
// valid installation token with the matching read scope.
type Handler struct {
	issues  driven.IssueStore
	prs     driven.PRStore
	commits driven.CommitStore
	auth    *application.AuthService
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	issues driven.IssueStore,
	prs driven.PRStore,
	commits driven.CommitStore,
	auth *application.AuthService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		issues:  issues,
		prs:     prs,
		commits: commits,
		auth:    auth,
		logger:  logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, wh *WebhookHandler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /webhooks/github", wh.HandleGitHub)

	mux.HandleFunc("GET /api/v1/issues", h.authed("issues:read", h.ListIssues))
	mux.HandleFunc("GET /api/v1/pulls", h.authed("pulls:read", h.ListPulls))
	mux.HandleFunc("GET /api/v1/commits", h.authed("commits:read", h.ListCommits))

	// Introspection works for expired tokens so an app can see its own
	// installation is dying and prompt for reauthorization.
	mux.HandleFunc("GET /api/v1/app", WithAppAuth(h.auth, application.AuthOptions{AllowExpired: true}, h.GetAppContext))

	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// authed wraps next with the auth gate requiring the given scope expression.
func (h *Handler) authed(scopes string, next http.HandlerFunc) http.HandlerFunc {
	opts := application.AuthOptions{RequiredScopes: application.SplitScopes(scopes)}
	return WithAppAuth(h.auth, opts, next)
}

// ListIssues returns the issues of one project.
func (h *Handler) ListIssues(w http.ResponseWriter, r *http.Request) {
	projectID, ok := queryID(w, r, "project_id")
	if !ok {
		return
	}

	issues, err := h.issues.ListByProject(r.Context(), projectID)
	if err != nil {
		h.logger.Error("failed to list issues", "project", projectID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]IssueResponse, 0, len(issues))
	for _, issue := range issues {
		resp = append(resp, toIssueResponse(issue))
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListPulls returns the reconciled pull requests of one repository.
func (h *Handler) ListPulls(w http.ResponseWriter, r *http.Request) {
	repositoryID, ok := queryID(w, r, "repository_id")
	if !ok {
		return
	}

	prs, err := h.prs.ListByRepository(r.Context(), repositoryID)
	if err != nil {
		h.logger.Error("failed to list pull requests", "repository", repositoryID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]PRResponse, 0, len(prs))
	for _, pr := range prs {
		resp = append(resp, toPRResponse(pr))
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListCommits returns the reconciled commits of one repository.
func (h *Handler) ListCommits(w http.ResponseWriter, r *http.Request) {
	repositoryID, ok := queryID(w, r, "repository_id")
	if !ok {
		return
	}

	commits, err := h.commits.ListByRepository(r.Context(), repositoryID)
	if err != nil {
		h.logger.Error("failed to list commits", "repository", repositoryID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]CommitResponse, 0, len(commits))
	for _, c := range commits {
		resp = append(resp, toCommitResponse(c))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetAppContext returns the authenticated installation's own context.
func (h *Handler) GetAppContext(w http.ResponseWriter, r *http.Request) {
	ac := AuthContextFrom(r.Context())
	if ac == nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toAppContextResponse(*ac))
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// queryID parses a required positive integer query parameter, writing a 400
// response and returning ok=false when it is missing or malformed.
func queryID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		writeError(w, http.StatusBadRequest, name+" query parameter is required")
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}

	return id, true
}
