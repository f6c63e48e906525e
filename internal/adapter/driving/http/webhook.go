package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/camdenr/trackhub/internal/application"
	"github.com/camdenr/trackhub/internal/domain/model"
	"github.com/camdenr/trackhub/internal/domain/port/driven"
)

// WebhookHandler receives GitHub webhook deliveries, verifies their HMAC
// signature, and dispatches them to the reconciler. Failures on the primary
// write path answer 5xx so GitHub redelivers; events the tracker cannot act
// on (unwatched repository, unknown PR, unsupported type) answer 200 because
// redelivery cannot make them succeed.
type WebhookHandler struct {
	repos      driven.RepoStore
	prs        driven.PRStore
	reconciler *application.ReconcileService
	stats      *application.StatsService // nil disables stats backfill
	secret     []byte
	logger     *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler. secret is the shared webhook
// HMAC secret; empty disables signature verification (local development only).
func NewWebhookHandler(
	repos driven.RepoStore,
	prs driven.PRStore,
	reconciler *application.ReconcileService,
	stats *application.StatsService,
	secret []byte,
	logger *slog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		repos:      repos,
		prs:        prs,
		reconciler: reconciler,
		stats:      stats,
		secret:     secret,
		logger:     logger,
	}
}

// webhookResponse is the JSON body returned for accepted deliveries.
type webhookResponse struct {
	Status    string `json:"status"`
	Processed int    `json:"processed,omitempty"`
}

// HandleGitHub is the POST /webhooks/github endpoint.
func (h *WebhookHandler) HandleGitHub(w http.ResponseWriter, r *http.Request) {
	payload, err := gh.ValidatePayload(r, h.secret)
	if err != nil {
		h.logger.Warn("webhook signature rejected", "error", err)
		writeError(w, http.StatusUnauthorized, "invalid webhook signature")
		return
	}

	event, err := gh.ParseWebHook(gh.WebHookType(r), payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unparseable webhook payload")
		return
	}

	switch e := event.(type) {
	case *gh.PushEvent:
		h.handlePush(w, r, e)
	case *gh.PullRequestEvent:
		h.handlePullRequest(w, r, e)
	case *gh.CheckRunEvent:
		h.handleCheckRun(w, r, e)
	case *gh.CreateEvent:
		h.handleCreate(w, r, e)
	case *gh.DeleteEvent:
		h.handleDelete(w, r, e)
	default:
		writeJSON(w, http.StatusOK, webhookResponse{Status: "ignored"})
	}
}

func (h *WebhookHandler) handlePush(w http.ResponseWriter, r *http.Request, event *gh.PushEvent) {
	repo, ok := h.watchedRepo(w, r, event.GetRepo().GetFullName())
	if !ok {
		return
	}

	branch := strings.TrimPrefix(event.GetRef(), "refs/heads/")
	if branch == event.GetRef() {
		// Tag or other non-branch ref.
		writeJSON(w, http.StatusOK, webhookResponse{Status: "ignored"})
		return
	}

	shas := make([]string, 0, len(event.Commits))
	for _, c := range event.Commits {
		data := application.CommitData{
			RepositoryID: repo.ID,
			SHA:          c.GetID(),
			Message:      c.GetMessage(),
			AuthorName:   c.GetAuthor().GetName(),
			AuthorEmail:  c.GetAuthor().GetEmail(),
			CommittedAt:  pushCommitTime(c.GetTimestamp()),
			BranchName:   branch,
			Repo:         repo,
		}

		if _, err := h.reconciler.ProcessCommit(r.Context(), data); err != nil {
			h.logger.Error("commit ingestion failed", "repo", repo.FullName, "sha", c.GetID(), "error", err)
			writeError(w, http.StatusInternalServerError, "commit ingestion failed")
			return
		}

		shas = append(shas, c.GetID())
	}

	// Push payloads carry no per-commit stats; backfill from the API in the
	// background since the request context dies with the response.
	if h.stats != nil && len(shas) > 0 {
		go h.stats.BackfillCommitStatsBatch(context.Background(), repo.Owner, repo.Name, shas)
	}

	writeJSON(w, http.StatusOK, webhookResponse{Status: "ok", Processed: len(shas)})
}

func (h *WebhookHandler) handlePullRequest(w http.ResponseWriter, r *http.Request, event *gh.PullRequestEvent) {
	repo, ok := h.watchedRepo(w, r, event.GetRepo().GetFullName())
	if !ok {
		return
	}

	pr := event.GetPullRequest()
	number := int64(pr.GetNumber())

	if event.GetAction() == "opened" {
		data := application.PRData{
			RepositoryID: repo.ID,
			GitHubPRID:   number,
			Title:        pr.GetTitle(),
			Author:       pr.GetUser().GetLogin(),
			State:        eventPRState(pr),
			BaseBranch:   pr.GetBase().GetRef(),
			HeadBranch:   pr.GetHead().GetRef(),
			HeadSHA:      pr.GetHead().GetSHA(),
			OpenedAt:     pr.GetCreatedAt().Time,
			Repo:         repo,
		}

		_, err := h.reconciler.CreatePullRequest(r.Context(), data)
		if errors.Is(err, driven.ErrPullRequestExists) {
			// Redelivery of an already-processed opened event.
			writeJSON(w, http.StatusOK, webhookResponse{Status: "ignored"})
			return
		}
		if err != nil {
			h.logger.Error("pull request creation failed", "repo", repo.FullName, "number", number, "error", err)
			writeError(w, http.StatusInternalServerError, "pull request creation failed")
			return
		}

		writeJSON(w, http.StatusOK, webhookResponse{Status: "ok", Processed: 1})
		return
	}

	err := h.reconciler.UpdatePullRequest(r.Context(), repo.ID, number, eventPRUpdate(pr))
	if errors.Is(err, driven.ErrPullRequestNotFound) {
		// The opened event has not arrived; a later delivery carries full state.
		h.logger.Warn("update for unknown pull request, skipping",
			"repo", repo.FullName,
			"number", number,
			"action", event.GetAction(),
		)
		writeJSON(w, http.StatusOK, webhookResponse{Status: "ignored"})
		return
	}
	if err != nil {
		h.logger.Error("pull request update failed", "repo", repo.FullName, "number", number, "error", err)
		writeError(w, http.StatusInternalServerError, "pull request update failed")
		return
	}

	writeJSON(w, http.StatusOK, webhookResponse{Status: "ok", Processed: 1})
}

func (h *WebhookHandler) handleCheckRun(w http.ResponseWriter, r *http.Request, event *gh.CheckRunEvent) {
	repo, ok := h.watchedRepo(w, r, event.GetRepo().GetFullName())
	if !ok {
		return
	}

	cr := event.GetCheckRun()
	if cr == nil {
		writeError(w, http.StatusBadRequest, "check_run event without check run")
		return
	}

	status := mapCheckStatus(cr.GetStatus(), cr.GetConclusion())

	processed := 0
	for _, eventPR := range cr.PullRequests {
		number := int64(eventPR.GetNumber())

		stored, err := h.prs.GetByGitHubID(r.Context(), repo.ID, number)
		if err != nil {
			h.logger.Error("pull request lookup failed", "repo", repo.FullName, "number", number, "error", err)
			writeError(w, http.StatusInternalServerError, "pull request lookup failed")
			return
		}
		if stored == nil {
			h.logger.Warn("check run for unknown pull request, skipping", "repo", repo.FullName, "number", number)
			continue
		}

		data := application.CheckData{
			PullRequestID: stored.ID,
			Name:          cr.GetName(),
			Status:        status,
			Conclusion:    cr.GetConclusion(),
			StartedAt:     cr.GetStartedAt().Time,
			CompletedAt:   cr.GetCompletedAt().Time,
		}

		if err := h.reconciler.UpdatePRCheck(r.Context(), data); err != nil {
			h.logger.Error("check update failed", "repo", repo.FullName, "check", cr.GetName(), "error", err)
			writeError(w, http.StatusInternalServerError, "check update failed")
			return
		}
		processed++
	}

	writeJSON(w, http.StatusOK, webhookResponse{Status: "ok", Processed: processed})
}

func (h *WebhookHandler) handleCreate(w http.ResponseWriter, r *http.Request, event *gh.CreateEvent) {
	if event.GetRefType() != "branch" {
		writeJSON(w, http.StatusOK, webhookResponse{Status: "ignored"})
		return
	}

	repo, ok := h.watchedRepo(w, r, event.GetRepo().GetFullName())
	if !ok {
		return
	}

	// Create events carry no head SHA; the first push fills it in.
	if _, err := h.reconciler.CreateBranch(r.Context(), repo.ID, event.GetRef(), ""); err != nil {
		h.logger.Error("branch creation failed", "repo", repo.FullName, "branch", event.GetRef(), "error", err)
		writeError(w, http.StatusInternalServerError, "branch creation failed")
		return
	}

	writeJSON(w, http.StatusOK, webhookResponse{Status: "ok", Processed: 1})
}

func (h *WebhookHandler) handleDelete(w http.ResponseWriter, r *http.Request, event *gh.DeleteEvent) {
	if event.GetRefType() != "branch" {
		writeJSON(w, http.StatusOK, webhookResponse{Status: "ignored"})
		return
	}

	repo, ok := h.watchedRepo(w, r, event.GetRepo().GetFullName())
	if !ok {
		return
	}

	if err := h.reconciler.DeleteBranch(r.Context(), repo.ID, event.GetRef()); err != nil {
		h.logger.Error("branch deletion failed", "repo", repo.FullName, "branch", event.GetRef(), "error", err)
		writeError(w, http.StatusInternalServerError, "branch deletion failed")
		return
	}

	writeJSON(w, http.StatusOK, webhookResponse{Status: "ok", Processed: 1})
}

// watchedRepo resolves a delivery's repository. Unwatched repositories answer
// 200 ignored and report ok=false; lookup failures answer 500.
func (h *WebhookHandler) watchedRepo(w http.ResponseWriter, r *http.Request, fullName string) (*model.Repository, bool) {
	repo, err := h.repos.GetByFullName(r.Context(), fullName)
	if err != nil {
		h.logger.Error("repository lookup failed", "repo", fullName, "error", err)
		writeError(w, http.StatusInternalServerError, "repository lookup failed")
		return nil, false
	}
	if repo == nil {
		h.logger.Debug("delivery for unwatched repository", "repo", fullName)
		writeJSON(w, http.StatusOK, webhookResponse{Status: "ignored"})
		return nil, false
	}

	return repo, true
}

// eventPRState maps a webhook PR payload to the domain lifecycle state.
func eventPRState(pr *gh.PullRequest) model.PRState {
	switch {
	case pr.GetMerged():
		return model.PRStateMerged
	case pr.GetState() == "closed":
		return model.PRStateClosed
	case pr.GetDraft():
		return model.PRStateDraft
	default:
		return model.PRStateOpen
	}
}

// eventPRUpdate builds the partial update for a non-opened PR action.
func eventPRUpdate(pr *gh.PullRequest) model.PRUpdate {
	state := eventPRState(pr)
	upd := model.PRUpdate{State: &state}

	if ts := pr.GetMergedAt(); !ts.IsZero() {
		t := ts.Time.UTC()
		upd.MergedAt = &t
	}
	if ts := pr.GetClosedAt(); !ts.IsZero() {
		t := ts.Time.UTC()
		upd.ClosedAt = &t
	}
	if login := pr.GetMergedBy().GetLogin(); login != "" {
		upd.MergedBy = &login
	}

	return upd
}

// mapCheckStatus folds GitHub's status+conclusion pair into one domain state.
func mapCheckStatus(status, conclusion string) model.CheckStatus {
	if status != "completed" {
		return model.CheckStatusPending
	}

	switch conclusion {
	case "success":
		return model.CheckStatusSuccess
	case "failure":
		return model.CheckStatusFailure
	case "neutral":
		return model.CheckStatusNeutral
	case "cancelled":
		return model.CheckStatusCancelled
	case "skipped":
		return model.CheckStatusSkipped
	default:
		// timed_out, action_required, stale.
		return model.CheckStatusError
	}
}

// pushCommitTime normalizes the webhook timestamp, falling back to now for
// payloads that omit it.
func pushCommitTime(ts gh.Timestamp) time.Time {
	if ts.IsZero() {
		return time.Now().UTC()
	}
	return ts.Time
}
