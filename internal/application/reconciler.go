package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/camdenr/trackhub/internal/domain/model"
	"github.com/camdenr/trackhub/internal/domain/port/driven"
)

// unknownHeadSHA marks a branch whose head commit has not been seen yet,
// e.g. a base branch first referenced by a pull request event.
const unknownHeadSHA = "unknown"

// ReconcileService translates GitHub webhook payloads into durable domain
// rows, inferring issue linkage from the project's issue-key prefix without
// requiring the webhook sender to supply it.
type ReconcileService struct {
	repos    driven.RepoStore
	branches driven.BranchStore
	commits  driven.CommitStore
	prs      driven.PRStore
	checks   driven.CheckStore
	issues   driven.IssueStore
}

// NewReconcileService creates a ReconcileService with all required stores.
func NewReconcileService(
	repos driven.RepoStore,
	branches driven.BranchStore,
	commits driven.CommitStore,
	prs driven.PRStore,
	checks driven.CheckStore,
	issues driven.IssueStore,
) *ReconcileService {
	return &ReconcileService{
		repos:    repos,
		branches: branches,
		commits:  commits,
		prs:      prs,
		checks:   checks,
		issues:   issues,
	}
}

// CommitData carries one commit from a push webhook.
type CommitData struct {
	RepositoryID int64
	SHA          string
	Message      string
	AuthorName   string
	AuthorEmail  string
	CommittedAt  time.Time
	BranchName   string
	Additions    *int
	Deletions    *int

	// Repo, when non-nil, skips the repository lookup. Callers processing
	// many commits of the same push pass it pre-fetched.
	Repo *model.Repository
}

// CommitResult reports the ingested commit plus warnings from best-effort
// side steps that were skipped without failing ingestion.
type CommitResult struct {
	Commit   model.Commit
	Warnings []string
}

// ProcessCommit ingests one commit: it resolves (find-or-create) the branch,
// derives the commit's issue link from its message, upserts the commit by
// SHA, and best-effort links it to an open pull request on the same branch.
// Repeated delivery of the same webhook is idempotent under the SHA key.
func (s *ReconcileService) ProcessCommit(ctx context.Context, data CommitData) (*CommitResult, error) {
	repo, err := s.repoFor(ctx, data.Repo, data.RepositoryID)
	if err != nil {
		return nil, err
	}

	branch, err := s.resolveBranch(ctx, *repo, data.BranchName, data.SHA)
	if err != nil {
		return nil, err
	}

	// The issue link is re-derived from the message on every delivery; a
	// renamed prefix changes historical links on reprocessing.
	issueID, err := s.resolveIssue(ctx, *repo, data.Message)
	if err != nil {
		return nil, err
	}

	commit := model.Commit{
		SHA:          data.SHA,
		RepositoryID: repo.ID,
		BranchID:     &branch.ID,
		IssueID:      issueID,
		Message:      data.Message,
		AuthorName:   data.AuthorName,
		AuthorEmail:  data.AuthorEmail,
		CommittedAt:  data.CommittedAt,
		Additions:    data.Additions,
		Deletions:    data.Deletions,
	}

	if err := s.commits.Upsert(ctx, commit); err != nil {
		return nil, err
	}

	result := &CommitResult{Commit: commit}

	// Best-effort: stamp the commit with an open PR on the same branch.
	// Failure here must never fail commit ingestion.
	pr, err := s.prs.GetOpenByHeadBranch(ctx, repo.ID, branch.ID)
	switch {
	case err != nil:
		result.warnf("lookup open pull request for branch %q: %v", branch.Name, err)
	case pr != nil:
		if err := s.commits.LinkPullRequest(ctx, data.SHA, pr.ID); err != nil {
			result.warnf("link commit %s to pull request %d: %v", data.SHA, pr.ID, err)
		} else {
			result.Commit.PullRequestID = &pr.ID
		}
	}

	return result, nil
}

// PRData carries a pull request from an opened webhook event.
type PRData struct {
	RepositoryID int64
	GitHubPRID   int64
	Title        string
	Author       string
	State        model.PRState
	BaseBranch   string
	HeadBranch   string
	HeadSHA      string
	OpenedAt     time.Time

	Repo *model.Repository
}

// CreatePullRequest resolves base and head branches (creating unseen ones
// with an unknown head SHA), derives the issue link from the head branch name
// falling back to the title, and inserts the pull request. Creating the same
// (repository, GitHub PR id) twice returns driven.ErrPullRequestExists;
// lifecycle events for an existing PR must go through UpdatePullRequest.
func (s *ReconcileService) CreatePullRequest(ctx context.Context, data PRData) (*model.PullRequest, error) {
	repo, err := s.repoFor(ctx, data.Repo, data.RepositoryID)
	if err != nil {
		return nil, err
	}

	base, err := s.resolveBranch(ctx, *repo, data.BaseBranch, "")
	if err != nil {
		return nil, err
	}

	head, err := s.resolveBranch(ctx, *repo, data.HeadBranch, data.HeadSHA)
	if err != nil {
		return nil, err
	}

	issueID, err := s.resolveIssue(ctx, *repo, data.HeadBranch)
	if err != nil {
		return nil, err
	}
	if issueID == nil {
		issueID, err = s.resolveIssue(ctx, *repo, data.Title)
		if err != nil {
			return nil, err
		}
	}

	state := data.State
	if state == "" {
		state = model.PRStateOpen
	}

	pr := model.PullRequest{
		RepositoryID: repo.ID,
		GitHubPRID:   data.GitHubPRID,
		Title:        data.Title,
		Author:       data.Author,
		State:        state,
		BaseBranchID: base.ID,
		HeadBranchID: head.ID,
		IssueID:      issueID,
		OpenedAt:     data.OpenedAt,
		UpdatedAt:    data.OpenedAt,
	}

	id, err := s.prs.Create(ctx, pr)
	if err != nil {
		return nil, err
	}
	pr.ID = id

	return &pr, nil
}

// UpdatePullRequest applies a partial lifecycle update keyed by the natural
// (repository, GitHub PR id) pair. Returns driven.ErrPullRequestNotFound when
// the opened event has not been processed yet -- an ordering hazard the
// caller must tolerate.
func (s *ReconcileService) UpdatePullRequest(ctx context.Context, repositoryID, githubPRID int64, upd model.PRUpdate) error {
	return s.prs.Update(ctx, repositoryID, githubPRID, upd)
}

// CheckData carries one CI check status from a check webhook event.
type CheckData struct {
	PullRequestID int64
	Name          string
	Status        model.CheckStatus
	Conclusion    string
	StartedAt     time.Time
	CompletedAt   time.Time
}

// UpdatePRCheck upserts the check keyed by (pull request, name);
// repeated status webhooks are last-write-wins.
func (s *ReconcileService) UpdatePRCheck(ctx context.Context, data CheckData) error {
	return s.checks.Upsert(ctx, model.PRCheck{
		PullRequestID: data.PullRequestID,
		Name:          data.Name,
		Status:        data.Status,
		Conclusion:    data.Conclusion,
		StartedAt:     data.StartedAt,
		CompletedAt:   data.CompletedAt,
	})
}

// CreateBranch handles an explicit branch-created webhook event. It shares
// the find-or-create path used during commit processing, so redelivery of the
// same event returns the existing row instead of failing.
func (s *ReconcileService) CreateBranch(ctx context.Context, repositoryID int64, name, headSHA string) (*model.Branch, error) {
	repo, err := s.repoFor(ctx, nil, repositoryID)
	if err != nil {
		return nil, err
	}

	return s.resolveBranch(ctx, *repo, name, headSHA)
}

// DeleteBranch handles an explicit branch-deleted webhook event.
// Deleting an unseen branch name is not an error.
func (s *ReconcileService) DeleteBranch(ctx context.Context, repositoryID int64, name string) error {
	return s.branches.DeleteByName(ctx, repositoryID, name)
}

// repoFor returns the pre-fetched repository when provided, otherwise loads
// it by id.
func (s *ReconcileService) repoFor(ctx context.Context, prefetched *model.Repository, repositoryID int64) (*model.Repository, error) {
	if prefetched != nil {
		return prefetched, nil
	}

	repo, err := s.repos.GetByID(ctx, repositoryID)
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, driven.ErrRepoNotFound
	}

	return repo, nil
}

// resolveBranch finds or lazily creates the branch row. A newly created
// branch derives its issue link from the branch name; an existing branch
// advances its stored head SHA when a different non-empty SHA arrives.
func (s *ReconcileService) resolveBranch(ctx context.Context, repo model.Repository, name, headSHA string) (*model.Branch, error) {
	existing, err := s.branches.GetByName(ctx, repo.ID, name)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if headSHA != "" && existing.HeadSHA != headSHA {
			if err := s.branches.UpdateHeadSHA(ctx, existing.ID, headSHA); err != nil {
				return nil, err
			}
			existing.HeadSHA = headSHA
		}
		return existing, nil
	}

	issueID, err := s.resolveIssue(ctx, repo, name)
	if err != nil {
		return nil, err
	}

	if headSHA == "" {
		headSHA = unknownHeadSHA
	}

	now := time.Now().UTC()
	branch := model.Branch{
		RepositoryID: repo.ID,
		Name:         name,
		HeadSHA:      headSHA,
		IssueID:      issueID,
		IsDefault:    model.IsDefaultBranchName(name),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := s.branches.Create(ctx, branch)
	if err != nil {
		return nil, err
	}
	branch.ID = id

	slog.Debug("branch created",
		"repo", repo.FullName,
		"branch", name,
		"issue_linked", issueID != nil,
	)

	return &branch, nil
}

// resolveIssue derives an issue link from free text. No key in the text or
// no issue with that key is expected absence, not an error.
func (s *ReconcileService) resolveIssue(ctx context.Context, repo model.Repository, text string) (*int64, error) {
	key, ok := ExtractIssueKey(text, repo.IssuePrefix)
	if !ok {
		return nil, nil
	}

	issue, err := s.issues.GetByKey(ctx, repo.ProjectID, key)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, nil
	}

	return &issue.ID, nil
}

func (r *CommitResult) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	slog.Warn("commit side step skipped", "sha", r.Commit.SHA, "reason", msg)
}
