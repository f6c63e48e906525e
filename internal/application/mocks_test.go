package application_test

import (
	"context"
	"strings"
	"sync"

	"github.com/camdenr/trackhub/internal/domain/model"
)

// --- Mock implementations ---

type mockRepoStore struct {
	repos []model.Repository
}

func (m *mockRepoStore) Add(_ context.Context, _ model.Repository) (int64, error) {
	return 0, nil
}

func (m *mockRepoStore) GetByID(_ context.Context, id int64) (*model.Repository, error) {
	for _, r := range m.repos {
		if r.ID == id {
			repo := r
			return &repo, nil
		}
	}
	return nil, nil
}

func (m *mockRepoStore) GetByFullName(_ context.Context, fullName string) (*model.Repository, error) {
	for _, r := range m.repos {
		if r.FullName == fullName {
			repo := r
			return &repo, nil
		}
	}
	return nil, nil
}

func (m *mockRepoStore) ListAll(_ context.Context) ([]model.Repository, error) {
	return m.repos, nil
}

func (m *mockRepoStore) Remove(_ context.Context, _ string) error {
	return nil
}

type headSHAUpdate struct {
	BranchID int64
	HeadSHA  string
}

type mockBranchStore struct {
	branches   []model.Branch
	nextID     int64
	shaUpdates []headSHAUpdate
	deletes    []string
}

func (m *mockBranchStore) Create(_ context.Context, branch model.Branch) (int64, error) {
	m.nextID++
	branch.ID = m.nextID
	m.branches = append(m.branches, branch)
	return branch.ID, nil
}

func (m *mockBranchStore) GetByName(_ context.Context, repositoryID int64, name string) (*model.Branch, error) {
	for _, b := range m.branches {
		if b.RepositoryID == repositoryID && b.Name == name {
			branch := b
			return &branch, nil
		}
	}
	return nil, nil
}

func (m *mockBranchStore) UpdateHeadSHA(_ context.Context, id int64, headSHA string) error {
	m.shaUpdates = append(m.shaUpdates, headSHAUpdate{BranchID: id, HeadSHA: headSHA})
	for i := range m.branches {
		if m.branches[i].ID == id {
			m.branches[i].HeadSHA = headSHA
		}
	}
	return nil
}

func (m *mockBranchStore) ListByRepository(_ context.Context, repositoryID int64) ([]model.Branch, error) {
	var out []model.Branch
	for _, b := range m.branches {
		if b.RepositoryID == repositoryID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBranchStore) DeleteByName(_ context.Context, _ int64, name string) error {
	m.deletes = append(m.deletes, name)
	return nil
}

type linkCall struct {
	SHA           string
	PullRequestID int64
}

type statsCall struct {
	SHA   string
	Stats model.CommitStats
}

// mockCommitStore is safe for concurrent use; the batch stats backfill
// exercises it from multiple goroutines.
type mockCommitStore struct {
	mu         sync.Mutex
	upserts    []model.Commit
	links      []linkCall
	statsCalls []statsCall

	linkErr        error
	updateStatsErr error
}

func (m *mockCommitStore) Upsert(_ context.Context, commit model.Commit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts = append(m.upserts, commit)
	return nil
}

func (m *mockCommitStore) GetBySHA(_ context.Context, sha string) (*model.Commit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.upserts {
		if c.SHA == sha {
			commit := c
			return &commit, nil
		}
	}
	return nil, nil
}

func (m *mockCommitStore) ListByRepository(_ context.Context, _ int64) ([]model.Commit, error) {
	return m.upserts, nil
}

func (m *mockCommitStore) LinkPullRequest(_ context.Context, sha string, pullRequestID int64) error {
	if m.linkErr != nil {
		return m.linkErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = append(m.links, linkCall{SHA: sha, PullRequestID: pullRequestID})
	return nil
}

func (m *mockCommitStore) UpdateStats(_ context.Context, sha string, stats model.CommitStats) error {
	if m.updateStatsErr != nil {
		return m.updateStatsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsCalls = append(m.statsCalls, statsCall{SHA: sha, Stats: stats})
	return nil
}

type prUpdateCall struct {
	RepositoryID int64
	GitHubPRID   int64
	Update       model.PRUpdate
}

type mockPRStore struct {
	stored  []model.PullRequest
	nextID  int64
	updates []prUpdateCall

	createErr  error
	getOpenErr error
	updateErr  error
}

func (m *mockPRStore) Create(_ context.Context, pr model.PullRequest) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	pr.ID = m.nextID
	m.stored = append(m.stored, pr)
	return pr.ID, nil
}

func (m *mockPRStore) GetByGitHubID(_ context.Context, repositoryID, githubPRID int64) (*model.PullRequest, error) {
	for _, pr := range m.stored {
		if pr.RepositoryID == repositoryID && pr.GitHubPRID == githubPRID {
			found := pr
			return &found, nil
		}
	}
	return nil, nil
}

func (m *mockPRStore) Update(_ context.Context, repositoryID, githubPRID int64, upd model.PRUpdate) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, prUpdateCall{RepositoryID: repositoryID, GitHubPRID: githubPRID, Update: upd})
	return nil
}

func (m *mockPRStore) GetOpenByHeadBranch(_ context.Context, repositoryID, headBranchID int64) (*model.PullRequest, error) {
	if m.getOpenErr != nil {
		return nil, m.getOpenErr
	}
	for _, pr := range m.stored {
		if pr.RepositoryID == repositoryID && pr.HeadBranchID == headBranchID && pr.IsOpen() {
			found := pr
			return &found, nil
		}
	}
	return nil, nil
}

func (m *mockPRStore) ListByRepository(_ context.Context, _ int64) ([]model.PullRequest, error) {
	return m.stored, nil
}

type mockCheckStore struct {
	upserts []model.PRCheck
}

func (m *mockCheckStore) Upsert(_ context.Context, check model.PRCheck) error {
	m.upserts = append(m.upserts, check)
	return nil
}

func (m *mockCheckStore) ListByPullRequest(_ context.Context, _ int64) ([]model.PRCheck, error) {
	return m.upserts, nil
}

type mockIssueStore struct {
	issues []model.Issue
}

func (m *mockIssueStore) Create(_ context.Context, _ model.Issue) (int64, error) {
	return 0, nil
}

func (m *mockIssueStore) GetByKey(_ context.Context, projectID int64, key string) (*model.Issue, error) {
	for _, issue := range m.issues {
		if issue.ProjectID == projectID && issue.Key == key {
			found := issue
			return &found, nil
		}
	}
	return nil, nil
}

func (m *mockIssueStore) ListByProject(_ context.Context, projectID int64) ([]model.Issue, error) {
	var out []model.Issue
	for _, issue := range m.issues {
		if issue.ProjectID == projectID {
			out = append(out, issue)
		}
	}
	return out, nil
}

type mockInstallationStore struct {
	installations []model.AppInstallation
	nextID        int64
	statusUpdates map[int64]model.InstallationStatus

	listErr   error
	createErr error
}

func (m *mockInstallationStore) Create(_ context.Context, inst model.AppInstallation) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	inst.ID = m.nextID
	m.installations = append(m.installations, inst)
	return inst.ID, nil
}

func (m *mockInstallationStore) GetByID(_ context.Context, id int64) (*model.AppInstallation, error) {
	for _, inst := range m.installations {
		if inst.ID == id {
			found := inst
			return &found, nil
		}
	}
	return nil, nil
}

func (m *mockInstallationStore) ListActiveWithToken(_ context.Context) ([]model.AppInstallation, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.installations, nil
}

func (m *mockInstallationStore) UpdateStatus(_ context.Context, id int64, status model.InstallationStatus) error {
	if m.statusUpdates == nil {
		m.statusUpdates = map[int64]model.InstallationStatus{}
	}
	m.statusUpdates[id] = status
	for i := range m.installations {
		if m.installations[i].ID == id {
			m.installations[i].Status = status
		}
	}
	return nil
}

type mockAppStore struct {
	apps   []model.App
	getErr error
}

func (m *mockAppStore) Create(_ context.Context, _ model.App) (int64, error) {
	return 0, nil
}

func (m *mockAppStore) GetByID(_ context.Context, id int64) (*model.App, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, app := range m.apps {
		if app.ID == id {
			found := app
			return &found, nil
		}
	}
	return nil, nil
}

type mockUserStore struct {
	users []model.User
}

func (m *mockUserStore) Create(_ context.Context, _ model.User) (int64, error) {
	return 0, nil
}

func (m *mockUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			found := user
			return &found, nil
		}
	}
	return nil, nil
}

type statsFetch struct {
	Owner string
	Repo  string
	SHA   string
}

type mockStatsClient struct {
	mu       sync.Mutex
	stats    map[string]model.CommitStats
	fetchErr error
	fetches  []statsFetch
}

func (m *mockStatsClient) FetchCommitStats(_ context.Context, owner, repo, sha string) (*model.CommitStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches = append(m.fetches, statsFetch{Owner: owner, Repo: repo, SHA: sha})
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if stats, ok := m.stats[sha]; ok {
		return &stats, nil
	}
	return nil, nil
}

// containsWarning reports whether any collected warning contains substr.
func containsWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}
