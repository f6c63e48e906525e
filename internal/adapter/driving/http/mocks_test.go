package httphandler_test

import (
	"context"

	"github.com/camdenr/trackhub/internal/domain/model"
)

// --- Mock store implementations ---

type mockRepoStore struct {
	repos  []model.Repository
	getErr error
}

func (m *mockRepoStore) Add(_ context.Context, _ model.Repository) (int64, error) { return 0, nil }

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
	if m.getErr != nil {
		return nil, m.getErr
	}
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

func (m *mockRepoStore) Remove(_ context.Context, _ string) error { return nil }

type mockBranchStore struct {
	branches []model.Branch
	nextID   int64
	deletes  []string
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
	for i := range m.branches {
		if m.branches[i].ID == id {
			m.branches[i].HeadSHA = headSHA
		}
	}
	return nil
}

func (m *mockBranchStore) ListByRepository(_ context.Context, _ int64) ([]model.Branch, error) {
	return m.branches, nil
}

func (m *mockBranchStore) DeleteByName(_ context.Context, _ int64, name string) error {
	m.deletes = append(m.deletes, name)
	return nil
}

type mockCommitStore struct {
	upserts []model.Commit
}

func (m *mockCommitStore) Upsert(_ context.Context, commit model.Commit) error {
	m.upserts = append(m.upserts, commit)
	return nil
}

func (m *mockCommitStore) GetBySHA(_ context.Context, _ string) (*model.Commit, error) {
	return nil, nil
}

func (m *mockCommitStore) ListByRepository(_ context.Context, _ int64) ([]model.Commit, error) {
	return m.upserts, nil
}

func (m *mockCommitStore) LinkPullRequest(_ context.Context, _ string, _ int64) error { return nil }

func (m *mockCommitStore) UpdateStats(_ context.Context, _ string, _ model.CommitStats) error {
	return nil
}

type mockPRStore struct {
	stored  []model.PullRequest
	nextID  int64
	updates []model.PRUpdate

	updateErr error
	listErr   error
}

func (m *mockPRStore) Create(_ context.Context, pr model.PullRequest) (int64, error) {
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

func (m *mockPRStore) Update(_ context.Context, _, _ int64, upd model.PRUpdate) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, upd)
	return nil
}

func (m *mockPRStore) GetOpenByHeadBranch(_ context.Context, _, _ int64) (*model.PullRequest, error) {
	return nil, nil
}

func (m *mockPRStore) ListByRepository(_ context.Context, _ int64) ([]model.PullRequest, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
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
	issues  []model.Issue
	listErr error
}

func (m *mockIssueStore) Create(_ context.Context, _ model.Issue) (int64, error) { return 0, nil }

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
	if m.listErr != nil {
		return nil, m.listErr
	}
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
}

func (m *mockInstallationStore) Create(_ context.Context, _ model.AppInstallation) (int64, error) {
	return 0, nil
}

func (m *mockInstallationStore) GetByID(_ context.Context, _ int64) (*model.AppInstallation, error) {
	return nil, nil
}

func (m *mockInstallationStore) ListActiveWithToken(_ context.Context) ([]model.AppInstallation, error) {
	return m.installations, nil
}

func (m *mockInstallationStore) UpdateStatus(_ context.Context, _ int64, _ model.InstallationStatus) error {
	return nil
}

type mockAppStore struct {
	apps []model.App
}

func (m *mockAppStore) Create(_ context.Context, _ model.App) (int64, error) { return 0, nil }

func (m *mockAppStore) GetByID(_ context.Context, id int64) (*model.App, error) {
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

func (m *mockUserStore) Create(_ context.Context, _ model.User) (int64, error) { return 0, nil }

func (m *mockUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			found := user
			return &found, nil
		}
	}
	return nil, nil
}
