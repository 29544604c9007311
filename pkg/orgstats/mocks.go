package orgstats

import (
	"context"
	"sync"

	"github.com/golang/mock/gomock"
)

// TestPlatform provides a test implementation of Platform that contains mocks.
type TestPlatform struct {
	config *Config

	MockGitHubService *MockGitHubService
	FakeReportStore   *FakeReportStore
}

// NewTestPlatform returns a new TestPlatform instance.
func NewTestPlatform(ctrl *gomock.Controller) *TestPlatform {
	config := &Config{
		Name:     "orgstats",
		Version:  "1.0.0",
		AuthMode: AuthModeToken,
	}

	return &TestPlatform{
		config:            config,
		MockGitHubService: NewMockGitHubService(ctrl),
		FakeReportStore:   &FakeReportStore{},
	}
}

// Config implements Platform.
func (plat *TestPlatform) Config() *Config {
	return plat.config
}

// GitHubService implements Platform.
func (plat *TestPlatform) GitHubService() GitHubService {
	return plat.MockGitHubService
}

// ReportStore implements Platform.
func (plat *TestPlatform) ReportStore() ReportStore {
	return plat.FakeReportStore
}

// ExpectForOrg configures an expectation on the MockGitHubService for ForOrg to be called
// any times for the specified org and to return the context it was given.
func (m *MockGitHubService) ExpectForOrg(orgName interface{}) {
	m.
		EXPECT().
		ForOrg(gomock.Any(), orgName).
		DoAndReturn(func(ctx context.Context, orgName string) (context.Context, error) {
			return ctx, nil
		}).
		AnyTimes()
}

// ExpectWalkRepos configures an expectation on the MockGitHubService for WalkRepos to be
// called once for the specified org and to walk the specified repos.
func (m *MockGitHubService) ExpectWalkRepos(orgName interface{}, repos []*Repo) {
	m.
		EXPECT().
		WalkRepos(gomock.Any(), orgName, gomock.Any()).
		DoAndReturn(func(ctx context.Context, orgName string, walkFn WalkReposFunc) error {
			for _, r := range repos {
				if err := walkFn(r); err != nil {
					return err
				}
			}
			return nil
		})
}

// FakeReportStore is a ReportStore that records the paths it is asked to upload.
type FakeReportStore struct {
	mu    sync.Mutex
	Paths []string
}

// Upload implements ReportStore.
func (s *FakeReportStore) Upload(ctx context.Context, path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Paths = append(s.Paths, path)
	return "memory://" + path, nil
}

// NoOpProgress is a Progress that reports nothing.
type NoOpProgress struct{}

// Start implements Progress.
func (NoOpProgress) Start(title string, total int) {}

// Increment implements Progress.
func (NoOpProgress) Increment(repoName string) {}

// Stop implements Progress.
func (NoOpProgress) Stop() {}
