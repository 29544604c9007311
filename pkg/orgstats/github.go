package orgstats

//go:generate mockgen -destination=mock_github.go -package=orgstats github.com/SEEK-Jobs/orgstats/pkg/orgstats GitHubService

import (
	"context"
	"time"
)

// WalkReposFunc is the type of the function called for each repo in the GitHub org
// by the WalkRepos function. If the function returns an error walking stops.
type WalkReposFunc func(r *Repo) error

// GitHubService provides the domain interface for all GitHub interactions. Implementations
// return ErrNotFound, ErrForbidden or a *RateLimitError (possibly wrapped) to classify failures.
type GitHubService interface {
	// ForOrg returns a context carrying the credentials used for all calls concerning
	// the specified org.
	ForOrg(ctx context.Context, orgName string) (context.Context, error)

	// Organization returns the specified org, failing when it is not accessible.
	Organization(ctx context.Context, orgName string) (*Organization, error)

	// AuthenticatedUser returns the login of the user owning the credentials.
	AuthenticatedUser(ctx context.Context) (string, error)

	// WalkRepos walks over all repos in the specified org, passing each to the walk function.
	WalkRepos(ctx context.Context, orgName string, walkFn WalkReposFunc) error

	// Languages returns the number of bytes of code per language.
	Languages(ctx context.Context, orgName, repoName string) (map[string]int64, error)

	// Commits returns all commits on the default branch authored since the specified time.
	Commits(ctx context.Context, orgName, repoName string, since time.Time) ([]*Commit, error)

	// LatestCommit returns the most recent commit on the default branch.
	LatestCommit(ctx context.Context, orgName, repoName string) (*Commit, error)

	// Contributors returns at most max contributors ordered by contribution count.
	Contributors(ctx context.Context, orgName, repoName string, max int) ([]*Contributor, error)

	// RefCounts returns the number of branches and tags.
	RefCounts(ctx context.Context, orgName, repoName string) (*RefCounts, error)

	// Releases returns the latest release and the total number of releases.
	Releases(ctx context.Context, orgName, repoName string) (*ReleaseInfo, error)

	// Actions returns the GitHub Actions workflows and recent run count.
	Actions(ctx context.Context, orgName, repoName string) (*ActionsInfo, error)

	// BranchProtection returns the protection settings of the specified branch.
	BranchProtection(ctx context.Context, orgName, repoName, branch string) (*BranchProtection, error)

	// FileContent returns the decoded content of the file at path on the default branch.
	FileContent(ctx context.Context, orgName, repoName, path string) ([]byte, error)

	// Teams returns the teams with access to the repo.
	Teams(ctx context.Context, orgName, repoName string) ([]*TeamPermission, error)

	// Admins returns the logins of collaborators with admin permission on the repo.
	Admins(ctx context.Context, orgName, repoName string) ([]string, error)

	// RateLimit returns the current API rate limit status.
	RateLimit(ctx context.Context) (*RateLimitStatus, error)

	// Installations returns the installations of the GitHub App.
	Installations(ctx context.Context) ([]*Installation, error)
}

// Organization represents a GitHub organization.
type Organization struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// Repo is the repository metadata returned while walking an org.
type Repo struct {
	Name          string
	FullName      string
	Description   string
	Private       bool
	Fork          bool
	Archived      bool
	Disabled      bool
	CreatedAt     *time.Time
	UpdatedAt     *time.Time
	PushedAt      *time.Time
	Size          int
	Stars         int
	Watchers      int
	Forks         int
	OpenIssues    int
	DefaultBranch string
	Language      string
	HasIssues     bool
	HasProjects   bool
	HasWiki       bool
	License       string
	CloneURL      string
	HTMLURL       string
	Topics        []string
}

// Commit is a single commit.
type Commit struct {
	SHA     string
	Author  string // Login of the GitHub user, empty when the author has no account
	Date    time.Time
	Message string
}

// Installation is an installation of the GitHub App.
type Installation struct {
	ID      int64  `json:"id"`
	Account string `json:"account"`
	Type    string `json:"type"`
}

// RateLimitStatus describes the API rate limits of the current credentials.
type RateLimitStatus struct {
	Core   Rate `json:"core"`
	Search Rate `json:"search"`
}

// Rate is the status of a single rate limit category.
type Rate struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"reset"`
}
