package orgstats

import (
	"time"
)

// RepoStats is the statistics record collected for a single repository. The JSON keys
// are the column names used by every report format.
type RepoStats struct {
	Name            string     `json:"name"`
	FullName        string     `json:"full_name"`
	Description     string     `json:"description"`
	Private         bool       `json:"private"`
	Fork            bool       `json:"fork"`
	Archived        bool       `json:"archived"`
	Disabled        bool       `json:"disabled"`
	CreatedAt       *time.Time `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
	PushedAt        *time.Time `json:"pushed_at"`
	Size            int        `json:"size"`
	StargazersCount int        `json:"stargazers_count"`
	WatchersCount   int        `json:"watchers_count"`
	ForksCount      int        `json:"forks_count"`
	OpenIssuesCount int        `json:"open_issues_count"`
	DefaultBranch   string     `json:"default_branch"`
	Language        *string    `json:"language"`
	HasIssues       bool       `json:"has_issues"`
	HasProjects     bool       `json:"has_projects"`
	HasWiki         bool       `json:"has_wiki"`
	License         *string    `json:"license"`
	CloneURL        string     `json:"clone_url"`
	HTMLURL         string     `json:"html_url"`

	*CommitStats

	Languages       map[string]int64 `json:"languages,omitempty"`
	TotalCodeBytes  *int64           `json:"total_code_bytes,omitempty"`
	PrimaryLanguage *string          `json:"primary_language,omitempty"`

	Topics            []string       `json:"topics"`
	Contributors      []*Contributor `json:"contributors"`
	ContributorsCount int            `json:"contributors_count"`

	*RefCounts
	*ReleaseInfo

	GitHubActions    *ActionsInfo        `json:"github_actions,omitempty"`
	BranchProtection *BranchProtection   `json:"branch_protection,omitempty"`
	LatestCommit     *LatestCommit       `json:"latest_commit,omitempty"`
	Dependencies     map[string][]string `json:"dependencies,omitempty"`
	Submodules       []*Submodule        `json:"submodules"`
	SubmodulesCount  int                 `json:"submodules_count"`

	Teams  []*TeamPermission `json:"teams,omitempty"`
	Admins []string          `json:"admins,omitempty"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}

// CommitStats summarises the commits made within the analysis window.
type CommitStats struct {
	TotalCommits  int            `json:"total_commits"`
	UniqueAuthors int            `json:"unique_authors"`
	CommitAuthors map[string]int `json:"commit_authors"`
	CommitsByDay  map[string]int `json:"commits_by_day"`
}

// Contributor is a contributor to a repository.
type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
	AvatarURL     string `json:"avatar_url"`
	HTMLURL       string `json:"html_url"`
}

// RefCounts holds the number of branches and tags in a repository.
type RefCounts struct {
	BranchesCount int `json:"branches_count"`
	TagsCount     int `json:"tags_count"`
}

// ReleaseInfo describes the latest release of a repository.
type ReleaseInfo struct {
	LatestRelease *string    `json:"latest_release"`
	ReleaseDate   *time.Time `json:"release_date,omitempty"`
	ReleaseURL    string     `json:"release_url,omitempty"`
	TotalReleases int        `json:"total_releases"`
}

// ActionsInfo describes the GitHub Actions usage of a repository.
type ActionsInfo struct {
	WorkflowsCount int         `json:"workflows_count"`
	RecentRuns     int         `json:"recent_runs"`
	Workflows      []*Workflow `json:"workflows"`
}

// Workflow is a GitHub Actions workflow.
type Workflow struct {
	Name  string `json:"name"`
	State string `json:"state"`
	Path  string `json:"path"`
}

// BranchProtection summarises the protection of the default branch. Only Protected is
// meaningful when the branch is unprotected.
type BranchProtection struct {
	Protected                  bool  `json:"protected"`
	RequiredStatusChecks       *bool `json:"required_status_checks,omitempty"`
	EnforceAdmins              *bool `json:"enforce_admins,omitempty"`
	RequiredPullRequestReviews *bool `json:"required_pull_request_reviews,omitempty"`
	Restrictions               *bool `json:"restrictions,omitempty"`
}

// LatestCommit describes the most recent commit of a repository.
type LatestCommit struct {
	SHA     string    `json:"sha"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
	Message string    `json:"message"`
}

// Submodule is a git submodule declared in .gitmodules.
type Submodule struct {
	Name   string `json:"name"`
	Path   string `json:"path,omitempty"`
	URL    string `json:"url,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// TeamPermission is the permission a team has on a repository.
type TeamPermission struct {
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Permission string `json:"permission"`
}

// newRepoStats returns the statistics record seeded with the repository metadata.
func newRepoStats(r *Repo) *RepoStats {
	return &RepoStats{
		Name:            r.Name,
		FullName:        r.FullName,
		Description:     r.Description,
		Private:         r.Private,
		Fork:            r.Fork,
		Archived:        r.Archived,
		Disabled:        r.Disabled,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		PushedAt:        r.PushedAt,
		Size:            r.Size,
		StargazersCount: r.Stars,
		WatchersCount:   r.Watchers,
		ForksCount:      r.Forks,
		OpenIssuesCount: r.OpenIssues,
		DefaultBranch:   r.DefaultBranch,
		Language:        optionalString(r.Language),
		HasIssues:       r.HasIssues,
		HasProjects:     r.HasProjects,
		HasWiki:         r.HasWiki,
		License:         optionalString(r.License),
		CloneURL:        r.CloneURL,
		HTMLURL:         r.HTMLURL,
		Topics:          append([]string{}, r.Topics...),
		Contributors:    []*Contributor{},
		Submodules:      []*Submodule{},
	}
}

// optionalString returns nil for an empty string, otherwise a pointer to the string.
func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
