package github

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/github"
	"github.com/pkg/errors"
	"github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog"
	"github.com/shurcooL/githubv4"

	"github.com/SEEK-Jobs/orgstats/pkg/orgstats"
)

const (
	// pageSize is the number of items to return per page in paged responses
	pageSize = 100

	// recentRunsCount is the number of most recent workflow runs reported
	recentRunsCount = 10
)

// service provides the implementation of orgstats.GitHubService.
type service struct {
	clients clientSource
	retry   *retrier

	mu              sync.Mutex
	installationIDs map[string]int64 // Resolved installation per org
}

// reposQuery is used for retrieving information about repos from the Graphql API.
type reposQuery struct {
	Org struct {
		Repositories struct {
			PageInfo pageInfo
			Nodes    []repoNode
		} `graphql:"repositories(first: $first, after: $cursor)"`
	} `graphql:"organization(login: $org)"`
}

// pageInfo is the information needed for paging the Graphql API.
type pageInfo struct {
	EndCursor   string
	HasNextPage bool
}

// repoNode is the repository information returned by the Graphql API.
type repoNode struct {
	Name          string
	NameWithOwner string
	Description   string
	IsPrivate     bool
	IsFork        bool
	IsArchived    bool
	IsDisabled    bool
	CreatedAt     *githubv4.DateTime
	UpdatedAt     *githubv4.DateTime
	PushedAt      *githubv4.DateTime
	DiskUsage     int
	ForkCount     int
	Stargazers    struct {
		TotalCount int
	}
	Watchers struct {
		TotalCount int
	}
	Issues struct {
		TotalCount int
	} `graphql:"issues(states: OPEN)"`
	DefaultBranchRef struct {
		Name string
	}
	PrimaryLanguage struct {
		Name string
	}
	HasIssuesEnabled   bool
	HasProjectsEnabled bool
	HasWikiEnabled     bool
	LicenseInfo        struct {
		Name string
	}
	URL              string `graphql:"url"`
	RepositoryTopics struct {
		Nodes []topicNode
	} `graphql:"repositoryTopics(first: $first)"`
}

// topicNode is the topic information returned by the Graphql API.
type topicNode struct {
	URL          string `graphql:"url"`
	ResourcePath string
}

// NewService returns a configured GitHubService implementation that records API activity in
// the specified metrics registry.
func NewService(f *ClientFactory, registry metrics.Registry) orgstats.GitHubService {
	return newService(f, registry)
}

func newService(clients clientSource, registry metrics.Registry) *service {
	return &service{
		clients:         clients,
		retry:           newRetrier(registry),
		installationIDs: map[string]int64{},
	}
}

// ForOrg implements orgstats.GitHubService. With GitHub App auth the installation for the
// org is looked up in the configured mappings first and then amongst the App's installations.
func (s *service) ForOrg(ctx context.Context, orgName string) (context.Context, error) {
	if s.clients.TokenAuth() {
		return ctx, nil
	}

	id, err := s.installationID(ctx, orgName)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Msgf("Using installation ID %d for organization: %s", id, orgName)
	return WithInstallationID(ctx, id), nil
}

// installationID returns the GitHub App installation ID for the specified org.
func (s *service) installationID(ctx context.Context, orgName string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.installationIDs[orgName]; ok {
		return id, nil
	}

	id, ok := s.clients.Installations().Lookup(orgName)
	if !ok {
		zerolog.Ctx(ctx).Debug().Msgf("Discovering GitHub App installation for organization: %s", orgName)

		installations, err := s.Installations(ctx)
		if err != nil {
			return 0, errors.Wrap(err, "could not list GitHub App installations")
		}

		for _, i := range installations {
			if strings.EqualFold(i.Account, orgName) {
				id, ok = i.ID, true
				break
			}
		}
	}

	if !ok {
		return 0, errors.Errorf("no GitHub App installation found for organization: %s", orgName)
	}

	s.installationIDs[orgName] = id
	return id, nil
}

// Organization implements orgstats.GitHubService.
func (s *service) Organization(ctx context.Context, orgName string) (*orgstats.Organization, error) {
	v3, err := s.clients.V3Client(ctx)
	if err != nil {
		return nil, err
	}

	var org *github.Organization
	if err := s.retry.call(ctx, "organization:"+orgName, func() (r *github.Response, err error) {
		org, r, err = v3.Organizations.Get(ctx, orgName)
		return r, err
	}); err != nil {
		return nil, err
	}

	return &orgstats.Organization{Login: org.GetLogin(), Name: org.GetName()}, nil
}

// AuthenticatedUser implements orgstats.GitHubService.
func (s *service) AuthenticatedUser(ctx context.Context) (string, error) {
	v3, err := s.clients.V3Client(ctx)
	if err != nil {
		return "", err
	}

	var user *github.User
	if err := s.retry.call(ctx, "user", func() (r *github.Response, err error) {
		user, r, err = v3.Users.Get(ctx, "")
		return r, err
	}); err != nil {
		return "", err
	}

	return user.GetLogin(), nil
}

// WalkRepos implements orgstats.GitHubService.
func (s *service) WalkRepos(ctx context.Context, orgName string, walkFn orgstats.WalkReposFunc) error {
	v4, err := s.clients.V4Client(ctx)
	if err != nil {
		return err
	}

	cursor := ""
	opts := map[string]interface{}{
		"org":   githubv4.String(orgName),
		"first": githubv4.Int(pageSize),
	}

	for {
		opts["cursor"] = gitHubV4StringPtr(cursor)

		var q reposQuery
		if err := s.retry.call(ctx, "repositories:"+orgName, func() (*github.Response, error) {
			q = reposQuery{}
			return nil, asRESTError(v4.Query(ctx, &q, opts))
		}); err != nil {
			return err
		}

		for _, repo := range q.Org.Repositories.Nodes {
			if err := walkFn(asDomainRepo(repo)); err != nil {
				return err
			}
		}

		if !q.Org.Repositories.PageInfo.HasNextPage {
			break
		}
		cursor = q.Org.Repositories.PageInfo.EndCursor
	}

	return nil
}

// Languages implements orgstats.GitHubService.
func (s *service) Languages(ctx context.Context, orgName, repoName string) (map[string]int64, error) {
	v3, err := s.clients.V3Client(ctx)
	if err != nil {
		return nil, err
	}

	var languages map[string]int
	if err := s.retry.call(ctx, repoKey("languages", orgName, repoName), func() (r *github.Response, err error) {
		languages, r, err = v3.Repositories.ListLanguages(ctx, orgName, repoName)
		return r, err
	}); err != nil {
		return nil, err
	}

	res := make(map[string]int64, len(languages))
	for name, n := range languages {
		res[name] = int64(n)
	}
	return res, nil
}

// Commits implements orgstats.GitHubService.
func (s *service) Commits(ctx context.Context, orgName, repoName string, since time.Time) ([]*orgstats.Commit, error) {
	v3, err := s.clients.V3Client(ctx)
	if err != nil {
		return nil, err
	}

	opts := github.CommitsListOptions{
		Since:       since,
		ListOptions: github.ListOptions{PerPage: pageSize},
	}

	var res []*orgstats.Commit

	// Loop until there are no more pages of commits
	for {
		var commits []*github.RepositoryCommit
		var r *github.Response
		if err := s.retry.call(ctx, repoKey("commits", orgName, repoName), func() (*github.Response, error) {
			commits, r, err = v3.Repositories.ListCommits(ctx, orgName, repoName, &opts)
			return r, err
		}); err != nil {
			return nil, err
		}

		for _, c := range commits {
			res = append(res, asDomainCommit(c))
		}

		if r.NextPage == 0 {
			break
		}
		opts.Page = r.NextPage
	}

	return res, nil
}

// LatestCommit implements orgstats.GitHubService.
func (s *service) LatestCommit(ctx context.Context, orgName, repoName string) (*orgstats.Commit, error) {
	v3, err := s.clients.V3Client(ctx)
	if err != nil {
		return nil, err
	}

	opts := github.CommitsListOptions{ListOptions: github.ListOptions{PerPage: 1}}

	var commits []*github.RepositoryCommit
	if err := s.retry.call(ctx, repoKey("latest_commit", orgName, repoName), func() (r *github.Response, err error) {
		commits, r, err = v3.Repositories.ListCommits(ctx, orgName, repoName, &opts)
		return r, err
	}); err != nil {
		return nil, err
	}

	if len(commits) == 0 {
		return nil, errors.Wrapf(orgstats.ErrNotFound, "no commits in %s/%s", orgName, repoName)
	}
	return asDomainCommit(commits[0]), nil
}

// Contributors implements orgstats.GitHubService.
func (s *service) Contributors(ctx context.Context, orgName, repoName string, max int) ([]*orgstats.Contributor, error) {
	v3, err := s.clients.V3Client(ctx)
	if err != nil {
		return nil, err
	}

	perPage := pageSize
	if max < perPage {
		perPage = max
	}
	opts := github.ListContributorsOptions{ListOptions: github.ListOptions{PerPage: perPage}}

	res := []*orgstats.Contributor{}
	for len(res) < max {
		var contributors []*github.Contributor
		var r *github.Response
		if err := s.retry.call(ctx, repoKey("contributors", orgName, repoName), func() (*github.Response, error) {
			contributors, r, err = v3.Repositories.ListContributors(ctx, orgName, repoName, &opts)
			return r, err
		}); err != nil {
			return nil, err
		}

		for _, c := range contributors {
			if len(res) == max {
				break
			}
			res = append(res, &orgstats.Contributor{
				Login:         c.GetLogin(),
				Contributions: c.GetContributions(),
				AvatarURL:     c.GetAvatarURL(),
				HTMLURL:       c.GetHTMLURL(),
			})
		}

		if r.NextPage == 0 {
			break
		}
		opts.Page = r.NextPage
	}

	return res, nil
}

// RefCounts implements orgstats.GitHubService.
func (s *service) RefCounts(ctx context.Context, orgName, repoName string) (*orgstats.RefCounts, error) {
	v3, err := s.clients.V3Client(ctx)
	if err != nil {
		return nil, err
	}

	// With one item per page the number of the last page is the number of items
	opts := github.ListOptions{PerPage: 1}

	var branches int
	if err := s.retry.call(ctx, repoKey("branches", orgName, repoName), func() (*github.Response, error) {
		items, r, err := v3.Repositories.ListBranches(ctx, orgName, repoName, &opts)
		branches = itemCount(len(items), r)
		return r, err
	}); err != nil {
		return nil, err
	}

	var tags int
	if err := s.retry.call(ctx, repoKey("tags", orgName, repoName), func() (*github.Response, error) {
		items, r, err := v3.Repositories.ListTags(ctx, orgName, repoName, &opts)
		tags = itemCount(len(items), r)
		return r, err
	}); err != nil {
		return nil, err
	}

	return &orgstats.RefCounts{BranchesCount: branches, TagsCount: tags}, nil
}

// Releases implements orgstats.GitHubService.
func (s *service) Releases(ctx context.Context, orgName, repoName string) (*orgstats.ReleaseInfo, error) {
	v3, err := s.clients.V3Client(ctx)
	if err != nil {
		return nil, err
	}

	var releases []*github.RepositoryRelease
	var total int
	if err := s.retry.call(ctx, repoKey("releases", orgName, repoName), func() (*github.Response, error) {
		var r *github.Response
		releases, r, err = v3.Repositories.ListReleases(ctx, orgName, repoName, &github.ListOptions{PerPage: 1})
		total = itemCount(len(releases), r)
		return r, err
	}); err != nil {
		return nil, err
	}

	if len(releases) == 0 {
		return &orgstats.ReleaseInfo{}, nil
	}

	// Releases are listed newest first
	latest := releases[0]
	info := orgstats.ReleaseInfo{
		LatestRelease: github.String(latest.GetTagName()),
		ReleaseURL:    latest.GetHTMLURL(),
		TotalReleases: total,
	}
	if latest.PublishedAt != nil {
		published := latest.PublishedAt.Time
		info.ReleaseDate = &published
	}

	return &info, nil
}

// Actions implements orgstats.GitHubService.
func (s *service) Actions(ctx context.Context, orgName, repoName string) (*orgstats.ActionsInfo, error) {
	info := orgstats.ActionsInfo{Workflows: []*orgstats.Workflow{}}

	opts := github.ListOptions{PerPage: pageSize}
	for {
		var workflows *workflowList
		var r *github.Response
		if err := s.retry.call(ctx, repoKey("workflows", orgName, repoName), func() (_ *github.Response, err error) {
			workflows, r, err = s.listWorkflows(ctx, orgName, repoName, &opts)
			return r, err
		}); err != nil {
			return nil, err
		}

		info.WorkflowsCount = workflows.TotalCount
		for _, w := range workflows.Workflows {
			info.Workflows = append(info.Workflows, &orgstats.Workflow{Name: w.Name, State: w.State, Path: w.Path})
		}

		if r.NextPage == 0 {
			break
		}
		opts.Page = r.NextPage
	}

	var runs *workflowRunList
	if err := s.retry.call(ctx, repoKey("workflow_runs", orgName, repoName), func() (r *github.Response, err error) {
		runs, r, err = s.listWorkflowRuns(ctx, orgName, repoName, &github.ListOptions{PerPage: recentRunsCount})
		return r, err
	}); err != nil {
		return nil, err
	}
	info.RecentRuns = len(runs.WorkflowRuns)

	return &info, nil
}

// BranchProtection implements orgstats.GitHubService.
func (s *service) BranchProtection(ctx context.Context, orgName, repoName, branch string) (*orgstats.BranchProtection, error) {
	v3, err := s.clients.V3Client(ctx)
	if err != nil {
		return nil, err
	}

	var p *github.Protection
	if err := s.retry.call(ctx, repoKey("branch_protection", orgName, repoName), func() (r *github.Response, err error) {
		p, r, err = v3.Repositories.GetBranchProtection(ctx, orgName, repoName, branch)
		return r, err
	}); err != nil {
		return nil, err
	}

	enforceAdmins := p.EnforceAdmins != nil && p.EnforceAdmins.Enabled
	return &orgstats.BranchProtection{
		Protected:                  true,
		RequiredStatusChecks:       github.Bool(p.RequiredStatusChecks != nil),
		EnforceAdmins:              &enforceAdmins,
		RequiredPullRequestReviews: github.Bool(p.RequiredPullRequestReviews != nil),
		Restrictions:               github.Bool(p.Restrictions != nil),
	}, nil
}

// FileContent implements orgstats.GitHubService.
func (s *service) FileContent(ctx context.Context, orgName, repoName, path string) ([]byte, error) {
	v3, err := s.clients.V3Client(ctx)
	if err != nil {
		return nil, err
	}

	var file *github.RepositoryContent
	if err := s.retry.call(ctx, repoKey("contents", orgName, repoName)+":"+path, func() (r *github.Response, err error) {
		file, _, r, err = v3.Repositories.GetContents(ctx, orgName, repoName, path, nil)
		return r, err
	}); err != nil {
		return nil, err
	}

	if file == nil {
		return nil, errors.Wrapf(orgstats.ErrNotFound, "%s is not a file", path)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode %s", path)
	}
	return []byte(content), nil
}

// Teams implements orgstats.GitHubService.
func (s *service) Teams(ctx context.Context, orgName, repoName string) ([]*orgstats.TeamPermission, error) {
	v3, err := s.clients.V3Client(ctx)
	if err != nil {
		return nil, err
	}

	opts := github.ListOptions{PerPage: pageSize}
	res := []*orgstats.TeamPermission{}
	for {
		var teams []*github.Team
		var r *github.Response
		if err := s.retry.call(ctx, repoKey("teams", orgName, repoName), func() (*github.Response, error) {
			teams, r, err = v3.Repositories.ListTeams(ctx, orgName, repoName, &opts)
			return r, err
		}); err != nil {
			return nil, err
		}

		for _, t := range teams {
			res = append(res, &orgstats.TeamPermission{
				Name:       t.GetName(),
				Slug:       t.GetSlug(),
				Permission: t.GetPermission(),
			})
		}

		if r.NextPage == 0 {
			break
		}
		opts.Page = r.NextPage
	}

	return res, nil
}

// Admins implements orgstats.GitHubService.
func (s *service) Admins(ctx context.Context, orgName, repoName string) ([]string, error) {
	opts := github.ListOptions{PerPage: pageSize}
	admins := []string{}
	for {
		var collaborators []*collaborator
		var r *github.Response
		if err := s.retry.call(ctx, repoKey("collaborators", orgName, repoName), func() (_ *github.Response, err error) {
			collaborators, r, err = s.listCollaborators(ctx, orgName, repoName, &opts)
			return r, err
		}); err != nil {
			return nil, err
		}

		for _, c := range collaborators {
			if c.Permissions["admin"] {
				admins = append(admins, c.Login)
			}
		}

		if r.NextPage == 0 {
			break
		}
		opts.Page = r.NextPage
	}

	return admins, nil
}

// RateLimit implements orgstats.GitHubService.
func (s *service) RateLimit(ctx context.Context) (*orgstats.RateLimitStatus, error) {
	v3, err := s.clients.V3Client(ctx)
	if err != nil {
		return nil, err
	}

	var limits *github.RateLimits
	if err := s.retry.call(ctx, "rate_limit", func() (r *github.Response, err error) {
		limits, r, err = v3.RateLimits(ctx)
		return r, err
	}); err != nil {
		return nil, err
	}

	return &orgstats.RateLimitStatus{
		Core:   asDomainRate(limits.Core),
		Search: asDomainRate(limits.Search),
	}, nil
}

// Installations implements orgstats.GitHubService.
func (s *service) Installations(ctx context.Context) ([]*orgstats.Installation, error) {
	if s.clients.TokenAuth() {
		return nil, errors.New("listing installations requires GitHub App authentication")
	}

	app, err := s.clients.AppClient()
	if err != nil {
		return nil, err
	}

	opts := github.ListOptions{PerPage: pageSize}
	var res []*orgstats.Installation
	for {
		var installations []*github.Installation
		var r *github.Response
		if err := s.retry.call(ctx, "installations", func() (*github.Response, error) {
			installations, r, err = app.Apps.ListInstallations(ctx, &opts)
			return r, err
		}); err != nil {
			return nil, err
		}

		for _, i := range installations {
			res = append(res, &orgstats.Installation{
				ID:      i.GetID(),
				Account: i.GetAccount().GetLogin(),
				Type:    i.GetAccount().GetType(),
			})
		}

		if r.NextPage == 0 {
			break
		}
		opts.Page = r.NextPage
	}

	return res, nil
}

// asDomainRepo converts the specified repository information to an orgstats.Repo.
func asDomainRepo(n repoNode) *orgstats.Repo {
	r := orgstats.Repo{
		Name:          n.Name,
		FullName:      n.NameWithOwner,
		Description:   n.Description,
		Private:       n.IsPrivate,
		Fork:          n.IsFork,
		Archived:      n.IsArchived,
		Disabled:      n.IsDisabled,
		CreatedAt:     dateTimePtr(n.CreatedAt),
		UpdatedAt:     dateTimePtr(n.UpdatedAt),
		PushedAt:      dateTimePtr(n.PushedAt),
		Size:          n.DiskUsage,
		Stars:         n.Stargazers.TotalCount,
		Watchers:      n.Watchers.TotalCount,
		Forks:         n.ForkCount,
		OpenIssues:    n.Issues.TotalCount,
		DefaultBranch: n.DefaultBranchRef.Name,
		Language:      n.PrimaryLanguage.Name,
		HasIssues:     n.HasIssuesEnabled,
		HasProjects:   n.HasProjectsEnabled,
		HasWiki:       n.HasWikiEnabled,
		License:       n.LicenseInfo.Name,
		HTMLURL:       n.URL,
		Topics:        topicNodeToStringArray(n.RepositoryTopics.Nodes),
	}
	if n.URL != "" {
		r.CloneURL = n.URL + ".git"
	}

	return &r
}

// asDomainCommit converts the specified github.RepositoryCommit to an orgstats.Commit.
func asDomainCommit(c *github.RepositoryCommit) *orgstats.Commit {
	return &orgstats.Commit{
		SHA:     c.GetSHA(),
		Author:  c.GetAuthor().GetLogin(),
		Date:    c.GetCommit().GetAuthor().GetDate(),
		Message: c.GetCommit().GetMessage(),
	}
}

// asDomainRate converts the specified github.Rate to an orgstats.Rate.
func asDomainRate(r *github.Rate) orgstats.Rate {
	if r == nil {
		return orgstats.Rate{}
	}
	return orgstats.Rate{Limit: r.Limit, Remaining: r.Remaining, Reset: r.Reset.Time}
}

// topicNodeToStringArray turns an array of topicNodes, returned by a Graphql query, into an array of strings
func topicNodeToStringArray(nodes []topicNode) []string {
	topics := []string{}
	for _, v := range nodes {
		topics = append(topics, strings.TrimPrefix(v.ResourcePath, "/topics/"))
	}

	return topics
}

// gitHubV4StringPtr is a helper function that githubv4.String pointer to the specified
// string if it is not empty, otherwise nil.
func gitHubV4StringPtr(value string) *githubv4.String {
	if value == "" {
		return nil
	}
	return (*githubv4.String)(&value)
}

// dateTimePtr returns the time of the specified githubv4.DateTime or nil.
func dateTimePtr(dt *githubv4.DateTime) *time.Time {
	if dt == nil {
		return nil
	}
	t := dt.Time
	return &t
}

// itemCount returns the total number of items of a listing fetched with one item per page.
func itemCount(items int, r *github.Response) int {
	if r != nil && r.LastPage > 0 {
		return r.LastPage
	}
	return items
}

// repoKey returns the key identifying an operation on a repository.
func repoKey(op, orgName, repoName string) string {
	return fmt.Sprintf("%s:%s/%s", op, orgName, repoName)
}
