package orgstats

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	DefaultDaysBack          = 30  // Default size of the commit analysis window in days
	DefaultMaxRepos          = 100 // Default maximum number of repositories analysed per org
	DefaultContributorsLimit = 10  // Default number of contributors reported per repository

	// rateLimitLogInterval is the number of processed repositories between rate limit reports
	rateLimitLogInterval = 10

	// botFilterFetchSize is the number of contributors fetched when bots are filtered out so
	// that enough humans remain to fill the report
	botFilterFetchSize = 100
)

// CollectOptions controls which repositories are analysed and what is collected for them.
type CollectOptions struct {
	Repos             []string // Only analyse these repositories when not empty
	DaysBack          int      // Size of the commit analysis window in days
	MaxRepos          int      // Maximum number of repositories to analyse
	ContributorsLimit int      // Number of contributors to report
	IncludeForks      bool     // Analyse forked repositories
	IncludeArchived   bool     // Analyse archived repositories
	ExcludeBots       bool     // Ignore bot accounts in contributors and commit stats
	IncludeEmpty      bool     // Report repositories without commits in the analysis window
	IncludeAccess     bool     // Collect teams and admins for each repository
}

// NewCollectOptions returns CollectOptions populated with the defaults.
func NewCollectOptions() *CollectOptions {
	return &CollectOptions{
		DaysBack:          DefaultDaysBack,
		MaxRepos:          DefaultMaxRepos,
		ContributorsLimit: DefaultContributorsLimit,
	}
}

// Progress receives updates as repositories are processed.
type Progress interface {
	Start(title string, total int)
	Increment(repoName string)
	Stop()
}

// OrgResult is the outcome of collecting statistics for an org.
type OrgResult struct {
	Organization string
	AnalyzedAt   time.Time
	Repositories []*RepoStats
	Found        int // Repositories in the org
	Selected     int // Repositories remaining after filtering
	Processed    int // Repositories reported
	Skipped      int // Repositories skipped for having no recent commits
	Errors       *ErrorTracker
}

// Summary returns the totals over the collected repositories.
func (r *OrgResult) Summary() Summary {
	return Summarize(r.Repositories)
}

// collector gathers the statistics of the repositories in a single org.
type collector struct {
	gitHub  GitHubService
	opts    *CollectOptions
	orgName string
	errors  *ErrorTracker
	now     func() time.Time
}

// CollectOrg collects statistics for the selected repositories in the specified org. Failures
// to collect a single statistic are recorded in the result's ErrorTracker and collection
// continues; failing to access the org or cancellation of the context aborts collection.
func CollectOrg(ctx context.Context, plat Platform, orgName string, opts *CollectOptions, progress Progress) (*OrgResult, error) {
	log := zerolog.Ctx(ctx).With().Str("org", orgName).Logger()
	ctx = log.WithContext(ctx)
	gitHub := plat.GitHubService()

	ctx, err := gitHub.ForOrg(ctx, orgName)
	if err != nil {
		return nil, err
	}

	org, err := gitHub.Organization(ctx, orgName)
	if err != nil {
		return nil, errors.Wrapf(err, "could not access organization '%s'", orgName)
	}
	log.Info().Msgf("Successfully accessed organization: %s (%s)", org.Name, org.Login)

	c := collector{
		gitHub:  gitHub,
		opts:    opts,
		orgName: orgName,
		errors:  NewErrorTracker(),
		now:     time.Now,
	}

	return c.collect(ctx, progress)
}

func (c *collector) collect(ctx context.Context, progress Progress) (*OrgResult, error) {
	log := zerolog.Ctx(ctx)

	res := OrgResult{
		Organization: c.orgName,
		AnalyzedAt:   c.now(),
		Repositories: []*RepoStats{},
		Errors:       c.errors,
	}

	repos, found, err := c.selectRepos(ctx)
	if err != nil {
		return nil, err
	}
	res.Found, res.Selected = found, len(repos)
	log.Info().Msgf("Analyzing %d repositories", len(repos))

	progress.Start(fmt.Sprintf("Processing %s repositories", c.orgName), len(repos))
	defer progress.Stop()

	for i, r := range repos {
		log.Debug().Msgf("Processing repository: %s", r.Name)

		stats, err := c.collectRepo(ctx, r)
		if err != nil {
			return nil, err
		}
		progress.Increment(r.Name)

		if stats == nil {
			res.Skipped++
		} else {
			res.Repositories = append(res.Repositories, stats)
		}

		if (i+1)%rateLimitLogInterval == 0 {
			LogRateLimit(ctx, c.gitHub)
		}
	}
	res.Processed = len(res.Repositories)

	logProcessingStats(ctx, &res)
	c.logAnalysisSummary(ctx)

	return &res, nil
}

// selectRepos returns the repositories of the org that should be analysed along with the
// total number of repositories found.
func (c *collector) selectRepos(ctx context.Context) ([]*Repo, int, error) {
	log := zerolog.Ctx(ctx)
	only := newStringSet(c.opts.Repos)

	var found int
	var repos []*Repo
	if err := c.gitHub.WalkRepos(ctx, c.orgName, func(r *Repo) error {
		found++
		switch {
		case r.Fork && !c.opts.IncludeForks:
			return nil
		case r.Archived && !c.opts.IncludeArchived:
			return nil
		case only.Cardinality() > 0 && !only.Contains(r.Name):
			return nil
		}

		repos = append(repos, r)
		return nil
	}); err != nil {
		return nil, 0, errors.Wrapf(err, "could not list repositories of organization '%s'", c.orgName)
	}
	log.Info().Msgf("Found %d repositories in organization", found)

	if c.opts.MaxRepos > 0 && len(repos) > c.opts.MaxRepos {
		log.Warn().Msgf("Limiting analysis to %d repositories (found %d)", c.opts.MaxRepos, len(repos))
		repos = repos[:c.opts.MaxRepos]
	}

	return repos, found, nil
}

// collectRepo returns the statistics of the specified repository or nil when the repository
// should be skipped. Only cancellation of the context results in an error.
func (c *collector) collectRepo(ctx context.Context, r *Repo) (*RepoStats, error) {
	stats := newRepoStats(r)

	since := c.now().AddDate(0, 0, -c.opts.DaysBack)
	commits, err := c.gitHub.Commits(ctx, c.orgName, r.Name, since)
	if errors.Cause(err) == ErrNotFound {
		// Empty repositories have no commit history
		commits, err = nil, nil
	}
	if c.ok(ctx, r.Name, "commit_stats", err) {
		stats.CommitStats = NewCommitStats(commits, c.opts.ExcludeBots)
		if stats.TotalCommits == 0 && !c.opts.IncludeEmpty {
			zerolog.Ctx(ctx).Debug().Msgf("Skipping repository without recent commits: %s", r.Name)
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	languages, err := c.gitHub.Languages(ctx, c.orgName, r.Name)
	if c.ok(ctx, r.Name, "languages", err) && len(languages) > 0 {
		total := totalBytes(languages)
		primary := primaryLanguage(languages)
		stats.Languages = languages
		stats.TotalCodeBytes = &total
		stats.PrimaryLanguage = &primary
	}

	c.collectContributors(ctx, stats)

	stats.RefCounts = &RefCounts{}
	if counts, err := c.gitHub.RefCounts(ctx, c.orgName, r.Name); c.ok(ctx, r.Name, "branches_tags", err) {
		stats.RefCounts = counts
	}

	stats.ReleaseInfo = &ReleaseInfo{}
	if releases, err := c.gitHub.Releases(ctx, c.orgName, r.Name); c.ok(ctx, r.Name, "releases", err) {
		stats.ReleaseInfo = releases
	}

	stats.GitHubActions = &ActionsInfo{Workflows: []*Workflow{}}
	if actions, err := c.gitHub.Actions(ctx, c.orgName, r.Name); c.ok(ctx, r.Name, "github_actions", err) {
		stats.GitHubActions = actions
	}

	stats.BranchProtection = &BranchProtection{}
	if r.DefaultBranch != "" {
		protection, err := c.gitHub.BranchProtection(ctx, c.orgName, r.Name, r.DefaultBranch)
		if c.ok(ctx, r.Name, "branch_protection", err) {
			stats.BranchProtection = protection
		}
	}

	if latest, err := c.gitHub.LatestCommit(ctx, c.orgName, r.Name); c.ok(ctx, r.Name, "latest_commit", err) {
		stats.LatestCommit = NewLatestCommit(latest)
	}

	c.collectDependencies(ctx, stats)
	c.collectSubmodules(ctx, stats)

	if c.opts.IncludeAccess {
		if teams, err := c.gitHub.Teams(ctx, c.orgName, r.Name); c.ok(ctx, r.Name, "teams", err) {
			stats.Teams = teams
		}
		if admins, err := c.gitHub.Admins(ctx, c.orgName, r.Name); c.ok(ctx, r.Name, "admins", err) {
			stats.Admins = admins
		}
	}

	stats.AnalyzedAt = c.now()

	// Calls fail fast once the context is done so don't report a partial repository
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// collectContributors sets the top contributors of the repository.
func (c *collector) collectContributors(ctx context.Context, stats *RepoStats) {
	limit := c.opts.ContributorsLimit
	fetch := limit
	if c.opts.ExcludeBots && fetch < botFilterFetchSize {
		fetch = botFilterFetchSize
	}

	contributors, err := c.gitHub.Contributors(ctx, c.orgName, stats.Name, fetch)
	if !c.ok(ctx, stats.Name, "contributors", err) {
		return
	}

	contributors = FilterBotContributors(contributors, c.opts.ExcludeBots)
	if len(contributors) > limit {
		contributors = contributors[:limit]
	}

	stats.Contributors = append(stats.Contributors, contributors...)
	stats.ContributorsCount = len(contributors)
}

// collectDependencies sets the dependencies declared in well known manifest files.
func (c *collector) collectDependencies(ctx context.Context, stats *RepoStats) {
	deps := map[string][]string{}
	for _, f := range dependencyFiles {
		content, err := c.gitHub.FileContent(ctx, c.orgName, stats.Name, f.path)
		if !c.ok(ctx, stats.Name, "dependencies:"+f.path, err) {
			continue
		}
		deps[f.ecosystem] = ParseDependencies(f.ecosystem, content)
	}

	if len(deps) > 0 {
		stats.Dependencies = deps
	}
}

// collectSubmodules sets the submodules declared in .gitmodules.
func (c *collector) collectSubmodules(ctx context.Context, stats *RepoStats) {
	content, err := c.gitHub.FileContent(ctx, c.orgName, stats.Name, gitModulesPath)
	if !c.ok(ctx, stats.Name, "submodules", err) {
		return
	}

	submodules, err := ParseSubmodules(content)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msgf("Could not parse %s of %s", gitModulesPath, stats.Name)
		return
	}

	stats.Submodules = submodules
	stats.SubmodulesCount = len(submodules)
}

// ok reports whether a call succeeded. Failures other than missing resources are recorded.
func (c *collector) ok(ctx context.Context, repoName, step string, err error) bool {
	if err == nil {
		return true
	}

	log := zerolog.Ctx(ctx)
	if errors.Cause(err) == ErrNotFound {
		log.Debug().Msgf("No %s for %s", step, repoName)
		return false
	}
	if ctx.Err() != nil {
		return false
	}

	errorType := ErrorTypeOf(err)
	c.errors.AddError(repoName, errorType, err.Error(), step)
	log.Warn().Err(err).Str("type", string(errorType)).Msgf("Could not collect %s for %s", step, repoName)

	return false
}

// logAnalysisSummary logs the options that shaped the analysis and the errors encountered.
func (c *collector) logAnalysisSummary(ctx context.Context) {
	log := zerolog.Ctx(ctx)

	enabled := map[bool]string{true: "enabled", false: "disabled"}
	log.Info().Msgf("Bot filtering: %s", enabled[c.opts.ExcludeBots])
	log.Info().Msgf("Empty repository filtering: %s", enabled[!c.opts.IncludeEmpty])

	summary := c.errors.Summary()
	if summary.TotalErrors == 0 {
		return
	}

	log.Warn().Msgf("%d errors in %d repositories", summary.TotalErrors, summary.ReposWithErrors)
	for t, n := range summary.ErrorsByCategory {
		log.Warn().Msgf("  %s: %d", t, n)
	}
}

// logProcessingStats logs the counts of the collection run.
func logProcessingStats(ctx context.Context, res *OrgResult) {
	log := zerolog.Ctx(ctx)

	total := res.Selected
	successRate := 0.0
	if total > 0 {
		successRate = float64(res.Processed) / float64(total) * 100
	}

	log.Info().Msgf("Processing complete: %d/%d repositories (%.1f%% success rate)", res.Processed, total, successRate)
	if res.Skipped > 0 {
		log.Info().Msgf("Skipped %d repositories", res.Skipped)
	}
	if n := res.Errors.Len(); n > 0 {
		log.Warn().Msgf("Encountered %d errors", n)
	}
}

// LogRateLimit logs the remaining API rate limit. Failure to fetch the rate limit is only logged.
func LogRateLimit(ctx context.Context, gitHub GitHubService) {
	log := zerolog.Ctx(ctx)

	rl, err := gitHub.RateLimit(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Could not fetch rate limit")
		return
	}

	log.Info().Msgf("Rate limit: core %d/%d (resets at %s), search %d/%d (resets at %s)",
		rl.Core.Remaining, rl.Core.Limit, rl.Core.Reset.Format(time.RFC3339),
		rl.Search.Remaining, rl.Search.Limit, rl.Search.Reset.Format(time.RFC3339))
}
