package orgstats

// Summary holds the org level totals reported alongside the repository data.
type Summary struct {
	TotalRepositories       int `json:"total_repositories"`
	PrivateRepositories     int `json:"private_repositories"`
	ForkedRepositories      int `json:"forked_repositories"`
	ArchivedRepositories    int `json:"archived_repositories"`
	TotalStars              int `json:"total_stars"`
	TotalForks              int `json:"total_forks"`
	TotalOpenIssues         int `json:"total_open_issues"`
	RepositoriesWithActions int `json:"repositories_with_actions"`
	ProtectedRepositories   int `json:"protected_repositories"`
}

// Metric is a single named summary value.
type Metric struct {
	Name  string
	Value int
}

// Summarize computes the totals over the specified repositories.
func Summarize(repos []*RepoStats) Summary {
	s := Summary{TotalRepositories: len(repos)}
	for _, r := range repos {
		if r.Private {
			s.PrivateRepositories++
		}
		if r.Fork {
			s.ForkedRepositories++
		}
		if r.Archived {
			s.ArchivedRepositories++
		}
		s.TotalStars += r.StargazersCount
		s.TotalForks += r.ForksCount
		s.TotalOpenIssues += r.OpenIssuesCount
		if r.GitHubActions != nil && r.GitHubActions.WorkflowsCount > 0 {
			s.RepositoriesWithActions++
		}
		if r.BranchProtection != nil && r.BranchProtection.Protected {
			s.ProtectedRepositories++
		}
	}
	return s
}

// Metrics returns the summary as ordered metric rows.
func (s Summary) Metrics() []Metric {
	return []Metric{
		{"Total Repositories", s.TotalRepositories},
		{"Private Repositories", s.PrivateRepositories},
		{"Forked Repositories", s.ForkedRepositories},
		{"Archived Repositories", s.ArchivedRepositories},
		{"Total Stars", s.TotalStars},
		{"Total Forks", s.TotalForks},
		{"Total Open Issues", s.TotalOpenIssues},
		{"Repositories with Actions", s.RepositoriesWithActions},
		{"Protected Repositories", s.ProtectedRepositories},
	}
}
