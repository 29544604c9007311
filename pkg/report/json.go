package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/SEEK-Jobs/orgstats/pkg/orgstats"
)

// jsonReport is the document written to JSON reports.
type jsonReport struct {
	Organization      string                `json:"organization"`
	AnalyzedAt        time.Time             `json:"analyzed_at"`
	TotalRepositories int                   `json:"total_repositories"`
	Repositories      []*orgstats.RepoStats `json:"repositories"`
}

func writeJSON(out io.Writer, res *orgstats.OrgResult) error {
	repos := res.Repositories
	if repos == nil {
		repos = []*orgstats.RepoStats{}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		Organization:      res.Organization,
		AnalyzedAt:        res.AnalyzedAt,
		TotalRepositories: len(repos),
		Repositories:      repos,
	})
}
