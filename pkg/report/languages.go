package report

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/SEEK-Jobs/orgstats/pkg/orgstats"
)

// languageNames maps language names that spreadsheet tools mangle to safe replacements.
var languageNames = map[string]string{
	"C#":  "CSharp",
	"C++": "CPlusPlus",
	"F#":  "FSharp",
}

// SanitizeLanguages returns copies of the specified repos with problematic language names
// replaced in the language breakdown and the primary language. The input is not modified.
func SanitizeLanguages(ctx context.Context, repos []*orgstats.RepoStats) []*orgstats.RepoStats {
	log := zerolog.Ctx(ctx)

	res := make([]*orgstats.RepoStats, 0, len(repos))
	for _, r := range repos {
		c := *r

		if r.Languages != nil {
			c.Languages = make(map[string]int64, len(r.Languages))
			for name, bytes := range r.Languages {
				if safe, ok := languageNames[name]; ok {
					log.Debug().Msgf("Renamed language '%s' to '%s' in %s", name, safe, r.Name)
					name = safe
				}
				c.Languages[name] += bytes
			}
		}

		if r.PrimaryLanguage != nil {
			primary := *r.PrimaryLanguage
			if safe, ok := languageNames[primary]; ok {
				log.Debug().Msgf("Renamed primary language '%s' to '%s' in %s", primary, safe, r.Name)
				primary = safe
			}
			c.PrimaryLanguage = &primary
		}

		res = append(res, &c)
	}

	return res
}
