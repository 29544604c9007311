package orgstats

import (
	"regexp"
)

// botPatterns match the logins of well known automation accounts. Patterns are matched
// case-insensitively from the start of the login.
var botPatterns = compileBotPatterns(
	`.*bot$`,
	`.*\[bot\]$`,
	`dependabot.*`,
	`renovate.*`,
	`github-actions.*`,
	`codecov.*`,
	`greenkeeper.*`,
	`snyk.*`,
	`whitesource.*`,
	`sonarcloud.*`,
	`imgbot$`,
	`allcontributors.*`,
	`semantic-release.*`,
	`stale.*`,
	`mergify.*`,
	`pre-commit-ci.*`,
)

func compileBotPatterns(patterns ...string) []*regexp.Regexp {
	var res []*regexp.Regexp
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(`(?i)^(?:`+p+`)`))
	}
	return res
}

// IsBotAccount returns whether the specified login belongs to an automation account.
func IsBotAccount(login string) bool {
	if login == "" {
		return false
	}

	for _, re := range botPatterns {
		if re.MatchString(login) {
			return true
		}
	}
	return false
}

// FilterBotContributors returns the contributors that are not bots when exclude is true,
// otherwise the contributors unchanged.
func FilterBotContributors(contributors []*Contributor, exclude bool) []*Contributor {
	if !exclude {
		return contributors
	}

	filtered := make([]*Contributor, 0, len(contributors))
	for _, c := range contributors {
		if !IsBotAccount(c.Login) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
