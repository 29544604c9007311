package orgstats

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsBotAccount(t *testing.T) {
	tests := map[string]bool{
		"dependabot[bot]":      true,
		"dependabot-preview":   true,
		"renovate-bot":         true,
		"Renovate":             true,
		"github-actions[bot]":  true,
		"codecov-io":           true,
		"greenkeeperio-bot":    true,
		"snyk-bot":             true,
		"whitesource-bolt":     true,
		"sonarcloud[bot]":      true,
		"ImgBot":               true,
		"allcontributors[bot]": true,
		"semantic-release-bot": true,
		"stale[bot]":           true,
		"mergify[bot]":         true,
		"pre-commit-ci[bot]":   true,
		"release-BOT":          true,
		"octocat":              false,
		"robotics-team":        false,
		"imgbotanist":          false,
		"my-renovate":          false,
		"":                     false,
	}

	for login, want := range tests {
		if got := IsBotAccount(login); got != want {
			t.Errorf("IsBotAccount(%q) = %v, want %v", login, got, want)
		}
	}
}

func TestFilterBotContributors(t *testing.T) {
	contributors := []*Contributor{
		{Login: "alice", Contributions: 50},
		{Login: "dependabot[bot]", Contributions: 40},
		{Login: "bob", Contributions: 30},
		{Login: "github-actions", Contributions: 20},
	}

	got := FilterBotContributors(contributors, true)
	want := []*Contributor{
		{Login: "alice", Contributions: 50},
		{Login: "bob", Contributions: 30},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}

	// Nothing is filtered when bots are included
	if diff := cmp.Diff(contributors, FilterBotContributors(contributors, false)); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}
