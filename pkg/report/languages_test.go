package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SEEK-Jobs/orgstats/pkg/orgstats"
)

func TestSanitizeLanguages(t *testing.T) {
	primary := "C#"
	original := []*orgstats.RepoStats{
		{
			Name:            "dotnet",
			Languages:       map[string]int64{"C#": 100, "C++": 20, "F#": 5, "Go": 1},
			PrimaryLanguage: &primary,
		},
		{Name: "docs"},
	}

	got := SanitizeLanguages(context.Background(), original)
	require.Len(t, got, 2)

	assert.Equal(t, map[string]int64{"CSharp": 100, "CPlusPlus": 20, "FSharp": 5, "Go": 1}, got[0].Languages)
	assert.Equal(t, "CSharp", *got[0].PrimaryLanguage)
	assert.Nil(t, got[1].Languages)
	assert.Nil(t, got[1].PrimaryLanguage)

	// The input is left untouched
	assert.Equal(t, map[string]int64{"C#": 100, "C++": 20, "F#": 5, "Go": 1}, original[0].Languages)
	assert.Equal(t, "C#", *original[0].PrimaryLanguage)
}

func TestSanitizeLanguagesExactMatch(t *testing.T) {
	primary := "C#-ish"
	got := SanitizeLanguages(context.Background(), []*orgstats.RepoStats{{
		Languages:       map[string]int64{"c#": 1, "Objective-C++": 2},
		PrimaryLanguage: &primary,
	}})

	assert.Equal(t, map[string]int64{"c#": 1, "Objective-C++": 2}, got[0].Languages)
	assert.Equal(t, "C#-ish", *got[0].PrimaryLanguage)
}
