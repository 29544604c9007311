package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	type protection struct {
		Protected bool  `json:"protected"`
		Admins    *bool `json:"enforce_admins,omitempty"`
	}
	type record struct {
		Name       string           `json:"name"`
		Stars      int              `json:"stars"`
		Ratio      float64          `json:"ratio"`
		License    *string          `json:"license"`
		Created    time.Time        `json:"created_at"`
		Languages  map[string]int64 `json:"languages,omitempty"`
		Topics     []string         `json:"topics"`
		Protection *protection      `json:"branch_protection,omitempty"`
	}

	created := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	enforced := true

	table, err := Flatten(
		record{
			Name:      "api",
			Stars:     5,
			Ratio:     0.5,
			Created:   created,
			Languages: map[string]int64{"TypeScript": 10, "Go": 20},
			Topics:    []string{"go", "api"},
		},
		record{
			Name:       "web",
			Topics:     []string{},
			Protection: &protection{Protected: true, Admins: &enforced},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"name",
		"stars",
		"ratio",
		"license",
		"created_at",
		"languages.Go",
		"languages.TypeScript",
		"topics",
		"branch_protection.protected",
		"branch_protection.enforce_admins",
	}, table.Columns)

	require.Len(t, table.Rows, 2)

	api := table.Rows[0]
	assert.Equal(t, "api", api["name"])
	assert.Equal(t, int64(5), api["stars"])
	assert.Equal(t, 0.5, api["ratio"])
	assert.Nil(t, api["license"])
	assert.Contains(t, api, "license")
	assert.True(t, created.Equal(api["created_at"].(time.Time)))
	assert.Equal(t, int64(20), api["languages.Go"])
	assert.Equal(t, []interface{}{"go", "api"}, api["topics"])
	assert.NotContains(t, api, "branch_protection.protected")

	web := table.Rows[1]
	assert.Equal(t, true, web["branch_protection.protected"])
	assert.Equal(t, true, web["branch_protection.enforce_admins"])
	assert.Equal(t, []interface{}{}, web["topics"])
	assert.NotContains(t, web, "languages.Go")
}

func TestFlattenEmpty(t *testing.T) {
	table, err := Flatten()
	require.NoError(t, err)
	assert.Empty(t, table.Columns)
	assert.Empty(t, table.Rows)
}
