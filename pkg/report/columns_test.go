package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnNamesSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"name", "name"},
		{"branch_protection.protected", "branch_protection_protected"},
		{"languages.C++", "languages_C"},
		{"languages.Objective C", "languages_Objective_C"},
		{"  spaced   out  ", "spaced_out"},
		{"2fa_enabled", "col_2fa_enabled"},
		{"dependencies.npm-packages", "dependencies_npm-packages"},
		{"commit_authors.a-very-long-login-name-indeed", "commit_authors_a-very-long-l..."},
		{"***", "column"},
	}

	for _, tt := range tests {
		c := NewColumnNames()
		assert.Equal(t, tt.want, c.Sanitize(tt.in), tt.in)
	}
}

func TestColumnNamesUnique(t *testing.T) {
	c := NewColumnNames()

	assert.Equal(t, "languages_C", c.Sanitize("languages.C"))
	assert.Equal(t, "languages_C_1", c.Sanitize("languages.C++"))
	assert.Equal(t, "languages_C_2", c.Sanitize("languages.C#"))

	assert.Equal(t, map[string]string{
		"languages.C":   "languages_C",
		"languages.C++": "languages_C_1",
		"languages.C#":  "languages_C_2",
	}, c.Mapping())
}
