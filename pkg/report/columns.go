package report

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	// maxColumnNameLength is the longest column name kept intact
	maxColumnNameLength = 31
)

var (
	invalidColumnChars = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	columnWhitespace   = regexp.MustCompile(`\s+`)
)

// ColumnNames sanitizes column names for spreadsheets and keeps them unique.
type ColumnNames struct {
	used    map[string]bool
	mapping map[string]string
}

// NewColumnNames returns an empty ColumnNames.
func NewColumnNames() *ColumnNames {
	return &ColumnNames{used: map[string]bool{}, mapping: map[string]string{}}
}

// Sanitize returns the spreadsheet column name for the specified name. Characters other than
// letters, digits, underscores, whitespace and hyphens become underscores, as do runs of
// whitespace. Names starting with a digit are prefixed with "col_" and long names are
// shortened. A name already handed out gets a numeric suffix.
func (c *ColumnNames) Sanitize(name string) string {
	s := invalidColumnChars.ReplaceAllString(name, "_")
	s = columnWhitespace.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")

	if s == "" {
		s = "column"
	}
	if r := []rune(s); unicode.IsDigit(r[0]) {
		s = "col_" + s
	}
	if r := []rune(s); len(r) > maxColumnNameLength {
		s = string(r[:maxColumnNameLength-len(truncationSuffix)]) + truncationSuffix
	}

	unique := s
	for i := 1; c.used[unique]; i++ {
		unique = fmt.Sprintf("%s_%d", s, i)
	}

	c.used[unique] = true
	c.mapping[name] = unique
	return unique
}

// Mapping returns the sanitized name of every column seen so far.
func (c *ColumnNames) Mapping() map[string]string {
	m := make(map[string]string, len(c.mapping))
	for k, v := range c.mapping {
		m[k] = v
	}
	return m
}
