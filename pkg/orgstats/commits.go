package orgstats

import (
	"sort"
	"unicode/utf8"

	set "github.com/deckarep/golang-set"
)

const (
	// maxCommitMessageLength is the number of characters of a commit message kept in reports
	maxCommitMessageLength = 100

	// unknownAuthor is reported for commits without a linked GitHub account
	unknownAuthor = "unknown"

	// dayLayout is the layout of the commits_by_day keys
	dayLayout = "2006-01-02"
)

// NewCommitStats summarises the specified commits. Commits by bot accounts are ignored
// when excludeBots is true. Days are bucketed by the UTC date of the author date.
func NewCommitStats(commits []*Commit, excludeBots bool) *CommitStats {
	stats := &CommitStats{
		CommitAuthors: map[string]int{},
		CommitsByDay:  map[string]int{},
	}

	authors := set.NewSet()
	for _, c := range commits {
		if excludeBots && IsBotAccount(c.Author) {
			continue
		}

		stats.TotalCommits++
		if c.Author != "" {
			authors.Add(c.Author)
			stats.CommitAuthors[c.Author]++
		}
		stats.CommitsByDay[c.Date.UTC().Format(dayLayout)]++
	}
	stats.UniqueAuthors = authors.Cardinality()

	return stats
}

// NewLatestCommit returns the report form of the specified commit.
func NewLatestCommit(c *Commit) *LatestCommit {
	author := c.Author
	if author == "" {
		author = unknownAuthor
	}

	return &LatestCommit{
		SHA:     c.SHA,
		Author:  author,
		Date:    c.Date,
		Message: truncateMessage(c.Message, maxCommitMessageLength),
	}
}

// truncateMessage truncates the message to max characters followed by an ellipsis.
func truncateMessage(msg string, max int) string {
	if utf8.RuneCountInString(msg) <= max {
		return msg
	}
	return string([]rune(msg)[:max]) + "..."
}

// primaryLanguage returns the language with the most bytes of code. Ties are broken
// alphabetically so the result is stable.
func primaryLanguage(languages map[string]int64) string {
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Strings(names)

	var primary string
	var max int64 = -1
	for _, name := range names {
		if languages[name] > max {
			primary, max = name, languages[name]
		}
	}
	return primary
}

// totalBytes returns the sum of all language byte counts.
func totalBytes(languages map[string]int64) int64 {
	var total int64
	for _, n := range languages {
		total += n
	}
	return total
}
