package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SEEK-Jobs/orgstats/pkg/orgstats"
)

var testNow = time.Date(2024, 3, 10, 12, 30, 45, 0, time.UTC)

func testResult() *orgstats.OrgResult {
	created := time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC)
	primary := "C#"
	protected := true

	errs := orgstats.NewErrorTracker()
	errs.AddError("web", orgstats.ErrorTypePermission, "access forbidden", "branch protection")

	return &orgstats.OrgResult{
		Organization: "SEEK-Jobs",
		AnalyzedAt:   testNow,
		Repositories: []*orgstats.RepoStats{
			{
				Name:            "api",
				FullName:        "SEEK-Jobs/api",
				Private:         true,
				CreatedAt:       &created,
				StargazersCount: 10,
				ForksCount:      2,
				OpenIssuesCount: 3,
				Languages:       map[string]int64{"C#": 300, "Go": 100},
				PrimaryLanguage: &primary,
				Topics:          []string{"dotnet"},
				Contributors:    []*orgstats.Contributor{{Login: "alice", Contributions: 5}},
				Submodules:      []*orgstats.Submodule{},
				GitHubActions:   &orgstats.ActionsInfo{WorkflowsCount: 1, Workflows: []*orgstats.Workflow{{Name: "CI"}}},
				BranchProtection: &orgstats.BranchProtection{
					Protected:     true,
					EnforceAdmins: &protected,
				},
				AnalyzedAt: testNow,
			},
			{
				Name:             "web",
				FullName:         "SEEK-Jobs/web",
				Fork:             true,
				Archived:         true,
				StargazersCount:  1,
				Topics:           []string{},
				Contributors:     []*orgstats.Contributor{},
				Submodules:       []*orgstats.Submodule{},
				BranchProtection: &orgstats.BranchProtection{},
				AnalyzedAt:       testNow,
			},
		},
		Errors: errs,
	}
}

func newTestWriter(t *testing.T, format Format) (*Writer, string) {
	dir := filepath.Join(t.TempDir(), "reports")
	w := NewWriter(Options{OutputDir: dir, Format: format})
	w.now = func() time.Time { return testNow }
	return w, dir
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"json", "csv", "excel", "all"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, Format(s), f)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "github_org_stats_SEEK-Jobs_20240310_123045.xlsx", FileName("SEEK-Jobs", testNow, "xlsx"))
}

func TestWriteAll(t *testing.T) {
	w, dir := newTestWriter(t, FormatAll)

	paths, err := w.Write(context.Background(), testResult())
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "github_org_stats_SEEK-Jobs_20240310_123045.json"),
		filepath.Join(dir, "github_org_stats_SEEK-Jobs_20240310_123045.csv"),
		filepath.Join(dir, "github_org_stats_SEEK-Jobs_20240310_123045.xlsx"),
	}, paths)

	// No temporary files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestWriteJSON(t *testing.T) {
	w, _ := newTestWriter(t, FormatJSON)

	paths, err := w.Write(context.Background(), testResult())
	require.NoError(t, err)
	require.Len(t, paths, 1)

	buf, err := os.ReadFile(paths[0])
	require.NoError(t, err)

	var doc struct {
		Organization      string                   `json:"organization"`
		AnalyzedAt        time.Time                `json:"analyzed_at"`
		TotalRepositories int                      `json:"total_repositories"`
		Repositories      []map[string]interface{} `json:"repositories"`
	}
	require.NoError(t, json.Unmarshal(buf, &doc))

	assert.Equal(t, "SEEK-Jobs", doc.Organization)
	assert.True(t, testNow.Equal(doc.AnalyzedAt))
	assert.Equal(t, 2, doc.TotalRepositories)
	require.Len(t, doc.Repositories, 2)

	// Language names are only rewritten for tabular reports
	assert.Equal(t, "C#", doc.Repositories[0]["primary_language"])
	assert.Contains(t, string(buf), "\n  \"organization\"")
}

func TestWriteCSV(t *testing.T) {
	w, _ := newTestWriter(t, FormatCSV)

	paths, err := w.Write(context.Background(), testResult())
	require.NoError(t, err)
	require.Len(t, paths, 1)

	f, err := os.Open(paths[0])
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	column := func(name string) int {
		for i, c := range header {
			if c == name {
				return i
			}
		}
		t.Fatalf("column %s not found in %v", name, header)
		return -1
	}

	api, web := records[1], records[2]
	assert.Equal(t, "api", api[column("name")])
	assert.Equal(t, "300", api[column("languages.CSharp")])
	assert.Equal(t, "CSharp", api[column("primary_language")])
	assert.Equal(t, `[{"avatar_url":"","contributions":5,"html_url":"","login":"alice"}]`, api[column("contributors")])
	assert.Equal(t, "true", api[column("branch_protection.enforce_admins")])
	assert.Equal(t, "2019-05-01T00:00:00Z", api[column("created_at")])

	assert.Equal(t, "", web[column("languages.CSharp")])
	assert.Equal(t, "", web[column("created_at")])
	assert.Equal(t, "false", web[column("branch_protection.protected")])
}

func TestWriteExcel(t *testing.T) {
	w, _ := newTestWriter(t, FormatExcel)

	paths, err := w.Write(context.Background(), testResult())
	require.NoError(t, err)
	require.Len(t, paths, 1)

	f, err := excelize.OpenFile(paths[0])
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{dataSheet, summarySheet, errorsSheet}, f.GetSheetList())

	rows, err := f.GetRows(dataSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "name", rows[0][0])
	assert.Contains(t, rows[0], "languages_CSharp")
	assert.Contains(t, rows[0], "branch_protection_protected")
	assert.Equal(t, "api", rows[1][0])
	assert.Equal(t, "web", rows[2][0])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Metric", "Value"},
		{"Total Repositories", "2"},
		{"Private Repositories", "1"},
		{"Forked Repositories", "1"},
		{"Archived Repositories", "1"},
		{"Total Stars", "11"},
		{"Total Forks", "2"},
		{"Total Open Issues", "3"},
		{"Repositories with Actions", "1"},
		{"Protected Repositories", "1"},
	}, summary)

	errs, err := f.GetRows(errorsSheet)
	require.NoError(t, err)
	require.Len(t, errs, 2)
	assert.Equal(t, []string{"web", "PERMISSION_ERROR", "access forbidden", "branch protection"}, errs[1][1:])
}

func TestWriteExcelWithoutErrors(t *testing.T) {
	w, _ := newTestWriter(t, FormatExcel)

	res := testResult()
	res.Errors = orgstats.NewErrorTracker()
	res.Repositories = nil

	paths, err := w.Write(context.Background(), res)
	require.NoError(t, err)

	f, err := excelize.OpenFile(paths[0])
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{dataSheet, summarySheet}, f.GetSheetList())
}

func TestWriteExcelTruncatesErrors(t *testing.T) {
	errs := orgstats.NewErrorTracker()
	for _, name := range []string{"a", "b", "c", "d"} {
		errs.AddError(name, orgstats.ErrorTypeAPI, "boom", "languages")
	}

	sheets := workbook{
		table:    &Table{Columns: []string{"name"}},
		errors:   errs.Errors(),
		location: time.UTC,
		batch:    10,
		maxRows:  3,
	}

	var buf bytes.Buffer
	require.NoError(t, sheets.write(context.Background(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(errorsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Timestamp", rows[0][0])
	assert.Equal(t, "a", rows[1][1])
	assert.Equal(t, "b", rows[2][1])
}
