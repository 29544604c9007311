package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-github/github"
	"github.com/pkg/errors"
	"github.com/rcrowley/go-metrics"
	"github.com/shurcooL/githubv4"

	"github.com/SEEK-Jobs/orgstats/pkg/orgstats"
)

// testClients serves clients for a test server.
type testClients struct {
	v3            *github.Client
	v4            *githubv4.Client
	token         bool
	installations Installations
}

func (c *testClients) V3Client(ctx context.Context) (*github.Client, error) {
	if !c.token {
		if _, ok := InstallationID(ctx); !ok {
			return nil, missingInstallationID
		}
	}
	return c.v3, nil
}

func (c *testClients) V4Client(ctx context.Context) (*githubv4.Client, error) { return c.v4, nil }
func (c *testClients) AppClient() (*github.Client, error)                     { return c.v3, nil }
func (c *testClients) TokenAuth() bool                                         { return c.token }
func (c *testClients) Installations() Installations                            { return c.installations }

// setup returns a service talking to a test server along with the mux used to configure the server.
func setup(t *testing.T) (*service, *testClients, *http.ServeMux) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	v3 := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	v3.BaseURL = baseURL

	clients := &testClients{
		v3:    v3,
		v4:    githubv4.NewEnterpriseClient(server.URL+"/graphql", nil),
		token: true,
	}

	s := newService(clients, metrics.NewRegistry())
	s.retry.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	return s, clients, mux
}

// lastPage sets a Link header reporting the specified last page.
func lastPage(w http.ResponseWriter, r *http.Request, last int) {
	u := *r.URL
	u.Scheme, u.Host = "http", r.Host
	q := u.Query()
	q.Set("page", "2")
	u.RawQuery = q.Encode()
	next := u.String()
	q.Set("page", fmt.Sprint(last))
	u.RawQuery = q.Encode()
	w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next", <%s>; rel="last"`, next, u.String()))
}

func TestWalkRepos(t *testing.T) {
	s, _, mux := setup(t)

	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Variables struct {
				Org    string
				Cursor *string
			}
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("could not decode request: %v", err)
			return
		}
		if body.Variables.Org != "SEEK-Jobs" {
			t.Errorf("unexpected org %q", body.Variables.Org)
		}

		if body.Variables.Cursor == nil {
			fmt.Fprint(w, `{"data":{"organization":{"repositories":{
				"pageInfo":{"endCursor":"c1","hasNextPage":true},
				"nodes":[{
					"name":"api",
					"nameWithOwner":"SEEK-Jobs/api",
					"description":"The API",
					"isPrivate":true,
					"createdAt":"2020-01-02T03:04:05Z",
					"pushedAt":null,
					"diskUsage":120,
					"forkCount":2,
					"stargazers":{"totalCount":5},
					"watchers":{"totalCount":3},
					"issues":{"totalCount":4},
					"defaultBranchRef":{"name":"main"},
					"primaryLanguage":{"name":"Go"},
					"hasIssuesEnabled":true,
					"licenseInfo":{"name":"MIT License"},
					"url":"https://github.com/SEEK-Jobs/api",
					"repositoryTopics":{"nodes":[{"url":"https://github.com/topics/go","resourcePath":"/topics/go"}]}
				}]}}}}`)
			return
		}

		fmt.Fprint(w, `{"data":{"organization":{"repositories":{
			"pageInfo":{"endCursor":"c2","hasNextPage":false},
			"nodes":[{
				"name":"empty",
				"nameWithOwner":"SEEK-Jobs/empty",
				"isFork":true,
				"defaultBranchRef":null,
				"primaryLanguage":null,
				"licenseInfo":null,
				"url":"https://github.com/SEEK-Jobs/empty",
				"repositoryTopics":{"nodes":[]}
			}]}}}}`)
	})

	var got []*orgstats.Repo
	err := s.WalkRepos(context.Background(), "SEEK-Jobs", func(repo *orgstats.Repo) error {
		got = append(got, repo)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	want := []*orgstats.Repo{
		{
			Name:          "api",
			FullName:      "SEEK-Jobs/api",
			Description:   "The API",
			Private:       true,
			CreatedAt:     &created,
			Size:          120,
			Stars:         5,
			Watchers:      3,
			Forks:         2,
			OpenIssues:    4,
			DefaultBranch: "main",
			Language:      "Go",
			HasIssues:     true,
			License:       "MIT License",
			CloneURL:      "https://github.com/SEEK-Jobs/api.git",
			HTMLURL:       "https://github.com/SEEK-Jobs/api",
			Topics:        []string{"go"},
		},
		{
			Name:     "empty",
			FullName: "SEEK-Jobs/empty",
			Fork:     true,
			CloneURL: "https://github.com/SEEK-Jobs/empty.git",
			HTMLURL:  "https://github.com/SEEK-Jobs/empty",
			Topics:   []string{},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestWalkReposStopsOnError(t *testing.T) {
	s, _, mux := setup(t)

	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"organization":{"repositories":{
			"pageInfo":{"endCursor":"c1","hasNextPage":true},
			"nodes":[{"name":"a"},{"name":"b"}]}}}}`)
	})

	stop := errors.New("stop")
	calls := 0
	err := s.WalkRepos(context.Background(), "SEEK-Jobs", func(repo *orgstats.Repo) error {
		calls++
		return stop
	})
	if err != stop {
		t.Errorf("expected walk error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestWalkReposForbidden(t *testing.T) {
	s, _, mux := setup(t)

	calls := 0
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "Resource not accessible by integration", http.StatusForbidden)
	})

	walk := func(repo *orgstats.Repo) error { return nil }
	for i := 0; i < 2; i++ {
		err := s.WalkRepos(context.Background(), "SEEK-Jobs", walk)
		if errors.Cause(err) != orgstats.ErrForbidden {
			t.Errorf("expected forbidden, got %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 request, got %d", calls)
	}
}

func TestWalkReposUnauthorized(t *testing.T) {
	s, _, mux := setup(t)

	calls := 0
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "Bad credentials", http.StatusUnauthorized)
	})

	err := s.WalkRepos(context.Background(), "SEEK-Jobs", func(repo *orgstats.Repo) error { return nil })
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected no retries, got %d requests", calls)
	}
}

func TestWalkReposRateLimited(t *testing.T) {
	s, _, mux := setup(t)

	var waits []time.Duration
	s.retry.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	calls := 0
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, `{"data":null,"errors":[{"type":"RATE_LIMITED","message":"API rate limit exceeded for installation ID 1."}]}`)
			return
		}
		fmt.Fprint(w, `{"data":{"organization":{"repositories":{
			"pageInfo":{"endCursor":"c1","hasNextPage":false},
			"nodes":[{"name":"api"}]}}}}`)
	})

	var names []string
	err := s.WalkRepos(context.Background(), "SEEK-Jobs", func(repo *orgstats.Repo) error {
		names = append(names, repo.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"api"}, names); diff != "" {
		t.Errorf("repos (-want +got)\n%s", diff)
	}
	if diff := cmp.Diff([]time.Duration{defaultRateLimitWait}, waits); diff != "" {
		t.Errorf("waits (-want +got)\n%s", diff)
	}
}

func TestCommits(t *testing.T) {
	s, _, mux := setup(t)
	since := time.Date(2024, 2, 9, 12, 0, 0, 0, time.UTC)

	mux.HandleFunc("/repos/SEEK-Jobs/api/commits", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("since"); got != "2024-02-09T12:00:00Z" {
			t.Errorf("unexpected since %q", got)
		}

		if r.URL.Query().Get("page") == "" {
			lastPage(w, r, 2)
			fmt.Fprint(w, `[{"sha":"a1","author":{"login":"alice"},"commit":{"message":"Add thing","author":{"date":"2024-03-01T10:00:00Z"}}}]`)
			return
		}
		fmt.Fprint(w, `[{"sha":"b2","author":null,"commit":{"message":"Fix","author":{"date":"2024-03-02T10:00:00Z"}}}]`)
	})

	got, err := s.Commits(context.Background(), "SEEK-Jobs", "api", since)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []*orgstats.Commit{
		{SHA: "a1", Author: "alice", Date: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), Message: "Add thing"},
		{SHA: "b2", Date: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), Message: "Fix"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestCommitsEmptyRepo(t *testing.T) {
	s, _, mux := setup(t)

	mux.HandleFunc("/repos/SEEK-Jobs/empty/commits", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"message":"Git Repository is empty."}`)
	})

	_, err := s.LatestCommit(context.Background(), "SEEK-Jobs", "empty")
	if errors.Cause(err) != orgstats.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestContributorsLimit(t *testing.T) {
	s, _, mux := setup(t)

	mux.HandleFunc("/repos/SEEK-Jobs/api/contributors", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("per_page"); got != "2" {
			t.Errorf("unexpected per_page %q", got)
		}
		lastPage(w, r, 5)
		fmt.Fprint(w, `[{"login":"alice","contributions":10},{"login":"bob","contributions":4}]`)
	})

	got, err := s.Contributors(context.Background(), "SEEK-Jobs", "api", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []*orgstats.Contributor{
		{Login: "alice", Contributions: 10},
		{Login: "bob", Contributions: 4},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestRefCounts(t *testing.T) {
	s, _, mux := setup(t)

	mux.HandleFunc("/repos/SEEK-Jobs/api/branches", func(w http.ResponseWriter, r *http.Request) {
		lastPage(w, r, 7)
		fmt.Fprint(w, `[{"name":"main"}]`)
	})
	mux.HandleFunc("/repos/SEEK-Jobs/api/tags", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"name":"v1.0.0"}]`)
	})

	got, err := s.RefCounts(context.Background(), "SEEK-Jobs", "api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(&orgstats.RefCounts{BranchesCount: 7, TagsCount: 1}, got); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestReleases(t *testing.T) {
	s, _, mux := setup(t)

	mux.HandleFunc("/repos/SEEK-Jobs/api/releases", func(w http.ResponseWriter, r *http.Request) {
		lastPage(w, r, 12)
		fmt.Fprint(w, `[{"tag_name":"v2.1.0","html_url":"https://github.com/SEEK-Jobs/api/releases/v2.1.0","published_at":"2024-03-01T00:00:00Z"}]`)
	})
	mux.HandleFunc("/repos/SEEK-Jobs/none/releases", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	got, err := s.Releases(context.Background(), "SEEK-Jobs", "api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	want := &orgstats.ReleaseInfo{
		LatestRelease: github.String("v2.1.0"),
		ReleaseDate:   &published,
		ReleaseURL:    "https://github.com/SEEK-Jobs/api/releases/v2.1.0",
		TotalReleases: 12,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}

	got, err = s.Releases(context.Background(), "SEEK-Jobs", "none")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(&orgstats.ReleaseInfo{}, got); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestActions(t *testing.T) {
	s, _, mux := setup(t)

	mux.HandleFunc("/repos/SEEK-Jobs/api/actions/workflows", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total_count":2,"workflows":[
			{"name":"CI","state":"active","path":".github/workflows/ci.yml"},
			{"name":"Release","state":"disabled_manually","path":".github/workflows/release.yml"}]}`)
	})
	mux.HandleFunc("/repos/SEEK-Jobs/api/actions/runs", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("per_page"); got != "10" {
			t.Errorf("unexpected per_page %q", got)
		}
		fmt.Fprint(w, `{"total_count":40,"workflow_runs":[{"id":1},{"id":2},{"id":3}]}`)
	})

	got, err := s.Actions(context.Background(), "SEEK-Jobs", "api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &orgstats.ActionsInfo{
		WorkflowsCount: 2,
		RecentRuns:     3,
		Workflows: []*orgstats.Workflow{
			{Name: "CI", State: "active", Path: ".github/workflows/ci.yml"},
			{Name: "Release", State: "disabled_manually", Path: ".github/workflows/release.yml"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestBranchProtection(t *testing.T) {
	s, _, mux := setup(t)

	mux.HandleFunc("/repos/SEEK-Jobs/api/branches/main/protection", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"required_status_checks":{"strict":true,"contexts":["ci"]},"enforce_admins":{"enabled":true}}`)
	})
	mux.HandleFunc("/repos/SEEK-Jobs/open/branches/main/protection", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Branch not protected"}`)
	})

	got, err := s.BranchProtection(context.Background(), "SEEK-Jobs", "api", "main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &orgstats.BranchProtection{
		Protected:                  true,
		RequiredStatusChecks:       github.Bool(true),
		EnforceAdmins:              github.Bool(true),
		RequiredPullRequestReviews: github.Bool(false),
		Restrictions:               github.Bool(false),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}

	_, err = s.BranchProtection(context.Background(), "SEEK-Jobs", "open", "main")
	if errors.Cause(err) != orgstats.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileContent(t *testing.T) {
	s, _, mux := setup(t)

	mux.HandleFunc("/repos/SEEK-Jobs/api/contents/go.mod", func(w http.ResponseWriter, r *http.Request) {
		// "module example.com/api\n"
		fmt.Fprint(w, `{"type":"file","encoding":"base64","content":"bW9kdWxlIGV4YW1wbGUuY29tL2FwaQo="}`)
	})

	got, err := s.FileContent(context.Background(), "SEEK-Jobs", "api", "go.mod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "module example.com/api\n" {
		t.Errorf("unexpected content %q", got)
	}
}

func TestTeamsAndAdmins(t *testing.T) {
	s, _, mux := setup(t)

	mux.HandleFunc("/repos/SEEK-Jobs/api/teams", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"name":"Platform","slug":"platform","permission":"admin"},{"name":"Devs","slug":"devs","permission":"push"}]`)
	})
	mux.HandleFunc("/repos/SEEK-Jobs/api/collaborators", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"login":"alice","permissions":{"admin":true,"push":true}},{"login":"bob","permissions":{"admin":false,"push":true}}]`)
	})

	teams, err := s.Teams(context.Background(), "SEEK-Jobs", "api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantTeams := []*orgstats.TeamPermission{
		{Name: "Platform", Slug: "platform", Permission: "admin"},
		{Name: "Devs", Slug: "devs", Permission: "push"},
	}
	if diff := cmp.Diff(wantTeams, teams); diff != "" {
		t.Errorf("teams (-want +got)\n%s", diff)
	}

	admins, err := s.Admins(context.Background(), "SEEK-Jobs", "api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"alice"}, admins); diff != "" {
		t.Errorf("admins (-want +got)\n%s", diff)
	}
}

func TestRateLimit(t *testing.T) {
	s, _, mux := setup(t)

	mux.HandleFunc("/rate_limit", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"resources":{
			"core":{"limit":5000,"remaining":4321,"reset":1710072000},
			"search":{"limit":30,"remaining":30,"reset":1710072000}}}`)
	})

	got, err := s.RateLimit(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reset := time.Unix(1710072000, 0)
	want := &orgstats.RateLimitStatus{
		Core:   orgstats.Rate{Limit: 5000, Remaining: 4321, Reset: reset},
		Search: orgstats.Rate{Limit: 30, Remaining: 30, Reset: reset},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestForOrg(t *testing.T) {
	s, clients, mux := setup(t)

	ctx := context.Background()
	got, err := s.ForOrg(ctx, "SEEK-Jobs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ctx {
		t.Error("expected context to be unchanged with token auth")
	}

	clients.token = false
	clients.installations = Installations{"SEEK-Jobs": 11}

	installationCalls := 0
	mux.HandleFunc("/app/installations", func(w http.ResponseWriter, r *http.Request) {
		installationCalls++
		fmt.Fprint(w, `[
			{"id":22,"account":{"login":"Other-Org","type":"Organization"}},
			{"id":33,"account":{"login":"someone","type":"User"}}]`)
	})

	tests := []struct {
		org     string
		wantID  int64
		wantErr bool
	}{
		{org: "SEEK-Jobs", wantID: 11},
		{org: "seek-jobs", wantID: 11},
		{org: "other-org", wantID: 22},
		{org: "missing", wantErr: true},
	}

	for _, tt := range tests {
		ctx, err := s.ForOrg(context.Background(), tt.org)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.org)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.org, err)
			continue
		}

		id, ok := InstallationID(ctx)
		if !ok || id != tt.wantID {
			t.Errorf("%s: expected installation %d, got %d", tt.org, tt.wantID, id)
		}
	}

	// Resolved installations are remembered
	if _, err := s.ForOrg(context.Background(), "other-org"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if installationCalls != 2 {
		t.Errorf("expected 2 installation listings, got %d", installationCalls)
	}
}

func TestInstallations(t *testing.T) {
	s, clients, mux := setup(t)

	if _, err := s.Installations(context.Background()); err == nil {
		t.Error("expected error with token auth")
	}

	clients.token = false
	mux.HandleFunc("/app/installations", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":22,"account":{"login":"SEEK-Jobs","type":"Organization"}}]`)
	})

	got, err := s.Installations(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []*orgstats.Installation{{ID: 22, Account: "SEEK-Jobs", Type: "Organization"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}
