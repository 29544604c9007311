package github

import (
	"context"
	"fmt"
	"net/url"
	"reflect"

	"github.com/google/go-github/github"
	"github.com/google/go-querystring/query"
)

// workflowList is a page of GitHub Actions workflows of a repository.
type workflowList struct {
	TotalCount int `json:"total_count"`
	Workflows  []struct {
		Name  string `json:"name"`
		State string `json:"state"`
		Path  string `json:"path"`
	} `json:"workflows"`
}

// workflowRunList is a page of GitHub Actions workflow runs of a repository.
type workflowRunList struct {
	TotalCount   int `json:"total_count"`
	WorkflowRuns []struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	} `json:"workflow_runs"`
}

// collaborator is a repository collaborator and their permissions.
type collaborator struct {
	Login       string          `json:"login"`
	Permissions map[string]bool `json:"permissions"`
}

// listWorkflows lists the GitHub Actions workflows of a repository. The Actions API is not
// covered by github.com/google/go-github/github so the request is made directly.
func (s *service) listWorkflows(ctx context.Context, orgName, repoName string, opt *github.ListOptions) (*workflowList, *github.Response, error) {
	workflows := new(workflowList)
	resp, err := s.get(ctx, fmt.Sprintf("repos/%v/%v/actions/workflows", orgName, repoName), opt, workflows)
	if err != nil {
		return nil, resp, err
	}

	return workflows, resp, nil
}

// listWorkflowRuns lists the most recent GitHub Actions workflow runs of a repository.
func (s *service) listWorkflowRuns(ctx context.Context, orgName, repoName string, opt *github.ListOptions) (*workflowRunList, *github.Response, error) {
	runs := new(workflowRunList)
	resp, err := s.get(ctx, fmt.Sprintf("repos/%v/%v/actions/runs", orgName, repoName), opt, runs)
	if err != nil {
		return nil, resp, err
	}

	return runs, resp, nil
}

// listCollaborators is a variant of ListCollaborators in github.com/google/go-github/github/repos_collaborators.go
// that decodes the permissions each collaborator holds on the repository.
func (s *service) listCollaborators(ctx context.Context, orgName, repoName string, opt *github.ListOptions) ([]*collaborator, *github.Response, error) {
	var collaborators []*collaborator
	resp, err := s.get(ctx, fmt.Sprintf("repos/%v/%v/collaborators", orgName, repoName), opt, &collaborators)
	if err != nil {
		return nil, resp, err
	}

	return collaborators, resp, nil
}

// get sends a GET request for the specified path and options and decodes the response into v.
func (s *service) get(ctx context.Context, path string, opt interface{}, v interface{}) (*github.Response, error) {
	v3, err := s.clients.V3Client(ctx)
	if err != nil {
		return nil, err
	}

	u, err := addOptions(path, opt)
	if err != nil {
		return nil, err
	}

	req, err := v3.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}

	return v3.Do(ctx, req, v)
}

// addOptions is a copy of addOptions in github.com/google/go-github/github/github.go
// which we need to support the requests above but which is private.
func addOptions(s string, opt interface{}) (string, error) {
	v := reflect.ValueOf(opt)
	if v.Kind() == reflect.Ptr && v.IsNil() {
		return s, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return s, err
	}

	qs, err := query.Values(opt)
	if err != nil {
		return s, err
	}

	u.RawQuery = qs.Encode()
	return u.String(), nil
}
