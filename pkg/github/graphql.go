package github

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/go-github/github"
)

// graphQLStatus matches the HTTP status reported by githubv4 for non-200 responses.
var graphQLStatus = regexp.MustCompile(`non-200 OK status code: (\d{3})`)

// asRESTError converts an error returned by the GraphQL client into the go-github error
// type the retrier classifies: rate limits become rate limit errors and HTTP failures become
// error responses carrying the status. Other errors are returned unchanged.
func asRESTError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	lower := strings.ToLower(msg)

	status := 0
	if m := graphQLStatus.FindStringSubmatch(msg); m != nil {
		status, _ = strconv.Atoi(m[1])
	}

	// GraphQL doesn't report when the limit resets
	switch {
	case strings.Contains(lower, "secondary rate limit") || strings.Contains(lower, "abuse"):
		return &github.AbuseRateLimitError{Response: graphQLResponse(http.StatusForbidden), Message: msg}
	case strings.Contains(lower, "rate limit") || strings.Contains(msg, "RATE_LIMITED"):
		return &github.RateLimitError{Response: graphQLResponse(http.StatusForbidden), Message: msg}
	case status != 0:
		return &github.ErrorResponse{Response: graphQLResponse(status), Message: msg}
	}

	return err
}

// graphQLResponse returns a response with the specified status for a GraphQL request.
func graphQLResponse(status int) *http.Response {
	return &http.Response{StatusCode: status, Request: &http.Request{Method: http.MethodPost}}
}
