package orgstats

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a GitHub resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden is returned when the credentials are not permitted to access a resource.
	ErrForbidden = errors.New("access forbidden")
)

// RateLimitError is the error returned when GitHub kept rejecting calls due to rate limiting.
type RateLimitError struct {
	Reset time.Time // When the limit resets, zero if unknown
	Err   error
}

// Error implements error.
func (e *RateLimitError) Error() string {
	if e.Reset.IsZero() {
		return fmt.Sprintf("rate limit exceeded: %v", e.Err)
	}
	return fmt.Sprintf("rate limit exceeded until %s: %v", e.Reset.Format(time.RFC3339), e.Err)
}

// Cause returns the underlying error.
func (e *RateLimitError) Cause() error {
	return e.Err
}

// ErrorType categorises errors recorded by an ErrorTracker.
type ErrorType string

const (
	ErrorTypeAPI        ErrorType = "API_ERROR"
	ErrorTypePermission ErrorType = "PERMISSION_ERROR"
	ErrorTypeRateLimit  ErrorType = "RATE_LIMIT_ERROR"
)

// ErrorTypeOf returns the category of the specified error.
func ErrorTypeOf(err error) ErrorType {
	for err != nil {
		if _, ok := err.(*RateLimitError); ok {
			return ErrorTypeRateLimit
		}
		if err == ErrForbidden {
			return ErrorTypePermission
		}

		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return ErrorTypeAPI
}

// causer is implemented by errors created with github.com/pkg/errors.
type causer interface {
	Cause() error
}

// ErrorRecord is a single error recorded while processing a repository.
type ErrorRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Repo      string    `json:"repo"`
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Context   string    `json:"context"`
}

// ErrorSummary aggregates the errors recorded by an ErrorTracker.
type ErrorSummary struct {
	TotalErrors      int               `json:"total_errors"`
	ErrorsByCategory map[ErrorType]int `json:"errors_by_category"`
	ReposWithErrors  int               `json:"repos_with_errors"`
	ErrorRate        float64           `json:"error_rate"`
}

// ErrorTracker records the errors encountered while processing repositories.
type ErrorTracker struct {
	mu      sync.Mutex
	records []*ErrorRecord
	byRepo  map[string][]*ErrorRecord
	now     func() time.Time
}

// NewErrorTracker returns an empty ErrorTracker.
func NewErrorTracker() *ErrorTracker {
	return &ErrorTracker{byRepo: map[string][]*ErrorRecord{}, now: time.Now}
}

// AddError records an error for the specified repo.
func (t *ErrorTracker) AddError(repoName string, errorType ErrorType, message, context string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec := &ErrorRecord{
		Timestamp: t.now(),
		Repo:      repoName,
		Type:      errorType,
		Message:   message,
		Context:   context,
	}
	t.records = append(t.records, rec)
	t.byRepo[repoName] = append(t.byRepo[repoName], rec)
}

// Summary returns the aggregate view of all recorded errors. The error rate is the mean
// number of errors per repository that had at least one error.
func (t *ErrorTracker) Summary() ErrorSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	byCategory := map[ErrorType]int{}
	for _, r := range t.records {
		byCategory[r.Type]++
	}

	repos := len(t.byRepo)
	denominator := repos
	if denominator < 1 {
		denominator = 1
	}

	return ErrorSummary{
		TotalErrors:      len(t.records),
		ErrorsByCategory: byCategory,
		ReposWithErrors:  repos,
		ErrorRate:        float64(len(t.records)) / float64(denominator),
	}
}

// ErrorsForRepo returns the errors recorded for the specified repo.
func (t *ErrorTracker) ErrorsForRepo(repoName string) []*ErrorRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]*ErrorRecord(nil), t.byRepo[repoName]...)
}

// Errors returns all recorded errors in the order they were added.
func (t *ErrorTracker) Errors() []*ErrorRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]*ErrorRecord(nil), t.records...)
}

// Len returns the number of recorded errors.
func (t *ErrorTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.records)
}
