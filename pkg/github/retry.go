package github

import (
	"context"
	"net/http"
	"sync"
	"time"

	set "github.com/deckarep/golang-set"
	"github.com/google/go-github/github"
	"github.com/pkg/errors"
	"github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog"

	"github.com/SEEK-Jobs/orgstats/pkg/orgstats"
)

const (
	// maxRetries is the number of times a failed call is retried
	maxRetries = 3
	// backoffBase is the wait before the first retry, doubling for each subsequent retry
	backoffBase = time.Second
	// rateLimitBuffer is the number of remaining calls below which calls wait for the rate limit reset
	rateLimitBuffer = 100
	// rateLimitResetPadding is added to the reset time when waiting for the rate limit to reset
	rateLimitResetPadding = 10 * time.Second
	// defaultRateLimitWait is the wait when GitHub doesn't say how long to back off for
	defaultRateLimitWait = 60 * time.Second
)

// retrier calls GitHub, waiting out rate limits and retrying transient failures. Operations
// that GitHub refused with 403 Forbidden are remembered and not attempted again.
type retrier struct {
	maxRetries int
	backoff    time.Duration
	buffer     int
	sleep      func(ctx context.Context, d time.Duration) error
	now        func() time.Time

	forbidden set.Set

	retries       metrics.Counter
	rateLimitWait metrics.Counter
	forbiddenHits metrics.Counter

	mu   sync.Mutex
	rate github.Rate // Core rate limit reported by the last response
}

// newRetrier returns a retrier that records its activity in the specified registry.
func newRetrier(registry metrics.Registry) *retrier {
	return &retrier{
		maxRetries:    maxRetries,
		backoff:       backoffBase,
		buffer:        rateLimitBuffer,
		sleep:         sleep,
		now:           time.Now,
		forbidden:     set.NewSet(),
		retries:       metrics.GetOrRegisterCounter("github.retries", registry),
		rateLimitWait: metrics.GetOrRegisterCounter("github.rate_limit_waits", registry),
		forbiddenHits: metrics.GetOrRegisterCounter("github.forbidden", registry),
	}
}

// call invokes fn until it succeeds or fails permanently. The key identifies the operation
// and its arguments, e.g. "languages:org/repo". Missing resources are reported as
// orgstats.ErrNotFound, refused access as orgstats.ErrForbidden and exhausted rate limits
// as *orgstats.RateLimitError.
func (r *retrier) call(ctx context.Context, key string, fn func() (*github.Response, error)) error {
	log := zerolog.Ctx(ctx)

	if r.forbidden.Contains(key) {
		return errors.Wrapf(orgstats.ErrForbidden, "%s previously refused", key)
	}

	for attempt := 0; ; attempt++ {
		if err := r.throttle(ctx); err != nil {
			return err
		}

		resp, err := fn()
		r.observe(resp)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var wait time.Duration
		switch e := errors.Cause(err).(type) {
		case *github.RateLimitError:
			if attempt >= r.maxRetries {
				return &orgstats.RateLimitError{Reset: e.Rate.Reset.Time, Err: errors.Wrap(err, key)}
			}
			wait = r.untilReset(e.Rate.Reset.Time)
			r.rateLimitWait.Inc(1)
			log.Warn().Msgf("Rate limit exceeded calling %s, waiting %s", key, wait)

		case *github.AbuseRateLimitError:
			if attempt >= r.maxRetries {
				return &orgstats.RateLimitError{Err: errors.Wrap(err, key)}
			}
			wait = defaultRateLimitWait
			if e.RetryAfter != nil {
				wait = *e.RetryAfter
			}
			r.rateLimitWait.Inc(1)
			log.Warn().Msgf("Secondary rate limit hit calling %s, waiting %s", key, wait)

		case *github.ErrorResponse:
			status := 0
			if e.Response != nil {
				status = e.Response.StatusCode
			}

			switch {
			case status == http.StatusNotFound, status == http.StatusConflict:
				// 409 Conflict is returned for the commits and contents of empty repositories
				return errors.Wrapf(orgstats.ErrNotFound, "%s", key)
			case status == http.StatusForbidden:
				r.forbidden.Add(key)
				r.forbiddenHits.Inc(1)
				return errors.Wrapf(orgstats.ErrForbidden, "%s: %s", key, e.Message)
			case status < http.StatusInternalServerError:
				return errors.Wrap(err, key)
			}

			if wait, err = r.backoffFor(key, attempt, err); err != nil {
				return err
			}

		default:
			if wait, err = r.backoffFor(key, attempt, err); err != nil {
				return err
			}
		}

		r.retries.Inc(1)
		log.Debug().Msgf("Retrying %s in %s (attempt %d/%d)", key, wait, attempt+1, r.maxRetries)
		if err := r.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// backoffFor returns the wait before retrying after the specified attempt, or an error once
// all retries are used.
func (r *retrier) backoffFor(key string, attempt int, err error) (time.Duration, error) {
	if attempt >= r.maxRetries {
		return 0, errors.Wrapf(err, "%s failed after %d attempts", key, attempt+1)
	}
	return r.backoff << uint(attempt), nil
}

// untilReset returns the wait until the specified rate limit reset time.
func (r *retrier) untilReset(reset time.Time) time.Duration {
	if reset.IsZero() {
		return defaultRateLimitWait
	}

	wait := reset.Sub(r.now()) + time.Second
	if wait < time.Second {
		return time.Second
	}
	return wait
}

// observe records the rate limit reported by the response.
func (r *retrier) observe(resp *github.Response) {
	if resp == nil || resp.Rate.Limit == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rate = resp.Rate
}

// throttle waits for the rate limit to reset when the last response reported fewer
// remaining calls than the buffer.
func (r *retrier) throttle(ctx context.Context) error {
	r.mu.Lock()
	rate := r.rate
	r.mu.Unlock()

	now := r.now()
	if rate.Limit == 0 || rate.Remaining >= r.buffer || !rate.Reset.Time.After(now) {
		return nil
	}

	wait := rate.Reset.Time.Sub(now) + rateLimitResetPadding
	zerolog.Ctx(ctx).Warn().Msgf("Only %d API calls remaining, waiting %s for the rate limit to reset", rate.Remaining, wait.Round(time.Second))
	r.rateLimitWait.Inc(1)

	if err := r.sleep(ctx, wait); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rate = github.Rate{}

	return nil
}

// sleep waits for the specified duration or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
