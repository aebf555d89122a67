// Package github wraps the GitHub REST API with the rate-limit handling and
// capped pagination the analyses rely on.
package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"

	"github.com/orgpulse/orgpulse/logger"
	"github.com/orgpulse/orgpulse/ratelimit"
)

const (
	// Retry budgets per call. Primary is the hourly quota; secondary is
	// GitHub's abuse/burst detection, which wants longer pauses, so it
	// gets fewer retries.
	maxPrimaryRetries   = 2
	maxSecondaryRetries = 1
)

// RemoteError is a GitHub API failure that survived the retry policy.
type RemoteError struct {
	Status  int
	Message string
	err     error
}

func (e *RemoteError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("github: %s (status %d)", e.Message, e.Status)
	}
	return "github: " + e.Message
}

func (e *RemoteError) Unwrap() error { return e.err }

// Client is constructed once per batch from the request token and shared
// read-only across that batch's pipelines.
type Client struct {
	gh      *github.Client
	limiter *ratelimit.Limiter
	cache   RepoCache
	log     *logger.Logger
}

func NewClient(token string, limiter *ratelimit.Limiter, cache RepoCache, timeout time.Duration) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = timeout
	return &Client{
		gh:      github.NewClient(httpClient),
		limiter: limiter,
		cache:   cache,
		log:     logger.Named("github"),
	}
}

// call runs one API operation under the pacing limiter and the retry policy:
// primary rate limits retry up to maxPrimaryRetries waiting for the reported
// reset, secondary up to maxSecondaryRetries waiting the suggested delay,
// everything else propagates immediately.
func call[T any](ctx context.Context, c *Client, op string, fn func(ctx context.Context) (T, *github.Response, error)) (T, error) {
	var zero T
	primaryRetries, secondaryRetries := 0, 0
	for {
		if err := c.limiter.WaitGithub(ctx); err != nil {
			return zero, err
		}
		out, _, err := fn(ctx)
		if err == nil {
			return out, nil
		}

		var rateErr *github.RateLimitError
		var abuseErr *github.AbuseRateLimitError
		switch {
		case errors.As(err, &rateErr):
			wait := time.Until(rateErr.Rate.Reset.Time)
			c.log.Warn().
				Str("op", op).
				Int("retries", primaryRetries).
				Dur("wait", wait).
				Msg("primary rate limit hit")
			if primaryRetries >= maxPrimaryRetries {
				return zero, wrapRemote(err)
			}
			primaryRetries++
			if err := sleepCtx(ctx, wait); err != nil {
				return zero, err
			}
		case errors.As(err, &abuseErr):
			wait := abuseErr.GetRetryAfter()
			c.log.Warn().
				Str("op", op).
				Int("retries", secondaryRetries).
				Dur("wait", wait).
				Msg("secondary rate limit hit")
			if secondaryRetries >= maxSecondaryRetries {
				return zero, wrapRemote(err)
			}
			secondaryRetries++
			if err := sleepCtx(ctx, wait); err != nil {
				return zero, err
			}
		default:
			return zero, wrapRemote(err)
		}
	}
}

func wrapRemote(err error) error {
	status := 0
	var errResp *github.ErrorResponse
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	switch {
	case errors.As(err, &errResp):
		if errResp.Response != nil {
			status = errResp.Response.StatusCode
		}
	case errors.As(err, &rateErr):
		if rateErr.Response != nil {
			status = rateErr.Response.StatusCode
		}
	case errors.As(err, &abuseErr):
		if abuseErr.Response != nil {
			status = abuseErr.Response.StatusCode
		}
	}
	return &RemoteError{Status: status, Message: err.Error(), err: err}
}

func isNotFound(err error) bool {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Status == 404
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
