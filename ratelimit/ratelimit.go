// Package ratelimit paces outbound GitHub API calls so a batch of concurrent
// analyses stays under the configured requests-per-minute budget.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

type Limiter struct {
	github *rate.Limiter
}

func New(githubReqPerMin int) *Limiter {
	return &Limiter{
		github: rate.NewLimiter(rate.Limit(float64(githubReqPerMin)/60.0), githubReqPerMin),
	}
}

func (l *Limiter) WaitGithub(ctx context.Context) error {
	return l.github.Wait(ctx)
}
