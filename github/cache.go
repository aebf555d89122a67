package github

import (
	"context"
	"time"

	"github.com/orgpulse/orgpulse/analyzer"
	"github.com/orgpulse/orgpulse/cache"
)

// RepoCache stores repository listings keyed by org login. Implementations
// are best-effort; a miss or failure just means a live API call.
type RepoCache interface {
	Get(ctx context.Context, org string) ([]analyzer.RepoCandidate, bool)
	Set(ctx context.Context, org string, repos []analyzer.RepoCandidate)
}

type lruRepoCache struct {
	c   *cache.Cache[[]analyzer.RepoCandidate]
	ttl time.Duration
}

// NewLRURepoCache is the default in-process RepoCache.
func NewLRURepoCache(size int, ttl time.Duration) (RepoCache, error) {
	c, err := cache.New[[]analyzer.RepoCandidate](size)
	if err != nil {
		return nil, err
	}
	return &lruRepoCache{c: c, ttl: ttl}, nil
}

func (l *lruRepoCache) Get(_ context.Context, org string) ([]analyzer.RepoCandidate, bool) {
	return l.c.Get(org)
}

func (l *lruRepoCache) Set(_ context.Context, org string, repos []analyzer.RepoCandidate) {
	l.c.Set(org, repos, l.ttl)
}
