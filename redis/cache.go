package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orgpulse/orgpulse/analyzer"
	"github.com/orgpulse/orgpulse/logger"
)

const repoKeyPrefix = "repos:"

// RepoCache shares repository listings across instances. Reads and writes
// are best-effort: any Redis failure degrades to a live API call.
type RepoCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewRepoCache(rdb *redis.Client, ttl time.Duration) *RepoCache {
	return &RepoCache{rdb: rdb, ttl: ttl, log: logger.Named("redis-cache")}
}

func (c *RepoCache) Get(ctx context.Context, org string) ([]analyzer.RepoCandidate, bool) {
	raw, err := c.rdb.Get(ctx, repoKeyPrefix+org).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Debug().Err(err).Str("org", org).Msg("repo cache read failed")
		}
		return nil, false
	}
	var repos []analyzer.RepoCandidate
	if err := json.Unmarshal(raw, &repos); err != nil {
		c.log.Debug().Err(err).Str("org", org).Msg("repo cache entry corrupt")
		return nil, false
	}
	return repos, true
}

func (c *RepoCache) Set(ctx context.Context, org string, repos []analyzer.RepoCandidate) {
	raw, err := json.Marshal(repos)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, repoKeyPrefix+org, raw, c.ttl).Err(); err != nil {
		c.log.Debug().Err(err).Str("org", org).Msg("repo cache write failed")
	}
}
