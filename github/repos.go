package github

import (
	"context"

	"github.com/google/go-github/v74/github"

	"github.com/orgpulse/orgpulse/analyzer"
)

// repoPageSize bounds discovery to the 30 most recently pushed repositories;
// larger orgs are only partially considered.
const repoPageSize = 30

// ListRepos lists an org's source repositories, most recently pushed first.
// When the org lookup 404s the login is retried as a user account; the org
// request excludes forks server-side (type=sources), the user request has no
// such filter so forks are dropped here.
func (c *Client) ListRepos(ctx context.Context, org string) ([]analyzer.RepoCandidate, error) {
	if c.cache != nil {
		if repos, ok := c.cache.Get(ctx, org); ok {
			c.log.Debug().Str("org", org).Int("repos", len(repos)).Msg("repo listing served from cache")
			return repos, nil
		}
	}

	fromUser := false
	repos, err := call(ctx, c, "list org repos", func(ctx context.Context) ([]*github.Repository, *github.Response, error) {
		return c.gh.Repositories.ListByOrg(ctx, org, &github.RepositoryListByOrgOptions{
			Type:        "sources",
			Sort:        "pushed",
			Direction:   "desc",
			ListOptions: github.ListOptions{PerPage: repoPageSize},
		})
	})
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		fromUser = true
		repos, err = call(ctx, c, "list user repos", func(ctx context.Context) ([]*github.Repository, *github.Response, error) {
			return c.gh.Repositories.ListByUser(ctx, org, &github.RepositoryListByUserOptions{
				Sort:        "pushed",
				Direction:   "desc",
				ListOptions: github.ListOptions{PerPage: repoPageSize},
			})
		})
		if err != nil {
			return nil, err
		}
	}

	out := make([]analyzer.RepoCandidate, 0, len(repos))
	for _, r := range repos {
		if r == nil {
			continue
		}
		if fromUser && r.GetFork() {
			continue
		}
		out = append(out, analyzer.RepoCandidate{
			Name:   r.GetName(),
			URL:    r.GetHTMLURL(),
			IsFork: r.GetFork(),
		})
	}

	if c.cache != nil {
		c.cache.Set(ctx, org, out)
	}
	return out, nil
}
