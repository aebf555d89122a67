package github

import (
	"context"
	"time"

	"github.com/google/go-github/v74/github"

	"github.com/orgpulse/orgpulse/analyzer"
)

const (
	commitPageSize = 100

	// MaxCommits caps the commit count for any single repository.
	MaxCommits = 500

	// maxContributorPages caps the contributor sample at 5 pages (500
	// commits), independently of MaxCommits.
	maxContributorPages = 5

	unknownAuthor = "unknown"
)

// CountCommits counts commits authored since the cutoff, paging until a
// short page or the cap, whichever comes first.
func (c *Client) CountCommits(ctx context.Context, owner, repo string, since time.Time) (int, error) {
	total := 0
	for page := 1; ; page++ {
		commits, err := c.listCommitPage(ctx, owner, repo, since, page)
		if err != nil {
			return 0, err
		}
		total += len(commits)
		if total >= MaxCommits {
			return MaxCommits, nil
		}
		if len(commits) < commitPageSize {
			return total, nil
		}
	}
}

// TopContributor tallies commit authorship since the cutoff and returns the
// most frequent author. Ties keep whichever author was seen first. Returns
// analyzer.NotApplicable when the window holds no commits.
func (c *Client) TopContributor(ctx context.Context, owner, repo string, since time.Time) (string, error) {
	counts := make(map[string]int)
	var firstSeen []string

	for page := 1; page <= maxContributorPages; page++ {
		commits, err := c.listCommitPage(ctx, owner, repo, since, page)
		if err != nil {
			return "", err
		}
		for _, cm := range commits {
			key := authorKey(cm)
			if _, seen := counts[key]; !seen {
				firstSeen = append(firstSeen, key)
			}
			counts[key]++
		}
		if len(commits) < commitPageSize {
			break
		}
	}

	top, topCount := analyzer.NotApplicable, 0
	for _, author := range firstSeen {
		if counts[author] > topCount {
			top, topCount = author, counts[author]
		}
	}
	return top, nil
}

func (c *Client) listCommitPage(ctx context.Context, owner, repo string, since time.Time, page int) ([]*github.RepositoryCommit, error) {
	return call(ctx, c, "list commits", func(ctx context.Context) ([]*github.RepositoryCommit, *github.Response, error) {
		return c.gh.Repositories.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
			Since: since,
			ListOptions: github.ListOptions{
				PerPage: commitPageSize,
				Page:    page,
			},
		})
	})
}

// authorKey prefers the platform login, then the commit metadata's author
// name, then its committer name.
func authorKey(cm *github.RepositoryCommit) string {
	if cm == nil {
		return unknownAuthor
	}
	if login := cm.GetAuthor().GetLogin(); login != "" {
		return login
	}
	if name := cm.GetCommit().GetAuthor().GetName(); name != "" {
		return name
	}
	if name := cm.GetCommit().GetCommitter().GetName(); name != "" {
		return name
	}
	return unknownAuthor
}
