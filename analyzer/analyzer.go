// Package analyzer holds the per-company analysis pipeline: resolve the org,
// discover repositories, find the most committed-to one in the window and
// name its top author.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/orgpulse/orgpulse/logger"
)

const (
	errInvalidURL   = "Invalid GitHub URL"
	errNoReposFound = "No repos found"
)

// Fetcher is the remote surface the pipeline needs.
type Fetcher interface {
	ListRepos(ctx context.Context, org string) ([]RepoCandidate, error)
	CountCommits(ctx context.Context, owner, repo string, since time.Time) (int, error)
	TopContributor(ctx context.Context, owner, repo string, since time.Time) (string, error)
}

// ProgressFunc receives milestone messages. It is observability only; it
// never affects control flow and may panic without harming the analysis.
type ProgressFunc func(message string)

type Analyzer struct {
	fetcher     Fetcher
	concurrency int
	log         *logger.Logger
}

func New(fetcher Fetcher, concurrency int) *Analyzer {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Analyzer{
		fetcher:     fetcher,
		concurrency: concurrency,
		log:         logger.Named("analyzer"),
	}
}

// Analyze produces exactly one CompanyResult for the input. Input problems
// (bad URL, empty org) come back inside the result; remote failures during
// discovery or contributor resolution come back as the returned error and
// are the caller's to convert.
func (a *Analyzer) Analyze(ctx context.Context, company CompanyInput, since time.Time, onProgress ProgressFunc) (CompanyResult, error) {
	res := CompanyResult{
		CompanyName:       company.CompanyName,
		GithubOrgURL:      company.GithubOrgURL,
		MostActiveRepo:    NotApplicable,
		MostActiveRepoURL: NotApplicable,
		TopContributor:    NotApplicable,
	}

	org, ok := ExtractOrg(company.GithubOrgURL)
	if !ok {
		res.Error = errInvalidURL
		return res, nil
	}

	a.report(onProgress, fmt.Sprintf("Fetching repositories for %s...", org))
	repos, err := a.fetcher.ListRepos(ctx, org)
	if err != nil {
		return res, err
	}
	if len(repos) == 0 {
		res.Error = errNoReposFound
		return res, nil
	}

	counts := a.countAll(ctx, org, repos, since, onProgress)

	best, bestIdx := 0, -1
	for i, n := range counts {
		if n > best {
			best, bestIdx = n, i
		}
	}
	if bestIdx < 0 {
		// No activity anywhere in the window. Not an error.
		return res, nil
	}

	winner := repos[bestIdx]
	res.MostActiveRepo = winner.Name
	res.MostActiveRepoURL = winner.URL
	res.CommitCount = best
	a.report(onProgress, fmt.Sprintf("Most active repo for %s: %s (%d commits)", company.CompanyName, winner.Name, best))

	top, err := a.fetcher.TopContributor(ctx, org, winner.Name, since)
	if err != nil {
		return res, err
	}
	res.TopContributor = top
	return res, nil
}

// countAll counts commits for every candidate concurrently. A failed count
// is recorded as zero so one bad repository cannot sink the company.
func (a *Analyzer) countAll(ctx context.Context, org string, repos []RepoCandidate, since time.Time, onProgress ProgressFunc) []int {
	counts := make([]int, len(repos))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.concurrency)
	for i, repo := range repos {
		eg.Go(func() error {
			n, err := a.fetcher.CountCommits(egCtx, org, repo.Name, since)
			if err != nil {
				a.log.Warn().Err(err).Str("org", org).Str("repo", repo.Name).Msg("commit count failed, treating as zero")
				n = 0
			}
			counts[i] = n
			a.report(onProgress, fmt.Sprintf("%s/%s: %d commits in window", org, repo.Name, n))
			return nil
		})
	}
	// Workers never return errors; Wait is just the join.
	_ = eg.Wait()
	return counts
}

func (a *Analyzer) report(fn ProgressFunc, msg string) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			a.log.Debug().Interface("panic", r).Msg("progress callback panicked")
		}
	}()
	fn(msg)
}
