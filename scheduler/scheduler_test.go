package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgpulse/orgpulse/analyzer"
)

// pipelineFunc adapts a function to the Pipeline interface.
type pipelineFunc func(ctx context.Context, company analyzer.CompanyInput, since time.Time, onProgress analyzer.ProgressFunc) (analyzer.CompanyResult, error)

func (f pipelineFunc) Analyze(ctx context.Context, company analyzer.CompanyInput, since time.Time, onProgress analyzer.ProgressFunc) (analyzer.CompanyResult, error) {
	return f(ctx, company, since, onProgress)
}

func companies(n int) []analyzer.CompanyInput {
	out := make([]analyzer.CompanyInput, n)
	for i := range out {
		out[i] = analyzer.CompanyInput{
			CompanyName:  fmt.Sprintf("Co%d", i),
			GithubOrgURL: fmt.Sprintf("https://github.com/co%d", i),
		}
	}
	return out
}

func okResult(company analyzer.CompanyInput) analyzer.CompanyResult {
	return analyzer.CompanyResult{
		CompanyName:       company.CompanyName,
		GithubOrgURL:      company.GithubOrgURL,
		MostActiveRepo:    "repo",
		MostActiveRepoURL: company.GithubOrgURL + "/repo",
		CommitCount:       3,
		TopContributor:    "alice",
	}
}

// collect runs the scheduler and returns every emitted event in order.
func collect(t *testing.T, s *Scheduler, inputs []analyzer.CompanyInput) []ProgressEvent {
	t.Helper()
	var mu sync.Mutex
	var events []ProgressEvent
	s.Run(context.Background(), inputs, time.Now(), func(ev ProgressEvent) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})
	return events
}

func TestRun_EveryInputSettlesOnce(t *testing.T) {
	inputs := companies(7)
	s := New(pipelineFunc(func(_ context.Context, company analyzer.CompanyInput, _ time.Time, _ analyzer.ProgressFunc) (analyzer.CompanyResult, error) {
		return okResult(company), nil
	}), 5)

	events := collect(t, s, inputs)

	terminal := 0
	for _, ev := range events {
		if ev.Type == EventResult || ev.Type == EventError {
			terminal++
		}
	}
	assert.Equal(t, 7, terminal)

	last := events[len(events)-1]
	assert.Equal(t, EventDone, last.Type)
	assert.Equal(t, 7, last.Completed)
	assert.Equal(t, 7, last.Total)
}

func TestRun_CompletedIsMonotone(t *testing.T) {
	inputs := companies(9)
	s := New(pipelineFunc(func(_ context.Context, company analyzer.CompanyInput, _ time.Time, _ analyzer.ProgressFunc) (analyzer.CompanyResult, error) {
		return okResult(company), nil
	}), 5)

	events := collect(t, s, inputs)

	prev := 0
	for _, ev := range events {
		if ev.Type == EventProgress {
			continue
		}
		assert.GreaterOrEqual(t, ev.Completed, prev)
		assert.Equal(t, 9, ev.Total, "total is fixed at submission time")
		prev = ev.Completed
	}
	assert.Equal(t, 9, prev)
}

func TestRun_WindowsAreSequential(t *testing.T) {
	inputs := companies(8)
	firstWindow := map[string]bool{"Co0": true, "Co1": true, "Co2": true, "Co3": true, "Co4": true}

	s := New(pipelineFunc(func(_ context.Context, company analyzer.CompanyInput, _ time.Time, _ analyzer.ProgressFunc) (analyzer.CompanyResult, error) {
		return okResult(company), nil
	}), 5)

	events := collect(t, s, inputs)

	var settleOrder []string
	for _, ev := range events {
		if ev.Type == EventResult {
			settleOrder = append(settleOrder, ev.Company)
		}
	}
	require.Len(t, settleOrder, 8)
	for _, name := range settleOrder[:5] {
		assert.True(t, firstWindow[name], "%s settled in the first window", name)
	}
	for _, name := range settleOrder[5:] {
		assert.False(t, firstWindow[name], "%s belongs to the second window", name)
	}
}

func TestRun_PipelineErrorIsSynthesized(t *testing.T) {
	inputs := companies(2)
	s := New(pipelineFunc(func(_ context.Context, company analyzer.CompanyInput, _ time.Time, _ analyzer.ProgressFunc) (analyzer.CompanyResult, error) {
		if company.CompanyName == "Co1" {
			return analyzer.CompanyResult{}, errors.New("discovery exploded")
		}
		return okResult(company), nil
	}), 5)

	events := collect(t, s, inputs)

	var errEvents []ProgressEvent
	for _, ev := range events {
		if ev.Type == EventError {
			errEvents = append(errEvents, ev)
		}
	}
	require.Len(t, errEvents, 1)
	res := errEvents[0].Result
	require.NotNil(t, res)
	assert.Equal(t, "Co1", res.CompanyName)
	assert.Equal(t, "https://github.com/co1", res.GithubOrgURL)
	assert.Equal(t, "discovery exploded", res.Error)
	assert.Equal(t, analyzer.NotApplicable, res.MostActiveRepo)
	assert.Zero(t, res.CommitCount)

	assert.Equal(t, EventDone, events[len(events)-1].Type, "a failing company never aborts the batch")
}

func TestRun_CapturedErrorResultBecomesErrorEvent(t *testing.T) {
	inputs := companies(1)
	s := New(pipelineFunc(func(_ context.Context, company analyzer.CompanyInput, _ time.Time, _ analyzer.ProgressFunc) (analyzer.CompanyResult, error) {
		return analyzer.CompanyResult{
			CompanyName:       company.CompanyName,
			GithubOrgURL:      company.GithubOrgURL,
			MostActiveRepo:    analyzer.NotApplicable,
			MostActiveRepoURL: analyzer.NotApplicable,
			TopContributor:    analyzer.NotApplicable,
			Error:             "Invalid GitHub URL",
		}, nil
	}), 5)

	events := collect(t, s, inputs)
	require.Len(t, events, 2)
	assert.Equal(t, EventError, events[0].Type)
	assert.Equal(t, "Invalid GitHub URL", events[0].Result.Error)
}

func TestRun_PanicBecomesErrorResult(t *testing.T) {
	inputs := companies(1)
	s := New(pipelineFunc(func(_ context.Context, _ analyzer.CompanyInput, _ time.Time, _ analyzer.ProgressFunc) (analyzer.CompanyResult, error) {
		panic("pipeline bug")
	}), 5)

	events := collect(t, s, inputs)
	require.Len(t, events, 2)
	assert.Equal(t, EventError, events[0].Type)
	assert.Contains(t, events[0].Result.Error, "pipeline bug")
	assert.Equal(t, EventDone, events[1].Type)
}

func TestRun_ProgressEventsCarryCompany(t *testing.T) {
	inputs := companies(1)
	s := New(pipelineFunc(func(_ context.Context, company analyzer.CompanyInput, _ time.Time, onProgress analyzer.ProgressFunc) (analyzer.CompanyResult, error) {
		onProgress("step one")
		onProgress("step two")
		return okResult(company), nil
	}), 5)

	events := collect(t, s, inputs)

	var progress []ProgressEvent
	for _, ev := range events {
		if ev.Type == EventProgress {
			progress = append(progress, ev)
		}
	}
	require.Len(t, progress, 2)
	assert.Equal(t, "Co0", progress[0].Company)
	assert.Equal(t, "step one", progress[0].Message)
	assert.Equal(t, "step two", progress[1].Message)
}

func TestRun_EmptyBatchStillEmitsDone(t *testing.T) {
	s := New(pipelineFunc(func(_ context.Context, company analyzer.CompanyInput, _ time.Time, _ analyzer.ProgressFunc) (analyzer.CompanyResult, error) {
		return okResult(company), nil
	}), 5)

	events := collect(t, s, nil)
	require.Len(t, events, 1)
	assert.Equal(t, EventDone, events[0].Type)
	assert.Zero(t, events[0].Completed)
	assert.Zero(t, events[0].Total)
}
