// Package scheduler fans a batch of company analyses out in fixed-size
// windows and turns every settle into an ordered event stream.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/orgpulse/orgpulse/analyzer"
	"github.com/orgpulse/orgpulse/logger"
)

// Pipeline is the per-company analysis the scheduler drives.
type Pipeline interface {
	Analyze(ctx context.Context, company analyzer.CompanyInput, since time.Time, onProgress analyzer.ProgressFunc) (analyzer.CompanyResult, error)
}

type Scheduler struct {
	pipeline   Pipeline
	windowSize int
	log        *logger.Logger
}

func New(pipeline Pipeline, windowSize int) *Scheduler {
	if windowSize <= 0 {
		windowSize = 5
	}
	return &Scheduler{
		pipeline:   pipeline,
		windowSize: windowSize,
		log:        logger.Named("scheduler"),
	}
}

// Run processes companies in windows: entries within a window run
// concurrently, windows run back to back, and every entry settles into
// exactly one result or error event. The terminal done event always carries
// completed == total. Run returns only when the whole batch has settled.
func (s *Scheduler) Run(ctx context.Context, companies []analyzer.CompanyInput, since time.Time, emit Emitter) {
	total := len(companies)
	var mu sync.Mutex
	completed := 0

	// Settle-order emission: the counter bump and the event write stay
	// under one lock so completed is monotone on the wire.
	settle := func(company analyzer.CompanyInput, res analyzer.CompanyResult, err error) {
		if err != nil {
			s.log.Warn().Err(err).Str("company", company.CompanyName).Msg("analysis failed")
			res = analyzer.CompanyResult{
				CompanyName:       company.CompanyName,
				GithubOrgURL:      company.GithubOrgURL,
				MostActiveRepo:    analyzer.NotApplicable,
				MostActiveRepoURL: analyzer.NotApplicable,
				TopContributor:    analyzer.NotApplicable,
				Error:             err.Error(),
			}
		}

		typ := EventResult
		msg := fmt.Sprintf("Finished %s", company.CompanyName)
		if res.Error != "" {
			typ = EventError
			msg = fmt.Sprintf("%s: %s", company.CompanyName, res.Error)
		}

		mu.Lock()
		defer mu.Unlock()
		completed++
		emit(ProgressEvent{
			Type:      typ,
			Company:   company.CompanyName,
			Message:   msg,
			Result:    &res,
			Completed: completed,
			Total:     total,
		})
	}

	for start := 0; start < total; start += s.windowSize {
		end := min(start+s.windowSize, total)
		var wg sync.WaitGroup
		for _, company := range companies[start:end] {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := s.analyzeOne(ctx, company, since, emit)
				settle(company, res, err)
			}()
		}
		wg.Wait()
	}

	emit(ProgressEvent{
		Type:      EventDone,
		Message:   "Analysis complete",
		Completed: total,
		Total:     total,
	})
}

// analyzeOne shields the batch from a panicking pipeline by converting the
// panic into a settled error.
func (s *Scheduler) analyzeOne(ctx context.Context, company analyzer.CompanyInput, since time.Time, emit Emitter) (res analyzer.CompanyResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analysis panic: %v", r)
		}
	}()
	onProgress := func(msg string) {
		emit(ProgressEvent{
			Type:    EventProgress,
			Company: company.CompanyName,
			Message: msg,
		})
	}
	return s.pipeline.Analyze(ctx, company, since, onProgress)
}
