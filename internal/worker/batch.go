package worker

import (
	"context"

	"github.com/ppiankov/lacuna/internal/model"
)

// TrialRunner defines the interface for executing one trial
type TrialRunner interface {
	RunTrial(ctx context.Context, req TrialRequest) model.TrialResult
}

// TrialRequest identifies one (question, position) trial
type TrialRequest struct {
	QA       model.QAItem
	Position int
}

// TrialJob wraps a trial request for the worker pool
type TrialJob struct {
	Runner  TrialRunner
	Request TrialRequest
}

// Execute runs the trial job
func (j *TrialJob) Execute(ctx context.Context) Result {
	return &TrialJobResult{Trial: j.Runner.RunTrial(ctx, j.Request)}
}

// TrialJobResult carries one trial's result through the pool
type TrialJobResult struct {
	Trial model.TrialResult
}

// GetError reports nothing: a failed inference call is recorded on the trial
// itself and never aborts the batch.
func (r *TrialJobResult) GetError() error {
	return nil
}

// BatchProcessor runs trials concurrently at a bounded width
type BatchProcessor struct {
	runner      TrialRunner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner TrialRunner, concurrency int) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessTrials runs all trial requests and returns their results. Trials
// are independent, so completion order carries no meaning; callers bucket
// and sort the results themselves.
func (b *BatchProcessor) ProcessTrials(ctx context.Context, requests []TrialRequest) []model.TrialResult {
	if len(requests) == 0 {
		return nil
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, req := range requests {
		select {
		case <-ctx.Done():
			pool.Shutdown()
			return nil
		default:
		}
		pool.Submit(&TrialJob{Runner: b.runner, Request: req})
	}

	results := pool.Wait()

	trials := make([]model.TrialResult, 0, len(results))
	for _, res := range results {
		if tr, ok := res.(*TrialJobResult); ok {
			trials = append(trials, tr.Trial)
		}
	}
	return trials
}
