package worker

import (
	"context"
	"testing"

	"github.com/ppiankov/lacuna/internal/model"
)

type fakeRunner struct{}

func (r *fakeRunner) RunTrial(ctx context.Context, req TrialRequest) model.TrialResult {
	return model.TrialResult{
		QAItemID: req.QA.ID,
		Position: req.Position,
		Correct:  req.Position == 1, // deterministic fake outcome
	}
}

func TestBatchProcessor_ProcessTrials(t *testing.T) {
	requests := []TrialRequest{
		{QA: model.QAItem{ID: "qa-1"}, Position: 1},
		{QA: model.QAItem{ID: "qa-2"}, Position: 1},
		{QA: model.QAItem{ID: "qa-1"}, Position: 50},
		{QA: model.QAItem{ID: "qa-2"}, Position: 50},
	}

	for _, concurrency := range []int{1, 4} {
		trials := NewBatchProcessor(&fakeRunner{}, concurrency).ProcessTrials(context.Background(), requests)

		if len(trials) != len(requests) {
			t.Fatalf("concurrency=%d: got %d trials, want %d", concurrency, len(trials), len(requests))
		}

		buckets := model.BucketTrials(trials)
		if len(buckets) != 2 {
			t.Fatalf("concurrency=%d: got %d buckets, want 2", concurrency, len(buckets))
		}
		if buckets[0].Correct != 2 || buckets[1].Correct != 0 {
			t.Errorf("concurrency=%d: unexpected bucket tallies %+v", concurrency, buckets)
		}
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	trials := NewBatchProcessor(&fakeRunner{}, 2).ProcessTrials(context.Background(), nil)
	if len(trials) != 0 {
		t.Errorf("got %d trials for empty input", len(trials))
	}
}
