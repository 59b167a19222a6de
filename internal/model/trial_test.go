package model

import "testing"

func TestBucketTrials(t *testing.T) {
	trials := []TrialResult{
		{QAItemID: "a", Position: 50, Correct: true},
		{QAItemID: "b", Position: 50, Correct: false},
		{QAItemID: "a", Position: 1, Correct: true},
		{QAItemID: "b", Position: 1, Correct: true},
	}

	buckets := BucketTrials(trials)
	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(buckets))
	}
	if buckets[0].Position != 1 || buckets[1].Position != 50 {
		t.Errorf("buckets not sorted by position: %+v", buckets)
	}
	if buckets[0].Correct != 2 || buckets[0].Total != 2 {
		t.Errorf("position 1 bucket = %+v, want 2/2", buckets[0])
	}
	if buckets[1].Correct != 1 || buckets[1].Total != 2 {
		t.Errorf("position 50 bucket = %+v, want 1/2", buckets[1])
	}
}

func TestBucketTrials_Empty(t *testing.T) {
	if buckets := BucketTrials(nil); len(buckets) != 0 {
		t.Errorf("empty trials produced %d buckets", len(buckets))
	}
}

func TestPositionBucket_Accuracy(t *testing.T) {
	if acc := (PositionBucket{Correct: 3, Total: 4}).Accuracy(); acc != 0.75 {
		t.Errorf("accuracy = %v, want 0.75", acc)
	}
	if acc := (PositionBucket{}).Accuracy(); acc != 0 {
		t.Errorf("empty bucket accuracy = %v, want 0", acc)
	}
}

func TestRunConfig_Valid(t *testing.T) {
	ok := RunConfig{TrialsPerPositionRequested: 30, TrialsPerPositionExecuted: 30}
	if !ok.Valid() {
		t.Error("matching counts reported invalid")
	}
	bad := RunConfig{TrialsPerPositionRequested: 30, TrialsPerPositionExecuted: 25}
	if bad.Valid() {
		t.Error("diverging counts reported valid")
	}
}
