package model

import "sort"

// TrialResult records a single (question, position) trial.
// Created once by the pipeline and immutable thereafter.
type TrialResult struct {
	QAItemID   string  `json:"qa_id"`
	Question   string  `json:"question,omitempty"`
	Position   int     `json:"position"`
	Correct    bool    `json:"correct"`
	Response   string  `json:"response"`
	Extracted  string  `json:"extracted"`            // Answer fragment the evaluator matched against
	GoldAnswer string  `json:"gold_answer"`
	LatencyMS  float64 `json:"latency_ms"`
	ErrorTag   string  `json:"error,omitempty"` // Non-empty when the inference call failed; trial counts as incorrect
}

// PositionBucket aggregates correct/total tallies for one gold position.
// Derived from trials on demand, never persisted as mutable state.
type PositionBucket struct {
	Position int `json:"position"`
	Correct  int `json:"correct"`
	Total    int `json:"total"`
}

// Accuracy returns the bucket's empirical accuracy, 0 for an empty bucket.
func (b PositionBucket) Accuracy() float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.Correct) / float64(b.Total)
}

// BucketTrials reduces trial results into per-position buckets,
// ordered by ascending position.
func BucketTrials(trials []TrialResult) []PositionBucket {
	byPos := make(map[int]*PositionBucket)
	for _, tr := range trials {
		b, ok := byPos[tr.Position]
		if !ok {
			b = &PositionBucket{Position: tr.Position}
			byPos[tr.Position] = b
		}
		b.Total++
		if tr.Correct {
			b.Correct++
		}
	}

	buckets := make([]PositionBucket, 0, len(byPos))
	for _, b := range byPos {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Position < buckets[j].Position
	})
	return buckets
}
