package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ppiankov/lacuna/internal/model"
)

// LoadQAItems loads the QA collection from a JSON file.
func LoadQAItems(path string) ([]model.QAItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read QA file: %w", err)
	}

	var items []model.QAItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse QA file %s: %w", path, err)
	}
	return items, nil
}

// LoadDistractors loads the generic distractor pool from a JSON file.
func LoadDistractors(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read distractor file: %w", err)
	}

	var pool []string
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, fmt.Errorf("parse distractor file %s: %w", path, err)
	}
	return pool, nil
}

// ValidateRun checks the full run configuration before any trial executes.
// Every problem it finds is fatal: the run aborts rather than degrading
// silently by reusing documents or trimming the requested trial count.
func ValidateRun(items []model.QAItem, pool []string, cfg model.ExperimentConfig) error {
	if len(items) == 0 {
		return model.NewConfigError("qa_items", "no QA items loaded")
	}
	if len(pool) == 0 {
		return model.NewConfigError("distractors", "no generic distractors loaded")
	}
	if len(cfg.Positions) == 0 {
		return model.NewConfigError("positions", "no positions to test")
	}
	if cfg.TrialsPerPosition <= 0 {
		return model.NewConfigError("trials_per_position", "must be positive, got %d", cfg.TrialsPerPosition)
	}
	if cfg.TrialsPerPosition > len(items) {
		return model.NewConfigError("trials_per_position",
			"%d trials requested but only %d QA items available; lower the trial count or add items",
			cfg.TrialsPerPosition, len(items))
	}

	for _, pos := range cfg.Positions {
		if pos < 1 || pos > cfg.TotalDocs {
			return model.NewConfigError("positions", "position %d out of range 1..%d", pos, cfg.TotalDocs)
		}
	}

	needed := cfg.TotalDocs - 1
	for i, qa := range items {
		if qa.ID == "" {
			return model.NewConfigError("qa_items", "item %d has no id", i)
		}
		if qa.Question == "" {
			return model.NewConfigError("qa_items", "item %s has no question", qa.ID)
		}
		if qa.Answer == "" {
			return model.NewConfigError("qa_items", "item %s has an empty gold answer", qa.ID)
		}
		if qa.GoldDoc == "" {
			return model.NewConfigError("qa_items", "item %s has no gold document", qa.ID)
		}
		if available := len(qa.HardDistractors) + len(pool); available < needed {
			return model.NewConfigError("distractors",
				"item %s: need %d distractors, have %d hard + %d generic (short by %d)",
				qa.ID, needed, len(qa.HardDistractors), len(pool), needed-available)
		}
	}

	return nil
}
