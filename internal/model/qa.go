package model

// QAItem is a single question with its gold document and hard distractors.
// Loaded once at startup and never mutated.
type QAItem struct {
	ID              string   `json:"id"`                         // Stable identifier, feeds the shuffle digest
	Question        string   `json:"question"`                   // Question posed to the model
	Answer          string   `json:"answer"`                     // Gold answer the response is checked against
	GoldDoc         string   `json:"gold_doc"`                   // Document containing the gold answer
	HardDistractors []string `json:"hard_distractors,omitempty"` // Same-entity confusers, scarce and always included
}

// ContextSpec describes one context assembly request.
type ContextSpec struct {
	QAItemID     string `json:"qa_item_id"`
	GoldPosition int    `json:"gold_position"` // 1-indexed slot for the gold document
	TotalDocs    int    `json:"total_docs"`    // Total documents in the assembled context
	SeedKey      string `json:"seed_key"`      // Run-level key feeding the shuffle digest
}

// AssembledContext is the ordered document sequence for one trial.
// Documents are numbered 1..TotalDocs; the gold document sits at GoldPosition.
// Never mutated after creation.
type AssembledContext struct {
	Documents    []string `json:"documents"`
	GoldPosition int      `json:"gold_position"`
}

// TotalDocs returns the number of documents in the context.
func (c AssembledContext) TotalDocs() int {
	return len(c.Documents)
}

// GoldDocument returns the document at the gold position.
func (c AssembledContext) GoldDocument() string {
	return c.Documents[c.GoldPosition-1]
}
