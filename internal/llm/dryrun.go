package llm

import (
	"context"
	"sort"
	"strings"
)

// DryRunProvider is a deterministic offline backend. It answers from a
// canned map keyed by substrings of the prompt's question line, or with a
// fixed placeholder when nothing matches. Used by --dry-run and by tests;
// it never performs I/O.
type DryRunProvider struct {
	// Answers maps a substring of the question to the canned response.
	Answers map[string]string
}

// NewDryRunProvider creates a dry-run provider with the given canned answers.
func NewDryRunProvider(answers map[string]string) *DryRunProvider {
	return &DryRunProvider{Answers: answers}
}

// Name returns the provider name
func (p *DryRunProvider) Name() string {
	return "dryrun"
}

// IsAvailable always succeeds: there is nothing to configure.
func (p *DryRunProvider) IsAvailable(ctx context.Context) bool {
	return true
}

// Generate answers from the canned map without any inference.
func (p *DryRunProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Sorted key order keeps the lookup deterministic when several keys
	// could match the same prompt.
	keys := make([]string, 0, len(p.Answers))
	for key := range p.Answers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	text := "[dry-run response]"
	for _, key := range keys {
		if strings.Contains(req.Prompt, key) {
			text = p.Answers[key]
			break
		}
	}

	return &GenerateResponse{
		Text:       text,
		Model:      "dryrun",
		TokensUsed: len(req.Prompt) / 4,
	}, nil
}
