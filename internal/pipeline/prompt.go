package pipeline

import (
	"fmt"
	"strings"
)

// BuildPrompt renders an assembled document sequence into the inference
// prompt: an instruction header, the numbered documents, the question, and a
// bare "Answer:" cue for the completion to continue from.
func BuildPrompt(docs []string, question string) string {
	var sb strings.Builder
	sb.WriteString("Based on the following documents, answer the question. Give only the answer, no explanation.\n\n")
	for i, doc := range docs {
		fmt.Fprintf(&sb, "Document %d: %s\n\n", i+1, doc)
	}
	fmt.Fprintf(&sb, "Question: %s\nAnswer:", question)
	return sb.String()
}
