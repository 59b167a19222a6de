package evaluate

import (
	"regexp"
	"strings"
)

// Evaluator decides whether a free-text model response satisfies a gold
// answer, resolving lexical variation and explicit contradiction.
type Evaluator struct{}

// NewEvaluator creates a new answer evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// fillerPrefixes are leading phrases stripped before comparison. Every entry
// is a multi-word phrase or an explicit label; a bare determiner must never
// appear here — stripping "the" would corrupt answers like "The Hague".
var fillerPrefixes = []string{
	"the answer is",
	"answer:",
	"based on the documents,",
	"based on the documents",
	"according to the documents,",
	"according to the documents",
	"according to the document,",
	"according to the document",
}

var (
	punctuationRe = regexp.MustCompile(`[^\w\s.\-]`)
	numberRe      = regexp.MustCompile(`\d+(?:,\d+)*(?:\.\d+)?`)
	clauseRe      = regexp.MustCompile(`[.!?]\s+`)

	// Patterns indicating the speaker names an explicit answer value.
	// Specific corrective phrasings first, then generic answer statements.
	explicitAnswerRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:the\s+)?real\s+answer\s+is\s+([^.,]+)`),
		regexp.MustCompile(`(?i)correction\s*:\s*([^.,]+)`),
		regexp.MustCompile(`(?i)actually\s*,?\s*(?:it\s+is|(?:the\s+)?answer\s+is)\s+([^.,]+)`),
		regexp.MustCompile(`(?i)(?:the\s+)?correct\s+answer\s+is\s+([^.,]+)`),
		regexp.MustCompile(`(?i)answer\s+is\s+([^.,]+)`),
		regexp.MustCompile(`(?i)answer\s*:\s*([^.,]+)`),
	}
)

// stopwords are ignored in the token-overlap stage for multi-word answers.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "and": true,
	"in": true, "is": true, "was": true, "are": true, "were": true,
}

// Check reports whether the response satisfies the gold answer, and the
// matched fragment when it does. Stages run in order; the first confident
// decision wins. An empty response is simply incorrect, not an error.
func (e *Evaluator) Check(response, goldAnswer string) (bool, string) {
	if strings.TrimSpace(response) == "" {
		return false, ""
	}

	normGold := Normalize(goldAnswer)

	// Explicit contradiction: the speaker names a different specific value.
	// Fires on the full response so a gold value echoed from a distractor's
	// wording elsewhere cannot mask the stated answer.
	if explicit, ok := explicitAnswer(response); ok {
		if explicit != normGold &&
			!strings.Contains(explicit, normGold) &&
			!strings.Contains(normGold, explicit) {
			return false, ""
		}
	}

	// The clause-trimmed extraction is tried first; when it yields no match
	// the full prefix-stripped response gets a second pass, so a short
	// acknowledgment ("Yes. The answer is ...") cannot hide the answer that
	// follows it.
	for _, candidate := range candidates(response) {
		if e.matches(response, candidate, goldAnswer, normGold) {
			return true, candidate
		}
	}
	return false, ""
}

// candidates returns the answer fragments to evaluate, most specific first.
func candidates(response string) []string {
	primary := ExtractAnswer(response)
	full := strings.TrimRight(stripFillerPrefixes(response), ".,;:")
	if full == primary {
		return []string{primary}
	}
	return []string{primary, full}
}

// matches runs the match stages against one candidate fragment.
func (e *Evaluator) matches(response, candidate, goldAnswer, normGold string) bool {
	normCandidate := Normalize(candidate)

	// Exact match
	if normCandidate == normGold {
		return true
	}

	// Guarded substring: reject when the response is unusually long or
	// numerically dense relative to the gold answer — more likely a
	// coincidental embedding than a genuine answer.
	guarded := denseOrLong(response, normCandidate, normGold)
	if strings.Contains(normCandidate, normGold) && !guarded {
		return true
	}

	// Numeric match: every gold number must appear among the response numbers.
	goldNums := numericTokens(goldAnswer)
	if len(goldNums) > 0 && !guarded {
		respNums := numericTokens(response)
		all := true
		for n := range goldNums {
			if !respNums[n] {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}

	// Token overlap for multi-word answers: all significant gold tokens
	// present in any order handles paraphrase and entity reordering. The
	// density guard applies here too, or a numerically dense response could
	// reassemble the gold answer from scattered fragments.
	goldTokens := strings.Fields(normGold)
	if len(goldTokens) > 1 && !guarded {
		respTokens := make(map[string]bool)
		for _, tok := range strings.Fields(normCandidate) {
			respTokens[tok] = true
		}
		significant := 0
		matched := 0
		for _, tok := range goldTokens {
			if stopwords[tok] {
				continue
			}
			significant++
			if respTokens[tok] {
				matched++
			}
		}
		if significant > 0 && matched == significant {
			return true
		}
	}

	return false
}

// Normalize lowercases, strips punctuation except digits, decimal points and
// internal hyphens, and collapses whitespace. Applied identically to
// responses and gold answers.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = punctuationRe.ReplaceAllString(text, "")
	fields := strings.Fields(text)
	for i, f := range fields {
		fields[i] = strings.Trim(f, ".-")
	}
	return strings.Join(fields, " ")
}

// stripFillerPrefixes removes known filler prefixes from the front of a
// response, repeatedly, so stacked fillers ("Answer: the answer is ...")
// collapse fully.
func stripFillerPrefixes(response string) string {
	text := strings.TrimSpace(response)

	for changed := true; changed; {
		changed = false
		lower := strings.ToLower(text)
		for _, prefix := range fillerPrefixes {
			if strings.HasPrefix(lower, prefix) {
				text = strings.TrimSpace(text[len(prefix):])
				changed = true
				break
			}
		}
	}
	return text
}

// ExtractAnswer strips known filler prefixes and trailing explanatory
// clauses from a response, leaving the candidate answer. The clause trim is
// a preference, not a commitment: Check falls back to the untrimmed text
// when the leading clause alone does not satisfy the gold answer.
func ExtractAnswer(response string) string {
	text := stripFillerPrefixes(response)

	// Keep the leading clause when terminal punctuation introduces an
	// explanatory tail and the leading clause already holds a candidate.
	if loc := clauseRe.FindStringIndex(text); loc != nil {
		leading := strings.TrimSpace(text[:loc[0]])
		if leading != "" {
			text = leading
		}
	}

	return strings.TrimRight(text, ".,;:")
}

// explicitAnswer scans for a pattern naming a specific answer value and
// returns it normalized.
func explicitAnswer(response string) (string, bool) {
	for _, re := range explicitAnswerRes {
		if m := re.FindStringSubmatch(response); m != nil {
			return Normalize(m[1]), true
		}
	}
	return "", false
}

// denseOrLong is the shared guard for the substring and numeric stages: the
// response carries substantially more distinct numeric tokens than the gold
// answer, or dwarfs it in length.
func denseOrLong(response, normResponse, normGold string) bool {
	respNums := numericTokens(response)
	goldNums := numericTokens(normGold)
	if len(respNums) > len(goldNums)+1 {
		return true
	}
	if len(strings.Fields(normResponse)) > 20 && len(normResponse) > 10*len(normGold) {
		return true
	}
	return false
}

// numericTokens extracts the distinct numeric tokens of a string, folding
// thousands separators so "1,342" and "1342" compare equal.
func numericTokens(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, m := range numberRe.FindAllString(text, -1) {
		tokens[strings.ReplaceAll(m, ",", "")] = true
	}
	return tokens
}
