package reorder

import (
	"sort"
	"strings"

	"github.com/ppiankov/lacuna/internal/model"
)

// Strategy names a document ordering policy that counters a measured
// positional pattern.
type Strategy string

const (
	// BestFirst is the standard descending-relevance order, for models with
	// no positional effect or a primacy advantage.
	BestFirst Strategy = "best-first"

	// BestLast places the highest-scoring documents at the end of the
	// context, countering a recency-favoring pattern.
	BestLast Strategy = "best-last"

	// SidesFirst alternates the highest-scoring documents between the two
	// ends of the context, countering a mid-context dip.
	SidesFirst Strategy = "sides-first"
)

// Document is a retrieved document with its relevance score
// (higher = more relevant).
type Document struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// ParseStrategy converts a flag value to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(s)); st {
	case BestFirst, BestLast, SidesFirst:
		return st, nil
	default:
		return "", model.NewConfigError("strategy",
			"unknown reorder strategy %q (supported: best-first, best-last, sides-first)", s)
	}
}

// Apply returns a copy of docs ordered per the strategy. Documents with
// equal scores keep their input order.
func Apply(strategy Strategy, docs []Document) ([]Document, error) {
	out := make([]Document, len(docs))
	copy(out, docs)

	switch strategy {
	case BestFirst:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	case BestLast:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })

	case SidesFirst:
		if len(out) <= 2 {
			return out, nil
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
		// Deal the ranked documents to alternating ends: best at the front,
		// second-best at the back, weakest in the middle.
		dealt := make([]Document, len(out))
		left, right := 0, len(out)-1
		for i, doc := range out {
			if i%2 == 0 {
				dealt[left] = doc
				left++
			} else {
				dealt[right] = doc
				right--
			}
		}
		out = dealt

	default:
		return nil, model.NewConfigError("strategy", "unknown reorder strategy %q", strategy)
	}
	return out, nil
}

// uCurveThreshold is the minimum U-curve score treated as a mid-context dip
// when neither trend direction reaches significance.
const uCurveThreshold = 0.05

// Recommend picks the counter-strategy for a model from its analysis report.
// A significant positive trend (later positions answered better) maps to
// best-last, a significant negative trend to best-first, a mid-context dip
// to sides-first, and anything else to the standard best-first order.
func Recommend(report *model.AnalysisReport) Strategy {
	if report == nil {
		return BestFirst
	}
	if report.Trend.Significant {
		if report.Trend.Slope > 0 {
			return BestLast
		}
		return BestFirst
	}
	if report.UCurve.Score > uCurveThreshold {
		return SidesFirst
	}
	return BestFirst
}

// MoveTo moves the document at index from to the 0-indexed position to,
// preserving the relative order of the others. Useful when one document is
// known to hold the answer and should sit at a measured-best position.
func MoveTo(docs []Document, from, to int) ([]Document, error) {
	if from < 0 || from >= len(docs) {
		return nil, model.NewConfigError("from", "index %d out of range 0..%d", from, len(docs)-1)
	}
	if to < 0 || to >= len(docs) {
		return nil, model.NewConfigError("to", "position %d out of range 0..%d", to, len(docs)-1)
	}

	moved := docs[from]
	rest := make([]Document, 0, len(docs)-1)
	rest = append(rest, docs[:from]...)
	rest = append(rest, docs[from+1:]...)

	out := make([]Document, 0, len(docs))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	return out, nil
}
