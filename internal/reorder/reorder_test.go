package reorder

import (
	"errors"
	"testing"

	"github.com/ppiankov/lacuna/internal/model"
)

func docTexts(docs []Document) []string {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	return texts
}

func assertOrder(t *testing.T, docs []Document, want []string) {
	t.Helper()
	got := docTexts(docs)
	if len(got) != len(want) {
		t.Fatalf("got %d docs, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestApply_BestLast(t *testing.T) {
	docs := []Document{
		{Text: "A", Score: 0.9},
		{Text: "B", Score: 0.7},
		{Text: "C", Score: 0.5},
	}
	out, err := Apply(BestLast, docs)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	assertOrder(t, out, []string{"C", "B", "A"})
	if docs[0].Text != "A" {
		t.Error("input slice mutated")
	}
}

func TestApply_SidesFirst(t *testing.T) {
	docs := []Document{
		{Text: "A", Score: 0.9},
		{Text: "B", Score: 0.8},
		{Text: "C", Score: 0.7},
		{Text: "D", Score: 0.6},
	}
	out, err := Apply(SidesFirst, docs)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	// Best at the front, second-best at the back, weakest in the middle.
	assertOrder(t, out, []string{"A", "C", "D", "B"})
}

func TestApply_SidesFirst_TwoDocs(t *testing.T) {
	docs := []Document{{Text: "B", Score: 0.5}, {Text: "A", Score: 0.9}}
	out, err := Apply(SidesFirst, docs)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	assertOrder(t, out, []string{"B", "A"})
}

func TestApply_BestFirst_StableTies(t *testing.T) {
	docs := []Document{
		{Text: "low", Score: 0.1},
		{Text: "tie-1", Score: 0.8},
		{Text: "tie-2", Score: 0.8},
	}
	out, err := Apply(BestFirst, docs)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	assertOrder(t, out, []string{"tie-1", "tie-2", "low"})
}

func TestApply_UnknownStrategy(t *testing.T) {
	_, err := Apply(Strategy("alphabetical"), []Document{{Text: "A"}})
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	var cfgErr *model.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError, got %T", err)
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []string{"best-first", "Best-Last", "SIDES-FIRST"} {
		if _, err := ParseStrategy(s); err != nil {
			t.Errorf("ParseStrategy(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseStrategy("random"); err == nil {
		t.Error("expected error for unknown strategy name")
	}
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name   string
		report *model.AnalysisReport
		want   Strategy
	}{
		{"nil report", nil, BestFirst},
		{
			"recency bias",
			&model.AnalysisReport{Trend: model.TrendTest{Slope: 0.3, Significant: true}},
			BestLast,
		},
		{
			"primacy bias",
			&model.AnalysisReport{Trend: model.TrendTest{Slope: -0.3, Significant: true}},
			BestFirst,
		},
		{
			"mid-context dip",
			&model.AnalysisReport{UCurve: model.UCurveScore{Score: 0.12}},
			SidesFirst,
		},
		{
			"dip below threshold",
			&model.AnalysisReport{UCurve: model.UCurveScore{Score: 0.02}},
			BestFirst,
		},
		{
			"flat",
			&model.AnalysisReport{Trend: model.TrendTest{Slope: 0.01, Significant: false}},
			BestFirst,
		},
		{
			"non-significant trend with dip",
			&model.AnalysisReport{
				Trend:  model.TrendTest{Slope: 0.1, Significant: false},
				UCurve: model.UCurveScore{Score: 0.2},
			},
			SidesFirst,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Recommend(tt.report); got != tt.want {
				t.Errorf("Recommend() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMoveTo(t *testing.T) {
	docs := []Document{{Text: "A"}, {Text: "B"}, {Text: "C"}, {Text: "D"}}

	out, err := MoveTo(docs, 0, 3)
	if err != nil {
		t.Fatalf("MoveTo failed: %v", err)
	}
	assertOrder(t, out, []string{"B", "C", "D", "A"})

	out, err = MoveTo(docs, 2, 0)
	if err != nil {
		t.Fatalf("MoveTo failed: %v", err)
	}
	assertOrder(t, out, []string{"C", "A", "B", "D"})

	if _, err := MoveTo(docs, -1, 0); err == nil {
		t.Error("expected error for negative index")
	}
	if _, err := MoveTo(docs, 0, 4); err == nil {
		t.Error("expected error for out-of-range target")
	}
}
