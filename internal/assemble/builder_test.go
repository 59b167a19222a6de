package assemble

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/ppiankov/lacuna/internal/model"
)

func testQA() model.QAItem {
	return model.QAItem{
		ID:       "qa-001",
		Question: "What is the capital of Valdoria?",
		Answer:   "Zentrix",
		GoldDoc:  "The capital of Valdoria is Zentrix, a city of 2.4 million residents.",
		HardDistractors: []string{
			"Many believe the capital of Valdoria is Eastbridge, its largest port.",
			"Northgate served as the capital of Valdoria until 1887.",
			"Some sources list Westhollow as the de facto capital of Valdoria.",
			"Valdoria's administrative seat was briefly moved to Southmere.",
		},
	}
}

func testPool(n int) []string {
	pool := make([]string, n)
	for i := range pool {
		pool[i] = fmt.Sprintf("Filler document %d about an unrelated topic.", i)
	}
	return pool
}

func TestBuilder_Build_Placement(t *testing.T) {
	builder := NewBuilder()
	qa := testQA()
	pool := testPool(30)

	for _, pos := range []int{1, 2, 5, 9, 10} {
		spec := model.ContextSpec{
			QAItemID:     qa.ID,
			GoldPosition: pos,
			TotalDocs:    10,
			SeedKey:      "run-1",
		}

		ctx, err := builder.Build(qa, pool, spec)
		if err != nil {
			t.Fatalf("Build(pos=%d) failed: %v", pos, err)
		}

		if got := ctx.TotalDocs(); got != 10 {
			t.Errorf("pos=%d: expected 10 documents, got %d", pos, got)
		}
		if ctx.GoldDocument() != qa.GoldDoc {
			t.Errorf("pos=%d: gold document not at position %d", pos, pos)
		}

		// Gold must appear exactly once
		count := 0
		for _, doc := range ctx.Documents {
			if doc == qa.GoldDoc {
				count++
			}
		}
		if count != 1 {
			t.Errorf("pos=%d: gold document appears %d times, want 1", pos, count)
		}

		// No duplicate slots
		seen := make(map[string]bool)
		for _, doc := range ctx.Documents {
			if seen[doc] {
				t.Errorf("pos=%d: duplicate document in context: %.40q", pos, doc)
			}
			seen[doc] = true
		}
	}
}

func TestBuilder_Build_Deterministic(t *testing.T) {
	builder := NewBuilder()
	qa := testQA()
	pool := testPool(30)
	spec := model.ContextSpec{QAItemID: qa.ID, GoldPosition: 5, TotalDocs: 10, SeedKey: "run-1"}

	first, err := builder.Build(qa, pool, spec)
	if err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	second, err := builder.Build(qa, pool, spec)
	if err != nil {
		t.Fatalf("second build failed: %v", err)
	}

	if !reflect.DeepEqual(first.Documents, second.Documents) {
		t.Error("identical inputs produced different document orders")
	}
}

func TestBuilder_Build_SeedKeyChangesOrder(t *testing.T) {
	builder := NewBuilder()
	qa := testQA()
	pool := testPool(30)

	base := model.ContextSpec{QAItemID: qa.ID, GoldPosition: 5, TotalDocs: 10, SeedKey: "run-1"}
	other := base
	other.SeedKey = "run-2"

	a, err := builder.Build(qa, pool, base)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	b, err := builder.Build(qa, pool, other)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if reflect.DeepEqual(a.Documents, b.Documents) {
		t.Error("different seed keys produced identical orders")
	}
}

func TestBuilder_Build_PositionChangesOrder(t *testing.T) {
	builder := NewBuilder()
	qa := testQA()
	pool := testPool(30)

	a, err := builder.Build(qa, pool, model.ContextSpec{QAItemID: qa.ID, GoldPosition: 3, TotalDocs: 10, SeedKey: "run-1"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	b, err := builder.Build(qa, pool, model.ContextSpec{QAItemID: qa.ID, GoldPosition: 7, TotalDocs: 10, SeedKey: "run-1"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	// Strip the gold document and compare distractor orderings
	strip := func(ctx model.AssembledContext) []string {
		var out []string
		for _, doc := range ctx.Documents {
			if doc != qa.GoldDoc {
				out = append(out, doc)
			}
		}
		return out
	}
	if reflect.DeepEqual(strip(a), strip(b)) {
		t.Error("different gold positions produced identical distractor orders")
	}
}

func TestBuilder_Build_PositionOutOfRange(t *testing.T) {
	builder := NewBuilder()
	qa := testQA()
	pool := testPool(30)

	for _, pos := range []int{0, -1, 11} {
		_, err := builder.Build(qa, pool, model.ContextSpec{QAItemID: qa.ID, GoldPosition: pos, TotalDocs: 10, SeedKey: "x"})
		if err == nil {
			t.Errorf("pos=%d: expected error, got none", pos)
			continue
		}
		var cfgErr *model.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("pos=%d: expected ConfigError, got %T", pos, err)
		}
	}
}

func TestBuilder_Build_InsufficientDistractors(t *testing.T) {
	builder := NewBuilder()
	qa := testQA() // 4 hard distractors

	// total_docs=50 with only 4 hard + 10 generic available
	_, err := builder.Build(qa, testPool(10), model.ContextSpec{QAItemID: qa.ID, GoldPosition: 25, TotalDocs: 50, SeedKey: "x"})
	if err == nil {
		t.Fatal("expected ConfigError for insufficient distractors, got none")
	}
	var cfgErr *model.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T: %v", err, err)
	}
	// The shortfall must be named: 49 needed, 14 available, short by 35
	if want := "short by 35"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not name the shortfall %q", err.Error(), want)
	}
}

func TestBuilder_Build_SurplusHardDistractorsSampled(t *testing.T) {
	builder := NewBuilder()
	qa := testQA()
	qa.HardDistractors = []string{
		"hard distractor one", "hard distractor two", "hard distractor three",
		"hard distractor four", "hard distractor five", "hard distractor six",
	}
	spec := model.ContextSpec{
		QAItemID:     qa.ID,
		GoldPosition: 2,
		TotalDocs:    5, // room for only 4 of the 6 hard distractors
		SeedKey:      "run-1",
	}

	ctx, err := builder.Build(qa, nil, spec)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := ctx.TotalDocs(); got != 5 {
		t.Fatalf("expected 5 documents, got %d", got)
	}

	hard := make(map[string]bool)
	for _, d := range qa.HardDistractors {
		hard[d] = true
	}
	for i, doc := range ctx.Documents {
		if i == spec.GoldPosition-1 {
			continue
		}
		if !hard[doc] {
			t.Errorf("document %d is not a hard distractor: %q", i, doc)
		}
	}

	// The seed decides which hard distractors survive truncation, so across
	// enough seed keys the surviving subsets must differ.
	baseline := survivorSet(t, builder, qa, spec)
	varied := false
	for i := 0; i < 8 && !varied; i++ {
		spec.SeedKey = fmt.Sprintf("run-%d", i+2)
		if !reflect.DeepEqual(survivorSet(t, builder, qa, spec), baseline) {
			varied = true
		}
	}
	if !varied {
		t.Error("surviving hard distractors identical across all seed keys; truncation ignores the seed")
	}

	// Same seed key, same survivors.
	spec.SeedKey = "run-1"
	if !reflect.DeepEqual(survivorSet(t, builder, qa, spec), baseline) {
		t.Error("surviving hard distractors not deterministic for a fixed seed key")
	}
}

func survivorSet(t *testing.T, builder *Builder, qa model.QAItem, spec model.ContextSpec) map[string]bool {
	t.Helper()
	ctx, err := builder.Build(qa, nil, spec)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	set := make(map[string]bool)
	for i, doc := range ctx.Documents {
		if i != spec.GoldPosition-1 {
			set[doc] = true
		}
	}
	return set
}
