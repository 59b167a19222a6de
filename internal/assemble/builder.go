package assemble

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/ppiankov/lacuna/internal/model"
)

// seedVersion versions the digest that feeds the shuffle. Bumping it is the
// deliberate way to invalidate cross-run reproducibility.
const seedVersion = "lacuna:v1"

// Builder assembles an ordered document context with the gold document at a
// requested position among deterministically shuffled distractors.
type Builder struct{}

// NewBuilder creates a new context builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build assembles the context for one trial.
//
// All hard distractors are selected first (they are scarce and adversarially
// valuable; should they outnumber the available slots, the seeded shuffle
// samples which survive), the remainder is filled from the generic pool, and
// the selection is shuffled with a rand source seeded by a versioned digest of
// (qa id, gold position, seed key); the gold document is then inserted at the
// 1-indexed gold position. Identical inputs always yield an identical
// sequence, across processes and machines.
func (b *Builder) Build(qa model.QAItem, pool []string, spec model.ContextSpec) (model.AssembledContext, error) {
	if spec.GoldPosition < 1 || spec.GoldPosition > spec.TotalDocs {
		return model.AssembledContext{}, model.NewConfigError("gold_position",
			"position %d out of range 1..%d", spec.GoldPosition, spec.TotalDocs)
	}

	needed := spec.TotalDocs - 1
	available := len(qa.HardDistractors) + len(pool)
	if available < needed {
		return model.AssembledContext{}, model.NewConfigError("distractors",
			"need %d distractors for %d documents, have %d hard + %d generic (short by %d)",
			needed, spec.TotalDocs, len(qa.HardDistractors), len(pool), needed-available)
	}

	rng := rand.New(rand.NewSource(seedFor(qa.ID, spec.GoldPosition, spec.SeedKey)))

	// Hard distractors first; the generic pool is shuffled before drawing the
	// fill so different seeds sample different fillers, not just a different
	// order of the same ones.
	distractors := make([]string, 0, needed)
	distractors = append(distractors, qa.HardDistractors...)
	if len(distractors) > needed {
		// More hard distractors than slots: the seeded shuffle decides which
		// ones survive, not their input order.
		rng.Shuffle(len(distractors), func(i, j int) {
			distractors[i], distractors[j] = distractors[j], distractors[i]
		})
		distractors = distractors[:needed]
	}
	if remaining := needed - len(distractors); remaining > 0 {
		generic := make([]string, len(pool))
		copy(generic, pool)
		rng.Shuffle(len(generic), func(i, j int) {
			generic[i], generic[j] = generic[j], generic[i]
		})
		distractors = append(distractors, generic[:remaining]...)
	}

	rng.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})

	docs := make([]string, 0, spec.TotalDocs)
	docs = append(docs, distractors[:spec.GoldPosition-1]...)
	docs = append(docs, qa.GoldDoc)
	docs = append(docs, distractors[spec.GoldPosition-1:]...)

	return model.AssembledContext{
		Documents:    docs,
		GoldPosition: spec.GoldPosition,
	}, nil
}

// seedFor derives a deterministic rand seed from a versioned digest of the
// trial identity. Explicitly not the runtime's randomized hash: the same
// inputs must seed the same shuffle on every machine and every run.
func seedFor(qaID string, goldPosition int, seedKey string) int64 {
	key := fmt.Sprintf("%s:%s:%d:%s", seedVersion, qaID, goldPosition, seedKey)
	sum := sha256.Sum256([]byte(key))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}
