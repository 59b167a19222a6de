package analyze

import (
	"sort"

	"github.com/ppiankov/lacuna/internal/model"
)

// Analyzer computes the statistical report over position-bucketed accuracy
// counts. Every method is a pure function of the input counts: the analyzer
// holds no state and assumes no prior about which positional pattern, if
// any, is real.
type Analyzer struct{}

// NewAnalyzer creates a new statistical analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze computes per-position Wilson intervals, the accuracy-vs-position
// trend test, the early-vs-late independence test and the U-curve score.
func (a *Analyzer) Analyze(buckets []model.PositionBucket) (model.AnalysisReport, error) {
	if len(buckets) == 0 {
		return model.AnalysisReport{}, model.NewConfigError("buckets", "no position buckets to analyze")
	}

	sorted := make([]model.PositionBucket, len(buckets))
	copy(sorted, buckets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	positions := make([]model.PositionStats, len(sorted))
	for i, b := range sorted {
		low, high := wilsonInterval(b.Correct, b.Total)
		positions[i] = model.PositionStats{
			Position: b.Position,
			Correct:  b.Correct,
			Total:    b.Total,
			Accuracy: b.Accuracy(),
			CILow:    low,
			CIHigh:   high,
		}
	}

	return model.AnalysisReport{
		Positions: positions,
		Trend:     fitTrend(sorted),
		EarlyLate: earlyVsLate(sorted),
		UCurve:    uCurve(sorted),
	}, nil
}

// earlyVsLate pools the lowest and highest position buckets into a 2x2
// correct/incorrect table and tests independence. Two buckets are pooled per
// side when four or more positions were tested, otherwise one.
func earlyVsLate(sorted []model.PositionBucket) model.EarlyLateTest {
	width := 1
	if len(sorted) >= 4 {
		width = 2
	}
	if len(sorted) < 2 {
		return model.EarlyLateTest{Method: "chi-squared", PValue: 1}
	}

	early := sorted[:width]
	late := sorted[len(sorted)-width:]

	test := model.EarlyLateTest{}
	for _, b := range early {
		test.EarlyPositions = append(test.EarlyPositions, b.Position)
		test.EarlyCorrect += b.Correct
		test.EarlyTotal += b.Total
	}
	for _, b := range late {
		test.LatePositions = append(test.LatePositions, b.Position)
		test.LateCorrect += b.Correct
		test.LateTotal += b.Total
	}

	test.Method, test.Statistic, test.PValue = independenceTest(
		test.EarlyCorrect, test.EarlyTotal, test.LateCorrect, test.LateTotal)
	test.Significant = test.PValue < 0.05
	return test
}

// uCurve computes the endpoint-minus-interior accuracy gap. Positive means a
// dip in the middle, negative a recency-favoring monotone pattern, near zero
// no positional effect. Fewer than three buckets leave no interior to
// compare against.
func uCurve(sorted []model.PositionBucket) model.UCurveScore {
	if len(sorted) < 3 {
		return model.UCurveScore{}
	}

	endpointMean := (sorted[0].Accuracy() + sorted[len(sorted)-1].Accuracy()) / 2

	interior := sorted[1 : len(sorted)-1]
	interiorMean := 0.0
	for _, b := range interior {
		interiorMean += b.Accuracy()
	}
	interiorMean /= float64(len(interior))

	return model.UCurveScore{
		Score:        endpointMean - interiorMean,
		EndpointMean: endpointMean,
		InteriorMean: interiorMean,
	}
}
