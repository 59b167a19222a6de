package model

import "time"

// RunResults is the complete record of one experiment run for one model.
// This is the flat result document written to disk and re-read by `analyze`.
type RunResults struct {
	ModelName  string    `json:"model_name"`
	Provider   string    `json:"provider"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	RunConfig  RunConfig `json:"config"`

	Buckets []PositionBucket `json:"positions"`   // Per-position aggregates
	Trials  []TrialResult    `json:"raw_results"` // Full audit trail

	Analysis *AnalysisReport `json:"analysis,omitempty"`
}

// RunConfig captures what was asked for versus what actually ran.
// A run where executed trials diverge from requested trials is invalid:
// the report must never present the requested count as if it were executed.
type RunConfig struct {
	PositionsTested            []int  `json:"positions_tested"`
	TotalDocs                  int    `json:"total_docs"`
	TrialsPerPositionRequested int    `json:"trials_per_position_requested"`
	TrialsPerPositionExecuted  int    `json:"trials_per_position_executed"`
	SeedKey                    string `json:"seed_key"`
}

// Valid reports whether the executed trial count matches the requested count.
func (c RunConfig) Valid() bool {
	return c.TrialsPerPositionExecuted == c.TrialsPerPositionRequested
}

// AnalysisReport is the structured output of the statistical analyzer.
// It is a pure function of the position buckets and recomputable at any time.
type AnalysisReport struct {
	Positions []PositionStats `json:"positions"`
	Trend     TrendTest       `json:"trend"`
	EarlyLate EarlyLateTest   `json:"early_vs_late"`
	UCurve    UCurveScore     `json:"u_curve"`
}

// PositionStats is one bucket's accuracy with its Wilson 95% interval.
type PositionStats struct {
	Position int     `json:"position"`
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"`
	CILow    float64 `json:"ci_low"`
	CIHigh   float64 `json:"ci_high"`
}

// TrendTest reports the least-squares fit of accuracy against
// position normalized to [0,1].
type TrendTest struct {
	Slope       float64 `json:"slope"`
	Intercept   float64 `json:"intercept"`
	RSquared    float64 `json:"r_squared"`
	PValue      float64 `json:"p_value"` // Two-sided, slope != 0
	Significant bool    `json:"significant"`
}

// EarlyLateTest reports the 2x2 independence test between pooled
// early-position and late-position buckets.
type EarlyLateTest struct {
	EarlyPositions []int   `json:"early_positions"`
	LatePositions  []int   `json:"late_positions"`
	EarlyCorrect   int     `json:"early_correct"`
	EarlyTotal     int     `json:"early_total"`
	LateCorrect    int     `json:"late_correct"`
	LateTotal      int     `json:"late_total"`
	Method         string  `json:"method"` // "chi-squared" or "fisher-exact"
	Statistic      float64 `json:"statistic"`
	PValue         float64 `json:"p_value"`
	Significant    bool    `json:"significant"`
}

// UCurveScore is the mean accuracy of the endpoint buckets minus the mean
// accuracy of the interior buckets. Positive indicates a dip in the middle;
// negative indicates a monotone, recency-favoring pattern; near zero
// indicates no positional effect.
type UCurveScore struct {
	Score        float64 `json:"score"`
	EndpointMean float64 `json:"endpoint_mean"`
	InteriorMean float64 `json:"interior_mean"`
}
