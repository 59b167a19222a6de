package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ppiankov/lacuna/internal/analyze"
	"github.com/ppiankov/lacuna/internal/assemble"
	"github.com/ppiankov/lacuna/internal/cache"
	"github.com/ppiankov/lacuna/internal/dataset"
	"github.com/ppiankov/lacuna/internal/evaluate"
	"github.com/ppiankov/lacuna/internal/llm"
	"github.com/ppiankov/lacuna/internal/model"
	"github.com/ppiankov/lacuna/internal/worker"
)

// Pipeline runs one positional-accuracy experiment end to end: assemble a
// context per (question, position) trial, query the model, evaluate the
// response, bucket by position, and analyze.
type Pipeline struct {
	cfg       *model.Config
	provider  llm.Provider
	builder   *assemble.Builder
	evaluator *evaluate.Evaluator
	cache     cache.Cache
	limiter   *worker.Limiter
	rateURL   string

	distractors []string

	// Progress and verbose output; nil silences it.
	log io.Writer
}

// New creates a pipeline. responseCache may be nil to disable caching,
// logW may be nil to silence progress output.
func New(cfg *model.Config, provider llm.Provider, responseCache cache.Cache, logW io.Writer) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		provider:  provider,
		builder:   assemble.NewBuilder(),
		evaluator: evaluate.NewEvaluator(),
		cache:     responseCache,
		limiter:   worker.NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst),
		rateURL:   rateURLFor(provider.Name(), cfg.LLM.BaseURL),
		log:       logW,
	}
}

// rateURLFor picks the endpoint the rate limiter keys on. An empty string
// disables limiting (dry runs perform no I/O).
func rateURLFor(providerName, baseURL string) string {
	if baseURL != "" {
		return baseURL
	}
	switch providerName {
	case "openai":
		return "https://api.openai.com"
	case "anthropic":
		return "https://api.anthropic.com"
	case "ollama":
		return "http://localhost:11434"
	default:
		return ""
	}
}

// Run executes the full experiment for the configured model and returns the
// complete result document. Configuration problems abort before any trial;
// single-trial inference failures are recorded on the trial and counted as
// incorrect.
//
// An executed trial count that diverges from the requested count makes the
// run invalid: the results are still returned for inspection, alongside a
// non-nil error.
func (p *Pipeline) Run(ctx context.Context, items []model.QAItem, pool []string) (*model.RunResults, error) {
	exp := p.cfg.Experiment
	if err := dataset.ValidateRun(items, pool, exp); err != nil {
		return nil, err
	}
	p.distractors = pool

	subset := items[:exp.TrialsPerPosition]
	requests := make([]worker.TrialRequest, 0, len(exp.Positions)*len(subset))
	for _, pos := range exp.Positions {
		for _, qa := range subset {
			requests = append(requests, worker.TrialRequest{QA: qa, Position: pos})
		}
	}

	results := &model.RunResults{
		ModelName: p.cfg.LLM.Model,
		Provider:  p.provider.Name(),
		StartedAt: time.Now().UTC(),
		RunConfig: model.RunConfig{
			PositionsTested:            exp.Positions,
			TotalDocs:                  exp.TotalDocs,
			TrialsPerPositionRequested: exp.TrialsPerPosition,
			SeedKey:                    exp.SeedKey,
		},
	}

	processor := worker.NewBatchProcessor(p, p.cfg.Concurrency.TrialWorkers)
	results.Trials = processor.ProcessTrials(ctx, requests)
	results.FinishedAt = time.Now().UTC()
	if err := ctx.Err(); err != nil {
		return results, err
	}

	results.Buckets = model.BucketTrials(results.Trials)
	results.RunConfig.TrialsPerPositionExecuted = executedPerPosition(results.Buckets)

	if p.log != nil {
		for _, b := range results.Buckets {
			fmt.Fprintf(p.log, "position %d/%d: %d/%d = %.1f%%\n",
				b.Position, exp.TotalDocs, b.Correct, b.Total, 100*b.Accuracy())
		}
	}

	report, err := analyze.NewAnalyzer().Analyze(results.Buckets)
	if err != nil {
		return results, err
	}
	results.Analysis = &report

	if !results.RunConfig.Valid() {
		return results, model.NewConfigError("trials_per_position",
			"executed %d trials per position but %d were requested",
			results.RunConfig.TrialsPerPositionExecuted, results.RunConfig.TrialsPerPositionRequested)
	}
	return results, nil
}

// executedPerPosition returns the common per-bucket trial count, or 0 when
// the buckets are uneven (which invalidates the run).
func executedPerPosition(buckets []model.PositionBucket) int {
	if len(buckets) == 0 {
		return 0
	}
	n := buckets[0].Total
	for _, b := range buckets[1:] {
		if b.Total != n {
			return 0
		}
	}
	return n
}

// RunTrial executes one (question, position) trial: assemble, prompt,
// generate, evaluate. It satisfies worker.TrialRunner.
func (p *Pipeline) RunTrial(ctx context.Context, req worker.TrialRequest) model.TrialResult {
	trial := model.TrialResult{
		QAItemID:   req.QA.ID,
		Question:   req.QA.Question,
		Position:   req.Position,
		GoldAnswer: req.QA.Answer,
	}

	assembled, err := p.builder.Build(req.QA, p.distractors, model.ContextSpec{
		QAItemID:     req.QA.ID,
		GoldPosition: req.Position,
		TotalDocs:    p.cfg.Experiment.TotalDocs,
		SeedKey:      p.cfg.Experiment.SeedKey,
	})
	if err != nil {
		trial.ErrorTag = (&model.TrialError{QAItemID: req.QA.ID, Position: req.Position, Err: err}).Error()
		return trial
	}

	prompt := BuildPrompt(assembled.Documents, req.QA.Question)

	start := time.Now()
	response, err := p.generate(ctx, prompt)
	trial.LatencyMS = float64(time.Since(start)) / float64(time.Millisecond)
	if err != nil {
		trial.ErrorTag = (&model.TrialError{QAItemID: req.QA.ID, Position: req.Position, Err: err}).Error()
		return trial
	}

	trial.Response = response
	trial.Correct, trial.Extracted = p.evaluator.Check(response, req.QA.Answer)

	if p.log != nil && p.cfg.Output.Verbose {
		status := "FAIL"
		if trial.Correct {
			status = "ok"
		}
		fmt.Fprintf(p.log, "[%s] %s@%d expected=%q got=%q\n",
			status, req.QA.ID, req.Position, req.QA.Answer, truncate(response, 100))
	}
	return trial
}

// generate runs one inference call through the cache and the rate limiter.
func (p *Pipeline) generate(ctx context.Context, prompt string) (string, error) {
	var key string
	if p.cache != nil {
		key = cache.PromptKey(p.provider.Name(), p.cfg.LLM.Model, prompt,
			p.cfg.LLM.MaxTokens, p.cfg.LLM.Temperature)
		if cached, ok := p.cache.Get(key); ok {
			return string(cached), nil
		}
	}

	if p.rateURL != "" {
		if err := p.limiter.Wait(ctx, p.rateURL); err != nil {
			return "", err
		}
	}

	resp, err := p.provider.Generate(ctx, llm.GenerateRequest{
		Prompt:      prompt,
		Model:       p.cfg.LLM.Model,
		MaxTokens:   p.cfg.LLM.MaxTokens,
		Temperature: p.cfg.LLM.Temperature,
	})
	if err != nil {
		return "", err
	}

	if p.cache != nil {
		if err := p.cache.Set(key, []byte(resp.Text), p.cfg.Cache.TTL); err != nil && p.log != nil {
			fmt.Fprintf(p.log, "warning: cache write failed: %v\n", err)
		}
	}
	return resp.Text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
