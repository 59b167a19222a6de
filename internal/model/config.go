package model

import "time"

// Config is the single configuration value object for a run. It is built once
// in the CLI and passed by parameter; no component reads global state.
type Config struct {
	Experiment  ExperimentConfig  `yaml:"experiment"`
	LLM         LLMConfig         `yaml:"llm"`
	Cache       CacheConfig       `yaml:"cache"`
	HTTP        HTTPConfig        `yaml:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// ExperimentConfig controls context assembly and trial counts.
type ExperimentConfig struct {
	Positions         []int  `yaml:"positions"`           // Gold positions to test (1-indexed)
	TotalDocs         int    `yaml:"total_docs"`          // Documents per assembled context
	TrialsPerPosition int    `yaml:"trials_per_position"` // Requested trials per position
	SeedKey           string `yaml:"seed_key"`            // Key feeding the deterministic shuffle digest
}

// LLMConfig configures the inference collaborator.
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // openai, anthropic, ollama, dryrun
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"-"` // Never serialized; environment only
	BaseURL     string  `yaml:"base_url,omitempty"`
	Timeout     int     `yaml:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
	NoProxy    string `yaml:"no_proxy,omitempty"`
}

// CacheConfig configures the inference response cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// HTTPConfig configures the dataset ingest fetcher.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls"`
}

// ConcurrencyConfig controls trial execution parallelism.
type ConcurrencyConfig struct {
	TrialWorkers      int     `yaml:"trial_workers"`       // 1 for local models; remote APIs may raise it
	RequestsPerSecond float64 `yaml:"requests_per_second"` // Per-host rate limit for remote providers
	Burst             int     `yaml:"burst"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() *Config {
	return &Config{
		Experiment: ExperimentConfig{
			Positions:         []int{1, 10, 25, 50, 75, 90, 100},
			TotalDocs:         100,
			TrialsPerPosition: 30,
			SeedKey:           "default",
		},
		LLM: LLMConfig{
			Provider:    "",
			Model:       "",
			Timeout:     60,
			MaxTokens:   50,
			Temperature: 0,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "",
			TTL:     30 * 24 * time.Hour,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Lacuna/0.1 (+https://github.com/ppiankov/lacuna)",
			MaxBodyBytes: 2_000_000,
		},
		Concurrency: ConcurrencyConfig{
			TrialWorkers:      1,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
