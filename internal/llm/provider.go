package llm

import "context"

// Provider defines the interface for inference backends. The harness treats
// generation as an opaque black box: a prompt goes in, text comes out, and a
// failure affects only the trial that issued it.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces a completion for the given prompt
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for one inference call
type GenerateRequest struct {
	// Prompt is the full assembled prompt (documents + question)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls sampling; 0 for deterministic retrieval answers
	Temperature float64
}

// GenerateResponse contains a provider's completion
type GenerateResponse struct {
	// Text is the generated completion
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "dryrun"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for sampling
	Temperature float64

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "",
		Model:       "",
		Timeout:     60,
		MaxTokens:   50,
		Temperature: 0,
	}
}

// systemPrompt instructs the model to answer from the supplied documents only.
const systemPrompt = "You answer questions using only the provided documents. Give only the answer, no explanation."
