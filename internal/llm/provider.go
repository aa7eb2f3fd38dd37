// Package llm abstracts the generative model that proposes corrections.
// Providers deliver raw, arbitrarily chunked near-JSON output; decoding and
// resolution happen downstream, so the model is treated as an opaque oracle.
package llm

import (
	"context"
	"fmt"

	"github.com/proseflow/proseflow/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Stream generates correction proposals for the request, delivering raw
	// model output to onChunk as it arrives. Chunk boundaries are arbitrary
	// and carry no meaning; a non-nil onChunk error aborts the stream.
	Stream(ctx context.Context, req ProposalRequest, onChunk func(chunk string) error) error

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ProposalRequest contains the input for proposal generation
type ProposalRequest struct {
	// Text is the document content to analyze
	Text string

	// Level selects the analysis depth: spelling-only or full style review
	Level model.AnalysisLevel

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
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

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 2000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:   mc.Provider,
		Model:      mc.Model,
		APIKey:     mc.APIKey,
		BaseURL:    mc.BaseURL,
		Timeout:    mc.Timeout,
		MaxTokens:  mc.MaxTokens,
		HTTPProxy:  mc.HTTPProxy,
		HTTPSProxy: mc.HTTPSProxy,
		NoProxy:    mc.NoProxy,
	}
}

const proposalSystemPrompt = "You are a copy editor. You emit machine-readable correction proposals and nothing else."

// BuildPrompt constructs the default proposal prompt. The model is
// instructed to quote original text verbatim; resolution drops anything it
// invents.
func BuildPrompt(text string, level model.AnalysisLevel) string {
	kinds := `"spelling", "grammar", "passive-voice", "conciseness", "clarity", "tone", or "call-to-action"`
	if level == model.LevelSpelling {
		kinds = `"spelling"`
	}

	return fmt.Sprintf(`Review the document below and propose corrections.

For each issue, output one JSON object on its own line:
{"type": <kind>, "originalText": <exact text to replace>, "suggestedText": <replacement>, "explanation": <one short sentence>}

RULES:
1. "type" must be one of: %s.
2. "originalText" must quote the document VERBATIM, including spacing and punctuation. Do not paraphrase it.
3. Keep "originalText" short: the smallest span that needs to change.
4. Output only JSON objects, one per line. No prose, no markdown fences.
5. If the document needs no corrections, output nothing.

DOCUMENT:
%s`, kinds, text)
}
