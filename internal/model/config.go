package model

import "time"

// Config is the complete Proseflow configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Cache   CacheConfig   `yaml:"cache"`
	LLM     LLMConfig     `yaml:"llm"`
	Editor  EditorConfig  `yaml:"editor"`
	Batch   BatchConfig   `yaml:"batch"`
	Verbose bool          `yaml:"verbose"`
}

// ServerConfig controls the HTTP analysis endpoint
type ServerConfig struct {
	Addr string `yaml:"addr"` // listen address, e.g. ":8080"

	// Per-client rate limiting (requests per second with burst allowance)
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

// CacheConfig controls the analysis result cache
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// LLMConfig holds LLM provider configuration
type LLMConfig struct {
	// Provider name: "openai", "anthropic", "ollama", "" (disabled)
	Provider string `yaml:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model"`

	// APIKey for OpenAI/Anthropic (prefer env vars)
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string `yaml:"base_url,omitempty"`

	// Timeout for API requests, seconds
	Timeout int `yaml:"timeout"`

	// MaxTokens for response generation
	MaxTokens int `yaml:"max_tokens"`

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
	NoProxy    string `yaml:"no_proxy,omitempty"`
}

// EditorConfig controls editing-session behavior
type EditorConfig struct {
	// DebounceDelay coalesces keystroke bursts into one history checkpoint
	DebounceDelay time.Duration `yaml:"debounce_delay"`

	// MaxSnapshots bounds the undo stack
	MaxSnapshots int `yaml:"max_snapshots"`
}

// BatchConfig controls concurrent batch analysis
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:      ":8080",
			RateLimit: 1,
			RateBurst: 5,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             5 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:  "", // Disabled by default
			Timeout:   30,
			MaxTokens: 2000,
		},
		Editor: EditorConfig{
			DebounceDelay: 750 * time.Millisecond,
			MaxSnapshots:  200,
		},
		Batch: BatchConfig{
			Workers: 4,
		},
	}
}
