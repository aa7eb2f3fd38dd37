// Package pipeline orchestrates a complete analysis pass: cache probe, model
// streaming, incremental decoding, and span resolution. Suggestions are
// delivered one at a time as they become resolvable, not batched at the end.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/proseflow/proseflow/internal/cache"
	"github.com/proseflow/proseflow/internal/decode"
	"github.com/proseflow/proseflow/internal/llm"
	"github.com/proseflow/proseflow/internal/model"
	"github.com/proseflow/proseflow/internal/resolve"
)

// ErrNoProvider is returned when analysis is requested but no LLM provider is
// configured or reachable.
var ErrNoProvider = errors.New("no LLM provider configured")

// Analyzer runs analysis passes against a provider, with an optional
// result cache in front
type Analyzer struct {
	provider llm.Provider
	cache    cache.Cache
	config   *model.Config
	logger   *slog.Logger
}

// NewAnalyzer creates an analyzer from the given configuration. A missing
// provider is not an error here; Analyze reports it per request.
func NewAnalyzer(cfg *model.Config, logger *slog.Logger) (*Analyzer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	return &Analyzer{
		provider: provider,
		cache:    c,
		config:   cfg,
		logger:   logger,
	}, nil
}

// NewAnalyzerWith builds an analyzer from explicit collaborators. Used by the
// server and tests, where the provider and cache are injected.
func NewAnalyzerWith(provider llm.Provider, c cache.Cache, cfg *model.Config, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		provider: provider,
		cache:    c,
		config:   cfg,
		logger:   logger,
	}
}

// Result is the outcome of one analysis pass
type Result struct {
	Suggestions []model.Suggestion
	CacheHit    bool
}

// Analyze runs one pass over text. Every resolved suggestion is handed to
// onSuggestion in stream order before being accumulated into the result; a
// non-nil callback error aborts the pass. On a cache hit the stored set is
// replayed through the same callback. Results are cached only when the
// upstream stream completed cleanly.
func (a *Analyzer) Analyze(ctx context.Context, text string, level model.AnalysisLevel, onSuggestion func(model.Suggestion) error) (*Result, error) {
	if text == "" {
		return nil, errors.New("text must not be empty")
	}
	if !level.IsValid() {
		level = model.LevelFull
	}
	if onSuggestion == nil {
		onSuggestion = func(model.Suggestion) error { return nil }
	}

	key := cache.Key(text, level)
	if a.cache != nil {
		if data, found := a.cache.Get(key); found {
			suggestions, err := cache.DecodeSuggestions(data)
			if err == nil {
				for _, s := range suggestions {
					if err := onSuggestion(s); err != nil {
						return nil, err
					}
				}
				a.logger.Debug("analysis served from cache", "suggestions", len(suggestions))
				return &Result{Suggestions: suggestions, CacheHit: true}, nil
			}
			// Corrupt entry: drop it and fall through to a fresh pass
			a.logger.Warn("discarding undecodable cache entry", "error", err)
			_ = a.cache.Delete(key)
		}
	}

	if a.provider == nil {
		return nil, ErrNoProvider
	}

	decoder := decode.NewDecoder()
	resolver := resolve.NewResolver(text, a.logger)
	var suggestions []model.Suggestion

	req := llm.ProposalRequest{Text: text, Level: level}
	streamErr := a.provider.Stream(ctx, req, func(chunk string) error {
		for _, c := range decoder.Feed(chunk) {
			start, end, ok := resolver.Resolve(c.OriginalLiteral)
			if !ok {
				a.logger.Debug("dropping unresolvable candidate",
					"kind", c.Kind, "literal", c.OriginalLiteral)
				continue
			}

			// The resolver may have anchored a trimmed form of the
			// literal; the stored original must match the buffer exactly.
			s := model.Suggestion{
				ID:               uuid.NewString(),
				Start:            start,
				End:              end,
				Kind:             c.Kind,
				OriginalLiteral:  text[start:end],
				SuggestedLiteral: c.SuggestedLiteral,
				Explanation:      c.Explanation,
				Priority:         c.Kind.Priority(),
			}

			if err := onSuggestion(s); err != nil {
				return err
			}
			suggestions = append(suggestions, s)
		}
		return nil
	})
	if streamErr != nil {
		// Deliver what resolved before the failure, but never cache a
		// truncated set
		return &Result{Suggestions: suggestions}, fmt.Errorf("analysis stream: %w", streamErr)
	}

	if pending := decoder.Pending(); pending > 0 {
		a.logger.Debug("stream ended with unterminated record", "pending_bytes", pending)
	}

	if a.cache != nil {
		if data, err := cache.EncodeSuggestions(suggestions); err == nil {
			if err := a.cache.Set(key, data, a.config.Cache.TTL); err != nil {
				a.logger.Warn("failed to cache analysis result", "error", err)
			}
		}
	}

	return &Result{Suggestions: suggestions}, nil
}

// HasCached reports whether a completed result for this exact text and level
// is already stored. Used to decide response headers before streaming starts.
func (a *Analyzer) HasCached(text string, level model.AnalysisLevel) bool {
	if a.cache == nil {
		return false
	}
	_, found := a.cache.Get(cache.Key(text, level))
	return found
}

// Provider returns the configured provider, or nil when analysis is disabled
func (a *Analyzer) Provider() llm.Provider {
	return a.provider
}
