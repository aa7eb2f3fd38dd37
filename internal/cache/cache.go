// Package cache short-circuits repeat analysis of unchanged text. Entries
// are keyed by a content hash of the exact text and analysis level; a hit is
// only valid while the requested text is byte-identical to the hashed one.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/proseflow/proseflow/internal/model"
)

// Cache defines the interface for result caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from the analysis input. The level participates
// in the hash so "spelling" and "full" passes over the same text never
// collide.
func Key(text string, level model.AnalysisLevel) string {
	h := sha256.New()
	h.Write([]byte(level))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return "proseflow:v1:" + hex.EncodeToString(h.Sum(nil))
}

// EncodeSuggestions serializes a completed suggestion set for storage
func EncodeSuggestions(suggestions []model.Suggestion) ([]byte, error) {
	return json.Marshal(suggestions)
}

// DecodeSuggestions deserializes a stored suggestion set
func DecodeSuggestions(data []byte) ([]model.Suggestion, error) {
	var out []model.Suggestion
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
