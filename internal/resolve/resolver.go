// Package resolve maps correction candidates onto exact byte ranges in the
// canonical text. Resolution is best-effort: a literal the model hallucinated
// or that an edit removed simply fails to anchor and is dropped.
package resolve

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Resolver anchors candidate literals to unclaimed positions in a fixed text.
// Matching is case-insensitive, so a sentence-initial "The the" still anchors
// a lowercase candidate; the leftmost unclaimed occurrence wins. The
// used-anchor set persists across calls, so duplicate literals resolve
// left-to-right to distinct occurrences.
type Resolver struct {
	text   string
	folded string
	used   map[int]bool
	logger *slog.Logger
}

// NewResolver creates a resolver over one version of the canonical text
func NewResolver(text string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	// Lowercasing can change byte lengths for a handful of runes; when it
	// does, offsets into the folded text no longer map back and matching
	// stays exact.
	folded := strings.ToLower(text)
	if len(folded) != len(text) {
		folded = ""
	}
	return &Resolver{
		text:   text,
		folded: folded,
		used:   make(map[int]bool),
		logger: logger,
	}
}

// Resolve returns the best-matching [start, end) range for the literal, or
// ok=false when no unclaimed occurrence exists. Three passes, first success
// wins: a word-boundary-respecting scan, an unconstrained scan, then both
// again on the whitespace-trimmed literal.
func (r *Resolver) Resolve(literal string) (start, end int, ok bool) {
	if literal == "" {
		return 0, 0, false
	}

	if start, ok = r.scan(literal, true); ok {
		return r.claim(start, literal)
	}
	if start, ok = r.scan(literal, false); ok {
		return r.claim(start, literal)
	}

	trimmed := strings.TrimSpace(literal)
	if trimmed != "" && trimmed != literal {
		if start, ok = r.scan(trimmed, true); ok {
			return r.claim(start, trimmed)
		}
		if start, ok = r.scan(trimmed, false); ok {
			return r.claim(start, trimmed)
		}
	}

	r.logger.Debug("literal not found in text", "literal", literal)
	return 0, 0, false
}

// claim records the chosen anchor so later candidates cannot reuse it
func (r *Resolver) claim(start int, literal string) (int, int, bool) {
	r.used[start] = true
	return start, start + len(literal), true
}

// scan walks the text left to right for an unclaimed occurrence of the
// literal, ignoring case. With boundary set, an occurrence only counts when
// the characters immediately before and after it (or the buffer edges) are
// non-alphanumeric, so "stuf" never matches inside "stuff".
func (r *Resolver) scan(literal string, boundary bool) (int, bool) {
	haystack, needle := r.text, literal
	if r.folded != "" {
		if lower := strings.ToLower(literal); len(lower) == len(literal) {
			haystack, needle = r.folded, lower
		}
	}

	from := 0
	for {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return 0, false
		}
		pos := from + idx

		if !r.used[pos] && (!boundary || r.atBoundary(pos, pos+len(literal))) {
			return pos, true
		}

		from = pos + 1
	}
}

// atBoundary reports whether [start, end) is delimited by non-alphanumeric
// runes or the buffer edges
func (r *Resolver) atBoundary(start, end int) bool {
	if start > 0 {
		prev, _ := utf8.DecodeLastRuneInString(r.text[:start])
		if isWordRune(prev) {
			return false
		}
	}
	if end < len(r.text) {
		next, _ := utf8.DecodeRuneInString(r.text[end:])
		if isWordRune(next) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
